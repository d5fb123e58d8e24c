package types

import "time"

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`

	// Submission lifecycle
	VerifyDelay time.Duration `envconfig:"VERIFY_DELAY" default:"5s"`
	RewardMin   int           `envconfig:"REWARD_MIN" default:"50"`
	RewardMax   int           `envconfig:"REWARD_MAX" default:"249"`
	RandomSeed  uint64        `envconfig:"RANDOM_SEED"` // 0 seeds from the clock

	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
	SeedDemoData   bool  `envconfig:"SEED_DEMO_DATA" default:"false"`

	WalletCookieName string `envconfig:"WALLET_COOKIE_NAME" default:"serve_wallet"`
	WalletMaxAgeSec  int    `envconfig:"WALLET_MAX_AGE_SEC" default:"86400"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes
}
