package main

import (
	"testing"
	"time"

	"servenet/internal/store"
	"servenet/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("SERVENETTEST")
	require.NoError(t, err)

	assert.Equal(t, uint(8080), cfg.ServerPort)
	assert.Equal(t, 5*time.Second, cfg.VerifyDelay)
	assert.Equal(t, 50, cfg.RewardMin)
	assert.Equal(t, 249, cfg.RewardMax)
	assert.Equal(t, "serve_wallet", cfg.WalletCookieName)
	assert.False(t, cfg.SeedDemoData)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SERVENETTEST_VERIFY_DELAY", "250ms")
	t.Setenv("SERVENETTEST_RANDOM_SEED", "42")
	t.Setenv("SERVENETTEST_SERVER_PORT", "9090")

	cfg, err := loadConfig("SERVENETTEST")
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.VerifyDelay)
	assert.Equal(t, uint64(42), cfg.RandomSeed)
	assert.Equal(t, uint(9090), cfg.ServerPort)
}

func TestLoadConfigRejectsInvertedRewardRange(t *testing.T) {
	t.Setenv("SERVENETTEST_REWARD_MIN", "300")
	t.Setenv("SERVENETTEST_REWARD_MAX", "100")

	_, err := loadConfig("SERVENETTEST")
	assert.Error(t, err)
}

func TestLoadConfigRejectsUnusableRewards(t *testing.T) {
	cases := map[string][2]string{
		"negative min": {"-10", "100"},
		"zero range":   {"0", "0"},
	}

	for name, bounds := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("SERVENETTEST_REWARD_MIN", bounds[0])
			t.Setenv("SERVENETTEST_REWARD_MAX", bounds[1])

			_, err := loadConfig("SERVENETTEST")
			assert.Error(t, err)
		})
	}
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := newLogger(&types.Config{LogLevel: "chatty"})
	assert.Error(t, err)

	logger, err := newLogger(&types.Config{LogLevel: "debug"})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestStoreOptionsSeedPerWallet(t *testing.T) {
	cfg := &types.Config{VerifyDelay: time.Second, RewardMin: 50, RewardMax: 249, RandomSeed: 7}
	logger := logrus.New()

	a := store.NewSubmissionStore(storeOptions(cfg, logger, "0xaaa"))
	again := store.NewSubmissionStore(storeOptions(cfg, logger, "0xaaa"))
	b := store.NewSubmissionStore(storeOptions(cfg, logger, "0xbbb"))
	defer a.Reset()
	defer again.Reset()
	defer b.Reset()

	idA := a.Submit(types.SubmissionForm{}).ID
	assert.Equal(t, idA, again.Submit(types.SubmissionForm{}).ID)
	assert.NotEqual(t, idA, b.Submit(types.SubmissionForm{}).ID)

	unseeded := storeOptions(&types.Config{VerifyDelay: time.Second}, logger, "0xaaa")
	assert.Nil(t, unseeded.Random)
}
