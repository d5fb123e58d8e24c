package main

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"

	"servenet/internal/store"
	"servenet/pkg/types"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

func loadConfig(prefix string) (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process(prefix, c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.ServerPort == 0 {
		c.ServerPort = 8080
	}

	if c.RewardMin < 0 {
		return nil, fmt.Errorf("REWARD_MIN must not be negative, got %d", c.RewardMin)
	}

	// a zero ceiling would make every reward 0 and withdrawals impossible
	if c.RewardMax < 1 {
		return nil, fmt.Errorf("REWARD_MAX must be at least 1, got %d", c.RewardMax)
	}

	if c.RewardMax < c.RewardMin {
		return nil, fmt.Errorf("REWARD_MAX (%d) must not be below REWARD_MIN (%d)", c.RewardMax, c.RewardMin)
	}

	if c.VerifyDelay <= 0 {
		return nil, fmt.Errorf("VERIFY_DELAY must be positive, got %s", c.VerifyDelay)
	}

	return c, nil
}

func newLogger(c *types.Config) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}
	logger.SetLevel(level)

	return logger, nil
}

// storeOptions builds per-wallet store options. A non-zero seed makes every
// wallet's ids and rewards reproducible across restarts.
func storeOptions(c *types.Config, logger logrus.FieldLogger, wallet string) store.Options {
	opts := store.Options{
		Logger:    logger.WithField("wallet", wallet),
		Delay:     c.VerifyDelay,
		RewardMin: c.RewardMin,
		RewardMax: c.RewardMax,
	}

	if c.RandomSeed != 0 {
		h := fnv.New64a()
		_, _ = h.Write([]byte(wallet))
		opts.Random = rand.New(rand.NewPCG(c.RandomSeed, h.Sum64()))
	}

	return opts
}
