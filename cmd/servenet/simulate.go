package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"servenet/internal/seed"
	"servenet/internal/store"
	"servenet/pkg/types"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var simulateCommand = &cli.Command{
	Name:  "simulate",
	Usage: "Run submissions through the verification lifecycle and print the result",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "fixture",
			Aliases: []string{"f"},
			Usage:   "YAML file of observations (defaults to the built-in demo set)",
		},
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"c"},
			Usage:   "Submit only the first N observations (0 for all)",
		},
		&cli.Uint64Flag{
			Name:  "seed",
			Usage: "Random seed for ids and rewards (0 seeds from the clock)",
		},
		&cli.DurationFlag{
			Name:  "delay",
			Usage: "Verification delay",
			Value: 2 * time.Second,
		},
		&cli.BoolFlag{
			Name:  "withdraw",
			Usage: "Withdraw rewards once everything is verified",
			Value: true,
		},
	},
	Action: simulate,
}

func simulate(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	forms := seed.DemoObservations
	if path := cCtx.String("fixture"); path != "" {
		loaded, err := seed.LoadFixture(path)
		if err != nil {
			return err
		}
		forms = loaded
	}
	if n := cCtx.Int("count"); n > 0 && n < len(forms) {
		forms = forms[:n]
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	opts := store.Options{
		Logger: logger,
		Delay:  cCtx.Duration("delay"),
	}
	if s := cCtx.Uint64("seed"); s != 0 {
		opts.Random = rand.New(rand.NewPCG(s, s))
	}

	st := store.NewSubmissionStore(opts)
	defer st.Reset()

	created := seed.SeedObservations(st, forms)
	fmt.Printf("Submitted %d observations, waiting %s for verification\n", len(created), opts.Delay)

	if err := waitForVerification(ctx, st); err != nil {
		return err
	}

	printer := pp.New()
	printer.SetColoringEnabled(false)
	for _, sub := range store.Validated(st.List()) {
		printer.Println(sub)
	}

	summary := st.Summary()
	fmt.Printf("Validated %d of %d nodes, %d SERVE earned\n", summary.ValidatedCount, summary.Submitted, summary.TotalEarned)

	if !cCtx.Bool("withdraw") {
		return nil
	}

	amount, err := st.Withdraw()
	if errors.Is(err, types.ErrNothingToWithdraw) {
		fmt.Println("Nothing to withdraw")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Withdrew %d SERVE\n", amount)

	return nil
}

func waitForVerification(ctx context.Context, st *store.SubmissionStore) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for st.Summary().PendingCount > 0 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("simulation interrupted: %w", ctx.Err())
		case <-ticker.C:
		}
	}
	return nil
}
