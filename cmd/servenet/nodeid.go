package main

import (
	"fmt"
	"math/rand/v2"

	"servenet/internal/utils"

	"github.com/urfave/cli/v2"
)

var nodeIDCommand = &cli.Command{
	Name:  "nodeid",
	Usage: "Generate node IDs in the dashboard's format",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"c"},
			Usage:   "Number of IDs to generate",
			Value:   1,
		},
		&cli.Uint64Flag{
			Name:  "seed",
			Usage: "Draw IDs from a seeded source instead of crypto/rand",
		},
	},
	Action: func(c *cli.Context) error {
		count := c.Int("count")

		if seed := c.Uint64("seed"); seed != 0 {
			rng := rand.New(rand.NewPCG(seed, seed))
			for range count {
				fmt.Println(utils.NodeIDFrom(rng))
			}
			return nil
		}

		for range count {
			fmt.Println(utils.NodeID())
		}
		return nil
	},
}
