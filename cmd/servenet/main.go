package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "servenet",
		Usage: "Serve Network landing page and mock contributor dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-prefix",
				Aliases: []string{"p"},
				Usage:   "Environment variable prefix",
				EnvVars: []string{"SERVENET_ENV_PREFIX"},
			},
		},
		Commands: []*cli.Command{
			serveCommand,
			simulateCommand,
			nodeIDCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
