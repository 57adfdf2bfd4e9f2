// Command schoolctl runs administrative tasks against the SchoolManager database.
package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yigit/schoolmanager/internal/pkg/logger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("schoolctl failed")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "schoolctl",
		Usage: "SchoolManager administration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "configs/config.yaml",
				Usage:   "path to the YAML config file",
				EnvVars: []string{"SCHOOLMANAGER_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			seedCommand(),
			importRosterCommand(),
			tokenCommand(),
		},
	}
}
