package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yigit/schoolmanager/internal/pkg/logger"
	"github.com/yigit/schoolmanager/internal/server"
)

// @title SchoolManager API
// @version 1.0
// @description Schools, divisions, subjects, students, teachers and marks.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Teacher token issued by POST /teacherView/session

func main() {
	app := &cli.App{
		Name:  "schoolmanager",
		Usage: "run the SchoolManager HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "configs/config.yaml", Usage: "path to the YAML config file"},
			&cli.BoolFlag{Name: "memory", Usage: "use the in-memory store instead of Postgres"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal().Err(err).Msg("Server execution failed or shutdown encountered errors")
	}
	logger.Info().Msg("Application finished gracefully.")
}

func run(c *cli.Context) error {
	if c.Bool("memory") {
		// picked up by the env override pass of the config loader
		if err := os.Setenv("SERVER_MEMORY_STORE", "true"); err != nil {
			return err
		}
	}

	srv, err := server.NewServer(c.String("config"))
	if err != nil {
		return err
	}

	// Run blocks until shutdown
	return srv.Run()
}
