package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	appMigrations "github.com/yigit/schoolmanager/internal/app/migrations"
	appRepos "github.com/yigit/schoolmanager/internal/app/repositories"
	appServices "github.com/yigit/schoolmanager/internal/app/services"
	"github.com/yigit/schoolmanager/internal/bootstrap"
	"github.com/yigit/schoolmanager/internal/config"
	"github.com/yigit/schoolmanager/internal/db"
	"github.com/yigit/schoolmanager/internal/seed"
)

// env is what every command needs: config, logger and an open database
type env struct {
	cfg      *config.Config
	lgr      zerolog.Logger
	database *db.PostgresDB
}

func openEnv(c *cli.Context) (*env, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(c.String("config"))
	if err != nil {
		return nil, err
	}
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, lgr: lgr, database: database}, nil
}

func (e *env) repos() *appRepos.Repositories {
	return appRepos.NewRepositories(e.database.Pool)
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply pending SQL migrations",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "status", Usage: "only list the applied versions"},
		},
		Action: func(c *cli.Context) error {
			e, err := openEnv(c)
			if err != nil {
				return err
			}
			defer e.database.Close()

			migrator := appMigrations.NewMigrator(e.database.Pool)
			if !c.Bool("status") {
				if err := migrator.MigrateFromDirectory(c.Context, e.cfg.Server.MigrationsPath); err != nil {
					return err
				}
			}

			versions, err := migrator.AppliedVersions(c.Context)
			if err != nil {
				return err
			}
			for _, v := range versions {
				fmt.Fprintln(c.App.Writer, v)
			}
			return nil
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "create the default school when the database is empty",
		Action: func(c *cli.Context) error {
			e, err := openEnv(c)
			if err != nil {
				return err
			}
			defer e.database.Close()

			created, err := seed.CreateDefaultData(c.Context, e.repos(), e.lgr)
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintln(c.App.Writer, "schools already present, nothing to do")
			}
			return nil
		},
	}
}

func importRosterCommand() *cli.Command {
	return &cli.Command{
		Name:      "import-roster",
		Usage:     "create students from an .xlsx roster",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "school", Required: true, Usage: "school id"},
			&cli.Int64Flag{Name: "division", Required: true, Usage: "division id"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("import-roster expects exactly one FILE argument", 2)
			}
			f, err := os.Open(c.Args().First())
			if err != nil {
				return err
			}
			defer f.Close()

			e, err := openEnv(c)
			if err != nil {
				return err
			}
			defer e.database.Close()

			result, err := appServices.NewRosterService(e.repos()).ImportStudents(c.Context, c.Int64("school"), c.Int64("division"), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "created %d students, rejected rows %v\n", len(result.Created), result.Rejected)
			return nil
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "print a teacher token for the teacher view",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "teacher", Required: true, Usage: "teacher id"},
		},
		Action: func(c *cli.Context) error {
			e, err := openEnv(c)
			if err != nil {
				return err
			}
			defer e.database.Close()

			jwtService, err := bootstrap.NewJWTService(e.cfg)
			if err != nil {
				return err
			}
			session, err := appServices.NewTeacherViewService(e.repos(), jwtService).StartSession(c.Context, c.Int64("teacher"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, session.Token)
			return nil
		},
	}
}
