package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/karnalakavya0/hospital-readmission-proj/internal/platform"
)

func newMigrateCmd(g *globalOpts) *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema for admissions and the export ledger",
	}
	cmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Postgres connection string (default: archive.dsn, then source.dsn)")

	open := func() (*sql.DB, error) {
		cfg, err := loadConfig(g)
		if err != nil {
			return nil, err
		}
		d := firstNonEmpty(dsn, cfg.Archive.DSN, cfg.Source.DSN)
		if d == "" {
			return nil, fmt.Errorf("no database configured: pass --dsn or set archive.dsn")
		}
		db, err := sql.Open("postgres", d)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		return db, nil
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			defer db.Close()
			if err := platform.AutoMigrate(db); err != nil {
				return err
			}
			return printVersion(db)
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			defer db.Close()
			if err := platform.MigrateDown(db, steps); err != nil {
				return err
			}
			return printVersion(db)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	status := &cobra.Command{
		Use:   "version",
		Short: "Show the schema version and embedded migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := platform.Migrations()
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Println(n)
			}
			db, err := open()
			if err != nil {
				return err
			}
			defer db.Close()
			return printVersion(db)
		},
	}

	cmd.AddCommand(up, down, status)
	return cmd
}

func printVersion(db *sql.DB) error {
	v, dirty, err := platform.SchemaVersion(db)
	if err != nil {
		return err
	}
	state := "clean"
	if dirty {
		state = "dirty"
	}
	fmt.Fprintf(os.Stderr, "Schema version: %d (%s)\n", v, state)
	return nil
}
