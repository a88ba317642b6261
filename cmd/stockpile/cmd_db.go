package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/stockpile/app/services"
	"github.com/shashiranjanraj/stockpile/config"
	"github.com/shashiranjanraj/stockpile/database/seeders"
	"github.com/shashiranjanraj/stockpile/pkg/database"
	"github.com/shashiranjanraj/stockpile/pkg/migration"
	"github.com/shashiranjanraj/stockpile/pkg/storage"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return database.Connect()
}

// stockpile migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Running migrations…")
		return migration.New(database.DB).Run()
	},
}

// stockpile migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Rolling back last batch…")
		return migration.New(database.DB).Rollback()
	},
}

// stockpile migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		return migration.New(database.DB).Status()
	},
}

// stockpile seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Running seeders…")
		return seeders.RunAll(cmd.Context(), database.DB, os.Stdout)
	},
}

var importFlags struct {
	file string
	disk string
}

// stockpile import --file catalog.json [--disk s3]
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a catalog document from a storage disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		ctx := cmd.Context()
		storage.Connect(ctx)

		disk, err := storage.Use(importFlags.disk)
		if err != nil {
			return err
		}
		rep, err := services.NewImportService(database.DB).ImportFile(ctx, disk, importFlags.file)
		if err != nil {
			return err
		}
		fmt.Printf("✅ Import complete: %s\n", rep)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFlags.file, "file", "", "path of the catalog JSON on the disk")
	importCmd.Flags().StringVar(&importFlags.disk, "disk", "", "storage disk to read from (default STORAGE_DISK)")
	_ = importCmd.MarkFlagRequired("file")
}
