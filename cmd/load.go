package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atlasworks/territory-cli/internal/shapeload"
)

var loadDBPath string

var loadCmd = &cobra.Command{
	Use:   "load <shapefile>",
	Short: "Import a Natural Earth countries shapefile into the atlas database",
	Long: `Reads an admin-0 countries shapefile and loads every record into the SQLite
atlas database, encoding geometries as WKB. Run once before using the other
commands against a fresh database.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := loadDBPath
		if path == "" {
			path = cfg.Atlas.Path
		}

		db, err := shapeload.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		n, err := shapeload.Load(cmd.Context(), db, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Loaded %d countries into %s\n", n, path)
		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadDBPath, "db-path", "", "path to the SQLite atlas database to create or extend")
	rootCmd.AddCommand(loadCmd)
}
