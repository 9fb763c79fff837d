package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var countriesAll bool

var countriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List country names in the atlas database",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openSource(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = src.Close() }()

		limit := 20
		if countriesAll {
			limit = 0
		}
		countries, err := src.ListCountries(cmd.Context(), limit)
		if err != nil {
			return err
		}

		fmt.Println("Countries in the database:")
		for _, c := range countries {
			fmt.Printf("- %s (%s)\n", c.Name, c.ISOCode)
		}
		return nil
	},
}

func init() {
	countriesCmd.Flags().BoolVar(&countriesAll, "all", false, "list every country instead of the first 20")
	countriesCmd.Flags().StringVar(&atlasPath, "db-path", "", "path to the Natural Earth SQLite database")
	rootCmd.AddCommand(countriesCmd)
}
