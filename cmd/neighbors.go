package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var neighborsCmd = &cobra.Command{
	Use:   "neighbors <country>",
	Short: "List countries bordering the given country",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openSource(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = src.Close() }()

		neighbors, err := src.Neighbors(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].Name < neighbors[j].Name })

		fmt.Printf("%s's neighbors:\n", args[0])
		for _, n := range neighbors {
			fmt.Printf("- %s (%s)\n", n.Name, n.ISOCode)
		}
		return nil
	},
}

func init() {
	neighborsCmd.Flags().StringVar(&atlasPath, "db-path", "", "path to the Natural Earth SQLite database")
	rootCmd.AddCommand(neighborsCmd)
}
