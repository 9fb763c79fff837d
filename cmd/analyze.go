package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atlasworks/territory-cli/internal/render"
	"github.com/atlasworks/territory-cli/internal/territory"
)

var (
	analyzeThreshold float64
	analyzeJSON      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <country>",
	Short: "Classify a country's territorial structure",
	Long: `Analyzes a country's geometry and classifies it as a continuous territory,
an island nation, or a country with exclaves, with per-fragment statistics.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openSource(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = src.Close() }()

		classifier := territory.NewClassifier(territory.WithThreshold(analyzeThreshold))
		composer := render.NewComposer(src, render.WithClassifier(classifier))

		result, err := composer.Analyze(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if analyzeJSON {
			out, err := json.MarshalIndent(territory.Summarize(result), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		fmt.Printf("Country: %s\n", result.CountryName)
		fmt.Printf("Territory Type: %s\n", result.GeometryType)
		fmt.Printf("Polygon Count: %d\n", result.FragmentCount)
		fmt.Printf("Total Area: %.2f square units\n", result.TotalArea)

		if result.FragmentCount > 1 {
			fmt.Printf("Largest Polygon: %.2f%% of total area\n", result.MainFragmentPercentage)
			fmt.Printf("Max Distance Between Polygons: %.2f units\n", result.MaxCentroidDistance)

			fmt.Println("\nTerritories:")
			for i, t := range result.Fragments {
				fmt.Printf("  %d. Area: %.2f sq units (%.2f%% of total), Centroid: (%.4f, %.4f)\n",
					i+1, t.Area, t.Percentage, t.Centroid[0], t.Centroid[1])
			}
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().Float64Var(&analyzeThreshold, "threshold", territory.DefaultThreshold,
		"dominance threshold for a single main landmass (0-1)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output territory information as JSON")
	analyzeCmd.Flags().StringVar(&atlasPath, "db-path", "", "path to the Natural Earth SQLite database")
	rootCmd.AddCommand(analyzeCmd)
}
