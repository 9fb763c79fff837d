package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atlasworks/territory-cli/internal/lang"
	"github.com/atlasworks/territory-cli/internal/render"
)

var (
	mapOutput            string
	mapLanguage          string
	mapTargetPercentage  float64
	mapExcludeExclaves   bool
	mapNoLabels          bool
	mapLabelType         string
	mapBorderWidth       float64
	mapShowTerritoryInfo bool
)

var mapCmd = &cobra.Command{
	Use:   "map <country>",
	Short: "Render a map of a country and its neighbors",
	Long: `Renders a PNG map highlighting the target country and its neighbors. The view
is framed so the target occupies a configurable share of the image area;
detached minor territories can be excluded from the framing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		country := args[0]

		if mapLanguage != "" && !lang.IsSupported(mapLanguage) {
			return fmt.Errorf("unsupported language code %q; run 'territory languages' for options", mapLanguage)
		}

		src, err := openSource(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = src.Close() }()

		rc, err := renderConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("target-percentage") {
			rc.TargetPercentage = mapTargetPercentage
		}
		if cmd.Flags().Changed("exclude-exclaves") {
			rc.ExcludeExclaves = mapExcludeExclaves
		}
		if cmd.Flags().Changed("border-width") {
			rc.BorderWidth = mapBorderWidth
		}
		if mapLabelType != "" {
			rc.LabelType = render.LabelType(mapLabelType)
		}
		rc.ShowLabels = !mapNoLabels
		rc.OutputPath = mapOutput
		if rc.OutputPath == "" {
			rc.OutputPath = defaultOutputPath(country)
		}

		composer := render.NewComposer(src)
		result, err := composer.RenderMap(cmd.Context(), render.MapRequest{
			Country:           country,
			Language:          mapLanguage,
			Config:            rc,
			ShowTerritoryInfo: mapShowTerritoryInfo,
		})
		if err != nil {
			return err
		}

		if result.ExcludedPercentage > 0 {
			fmt.Printf("Excluding exclaves: only the main landmass (%.1f%% of total area) frames the view\n",
				result.ExcludedPercentage)
		}
		fmt.Printf("Created map for %s with %d neighbors\n", country, len(result.Neighbors))
		fmt.Printf("Map saved to: %s\n", rc.OutputPath)
		return nil
	},
}

func init() {
	mapCmd.Flags().StringVarP(&mapOutput, "output", "o", "", "output path for the map image (default: <output-dir>/<country>.png)")
	mapCmd.Flags().StringVarP(&mapLanguage, "language", "l", "en", "language code for country labels")
	mapCmd.Flags().Float64Var(&mapTargetPercentage, "target-percentage", 0.3, "share of the image area occupied by the target country")
	mapCmd.Flags().BoolVar(&mapExcludeExclaves, "exclude-exclaves", true, "frame the view on the main landmass only")
	mapCmd.Flags().BoolVar(&mapNoLabels, "no-labels", false, "do not draw country labels")
	mapCmd.Flags().StringVar(&mapLabelType, "label-type", "", "label type: 'name' or 'code'")
	mapCmd.Flags().Float64Var(&mapBorderWidth, "border-width", 1.5, "country border width in pixels")
	mapCmd.Flags().BoolVar(&mapShowTerritoryInfo, "show-territory-info", false, "append the territory classification to the map title")
	mapCmd.Flags().StringVar(&atlasPath, "db-path", "", "path to the Natural Earth SQLite database")
	rootCmd.AddCommand(mapCmd)
}
