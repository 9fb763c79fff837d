package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atlasworks/territory-cli/internal/lang"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List supported label languages",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Supported languages for map labels:")
		for _, info := range lang.DisplayInfo() {
			fmt.Printf("%-5s - %s\n", info.Code, info.Name)
		}
		fmt.Println("\nUse --language CODE with the map command (e.g., --language fr)")
	},
}

func init() { rootCmd.AddCommand(languagesCmd) }
