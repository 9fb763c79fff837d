package main

import (
	"fmt"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atlasworks/territory-cli/internal/render"
)

var (
	batchLanguage    string
	batchConcurrency int
)

var batchCmd = &cobra.Command{
	Use:   "batch <country>...",
	Short: "Render maps for several countries concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		src, err := openSource(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = src.Close() }()

		rc, err := renderConfig()
		if err != nil {
			return err
		}

		composer := render.NewComposer(src)

		var rendered atomic.Int64
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(batchConcurrency)
		for _, country := range args {
			g.Go(func() error {
				countryConfig := rc
				countryConfig.OutputPath = defaultOutputPath(country)
				_, err := composer.RenderMap(ctx, render.MapRequest{
					Country:           country,
					Language:          batchLanguage,
					Config:            countryConfig,
					ShowTerritoryInfo: true,
				})
				if err != nil {
					zap.L().Error("batch render failed",
						zap.String("country", country),
						zap.Error(err),
					)
					return err
				}
				rendered.Add(1)
				return nil
			})
		}
		err = g.Wait()
		fmt.Printf("Rendered %d of %d maps\n", rendered.Load(), len(args))
		return err
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchLanguage, "language", "l", "en", "language code for country labels")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "max concurrent renders")
	rootCmd.AddCommand(batchCmd)
}
