package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/atlasworks/territory-cli/internal/atlas"
	"github.com/atlasworks/territory-cli/internal/frame"
	"github.com/atlasworks/territory-cli/internal/render"
	"github.com/atlasworks/territory-cli/internal/territory"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve territory analysis and map rendering over HTTP",
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
		limiter := rate.NewLimiter(rate.Limit(cfg.Server.RendersPerSecond), cfg.Server.RenderBurst)

		r := chi.NewRouter()
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Get("/api/analyze/{country}", func(w http.ResponseWriter, req *http.Request) {
			country := chi.URLParam(req, "country")
			threshold := territory.DefaultThreshold
			if t := req.URL.Query().Get("threshold"); t != "" {
				v, err := strconv.ParseFloat(t, 64)
				if err != nil || v <= 0 || v > 1 {
					writeJSON(w, http.StatusBadRequest, map[string]string{"error": "threshold must be in (0, 1]"})
					return
				}
				threshold = v
			}

			classifier := territory.NewClassifier(territory.WithThreshold(threshold))
			c := render.NewComposer(src, render.WithClassifier(classifier))
			result, err := c.Analyze(req.Context(), country)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, territory.Summarize(result))
		})

		r.Get("/api/map/{country}", func(w http.ResponseWriter, req *http.Request) {
			if !limiter.Allow() {
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "render rate limit exceeded"})
				return
			}

			renderID := uuid.New().String()
			country := chi.URLParam(req, "country")
			log := zap.L().With(
				zap.String("render_id", renderID),
				zap.String("country", country),
			)

			reqConfig := rc
			reqConfig.OutputPath = ""
			if v := req.URL.Query().Get("target_percentage"); v != "" {
				f, err := strconv.ParseFloat(v, 64)
				if err != nil || f <= 0 || f > 1 {
					writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target_percentage must be in (0, 1]"})
					return
				}
				reqConfig.TargetPercentage = f
			}
			if v := req.URL.Query().Get("exclude_exclaves"); v != "" {
				reqConfig.ExcludeExclaves = v == "true"
			}

			start := time.Now()
			result, err := composer.RenderMap(req.Context(), render.MapRequest{
				Country:           country,
				Language:          req.URL.Query().Get("language"),
				Config:            reqConfig,
				ShowTerritoryInfo: true,
			})
			if err != nil {
				log.Error("map render failed", zap.Error(err))
				writeError(w, err)
				return
			}
			log.Info("map rendered",
				zap.Duration("elapsed", time.Since(start)),
				zap.Int("neighbors", len(result.Neighbors)),
				zap.String("territory_type", result.Classification.GeometryType.String()),
			)

			w.Header().Set("Content-Type", "image/png")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(result.PNG)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			zap.L().Info("server listening", zap.Int("port", port))
			errCh <- srv.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return eris.Wrap(err, "serve")
		}
	},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case eris.Is(err, atlas.ErrCountryNotFound):
		status = http.StatusNotFound
	case eris.Is(err, territory.ErrGeometryType),
		eris.Is(err, territory.ErrDegenerateGeometry),
		eris.Is(err, frame.ErrInvalidBounds):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
