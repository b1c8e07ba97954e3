package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khanhnv2901/tlsaudit-cli/internal/api"
	"github.com/khanhnv2901/tlsaudit-cli/internal/report"
	sharederrors "github.com/khanhnv2901/tlsaudit-cli/internal/shared/errors"
	"github.com/khanhnv2901/tlsaudit-cli/internal/validator"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run TLSAudit as a REST API service",
	RunE: func(cmd *cobra.Command, args []string) error {
		setStringFlagIfUnset(cmd.Flags(), "addr", cliConfig.Serve.Addr)

		addr, _ := cmd.Flags().GetString("addr")
		authToken, _ := cmd.Flags().GetString("auth-token")
		shutdownTimeout, _ := cmd.Flags().GetDuration("shutdown-timeout")
		corsOrigins, _ := cmd.Flags().GetStringSlice("cors-origins")
		rateLimit, _ := cmd.Flags().GetInt("rate-limit")
		rateBurst, _ := cmd.Flags().GetInt("rate-burst")

		applyIntDefault(cmd.Flags(), "rate-limit", cliConfig.Serve.RateLimit, func(v int) { rateLimit = v })
		applyIntDefault(cmd.Flags(), "rate-burst", cliConfig.Serve.RateBurst, func(v int) { rateBurst = v })

		// Request-scoped structured logger for the API path
		apiLogger, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() {
			if err := apiLogger.Sync(); err != nil {
				fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
			}
		}()

		server := api.NewServer(api.Config{
			Validator:   &validateAPIService{},
			AuthToken:   authToken,
			Version:     Version,
			Logger:      apiLogger,
			CORSOrigins: corsOrigins,
			RateLimit:   rateLimit,
			RateBurst:   rateBurst,
		})

		httpServer := &http.Server{
			Addr:         addr,
			Handler:      server,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("%s API server listening on %s\n", colorInfo("→"), addr)
			fmt.Printf("%s Press Ctrl+C to gracefully shutdown\n", colorInfo("→"))
			serverErrors <- httpServer.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
		case sig := <-shutdown:
			fmt.Printf("\n%s Received signal %v, initiating graceful shutdown...\n", colorInfo("→"), sig)

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(ctx); err != nil {
				if closeErr := httpServer.Close(); closeErr != nil {
					return fmt.Errorf("failed to gracefully shutdown server: %w (close error: %v)", err, closeErr)
				}
				return fmt.Errorf("failed to gracefully shutdown server: %w", err)
			}

			fmt.Printf("%s Server shutdown complete\n", colorSuccess("✓"))
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", defaultServeAddr, "Address for the API server")
	serveCmd.Flags().String("auth-token", "", "Optional shared secret for API requests")
	serveCmd.Flags().Duration("shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")
	serveCmd.Flags().StringSlice("cors-origins", []string{}, "Allowed CORS origins (empty = allow all)")
	serveCmd.Flags().Int("rate-limit", defaultServeRateLimit, "Rate limit per IP (requests/second, 0 = disabled)")
	serveCmd.Flags().Int("rate-burst", defaultServeRateBurst, "Rate limit burst size")
}

// validateAPIService adapts the single-file evaluation path for the API:
// the config text arrives in the request body instead of a file.
type validateAPIService struct{}

func (s *validateAPIService) Validate(ctx context.Context, req api.ValidateRequest) (*report.Report, error) {
	if strings.TrimSpace(req.Config) == "" {
		return nil, sharederrors.ErrEmptyRequestConfig
	}

	dialect, err := validator.ResolveDialect(req.Config, req.ServerType)
	if err != nil {
		return nil, err
	}

	result := validator.Evaluate(req.Config, dialect)
	if req.Strict {
		result = result.ApplyStrict()
	}

	name := req.Filename
	if name == "" {
		name = "(inline)"
	}
	rep := report.New(Version, name, dialect, result, time.Now())
	return &rep, nil
}
