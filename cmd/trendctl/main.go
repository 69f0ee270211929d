// Command trendctl is the TrendLens query CLI.
//
// Usage:
//
//	trendctl validate -f query.json
//	trendctl cache-key -f query.json
//	trendctl query -f query.json --dataset matches.json
//	DATABASE_URL=... trendctl query -f query.json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pitchside/trendlens/internal/config"
	"github.com/pitchside/trendlens/internal/db"
	"github.com/pitchside/trendlens/internal/store"
	"github.com/pitchside/trendlens/internal/trend"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "trendctl",
		Short:         "TrendLens trend query CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(validateCmd())
	root.AddCommand(cacheKeyCmd())
	root.AddCommand(queryCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadQuery reads and validates a query document from a file.
func loadQuery(path string) (*trend.TrendQuery, error) {
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read query file: %w", err)
	}
	return trend.ParseAndValidate(doc)
}

// reportViolations prints every violation of a failed validation.
func reportViolations(err error) error {
	var verrs *trend.ValidationErrors
	if errors.As(err, &verrs) {
		for _, v := range verrs.Violations {
			fmt.Fprintf(os.Stderr, "%s  %s: %s\n", v.Code, v.Path, v.Message)
		}
		return fmt.Errorf("query failed validation with %d violation(s)", len(verrs.Violations))
	}
	return err
}

// --------------------------------------------------------------------------
// validate command
// --------------------------------------------------------------------------

func validateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a query document and print its canonical form",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := loadQuery(file)
			if err != nil {
				return reportViolations(err)
			}
			fmt.Println(string(trend.CanonicalJSON(*q)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Query document (JSON)")
	cmd.MarkFlagRequired("file")
	return cmd
}

// --------------------------------------------------------------------------
// cache-key command
// --------------------------------------------------------------------------

func cacheKeyCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "cache-key",
		Short: "Print the canonical cache key of a query document",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := loadQuery(file)
			if err != nil {
				return reportViolations(err)
			}
			fmt.Println(trend.CacheKey(*q))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Query document (JSON)")
	cmd.MarkFlagRequired("file")
	return cmd
}

// --------------------------------------------------------------------------
// query command
// --------------------------------------------------------------------------

func queryCmd() *cobra.Command {
	var file, dataset string
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a query against Postgres or an offline JSON dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := loadQuery(file)
			if err != nil {
				return reportViolations(err)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			source, cfg, cleanup, err := openSource(ctx, dataset)
			if err != nil {
				return err
			}
			defer cleanup()

			engine := trend.New(source, cfg.TrendConfig(), logger)
			result, err := engine.Run(ctx, *q)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Query document (JSON)")
	cmd.Flags().StringVar(&dataset, "dataset", "", "Offline dataset file (JSON); omit to use DATABASE_URL")
	cmd.MarkFlagRequired("file")
	return cmd
}

// openSource picks the row source: an offline dataset when given,
// otherwise a Postgres pool from the environment configuration.
func openSource(ctx context.Context, dataset string) (trend.RowSource, *config.Config, func(), error) {
	if dataset != "" {
		ds, err := store.LoadDataset(dataset)
		if err != nil {
			return nil, nil, nil, err
		}
		return store.NewMemorySource(ds), config.LoadOffline(), func() {}, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	pool, err := db.New(ctx, cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	return store.NewPostgresSource(pool.Pool), cfg, pool.Close, nil
}
