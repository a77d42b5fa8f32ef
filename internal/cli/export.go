// Package cli holds the roadside-export command.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/roadside-plus/backend/internal/config"
	"github.com/roadside-plus/backend/internal/db"
	"github.com/roadside-plus/backend/internal/export"
	"github.com/roadside-plus/backend/internal/models"
)

// Version is set at build time.
var Version = "0.1.0"

type exportOptions struct {
	dataType string
	format   string
	outDir   string
	stdout   bool
	fromDB   bool
	limit    int
	verbose  bool

	now func() time.Time
}

// NewExportCmd builds the root command. now may be nil.
func NewExportCmd(now func() time.Time) *cobra.Command {
	opts := &exportOptions{now: now}

	cmd := &cobra.Command{
		Use:   "roadside-export [input.json]",
		Short: "Export a RoadSide+ dataset to CSV or a printable report",
		Long: `Export a dataset to CSV or to the printable report served as application/pdf.

Records are read from a JSON array file ("-" reads stdin), or from the
dataset store when --from-db is set.

Examples:
  roadside-export customers.json --type customers
  roadside-export alerts.json --type system_alerts --format pdf --out ./exports
  cat requests.json | roadside-export - --type emergency_requests --stdout
  roadside-export --from-db --type technicians --limit 200`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dataType, "type", "t", "", "dataset kind, e.g. customers or system_alerts")
	cmd.Flags().StringVarP(&opts.format, "format", "f", export.FormatCSV, "output format: csv or pdf")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", ".", "directory to write the export into")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "write the document to stdout instead of a file")
	cmd.Flags().BoolVar(&opts.fromDB, "from-db", false, "read records from DATABASE_URL instead of a file")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "max records to read with --from-db (0 uses DATASET_LIMIT)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

// Execute runs the command against os.Args.
func Execute() error {
	return NewExportCmd(nil).Execute()
}

func runExport(cmd *cobra.Command, args []string, opts *exportOptions) error {
	level := zerolog.InfoLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var (
		records []models.Record
		err     error
	)
	switch {
	case opts.fromDB:
		if len(args) > 0 {
			return errors.New("an input file cannot be combined with --from-db")
		}
		records, err = loadFromStore(ctx, opts, logger)
	case len(args) == 1:
		records, err = loadFromFile(args[0], cmd.InOrStdin())
	default:
		return errors.New("an input file or --from-db is required")
	}
	if err != nil {
		return err
	}
	logger.Debug().Int("records", len(records)).Str("type", opts.dataType).Msg("records loaded")

	formatter := export.NewFormatter()
	if opts.now != nil {
		formatter.Now = opts.now
	}
	doc, err := formatter.Format(opts.dataType, opts.format, records)
	if err != nil {
		return fmt.Errorf("format export: %w", err)
	}

	if opts.stdout {
		_, err := cmd.OutOrStdout().Write(doc.Body)
		return err
	}

	if err := os.MkdirAll(opts.outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(opts.outDir, doc.Filename)
	if err := os.WriteFile(path, doc.Body, 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	logger.Info().Str("file", path).Int("records", doc.Records).Int("bytes", len(doc.Body)).Msg("export written")
	return nil
}

func loadFromFile(path string, stdin io.Reader) ([]models.Record, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var records []models.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if records == nil {
		// a literal null still means "no data supplied"
		return nil, fmt.Errorf("decode %s: expected a JSON array of records", path)
	}
	return records, nil
}

func loadFromStore(ctx context.Context, opts *exportOptions, logger zerolog.Logger) ([]models.Record, error) {
	kind := models.DatasetKind(opts.dataType)
	if !kind.Known() {
		return nil, fmt.Errorf("unknown dataset %q", opts.dataType)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	limit := opts.limit
	if limit <= 0 {
		limit = cfg.DatasetLimit
	}
	logger.Debug().Str("type", opts.dataType).Int("limit", limit).Msg("loading records from store")
	return store.ListRecords(ctx, kind, nil, limit)
}
