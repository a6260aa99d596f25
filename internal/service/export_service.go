package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gestorvip/fila/internal/config"
	"github.com/gestorvip/fila/internal/csvcodec"
	"github.com/gestorvip/fila/internal/models"
	"github.com/gestorvip/fila/internal/queue"
)

type exportService struct {
	cfg    *config.Config
	store  *queue.Store
	opts   csvcodec.Options
	logger *zap.Logger
}

func NewExportService(cfg *config.Config, store *queue.Store, logger *zap.Logger) ExportService {
	opts := csvcodec.Options{BOM: cfg.Export.BOM}
	if cfg.Export.Delimiter != "" {
		opts.Delimiter = rune(cfg.Export.Delimiter[0])
	}

	return &exportService{
		cfg:    cfg,
		store:  store,
		opts:   opts,
		logger: logger,
	}
}

// ExportCSV encodes the current view of one tab. When no status is given
// it defaults to the called tab, which is the history operators archive.
func (s *exportService) ExportCSV(_ context.Context, input ListInput) (string, string, error) {
	status := input.Status
	if !status.Valid() {
		status = models.StatusCalled
	}

	now := time.Now()
	selected := queue.Select(s.store.List(), status, input.Filters, now)

	content := csvcodec.Encode(selected, s.opts)
	filename := csvcodec.Filename(s.cfg.Export.FilenamePrefix, now)

	s.logger.Info("Exported clients to CSV",
		zap.String("filename", filename),
		zap.Int("records", len(selected)))

	return filename, content, nil
}

// ImportCSV parses the uploaded text and merges recoverable records into the
// store, skipping ids that already exist. Malformed lines are counted, never
// fatal.
func (s *exportService) ImportCSV(ctx context.Context, text string) (*ImportResult, error) {
	records, skipped := csvcodec.Decode(text, s.opts)

	inserted, err := s.store.ImportMerge(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("failed to merge imported clients: %w", err)
	}

	s.logger.Info("Imported clients from CSV",
		zap.Int("inserted", inserted),
		zap.Int("skipped_lines", skipped),
		zap.Int("duplicates", len(records)-inserted))

	return &ImportResult{Inserted: inserted, Skipped: skipped}, nil
}
