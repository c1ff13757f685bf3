package tasks

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/banger/internal/models"
	"github.com/desertthunder/banger/internal/shared"
)

// Source provides the raw document. Implemented by [repositories.DocumentRepository].
type Source interface {
	Load(ctx context.Context) (models.Document, error)
	Exists() (bool, error)
}

// Catalog loads and normalizes a document on every call. It holds no derived state.
type Catalog struct {
	source Source
	logger *log.Logger
	now    func() time.Time
}

// NewCatalog creates a Catalog over source. A nil logger logs to stderr.
func NewCatalog(source Source, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Catalog{source: source, logger: logger, now: time.Now}
}

// SetClock replaces the time source used for undated songs.
func (c *Catalog) SetClock(now func() time.Time) {
	c.now = now
}

// Exists reports whether the underlying document is present.
func (c *Catalog) Exists() (bool, error) {
	return c.source.Exists()
}

// Songs loads the document and normalizes it.
func (c *Catalog) Songs(ctx context.Context) (*NormalizeResult, error) {
	doc, err := c.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := Normalize(doc, c.now())
	c.logger.Info("processed songs", "candidates", result.Candidates, "valid", result.Valid, "skipped", result.Skipped)
	for _, inv := range result.Invalid {
		c.logger.Debug("skipped entry", "position", inv.Position, "error", inv.Err)
	}
	if result.Candidates > 0 && result.Valid == 0 {
		c.logger.Warn("no valid songs found in database")
	}

	return result, nil
}

// Stats loads the document and aggregates per-user statistics.
func (c *Catalog) Stats(ctx context.Context) (models.Stats, error) {
	result, err := c.Songs(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	return BuildStats(result.Songs), nil
}
