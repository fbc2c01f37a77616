// Package engine orchestrates a migration run: it walks the legacy records
// in input order, hands each one to the entity writer, classifies the
// outcome and aggregates run statistics. One failing record never aborts
// the run.
package engine

import (
	"context"
	"time"

	"github.com/farhadk/rms/internal/migration/events"
	"github.com/farhadk/rms/internal/migration/models"
	"github.com/farhadk/rms/internal/migration/writer"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SkipEntry records one skipped legacy record and why.
type SkipEntry struct {
	RecordID uint
	Reason   string
}

// ErrorEntry records one failed legacy record and the underlying message.
type ErrorEntry struct {
	RecordID uint
	Message  string
}

// RunStatistics aggregates the outcome of one migration run.
type RunStatistics struct {
	RunID uuid.UUID

	Total                int
	Migrated             int
	Skipped              int
	Failed               int
	OwnersCreated        int
	LicensesCreated      int
	CancellationsCreated int

	Skips  []SkipEntry
	Errors []ErrorEntry

	StartedAt  time.Time
	FinishedAt time.Time
}

// Migrator is the entity-writer surface the engine drives.
type Migrator interface {
	Migrate(ctx context.Context, record *models.LegacyRecord) writer.Outcome
}

// EventProducer publishes migration lifecycle events. It may be nil when no
// broker is configured.
type EventProducer interface {
	Produce(event events.Event)
}

type Engine struct {
	writer   Migrator
	producer EventProducer
	logger   *zap.Logger
}

func New(w Migrator, producer EventProducer, logger *zap.Logger) *Engine {
	return &Engine{
		writer:   w,
		producer: producer,
		logger:   logger.Named("migration_engine"),
	}
}

// Run processes the records strictly in input order, one unit of work at a
// time, and returns the aggregated statistics.
func (e *Engine) Run(ctx context.Context, records []models.LegacyRecord) *RunStatistics {
	stats := &RunStatistics{
		RunID:     uuid.New(),
		Total:     len(records),
		StartedAt: time.Now(),
	}

	e.logger.Info("migration run started",
		zap.String("run_id", stats.RunID.String()),
		zap.Int("records", stats.Total),
	)

	for i := range records {
		record := &records[i]
		outcome := e.writer.Migrate(ctx, record)

		switch outcome.Status {
		case writer.StatusMigrated:
			stats.Migrated++
			if outcome.OwnerCreated {
				stats.OwnersCreated++
			}
			if outcome.LicenseCreated {
				stats.LicensesCreated++
			}
			if outcome.CancellationCreated {
				stats.CancellationsCreated++
			}
			e.produce(events.Event{
				Type:     events.CompanyMigrated,
				RunID:    stats.RunID.String(),
				RecordID: outcome.RecordID,
			})
		case writer.StatusSkipped:
			stats.Skipped++
			stats.Skips = append(stats.Skips, SkipEntry{
				RecordID: outcome.RecordID,
				Reason:   outcome.Reason,
			})
		case writer.StatusFailed:
			stats.Failed++
			stats.Errors = append(stats.Errors, ErrorEntry{
				RecordID: outcome.RecordID,
				Message:  outcome.Err.Error(),
			})
		}
	}

	stats.FinishedAt = time.Now()
	e.produce(events.Event{
		Type:     events.MigrationCompleted,
		RunID:    stats.RunID.String(),
		Migrated: stats.Migrated,
		Skipped:  stats.Skipped,
		Failed:   stats.Failed,
	})

	e.logger.Info("migration run finished",
		zap.String("run_id", stats.RunID.String()),
		zap.Int("migrated", stats.Migrated),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
	)
	return stats
}

func (e *Engine) produce(event events.Event) {
	if e.producer == nil {
		return
	}
	e.producer.Produce(event)
}
