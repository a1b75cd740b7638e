package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/teamflowdev/call-coordinator/internal/domain/entities"
	"github.com/teamflowdev/call-coordinator/internal/domain/repositories"
)

// summaryRepository implements the SummaryRepository interface
type summaryRepository struct {
	db *gorm.DB
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *gorm.DB) repositories.SummaryRepository {
	return &summaryRepository{db: db}
}

// SaveSummaryRun persists one summarization run atomically: every drained
// transcript row, the summary block and all extracted action items are
// written in a single transaction. Any failure rolls back everything.
func (r *summaryRepository) SaveSummaryRun(
	ctx context.Context,
	transcripts []*entities.CallTranscript,
	summary *entities.CallSummaryBlock,
	items []*entities.CallActionItem,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(transcripts) > 0 {
			if err := tx.Create(transcripts).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(summary).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
