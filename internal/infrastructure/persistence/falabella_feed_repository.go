package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/astroselling/falabella-sdk/internal/domain/integration"
	"github.com/astroselling/falabella-sdk/internal/infrastructure/persistence/models"
)

// GormFeedRecordRepository implements FeedRecordRepository on the
// falabella_feeds table
type GormFeedRecordRepository struct {
	db *gorm.DB
}

// NewGormFeedRecordRepository creates a new GormFeedRecordRepository
func NewGormFeedRecordRepository(db *gorm.DB) *GormFeedRecordRepository {
	return &GormFeedRecordRepository{db: db}
}

// WithTx returns a new repository bound to tx
func (r *GormFeedRecordRepository) WithTx(tx *gorm.DB) *GormFeedRecordRepository {
	return &GormFeedRecordRepository{db: tx}
}

// FindByFeedID returns the live record for feedID
func (r *GormFeedRecordRepository) FindByFeedID(ctx context.Context, feedID string) (*integration.FeedRecord, error) {
	var model models.FalabellaFeedModel
	err := r.db.WithContext(ctx).Where("feed_id = ?", feedID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrFeedNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// Upsert finds the row for feed.ID, soft deleted rows included, or starts a
// new one, overwrites every feed column and saves it
func (r *GormFeedRecordRepository) Upsert(ctx context.Context, feed *integration.Feed) (*integration.FeedRecord, error) {
	if feed == nil || feed.ID == "" {
		return nil, integration.ErrFeedMissingID
	}

	var model models.FalabellaFeedModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Unscoped().Where("feed_id = ?", feed.ID).First(&model).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := model.ApplyFeed(feed); err != nil {
			return fmt.Errorf("failed to encode feed %s: %w", feed.ID, err)
		}
		return tx.Unscoped().Save(&model).Error
	})
	if err != nil {
		return nil, err
	}
	return model.ToDomain()
}

// FindIncomplete returns live records with a non-final status, least
// recently updated first. A non-positive limit returns all of them.
func (r *GormFeedRecordRepository) FindIncomplete(ctx context.Context, limit int) ([]integration.FeedRecord, error) {
	finals := integration.FinalFeedStatuses()
	statuses := make([]string, len(finals))
	for i, s := range finals {
		statuses[i] = s.String()
	}

	query := r.db.WithContext(ctx).
		Where("status NOT IN ?", statuses).
		Order("updated_at ASC").
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []models.FalabellaFeedModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]integration.FeedRecord, 0, len(rows))
	for i := range rows {
		record, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

// Ensure GormFeedRecordRepository implements FeedRecordRepository
var _ integration.FeedRecordRepository = (*GormFeedRecordRepository)(nil)
