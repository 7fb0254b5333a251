package telemetry

import (
	"context"

	"gorm.io/gorm"

	"github.com/astroselling/falabella-sdk/internal/domain/integration"
)

// GormFeedBacklogProvider implements FeedBacklogProvider by aggregating the
// falabella_feeds table directly.
type GormFeedBacklogProvider struct {
	db *gorm.DB
}

// NewGormFeedBacklogProvider creates a new GormFeedBacklogProvider.
func NewGormFeedBacklogProvider(db *gorm.DB) *GormFeedBacklogProvider {
	return &GormFeedBacklogProvider{db: db}
}

// CountIncompleteByAction returns the number of non-final feeds per action.
func (p *GormFeedBacklogProvider) CountIncompleteByAction(ctx context.Context) (map[string]int64, error) {
	type result struct {
		Action string `gorm:"column:action"`
		Total  int64  `gorm:"column:total"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("falabella_feeds").
		Select("action, COUNT(*) AS total").
		Where("deleted_at IS NULL").
		Where("status NOT IN ?", finalStatusNames()).
		Group("action").
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(results))
	for _, r := range results {
		counts[r.Action] = r.Total
	}
	return counts, nil
}

func finalStatusNames() []string {
	statuses := integration.FinalFeedStatuses()
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = s.String()
	}
	return names
}
