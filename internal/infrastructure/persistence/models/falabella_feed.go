package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/astroselling/falabella-sdk/internal/domain/integration"
)

// FalabellaFeedModel is the persistence model for the FeedRecord entity.
// Feed payloads are kept as JSON exactly as the platform reports them.
type FalabellaFeedModel struct {
	ID               uint64         `gorm:"primaryKey;autoIncrement"`
	FeedID           string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_falabella_feeds_feed_id"`
	Status           string         `gorm:"type:varchar(20);not null;index:idx_falabella_feeds_status_updated,priority:1"`
	Source           string         `gorm:"type:varchar(32)"`
	Action           string         `gorm:"type:varchar(32);index"`
	CreationDate     *time.Time     `gorm:"column:creation_date"`
	UpdatedDate      *time.Time     `gorm:"column:updated_date"`
	TotalRecords     int            `gorm:"not null;default:0"`
	ProcessedRecords int            `gorm:"not null;default:0"`
	FailedRecords    int            `gorm:"not null;default:0"`
	Errors           datatypes.JSON `gorm:"column:errors"`
	Warnings         datatypes.JSON `gorm:"column:warnings"`
	FailureReports   datatypes.JSON `gorm:"column:failure_reports"`
	CreatedAt        time.Time      `gorm:"not null"`
	UpdatedAt        time.Time      `gorm:"not null;index:idx_falabella_feeds_status_updated,priority:2"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (FalabellaFeedModel) TableName() string {
	return "falabella_feeds"
}

// ApplyFeed overwrites every feed column from feed. ID, timestamps and the
// soft delete marker are left alone.
func (m *FalabellaFeedModel) ApplyFeed(feed *integration.Feed) error {
	var record integration.FeedRecord
	record.ApplyFeed(feed)

	errs, err := encodeMessages(record.Errors)
	if err != nil {
		return fmt.Errorf("errors: %w", err)
	}
	warnings, err := encodeMessages(record.Warnings)
	if err != nil {
		return fmt.Errorf("warnings: %w", err)
	}
	reports, err := encodeMessages(record.FailureReports)
	if err != nil {
		return fmt.Errorf("failure reports: %w", err)
	}

	m.FeedID = record.FeedID
	m.Status = record.Status.String()
	m.Source = record.Source
	m.Action = record.Action
	m.CreationDate = record.CreationDate
	m.UpdatedDate = record.UpdatedDate
	m.TotalRecords = record.TotalRecords
	m.ProcessedRecords = record.ProcessedRecords
	m.FailedRecords = record.FailedRecords
	m.Errors = errs
	m.Warnings = warnings
	m.FailureReports = reports
	return nil
}

// ToDomain converts the persistence model to a domain FeedRecord
func (m *FalabellaFeedModel) ToDomain() (*integration.FeedRecord, error) {
	record := &integration.FeedRecord{
		ID:               m.ID,
		FeedID:           m.FeedID,
		Status:           integration.FeedStatus(m.Status),
		Source:           m.Source,
		Action:           m.Action,
		CreationDate:     m.CreationDate,
		UpdatedDate:      m.UpdatedDate,
		TotalRecords:     m.TotalRecords,
		ProcessedRecords: m.ProcessedRecords,
		FailedRecords:    m.FailedRecords,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.DeletedAt.Valid {
		deletedAt := m.DeletedAt.Time
		record.DeletedAt = &deletedAt
	}

	var err error
	if record.Errors, err = decodeMessages(m.Errors); err != nil {
		return nil, fmt.Errorf("feed %s errors: %w", m.FeedID, err)
	}
	if record.Warnings, err = decodeMessages(m.Warnings); err != nil {
		return nil, fmt.Errorf("feed %s warnings: %w", m.FeedID, err)
	}
	if record.FailureReports, err = decodeMessages(m.FailureReports); err != nil {
		return nil, fmt.Errorf("feed %s failure reports: %w", m.FeedID, err)
	}
	return record, nil
}

func encodeMessages(messages []integration.FeedMessage) (datatypes.JSON, error) {
	if messages == nil {
		messages = []integration.FeedMessage{}
	}
	raw, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// decodeMessages treats NULL and empty columns as no messages
func decodeMessages(raw datatypes.JSON) ([]integration.FeedMessage, error) {
	messages := []integration.FeedMessage{}
	if len(raw) == 0 || string(raw) == "null" {
		return messages, nil
	}
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []integration.FeedMessage{}
	}
	return messages, nil
}
