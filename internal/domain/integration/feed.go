package integration

import (
	"context"
	"time"
)

// ---------------------------------------------------------------------------
// FeedStatus represents the processing state of a feed
// ---------------------------------------------------------------------------

// FeedStatus represents the processing state of a feed on the platform
type FeedStatus string

const (
	// FeedStatusQueued indicates the feed was added to the queue and awaits processing
	FeedStatusQueued FeedStatus = "Queued"
	// FeedStatusProcessing indicates the feed is being processed by the server
	FeedStatusProcessing FeedStatus = "Processing"
	// FeedStatusCanceled indicates the feed was canceled by the seller
	FeedStatusCanceled FeedStatus = "Canceled"
	// FeedStatusFinished indicates the feed has finished processing
	FeedStatusFinished FeedStatus = "Finished"
	// FeedStatusError indicates the feed finished with errors
	FeedStatusError FeedStatus = "Error"
)

// IsValid returns true if the status is one the platform documents
func (s FeedStatus) IsValid() bool {
	switch s {
	case FeedStatusQueued, FeedStatusProcessing, FeedStatusCanceled,
		FeedStatusFinished, FeedStatusError:
		return true
	default:
		return false
	}
}

// IsFinal returns true if the feed will not change anymore
func (s FeedStatus) IsFinal() bool {
	switch s {
	case FeedStatusCanceled, FeedStatusFinished, FeedStatusError:
		return true
	default:
		return false
	}
}

// String returns the string representation of FeedStatus
func (s FeedStatus) String() string {
	return string(s)
}

// FinalFeedStatuses returns the statuses for which IsFinal is true
func FinalFeedStatuses() []FeedStatus {
	return []FeedStatus{FeedStatusCanceled, FeedStatusFinished, FeedStatusError}
}

// Feed actions reported by the platform
const (
	FeedActionProductCreate = "ProductCreate"
	FeedActionProductUpdate = "ProductUpdate"
	FeedActionProductRemove = "ProductRemove"
	FeedActionImage         = "Image"
)

// FeedMessage is one opaque error, warning or failure report attached to a feed
type FeedMessage map[string]any

// ---------------------------------------------------------------------------
// Feed value object
// ---------------------------------------------------------------------------

// FeedResponse is the acknowledgement of a bulk submission.
// RequestID is the id of the feed created for it.
type FeedResponse struct {
	RequestID     string
	RequestAction string
	ResponseType  string
	Timestamp     string
}

// Feed is the platform's view of an asynchronous bulk operation
type Feed struct {
	ID               string
	Status           FeedStatus
	Source           string
	Action           string
	CreationDate     *time.Time
	UpdatedDate      *time.Time
	TotalRecords     int
	ProcessedRecords int
	FailedRecords    int
	Errors           []FeedMessage
	Warnings         []FeedMessage
	FailureReports   []FeedMessage
}

// ---------------------------------------------------------------------------
// FeedRecord Entity
// ---------------------------------------------------------------------------

// FeedRecord is the locally persisted status of a feed.
// It is only ever written through FeedRecordRepository.Upsert; counters and
// payloads are stored exactly as the platform reports them.
type FeedRecord struct {
	// ID is the local surrogate key
	ID uint64
	// FeedID is the platform-assigned identifier, unique across records
	FeedID           string
	Status           FeedStatus
	Source           string
	Action           string
	CreationDate     *time.Time
	UpdatedDate      *time.Time
	TotalRecords     int
	ProcessedRecords int
	FailedRecords    int
	Errors           []FeedMessage
	Warnings         []FeedMessage
	FailureReports   []FeedMessage
	CreatedAt        time.Time
	UpdatedAt        time.Time
	// DeletedAt is set when the record was soft deleted by a higher layer
	DeletedAt *time.Time
}

// IsCompleted returns true once the feed reached Canceled, Finished or Error
func (r *FeedRecord) IsCompleted() bool {
	return r.Status.IsFinal()
}

// ApplyFeed overwrites every feed field of the record. Identity and local
// timestamps are left untouched.
func (r *FeedRecord) ApplyFeed(feed *Feed) {
	r.FeedID = feed.ID
	r.Status = feed.Status
	r.Source = feed.Source
	r.Action = feed.Action
	r.CreationDate = feed.CreationDate
	r.UpdatedDate = feed.UpdatedDate
	r.TotalRecords = feed.TotalRecords
	r.ProcessedRecords = feed.ProcessedRecords
	r.FailedRecords = feed.FailedRecords
	r.Errors = nonNilMessages(feed.Errors)
	r.Warnings = nonNilMessages(feed.Warnings)
	r.FailureReports = nonNilMessages(feed.FailureReports)
}

func nonNilMessages(messages []FeedMessage) []FeedMessage {
	if messages == nil {
		return []FeedMessage{}
	}
	return messages
}

// ---------------------------------------------------------------------------
// FeedRecordRepository
// ---------------------------------------------------------------------------

// FeedRecordRepository persists feed records keyed by feed id
type FeedRecordRepository interface {
	// FindByFeedID returns the record for a feed id or ErrFeedNotFound
	FindByFeedID(ctx context.Context, feedID string) (*FeedRecord, error)

	// Upsert finds the record for feed.ID or creates it, replaces every feed
	// field and returns the stored record. Concurrent upserts for the same id
	// are last-write-wins.
	Upsert(ctx context.Context, feed *Feed) (*FeedRecord, error)

	// FindIncomplete returns records whose status is not final, least recently
	// updated first. A non-positive limit returns all of them.
	FindIncomplete(ctx context.Context, limit int) ([]FeedRecord, error)
}
