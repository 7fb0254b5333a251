package integration

import (
	"context"
	"errors"
	"time"
)

// ---------------------------------------------------------------------------
// Seller Center Errors
// ---------------------------------------------------------------------------

var (
	// Platform errors
	ErrPlatformNotConfigured   = errors.New("integration: platform not configured")
	ErrPlatformUnavailable     = errors.New("integration: platform temporarily unavailable")
	ErrPlatformRequestFailed   = errors.New("integration: platform request failed")
	ErrPlatformInvalidResponse = errors.New("integration: invalid platform response")

	// Configuration errors
	ErrUnknownCountry = errors.New("integration: unknown country code")

	// Product errors
	ErrUnknownProductFilter      = errors.New("integration: unknown product filter")
	ErrInvalidProductSubmission  = errors.New("integration: invalid product submission")
	ErrInvalidBusinessUnitUpdate = errors.New("integration: invalid business unit update")

	// Feed errors
	ErrFeedNotFound     = errors.New("integration: feed not found")
	ErrFeedMissingID    = errors.New("integration: feed has no id")
	ErrOrderNotFound    = errors.New("integration: platform order not found")
	ErrSellerNotFound   = errors.New("integration: seller not found")
	ErrWebhookMissingID = errors.New("integration: webhook id is required")
)

// ---------------------------------------------------------------------------
// Order listing
// ---------------------------------------------------------------------------

// OrderSortBy is the field orders can be sorted by on the platform
type OrderSortBy string

const (
	OrderSortByCreatedAt OrderSortBy = "created_at"
	OrderSortByUpdatedAt OrderSortBy = "updated_at"
)

// SortDirection is the direction of an order listing
type SortDirection string

const (
	SortAscending  SortDirection = "ASC"
	SortDescending SortDirection = "DESC"
)

// OrderListRequest holds the parameters of an order listing
type OrderListRequest struct {
	CreatedAfter  time.Time
	Limit         int
	Offset        int
	SortBy        OrderSortBy
	SortDirection SortDirection
}

// ---------------------------------------------------------------------------
// SellerCenterClient Port Interface
// ---------------------------------------------------------------------------

// SellerCenterClient defines the port interface for the Falabella Seller Center API.
// It is defined in the domain layer; the HTTP implementation lives in the
// infrastructure layer and tests substitute in-memory doubles.
//
// Recoverable failures are reported as *TransportError (the HTTP exchange failed)
// or *ErrorResponse (the platform answered with a structured error body).
type SellerCenterClient interface {
	// ---------------------------------------------------------------------------
	// Product Operations
	// ---------------------------------------------------------------------------

	// GetProducts lists products matching a server-side filter
	GetProducts(ctx context.Context, filter ProductFilter, limit, offset int) ([]GlobalProduct, error)

	// GetProductsBySellerSku lists the products with the given seller SKUs
	GetProductsBySellerSku(ctx context.Context, skus []string) ([]GlobalProduct, error)

	// ProductCreate submits new products; the platform answers with a feed handle
	ProductCreate(ctx context.Context, products []GlobalProduct) (*FeedResponse, error)

	// ProductUpdate submits partial product updates
	ProductUpdate(ctx context.Context, products []GlobalProduct) (*FeedResponse, error)

	// ProductRemove submits product deletions
	ProductRemove(ctx context.Context, products []GlobalProduct) (*FeedResponse, error)

	// AddImages submits product images
	AddImages(ctx context.Context, images []ProductImages) (*FeedResponse, error)

	// GetQcStatus returns the quality control state of the given SKUs
	GetQcStatus(ctx context.Context, skus []string) ([]QcStatus, error)

	// ---------------------------------------------------------------------------
	// Feed Operations
	// ---------------------------------------------------------------------------

	// GetFeedStatus retrieves the status of a single feed
	GetFeedStatus(ctx context.Context, feedID string) (*Feed, error)

	// GetFeedList lists feeds page by page
	GetFeedList(ctx context.Context, offset, limit int) ([]Feed, error)

	// ---------------------------------------------------------------------------
	// Order Operations
	// ---------------------------------------------------------------------------

	// GetOrders lists orders created after the requested instant
	GetOrders(ctx context.Context, req OrderListRequest) ([]Order, error)

	// GetMultipleOrderItems returns the items of several orders at once
	GetMultipleOrderItems(ctx context.Context, orderIDs []int64) ([]Order, error)

	// GetOrder retrieves a single order
	GetOrder(ctx context.Context, orderID int64) (*Order, error)

	// ---------------------------------------------------------------------------
	// Catalog Operations
	// ---------------------------------------------------------------------------

	GetCategoryTree(ctx context.Context) ([]Category, error)
	GetCategoryAttributes(ctx context.Context, categoryID int64) ([]CategoryAttribute, error)
	GetBrands(ctx context.Context) ([]Brand, error)

	// ---------------------------------------------------------------------------
	// Account Operations
	// ---------------------------------------------------------------------------

	// GetSellerByUser returns the seller account behind the configured user
	GetSellerByUser(ctx context.Context) (*Seller, error)

	// Webhooks returns the webhook manager bound to the same credentials
	Webhooks() WebhookManager
}
