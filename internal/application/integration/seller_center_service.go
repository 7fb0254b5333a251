package integration

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/astroselling/falabella-sdk/internal/domain/integration"
	"github.com/astroselling/falabella-sdk/internal/infrastructure/telemetry"
)

// orderLookbackMonths is how far back ListOrders looks
const orderLookbackMonths = 1

// FeedObserver is notified of every feed record the service stores
type FeedObserver interface {
	RecordFeedStored(ctx context.Context, action string, status integration.FeedStatus)
}

// ServiceOption configures optional collaborators of SellerCenterService
type ServiceOption func(*SellerCenterService)

// WithClock replaces the clock used for the order lookback window
func WithClock(now func() time.Time) ServiceOption {
	return func(s *SellerCenterService) {
		s.now = now
	}
}

// WithFeedObserver registers an observer for stored feed records
func WithFeedObserver(observer FeedObserver) ServiceOption {
	return func(s *SellerCenterService) {
		s.observer = observer
	}
}

// SellerCenterService is the entry point for one seller account on one
// Falabella storefront. It validates input, calls Seller Center through the
// client, stores feed statuses and translates vendor failures into *FetchError.
type SellerCenterService struct {
	config   ServiceConfig
	country  integration.CountryContext
	client   integration.SellerCenterClient
	feeds    integration.FeedRecordRepository
	logger   *zap.Logger
	errs     translator
	observer FeedObserver
	now      func() time.Time
}

// NewSellerCenterService creates a service bound to cfg. An unknown country
// is rejected before anything else happens.
func NewSellerCenterService(
	cfg ServiceConfig,
	client integration.SellerCenterClient,
	feeds integration.FeedRecordRepository,
	logger *zap.Logger,
	opts ...ServiceOption,
) (*SellerCenterService, error) {
	country, err := integration.ResolveCountry(cfg.Country)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &SellerCenterService{
		config:  cfg,
		country: country,
		client:  client,
		feeds:   feeds,
		logger:  logger.Named("seller_center"),
		errs:    translator{username: cfg.Username},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Country returns the resolved country context
func (s *SellerCenterService) Country() integration.CountryContext {
	return s.country
}

// ---------------------------------------------------------------------------
// Product Operations
// ---------------------------------------------------------------------------

// ListProducts lists products matching filter. An empty filter lists all products.
func (s *SellerCenterService) ListProducts(ctx context.Context, limit, offset int, filter integration.ProductFilter) ([]integration.GlobalProduct, error) {
	const op = "ListProducts"
	if filter == "" {
		filter = integration.DefaultProductFilter
	}
	if !filter.IsValid() {
		return nil, &FetchError{
			Scope:     FetchScopeProduct,
			Operation: op,
			Username:  s.config.Username,
			Message:   fmt.Sprintf("unknown product filter %q", filter),
			cause:     fmt.Errorf("%w: %q", integration.ErrUnknownProductFilter, filter),
		}
	}

	s.logCall("getProducts")
	products, err := s.client.GetProducts(ctx, filter, limit, offset)
	if err != nil {
		return nil, s.errs.translate(err, FetchScopeProduct, op, nil)
	}
	return products, nil
}

// ListProductsBySku lists the products with the given seller SKUs
func (s *SellerCenterService) ListProductsBySku(ctx context.Context, skus []string) ([]integration.GlobalProduct, error) {
	if len(skus) == 0 {
		return []integration.GlobalProduct{}, nil
	}

	s.logCall("getProductsBySellerSku")
	products, err := s.client.GetProductsBySellerSku(ctx, skus)
	if err != nil {
		return nil, s.errs.translate(err, FetchScopeProduct, "ListProductsBySku", nil)
	}
	return products, nil
}

// DeleteProducts removes the given SKUs and returns the stored feed record
func (s *SellerCenterService) DeleteProducts(ctx context.Context, skus []string) (*integration.FeedRecord, error) {
	const op = "DeleteProducts"
	products := make([]integration.GlobalProduct, 0, len(skus))
	for _, sku := range skus {
		products = append(products, integration.ProductFromSku(sku))
	}

	s.logCall("productRemove")
	resp, err := s.client.ProductRemove(ctx, products)
	if err != nil {
		return nil, s.errs.translate(err, FetchScopeGeneric, op, map[string]any{"products": skus})
	}
	return s.storeFeed(ctx, op, resp.RequestID, map[string]any{"products": skus})
}

// CreateProducts submits new products and returns the stored feed record
func (s *SellerCenterService) CreateProducts(ctx context.Context, products []ProductAttributes) (*integration.FeedRecord, error) {
	const op = "CreateProducts"
	submissions := make([]integration.GlobalProduct, 0, len(products))
	for _, attrs := range products {
		product, err := BuildProductSubmission(attrs, s.country.OperatorCode)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, product)
	}

	errCtx := map[string]any{"products": products}
	s.logCall("productCreate")
	resp, err := s.client.ProductCreate(ctx, submissions)
	if err != nil {
		return nil, s.errs.translate(err, FetchScopeGeneric, op, errCtx)
	}
	return s.storeFeed(ctx, op, resp.RequestID, errCtx)
}

// UpdateProducts submits price and stock updates keyed by SKU and returns
// the stored feed record
func (s *SellerCenterService) UpdateProducts(ctx context.Context, updates map[string]ProductAttributes) (*integration.FeedRecord, error) {
	const op = "UpdateProducts"
	skus := make([]string, 0, len(updates))
	for sku := range updates {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	products := make([]integration.GlobalProduct, 0, len(skus))
	for _, sku := range skus {
		product, err := BuildBusinessUnitUpdate(sku, updates[sku], s.country.OperatorCode)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	errCtx := map[string]any{"update_data": updates}
	s.logCall("productUpdate")
	resp, err := s.client.ProductUpdate(ctx, products)
	if err != nil {
		return nil, s.errs.translate(err, FetchScopeGeneric, op, errCtx)
	}
	return s.storeFeed(ctx, op, resp.RequestID, errCtx)
}

// PublishProductImages submits image URLs keyed by SKU and returns the
// stored feed record
func (s *SellerCenterService) PublishProductImages(ctx context.Context, images map[string][]string) (*integration.FeedRecord, error) {
	const op = "PublishProductImages"
	s.logCall("addImage")
	resp, err := s.client.AddImages(ctx, BuildProductImages(images))
	if err != nil {
		return nil, s.errs.translate(err, FetchScopeGeneric, op, nil)
	}
	return s.storeFeed(ctx, op, resp.RequestID, nil)
}

// GetQualityControlStatus returns the quality control state of the given SKUs
func (s *SellerCenterService) GetQualityControlStatus(ctx context.Context, skus []string) ([]integration.QcStatus, error) {
	s.logCall("getQcStatus")
	states, err := s.client.GetQcStatus(ctx, skus)
	if err != nil {
		return nil, s.errs.translate(err, FetchScopeGeneric, "GetQualityControlStatus", nil)
	}
	return states, nil
}

// ---------------------------------------------------------------------------
// Order Operations
// ---------------------------------------------------------------------------

// ListOrders lists orders created during the last month, newest first
func (s *SellerCenterService) ListOrders(ctx context.Context, limit, offset int) ([]integration.Order, error) {
	req := integration.OrderListRequest{
		CreatedAfter:  s.now().AddDate(0, -orderLookbackMonths, 0),
		Limit:         limit,
		Offset:        offset,
		SortBy:        integration.OrderSortByCreatedAt,
		SortDirection: integration.SortDescending,
	}

	s.logCall("getOrders")
	orders, err := s.client.GetOrders(ctx, req)
	if err != nil {
		return nil, s.errs.translate(err, FetchScopeGeneric, "ListOrders", nil)
	}
	return orders, nil
}

// ListOrderItems returns the items of the given orders
func (s *SellerCenterService) ListOrderItems(ctx context.Context, orderIDs []int64) ([]integration.Order, error) {
	if len(orderIDs) == 0 {
		return []integration.Order{}, nil
	}

	s.logCall("getMultipleOrderItems")
	orders, err := s.client.GetMultipleOrderItems(ctx, orderIDs)
	if err != nil {
		return nil, s.errs.translate(err, FetchScopeGeneric, "ListOrderItems", nil)
	}
	return orders, nil
}

// GetOrder retrieves a single order
func (s *SellerCenterService) GetOrder(ctx context.Context, orderID int64) (*integration.Order, error) {
	s.logCall("getOrder")
	order, err := s.client.GetOrder(ctx, orderID)
	if err != nil {
		return nil, s.errs.translate(err, FetchScopeGeneric, "GetOrder", nil)
	}
	return order, nil
}

// ---------------------------------------------------------------------------
// Catalog Operations
// ---------------------------------------------------------------------------

// ListCategories returns the category tree
func (s *SellerCenterService) ListCategories(ctx context.Context) ([]integration.Category, error) {
	s.logCall("getCategoryTree")
	categories, err := s.client.GetCategoryTree(ctx)
	if err != nil {
		return nil, s.errs.translate(err, FetchScopeGeneric, "ListCategories", nil)
	}
	return categories, nil
}

// GetCategoryAttributes returns the attributes accepted by a category
func (s *SellerCenterService) GetCategoryAttributes(ctx context.Context, categoryID int64) ([]integration.CategoryAttribute, error) {
	s.logCall("getCategoryAttributes")
	attrs, err := s.client.GetCategoryAttributes(ctx, categoryID)
	if err != nil {
		return nil, s.errs.translate(err, FetchScopeGeneric, "GetCategoryAttributes", nil)
	}
	return attrs, nil
}

// ListBrands returns every brand known to the platform
func (s *SellerCenterService) ListBrands(ctx context.Context) ([]integration.Brand, error) {
	s.logCall("getBrands")
	brands, err := s.client.GetBrands(ctx)
	if err != nil {
		return nil, s.errs.translate(err, FetchScopeGeneric, "ListBrands", nil)
	}
	return brands, nil
}

// GetSeller returns the seller account behind the credentials
func (s *SellerCenterService) GetSeller(ctx context.Context) (*integration.Seller, error) {
	s.logCall("getSellerByUser")
	seller, err := s.client.GetSellerByUser(ctx)
	if err != nil {
		return nil, s.errs.translate(err, FetchScopeGeneric, "GetSeller", nil)
	}
	return seller, nil
}

// Webhooks returns the webhook manager of the client
func (s *SellerCenterService) Webhooks() integration.WebhookManager {
	return s.client.Webhooks()
}

// ---------------------------------------------------------------------------
// Feed Operations
// ---------------------------------------------------------------------------

// ListFeeds lists feeds as reported by the platform; nothing is stored
func (s *SellerCenterService) ListFeeds(ctx context.Context, offset, limit int) ([]integration.Feed, error) {
	s.logCall("feedOffsetList")
	feeds, err := s.client.GetFeedList(ctx, offset, limit)
	if err != nil {
		return nil, s.errs.translate(err, FetchScopeGeneric, "ListFeeds", nil)
	}
	return feeds, nil
}

// GetFeedStatus fetches the current status of a feed and stores it
func (s *SellerCenterService) GetFeedStatus(ctx context.Context, feedID string) (*integration.FeedRecord, error) {
	return s.storeFeed(ctx, "GetFeedStatus", feedID, nil)
}

// RefreshIncompleteFeeds re-fetches every stored feed that has not reached
// a final status, oldest first. A failure on one feed does not stop the
// others; all failures are returned together.
func (s *SellerCenterService) RefreshIncompleteFeeds(ctx context.Context, limit int) ([]*integration.FeedRecord, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "seller_center", "refresh_incomplete_feeds")
	defer span.End()

	pending, err := s.feeds.FindIncomplete(ctx, limit)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrFeedCount, len(pending))

	var (
		refreshed = make([]*integration.FeedRecord, 0, len(pending))
		errs      error
	)
	telemetry.WithProfilingLabels(ctx, telemetry.SellerCenterOperationLabels("refresh_incomplete_feeds", s.country.OperatorCode), func(c context.Context) {
		for _, record := range pending {
			if err := c.Err(); err != nil {
				errs = multierr.Append(errs, err)
				return
			}
			updated, err := s.GetFeedStatus(c, record.FeedID)
			if err != nil {
				s.logger.Warn("Failed to refresh feed",
					zap.String("feed_id", record.FeedID),
					zap.Error(err))
				errs = multierr.Append(errs, fmt.Errorf("feed %s: %w", record.FeedID, err))
				continue
			}
			refreshed = append(refreshed, updated)
		}
	})

	if errs != nil {
		telemetry.RecordError(span, errs)
	}
	return refreshed, errs
}

// storeFeed fetches feedID from the platform and upserts it
func (s *SellerCenterService) storeFeed(ctx context.Context, op, feedID string, errCtx map[string]any) (*integration.FeedRecord, error) {
	s.logCall("getFeedStatusById")
	feed, err := s.client.GetFeedStatus(ctx, feedID)
	if err != nil {
		return nil, s.errs.translate(err, FetchScopeGeneric, op, errCtx)
	}

	record, err := s.feeds.Upsert(ctx, feed)
	if err != nil {
		return nil, fmt.Errorf("failed to store feed %s: %w", feedID, err)
	}
	telemetry.AddEvent(telemetry.SpanFromContext(ctx), "feed_stored",
		telemetry.SpanAttrFeedID, record.FeedID,
		telemetry.SpanAttrFeedAction, record.Action,
		telemetry.SpanAttrFeedStatus, record.Status.String(),
	)
	if s.observer != nil {
		s.observer.RecordFeedStored(ctx, record.Action, record.Status)
	}
	return record, nil
}

// logCall writes one debug line per Seller Center call when enabled
func (s *SellerCenterService) logCall(call string) {
	if !s.config.CustomLogCalls {
		return
	}
	s.logger.Debug(fmt.Sprintf("[%s] | Falabella Call: %s", s.config.Username, call),
		zap.String("username", s.config.Username),
		zap.String("call", call))
}
