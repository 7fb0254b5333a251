package ecommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/astroselling/falabella-sdk/internal/domain/integration"
	"github.com/astroselling/falabella-sdk/internal/infrastructure/telemetry"
)

// maxResponseSize is the maximum allowed response size from Seller Center (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Seller Center actions
const (
	actionGetProducts           = "GetProducts"
	actionProductCreate         = "ProductCreate"
	actionProductUpdate         = "ProductUpdate"
	actionProductRemove         = "ProductRemove"
	actionImage                 = "Image"
	actionGetQcStatus           = "GetQcStatus"
	actionFeedStatus            = "FeedStatus"
	actionFeedOffsetList        = "FeedOffsetList"
	actionGetOrders             = "GetOrders"
	actionGetMultipleOrderItems = "GetMultipleOrderItems"
	actionGetOrder              = "GetOrder"
	actionGetCategoryTree       = "GetCategoryTree"
	actionGetCategoryAttributes = "GetCategoryAttributes"
	actionGetBrands             = "GetBrands"
	actionGetSellerByUser       = "GetSellerByUser"
	actionGetWebhooks           = "GetWebhooks"
	actionCreateWebhook         = "CreateWebhook"
	actionDeleteWebhook         = "DeleteWebhook"
	actionGetWebhookEntities    = "GetWebhookEntities"
)

// CallRecorder observes every Seller Center round trip
type CallRecorder interface {
	RecordCall(ctx context.Context, action, operator string, d time.Duration, err error)
}

// ClientOption configures optional collaborators of FalabellaClient
type ClientOption func(*FalabellaClient)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *FalabellaClient) {
		c.httpClient = httpClient
	}
}

// WithCallRecorder registers a recorder for call counts and latency
func WithCallRecorder(recorder CallRecorder) ClientOption {
	return func(c *FalabellaClient) {
		c.recorder = recorder
	}
}

// FalabellaClient implements SellerCenterClient over the Seller Center
// HTTP/XML API
type FalabellaClient struct {
	config     *FalabellaConfig
	httpClient *http.Client
	webhooks   *FalabellaWebhookManager
	recorder   CallRecorder

	// now is replaced in tests
	now func() time.Time
}

// NewFalabellaClient creates a new Seller Center client with the given configuration
func NewFalabellaClient(config *FalabellaConfig, opts ...ClientOption) (*FalabellaClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &FalabellaClient{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.webhooks = &FalabellaWebhookManager{client: c}
	return c, nil
}

// Config returns the validated configuration
func (c *FalabellaClient) Config() *FalabellaConfig {
	return c.config
}

// ---------------------------------------------------------------------------
// Product Operations
// ---------------------------------------------------------------------------

// GetProducts lists products matching a server-side filter
func (c *FalabellaClient) GetProducts(ctx context.Context, filter integration.ProductFilter, limit, offset int) ([]integration.GlobalProduct, error) {
	params := map[string]string{
		"Filter": filter.String(),
	}
	if limit > 0 {
		params["Limit"] = strconv.Itoa(limit)
	}
	if offset > 0 {
		params["Offset"] = strconv.Itoa(offset)
	}
	return c.getProducts(ctx, params)
}

// GetProductsBySellerSku lists the products with the given seller SKUs
func (c *FalabellaClient) GetProductsBySellerSku(ctx context.Context, skus []string) ([]integration.GlobalProduct, error) {
	list, err := jsonList(skus)
	if err != nil {
		return nil, err
	}
	return c.getProducts(ctx, map[string]string{
		"Filter":        integration.ProductFilterAll.String(),
		"SkuSellerList": list,
	})
}

func (c *FalabellaClient) getProducts(ctx context.Context, params map[string]string) ([]integration.GlobalProduct, error) {
	var resp FalabellaProductsResponse
	if err := c.call(ctx, http.MethodGet, actionGetProducts, params, nil, &resp); err != nil {
		return nil, err
	}

	products := make([]integration.GlobalProduct, 0, len(resp.Products))
	for i := range resp.Products {
		products = append(products, resp.Products[i].ToDomain())
	}
	return products, nil
}

// ProductCreate submits new products
func (c *FalabellaClient) ProductCreate(ctx context.Context, products []integration.GlobalProduct) (*integration.FeedResponse, error) {
	return c.submitProducts(ctx, actionProductCreate, products)
}

// ProductUpdate submits partial product updates
func (c *FalabellaClient) ProductUpdate(ctx context.Context, products []integration.GlobalProduct) (*integration.FeedResponse, error) {
	return c.submitProducts(ctx, actionProductUpdate, products)
}

// ProductRemove submits product deletions
func (c *FalabellaClient) ProductRemove(ctx context.Context, products []integration.GlobalProduct) (*integration.FeedResponse, error) {
	return c.submitProducts(ctx, actionProductRemove, products)
}

func (c *FalabellaClient) submitProducts(ctx context.Context, action string, products []integration.GlobalProduct) (*integration.FeedResponse, error) {
	body := falabellaProductRequest{Products: make([]FalabellaProduct, 0, len(products))}
	for i := range products {
		body.Products = append(body.Products, newFalabellaProduct(&products[i]))
	}

	var resp FalabellaSuccessResponse
	if err := c.call(ctx, http.MethodPost, action, nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.ToFeedResponse(), nil
}

// AddImages submits product images
func (c *FalabellaClient) AddImages(ctx context.Context, images []integration.ProductImages) (*integration.FeedResponse, error) {
	body := falabellaImageRequest{Images: make([]FalabellaProductImage, 0, len(images))}
	for _, img := range images {
		body.Images = append(body.Images, FalabellaProductImage{
			SellerSku: img.SellerSku,
			Images:    img.URLs,
		})
	}

	var resp FalabellaSuccessResponse
	if err := c.call(ctx, http.MethodPost, actionImage, nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.ToFeedResponse(), nil
}

// GetQcStatus returns the quality control state of the given SKUs
func (c *FalabellaClient) GetQcStatus(ctx context.Context, skus []string) ([]integration.QcStatus, error) {
	list, err := jsonList(skus)
	if err != nil {
		return nil, err
	}

	var resp FalabellaQcStatusResponse
	if err := c.call(ctx, http.MethodGet, actionGetQcStatus, map[string]string{"SkuSellerList": list}, nil, &resp); err != nil {
		return nil, err
	}

	states := make([]integration.QcStatus, 0, len(resp.States))
	for _, s := range resp.States {
		states = append(states, integration.QcStatus{
			SellerSku: s.SellerSku,
			Status:    s.Status,
			Reason:    s.Reason,
		})
	}
	return states, nil
}

// ---------------------------------------------------------------------------
// Feed Operations
// ---------------------------------------------------------------------------

// GetFeedStatus retrieves the status of a single feed
func (c *FalabellaClient) GetFeedStatus(ctx context.Context, feedID string) (*integration.Feed, error) {
	if feedID == "" {
		return nil, integration.ErrFeedMissingID
	}

	var resp FalabellaFeedStatusResponse
	if err := c.call(ctx, http.MethodGet, actionFeedStatus, map[string]string{"FeedID": feedID}, nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Feeds) == 0 {
		return nil, fmt.Errorf("%w: %s", integration.ErrFeedNotFound, feedID)
	}

	feed := resp.Feeds[0].ToDomain()
	if feed.ID == "" {
		feed.ID = feedID
	}
	return &feed, nil
}

// GetFeedList lists feeds page by page
func (c *FalabellaClient) GetFeedList(ctx context.Context, offset, limit int) ([]integration.Feed, error) {
	params := map[string]string{}
	if offset > 0 {
		params["Offset"] = strconv.Itoa(offset)
	}
	if limit > 0 {
		params["PageSize"] = strconv.Itoa(limit)
	}

	var resp FalabellaFeedListResponse
	if err := c.call(ctx, http.MethodGet, actionFeedOffsetList, params, nil, &resp); err != nil {
		return nil, err
	}

	feeds := make([]integration.Feed, 0, len(resp.Feeds))
	for i := range resp.Feeds {
		feeds = append(feeds, resp.Feeds[i].ToDomain())
	}
	return feeds, nil
}

// ---------------------------------------------------------------------------
// Order Operations
// ---------------------------------------------------------------------------

// GetOrders lists orders created after the requested instant
func (c *FalabellaClient) GetOrders(ctx context.Context, req integration.OrderListRequest) ([]integration.Order, error) {
	params := map[string]string{}
	if !req.CreatedAfter.IsZero() {
		params["CreatedAfter"] = req.CreatedAfter.Format(time.RFC3339)
	}
	if req.Limit > 0 {
		params["Limit"] = strconv.Itoa(req.Limit)
	}
	if req.Offset > 0 {
		params["Offset"] = strconv.Itoa(req.Offset)
	}
	if req.SortBy != "" {
		params["SortBy"] = string(req.SortBy)
	}
	if req.SortDirection != "" {
		params["SortDirection"] = string(req.SortDirection)
	}
	return c.getOrders(ctx, actionGetOrders, params)
}

// GetMultipleOrderItems returns the items of several orders at once
func (c *FalabellaClient) GetMultipleOrderItems(ctx context.Context, orderIDs []int64) ([]integration.Order, error) {
	list, err := jsonList(orderIDs)
	if err != nil {
		return nil, err
	}
	return c.getOrders(ctx, actionGetMultipleOrderItems, map[string]string{"OrderIdList": list})
}

// GetOrder retrieves a single order
func (c *FalabellaClient) GetOrder(ctx context.Context, orderID int64) (*integration.Order, error) {
	orders, err := c.getOrders(ctx, actionGetOrder, map[string]string{
		"OrderId": strconv.FormatInt(orderID, 10),
	})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: %d", integration.ErrOrderNotFound, orderID)
	}
	return &orders[0], nil
}

func (c *FalabellaClient) getOrders(ctx context.Context, action string, params map[string]string) ([]integration.Order, error) {
	var resp FalabellaOrdersResponse
	if err := c.call(ctx, http.MethodGet, action, params, nil, &resp); err != nil {
		return nil, err
	}

	orders := make([]integration.Order, 0, len(resp.Orders))
	for i := range resp.Orders {
		orders = append(orders, resp.Orders[i].ToDomain())
	}
	return orders, nil
}

// ---------------------------------------------------------------------------
// Catalog Operations
// ---------------------------------------------------------------------------

// GetCategoryTree returns the full category tree
func (c *FalabellaClient) GetCategoryTree(ctx context.Context) ([]integration.Category, error) {
	var resp FalabellaCategoryTreeResponse
	if err := c.call(ctx, http.MethodGet, actionGetCategoryTree, nil, nil, &resp); err != nil {
		return nil, err
	}

	categories := make([]integration.Category, 0, len(resp.Categories))
	for i := range resp.Categories {
		categories = append(categories, resp.Categories[i].ToDomain())
	}
	return categories, nil
}

// GetCategoryAttributes returns the attributes accepted by a category
func (c *FalabellaClient) GetCategoryAttributes(ctx context.Context, categoryID int64) ([]integration.CategoryAttribute, error) {
	params := map[string]string{"PrimaryCategory": strconv.FormatInt(categoryID, 10)}

	var resp FalabellaCategoryAttributesResponse
	if err := c.call(ctx, http.MethodGet, actionGetCategoryAttributes, params, nil, &resp); err != nil {
		return nil, err
	}

	attrs := make([]integration.CategoryAttribute, 0, len(resp.Attributes))
	for i := range resp.Attributes {
		attrs = append(attrs, resp.Attributes[i].ToDomain())
	}
	return attrs, nil
}

// GetBrands returns every brand known to the platform
func (c *FalabellaClient) GetBrands(ctx context.Context) ([]integration.Brand, error) {
	var resp FalabellaBrandsResponse
	if err := c.call(ctx, http.MethodGet, actionGetBrands, nil, nil, &resp); err != nil {
		return nil, err
	}

	brands := make([]integration.Brand, 0, len(resp.Brands))
	for _, b := range resp.Brands {
		brands = append(brands, integration.Brand{
			BrandID:          b.BrandID,
			Name:             b.Name,
			GlobalIdentifier: b.GlobalIdentifier,
		})
	}
	return brands, nil
}

// ---------------------------------------------------------------------------
// Account Operations
// ---------------------------------------------------------------------------

// GetSellerByUser returns the seller account behind the configured user
func (c *FalabellaClient) GetSellerByUser(ctx context.Context) (*integration.Seller, error) {
	var resp FalabellaSellerResponse
	if err := c.call(ctx, http.MethodGet, actionGetSellerByUser, nil, nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Sellers) == 0 {
		return nil, integration.ErrSellerNotFound
	}

	s := resp.Sellers[0]
	return &integration.Seller{
		SellerID:    s.SellerID,
		Name:        s.Name,
		CompanyName: s.CompanyName,
		Email:       s.Email,
		Country:     s.Country,
		Operator:    s.Operator,
	}, nil
}

// Webhooks returns the webhook manager bound to the same credentials
func (c *FalabellaClient) Webhooks() integration.WebhookManager {
	return c.webhooks
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

// call performs one Seller Center round trip and decodes the success body into out
func (c *FalabellaClient) call(ctx context.Context, method, action string, params map[string]string, body any, out any) error {
	respBody, err := c.doRequest(ctx, method, action, params, body)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: failed to parse %s response: %v", integration.ErrPlatformInvalidResponse, action, err)
	}
	return nil
}

// doRequest signs and sends a request. HTTP failures come back as
// *integration.TransportError, error documents as *integration.ErrorResponse.
func (c *FalabellaClient) doRequest(ctx context.Context, method, action string, params map[string]string, body any) ([]byte, error) {
	operator := c.config.CountryContext().OperatorCode
	ctx, span := telemetry.StartSpan(ctx, "falabella."+action,
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrAction, action),
		telemetry.WithAttribute(telemetry.SpanAttrOperator, operator),
		telemetry.WithAttribute(telemetry.SpanAttrMethod, method),
	)
	defer span.End()

	started := time.Now()
	respBody, err := c.roundTrip(ctx, method, action, params, body)
	if c.recorder != nil {
		c.recorder.RecordCall(ctx, action, operator, time.Since(started), err)
	}
	if err != nil {
		var te *integration.TransportError
		if errors.As(err, &te) {
			telemetry.SetAttribute(span, telemetry.SpanAttrStatus, te.StatusCode)
		}
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)
	return respBody, nil
}

func (c *FalabellaClient) roundTrip(ctx context.Context, method, action string, params map[string]string, body any) ([]byte, error) {
	query := map[string]string{
		"Action":    action,
		"Format":    "XML",
		"Timestamp": c.now().Format(time.RFC3339),
		"UserID":    c.config.UserID,
		"Version":   c.config.Version,
	}
	for k, v := range params {
		query[k] = v
	}
	query["Signature"] = c.config.Sign(query)

	var payload []byte
	if body != nil {
		encoded, err := xml.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("falabella: failed to encode %s request: %w", action, err)
		}
		payload = append([]byte(xml.Header), encoded...)
	}

	endpoint := strings.TrimRight(c.config.APIBaseURL, "/") + "/?" + canonicalQuery(query)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("falabella: failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent())
	req.Header.Set("Accept", "application/xml")
	if payload != nil {
		req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("falabella: failed to read response: %w", err)
	}

	// Check for HTTP errors
	if resp.StatusCode >= 400 {
		return nil, newTransportError(req, payload, resp, respBody)
	}

	if errResp := decodeErrorResponse(respBody); errResp != nil {
		return nil, errResp
	}
	return respBody, nil
}

// newTransportError captures the raw exchange of a failed call
func newTransportError(req *http.Request, payload []byte, resp *http.Response, respBody []byte) *integration.TransportError {
	req.Body = io.NopCloser(bytes.NewReader(payload))
	reqDump, err := httputil.DumpRequestOut(req, true)
	if err != nil {
		reqDump = []byte(req.Method + " " + req.URL.String())
	}

	respDump, err := httputil.DumpResponse(resp, false)
	if err != nil {
		respDump = []byte(resp.Proto + " " + resp.Status + "\r\n\r\n")
	}

	return &integration.TransportError{
		Request:      string(reqDump),
		Response:     string(respDump) + string(respBody),
		StatusCode:   resp.StatusCode,
		ReasonPhrase: reasonPhrase(resp),
	}
}

func reasonPhrase(resp *http.Response) string {
	phrase := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if phrase == "" {
		phrase = http.StatusText(resp.StatusCode)
	}
	return phrase
}

// decodeErrorResponse returns the error document carried by body, if any
func decodeErrorResponse(body []byte) *integration.ErrorResponse {
	if !bytes.Contains(body, []byte("<ErrorResponse")) {
		return nil
	}
	var doc FalabellaErrorResponse
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil
	}
	return doc.ToDomain()
}

// jsonList encodes a list parameter the way Seller Center expects it
func jsonList[T any](values []T) (string, error) {
	encoded, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("falabella: failed to encode list parameter: %w", err)
	}
	return string(encoded), nil
}

// Ensure FalabellaClient implements SellerCenterClient interface
var _ integration.SellerCenterClient = (*FalabellaClient)(nil)
