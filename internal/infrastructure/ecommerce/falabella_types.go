package ecommerce

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/astroselling/falabella-sdk/internal/domain/integration"
)

// ---------------------------------------------------------------------------
// Common Seller Center Response Types
// ---------------------------------------------------------------------------

// FalabellaHead is the <Head> element shared by success and error responses
type FalabellaHead struct {
	RequestID     string `xml:"RequestId"`
	RequestAction string `xml:"RequestAction"`
	ResponseType  string `xml:"ResponseType"`
	Timestamp     string `xml:"Timestamp"`
	ErrorType     string `xml:"ErrorType"`
	ErrorCode     int    `xml:"ErrorCode"`
	ErrorMessage  string `xml:"ErrorMessage"`
}

// FalabellaErrorResponse is an <ErrorResponse> document
type FalabellaErrorResponse struct {
	XMLName xml.Name      `xml:"ErrorResponse"`
	Head    FalabellaHead `xml:"Head"`
	Details []xmlRecord   `xml:"Body>ErrorDetail"`
}

// ToDomain converts the error body into the domain failure shape
func (r *FalabellaErrorResponse) ToDomain() *integration.ErrorResponse {
	details := make([]integration.FeedMessage, 0, len(r.Details))
	for _, d := range r.Details {
		details = append(details, d.toMessage())
	}
	return &integration.ErrorResponse{
		Type:    r.Head.ErrorType,
		Action:  r.Head.RequestAction,
		Code:    r.Head.ErrorCode,
		Message: r.Head.ErrorMessage,
		Details: details,
	}
}

// FalabellaSuccessResponse is a <SuccessResponse> document. Body is decoded
// separately into the action-specific type.
type FalabellaSuccessResponse struct {
	XMLName xml.Name      `xml:"SuccessResponse"`
	Head    FalabellaHead `xml:"Head"`
}

// ToFeedResponse converts the head of a bulk submission acknowledgement
func (r *FalabellaSuccessResponse) ToFeedResponse() *integration.FeedResponse {
	return &integration.FeedResponse{
		RequestID:     r.Head.RequestID,
		RequestAction: r.Head.RequestAction,
		ResponseType:  r.Head.ResponseType,
		Timestamp:     r.Head.Timestamp,
	}
}

// xmlField is one leaf element of a free-form record
type xmlField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

// xmlRecord is an element whose children are not known in advance
type xmlRecord struct {
	Fields []xmlField `xml:",any"`
}

func (r xmlRecord) toMessage() integration.FeedMessage {
	msg := make(integration.FeedMessage, len(r.Fields))
	for _, f := range r.Fields {
		msg[f.XMLName.Local] = strings.TrimSpace(f.Value)
	}
	return msg
}

// ---------------------------------------------------------------------------
// Feed Types
// ---------------------------------------------------------------------------

// FalabellaFeedStatusResponse is the response for FeedStatus
type FalabellaFeedStatusResponse struct {
	XMLName xml.Name            `xml:"SuccessResponse"`
	Head    FalabellaHead       `xml:"Head"`
	Feeds   []FalabellaFeedItem `xml:"Body>FeedDetail"`
}

// FalabellaFeedListResponse is the response for FeedOffsetList
type FalabellaFeedListResponse struct {
	XMLName xml.Name            `xml:"SuccessResponse"`
	Head    FalabellaHead       `xml:"Head"`
	Feeds   []FalabellaFeedItem `xml:"Body>Feed"`
}

// FalabellaFeedItem is a feed as reported by Seller Center
type FalabellaFeedItem struct {
	Feed             string      `xml:"Feed"`
	Status           string      `xml:"Status"`
	Action           string      `xml:"Action"`
	CreationDate     string      `xml:"CreationDate"`
	UpdatedDate      string      `xml:"UpdatedDate"`
	Source           string      `xml:"Source"`
	TotalRecords     int         `xml:"TotalRecords"`
	ProcessedRecords int         `xml:"ProcessedRecords"`
	FailedRecords    int         `xml:"FailedRecords"`
	Errors           []xmlRecord `xml:"FeedErrors>Error"`
	Warnings         []xmlRecord `xml:"FeedWarnings>Warning"`
	FailureReports   []xmlRecord `xml:"FailureReports"`
}

// ToDomain converts the wire feed into a domain feed
func (f *FalabellaFeedItem) ToDomain() integration.Feed {
	return integration.Feed{
		ID:               strings.TrimSpace(f.Feed),
		Status:           integration.FeedStatus(strings.TrimSpace(f.Status)),
		Source:           f.Source,
		Action:           f.Action,
		CreationDate:     parseFalabellaTime(f.CreationDate),
		UpdatedDate:      parseFalabellaTime(f.UpdatedDate),
		TotalRecords:     f.TotalRecords,
		ProcessedRecords: f.ProcessedRecords,
		FailedRecords:    f.FailedRecords,
		Errors:           recordsToMessages(f.Errors),
		Warnings:         recordsToMessages(f.Warnings),
		FailureReports:   recordsToMessages(f.FailureReports),
	}
}

func recordsToMessages(records []xmlRecord) []integration.FeedMessage {
	messages := make([]integration.FeedMessage, 0, len(records))
	for _, r := range records {
		if len(r.Fields) == 0 {
			continue
		}
		messages = append(messages, r.toMessage())
	}
	return messages
}

// ---------------------------------------------------------------------------
// Product Types
// ---------------------------------------------------------------------------

// FalabellaProductsResponse is the response for GetProducts
type FalabellaProductsResponse struct {
	XMLName  xml.Name           `xml:"SuccessResponse"`
	Head     FalabellaHead      `xml:"Head"`
	Products []FalabellaProduct `xml:"Body>Products>Product"`
}

// FalabellaProduct is a product in requests and listings
type FalabellaProduct struct {
	SellerSku       string                  `xml:"SellerSku"`
	ShopSku         string                  `xml:"ShopSku,omitempty"`
	ParentSku       string                  `xml:"ParentSku,omitempty"`
	Name            string                  `xml:"Name,omitempty"`
	Variation       string                  `xml:"Variation,omitempty"`
	PrimaryCategory string                  `xml:"PrimaryCategory,omitempty"`
	Description     string                  `xml:"Description,omitempty"`
	Brand           string                  `xml:"Brand,omitempty"`
	ProductID       string                  `xml:"ProductId,omitempty"`
	TaxClass        string                  `xml:"TaxClass,omitempty"`
	Color           string                  `xml:"Color,omitempty"`
	ColorBasico     string                  `xml:"ColorBasico,omitempty"`
	Size            string                  `xml:"Size,omitempty"`
	Talla           string                  `xml:"Talla,omitempty"`
	Status          string                  `xml:"Status,omitempty"`
	BusinessUnits   *FalabellaBusinessUnits `xml:"BusinessUnits,omitempty"`
	ProductData     *FalabellaProductData   `xml:"ProductData,omitempty"`
	Images          *FalabellaImageList     `xml:"Images,omitempty"`
}

// FalabellaBusinessUnits wraps the business units of a product. A nil
// wrapper leaves the element out of partial updates.
type FalabellaBusinessUnits struct {
	Units []FalabellaBusinessUnit `xml:"BusinessUnit"`
}

// FalabellaImageList wraps the image URLs of a product
type FalabellaImageList struct {
	URLs []string `xml:"Image"`
}

// FalabellaBusinessUnit is the per-operator block of a product
type FalabellaBusinessUnit struct {
	OperatorCode    string `xml:"OperatorCode"`
	Price           string `xml:"Price,omitempty"`
	SpecialPrice    string `xml:"SpecialPrice,omitempty"`
	SpecialFromDate string `xml:"SpecialFromDate,omitempty"`
	SpecialToDate   string `xml:"SpecialToDate,omitempty"`
	Stock           string `xml:"Stock,omitempty"`
	Status          string `xml:"Status,omitempty"`
	IsPublished     string `xml:"IsPublished,omitempty"`
}

// FalabellaProductData carries the free-form category attributes of a product
type FalabellaProductData struct {
	Fields []xmlField `xml:",any"`
}

// MarshalXML writes one element per attribute in name order
func (d *FalabellaProductData) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, f := range d.Fields {
		if err := e.EncodeElement(f.Value, xml.StartElement{Name: f.XMLName}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// newFalabellaProduct converts a domain product into its wire form
func newFalabellaProduct(p *integration.GlobalProduct) FalabellaProduct {
	wire := FalabellaProduct{
		SellerSku:   p.SellerSku,
		ParentSku:   p.ParentSku,
		Name:        p.Name,
		Variation:   p.Variation,
		Description: p.Description,
		Brand:       p.Brand,
		ProductID:   p.ProductID,
		TaxClass:    p.TaxClass,
		Color:       p.Color,
		ColorBasico: p.ColorBasico,
		Size:        p.Size,
		Talla:       p.Talla,
		Status:      string(p.Status),
	}
	if p.PrimaryCategory != 0 {
		wire.PrimaryCategory = strconv.FormatInt(p.PrimaryCategory, 10)
	}
	if len(p.BusinessUnits) > 0 {
		wire.BusinessUnits = &FalabellaBusinessUnits{Units: make([]FalabellaBusinessUnit, 0, len(p.BusinessUnits))}
		for _, bu := range p.BusinessUnits {
			wire.BusinessUnits.Units = append(wire.BusinessUnits.Units, newFalabellaBusinessUnit(bu))
		}
	}
	if len(p.Images) > 0 {
		wire.Images = &FalabellaImageList{URLs: p.Images}
	}
	if p.ProductData != nil && p.ProductData.Len() > 0 {
		data := &FalabellaProductData{}
		for _, name := range p.ProductData.Names() {
			v, _ := p.ProductData.Get(name)
			data.Fields = append(data.Fields, xmlField{
				XMLName: xml.Name{Local: name},
				Value:   integration.FormatAttributeValue(v),
			})
		}
		wire.ProductData = data
	}
	return wire
}

func newFalabellaBusinessUnit(bu integration.BusinessUnit) FalabellaBusinessUnit {
	wire := FalabellaBusinessUnit{
		OperatorCode: bu.OperatorCode,
		Price:        bu.Price.String(),
		Stock:        strconv.Itoa(bu.Stock),
		Status:       string(bu.Status),
	}
	if bu.SpecialPrice != nil {
		wire.SpecialPrice = bu.SpecialPrice.String()
	}
	if bu.SpecialFromDate != nil {
		wire.SpecialFromDate = bu.SpecialFromDate.Format(falabellaTimeLayout)
	}
	if bu.SpecialToDate != nil {
		wire.SpecialToDate = bu.SpecialToDate.Format(falabellaTimeLayout)
	}
	return wire
}

// ToDomain converts a listed product into the domain shape
func (p *FalabellaProduct) ToDomain() integration.GlobalProduct {
	product := integration.GlobalProduct{
		SellerSku:   p.SellerSku,
		ShopSku:     p.ShopSku,
		ParentSku:   p.ParentSku,
		Name:        p.Name,
		Variation:   p.Variation,
		Description: p.Description,
		Brand:       p.Brand,
		ProductID:   p.ProductID,
		TaxClass:    p.TaxClass,
		Color:       p.Color,
		ColorBasico: p.ColorBasico,
		Size:        p.Size,
		Talla:       p.Talla,
		Status:      integration.ProductStatus(p.Status),
		ProductData: integration.NewProductData(),
	}
	product.PrimaryCategory, _ = strconv.ParseInt(strings.TrimSpace(p.PrimaryCategory), 10, 64)
	if p.Images != nil {
		product.Images = p.Images.URLs
	}
	if p.BusinessUnits != nil {
		for _, bu := range p.BusinessUnits.Units {
			product.BusinessUnits = append(product.BusinessUnits, bu.ToDomain())
		}
	}
	if p.ProductData != nil {
		for _, f := range p.ProductData.Fields {
			product.ProductData.Add(f.XMLName.Local, strings.TrimSpace(f.Value))
		}
	}
	return product
}

// ToDomain converts a listed business unit into the domain shape
func (b *FalabellaBusinessUnit) ToDomain() integration.BusinessUnit {
	bu := integration.BusinessUnit{
		OperatorCode:    b.OperatorCode,
		Price:           ParseDecimal(b.Price),
		SpecialFromDate: parseFalabellaTime(b.SpecialFromDate),
		SpecialToDate:   parseFalabellaTime(b.SpecialToDate),
		Stock:           parseInt(b.Stock),
		Status:          integration.ProductStatus(b.Status),
		IsPublished:     b.IsPublished == "1" || strings.EqualFold(b.IsPublished, "true"),
	}
	if strings.TrimSpace(b.SpecialPrice) != "" {
		sp := ParseDecimal(b.SpecialPrice)
		bu.SpecialPrice = &sp
	}
	return bu
}

// FalabellaProductImage is the wire form of one image submission
type FalabellaProductImage struct {
	SellerSku string   `xml:"SellerSku"`
	Images    []string `xml:"Images>Image"`
}

// FalabellaQcStatusResponse is the response for GetQcStatus
type FalabellaQcStatusResponse struct {
	XMLName xml.Name           `xml:"SuccessResponse"`
	Head    FalabellaHead      `xml:"Head"`
	States  []FalabellaQcState `xml:"Body>Status>State"`
}

// FalabellaQcState is the quality control state of one SKU
type FalabellaQcState struct {
	SellerSku string `xml:"SellerSKU"`
	Status    string `xml:"Status"`
	Reason    string `xml:"Reason"`
}

// ---------------------------------------------------------------------------
// Request Bodies
// ---------------------------------------------------------------------------

// falabellaProductRequest is the <Request> body of product mutations
type falabellaProductRequest struct {
	XMLName  xml.Name           `xml:"Request"`
	Products []FalabellaProduct `xml:"Product"`
}

// falabellaImageRequest is the <Request> body of Image
type falabellaImageRequest struct {
	XMLName xml.Name                `xml:"Request"`
	Images  []FalabellaProductImage `xml:"ProductImage"`
}

// falabellaWebhookRequest is the <Request> body of CreateWebhook
type falabellaWebhookRequest struct {
	XMLName     xml.Name `xml:"Request"`
	CallbackURL string   `xml:"Webhook>CallbackUrl"`
	Events      []string `xml:"Webhook>Events>Event"`
}

// falabellaWebhookDeleteRequest is the <Request> body of DeleteWebhook
type falabellaWebhookDeleteRequest struct {
	XMLName   xml.Name `xml:"Request"`
	WebhookID string   `xml:"Webhook"`
}

// ---------------------------------------------------------------------------
// Order Types
// ---------------------------------------------------------------------------

// FalabellaOrdersResponse is the response for GetOrders, GetOrder and
// GetMultipleOrderItems
type FalabellaOrdersResponse struct {
	XMLName xml.Name         `xml:"SuccessResponse"`
	Head    FalabellaHead    `xml:"Head"`
	Orders  []FalabellaOrder `xml:"Body>Orders>Order"`
}

// FalabellaAddress is a billing or shipping address
type FalabellaAddress struct {
	FirstName   string `xml:"FirstName"`
	LastName    string `xml:"LastName"`
	Phone       string `xml:"Phone"`
	Address1    string `xml:"Address1"`
	Address2    string `xml:"Address2"`
	City        string `xml:"City"`
	Ward        string `xml:"Ward"`
	Region      string `xml:"Region"`
	PostCode    string `xml:"PostCode"`
	Country     string `xml:"Country"`
	CustomerDNI string `xml:"CustomerDni"`
}

// FalabellaOrder represents an order from Seller Center
type FalabellaOrder struct {
	OrderID           int64                `xml:"OrderId"`
	OrderNumber       string               `xml:"OrderNumber"`
	CustomerFirstName string               `xml:"CustomerFirstName"`
	CustomerLastName  string               `xml:"CustomerLastName"`
	NationalRegistry  string               `xml:"NationalRegistrationNumber"`
	PaymentMethod     string               `xml:"PaymentMethod"`
	Remarks           string               `xml:"Remarks"`
	DeliveryInfo      string               `xml:"DeliveryInfo"`
	Price             string               `xml:"Price"`
	GiftOption        string               `xml:"GiftOption"`
	GiftMessage       string               `xml:"GiftMessage"`
	VoucherCode       string               `xml:"VoucherCode"`
	CreatedAt         string               `xml:"CreatedAt"`
	UpdatedAt         string               `xml:"UpdatedAt"`
	AddressBilling    FalabellaAddress     `xml:"AddressBilling"`
	AddressShipping   FalabellaAddress     `xml:"AddressShipping"`
	ItemsCount        int                  `xml:"ItemsCount"`
	Statuses          []string             `xml:"Statuses>Status"`
	OperatorCode      string               `xml:"OperatorCode"`
	Items             []FalabellaOrderItem `xml:"OrderItems>OrderItem"`
}

// FalabellaOrderItem represents one order line
type FalabellaOrderItem struct {
	OrderItemID          int64  `xml:"OrderItemId"`
	OrderID              int64  `xml:"OrderId"`
	ShopID               string `xml:"ShopId"`
	Name                 string `xml:"Name"`
	Sku                  string `xml:"Sku"`
	ShopSku              string `xml:"ShopSku"`
	ShippingType         string `xml:"ShippingType"`
	ItemPrice            string `xml:"ItemPrice"`
	PaidPrice            string `xml:"PaidPrice"`
	Currency             string `xml:"Currency"`
	WalletCredits        string `xml:"WalletCredits"`
	TaxAmount            string `xml:"TaxAmount"`
	ShippingAmount       string `xml:"ShippingAmount"`
	ShippingServiceCost  string `xml:"ShippingServiceCost"`
	VoucherAmount        string `xml:"VoucherAmount"`
	VoucherCode          string `xml:"VoucherCode"`
	Status               string `xml:"Status"`
	ShipmentProvider     string `xml:"ShipmentProvider"`
	TrackingCode         string `xml:"TrackingCode"`
	Reason               string `xml:"Reason"`
	ReasonDetail         string `xml:"ReasonDetail"`
	PurchaseOrderID      string `xml:"PurchaseOrderId"`
	PurchaseOrderNumber  string `xml:"PurchaseOrderNumber"`
	PackageID            string `xml:"PackageId"`
	PromisedShippingTime string `xml:"PromisedShippingTime"`
	ExtraAttributes      string `xml:"ExtraAttributes"`
	CreatedAt            string `xml:"CreatedAt"`
	UpdatedAt            string `xml:"UpdatedAt"`
}

// ToDomain converts a wire order into the domain shape
func (o *FalabellaOrder) ToDomain() integration.Order {
	order := integration.Order{
		OrderID:           o.OrderID,
		OrderNumber:       o.OrderNumber,
		CustomerFirstName: o.CustomerFirstName,
		CustomerLastName:  o.CustomerLastName,
		NationalRegistry:  o.NationalRegistry,
		PaymentMethod:     o.PaymentMethod,
		Remarks:           o.Remarks,
		DeliveryInfo:      o.DeliveryInfo,
		Price:             ParseDecimal(o.Price),
		GiftOption:        o.GiftOption == "1",
		GiftMessage:       o.GiftMessage,
		VoucherCode:       o.VoucherCode,
		CreatedAt:         parseFalabellaTime(o.CreatedAt),
		UpdatedAt:         parseFalabellaTime(o.UpdatedAt),
		AddressBilling:    o.AddressBilling.toDomain(),
		AddressShipping:   o.AddressShipping.toDomain(),
		ItemsCount:        o.ItemsCount,
		Statuses:          o.Statuses,
		OperatorCode:      o.OperatorCode,
	}
	for i := range o.Items {
		item := o.Items[i].ToDomain()
		if item.OrderID == 0 {
			item.OrderID = o.OrderID
		}
		order.Items = append(order.Items, item)
	}
	return order
}

func (a FalabellaAddress) toDomain() integration.Address {
	return integration.Address{
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Phone:       a.Phone,
		Address1:    a.Address1,
		Address2:    a.Address2,
		City:        a.City,
		Ward:        a.Ward,
		Region:      a.Region,
		PostCode:    a.PostCode,
		Country:     a.Country,
		CustomerDNI: a.CustomerDNI,
	}
}

// ToDomain converts a wire order item into the domain shape
func (i *FalabellaOrderItem) ToDomain() integration.OrderItem {
	return integration.OrderItem{
		OrderItemID:          i.OrderItemID,
		OrderID:              i.OrderID,
		ShopID:               i.ShopID,
		Name:                 i.Name,
		SellerSku:            i.Sku,
		ShopSku:              i.ShopSku,
		ShippingType:         i.ShippingType,
		ItemPrice:            ParseDecimal(i.ItemPrice),
		PaidPrice:            ParseDecimal(i.PaidPrice),
		Currency:             i.Currency,
		WalletCredits:        ParseDecimal(i.WalletCredits),
		TaxAmount:            ParseDecimal(i.TaxAmount),
		ShippingAmount:       ParseDecimal(i.ShippingAmount),
		ShippingServiceCost:  ParseDecimal(i.ShippingServiceCost),
		VoucherAmount:        ParseDecimal(i.VoucherAmount),
		VoucherCode:          i.VoucherCode,
		Status:               i.Status,
		ShipmentProvider:     i.ShipmentProvider,
		TrackingCode:         i.TrackingCode,
		Reason:               i.Reason,
		ReasonDetail:         i.ReasonDetail,
		PurchaseOrderID:      i.PurchaseOrderID,
		PurchaseOrderNumber:  i.PurchaseOrderNumber,
		PackageID:            i.PackageID,
		PromisedShippingTime: parseFalabellaTime(i.PromisedShippingTime),
		ExtraAttributes:      i.ExtraAttributes,
		CreatedAt:            parseFalabellaTime(i.CreatedAt),
		UpdatedAt:            parseFalabellaTime(i.UpdatedAt),
	}
}

// ---------------------------------------------------------------------------
// Catalog Types
// ---------------------------------------------------------------------------

// FalabellaCategoryTreeResponse is the response for GetCategoryTree
type FalabellaCategoryTreeResponse struct {
	XMLName    xml.Name            `xml:"SuccessResponse"`
	Head       FalabellaHead       `xml:"Head"`
	Categories []FalabellaCategory `xml:"Body>Categories>Category"`
}

// FalabellaCategory is a category node
type FalabellaCategory struct {
	Name             string              `xml:"Name"`
	CategoryID       int64               `xml:"CategoryId"`
	GlobalIdentifier string              `xml:"GlobalIdentifier"`
	AttributeSetID   int64               `xml:"AttributeSetId"`
	Children         []FalabellaCategory `xml:"Children>Category"`
}

// ToDomain converts the category subtree
func (c *FalabellaCategory) ToDomain() integration.Category {
	category := integration.Category{
		CategoryID:       c.CategoryID,
		Name:             c.Name,
		GlobalIdentifier: c.GlobalIdentifier,
		AttributeSetID:   c.AttributeSetID,
	}
	for i := range c.Children {
		category.Children = append(category.Children, c.Children[i].ToDomain())
	}
	return category
}

// FalabellaCategoryAttributesResponse is the response for GetCategoryAttributes
type FalabellaCategoryAttributesResponse struct {
	XMLName    xml.Name             `xml:"SuccessResponse"`
	Head       FalabellaHead        `xml:"Head"`
	Attributes []FalabellaAttribute `xml:"Body>Attribute"`
}

// FalabellaAttribute describes one category attribute
type FalabellaAttribute struct {
	Label         string   `xml:"Label"`
	Name          string   `xml:"Name"`
	FeedName      string   `xml:"FeedName"`
	IsMandatory   string   `xml:"isMandatory"`
	Description   string   `xml:"Description"`
	AttributeType string   `xml:"AttributeType"`
	ExampleValue  string   `xml:"ExampleValue"`
	MaxLength     string   `xml:"MaxLength"`
	Options       []string `xml:"Options>Option>Name"`
}

// ToDomain converts a wire attribute into the domain shape
func (a *FalabellaAttribute) ToDomain() integration.CategoryAttribute {
	return integration.CategoryAttribute{
		Name:          a.Name,
		Label:         a.Label,
		FeedName:      a.FeedName,
		IsMandatory:   a.IsMandatory == "1",
		Description:   a.Description,
		AttributeType: a.AttributeType,
		ExampleValue:  a.ExampleValue,
		MaxLength:     parseInt(a.MaxLength),
		Options:       a.Options,
	}
}

// FalabellaBrandsResponse is the response for GetBrands
type FalabellaBrandsResponse struct {
	XMLName xml.Name         `xml:"SuccessResponse"`
	Head    FalabellaHead    `xml:"Head"`
	Brands  []FalabellaBrand `xml:"Body>Brands>Brand"`
}

// FalabellaBrand is a brand known to Seller Center
type FalabellaBrand struct {
	BrandID          int64  `xml:"BrandId"`
	Name             string `xml:"Name"`
	GlobalIdentifier string `xml:"GlobalIdentifier"`
}

// FalabellaSellerResponse is the response for GetSellerByUser
type FalabellaSellerResponse struct {
	XMLName xml.Name          `xml:"SuccessResponse"`
	Head    FalabellaHead     `xml:"Head"`
	Sellers []FalabellaSeller `xml:"Body>Seller"`
}

// FalabellaSeller is the seller account
type FalabellaSeller struct {
	SellerID    string `xml:"SellerId"`
	Name        string `xml:"Name"`
	CompanyName string `xml:"CompanyName"`
	Email       string `xml:"Email"`
	Country     string `xml:"Country"`
	Operator    string `xml:"Operator"`
}

// ---------------------------------------------------------------------------
// Webhook Types
// ---------------------------------------------------------------------------

// FalabellaWebhooksResponse is the response for GetWebhooks
type FalabellaWebhooksResponse struct {
	XMLName  xml.Name           `xml:"SuccessResponse"`
	Head     FalabellaHead      `xml:"Head"`
	Webhooks []FalabellaWebhook `xml:"Body>Webhooks>Webhook"`
}

// FalabellaCreateWebhookResponse is the response for CreateWebhook
type FalabellaCreateWebhookResponse struct {
	XMLName   xml.Name      `xml:"SuccessResponse"`
	Head      FalabellaHead `xml:"Head"`
	WebhookID string        `xml:"Body>Webhook>WebhookId"`
}

// FalabellaWebhook is a webhook registration
type FalabellaWebhook struct {
	WebhookID   string   `xml:"WebhookId"`
	CallbackURL string   `xml:"CallbackUrl"`
	Source      string   `xml:"WebhookSource"`
	Events      []string `xml:"Events>Event"`
}

// FalabellaWebhookEntitiesResponse is the response for GetWebhookEntities
type FalabellaWebhookEntitiesResponse struct {
	XMLName  xml.Name                 `xml:"SuccessResponse"`
	Head     FalabellaHead            `xml:"Head"`
	Entities []FalabellaWebhookEntity `xml:"Body>Entities>Entity"`
}

// FalabellaWebhookEntity groups the events of one entity
type FalabellaWebhookEntity struct {
	Name   string `xml:"Name"`
	Events []struct {
		Name  string `xml:"Name"`
		Alias string `xml:"Alias"`
	} `xml:"Events>Event"`
}

// ---------------------------------------------------------------------------
// Helper Functions
// ---------------------------------------------------------------------------

// falabellaTimeLayout is the timestamp layout used in Seller Center payloads
const falabellaTimeLayout = "2006-01-02 15:04:05"

var falabellaTimeLayouts = []string{
	falabellaTimeLayout,
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02",
}

// parseFalabellaTime parses a Seller Center timestamp; empty or malformed
// values yield nil
func parseFalabellaTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range falabellaTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &t
		}
	}
	return nil
}

// ParseDecimal safely parses a string to decimal
func ParseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
