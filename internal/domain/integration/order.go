package integration

import (
	"time"

	"github.com/shopspring/decimal"
)

// Address is a billing or shipping address attached to an order
type Address struct {
	FirstName   string
	LastName    string
	Phone       string
	Address1    string
	Address2    string
	City        string
	Ward        string
	Region      string
	PostCode    string
	Country     string
	CustomerDNI string
}

// Order is an order as reported by the platform.
// Items is only filled by the order item endpoints.
type Order struct {
	OrderID           int64
	OrderNumber       string
	CustomerFirstName string
	CustomerLastName  string
	NationalRegistry  string
	PaymentMethod     string
	Remarks           string
	DeliveryInfo      string
	Price             decimal.Decimal
	GiftOption        bool
	GiftMessage       string
	VoucherCode       string
	CreatedAt         *time.Time
	UpdatedAt         *time.Time
	AddressBilling    Address
	AddressShipping   Address
	ItemsCount        int
	Statuses          []string
	OperatorCode      string
	Items             []OrderItem
}

// OrderItem is one line of an order
type OrderItem struct {
	OrderItemID          int64
	OrderID              int64
	ShopID               string
	Name                 string
	SellerSku            string
	ShopSku              string
	ShippingType         string
	ItemPrice            decimal.Decimal
	PaidPrice            decimal.Decimal
	Currency             string
	WalletCredits        decimal.Decimal
	TaxAmount            decimal.Decimal
	ShippingAmount       decimal.Decimal
	ShippingServiceCost  decimal.Decimal
	VoucherAmount        decimal.Decimal
	VoucherCode          string
	Status               string
	ShipmentProvider     string
	TrackingCode         string
	Reason               string
	ReasonDetail         string
	PurchaseOrderID      string
	PurchaseOrderNumber  string
	PackageID            string
	PromisedShippingTime *time.Time
	ExtraAttributes      string
	CreatedAt            *time.Time
	UpdatedAt            *time.Time
}
