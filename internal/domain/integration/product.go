package integration

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// ProductFilter represents the server-side product listing filters
// ---------------------------------------------------------------------------

// ProductFilter is one of the listing filters supported by the platform
type ProductFilter string

const (
	ProductFilterAll          ProductFilter = "all"
	ProductFilterLive         ProductFilter = "live"
	ProductFilterInactive     ProductFilter = "inactive"
	ProductFilterDeleted      ProductFilter = "deleted"
	ProductFilterImageMissing ProductFilter = "image-missing"
	ProductFilterPending      ProductFilter = "pending"
	ProductFilterRejected     ProductFilter = "rejected"
	ProductFilterSoldOut      ProductFilter = "sold-out"

	// DefaultProductFilter is used when the caller does not pick one
	DefaultProductFilter = ProductFilterAll
)

// IsValid returns true if the filter is supported by the platform
func (f ProductFilter) IsValid() bool {
	switch f {
	case ProductFilterAll, ProductFilterLive, ProductFilterInactive, ProductFilterDeleted,
		ProductFilterImageMissing, ProductFilterPending, ProductFilterRejected, ProductFilterSoldOut:
		return true
	default:
		return false
	}
}

// String returns the string representation of ProductFilter
func (f ProductFilter) String() string {
	return string(f)
}

// ProductStatus is the publication status of a product or business unit
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
	ProductStatusDeleted  ProductStatus = "deleted"
)

// ---------------------------------------------------------------------------
// BusinessUnit
// ---------------------------------------------------------------------------

// BusinessUnit is the per-operator price, stock and status of a product
type BusinessUnit struct {
	OperatorCode    string
	Price           decimal.Decimal
	SpecialPrice    *decimal.Decimal
	SpecialFromDate *time.Time
	SpecialToDate   *time.Time
	Stock           int
	Status          ProductStatus
	// IsPublished is only reported by the platform, never submitted
	IsPublished bool
}

// ---------------------------------------------------------------------------
// ProductData
// ---------------------------------------------------------------------------

// ProductData holds the category-specific attributes of a product
// (condition, package dimensions, short description and any seller extras).
type ProductData struct {
	values map[string]any
}

// NewProductData creates an empty attribute set
func NewProductData() *ProductData {
	return &ProductData{values: make(map[string]any)}
}

// Add sets an attribute, replacing any previous value. Nil values are ignored.
func (d *ProductData) Add(name string, value any) {
	if value == nil {
		return
	}
	d.values[name] = value
}

// Get returns the value of an attribute
func (d *ProductData) Get(name string) (any, bool) {
	v, ok := d.values[name]
	return v, ok
}

// Len returns the number of attributes
func (d *ProductData) Len() int {
	return len(d.values)
}

// Names returns the attribute names in lexical order
func (d *ProductData) Names() []string {
	names := make([]string, 0, len(d.values))
	for name := range d.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatAttributeValue renders an attribute value the way it is sent to the
// platform. Floats never use exponent notation, so JSON-decoded barcodes and
// weights keep every digit.
func FormatAttributeValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// IsValidAttributeName reports whether name can be used as an XML element
// name inside ProductData.
func IsValidAttributeName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		default:
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// GlobalProduct
// ---------------------------------------------------------------------------

// GlobalProduct is the platform product shape, used both for submissions and
// for listings. Partial submissions (update, remove) only fill SellerSku and
// the fields being changed.
type GlobalProduct struct {
	SellerSku       string
	ShopSku         string
	ParentSku       string
	Name            string
	Variation       string
	PrimaryCategory int64
	Description     string
	Brand           string
	ProductID       string
	TaxClass        string
	Color           string
	ColorBasico     string
	Size            string
	Talla           string
	Status          ProductStatus
	BusinessUnits   []BusinessUnit
	ProductData     *ProductData
	Images          []string
}

// ProductFromSku returns a product reference carrying only its seller SKU
func ProductFromSku(sku string) GlobalProduct {
	return GlobalProduct{SellerSku: sku}
}

// ProductImages is the image set submitted for one seller SKU
type ProductImages struct {
	SellerSku string
	URLs      []string
}

// QcStatus is the quality control state of a product
type QcStatus struct {
	SellerSku string
	Status    string
	Reason    string
}
