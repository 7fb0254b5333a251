package integration

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/astroselling/falabella-sdk/internal/domain/integration"
)

// Product attribute keys with a dedicated place in the submission.
// Anything else becomes a ProductData attribute.
const (
	attrPrimaryCategory  = "PrimaryCategory"
	attrBrand            = "Brand"
	attrConditionType    = "ConditionType"
	attrPackageHeight    = "PackageHeight"
	attrPackageWidth     = "PackageWidth"
	attrPackageLength    = "PackageLength"
	attrPackageWeight    = "PackageWeight"
	attrShortDescription = "ShortDescription"
	attrPrice            = "Price"
	attrQuantity         = "Quantity"
	attrSellerSku        = "SellerSku"
	attrName             = "Name"
	attrVariation        = "Variation"
	attrDescription      = "Description"
	attrProductID        = "ProductId"
	attrTaxClass         = "TaxClass"
	attrParentSku        = "ParentSku"
	attrColor            = "Color"
	attrColorBasico      = "ColorBasico"
	attrSize             = "Size"
	attrTalla            = "Talla"
)

// productDataKeys are recognized keys that still travel inside ProductData
var productDataKeys = []string{
	attrConditionType,
	attrPackageHeight,
	attrPackageWidth,
	attrPackageLength,
	attrPackageWeight,
	attrShortDescription,
}

var recognizedProductKeys = map[string]bool{
	attrPrimaryCategory: true, attrBrand: true, attrConditionType: true,
	attrPackageHeight: true, attrPackageWidth: true, attrPackageLength: true,
	attrPackageWeight: true, attrShortDescription: true, attrPrice: true,
	attrQuantity: true, attrSellerSku: true, attrName: true, attrVariation: true,
	attrDescription: true, attrProductID: true, attrTaxClass: true,
	attrParentSku: true, attrColor: true, attrColorBasico: true, attrSize: true,
	attrTalla: true,
}

// dateLayouts are the accepted sale_start / sale_end formats
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// payloadValidator returns the shared validator; decimals validate as float64
func payloadValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
	})
	return validate
}

// productSubmission holds the required fields of a product submission
type productSubmission struct {
	SellerSku       string           `validate:"required"`
	Name            string           `validate:"required"`
	PrimaryCategory int64            `validate:"required,gt=0"`
	Brand           string           `validate:"required"`
	Price           *decimal.Decimal `validate:"required,gte=0"`
	Quantity        *int             `validate:"required,gte=0"`
}

// businessUnitUpdate holds the fields of a price/stock update
type businessUnitUpdate struct {
	SellerSku string           `validate:"required"`
	Price     *decimal.Decimal `validate:"required,gte=0"`
	Stock     *int             `validate:"required,gte=0"`
	SalePrice *decimal.Decimal `validate:"omitempty,gte=0"`
}

// ---------------------------------------------------------------------------
// Builders
// ---------------------------------------------------------------------------

// BuildProductSubmission converts a loosely typed product into a submission
// with a single active business unit for operatorCode.
func BuildProductSubmission(attrs ProductAttributes, operatorCode string) (integration.GlobalProduct, error) {
	var conv converter
	sub := productSubmission{
		SellerSku:       conv.str(attrs, attrSellerSku),
		Name:            conv.str(attrs, attrName),
		PrimaryCategory: conv.int64(attrs, attrPrimaryCategory),
		Brand:           conv.str(attrs, attrBrand),
		Price:           conv.decimal(attrs, attrPrice),
		Quantity:        conv.int(attrs, attrQuantity),
	}
	if conv.err != nil {
		return integration.GlobalProduct{}, fmt.Errorf("%w: %v", integration.ErrInvalidProductSubmission, conv.err)
	}
	if err := payloadValidator().Struct(sub); err != nil {
		return integration.GlobalProduct{}, fmt.Errorf("%w: %s", integration.ErrInvalidProductSubmission, describeValidation(err))
	}

	data := integration.NewProductData()
	for _, key := range productDataKeys {
		data.Add(key, attrs[key])
	}
	for key, value := range attrs {
		if recognizedProductKeys[key] {
			continue
		}
		if !integration.IsValidAttributeName(key) {
			return integration.GlobalProduct{}, fmt.Errorf("%w: attribute name %q is not a valid element name",
				integration.ErrInvalidProductSubmission, key)
		}
		data.Add(key, value)
	}

	product := integration.GlobalProduct{
		SellerSku:       sub.SellerSku,
		ParentSku:       conv.str(attrs, attrParentSku),
		Name:            sub.Name,
		Variation:       conv.str(attrs, attrVariation),
		PrimaryCategory: sub.PrimaryCategory,
		Description:     conv.str(attrs, attrDescription),
		Brand:           sub.Brand,
		ProductID:       conv.str(attrs, attrProductID),
		TaxClass:        conv.str(attrs, attrTaxClass),
		Color:           conv.str(attrs, attrColor),
		ColorBasico:     conv.str(attrs, attrColorBasico),
		Size:            conv.str(attrs, attrSize),
		Talla:           conv.str(attrs, attrTalla),
		Status:          integration.ProductStatusActive,
		BusinessUnits: []integration.BusinessUnit{{
			OperatorCode: operatorCode,
			Price:        *sub.Price,
			Stock:        *sub.Quantity,
			Status:       integration.ProductStatusActive,
		}},
		ProductData: data,
	}
	if conv.err != nil {
		return integration.GlobalProduct{}, fmt.Errorf("%w: %v", integration.ErrInvalidProductSubmission, conv.err)
	}
	return product, nil
}

// BuildBusinessUnitUpdate converts a price/stock update for one SKU into a
// partial product carrying a single active business unit.
func BuildBusinessUnitUpdate(sku string, attrs ProductAttributes, operatorCode string) (integration.GlobalProduct, error) {
	var conv converter
	upd := businessUnitUpdate{
		SellerSku: sku,
		Price:     conv.decimal(attrs, UpdateKeyPrice),
		Stock:     conv.int(attrs, UpdateKeyStock),
		SalePrice: conv.decimal(attrs, UpdateKeySalePrice),
	}
	saleStart := conv.date(attrs, UpdateKeySaleStart)
	saleEnd := conv.date(attrs, UpdateKeySaleEnd)
	if conv.err != nil {
		return integration.GlobalProduct{}, fmt.Errorf("%w: sku %s: %v", integration.ErrInvalidBusinessUnitUpdate, sku, conv.err)
	}
	if err := payloadValidator().Struct(upd); err != nil {
		return integration.GlobalProduct{}, fmt.Errorf("%w: sku %s: %s", integration.ErrInvalidBusinessUnitUpdate, sku, describeValidation(err))
	}

	product := integration.ProductFromSku(sku)
	product.BusinessUnits = []integration.BusinessUnit{{
		OperatorCode:    operatorCode,
		Price:           *upd.Price,
		Stock:           *upd.Stock,
		Status:          integration.ProductStatusActive,
		SpecialPrice:    upd.SalePrice,
		SpecialFromDate: saleStart,
		SpecialToDate:   saleEnd,
	}}
	return product, nil
}

// BuildProductImages converts a SKU to URL list map into image submissions,
// one per SKU in SKU order.
func BuildProductImages(images map[string][]string) []integration.ProductImages {
	skus := make([]string, 0, len(images))
	for sku := range images {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	result := make([]integration.ProductImages, 0, len(skus))
	for _, sku := range skus {
		urls := make([]string, len(images[sku]))
		copy(urls, images[sku])
		result = append(result, integration.ProductImages{SellerSku: sku, URLs: urls})
	}
	return result
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		if e.Tag() == "required" {
			msgs = append(msgs, e.Field()+" is required")
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s must be %s %s", e.Field(), e.Tag(), e.Param()))
	}
	return strings.Join(msgs, ", ")
}

// ---------------------------------------------------------------------------
// Attribute conversion
// ---------------------------------------------------------------------------

// converter reads typed values out of attributes and keeps the first error
type converter struct {
	err error
}

func (c *converter) fail(key string, value any, want string) {
	if c.err == nil {
		c.err = fmt.Errorf("%s: cannot use %v (%T) as %s", key, value, value, want)
	}
}

func (c *converter) str(attrs ProductAttributes, key string) string {
	v, ok := attrs[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string, fmt.Stringer, json.Number, int, int32, int64, float32, float64, bool:
		return integration.FormatAttributeValue(t)
	default:
		c.fail(key, v, "string")
		return ""
	}
}

func (c *converter) int64(attrs ProductAttributes, key string) int64 {
	v, ok := attrs[key]
	if !ok || v == nil {
		return 0
	}
	switch t := v.(type) {
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case int64:
		return t
	case float64:
		if t == float64(int64(t)) {
			return int64(t)
		}
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			return n
		}
	}
	c.fail(key, v, "integer")
	return 0
}

func (c *converter) int(attrs ProductAttributes, key string) *int {
	if v, ok := attrs[key]; !ok || v == nil {
		return nil
	}
	before := c.err
	n := int(c.int64(attrs, key))
	if c.err != before {
		return nil
	}
	return &n
}

func (c *converter) decimal(attrs ProductAttributes, key string) *decimal.Decimal {
	v, ok := attrs[key]
	if !ok || v == nil {
		return nil
	}
	var d decimal.Decimal
	switch t := v.(type) {
	case decimal.Decimal:
		d = t
	case *decimal.Decimal:
		if t == nil {
			return nil
		}
		d = *t
	case int:
		d = decimal.NewFromInt(int64(t))
	case int64:
		d = decimal.NewFromInt(t)
	case float64:
		d = decimal.NewFromFloat(t)
	case json.Number:
		parsed, err := decimal.NewFromString(t.String())
		if err != nil {
			c.fail(key, v, "decimal")
			return nil
		}
		d = parsed
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		parsed, err := decimal.NewFromString(strings.TrimSpace(t))
		if err != nil {
			c.fail(key, v, "decimal")
			return nil
		}
		d = parsed
	default:
		c.fail(key, v, "decimal")
		return nil
	}
	return &d
}

func (c *converter) date(attrs ProductAttributes, key string) *time.Time {
	v, ok := attrs[key]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return &t
	case *time.Time:
		return t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return &parsed
			}
		}
	}
	c.fail(key, v, "date")
	return nil
}
