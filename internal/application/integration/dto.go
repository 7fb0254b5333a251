package integration

import (
	"github.com/astroselling/falabella-sdk/internal/domain/integration"
)

// ---------------------------------------------------------------------------
// Service Configuration
// ---------------------------------------------------------------------------

// ServiceConfig holds the seller credentials the service is bound to
type ServiceConfig struct {
	// Username is the Seller Center login, used in logs and error context
	Username string
	APIKey   string
	Country  integration.CountryCode
	SellerID string
	// CustomLogCalls enables one debug line per Seller Center call
	CustomLogCalls bool
}

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// ProductAttributes is a loosely typed product payload keyed by Seller Center
// attribute name (SellerSku, Name, Price, ...). Update payloads use the keys
// price, stock, sale_price, sale_start and sale_end.
type ProductAttributes map[string]any

// Recognized update keys
const (
	UpdateKeyPrice     = "price"
	UpdateKeyStock     = "stock"
	UpdateKeySalePrice = "sale_price"
	UpdateKeySaleStart = "sale_start"
	UpdateKeySaleEnd   = "sale_end"
)
