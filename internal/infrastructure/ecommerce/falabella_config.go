package ecommerce

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"runtime"
	"sort"
	"strings"

	"github.com/astroselling/falabella-sdk/internal/domain/integration"
)

const (
	// FalabellaAPIVersion is the Seller Center API version sent with every call
	FalabellaAPIVersion = "1.0"
	// FalabellaDefaultIntegrator is the integrator tag reported in the User-Agent
	FalabellaDefaultIntegrator = "ASTROSELLING"
	// falabellaLanguage is the client language tag reported in the User-Agent
	falabellaLanguage = "GO"
)

// Errors for Falabella configuration
var (
	ErrFalabellaConfigMissingUserID   = errors.New("falabella: user id is required")
	ErrFalabellaConfigMissingAPIKey   = errors.New("falabella: api key is required")
	ErrFalabellaConfigMissingSellerID = errors.New("falabella: seller id is required")
)

// FalabellaConfig holds configuration for the Falabella Seller Center API
type FalabellaConfig struct {
	// UserID is the Seller Center login (e-mail) the API key belongs to
	UserID string
	// APIKey signs every request
	APIKey string
	// SellerID is the seller account id, reported in the User-Agent
	SellerID string
	// Country selects the operator and the endpoint
	Country integration.CountryCode
	// Integrator identifies the integrating software in the User-Agent
	Integrator string
	// Version is the API version parameter
	Version string
	// APIBaseURL overrides the endpoint derived from Country
	APIBaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int

	country integration.CountryContext
}

// NewFalabellaConfig creates a new Falabella configuration with defaults.
// The endpoint is derived from the country; an unknown country is rejected.
func NewFalabellaConfig(userID, apiKey, sellerID string, country integration.CountryCode) (*FalabellaConfig, error) {
	cc, err := integration.ResolveCountry(country)
	if err != nil {
		return nil, err
	}
	return &FalabellaConfig{
		UserID:         userID,
		APIKey:         apiKey,
		SellerID:       sellerID,
		Country:        country,
		Integrator:     FalabellaDefaultIntegrator,
		Version:        FalabellaAPIVersion,
		APIBaseURL:     cc.Endpoint,
		TimeoutSeconds: 30,
		country:        cc,
	}, nil
}

// Validate validates the Falabella configuration and fills defaults
func (c *FalabellaConfig) Validate() error {
	if c.UserID == "" {
		return ErrFalabellaConfigMissingUserID
	}
	if c.APIKey == "" {
		return ErrFalabellaConfigMissingAPIKey
	}
	if c.SellerID == "" {
		return ErrFalabellaConfigMissingSellerID
	}
	cc, err := integration.ResolveCountry(c.Country)
	if err != nil {
		return err
	}
	c.country = cc
	if c.APIBaseURL == "" {
		c.APIBaseURL = cc.Endpoint
	}
	if c.Integrator == "" {
		c.Integrator = FalabellaDefaultIntegrator
	}
	if c.Version == "" {
		c.Version = FalabellaAPIVersion
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// CountryContext returns the country context resolved by Validate
func (c *FalabellaConfig) CountryContext() integration.CountryContext {
	return c.country
}

// UserAgent builds the User-Agent header: seller/language/version/integrator/country
func (c *FalabellaConfig) UserAgent() string {
	return fmt.Sprintf("%s/%s/%s/%s/%s",
		c.SellerID,
		falabellaLanguage,
		strings.TrimPrefix(runtime.Version(), "go"),
		c.Integrator,
		c.country.ISO2(),
	)
}

// Sign computes the request signature: hex HMAC-SHA256 keyed with the API key
// over the parameters sorted by name and joined as k=v pairs with RFC 3986
// percent-encoding.
func (c *FalabellaConfig) Sign(params map[string]string) string {
	h := hmac.New(sha256.New, []byte(c.APIKey))
	h.Write([]byte(canonicalQuery(params)))
	return hex.EncodeToString(h.Sum(nil))
}

// canonicalQuery encodes params sorted by key, spaces as %20
func canonicalQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for i, k := range keys {
		if i > 0 {
			builder.WriteByte('&')
		}
		builder.WriteString(rawURLEncode(k))
		builder.WriteByte('=')
		builder.WriteString(rawURLEncode(params[k]))
	}
	return builder.String()
}

func rawURLEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
