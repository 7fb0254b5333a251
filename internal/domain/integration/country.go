package integration

import (
	"fmt"
	"strings"
)

const (
	// SellerCenterProductionURL is the production Seller Center endpoint
	SellerCenterProductionURL = "https://sellercenter-api.falabella.com"
	// SellerCenterStagingURL is the staging Seller Center endpoint
	SellerCenterStagingURL = "https://sellercenter-api-staging.falabella.com"
)

// CountryCode is the ISO 3166-1 alpha-3 code of a Falabella storefront
type CountryCode string

const (
	CountryArgentina CountryCode = "ARG"
	CountryBrazil    CountryCode = "BRA"
	CountryChile     CountryCode = "CHL"
	CountryColombia  CountryCode = "COL"
	CountryMexico    CountryCode = "MEX"
	CountryPeru      CountryCode = "PER"
	CountryUruguay   CountryCode = "URY"
	// CountryTest routes to the staging endpoint with the Chilean operator
	CountryTest CountryCode = "TST"
)

// operatorCodes maps each supported country to its tenant tag on the platform
var operatorCodes = map[CountryCode]string{
	CountryArgentina: "faar",
	CountryBrazil:    "fabr",
	CountryChile:     "facl",
	CountryColombia:  "faco",
	CountryMexico:    "famx",
	CountryPeru:      "fape",
	CountryTest:      "facl",
	CountryUruguay:   "fauy",
}

// IsValid returns true if the country code is supported
func (c CountryCode) IsValid() bool {
	_, ok := operatorCodes[c]
	return ok
}

// String returns the string representation of CountryCode
func (c CountryCode) String() string {
	return string(c)
}

// SupportedCountries returns every supported country code
func SupportedCountries() []CountryCode {
	return []CountryCode{
		CountryArgentina, CountryBrazil, CountryChile, CountryColombia,
		CountryMexico, CountryPeru, CountryTest, CountryUruguay,
	}
}

// CountryContext is derived once from a country code and selects the
// operator code and base endpoint used for every call.
type CountryContext struct {
	Country      CountryCode
	OperatorCode string
	Endpoint     string
}

// ResolveCountry builds the CountryContext for a country code.
func ResolveCountry(code CountryCode) (CountryContext, error) {
	operator, ok := operatorCodes[code]
	if !ok {
		return CountryContext{}, fmt.Errorf("%w: %q", ErrUnknownCountry, string(code))
	}

	endpoint := SellerCenterProductionURL
	if code == CountryTest {
		endpoint = SellerCenterStagingURL
	}

	return CountryContext{
		Country:      code,
		OperatorCode: operator,
		Endpoint:     endpoint,
	}, nil
}

// IsStaging returns true if calls go to the staging endpoint
func (c CountryContext) IsStaging() bool {
	return c.Endpoint == SellerCenterStagingURL
}

// ISO2 returns the two-letter country tag the platform expects in the User-Agent
func (c CountryContext) ISO2() string {
	if len(c.OperatorCode) < 2 {
		return ""
	}
	return strings.ToUpper(c.OperatorCode[len(c.OperatorCode)-2:])
}
