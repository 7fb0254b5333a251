package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCountry(t *testing.T) {
	tests := []struct {
		code         CountryCode
		operatorCode string
		endpoint     string
		iso2         string
	}{
		{CountryArgentina, "faar", SellerCenterProductionURL, "AR"},
		{CountryBrazil, "fabr", SellerCenterProductionURL, "BR"},
		{CountryChile, "facl", SellerCenterProductionURL, "CL"},
		{CountryColombia, "faco", SellerCenterProductionURL, "CO"},
		{CountryMexico, "famx", SellerCenterProductionURL, "MX"},
		{CountryPeru, "fape", SellerCenterProductionURL, "PE"},
		{CountryUruguay, "fauy", SellerCenterProductionURL, "UY"},
		{CountryTest, "facl", SellerCenterStagingURL, "CL"},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			ctx, err := ResolveCountry(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.code, ctx.Country)
			assert.Equal(t, tt.operatorCode, ctx.OperatorCode)
			assert.Equal(t, tt.endpoint, ctx.Endpoint)
			assert.Equal(t, tt.iso2, ctx.ISO2())
			assert.Equal(t, tt.code == CountryTest, ctx.IsStaging())
		})
	}
}

func TestResolveCountry_Unknown(t *testing.T) {
	for _, code := range []CountryCode{"", "USA", "chl", "CL"} {
		t.Run("code "+string(code), func(t *testing.T) {
			_, err := ResolveCountry(code)
			assert.ErrorIs(t, err, ErrUnknownCountry)
			assert.False(t, code.IsValid())
		})
	}
}

func TestSupportedCountries(t *testing.T) {
	countries := SupportedCountries()
	assert.Len(t, countries, 8)
	for _, c := range countries {
		assert.True(t, c.IsValid(), c.String())
	}
}

func TestCountryContext_ISO2_ShortOperator(t *testing.T) {
	assert.Equal(t, "", CountryContext{OperatorCode: "x"}.ISO2())
}
