package onec

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/catalog/backend/internal/domain/erp"
)

func testConfig(endpoint string) Config {
	return Config{
		Endpoint:       endpoint,
		Username:       "sync",
		Password:       "secret",
		TimeoutSeconds: 5,
	}
}

func soapResponse(inner string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>` +
		`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body>` +
		inner +
		`</soap:Body></soap:Envelope>`
}

func TestConfigValidate(t *testing.T) {
	t.Run("accepts complete config", func(t *testing.T) {
		cfg := testConfig("https://erp.example.com/ws/catalog")
		require.NoError(t, cfg.Validate())
	})

	t.Run("rejects missing endpoint", func(t *testing.T) {
		cfg := testConfig("")
		require.Error(t, cfg.Validate())
	})

	t.Run("rejects non-http scheme", func(t *testing.T) {
		cfg := testConfig("ftp://erp.example.com")
		require.Error(t, cfg.Validate())
	})

	t.Run("rejects missing credentials", func(t *testing.T) {
		cfg := testConfig("https://erp.example.com")
		cfg.Password = ""
		require.Error(t, cfg.Validate())
	})
}

func TestGetCategories(t *testing.T) {
	t.Run("parses rows and sends basic auth", func(t *testing.T) {
		var gotAuth, gotRoot bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			gotAuth = ok && user == "sync" && pass == "secret"

			body, _ := io.ReadAll(r.Body)
			gotRoot = strings.Contains(string(body), "<m:RootId>hw-root</m:RootId>")

			_, _ = w.Write([]byte(soapResponse(`<GetCategoriesResponse><GetCategoriesResult>` +
				`<Category><Id>10</Id><Name>Locks</Name><Path>Hardware/Locks</Path></Category>` +
				`<Category><Id>11</Id><Name>Handles</Name><Path>Hardware/Handles</Path></Category>` +
				`</GetCategoriesResult></GetCategoriesResponse>`)))
		}))
		defer server.Close()

		client, err := NewClient(testConfig(server.URL), zap.NewNop())
		require.NoError(t, err)

		rows, err := client.GetCategories(context.Background(), "hw-root")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, erp.CategoryRow{ID: 10, Name: "Locks", Path: "Hardware/Locks"}, rows[0])
		assert.True(t, gotAuth)
		assert.True(t, gotRoot)
	})

	t.Run("empty result list is not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(soapResponse(`<GetCategoriesResponse><GetCategoriesResult/></GetCategoriesResponse>`)))
		}))
		defer server.Close()

		client, err := NewClient(testConfig(server.URL), zap.NewNop())
		require.NoError(t, err)

		rows, err := client.GetCategories(context.Background(), "hw-root")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("maps 401 to ErrUnauthorized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client, err := NewClient(testConfig(server.URL), zap.NewNop())
		require.NoError(t, err)

		_, err = client.GetCategories(context.Background(), "hw-root")
		require.ErrorIs(t, err, erp.ErrUnauthorized)
	})

	t.Run("surfaces SOAP faults", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(soapResponse(`<soap:Fault><faultcode>Server</faultcode><faultstring>root not found</faultstring></soap:Fault>`)))
		}))
		defer server.Close()

		client, err := NewClient(testConfig(server.URL), zap.NewNop())
		require.NoError(t, err)

		_, err = client.GetCategories(context.Background(), "bad-root")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "root not found")
	})

	t.Run("unreachable endpoint maps to ErrUnavailable", func(t *testing.T) {
		client, err := NewClient(testConfig("http://127.0.0.1:1"), zap.NewNop())
		require.NoError(t, err)

		_, err = client.GetCategories(context.Background(), "hw-root")
		require.ErrorIs(t, err, erp.ErrUnavailable)
	})
}

func TestGetProductDetailsDefensiveParsing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(soapResponse(`<GetProductDetailsResponse><GetProductDetailsResult>` +
			`<Product><Id>100</Id><Name>Lock</Name><CategoryPath>Hardware/Locks</CategoryPath>` +
			`<Stock>not-a-number</Stock><QuantityPerPack> 4 </QuantityPerPack>` +
			`<IsNew>Да</IsNew><IsSale>garbage</IsSale></Product>` +
			`</GetProductDetailsResult></GetProductDetailsResponse>`)))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL), zap.NewNop())
	require.NoError(t, err)

	rows, err := client.GetProductDetails(context.Background(), "hw-root")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// Garbage numeric/boolean text defaults, never errors
	assert.Equal(t, 0, rows[0].Stock)
	assert.Equal(t, 4, rows[0].QuantityPerPack)
	assert.True(t, rows[0].IsNew)
	assert.False(t, rows[0].IsSale)
}

func TestGetProductPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(soapResponse(`<GetProductPricesResponse><GetProductPricesResult>` +
			`<Price><ProductId>1</ProductId><PriceTypeId>2</PriceTypeId><Amount>120,50</Amount><Currency> rub </Currency></Price>` +
			`</GetProductPricesResult></GetProductPricesResponse>`)))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL), zap.NewNop())
	require.NoError(t, err)

	rows, err := client.GetProductPrices(context.Background(), "doors-root")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, int64(1), rows[0].ProductID)
	assert.Equal(t, int64(2), rows[0].PriceTypeID)
	assert.True(t, rows[0].Amount.Equal(decimal.NewFromFloat(120.50)))
	assert.Equal(t, "RUB", rows[0].Currency)
}
