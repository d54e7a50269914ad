// Package onec implements the ERP gateway over the 1C SOAP service.
package onec

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/catalog/backend/internal/domain/erp"
	"github.com/catalog/backend/internal/infrastructure/metrics"
)

// maxResponseSize is the maximum allowed response size from 1C (10MB)
const maxResponseSize = 10 * 1024 * 1024

const soapNamespace = "http://catalog.sync/onec"

// Config holds the 1C SOAP endpoint settings. Basic auth credentials are
// injected transport-side; callers of the gateway never see them.
type Config struct {
	Endpoint       string
	Username       string
	Password       string
	TimeoutSeconds int
}

// Validate checks that the configuration is complete
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("onec: endpoint is required")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("onec: invalid endpoint %q", c.Endpoint)
	}
	if c.Username == "" || c.Password == "" {
		return errors.New("onec: credentials are required")
	}
	if c.TimeoutSeconds <= 0 {
		return errors.New("onec: timeout must be positive")
	}
	return nil
}

// Client is the typed SOAP client implementing erp.Gateway
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new 1C gateway client
func NewClient(config Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}, nil
}

// GetPriceTypes returns all price types known to the ERP
func (c *Client) GetPriceTypes(ctx context.Context) ([]erp.PriceTypeRow, error) {
	body, err := c.call(ctx, "GetPriceTypes", "")
	if err != nil {
		return nil, err
	}

	var env priceTypesEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("onec: decode GetPriceTypes response: %w", err)
	}
	if err := faultError("GetPriceTypes", env.Body.Fault); err != nil {
		return nil, err
	}

	rows := make([]erp.PriceTypeRow, 0, len(env.Body.Response.Rows))
	for _, raw := range env.Body.Response.Rows {
		rows = append(rows, erp.PriceTypeRow{
			ID:   parseInt(raw.ID),
			Name: raw.Name,
		})
	}
	return rows, nil
}

// GetCategories returns all categories under the given root
func (c *Client) GetCategories(ctx context.Context, rootID string) ([]erp.CategoryRow, error) {
	body, err := c.call(ctx, "GetCategories", rootID)
	if err != nil {
		return nil, err
	}

	var env categoriesEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("onec: decode GetCategories response: %w", err)
	}
	if err := faultError("GetCategories", env.Body.Fault); err != nil {
		return nil, err
	}

	rows := make([]erp.CategoryRow, 0, len(env.Body.Response.Rows))
	for _, raw := range env.Body.Response.Rows {
		rows = append(rows, erp.CategoryRow{
			ID:   parseInt(raw.ID),
			Name: raw.Name,
			Path: raw.Path,
		})
	}
	return rows, nil
}

// GetProductDetails returns all product details under the given root
func (c *Client) GetProductDetails(ctx context.Context, rootID string) ([]erp.ProductRow, error) {
	body, err := c.call(ctx, "GetProductDetails", rootID)
	if err != nil {
		return nil, err
	}

	var env productsEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("onec: decode GetProductDetails response: %w", err)
	}
	if err := faultError("GetProductDetails", env.Body.Fault); err != nil {
		return nil, err
	}

	rows := make([]erp.ProductRow, 0, len(env.Body.Response.Rows))
	for _, raw := range env.Body.Response.Rows {
		rows = append(rows, erp.ProductRow{
			ID:              parseInt(raw.ID),
			Name:            raw.Name,
			CategoryPath:    raw.CategoryPath,
			PhotoURL:        raw.PhotoURL,
			SchemeURL:       raw.SchemeURL,
			Stock:           int(parseInt(raw.Stock)),
			QuantityPerPack: int(parseInt(raw.QuantityPerPack)),
			IsNew:           parseBool(raw.IsNew),
			IsSale:          parseBool(raw.IsSale),
		})
	}
	return rows, nil
}

// GetProductStocks returns stock quantities under the given root
func (c *Client) GetProductStocks(ctx context.Context, rootID string) ([]erp.StockRow, error) {
	body, err := c.call(ctx, "GetProductStocks", rootID)
	if err != nil {
		return nil, err
	}

	var env stocksEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("onec: decode GetProductStocks response: %w", err)
	}
	if err := faultError("GetProductStocks", env.Body.Fault); err != nil {
		return nil, err
	}

	rows := make([]erp.StockRow, 0, len(env.Body.Response.Rows))
	for _, raw := range env.Body.Response.Rows {
		rows = append(rows, erp.StockRow{
			ProductID: parseInt(raw.ProductID),
			Quantity:  int(parseInt(raw.Quantity)),
		})
	}
	return rows, nil
}

// GetProductPrices returns prices under the given root
func (c *Client) GetProductPrices(ctx context.Context, rootID string) ([]erp.PriceRow, error) {
	body, err := c.call(ctx, "GetProductPrices", rootID)
	if err != nil {
		return nil, err
	}

	var env pricesEnvelope
	if err := xml.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("onec: decode GetProductPrices response: %w", err)
	}
	if err := faultError("GetProductPrices", env.Body.Fault); err != nil {
		return nil, err
	}

	rows := make([]erp.PriceRow, 0, len(env.Body.Response.Rows))
	for _, raw := range env.Body.Response.Rows {
		rows = append(rows, erp.PriceRow{
			ProductID:   parseInt(raw.ProductID),
			PriceTypeID: parseInt(raw.PriceTypeID),
			Amount:      parseDecimal(raw.Amount),
			Currency:    normalizeCurrency(raw.Currency),
		})
	}
	return rows, nil
}

// call performs one SOAP request and returns the raw response body
func (c *Client) call(ctx context.Context, operation, rootID string) ([]byte, error) {
	envelope, err := buildRequestEnvelope(operation, rootID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(envelope))
	if err != nil {
		return nil, fmt.Errorf("onec: build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", soapNamespace+"/"+operation)
	req.SetBasicAuth(c.config.Username, c.config.Password)

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordGatewayRequest(operation, "error")
		return nil, fmt.Errorf("%w: %s: %v", erp.ErrUnavailable, operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		metrics.RecordGatewayRequest(operation, "error")
		return nil, fmt.Errorf("%w: %s: read response: %v", erp.ErrUnavailable, operation, err)
	}

	c.logger.Debug("1C call finished",
		zap.String("operation", operation),
		zap.String("root_id", rootID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		metrics.RecordGatewayRequest(operation, "error")
		return nil, fmt.Errorf("%w: %s", erp.ErrUnauthorized, operation)
	case resp.StatusCode >= 300:
		metrics.RecordGatewayRequest(operation, "error")
		return nil, fmt.Errorf("onec: %s returned status %d", operation, resp.StatusCode)
	}

	metrics.RecordGatewayRequest(operation, "success")
	return body, nil
}

// buildRequestEnvelope constructs the SOAP 1.1 request for an operation.
// Operations without a root scope send an empty body element.
func buildRequestEnvelope(operation, rootID string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body>`)
	fmt.Fprintf(&buf, `<m:%s xmlns:m=%q>`, operation, soapNamespace)
	if rootID != "" {
		buf.WriteString("<m:RootId>")
		if err := xml.EscapeText(&buf, []byte(rootID)); err != nil {
			return nil, fmt.Errorf("onec: escape root id: %w", err)
		}
		buf.WriteString("</m:RootId>")
	}
	fmt.Fprintf(&buf, `</m:%s>`, operation)
	buf.WriteString(`</soap:Body></soap:Envelope>`)
	return buf.Bytes(), nil
}

// faultError converts a SOAP fault to a Go error
func faultError(operation string, fault *soapFault) error {
	if fault == nil {
		return nil
	}
	return fmt.Errorf("onec: %s fault %s: %s", operation, fault.Code, fault.String)
}

// Ensure Client implements the gateway contract
var _ erp.Gateway = (*Client)(nil)
