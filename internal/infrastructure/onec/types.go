package onec

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// SOAP envelope types
// ---------------------------------------------------------------------------

// soapFault represents a SOAP 1.1 fault returned by the 1C service
type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
	Detail string `xml:"detail"`
}

type priceTypesEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Fault    *soapFault `xml:"Fault"`
		Response struct {
			Rows []priceTypeXML `xml:"GetPriceTypesResult>PriceType"`
		} `xml:"GetPriceTypesResponse"`
	} `xml:"Body"`
}

type categoriesEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Fault    *soapFault `xml:"Fault"`
		Response struct {
			Rows []categoryXML `xml:"GetCategoriesResult>Category"`
		} `xml:"GetCategoriesResponse"`
	} `xml:"Body"`
}

type productsEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Fault    *soapFault `xml:"Fault"`
		Response struct {
			Rows []productXML `xml:"GetProductDetailsResult>Product"`
		} `xml:"GetProductDetailsResponse"`
	} `xml:"Body"`
}

type stocksEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Fault    *soapFault `xml:"Fault"`
		Response struct {
			Rows []stockXML `xml:"GetProductStocksResult>Stock"`
		} `xml:"GetProductStocksResponse"`
	} `xml:"Body"`
}

type pricesEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Fault    *soapFault `xml:"Fault"`
		Response struct {
			Rows []priceXML `xml:"GetProductPricesResult>Price"`
		} `xml:"GetProductPricesResponse"`
	} `xml:"Body"`
}

// ---------------------------------------------------------------------------
// Raw row types
//
// 1C reports every numeric and boolean field as loosely-typed text.
// Conversion is defensive: garbage becomes the zero value, never an error.
// ---------------------------------------------------------------------------

type priceTypeXML struct {
	ID   string `xml:"Id"`
	Name string `xml:"Name"`
}

type categoryXML struct {
	ID   string `xml:"Id"`
	Name string `xml:"Name"`
	Path string `xml:"Path"`
}

type productXML struct {
	ID              string `xml:"Id"`
	Name            string `xml:"Name"`
	CategoryPath    string `xml:"CategoryPath"`
	PhotoURL        string `xml:"PhotoUrl"`
	SchemeURL       string `xml:"SchemeUrl"`
	Stock           string `xml:"Stock"`
	QuantityPerPack string `xml:"QuantityPerPack"`
	IsNew           string `xml:"IsNew"`
	IsSale          string `xml:"IsSale"`
}

type stockXML struct {
	ProductID string `xml:"ProductId"`
	Quantity  string `xml:"Quantity"`
}

type priceXML struct {
	ProductID   string `xml:"ProductId"`
	PriceTypeID string `xml:"PriceTypeId"`
	Amount      string `xml:"Amount"`
	Currency    string `xml:"Currency"`
}

// ---------------------------------------------------------------------------
// Defensive parsers
// ---------------------------------------------------------------------------

// parseInt converts loosely-typed 1C text to an integer, defaulting to 0
func parseInt(raw string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseDecimal converts loosely-typed 1C text to a decimal, defaulting to
// zero. 1C exports may use a comma as the decimal separator.
func parseDecimal(raw string) decimal.Decimal {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	v, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return v
}

// parseBool converts loosely-typed 1C text to a boolean, defaulting to false
func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "да", "истина":
		return true
	default:
		return false
	}
}

// normalizeCurrency uppercases a currency code, defaulting to RUB
func normalizeCurrency(raw string) string {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return "RUB"
	}
	return code
}
