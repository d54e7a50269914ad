package xmlimport

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/catalog/backend/internal/domain/erp"
)

// Common import errors
var (
	// ErrEmptyFile is returned when the XML file contains no products at all
	ErrEmptyFile = errors.New("catalog file contains no products")
)

// ImportReport summarizes one legacy catalog import
type ImportReport struct {
	Parsed  int
	Skipped int
}

// productXML mirrors one <product> block of the legacy catalog dump.
// All fields are read as text; the dump predates any schema discipline.
type productXML struct {
	ID              string `xml:"id"`
	Name            string `xml:"name"`
	CategoryPath    string `xml:"categoryPath"`
	PhotoURL        string `xml:"photo"`
	SchemeURL       string `xml:"scheme"`
	Stock           string `xml:"stock"`
	QuantityPerPack string `xml:"quantityPerPack"`
	IsNew           string `xml:"isNew"`
	IsSale          string `xml:"isSale"`
}

// ParseCatalog streams a legacy XML catalog dump and returns the product
// rows it could make sense of. Unlike the live sync, which fails fast, a
// malformed block here is logged, counted and skipped: the dump is a
// one-off migration input that nobody can fix upstream anymore.
func ParseCatalog(r io.Reader, logger *zap.Logger) ([]erp.ProductRow, ImportReport, error) {
	decoder := xml.NewDecoder(r)
	var (
		rows   []erp.ProductRow
		report ImportReport
	)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, report, fmt.Errorf("read catalog: %w", err)
		}

		start, ok := token.(xml.StartElement)
		if !ok || start.Name.Local != "product" {
			continue
		}

		var block productXML
		if err := decoder.DecodeElement(&block, &start); err != nil {
			report.Skipped++
			logger.Warn("Skipping malformed product block", zap.Error(err))
			continue
		}

		row, err := block.toRow()
		if err != nil {
			report.Skipped++
			logger.Warn("Skipping unusable product block",
				zap.String("id", block.ID),
				zap.Error(err),
			)
			continue
		}

		rows = append(rows, row)
		report.Parsed++
	}

	if report.Parsed == 0 && report.Skipped == 0 {
		return nil, report, ErrEmptyFile
	}
	return rows, report, nil
}

func (p productXML) toRow() (erp.ProductRow, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(p.ID), 10, 64)
	if err != nil || id <= 0 {
		return erp.ProductRow{}, fmt.Errorf("bad product id %q", p.ID)
	}

	name := strings.TrimSpace(p.Name)
	if name == "" {
		return erp.ProductRow{}, fmt.Errorf("product %d has no name", id)
	}

	categoryPath := strings.TrimSpace(p.CategoryPath)
	if categoryPath == "" {
		return erp.ProductRow{}, fmt.Errorf("product %d has no category path", id)
	}

	return erp.ProductRow{
		ID:              id,
		Name:            name,
		CategoryPath:    categoryPath,
		PhotoURL:        strings.TrimSpace(p.PhotoURL),
		SchemeURL:       strings.TrimSpace(p.SchemeURL),
		Stock:           parseCount(p.Stock),
		QuantityPerPack: parseCount(p.QuantityPerPack),
		IsNew:           parseFlag(p.IsNew),
		IsSale:          parseFlag(p.IsSale),
	}, nil
}

// parseCount reads a non-negative integer; anything unusable becomes zero
func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "да", "истина":
		return true
	}
	return false
}
