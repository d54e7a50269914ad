package sync

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/erp"
	"github.com/catalog/backend/internal/domain/shared"
	"github.com/catalog/backend/internal/domain/shared/valueobject"
)

// Partition identifies one root-category scope in the ERP.
// Partitions are configuration, not compiled constants, so subtrees can
// change without a rebuild.
type Partition struct {
	// Code is the local partition tag, e.g. "doors" or "hardware"
	Code string
	// RootID is the root-category identifier the ERP is queried with
	RootID string
	// RootCategoryID is the local id of the synthetic root category
	RootCategoryID int64
	// RootName is the display name of the synthetic root category
	RootName string
}

// RootSegment derives the materialized-path segment of the partition root
// from the ERP root identifier, keeping only path-safe characters.
func (p Partition) RootSegment() string {
	var b []rune
	for _, r := range p.RootID {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b = append(b, r)
		}
	}
	return string(b)
}

// MappedCategory is a normalized category ready for reconciliation
type MappedCategory struct {
	ID       int64
	Name     string
	Slug     string
	ParentID *int64
	Path     catalog.TreePath
}

// MappedProduct is a normalized product ready for reconciliation
type MappedProduct struct {
	ID      int64
	Details catalog.ProductDetails
	Stock   int
}

// MappedPrice is a normalized price ready for reconciliation
type MappedPrice struct {
	Key   catalog.PriceKey
	Price valueobject.Money
}

// CategoryIndex resolves an ERP-reported category path to a local
// category id. It is built from the categories mapped in the same sync
// run, which is why the categories job must run before product details.
type CategoryIndex struct {
	byPath map[string]int64
}

// Resolve returns the category id for an ERP-reported path.
// An unknown path is an explicit failure: silently defaulting would make
// the product unreachable in the tree.
func (idx *CategoryIndex) Resolve(categoryPath string) (int64, error) {
	id, ok := idx.byPath[categoryPath]
	if !ok {
		return 0, shared.NewDomainError("UNKNOWN_CATEGORY_PATH",
			fmt.Sprintf("Category path %q is not present in this sync run", categoryPath))
	}
	return id, nil
}

// Mapper transforms raw ERP rows into normalized shapes.
// It performs no I/O; the logger only reports discarded duplicates.
type Mapper struct {
	logger *zap.Logger
}

// NewMapper creates a new catalog mapper
func NewMapper(logger *zap.Logger) *Mapper {
	return &Mapper{logger: logger}
}

// MapCategories prepends the synthetic partition root and maps every
// remote category as a flat child of it, one level deep.
func (m *Mapper) MapCategories(partition Partition, rows []erp.CategoryRow) ([]MappedCategory, *CategoryIndex, error) {
	rootPath, err := catalog.NewRootPath(partition.RootSegment())
	if err != nil {
		return nil, nil, fmt.Errorf("map categories for %s: %w", partition.Code, err)
	}

	root := MappedCategory{
		ID:   partition.RootCategoryID,
		Name: partition.RootName,
		Slug: Slugify(partition.RootName, "category", partition.RootCategoryID),
		Path: rootPath,
	}

	index := &CategoryIndex{byPath: make(map[string]int64, len(rows)+1)}
	index.byPath[partition.RootID] = root.ID

	mapped := []MappedCategory{root}
	seen := make(map[int64]int, len(rows)) // id -> index into mapped

	for _, row := range rows {
		path, err := rootPath.Child(strconv.FormatInt(row.ID, 10))
		if err != nil {
			return nil, nil, fmt.Errorf("map category %d for %s: %w", row.ID, partition.Code, err)
		}
		parentID := root.ID
		category := MappedCategory{
			ID:       row.ID,
			Name:     row.Name,
			Slug:     Slugify(row.Name, "category", row.ID),
			ParentID: &parentID,
			Path:     path,
		}

		if at, dup := seen[row.ID]; dup {
			if mapped[at].Name != category.Name {
				m.logger.Warn("Duplicate category id with divergent fields, last occurrence wins",
					zap.Int64("category_id", row.ID),
					zap.String("partition", partition.Code),
				)
			}
			mapped[at] = category
		} else {
			seen[row.ID] = len(mapped)
			mapped = append(mapped, category)
		}
		index.byPath[row.Path] = row.ID
		index.byPath[row.Name] = row.ID
	}

	return mapped, index, nil
}

// MapProducts normalizes product rows, resolving each category reference
// through the index built from this run's categories
func (m *Mapper) MapProducts(partition Partition, rows []erp.ProductRow, index *CategoryIndex) ([]MappedProduct, error) {
	mapped := make([]MappedProduct, 0, len(rows))
	seen := make(map[int64]int, len(rows))

	for _, row := range rows {
		categoryID, err := index.Resolve(row.CategoryPath)
		if err != nil {
			return nil, fmt.Errorf("map product %d for %s: %w", row.ID, partition.Code, err)
		}

		var schemeURL *string
		if row.SchemeURL != "" {
			u := row.SchemeURL
			schemeURL = &u
		}

		product := MappedProduct{
			ID: row.ID,
			Details: catalog.ProductDetails{
				Name:            row.Name,
				Slug:            Slugify(row.Name, "product", row.ID),
				CategoryID:      categoryID,
				PhotoURL:        row.PhotoURL,
				SchemeURL:       schemeURL,
				QuantityPerPack: row.QuantityPerPack,
				IsNew:           row.IsNew,
				IsSale:          row.IsSale,
			},
			Stock: row.Stock,
		}

		if at, dup := seen[row.ID]; dup {
			if !detailsEqual(mapped[at].Details, product.Details) || mapped[at].Stock != product.Stock {
				m.logger.Warn("Duplicate product id with divergent fields, last occurrence wins",
					zap.Int64("product_id", row.ID),
					zap.String("partition", partition.Code),
				)
			}
			mapped[at] = product
		} else {
			seen[row.ID] = len(mapped)
			mapped = append(mapped, product)
		}
	}

	return mapped, nil
}

// detailsEqual compares details by value, dereferencing the scheme URL
func detailsEqual(a, b catalog.ProductDetails) bool {
	aScheme, bScheme := "", ""
	if a.SchemeURL != nil {
		aScheme = *a.SchemeURL
	}
	if b.SchemeURL != nil {
		bScheme = *b.SchemeURL
	}
	a.SchemeURL, b.SchemeURL = nil, nil
	return a == b && aScheme == bScheme
}

// MapPriceTypes de-duplicates price type rows by id, last occurrence wins
func (m *Mapper) MapPriceTypes(rows []erp.PriceTypeRow) []erp.PriceTypeRow {
	mapped := make([]erp.PriceTypeRow, 0, len(rows))
	seen := make(map[int64]int, len(rows))

	for _, row := range rows {
		if at, dup := seen[row.ID]; dup {
			if mapped[at] != row {
				m.logger.Warn("Duplicate price type id with divergent fields, last occurrence wins",
					zap.Int64("price_type_id", row.ID))
			}
			mapped[at] = row
		} else {
			seen[row.ID] = len(mapped)
			mapped = append(mapped, row)
		}
	}
	return mapped
}

// MapStocks de-duplicates stock rows by product id, last occurrence wins
func (m *Mapper) MapStocks(rows []erp.StockRow) []erp.StockRow {
	mapped := make([]erp.StockRow, 0, len(rows))
	seen := make(map[int64]int, len(rows))

	for _, row := range rows {
		if at, dup := seen[row.ProductID]; dup {
			if mapped[at] != row {
				m.logger.Warn("Duplicate stock row with divergent quantity, last occurrence wins",
					zap.Int64("product_id", row.ProductID))
			}
			mapped[at] = row
		} else {
			seen[row.ProductID] = len(mapped)
			mapped = append(mapped, row)
		}
	}
	return mapped
}

// MapPrices validates amounts and currencies and de-duplicates by
// (product, price type) key, last occurrence wins
func (m *Mapper) MapPrices(rows []erp.PriceRow) ([]MappedPrice, error) {
	mapped := make([]MappedPrice, 0, len(rows))
	seen := make(map[catalog.PriceKey]int, len(rows))

	for _, row := range rows {
		money, err := valueobject.NewMoney(row.Amount, valueobject.Currency(row.Currency))
		if err != nil {
			return nil, fmt.Errorf("map price for product %d type %d: %w", row.ProductID, row.PriceTypeID, err)
		}

		price := MappedPrice{
			Key:   catalog.PriceKey{ProductID: row.ProductID, PriceTypeID: row.PriceTypeID},
			Price: money,
		}

		if at, dup := seen[price.Key]; dup {
			if !mapped[at].Price.Equals(money) {
				m.logger.Warn("Duplicate price key with divergent amount, last occurrence wins",
					zap.Int64("product_id", row.ProductID),
					zap.Int64("price_type_id", row.PriceTypeID),
				)
			}
			mapped[at] = price
		} else {
			seen[price.Key] = len(mapped)
			mapped = append(mapped, price)
		}
	}

	return mapped, nil
}
