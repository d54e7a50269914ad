package sync

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/catalog/backend/internal/domain/catalog"
	"github.com/catalog/backend/internal/domain/erp"
)

// MockGateway is a mock implementation of erp.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) GetPriceTypes(ctx context.Context) ([]erp.PriceTypeRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]erp.PriceTypeRow), args.Error(1)
}

func (m *MockGateway) GetCategories(ctx context.Context, rootID string) ([]erp.CategoryRow, error) {
	args := m.Called(ctx, rootID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]erp.CategoryRow), args.Error(1)
}

func (m *MockGateway) GetProductDetails(ctx context.Context, rootID string) ([]erp.ProductRow, error) {
	args := m.Called(ctx, rootID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]erp.ProductRow), args.Error(1)
}

func (m *MockGateway) GetProductStocks(ctx context.Context, rootID string) ([]erp.StockRow, error) {
	args := m.Called(ctx, rootID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]erp.StockRow), args.Error(1)
}

func (m *MockGateway) GetProductPrices(ctx context.Context, rootID string) ([]erp.PriceRow, error) {
	args := m.Called(ctx, rootID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]erp.PriceRow), args.Error(1)
}

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id int64) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByPartition(ctx context.Context, partition string) ([]catalog.Category, error) {
	args := m.Called(ctx, partition)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) DeleteByPartitionExcept(ctx context.Context, partition string, keepIDs []int64) (int64, error) {
	args := m.Called(ctx, partition, keepIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) SaveBatch(ctx context.Context, categories []*catalog.Category) error {
	args := m.Called(ctx, categories)
	return args.Error(0)
}

// Transaction runs the unit against the mock itself; the rollback
// semantics are covered by the gorm repository tests.
func (m *MockCategoryRepository) Transaction(ctx context.Context, fn func(catalog.CategoryRepository) error) error {
	return fn(m)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDIncludingDeleted(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByPartition(ctx context.Context, partition string) ([]catalog.Product, error) {
	args := m.Called(ctx, partition)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []int64) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) SoftDeleteByPartitionExcept(ctx context.Context, partition string, keepIDs []int64) (int64, error) {
	args := m.Called(ctx, partition, keepIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) SaveBatch(ctx context.Context, products []*catalog.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

func (m *MockProductRepository) Transaction(ctx context.Context, fn func(catalog.ProductRepository) error) error {
	return fn(m)
}

// MockPriceTypeRepository is a mock implementation of catalog.PriceTypeRepository
type MockPriceTypeRepository struct {
	mock.Mock
}

func (m *MockPriceTypeRepository) FindByID(ctx context.Context, id int64) (*catalog.PriceType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.PriceType), args.Error(1)
}

func (m *MockPriceTypeRepository) FindAll(ctx context.Context) ([]catalog.PriceType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.PriceType), args.Error(1)
}

func (m *MockPriceTypeRepository) SaveBatch(ctx context.Context, priceTypes []*catalog.PriceType) error {
	args := m.Called(ctx, priceTypes)
	return args.Error(0)
}

// MockProductPriceRepository is a mock implementation of catalog.ProductPriceRepository
type MockProductPriceRepository struct {
	mock.Mock
}

func (m *MockProductPriceRepository) FindByKeys(ctx context.Context, keys []catalog.PriceKey) ([]catalog.ProductPrice, error) {
	args := m.Called(ctx, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ProductPrice), args.Error(1)
}

func (m *MockProductPriceRepository) FindByProductIDs(ctx context.Context, productIDs []int64) ([]catalog.ProductPrice, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ProductPrice), args.Error(1)
}

func (m *MockProductPriceRepository) DeleteByPartitionExcept(ctx context.Context, partition string, keep []catalog.PriceKey) (int64, error) {
	args := m.Called(ctx, partition, keep)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductPriceRepository) SaveBatch(ctx context.Context, prices []*catalog.ProductPrice) error {
	args := m.Called(ctx, prices)
	return args.Error(0)
}

func (m *MockProductPriceRepository) Transaction(ctx context.Context, fn func(catalog.ProductPriceRepository) error) error {
	return fn(m)
}

// Interface conformance for the mocks
var (
	_ erp.Gateway                    = (*MockGateway)(nil)
	_ catalog.CategoryRepository     = (*MockCategoryRepository)(nil)
	_ catalog.ProductRepository      = (*MockProductRepository)(nil)
	_ catalog.PriceTypeRepository    = (*MockPriceTypeRepository)(nil)
	_ catalog.ProductPriceRepository = (*MockProductPriceRepository)(nil)
)
