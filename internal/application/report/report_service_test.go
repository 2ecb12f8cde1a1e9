package report

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/bakery/backend/internal/domain/catalog"
	"github.com/bakery/backend/internal/domain/order"
	"github.com/bakery/backend/internal/domain/report"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindForReport(ctx context.Context, bakeryID string, filter order.ReportFilter) ([]order.Order, error) {
	args := m.Called(ctx, bakeryID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

// MockClientRepository is a mock implementation of partner.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindB2BClientIDs(ctx context.Context, bakeryID string) ([]string, error) {
	args := m.Called(ctx, bakeryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindAll(ctx context.Context, bakeryID string) ([]catalog.Product, error) {
	args := m.Called(ctx, bakeryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

// MockSettingsRepository is a mock implementation of settings.Repository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) DefaultDateField(ctx context.Context, bakeryID string) (order.DateField, error) {
	args := m.Called(ctx, bakeryID)
	return args.Get(0).(order.DateField), args.Error(1)
}

// memoryCache is a JSON round-tripping ResultCache for tests
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

type serviceFixture struct {
	orders   *MockOrderRepository
	clients  *MockClientRepository
	products *MockProductRepository
	settings *MockSettingsRepository
	service  *ReportService
}

func newServiceFixture(opts ...ServiceOption) *serviceFixture {
	f := &serviceFixture{
		orders:   new(MockOrderRepository),
		clients:  new(MockClientRepository),
		products: new(MockProductRepository),
		settings: new(MockSettingsRepository),
	}
	f.service = NewReportService(f.orders, f.clients, f.products, f.settings, newTestEngine(), opts...)
	return f
}

// expectInput wires the repositories to return the end-to-end scenario
func (f *serviceFixture) expectInput(t *testing.T, filter order.ReportFilter) {
	in := endToEndInput(t)
	f.orders.On("FindForReport", mock.Anything, testBakery, filter).Return(in.Orders, nil)
	f.clients.On("FindB2BClientIDs", mock.Anything, testBakery).Return(in.B2BClientIDs, nil)
	f.products.On("FindAll", mock.Anything, testBakery).Return(in.Products, nil)
}

func (f *serviceFixture) assertExpectations(t *testing.T) {
	f.orders.AssertExpectations(t)
	f.clients.AssertExpectations(t)
	f.products.AssertExpectations(t)
	f.settings.AssertExpectations(t)
}

// ============================================
// Request validation
// ============================================

func TestReportService_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("missing bakery", func(t *testing.T) {
		f := newServiceFixture()
		_, err := f.service.GetSalesReport(ctx, "", report.Options{})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_BAKERY", domainErr.Code)
		f.assertExpectations(t)
	})

	tests := []struct {
		name string
		opts report.Options
	}{
		{name: "unknown period", opts: report.Options{Period: "yearly"}},
		{name: "unknown metrics", opts: report.Options{Metrics: "profit"}},
		{name: "unknown segment", opts: report.Options{Segment: "wholesale"}},
		{name: "unknown date field", opts: report.Options{DateField: "createdAt"}},
		{name: "unknown grouping", opts: report.Options{GroupBy: "week"}},
		{name: "reversed range", opts: report.Options{StartDate: at(2024, 3, 10), EndDate: at(2024, 3, 1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture()
			_, err := f.service.GetProductReport(ctx, testBakery, tt.opts)
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, "INVALID_INPUT", domainErr.Code)
			f.orders.AssertNotCalled(t, "FindForReport", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

// ============================================
// Date field resolution
// ============================================

func TestReportService_DateFieldResolution(t *testing.T) {
	ctx := context.Background()

	t.Run("request wins", func(t *testing.T) {
		f := newServiceFixture()
		f.expectInput(t, order.ReportFilter{DateField: order.DateFieldPreparation})

		rep, err := f.service.GetSalesOverview(ctx, testBakery, report.Options{DateField: order.DateFieldPreparation})
		require.NoError(t, err)
		assert.Equal(t, "preparationDate", rep.Metadata.DateField)
		f.settings.AssertNotCalled(t, "DefaultDateField", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("bakery setting", func(t *testing.T) {
		f := newServiceFixture()
		f.settings.On("DefaultDateField", mock.Anything, testBakery).Return(order.DateFieldPayment, nil)
		f.expectInput(t, order.ReportFilter{DateField: order.DateFieldPayment})

		rep, err := f.service.GetSalesOverview(ctx, testBakery, report.Options{})
		require.NoError(t, err)
		assert.Equal(t, "paymentDate", rep.Metadata.DateField)
		f.assertExpectations(t)
	})

	t.Run("service default", func(t *testing.T) {
		f := newServiceFixture(WithDefaultDateField(order.DateFieldPreparation))
		f.settings.On("DefaultDateField", mock.Anything, testBakery).Return(order.DateField(""), nil)
		f.expectInput(t, order.ReportFilter{DateField: order.DateFieldPreparation})

		rep, err := f.service.GetSalesOverview(ctx, testBakery, report.Options{})
		require.NoError(t, err)
		assert.Equal(t, "preparationDate", rep.Metadata.DateField)
		f.assertExpectations(t)
	})

	t.Run("settings failure", func(t *testing.T) {
		f := newServiceFixture()
		f.settings.On("DefaultDateField", mock.Anything, testBakery).Return(order.DateField(""), errors.New("connection refused"))

		_, err := f.service.GetSalesReport(ctx, testBakery, report.Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bakery settings")
	})
}

// ============================================
// Report retrieval
// ============================================

func TestReportService_GetProductReport(t *testing.T) {
	f := newServiceFixture()
	f.expectInput(t, order.ReportFilter{DateField: order.DateFieldDue})

	rep, err := f.service.GetProductReport(context.Background(), testBakery, report.Options{DateField: order.DateFieldDue, Segment: report.SegmentAll})
	require.NoError(t, err)
	require.Len(t, rep.Products, 1)
	assert.Equal(t, int64(139700), rep.Products[0].Totals.Revenue.IntPart())
	assert.Equal(t, int64(44000), rep.Products[0].B2B.Revenue.IntPart())
	assert.Equal(t, testBakery, rep.Metadata.BakeryID)
	f.assertExpectations(t)
}

func TestReportService_RepositoryFailure(t *testing.T) {
	f := newServiceFixture()
	f.orders.On("FindForReport", mock.Anything, testBakery, mock.Anything).Return(nil, errors.New("timeout"))
	f.clients.On("FindB2BClientIDs", mock.Anything, testBakery).Return([]string{}, nil).Maybe()
	f.products.On("FindAll", mock.Anything, testBakery).Return([]catalog.Product{}, nil).Maybe()

	_, err := f.service.GetSalesReport(context.Background(), testBakery, report.Options{DateField: order.DateFieldDue})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load orders")
}

func TestReportService_SalesReportsIncludeUnpaidOrders(t *testing.T) {
	all := order.ReportFilter{DateField: order.DateFieldDue}

	f := newServiceFixture()
	f.expectInput(t, all)
	_, err := f.service.GetSalesReport(context.Background(), testBakery, report.Options{DateField: order.DateFieldDue})
	require.NoError(t, err)

	f = newServiceFixture()
	f.expectInput(t, all)
	_, err = f.service.GetSalesOverview(context.Background(), testBakery, report.Options{DateField: order.DateFieldDue})
	require.NoError(t, err)
}

func TestReportService_IncomeStatement(t *testing.T) {
	ctx := context.Background()
	paid := order.ReportFilter{DateField: order.DateFieldDue, PaidOnly: true}

	t.Run("total layout", func(t *testing.T) {
		f := newServiceFixture()
		f.expectInput(t, paid)

		res, err := f.service.GetIncomeStatement(ctx, testBakery, report.Options{DateField: order.DateFieldDue})
		require.NoError(t, err)
		assert.Equal(t, report.GroupByTotal, res.GroupBy)
		require.NotNil(t, res.Total)
		assert.Nil(t, res.Monthly)
		assert.Equal(t, 2, res.Total.OrderCount)
		// no costs anywhere: one product lands in the ledger
		require.Len(t, res.Total.ExcludedProducts, 1)
		assert.Equal(t, int64(6), res.Total.ExcludedProducts[0].TotalQuantity)

		raw, err := json.Marshal(res)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"excludedProducts"`)
		assert.NotContains(t, string(raw), `"periods"`)
		f.assertExpectations(t)
	})

	t.Run("monthly layout", func(t *testing.T) {
		f := newServiceFixture()
		f.expectInput(t, paid)

		res, err := f.service.GetIncomeStatement(ctx, testBakery, report.Options{DateField: order.DateFieldDue, GroupBy: report.GroupByMonth})
		require.NoError(t, err)
		assert.Equal(t, report.GroupByMonth, res.GroupBy)
		require.NotNil(t, res.Monthly)
		require.Len(t, res.Monthly.Periods, 1)
		assert.Equal(t, "2024-03", res.Monthly.Periods[0].Month)

		raw, err := json.Marshal(res)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"periods"`)
		f.assertExpectations(t)
	})
}

func TestReportService_Bundle(t *testing.T) {
	f := newServiceFixture()
	f.expectInput(t, order.ReportFilter{DateField: order.DateFieldDue})

	bundle, err := f.service.GetReportBundle(context.Background(), testBakery, report.Options{DateField: order.DateFieldDue, Segment: report.SegmentAll})
	require.NoError(t, err)
	require.NotNil(t, bundle.Sales)
	require.NotNil(t, bundle.Products)
	require.NotNil(t, bundle.IncomeStatement.Total)
	assert.Equal(t, int64(139700), bundle.Sales.Summary.TotalRevenue.IntPart())
	assert.Equal(t, int64(139700), bundle.Products.Summary.TotalRevenue.IntPart())
	assert.Equal(t, 2, bundle.IncomeStatement.Total.OrderCount)
	f.orders.AssertNumberOfCalls(t, "FindForReport", 1)
	f.assertExpectations(t)
}

// ============================================
// Caching
// ============================================

func TestReportService_Cache(t *testing.T) {
	ctx := context.Background()
	cache := newMemoryCache()
	f := newServiceFixture(WithCache(cache))
	f.expectInput(t, order.ReportFilter{DateField: order.DateFieldDue})
	opts := report.Options{DateField: order.DateFieldDue}

	first, err := f.service.GetSalesReport(ctx, testBakery, opts)
	require.NoError(t, err)
	second, err := f.service.GetSalesReport(ctx, testBakery, opts)
	require.NoError(t, err)

	f.orders.AssertNumberOfCalls(t, "FindForReport", 1)
	assert.Equal(t, 1, cache.sets)
	assert.True(t, first.Summary.TotalRevenue.Equals(second.Summary.TotalRevenue))
	assert.Equal(t, first.ProductMetrics.BestSellers.ByQuantity[0].ProductID, second.ProductMetrics.BestSellers.ByQuantity[0].ProductID)

	t.Run("different options miss", func(t *testing.T) {
		_, err := f.service.GetSalesReport(ctx, testBakery, report.Options{DateField: order.DateFieldDue, Segment: report.SegmentAll})
		require.NoError(t, err)
		f.orders.AssertNumberOfCalls(t, "FindForReport", 2)
	})
}

func TestReportService_CacheKeepsUndefinedRatios(t *testing.T) {
	ctx := context.Background()
	cache := newMemoryCache()
	f := newServiceFixture(WithCache(cache))
	f.orders.On("FindForReport", mock.Anything, testBakery, mock.Anything).Return([]order.Order{}, nil)
	f.clients.On("FindB2BClientIDs", mock.Anything, testBakery).Return([]string{}, nil)
	f.products.On("FindAll", mock.Anything, testBakery).Return([]catalog.Product{}, nil)
	opts := report.Options{DateField: order.DateFieldDue}

	_, err := f.service.GetSalesReport(ctx, testBakery, opts)
	require.NoError(t, err)
	cached, err := f.service.GetSalesReport(ctx, testBakery, opts)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(cached.SalesMetrics.BySegment.B2B.PercentageRevenue.Float64()))
	f.orders.AssertNumberOfCalls(t, "FindForReport", 1)
}

func TestCacheKey(t *testing.T) {
	base := report.Options{DateField: order.DateFieldDue}.Normalize()
	assert.Equal(t, cacheKey(ReportTypeSales, testBakery, base), cacheKey(ReportTypeSales, testBakery, base))
	assert.NotEqual(t, cacheKey(ReportTypeSales, testBakery, base), cacheKey(ReportTypeProducts, testBakery, base))
	assert.NotEqual(t, cacheKey(ReportTypeSales, testBakery, base), cacheKey(ReportTypeSales, "bakery-2", base))

	ranged := base
	ranged.StartDate = at(2024, 1, 1)
	assert.NotEqual(t, cacheKey(ReportTypeSales, testBakery, base), cacheKey(ReportTypeSales, testBakery, ranged))
}

// ============================================
// Logging
// ============================================

func TestReportService_LogsExcludedProducts(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	f := newServiceFixture(WithLogger(zap.New(core)))
	f.expectInput(t, order.ReportFilter{DateField: order.DateFieldDue, PaidOnly: true})

	_, err := f.service.GetIncomeStatement(context.Background(), testBakery, report.Options{DateField: order.DateFieldDue})
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("Product excluded from cost of goods sold").Len())
	built := logs.FilterMessage("Report built").All()
	require.Len(t, built, 1)
	assert.Equal(t, ReportTypeIncomeStatement, built[0].ContextMap()["report_type"])
}
