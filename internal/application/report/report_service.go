package report

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bakery/backend/internal/domain/catalog"
	"github.com/bakery/backend/internal/domain/order"
	"github.com/bakery/backend/internal/domain/partner"
	"github.com/bakery/backend/internal/domain/report"
	"github.com/bakery/backend/internal/domain/settings"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ResultCache stores finished report documents
type ResultCache interface {
	// Get decodes the cached value into dest and reports whether it was found
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores value under key
	Set(ctx context.Context, key string, value any) error
}

// IncomeStatementResult carries the income statement in the layout that was requested
type IncomeStatementResult struct {
	GroupBy report.GroupBy
	Total   *report.IncomeStatement
	Monthly *report.MonthlyIncomeStatement
}

// MarshalJSON encodes whichever layout was built
func (r IncomeStatementResult) MarshalJSON() ([]byte, error) {
	if r.GroupBy == report.GroupByMonth {
		return json.Marshal(r.Monthly)
	}
	return json.Marshal(r.Total)
}

// ReportBundle holds the sales, product and income reports built from one fetch
type ReportBundle struct {
	Sales           *report.SalesReport   `json:"sales"`
	Products        *report.ProductReport `json:"products"`
	IncomeStatement IncomeStatementResult `json:"incomeStatement"`
}

// ReportService loads report inputs and runs them through the report engine
type ReportService struct {
	orderRepo        order.Repository
	clientRepo       partner.ClientRepository
	productRepo      catalog.ProductRepository
	settingsRepo     settings.Repository
	engine           *Engine
	cache            ResultCache
	metrics          *telemetry.ReportMetrics
	logger           *zap.Logger
	defaultDateField order.DateField
}

// ServiceOption configures a ReportService
type ServiceOption func(*ReportService)

// WithCache enables result caching
func WithCache(cache ResultCache) ServiceOption {
	return func(s *ReportService) {
		s.cache = cache
	}
}

// WithMetrics records report build metrics
func WithMetrics(metrics *telemetry.ReportMetrics) ServiceOption {
	return func(s *ReportService) {
		s.metrics = metrics
	}
}

// WithLogger sets the service logger
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *ReportService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaultDateField sets the date field used when neither the request nor the bakery picks one
func WithDefaultDateField(field order.DateField) ServiceOption {
	return func(s *ReportService) {
		if field.IsValid() {
			s.defaultDateField = field
		}
	}
}

// NewReportService creates a new ReportService
func NewReportService(
	orderRepo order.Repository,
	clientRepo partner.ClientRepository,
	productRepo catalog.ProductRepository,
	settingsRepo settings.Repository,
	engine *Engine,
	opts ...ServiceOption,
) *ReportService {
	s := &ReportService{
		orderRepo:        orderRepo,
		clientRepo:       clientRepo,
		productRepo:      productRepo,
		settingsRepo:     settingsRepo,
		engine:           engine,
		logger:           zap.NewNop(),
		defaultDateField: order.DateFieldDue,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetSalesReport builds the summary-shaped sales report
func (s *ReportService) GetSalesReport(ctx context.Context, bakeryID string, opts report.Options) (*report.SalesReport, error) {
	return run(ctx, s, ReportTypeSales, bakeryID, opts, false, s.engine.BuildSalesReport)
}

// GetSalesOverview builds the metadata-shaped sales report
func (s *ReportService) GetSalesOverview(ctx context.Context, bakeryID string, opts report.Options) (*report.SalesOverview, error) {
	return run(ctx, s, ReportTypeSalesOverview, bakeryID, opts, false, s.engine.BuildSalesOverview)
}

// GetProductReport builds the product report
func (s *ReportService) GetProductReport(ctx context.Context, bakeryID string, opts report.Options) (*report.ProductReport, error) {
	return run(ctx, s, ReportTypeProducts, bakeryID, opts, false, s.engine.BuildProductReport)
}

// GetIncomeStatement builds the income statement grouped as opts.GroupBy asks
func (s *ReportService) GetIncomeStatement(ctx context.Context, bakeryID string, opts report.Options) (*IncomeStatementResult, error) {
	opts = opts.Normalize()
	if opts.GroupBy == report.GroupByMonth {
		monthly, err := run(ctx, s, ReportTypeIncomeStatement, bakeryID, opts, true, s.engine.BuildMonthlyIncomeStatement)
		if err != nil {
			return nil, err
		}
		return &IncomeStatementResult{GroupBy: report.GroupByMonth, Monthly: monthly}, nil
	}
	total, err := run(ctx, s, ReportTypeIncomeStatement, bakeryID, opts, true, s.engine.BuildIncomeStatement)
	if err != nil {
		return nil, err
	}
	return &IncomeStatementResult{GroupBy: report.GroupByTotal, Total: total}, nil
}

// GetReportBundle fetches inputs once and builds the sales, product and income
// reports concurrently over the same read-only input
func (s *ReportService) GetReportBundle(ctx context.Context, bakeryID string, opts report.Options) (*ReportBundle, error) {
	ctx, span := telemetry.StartReportSpan(ctx, "bundle", bakeryID)
	defer span.End()

	start := time.Now()
	in, opts, err := s.load(ctx, bakeryID, opts, false)
	if err != nil {
		span.Fail(err)
		return nil, err
	}

	bundle := &ReportBundle{IncomeStatement: IncomeStatementResult{GroupBy: opts.GroupBy}}
	var g errgroup.Group
	g.Go(func() error {
		bundle.Sales = s.engine.BuildSalesReport(in, opts)
		return nil
	})
	g.Go(func() error {
		bundle.Products = s.engine.BuildProductReport(in, opts)
		return nil
	})
	g.Go(func() error {
		if opts.GroupBy == report.GroupByMonth {
			bundle.IncomeStatement.Monthly = s.engine.BuildMonthlyIncomeStatement(in, opts)
		} else {
			bundle.IncomeStatement.Total = s.engine.BuildIncomeStatement(in, opts)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		span.Fail(err)
		return nil, err
	}

	span.Built(len(in.Orders))
	s.recordBuild(ctx, "bundle", bakeryID, len(in.Orders), time.Since(start))
	return bundle, nil
}

// run validates, loads, builds and caches one report document
func run[T any](
	ctx context.Context,
	s *ReportService,
	reportType, bakeryID string,
	opts report.Options,
	paidOnly bool,
	build func(Input, report.Options) *T,
) (*T, error) {
	ctx, span := telemetry.StartReportSpan(ctx, reportType, bakeryID)
	defer span.End()

	start := time.Now()
	if err := validateRequest(bakeryID, opts); err != nil {
		span.Fail(err)
		return nil, err
	}
	opts, err := s.resolveDateField(ctx, bakeryID, opts.Normalize())
	if err != nil {
		span.Fail(err)
		return nil, err
	}
	span.DateField(opts.DateField.String())

	key := cacheKey(reportType, bakeryID, opts)
	if s.cache != nil {
		var cached T
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("Report cache read failed", zap.String("key", key), zap.Error(err))
		} else if found {
			s.logger.Debug("Report served from cache", zap.String("bakery_id", bakeryID), zap.String("report_type", reportType))
			span.CacheHit()
			s.metrics.RecordCacheHit(ctx, reportType)
			return &cached, nil
		}
	}

	in, err := s.fetch(ctx, bakeryID, opts, paidOnly)
	if err != nil {
		span.Fail(err)
		return nil, err
	}
	s.logIgnoredDiscounts(in)

	doc := build(in, opts)
	switch d := any(doc).(type) {
	case *report.IncomeStatement:
		s.logExcluded(bakeryID, d.ExcludedProducts)
	case *report.MonthlyIncomeStatement:
		s.logExcluded(bakeryID, d.ExcludedProducts)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, doc); err != nil {
			s.logger.Warn("Report cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	span.Built(len(in.Orders))
	s.recordBuild(ctx, reportType, bakeryID, len(in.Orders), time.Since(start))
	return doc, nil
}

func validateRequest(bakeryID string, opts report.Options) error {
	if bakeryID == "" {
		return shared.NewDomainError("INVALID_BAKERY", "Bakery ID is required")
	}
	return opts.Validate()
}

// load validates the request and fetches the inputs
func (s *ReportService) load(ctx context.Context, bakeryID string, opts report.Options, paidOnly bool) (Input, report.Options, error) {
	if err := validateRequest(bakeryID, opts); err != nil {
		return Input{}, opts, err
	}
	opts, err := s.resolveDateField(ctx, bakeryID, opts.Normalize())
	if err != nil {
		return Input{}, opts, err
	}
	in, err := s.fetch(ctx, bakeryID, opts, paidOnly)
	if err != nil {
		return Input{}, opts, err
	}
	s.logIgnoredDiscounts(in)
	return in, opts, nil
}

// resolveDateField picks the request's date field, else the bakery's, else the service default
func (s *ReportService) resolveDateField(ctx context.Context, bakeryID string, opts report.Options) (report.Options, error) {
	if opts.DateField != "" {
		return opts, nil
	}
	field, err := s.settingsRepo.DefaultDateField(ctx, bakeryID)
	if err != nil {
		return opts, fmt.Errorf("failed to load bakery settings: %w", err)
	}
	if field.IsValid() {
		opts.DateField = field
	} else {
		opts.DateField = s.defaultDateField
	}
	return opts, nil
}

// fetch loads orders, business clients and the catalog concurrently
func (s *ReportService) fetch(ctx context.Context, bakeryID string, opts report.Options, paidOnly bool) (Input, error) {
	in := Input{BakeryID: bakeryID}
	filter := order.ReportFilter{
		DateField: opts.DateField,
		StartDate: opts.StartDate,
		EndDate:   opts.EndDate,
		PaidOnly:  paidOnly,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		orders, err := s.orderRepo.FindForReport(gctx, bakeryID, filter)
		if err != nil {
			return fmt.Errorf("failed to load orders: %w", err)
		}
		in.Orders = orders
		return nil
	})
	g.Go(func() error {
		ids, err := s.clientRepo.FindB2BClientIDs(gctx, bakeryID)
		if err != nil {
			return fmt.Errorf("failed to load business clients: %w", err)
		}
		in.B2BClientIDs = ids
		return nil
	})
	g.Go(func() error {
		products, err := s.productRepo.FindAll(gctx, bakeryID)
		if err != nil {
			return fmt.Errorf("failed to load products: %w", err)
		}
		in.Products = products
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to load report input", zap.String("bakery_id", bakeryID), zap.Error(err))
		return Input{}, err
	}
	return in, nil
}

func (s *ReportService) recordBuild(ctx context.Context, reportType, bakeryID string, orders int, elapsed time.Duration) {
	s.logger.Info("Report built",
		zap.String("bakery_id", bakeryID),
		zap.String("report_type", reportType),
		zap.Int("orders", orders),
		zap.Duration("duration", elapsed),
	)
	s.metrics.RecordBuild(ctx, reportType, orders, elapsed)
}

func (s *ReportService) logIgnoredDiscounts(in Input) {
	if !s.logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	for _, o := range in.Orders {
		d := o.Totals().Discount
		if d.IgnoredReason == "" || d.IgnoredReason == order.DiscountNoType {
			continue
		}
		s.logger.Debug("Order discount ignored",
			zap.String("bakery_id", in.BakeryID),
			zap.String("order_id", o.ID),
			zap.String("discount_type", string(d.Type)),
			zap.String("reason", string(d.IgnoredReason)),
		)
	}
}

func (s *ReportService) logExcluded(bakeryID string, excluded []report.ExcludedProduct) {
	for _, e := range excluded {
		s.logger.Debug("Product excluded from cost of goods sold",
			zap.String("bakery_id", bakeryID),
			zap.String("product_id", e.ProductID),
			zap.Int64("quantity", e.TotalQuantity),
			zap.Int("orders", e.OrderCount),
		)
	}
}

// cacheKey identifies a report by type, bakery and normalized options
func cacheKey(reportType, bakeryID string, opts report.Options) string {
	raw, _ := json.Marshal(struct {
		Categories []string
		Period     report.Period
		Metrics    report.Metrics
		Segment    report.SegmentFilter
		DateField  order.DateField
		Start      string
		End        string
		GroupBy    report.GroupBy
	}{
		Categories: opts.Categories,
		Period:     opts.Period,
		Metrics:    opts.Metrics,
		Segment:    opts.Segment,
		DateField:  opts.DateField,
		Start:      dayOrEmpty(opts.StartDate),
		End:        dayOrEmpty(opts.EndDate),
		GroupBy:    opts.GroupBy,
	})
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("report:%s:%s:%s", reportType, bakeryID, hex.EncodeToString(sum[:12]))
}

func dayOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return report.DailyKey(*t)
}
