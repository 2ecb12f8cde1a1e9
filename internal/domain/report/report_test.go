package report

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/bakery/backend/internal/domain/order"
	"github.com/bakery/backend/internal/domain/shared"
	"github.com/bakery/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// Segment Tests
// ============================================

func TestB2BSet(t *testing.T) {
	set := NewB2BSet([]string{"cafe-1", "hotel-2", ""})

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.IsB2B("cafe-1"))
	assert.False(t, set.IsB2B("walk-in"))
	assert.False(t, set.IsB2B(""))
	assert.Equal(t, SegmentB2B, set.Classify("hotel-2"))
	assert.Equal(t, SegmentB2C, set.Classify("walk-in"))

	var empty B2BSet
	assert.False(t, empty.IsB2B("cafe-1"))
	assert.Equal(t, 0, empty.Len())
}

// ============================================
// Options Tests
// ============================================

func TestOptions_Normalize(t *testing.T) {
	o := Options{}.Normalize()
	assert.Equal(t, MetricsBoth, o.Metrics)
	assert.Equal(t, SegmentNone, o.Segment)
	assert.Equal(t, GroupByTotal, o.GroupBy)
	assert.True(t, o.Metrics.IncludesRevenue())
	assert.True(t, o.Metrics.IncludesQuantity())
	assert.False(t, o.SplitSegments())
}

func TestOptions_Validate(t *testing.T) {
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"empty options", Options{}, false},
		{"all known values", Options{Period: PeriodWeekly, Metrics: MetricsRevenue, Segment: SegmentAll, DateField: order.DateFieldPayment, GroupBy: GroupByMonth}, false},
		{"unknown period", Options{Period: "hourly"}, true},
		{"unknown metrics", Options{Metrics: "profit"}, true},
		{"unknown segment", Options{Segment: "vip"}, true},
		{"unknown date field", Options{DateField: "createdAt"}, true},
		{"unknown group by", Options{GroupBy: "year"}, true},
		{"reversed range", Options{StartDate: &start, EndDate: &end}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "INVALID_INPUT", domainErr.Code)
		})
	}
}

func TestOptions_InRange(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	lastDayEvening := time.Date(2024, 3, 31, 22, 0, 0, 0, time.UTC)
	before := time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC)

	withRange := Options{StartDate: &start, EndDate: &end}
	assert.True(t, withRange.InRange(&start))
	assert.True(t, withRange.InRange(&lastDayEvening))
	assert.False(t, withRange.InRange(&before))
	assert.False(t, withRange.InRange(nil))

	noRange := Options{}
	assert.True(t, noRange.InRange(nil))
	assert.True(t, noRange.InRange(&before))

	openEnded := Options{StartDate: &start}
	assert.True(t, openEnded.InRange(&lastDayEvening))
	assert.False(t, openEnded.InRange(&before))
}

func TestOptions_Selectors(t *testing.T) {
	o := Options{Categories: []string{"panes"}, Metrics: MetricsQuantity, Segment: SegmentOnlyB2B}
	assert.True(t, o.CategoryAllowed("panes"))
	assert.False(t, o.CategoryAllowed("tortas"))
	assert.False(t, o.Metrics.IncludesRevenue())
	assert.True(t, o.Metrics.IncludesQuantity())
	assert.True(t, o.AcceptsSegment(SegmentB2B))
	assert.False(t, o.AcceptsSegment(SegmentB2C))

	assert.True(t, Options{}.CategoryAllowed("anything"))
	assert.True(t, Options{Segment: SegmentAll}.AcceptsSegment(SegmentB2C))
}

// ============================================
// Ratio Tests
// ============================================

func TestRatio(t *testing.T) {
	t.Run("empty denominator is NaN", func(t *testing.T) {
		r := Percent(0, 0)
		assert.True(t, math.IsNaN(r.Float64()))
		assert.False(t, r.IsDefined())
	})

	t.Run("percent of whole", func(t *testing.T) {
		assert.InDelta(t, 25.0, Percent(1, 4).Float64(), 1e-9)
		assert.InDelta(t, 2.5, Div(5, 2).Float64(), 1e-9)
	})

	t.Run("undefined values encode as null", func(t *testing.T) {
		data, err := json.Marshal(struct {
			A Ratio `json:"a"`
			B Ratio `json:"b"`
			C Ratio `json:"c"`
		}{Ratio(math.NaN()), Ratio(math.Inf(1)), Ratio(12.5)})
		require.NoError(t, err)
		assert.JSONEq(t, `{"a":null,"b":null,"c":12.5}`, string(data))
	})

	t.Run("null decodes to NaN", func(t *testing.T) {
		var r Ratio
		require.NoError(t, json.Unmarshal([]byte("null"), &r))
		assert.True(t, math.IsNaN(r.Float64()))
		require.NoError(t, json.Unmarshal([]byte("33.3"), &r))
		assert.InDelta(t, 33.3, r.Float64(), 1e-9)
	})

	t.Run("round to one decimal", func(t *testing.T) {
		assert.Equal(t, 33.3, Round1(33.333))
		assert.Equal(t, 66.7, Round1(66.666))
		assert.Equal(t, 0.0, Round1(0))
	})
}

// ============================================
// Aggregate Tests
// ============================================

func TestFigures(t *testing.T) {
	f := NewFigures()
	f.Add(2, valueobject.NewMoneyFromInt(1000), valueobject.NewMoneyFromInt(2000))
	f.Add(4, valueobject.NewMoneyFromInt(1300), valueobject.NewMoneyFromInt(5200))
	f.Add(1, valueobject.NewMoneyFromInt(1000), valueobject.NewMoneyFromInt(1000))

	assert.Equal(t, int64(7), f.Quantity)
	assert.Equal(t, int64(8200), f.Revenue.IntPart())
	// (2*1000 + 4*1300 + 1*1000) / 7
	assert.InDelta(t, 8200.0/7.0, f.AveragePrice().Float64(), 1e-6)

	assert.True(t, NewFigures().AveragePrice().IsZero())
}

func TestProductAggregate(t *testing.T) {
	agg := NewProductAggregate("p1", "Roscón", "c1", "Tortas")
	assert.False(t, agg.HasSales())
	assert.Nil(t, agg.B2B)

	agg.SegmentFigures(SegmentB2B).Add(2, valueobject.NewMoneyFromInt(100), valueobject.NewMoneyFromInt(200))
	agg.SegmentFigures(SegmentB2B).Add(1, valueobject.NewMoneyFromInt(100), valueobject.NewMoneyFromInt(100))
	require.NotNil(t, agg.B2B)
	assert.Nil(t, agg.B2C)
	assert.Equal(t, int64(3), agg.B2B.Quantity)

	agg.PeriodFigures("2024-03").Add(1, valueobject.NewMoneyFromInt(100), valueobject.NewMoneyFromInt(100))
	agg.PeriodFigures("2024-03").Add(1, valueobject.NewMoneyFromInt(100), valueobject.NewMoneyFromInt(100))
	assert.Len(t, agg.Periods, 1)
	assert.Equal(t, int64(2), agg.Periods["2024-03"].Quantity)
}

func TestNewProductFigures(t *testing.T) {
	f := NewFigures()
	f.Add(3, valueobject.NewMoneyFromInt(500), valueobject.NewMoneyFromInt(1500))

	both := NewProductFigures(f, MetricsBoth)
	require.NotNil(t, both.Quantity)
	require.NotNil(t, both.Revenue)
	assert.Equal(t, int64(3), *both.Quantity)
	assert.Equal(t, int64(500), both.AveragePrice.IntPart())

	qtyOnly := NewProductFigures(f, MetricsQuantity)
	assert.NotNil(t, qtyOnly.Quantity)
	assert.Nil(t, qtyOnly.Revenue)
	assert.Nil(t, qtyOnly.AveragePrice)

	revenueOnly := NewProductFigures(f, MetricsRevenue)
	assert.Nil(t, revenueOnly.Quantity)
	assert.NotNil(t, revenueOnly.Revenue)

	data, err := json.Marshal(revenueOnly)
	require.NoError(t, err)
	assert.JSONEq(t, `{"revenue":1500,"averagePrice":500}`, string(data))
}
