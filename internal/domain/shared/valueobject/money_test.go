package valueobject

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m := NewMoney(decimal.NewFromFloat(100.50))
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
}

func TestNewMoneyFromInt(t *testing.T) {
	m := NewMoneyFromInt(1000)
	assert.Equal(t, int64(1000), m.IntPart())
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45")
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number")
		assert.Error(t, err)
	})
}

func TestMoneyIsPositiveNegativeZero(t *testing.T) {
	positive := NewMoneyFromInt(100)
	negative := NewMoneyFromInt(-100)
	zero := Zero()

	assert.True(t, positive.IsPositive())
	assert.False(t, positive.IsNegative())
	assert.False(t, positive.IsZero())

	assert.False(t, negative.IsPositive())
	assert.True(t, negative.IsNegative())

	assert.True(t, zero.IsZero())
}

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoneyFromInt(1500)
	b := NewMoneyFromInt(500)

	assert.Equal(t, int64(2000), a.Add(b).IntPart())
	assert.Equal(t, int64(1000), a.Subtract(b).IntPart())
	assert.Equal(t, int64(4500), a.MultiplyByInt(3).IntPart())
	assert.Equal(t, int64(500), a.Min(b).IntPart())
	assert.Equal(t, int64(500), b.Min(a).IntPart())
	assert.True(t, b.Subtract(a).ClampZero().IsZero())
	assert.True(t, a.GreaterThan(b))
	assert.True(t, b.LessThan(a))
}

func TestMoneyAverage(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		count int64
		want  string
	}{
		{"even split", 100, 4, "25"},
		{"keeps fractions", 100, 3, "33.3333333333333333"},
		{"zero count", 100, 0, "0"},
		{"negative count", 100, -2, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMoneyFromInt(tt.total).Average(tt.count)
			want, err := NewMoneyFromString(tt.want)
			require.NoError(t, err)
			assert.True(t, got.Equals(want), "got %s", got)
		})
	}
}

func TestMoneyRoundUnits(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"159.66", 160},
		{"159.5", 160},
		{"159.49", 159},
		{"0.5", 1},
		{"0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := NewMoneyFromString(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.RoundUnits().IntPart())
		})
	}
}

func TestMoneyPercentage(t *testing.T) {
	tests := []struct {
		amount int64
		rate   int64
		want   int64
	}{
		{2000, 10, 200},
		{333, 10, 33},
		{335, 10, 34},
		{345, 10, 35},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d at %d%%", tt.amount, tt.rate), func(t *testing.T) {
			got := NewMoneyFromInt(tt.amount).Percentage(decimal.NewFromInt(tt.rate))
			assert.Equal(t, tt.want, got.IntPart())
		})
	}
}

func TestMoneySplitInclusiveTax(t *testing.T) {
	t.Run("19 percent on 1000", func(t *testing.T) {
		tax, preTax := NewMoneyFromInt(1000).SplitInclusiveTax(decimal.NewFromInt(19))
		assert.Equal(t, int64(160), tax.IntPart())
		assert.Equal(t, int64(840), preTax.IntPart())
	})

	t.Run("tax plus pre-tax always equals price", func(t *testing.T) {
		for _, price := range []int64{1, 99, 1000, 22000, 23925} {
			for _, rate := range []int64{5, 8, 19} {
				p := NewMoneyFromInt(price)
				tax, preTax := p.SplitInclusiveTax(decimal.NewFromInt(rate))
				assert.True(t, tax.Add(preTax).Equals(p))
			}
		}
	})

	t.Run("zero rate has no tax", func(t *testing.T) {
		tax, preTax := NewMoneyFromInt(1000).SplitInclusiveTax(decimal.Zero)
		assert.True(t, tax.IsZero())
		assert.Equal(t, int64(1000), preTax.IntPart())
	})
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(NewMoneyFromInt(22000))
	require.NoError(t, err)
	assert.Equal(t, "22000", string(data))

	var m Money
	require.NoError(t, json.Unmarshal([]byte(`23925`), &m))
	assert.Equal(t, int64(23925), m.IntPart())

	require.NoError(t, json.Unmarshal([]byte(`"150.5"`), &m))
	assert.Equal(t, 150.5, m.Float64())

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &m))
}

func TestMoneyScan(t *testing.T) {
	t.Run("scans string", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("123.45"))
		assert.Equal(t, 123.45, m.Float64())
	})

	t.Run("scans int64", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(int64(500)))
		assert.Equal(t, int64(500), m.IntPart())
	})

	t.Run("scans nil as zero", func(t *testing.T) {
		m := NewMoneyFromInt(10)
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		var m Money
		assert.Error(t, m.Scan(struct{}{}))
	})
}

func TestMoneyValue(t *testing.T) {
	v, err := NewMoneyFromInt(840).Value()
	require.NoError(t, err)
	assert.Equal(t, "840", v)
}
