package catalog_test

import (
	"testing"

	"github.com/nikolayk812/ezcart/internal/catalog"
	"github.com/nikolayk812/ezcart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestPrice(t *testing.T) {
	eur := domain.Product{
		ID:    "eur",
		Price: domain.Money{Amount: decimal.RequireFromString("3.00"), Currency: currency.EUR},
	}

	cat, err := catalog.NewStatic(randomProduct("a", "19.99"), randomProduct("b", "0.50"), eur)
	require.NoError(t, err)

	tests := []struct {
		name       string
		lines      []domain.CartLine
		wantTotal  string
		wantLines  []string
		wantError  string
		wantCurISO string
	}{
		{
			name:       "empty cart: zero",
			wantTotal:  "0",
			wantCurISO: "USD",
		},
		{
			name: "several lines: summed",
			lines: []domain.CartLine{
				{ProductID: "a", Quantity: 3},
				{ProductID: "b", Quantity: 1},
			},
			wantTotal:  "60.47",
			wantLines:  []string{"59.97", "0.5"},
			wantCurISO: "USD",
		},
		{
			name:       "zero quantity: zero line total",
			lines:      []domain.CartLine{{ProductID: "a", Quantity: 0}},
			wantTotal:  "0",
			wantLines:  []string{"0"},
			wantCurISO: "USD",
		},
		{
			name:       "single foreign currency: ok",
			lines:      []domain.CartLine{{ProductID: "eur", Quantity: 2}},
			wantTotal:  "6",
			wantLines:  []string{"6"},
			wantCurISO: "EUR",
		},
		{
			name:      "unknown product: error",
			lines:     []domain.CartLine{{ProductID: "zzz", Quantity: 1}},
			wantError: "product[zzz] not found",
		},
		{
			name: "mixed currencies: error",
			lines: []domain.CartLine{
				{ProductID: "a", Quantity: 1},
				{ProductID: "eur", Quantity: 1},
			},
			wantError: "currency mismatch: USD and EUR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := catalog.Price(cat, tt.lines)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			assert.True(t, decimal.RequireFromString(tt.wantTotal).Equal(summary.Total.Amount),
				"total %s", summary.Total.Amount)
			assert.Equal(t, tt.wantCurISO, summary.Total.Currency.String())

			require.Len(t, summary.Lines, len(tt.wantLines))
			for i, want := range tt.wantLines {
				assert.True(t, decimal.RequireFromString(want).Equal(summary.Lines[i].Total.Amount))
				assert.Equal(t, tt.lines[i], summary.Lines[i].Line)
				assert.Equal(t, tt.lines[i].ProductID, summary.Lines[i].Product.ID)
			}
		})
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name  string
		money domain.Money
		want  string
	}{
		{
			name:  "dollars",
			money: domain.Money{Amount: decimal.RequireFromString("60.47"), Currency: currency.USD},
			want:  "USD 60.47",
		},
		{
			name:  "dollars padded",
			money: domain.Money{Amount: decimal.NewFromInt(5), Currency: currency.USD},
			want:  "USD 5.00",
		},
		{
			name:  "yen has no minor unit",
			money: domain.Money{Amount: decimal.NewFromInt(1200), Currency: currency.JPY},
			want:  "JPY 1200",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.FormatMoney(tt.money))
		})
	}
}
