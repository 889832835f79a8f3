package catalog

import (
	"fmt"

	"github.com/nikolayk812/ezcart/internal/domain"
	"github.com/nikolayk812/ezcart/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type LineSummary struct {
	Line    domain.CartLine
	Product domain.Product
	Total   domain.Money
}

type Summary struct {
	Lines []LineSummary
	Total domain.Money
}

// Price joins lines with the current catalog prices. Prices are not
// recorded with orders, so past orders are priced the same way.
func Price(cat port.Catalog, lines []domain.CartLine) (Summary, error) {
	summary := Summary{
		Lines: make([]LineSummary, 0, len(lines)),
		Total: domain.Money{Amount: decimal.Zero, Currency: currency.USD},
	}

	for i, line := range lines {
		p, ok := cat.Product(line.ProductID)
		if !ok {
			return Summary{}, fmt.Errorf("product[%s] not found", line.ProductID)
		}

		total := p.Price.Mul(line.Quantity)

		switch {
		case i == 0:
			summary.Total.Currency = total.Currency
		case total.Currency != summary.Total.Currency:
			return Summary{}, fmt.Errorf("currency mismatch: %s and %s", summary.Total.Currency, total.Currency)
		}
		summary.Total.Amount = summary.Total.Amount.Add(total.Amount)

		summary.Lines = append(summary.Lines, LineSummary{
			Line:    line,
			Product: p,
			Total:   total,
		})
	}

	return summary, nil
}

func FormatMoney(m domain.Money) string {
	scale, _ := currency.Standard.Rounding(m.Currency)
	return fmt.Sprintf("%s %s", m.Currency, m.Amount.StringFixed(int32(scale)))
}
