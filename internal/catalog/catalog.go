package catalog

import (
	"fmt"
	"slices"

	"github.com/nikolayk812/ezcart/internal/domain"
	"github.com/nikolayk812/ezcart/internal/port"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Static is an immutable in-memory product catalog that keeps listing order.
type Static struct {
	products []domain.Product
	byID     map[string]domain.Product
}

var _ port.Catalog = (*Static)(nil)

func NewStatic(products ...domain.Product) (*Static, error) {
	byID := make(map[string]domain.Product, len(products))

	for _, p := range products {
		if p.ID == "" {
			return nil, fmt.Errorf("product ID is empty")
		}
		if _, ok := byID[p.ID]; ok {
			return nil, fmt.Errorf("product[%s] is duplicated", p.ID)
		}
		if p.Price.Amount.IsNegative() {
			return nil, fmt.Errorf("product[%s] price is negative", p.ID)
		}
		byID[p.ID] = p
	}

	return &Static{
		products: slices.Clone(products),
		byID:     byID,
	}, nil
}

func (s *Static) Product(id string) (domain.Product, bool) {
	p, ok := s.byID[id]
	return p, ok
}

func (s *Static) Products() []domain.Product {
	return slices.Clone(s.products)
}

// Default returns the storefront's built-in catalog.
func Default() *Static {
	s, err := NewStatic(
		product("1", "Basic Tee", "Black cotton crew neck.", "19.99"),
		product("2", "Nomad Tumbler", "Insulated stainless steel, 16 oz.", "35.00"),
		product("3", "Focus Paper Refill", "Three packs of dot grid paper.", "13.00"),
		product("4", "Machined Mechanical Pencil", "Brass body, 0.5 mm lead.", "35.00"),
		product("5", "Earthen Bottle", "Ceramic bottle with cork stopper.", "48.00"),
		product("6", "Leather Long Wallet", "Full grain leather, six card slots.", "75.00"),
	)
	if err != nil {
		panic(err)
	}
	return s
}

func product(id, name, description, price string) domain.Product {
	return domain.Product{
		ID:          id,
		Name:        name,
		Description: description,
		ImageURL:    "/images/products/" + id + ".jpg",
		Price: domain.Money{
			Amount:   decimal.RequireFromString(price),
			Currency: currency.USD,
		},
	}
}
