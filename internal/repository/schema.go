package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nikolayk812/ezcart/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var errNotStored = errors.New("value is not stored")

// Pointers distinguish a missing field from its zero value.
type cartLineSchema struct {
	ID       *string      `json:"id" validate:"required,min=1"`
	Quantity *wholeNumber `json:"quantity" validate:"required,gte=0"`
}

// wholeNumber accepts any JSON number with an integral value that fits
// int64, such as 2, 2.0 or 1e2. Quoted numbers are rejected.
type wholeNumber int64

func (n *wholeNumber) UnmarshalJSON(data []byte) error {
	s := string(data)

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		*n = wholeNumber(i)
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("quantity[%s] is not a number", s)
	}
	if math.Trunc(f) != f {
		return fmt.Errorf("quantity[%s] is not a whole number", s)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which is already out of range
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return fmt.Errorf("quantity[%s] is out of range", s)
	}

	*n = wholeNumber(f)
	return nil
}

type cartSchema struct {
	Lines []cartLineSchema `validate:"required,dive"`
}

type orderSchema struct {
	ID          *string          `json:"id" validate:"required"`
	Cart        []cartLineSchema `json:"cart" validate:"required,dive"`
	DateOrdered *time.Time       `json:"dateOrdered" validate:"required"`
}

type ordersSchema struct {
	Orders []orderSchema `validate:"required,dive"`
}

type checkoutMarker struct {
	OrderID string `json:"orderId" validate:"required"`
}

func parseCart(raw []byte, found bool) ([]domain.CartLine, error) {
	if !found {
		return nil, errNotStored
	}

	var s cartSchema
	if err := json.Unmarshal(raw, &s.Lines); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	if err := validate.Struct(s); err != nil {
		return nil, fmt.Errorf("validate.Struct: %w", err)
	}

	return mapCartLinesToDomain(s.Lines), nil
}

func parseOrders(raw []byte, found bool) ([]domain.Order, error) {
	if !found {
		return nil, errNotStored
	}

	var s ordersSchema
	if err := json.Unmarshal(raw, &s.Orders); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	if err := validate.Struct(s); err != nil {
		return nil, fmt.Errorf("validate.Struct: %w", err)
	}

	orders := make([]domain.Order, 0, len(s.Orders))
	for _, o := range s.Orders {
		orders = append(orders, domain.Order{
			ID:          *o.ID,
			Lines:       mapCartLinesToDomain(o.Cart),
			DateOrdered: *o.DateOrdered,
		})
	}

	return orders, nil
}

func parseCheckoutMarker(raw []byte) (checkoutMarker, error) {
	var m checkoutMarker
	if err := json.Unmarshal(raw, &m); err != nil {
		return checkoutMarker{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	if err := validate.Struct(m); err != nil {
		return checkoutMarker{}, fmt.Errorf("validate.Struct: %w", err)
	}

	return m, nil
}

func mapCartLinesToDomain(rows []cartLineSchema) []domain.CartLine {
	lines := make([]domain.CartLine, 0, len(rows))

	for _, row := range rows {
		lines = append(lines, domain.CartLine{
			ProductID: *row.ID,
			Quantity:  int64(*row.Quantity),
		})
	}

	return lines
}
