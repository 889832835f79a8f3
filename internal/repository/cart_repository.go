package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/ezcart/internal/domain"
	"github.com/nikolayk812/ezcart/internal/port"
	"golang.org/x/sync/errgroup"
)

func CartKey(ownerID string) string     { return "ez-cart:" + ownerID }
func OrdersKey(ownerID string) string   { return "ez-orders:" + ownerID }
func CheckoutKey(ownerID string) string { return "ez-checkout:" + ownerID }

type cartRepository struct {
	kv     port.KV
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

type Option func(*cartRepository)

func WithLogger(logger *slog.Logger) Option {
	return func(r *cartRepository) {
		r.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *cartRepository) {
		r.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(r *cartRepository) {
		r.newID = newID
	}
}

// NewCart returns a cart and order store on top of kv. When kv implements
// port.BatchKV, checkout writes the orders and the emptied cart atomically;
// otherwise it leaves a marker that Reconcile uses to finish the checkout.
func NewCart(kv port.KV, opts ...Option) port.CartRepository {
	r := &cartRepository{
		kv:     kv,
		logger: slog.Default(),
		now:    time.Now,
		newID:  uuid.NewString,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *cartRepository) GetOrCreateCart(ctx context.Context, ownerID string) (domain.Cart, error) {
	if ownerID == "" {
		return domain.Cart{}, fmt.Errorf("ownerID is empty")
	}

	lines, err := r.loadCart(ctx, ownerID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("loadCart: %w", err)
	}

	return domain.Cart{
		OwnerID: ownerID,
		Lines:   lines,
	}, nil
}

func (r *cartRepository) AddProductToCart(ctx context.Context, ownerID, productID string, quantity int64) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}
	if productID == "" {
		return fmt.Errorf("productID is empty")
	}
	if quantity < 0 {
		return fmt.Errorf("quantity is negative")
	}

	lines, err := r.loadCart(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("loadCart: %w", err)
	}

	idx := slices.IndexFunc(lines, func(l domain.CartLine) bool {
		return l.ProductID == productID
	})
	if idx >= 0 {
		if quantity > math.MaxInt64-lines[idx].Quantity {
			return fmt.Errorf("quantity overflows")
		}
		lines[idx].Quantity += quantity
	} else {
		lines = append(lines, domain.CartLine{ProductID: productID, Quantity: quantity})
	}

	if err := r.saveCart(ctx, ownerID, lines); err != nil {
		return fmt.Errorf("saveCart: %w", err)
	}

	return nil
}

func (r *cartRepository) RemoveProductFromCart(ctx context.Context, ownerID, productID string) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}
	if productID == "" {
		return fmt.Errorf("productID is empty")
	}

	lines, err := r.loadCart(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("loadCart: %w", err)
	}

	lines = slices.DeleteFunc(lines, func(l domain.CartLine) bool {
		return l.ProductID == productID
	})

	if err := r.saveCart(ctx, ownerID, lines); err != nil {
		return fmt.Errorf("saveCart: %w", err)
	}

	return nil
}

func (r *cartRepository) GetOrders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	orders, err := r.loadOrders(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("loadOrders: %w", err)
	}

	return orders, nil
}

func (r *cartRepository) GetOrder(ctx context.Context, ownerID, orderID string) (domain.Order, bool, error) {
	if ownerID == "" {
		return domain.Order{}, false, fmt.Errorf("ownerID is empty")
	}

	orders, err := r.loadOrders(ctx, ownerID)
	if err != nil {
		return domain.Order{}, false, fmt.Errorf("loadOrders: %w", err)
	}

	idx := slices.IndexFunc(orders, func(o domain.Order) bool {
		return o.ID == orderID
	})
	if idx < 0 {
		return domain.Order{}, false, nil
	}

	return orders[idx], true, nil
}

func (r *cartRepository) Checkout(ctx context.Context, ownerID string) (domain.Order, error) {
	if ownerID == "" {
		return domain.Order{}, fmt.Errorf("ownerID is empty")
	}

	var (
		lines  []domain.CartLine
		orders []domain.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if lines, err = r.loadCart(gctx, ownerID); err != nil {
			return fmt.Errorf("loadCart: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if orders, err = r.loadOrders(gctx, ownerID); err != nil {
			return fmt.Errorf("loadOrders: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{
		ID:          r.newID(),
		Lines:       domain.Cart{Lines: lines}.Clone(),
		DateOrdered: r.now().UTC().Round(0),
	}
	orders = append(orders, order)

	ordersValue, err := json.Marshal(orders)
	if err != nil {
		return domain.Order{}, fmt.Errorf("json.Marshal: %w", err)
	}
	cartValue, err := json.Marshal([]domain.CartLine{})
	if err != nil {
		return domain.Order{}, fmt.Errorf("json.Marshal: %w", err)
	}

	if batch, ok := r.kv.(port.BatchKV); ok {
		err = batch.SetBatch(ctx, []port.KVEntry{
			{Key: OrdersKey(ownerID), Value: ordersValue},
			{Key: CartKey(ownerID), Value: cartValue},
		})
		if err != nil {
			return domain.Order{}, fmt.Errorf("kv.SetBatch: %w", err)
		}
	} else {
		if err := r.checkoutInSteps(ctx, ownerID, order.ID, ordersValue, cartValue); err != nil {
			return domain.Order{}, fmt.Errorf("checkoutInSteps: %w", err)
		}
	}

	r.logger.InfoContext(ctx, "order placed",
		"owner_id", ownerID,
		"order_id", order.ID,
		"lines", len(order.Lines))

	return order, nil
}

// checkoutInSteps brackets the two writes with a marker, so an interruption
// between them can be detected and finished by Reconcile.
func (r *cartRepository) checkoutInSteps(ctx context.Context, ownerID, orderID string, ordersValue, cartValue []byte) error {
	marker, err := json.Marshal(checkoutMarker{OrderID: orderID})
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := r.kv.Set(ctx, CheckoutKey(ownerID), marker); err != nil {
		return fmt.Errorf("kv.Set[marker]: %w", err)
	}
	if err := r.kv.Set(ctx, OrdersKey(ownerID), ordersValue); err != nil {
		return fmt.Errorf("kv.Set[orders]: %w", err)
	}
	if err := r.kv.Set(ctx, CartKey(ownerID), cartValue); err != nil {
		return fmt.Errorf("kv.Set[cart]: %w", err)
	}
	// the order is recorded and the cart cleared; Reconcile drops a leftover marker
	if err := r.kv.Delete(ctx, CheckoutKey(ownerID)); err != nil {
		r.logger.WarnContext(ctx, "checkout marker not removed",
			"owner_id", ownerID,
			"order_id", orderID,
			"error", err)
	}

	return nil
}

func (r *cartRepository) Reconcile(ctx context.Context, ownerID string) (bool, error) {
	if ownerID == "" {
		return false, fmt.Errorf("ownerID is empty")
	}

	raw, found, err := r.kv.Get(ctx, CheckoutKey(ownerID))
	if err != nil {
		return false, fmt.Errorf("kv.Get: %w", err)
	}
	if !found {
		return false, nil
	}

	marker, err := parseCheckoutMarker(raw)
	if err != nil {
		r.logger.WarnContext(ctx, "dropping invalid checkout marker", "owner_id", ownerID, "error", err)
	} else {
		orders, err := r.loadOrders(ctx, ownerID)
		if err != nil {
			return false, fmt.Errorf("loadOrders: %w", err)
		}

		recorded := slices.ContainsFunc(orders, func(o domain.Order) bool {
			return o.ID == marker.OrderID
		})
		if recorded {
			if err := r.saveCart(ctx, ownerID, []domain.CartLine{}); err != nil {
				return false, fmt.Errorf("saveCart: %w", err)
			}
		}

		r.logger.WarnContext(ctx, "reconciled interrupted checkout",
			"owner_id", ownerID,
			"order_id", marker.OrderID,
			"order_recorded", recorded)
	}

	if err := r.kv.Delete(ctx, CheckoutKey(ownerID)); err != nil {
		return false, fmt.Errorf("kv.Delete: %w", err)
	}

	return true, nil
}

// loadCart never fails on bad data: anything that does not validate is
// replaced by an empty cart, which is persisted.
func (r *cartRepository) loadCart(ctx context.Context, ownerID string) ([]domain.CartLine, error) {
	raw, found, err := r.kv.Get(ctx, CartKey(ownerID))
	if err != nil {
		return nil, fmt.Errorf("kv.Get: %w", err)
	}

	lines, err := parseCart(raw, found)
	if err == nil {
		return lines, nil
	}
	r.logReset(ctx, "cart", ownerID, err)

	lines = []domain.CartLine{}
	if err := r.saveCart(ctx, ownerID, lines); err != nil {
		return nil, fmt.Errorf("saveCart: %w", err)
	}

	return lines, nil
}

func (r *cartRepository) saveCart(ctx context.Context, ownerID string, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}

	value, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := r.kv.Set(ctx, CartKey(ownerID), value); err != nil {
		return fmt.Errorf("kv.Set: %w", err)
	}

	return nil
}

// loadOrders heals the orders list the same way loadCart heals the cart.
func (r *cartRepository) loadOrders(ctx context.Context, ownerID string) ([]domain.Order, error) {
	raw, found, err := r.kv.Get(ctx, OrdersKey(ownerID))
	if err != nil {
		return nil, fmt.Errorf("kv.Get: %w", err)
	}

	orders, err := parseOrders(raw, found)
	if err == nil {
		return orders, nil
	}
	r.logReset(ctx, "orders", ownerID, err)

	orders = []domain.Order{}
	value, err := json.Marshal(orders)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	if err := r.kv.Set(ctx, OrdersKey(ownerID), value); err != nil {
		return nil, fmt.Errorf("kv.Set: %w", err)
	}

	return orders, nil
}

func (r *cartRepository) logReset(ctx context.Context, collection, ownerID string, reason error) {
	if errors.Is(reason, errNotStored) {
		r.logger.DebugContext(ctx, "initializing empty "+collection, "owner_id", ownerID)
		return
	}

	r.logger.WarnContext(ctx, "resetting invalid "+collection, "owner_id", ownerID, "error", reason)
}
