package port

import (
	"context"

	"github.com/nikolayk812/ezcart/internal/domain"
)

type CartRepository interface {
	GetOrCreateCart(ctx context.Context, ownerID string) (domain.Cart, error)
	AddProductToCart(ctx context.Context, ownerID, productID string, quantity int64) error
	RemoveProductFromCart(ctx context.Context, ownerID, productID string) error

	GetOrders(ctx context.Context, ownerID string) ([]domain.Order, error)
	GetOrder(ctx context.Context, ownerID, orderID string) (domain.Order, bool, error)
	Checkout(ctx context.Context, ownerID string) (domain.Order, error)

	// Reconcile finishes a checkout that was interrupted between its writes.
	Reconcile(ctx context.Context, ownerID string) (bool, error)
}
