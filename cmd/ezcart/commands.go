package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/nikolayk812/ezcart/internal/catalog"
	"github.com/nikolayk812/ezcart/internal/domain"
	"github.com/nikolayk812/ezcart/internal/port"
)

const usage = `commands:
  products              list the catalog
  cart                  show the cart with totals
  add <id> [quantity]   add a product to the cart (quantity defaults to 1)
  remove <id>           remove a product from the cart
  checkout              place an order from the cart
  orders                list placed orders
  order <id>            show one order

`

type commands struct {
	repo    port.CartRepository
	catalog port.Catalog
	ownerID string
	out     io.Writer
}

func (c *commands) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("command is missing\n\n%s", usage)
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "products":
		return c.products()
	case "cart":
		return c.cart(ctx)
	case "add":
		return c.add(ctx, rest)
	case "remove":
		return c.remove(ctx, rest)
	case "checkout":
		return c.checkout(ctx)
	case "orders":
		return c.orders(ctx)
	case "order":
		return c.order(ctx, rest)
	default:
		return fmt.Errorf("command[%s] is unknown\n\n%s", cmd, usage)
	}
}

func (c *commands) products() error {
	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE")

	for _, p := range c.catalog.Products() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Name, catalog.FormatMoney(p.Price))
	}

	return w.Flush()
}

func (c *commands) cart(ctx context.Context) error {
	cart, err := c.repo.GetOrCreateCart(ctx, c.ownerID)
	if err != nil {
		return fmt.Errorf("repo.GetOrCreateCart: %w", err)
	}

	if len(cart.Lines) == 0 {
		fmt.Fprintln(c.out, "cart is empty")
		return nil
	}

	return c.printLines(cart.Lines)
}

func (c *commands) add(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: add <id> [quantity]")
	}

	productID := args[0]
	if _, ok := c.catalog.Product(productID); !ok {
		return fmt.Errorf("product[%s] not found", productID)
	}

	quantity := int64(1)
	if len(args) == 2 {
		q, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("quantity[%s] is not a number: %w", args[1], err)
		}
		quantity = q
	}

	if err := c.repo.AddProductToCart(ctx, c.ownerID, productID, quantity); err != nil {
		return fmt.Errorf("repo.AddProductToCart: %w", err)
	}

	fmt.Fprintf(c.out, "added %d x %s\n", quantity, productID)
	return nil
}

func (c *commands) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: remove <id>")
	}

	if err := c.repo.RemoveProductFromCart(ctx, c.ownerID, args[0]); err != nil {
		return fmt.Errorf("repo.RemoveProductFromCart: %w", err)
	}

	fmt.Fprintf(c.out, "removed %s\n", args[0])
	return nil
}

func (c *commands) checkout(ctx context.Context) error {
	cart, err := c.repo.GetOrCreateCart(ctx, c.ownerID)
	if err != nil {
		return fmt.Errorf("repo.GetOrCreateCart: %w", err)
	}
	if len(cart.Lines) == 0 {
		return fmt.Errorf("cart is empty")
	}

	order, err := c.repo.Checkout(ctx, c.ownerID)
	if err != nil {
		return fmt.Errorf("repo.Checkout: %w", err)
	}

	fmt.Fprintf(c.out, "order %s placed\n", order.ID)
	return nil
}

func (c *commands) orders(ctx context.Context) error {
	orders, err := c.repo.GetOrders(ctx, c.ownerID)
	if err != nil {
		return fmt.Errorf("repo.GetOrders: %w", err)
	}

	if len(orders) == 0 {
		fmt.Fprintln(c.out, "no orders")
		return nil
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tITEMS\tTOTAL")

	for _, o := range orders {
		total := "n/a"
		if summary, err := catalog.Price(c.catalog, o.Lines); err == nil {
			total = catalog.FormatMoney(summary.Total)
		}

		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", o.ID, formatDate(o.DateOrdered), len(o.Lines), total)
	}

	return w.Flush()
}

func (c *commands) order(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: order <id>")
	}

	order, found, err := c.repo.GetOrder(ctx, c.ownerID, args[0])
	if err != nil {
		return fmt.Errorf("repo.GetOrder: %w", err)
	}
	if !found {
		return fmt.Errorf("order[%s] not found", args[0])
	}

	fmt.Fprintf(c.out, "order %s placed %s\n", order.ID, formatDate(order.DateOrdered))
	return c.printLines(order.Lines)
}

func (c *commands) printLines(lines []domain.CartLine) error {
	summary, err := catalog.Price(c.catalog, lines)
	if err != nil {
		return fmt.Errorf("catalog.Price: %w", err)
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tQTY\tPRICE\tTOTAL")

	for _, l := range summary.Lines {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			l.Product.ID, l.Product.Name, l.Line.Quantity,
			catalog.FormatMoney(l.Product.Price), catalog.FormatMoney(l.Total))
	}
	fmt.Fprintf(w, "\t\t\t\t%s\n", catalog.FormatMoney(summary.Total))

	return w.Flush()
}

func formatDate(t time.Time) string {
	return t.Local().Format("01/02/2006")
}
