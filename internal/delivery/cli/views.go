package cli

import (
	"context"
	"fmt"
	"strconv"

	"harvest/internal/domain/entity"
	"harvest/internal/errors"
)

func (s *cliServer) renderHome(ctx context.Context, _ map[string]string) error {
	session := s.session.Snapshot()
	if session.Profile != nil {
		fmt.Fprintf(s.out, "Welcome back, %s.\n", session.Profile.Identity.Username)
	} else {
		fmt.Fprintln(s.out, "Welcome to Harvest, the farm-to-table marketplace.")
	}

	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return err
	}

	if len(categories) > 0 {
		fmt.Fprintln(s.out, "Categories:")
		for _, category := range categories {
			fmt.Fprintf(s.out, "  [%d] %s\n", category.ID, category.Name)
		}
	}
	fmt.Fprintln(s.out, "Browse with 'products', or 'help' for everything else.")

	return nil
}

func (s *cliServer) renderAuth(_ context.Context, _ map[string]string) error {
	session := s.session.Snapshot()
	if session.Profile != nil {
		fmt.Fprintf(s.out, "Already signed in as %s. Use 'logout' to switch accounts.\n",
			session.Profile.Identity.Username)

		return nil
	}

	if session.LastError != "" {
		fmt.Fprintln(s.out, "Last sign-in attempt failed: "+session.LastError)
	}
	fmt.Fprintln(s.out, "Sign in with 'login <username> <password>' or create an account with 'register'.")

	return nil
}

func (s *cliServer) renderProducts(ctx context.Context, _ map[string]string) error {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return err
	}

	s.printProducts(products)

	return nil
}

func (s *cliServer) renderSearch(ctx context.Context, params map[string]string) error {
	products, err := s.catalog.SearchProducts(ctx, params["term"])
	if err != nil {
		return err
	}

	if len(products) == 0 {
		fmt.Fprintf(s.out, "No products match %q.\n", params["term"])

		return nil
	}

	s.printProducts(products)

	return nil
}

func (s *cliServer) printProducts(products []*entity.Product) {
	if len(products) == 0 {
		fmt.Fprintln(s.out, "No products listed yet.")

		return
	}

	fmt.Fprintf(s.out, "%-6s %-30s %10s %7s\n", "ID", "NAME", "PRICE", "STOCK")
	for _, product := range products {
		fmt.Fprintf(s.out, "%-6d %-30s %10s %7d\n",
			product.ID, truncate(product.Name, 30), product.Price, product.Stock)
	}
}

func (s *cliServer) renderProductDetail(ctx context.Context, params map[string]string) error {
	id, err := parseID(params["id"])
	if err != nil {
		return err
	}

	product, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "%s  (#%d)\n", product.Name, product.ID)
	fmt.Fprintf(s.out, "  Price: %s\n", product.Price)
	fmt.Fprintf(s.out, "  Stock: %d\n", product.Stock)
	if product.Description != "" {
		fmt.Fprintf(s.out, "  %s\n", product.Description)
	}

	saved, err := s.wishlist.Contains(ctx, s.owner(), product.ID)
	if err == nil && saved {
		fmt.Fprintln(s.out, "  (on your wishlist)")
	}
	fmt.Fprintf(s.out, "Add with 'cart add %d [qty]' or 'wishlist add %d'.\n", product.ID, product.ID)

	return nil
}

func (s *cliServer) renderCart(ctx context.Context, _ map[string]string) error {
	entries, err := s.cart.List(ctx, s.owner())
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(s.out, "Your cart is empty.")

		return nil
	}

	total := 0.0
	fmt.Fprintf(s.out, "%-6s %-30s %10s %5s\n", "ID", "NAME", "PRICE", "QTY")
	for _, entry := range entries {
		fmt.Fprintf(s.out, "%-6d %-30s %10s %5d\n",
			entry.ProductID, truncate(entry.Snapshot.Name, 30), entry.Snapshot.Price, entry.Quantity)
		if price, parseErr := strconv.ParseFloat(entry.Snapshot.Price, 64); parseErr == nil {
			total += price * float64(entry.Quantity)
		}
	}
	fmt.Fprintf(s.out, "Total: %.2f\n", total)
	fmt.Fprintln(s.out, "Proceed with 'checkout'.")

	return nil
}

func (s *cliServer) renderWishlist(ctx context.Context, _ map[string]string) error {
	entries, err := s.wishlist.List(ctx, s.owner())
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(s.out, "Your wishlist is empty.")

		return nil
	}

	fmt.Fprintf(s.out, "%-6s %-30s %10s\n", "ID", "NAME", "PRICE")
	for _, entry := range entries {
		fmt.Fprintf(s.out, "%-6d %-30s %10s\n",
			entry.ProductID, truncate(entry.Snapshot.Name, 30), entry.Snapshot.Price)
	}

	return nil
}

func (s *cliServer) renderProfile(ctx context.Context, _ map[string]string) error {
	profile, err := s.profile.Get(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Username: %s\n", profile.Identity.Username)
	fmt.Fprintf(s.out, "Email:    %s\n", profile.Identity.Email)
	fmt.Fprintf(s.out, "Phone:    %s\n", valueOrDash(profile.Phone))
	fmt.Fprintf(s.out, "Address:  %s\n", valueOrDash(profile.Address))
	fmt.Fprintf(s.out, "Roles:    %s\n", roleBadges(profile))
	fmt.Fprintln(s.out, "Edit with 'profile set phone|address <value>'.")

	return nil
}

func (s *cliServer) renderOrders(ctx context.Context, _ map[string]string) error {
	orders, err := s.checkout.History(ctx)
	if err != nil {
		return err
	}

	if len(orders) == 0 {
		fmt.Fprintln(s.out, "No orders yet.")

		return nil
	}

	fmt.Fprintf(s.out, "%-6s %-12s %10s  %s\n", "ID", "STATUS", "TOTAL", "PLACED")
	for _, order := range orders {
		fmt.Fprintf(s.out, "%-6d %-12s %10s  %s\n",
			order.ID, order.Status, order.TotalPrice, order.CreatedAt.Format("2006-01-02"))
	}

	return nil
}

func (s *cliServer) renderOrderDetail(ctx context.Context, params map[string]string) error {
	id, err := parseID(params["id"])
	if err != nil {
		return err
	}

	order, err := s.checkout.Detail(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Order #%d  %s\n", order.ID, order.Status)
	fmt.Fprintf(s.out, "Placed:   %s\n", order.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(s.out, "Ship to:  %s\n", order.ShippingAddress)
	for _, item := range order.Items {
		fmt.Fprintf(s.out, "  %-30s x%-3d %10s\n", truncate(item.Name, 30), item.Quantity, item.Price)
	}
	fmt.Fprintf(s.out, "Total: %s\n", order.TotalPrice)

	return nil
}

func (s *cliServer) renderAdmin(ctx context.Context, _ map[string]string) error {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return err
	}
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Marketplace dashboard: %d products across %d categories.\n",
		len(products), len(categories))
	fmt.Fprintln(s.out, "Manage categories with 'category add'.")

	return nil
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}

	return value[:max-3] + "..."
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}

	return value
}

func roleBadges(profile *entity.Profile) string {
	badges := ""
	for _, role := range []entity.Role{entity.RoleFarmer, entity.RoleBuyer, entity.RoleAdmin} {
		if profile.HasRole(role) {
			if badges != "" {
				badges += ", "
			}
			badges += role.String()
		}
	}
	if badges == "" {
		return "-"
	}

	return badges
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Errorf("not a numeric id: %s", raw)
	}

	return id, nil
}
