package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"harvest/internal/domain/entity"
	"harvest/internal/domain/gateway"
	"harvest/internal/errors"
	"harvest/internal/usecase"
)

// dispatch routes one shell command.
func (s *cliServer) dispatch(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	command, args := fields[0], fields[1:]

	switch command {
	case "help":
		s.printHelp()

		return nil
	case "quit", "exit":
		return errQuit
	case "go":
		if len(args) != 1 {
			return errors.New("usage: go <path>")
		}

		return s.navigate(ctx, args[0])
	case "home":
		return s.navigate(ctx, "/")
	case "products":
		return s.navigate(ctx, "/products")
	case "search":
		if len(args) == 0 {
			return errors.New("usage: search <term>")
		}

		return s.navigate(ctx, "/search/"+strings.Join(args, " "))
	case "product":
		return s.dispatchProduct(ctx, args)
	case "cart":
		return s.dispatchCart(ctx, args)
	case "wishlist":
		return s.dispatchWishlist(ctx, args)
	case "orders":
		return s.navigate(ctx, "/orders")
	case "order":
		if len(args) != 1 {
			return errors.New("usage: order <id>")
		}

		return s.navigate(ctx, "/order/"+args[0])
	case "profile":
		return s.dispatchProfile(ctx, args)
	case "admin":
		return s.navigate(ctx, "/admin")
	case "category":
		return s.dispatchCategory(ctx, args)
	case "checkout":
		return s.navigate(ctx, "/checkout")
	case "pay":
		if len(args) != 1 {
			return errors.New("usage: pay <orderID>")
		}

		return s.payExisting(ctx, args[0])
	case "login":
		return s.login(ctx, args)
	case "register":
		return s.register(ctx)
	case "logout":
		return s.logout(ctx)
	case "session":
		s.printSession()

		return nil
	default:
		fmt.Fprintf(s.out, "Unknown command %q. Type 'help'.\n", command)

		return nil
	}
}

func (s *cliServer) printHelp() {
	fmt.Fprint(s.out, `Browsing
  home, products, product <id>, search <term>, go <path>
Cart and wishlist
  cart [add <id> [qty] | qty <id> <n> | rm <id> | clear]
  wishlist [add <id> | rm <id> | clear]
Account
  login <username> <password>, register, logout, profile, session
  profile set phone|address <value>
Orders
  checkout, pay <orderID>, orders, order <id>
Selling (farmers)
  product add, product edit <id>, product rm <id>
Administration
  admin, category add
Other
  help, quit
`)
}

func (s *cliServer) printSession() {
	session := s.session.Snapshot()
	fmt.Fprintf(s.out, "State: %s\n", session.State)
	fmt.Fprintf(s.out, "Bootstrapped: %t\n", session.Bootstrapped)
	if session.Profile != nil {
		fmt.Fprintf(s.out, "Signed in as: %s (#%d)\n",
			session.Profile.Identity.Username, session.Profile.Identity.ID)
	} else {
		fmt.Fprintln(s.out, "Signed in as: nobody")
	}
	if session.LastError != "" {
		fmt.Fprintf(s.out, "Last error: %s\n", session.LastError)
	}
}

// ask prints a label and reads one line of input.
func (s *cliServer) ask(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", errors.WithStack(err)
		}

		return "", errQuit
	}

	return strings.TrimSpace(s.scanner.Text()), nil
}

func (s *cliServer) askYesNo(label string) (bool, error) {
	answer, err := s.ask(label + " [y/N] ")
	if err != nil {
		return false, err
	}

	answer = strings.ToLower(answer)

	return answer == "y" || answer == "yes", nil
}

// --- account commands ---

func (s *cliServer) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: login <username> <password>")
	}

	err := s.session.Login(ctx, &usecase.LoginInput{
		Username: args[0],
		Password: args[1],
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Signed in as %s.\n", args[0])

	// Return to the page the login redirect came from.
	destination := "/"
	if s.returnTo != "" {
		destination = s.returnTo
		s.returnTo = ""
	}

	return s.navigate(ctx, destination)
}

func (s *cliServer) register(ctx context.Context) error {
	input := &usecase.RegisterInput{}

	var err error
	if input.Username, err = s.ask("Username: "); err != nil {
		return err
	}
	if input.Email, err = s.ask("Email: "); err != nil {
		return err
	}
	if input.Password, err = s.ask("Password: "); err != nil {
		return err
	}
	if input.IsFarmer, err = s.askYesNo("Sell produce as a farmer?"); err != nil {
		return err
	}
	if input.IsBuyer, err = s.askYesNo("Shop as a buyer?"); err != nil {
		return err
	}
	if input.Phone, err = s.ask("Phone (optional): "); err != nil {
		return err
	}
	if input.Address, err = s.ask("Address (optional): "); err != nil {
		return err
	}

	identity, err := s.session.Register(ctx, input)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Account %s created. Log in to start shopping.\n", identity.Username)

	return nil
}

func (s *cliServer) logout(ctx context.Context) error {
	if err := s.session.Logout(ctx); err != nil {
		return err
	}

	fmt.Fprintln(s.out, "Signed out.")

	return nil
}

func (s *cliServer) dispatchProfile(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return s.navigate(ctx, "/profile")
	}

	if len(args) < 3 || args[0] != "set" {
		return errors.New("usage: profile set phone|address <value>")
	}

	allowed, err := s.authorize(ctx, "/profile", entity.RoleNone)
	if err != nil || !allowed {
		return err
	}

	value := strings.Join(args[2:], " ")
	input := &gateway.UpdateProfileInput{}
	switch args[1] {
	case "phone":
		input.Phone = &value
	case "address":
		input.Address = &value
	default:
		return errors.Errorf("unknown profile field: %s", args[1])
	}

	if _, err := s.profile.Update(ctx, input); err != nil {
		return err
	}

	fmt.Fprintln(s.out, "Profile updated.")

	return nil
}

// --- cart and wishlist commands ---

func (s *cliServer) dispatchCart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return s.navigate(ctx, "/cart")
	}

	switch args[0] {
	case "add":
		if len(args) < 2 {
			return errors.New("usage: cart add <productID> [qty]")
		}
		quantity := 1
		if len(args) > 2 {
			parsed, err := strconv.Atoi(args[2])
			if err != nil {
				return errors.Errorf("not a quantity: %s", args[2])
			}
			quantity = parsed
		}

		return s.cartAdd(ctx, args[1], quantity)
	case "qty":
		if len(args) != 3 {
			return errors.New("usage: cart qty <productID> <quantity>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		quantity, err := strconv.Atoi(args[2])
		if err != nil {
			return errors.Errorf("not a quantity: %s", args[2])
		}
		if err := s.cart.UpdateQuantity(ctx, s.owner(), id, quantity); err != nil {
			return err
		}
	case "rm":
		if len(args) != 2 {
			return errors.New("usage: cart rm <productID>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		if err := s.cart.Remove(ctx, s.owner(), id); err != nil {
			return err
		}
	case "clear":
		if err := s.cart.Clear(ctx, s.owner()); err != nil {
			return err
		}
	default:
		return errors.Errorf("unknown cart command: %s", args[0])
	}

	return s.renderCart(ctx, nil)
}

// cartAdd fetches the product so a fresh snapshot is frozen into the entry.
func (s *cliServer) cartAdd(ctx context.Context, rawID string, quantity int) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	product, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.cart.Add(ctx, s.owner(), product.ID, quantity, product.Snapshot()); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Added %s to your cart.\n", product.Name)

	return nil
}

func (s *cliServer) dispatchWishlist(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return s.navigate(ctx, "/wishlist")
	}

	switch args[0] {
	case "add":
		if len(args) != 2 {
			return errors.New("usage: wishlist add <productID>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		product, err := s.catalog.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		if err := s.wishlist.Add(ctx, s.owner(), product.ID, product.Snapshot()); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Saved %s to your wishlist.\n", product.Name)

		return nil
	case "rm":
		if len(args) != 2 {
			return errors.New("usage: wishlist rm <productID>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		if err := s.wishlist.Remove(ctx, s.owner(), id); err != nil {
			return err
		}
	case "clear":
		if err := s.wishlist.Clear(ctx, s.owner()); err != nil {
			return err
		}
	default:
		return errors.Errorf("unknown wishlist command: %s", args[0])
	}

	return s.renderWishlist(ctx, nil)
}

// --- catalog management commands ---

func (s *cliServer) dispatchProduct(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: product <id> | product add | product edit <id> | product rm <id>")
	}

	switch args[0] {
	case "add":
		return s.navigate(ctx, "/product/add")
	case "edit":
		if len(args) != 2 {
			return errors.New("usage: product edit <id>")
		}

		return s.navigate(ctx, "/product/edit/"+args[1])
	case "rm":
		if len(args) != 2 {
			return errors.New("usage: product rm <id>")
		}

		return s.deleteProduct(ctx, args[1])
	default:
		return s.navigate(ctx, "/product/"+args[0])
	}
}

func (s *cliServer) deleteProduct(ctx context.Context, rawID string) error {
	allowed, err := s.authorize(ctx, "/product/edit/"+rawID, entity.RoleFarmer)
	if err != nil || !allowed {
		return err
	}

	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	if err := s.catalog.DeleteProduct(ctx, id); err != nil {
		return err
	}

	fmt.Fprintln(s.out, "Listing removed.")

	return nil
}

// renderProductForm is the farmer's add/edit listing flow. An id parameter
// switches it to edit mode.
func (s *cliServer) renderProductForm(ctx context.Context, params map[string]string) error {
	input := &gateway.ProductInput{}

	var existing *entity.Product
	if raw, ok := params["id"]; ok {
		id, err := parseID(raw)
		if err != nil {
			return err
		}
		existing, err = s.catalog.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Editing %s. Empty answers keep the current value.\n", existing.Name)
	}

	name, err := s.ask("Name: ")
	if err != nil {
		return err
	}
	price, err := s.ask("Price: ")
	if err != nil {
		return err
	}
	stock, err := s.ask("Stock: ")
	if err != nil {
		return err
	}
	category, err := s.ask("Category id: ")
	if err != nil {
		return err
	}
	description, err := s.ask("Description: ")
	if err != nil {
		return err
	}
	imageURL, err := s.ask("Image URL (optional): ")
	if err != nil {
		return err
	}

	if existing != nil {
		input.Name = fallback(name, existing.Name)
		input.Price = fallback(price, existing.Price)
		input.Description = fallback(description, existing.Description)
		input.Stock = existing.Stock
		input.CategoryID = existing.CategoryID
	} else {
		input.Name = name
		input.Price = price
		input.Description = description
	}

	if stock != "" {
		parsed, parseErr := strconv.Atoi(stock)
		if parseErr != nil {
			return errors.Errorf("not a stock count: %s", stock)
		}
		input.Stock = parsed
	}
	if category != "" {
		parsed, parseErr := parseID(category)
		if parseErr != nil {
			return parseErr
		}
		input.CategoryID = parsed
	}
	if imageURL != "" {
		input.ImageURL = &imageURL
	}

	if existing != nil {
		product, updateErr := s.catalog.UpdateProduct(ctx, existing.ID, input)
		if updateErr != nil {
			return updateErr
		}
		fmt.Fprintf(s.out, "Updated listing #%d.\n", product.ID)

		return nil
	}

	product, err := s.catalog.CreateProduct(ctx, input)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Listed %s as #%d.\n", product.Name, product.ID)

	return nil
}

func (s *cliServer) dispatchCategory(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] != "add" {
		return errors.New("usage: category add")
	}

	allowed, err := s.authorize(ctx, "/admin", entity.RoleAdmin)
	if err != nil || !allowed {
		return err
	}

	name, err := s.ask("Category name: ")
	if err != nil {
		return err
	}
	description, err := s.ask("Description (optional): ")
	if err != nil {
		return err
	}

	category, err := s.catalog.CreateCategory(ctx, &gateway.CategoryInput{
		Name:        name,
		Description: description,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Created category %s (#%d).\n", category.Name, category.ID)

	return nil
}

// --- checkout ---

// renderCheckout is the buyer's checkout flow: confirm the cart, take a
// shipping address, place the order and optionally pay right away.
func (s *cliServer) renderCheckout(ctx context.Context, _ map[string]string) error {
	owner := s.owner()
	entries, err := s.cart.List(ctx, owner)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(s.out, "Your cart is empty; nothing to check out.")

		return nil
	}

	if err := s.renderCart(ctx, nil); err != nil {
		return err
	}

	address, err := s.ask("Shipping address: ")
	if err != nil {
		return err
	}

	order, err := s.checkout.PlaceOrder(ctx, &usecase.PlaceOrderInput{
		Owner:           owner,
		ShippingAddress: address,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Order #%d placed, total %s.\n", order.ID, order.TotalPrice)

	payNow, err := s.askYesNo("Pay now?")
	if err != nil {
		return err
	}
	if !payNow {
		fmt.Fprintf(s.out, "You can pay later with 'pay %d'.\n", order.ID)

		return nil
	}

	return s.pay(ctx, order.ID)
}

func (s *cliServer) payExisting(ctx context.Context, rawID string) error {
	allowed, err := s.authorize(ctx, "/checkout", entity.RoleNone)
	if err != nil || !allowed {
		return err
	}

	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	return s.pay(ctx, id)
}

func (s *cliServer) pay(ctx context.Context, orderID int64) error {
	capture, err := s.checkout.Pay(ctx, orderID, s.owner(), func(handoff usecase.PaymentHandoff) {
		fmt.Fprintln(s.out, "Approve the payment in your browser:")
		fmt.Fprintln(s.out, "  "+handoff.ApprovalURL)
		if handoff.QRImagePath != "" {
			fmt.Fprintf(s.out, "Or scan the QR code saved at %s.\n", handoff.QRImagePath)
		}
		fmt.Fprintln(s.out, "Waiting for approval...")
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Payment %s for order #%d.\n",
		strings.ToLower(capture.Status), capture.OrderID)

	return nil
}

func fallback(value, current string) string {
	if value == "" {
		return current
	}

	return value
}
