package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"edu-store/cart"
)

// State is a step of the linear checkout flow. There is no backward edge:
// once details are submitted the flow only moves toward Confirmation.
type State int

const (
	StateDetails State = iota
	StatePayment
	StateConfirmation
)

func (s State) String() string {
	switch s {
	case StateDetails:
		return "details"
	case StatePayment:
		return "payment"
	case StateConfirmation:
		return "confirmation"
	}
	return "unknown"
}

// Session exposes the caller's auth state.
type Session interface {
	Token() string
	Authenticated() bool
}

// Navigator performs the guarded redirects around checkout: back to the
// cart, out to login, and on to the placed order.
type Navigator interface {
	Redirect(path string)
}

type PaymentDetails struct {
	Method string
	Status string
}

// ValidationError lists the required delivery fields that were missing or
// empty. It blocks the Details -> Payment transition before any network
// call is made.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// Placeholder until the fee service quotes the actual route.
const placeholderDeliveryFee = 10000

const defaultNavigateDelay = 2 * time.Second

// Flow drives Details -> Payment -> Confirmation over the cart reconciler
// and the pending-checkout record.
type Flow struct {
	cart    *cart.Reconciler
	orders  OrderClient
	session Session
	nav     Navigator
	notify  cart.Notifier

	state   State
	items   []cart.Item
	details *cart.DeliveryDetails

	navigateDelay time.Duration
}

func NewFlow(c *cart.Reconciler, orders OrderClient, session Session, nav Navigator, notify cart.Notifier) *Flow {
	if notify == nil {
		notify = cart.LogNotifier{}
	}
	return &Flow{
		cart:          c,
		orders:        orders,
		session:       session,
		nav:           nav,
		notify:        notify,
		state:         StateDetails,
		navigateDelay: defaultNavigateDelay,
	}
}

// SetNavigateDelay overrides how long a confirmation stays on screen
// before the flow navigates away.
func (f *Flow) SetNavigateDelay(d time.Duration) { f.navigateDelay = d }

func (f *Flow) State() State                   { return f.state }
func (f *Flow) Items() []cart.Item             { return f.items }
func (f *Flow) Details() *cart.DeliveryDetails { return f.details }

// Begin enters the flow and reports whether checkout was actually entered.
// An empty cart redirects straight back out. A pending checkout left
// behind by a login redirect resumes at Payment: the guest cart is merged
// (once) and the saved items and delivery details are restored without
// re-prompting.
func (f *Flow) Begin(ctx context.Context) bool {
	if pending := f.cart.PendingCheckout(); pending != nil && f.session.Authenticated() {
		_ = f.cart.MergeGuestCartOnce(ctx)
		f.cart.ClearPendingCheckout()

		items := pending.Items
		if len(items) == 0 {
			items = f.cart.Items()
		}
		if len(items) == 0 {
			f.nav.Redirect("/cart")
			return false
		}

		f.items = items
		f.details = pending.Delivery
		if f.details != nil {
			f.state = StatePayment
			return true
		}
		f.state = StateDetails
		return true
	}

	items := f.cart.Items()
	if len(items) == 0 {
		f.nav.Redirect("/cart")
		return false
	}

	f.items = items
	f.state = StateDetails
	return true
}

// SubmitDetails moves Details -> Payment. Every string field is trimmed
// and the required fields are checked locally first. An unauthenticated
// caller gets their checkout parked in the pending record and is sent to
// login instead; nothing is lost across the redirect.
func (f *Flow) SubmitDetails(details cart.DeliveryDetails) error {
	if f.state != StateDetails {
		return fmt.Errorf("details already submitted")
	}
	if len(f.items) == 0 {
		return fmt.Errorf("cart is empty")
	}

	trimmed := details.Trimmed()

	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"fullName", trimmed.FullName},
		{"email", trimmed.Email},
		{"phone", trimmed.Phone},
		{"address", trimmed.Address},
		{"district", trimmed.District},
		{"city", trimmed.City},
	}
	for _, field := range required {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}

	if trimmed.DeliveryFee == 0 {
		trimmed.DeliveryFee = placeholderDeliveryFee
	}
	f.details = &trimmed

	if !f.session.Authenticated() {
		f.cart.SavePendingCheckout(&cart.PendingCheckout{Items: f.items, Delivery: &trimmed})
		f.nav.Redirect("/login")
		return nil
	}

	f.state = StatePayment
	return nil
}

// SubmitPayment builds the order payload and posts it once. Failure keeps
// the flow in Payment with the cart and pending record untouched, so the
// user retries by calling SubmitPayment again. Success moves to
// Confirmation, clears the cart and the pending record, and navigates away
// after a short delay so state can propagate before unmount.
func (f *Flow) SubmitPayment(ctx context.Context, payment PaymentDetails) (int, error) {
	if f.state != StatePayment {
		return 0, fmt.Errorf("payment step is not open")
	}
	if f.details == nil {
		return 0, fmt.Errorf("delivery details missing")
	}
	if len(f.items) == 0 {
		return 0, fmt.Errorf("cart is empty")
	}

	payload := BuildOrderPayload(f.items, *f.details, payment)

	orderID, err := f.orders.CreateOrder(ctx, f.session.Token(), payload)
	if err != nil {
		f.notify.Error("Order could not be placed. Please try again.")
		return 0, err
	}

	f.state = StateConfirmation
	f.cart.ClearCart(ctx)
	f.cart.ClearPendingCheckout()
	f.items = nil
	f.notify.Success("Order placed successfully")

	destination := fmt.Sprintf("/orders/%d", orderID)
	if f.navigateDelay <= 0 {
		f.nav.Redirect(destination)
	} else {
		time.AfterFunc(f.navigateDelay, func() { f.nav.Redirect(destination) })
	}
	return orderID, nil
}
