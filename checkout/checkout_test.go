package checkout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"edu-store/cart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	token  string
	authed bool
}

func (s *fakeSession) Token() string       { return s.token }
func (s *fakeSession) Authenticated() bool { return s.authed }

type fakeNav struct {
	paths []string
}

func (n *fakeNav) Redirect(path string) { n.paths = append(n.paths, path) }

type fakeOrders struct {
	nextID int
	err    error
	last   OrderPayload
	calls  int
}

func (o *fakeOrders) CreateOrder(ctx context.Context, token string, payload OrderPayload) (int, error) {
	o.calls++
	o.last = payload
	if o.err != nil {
		return 0, o.err
	}
	return o.nextID, nil
}

type fakeRemote struct {
	mu     sync.Mutex
	lines  map[int]cart.Item
	prices map[int]int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{lines: map[int]cart.Item{}, prices: map[int]int{}}
}

func (f *fakeRemote) FetchCart(ctx context.Context, token string) ([]cart.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]cart.Item, 0, len(f.lines))
	for _, line := range f.lines {
		items = append(items, line)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (f *fakeRemote) AddItem(ctx context.Context, token string, productID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	line, ok := f.lines[productID]
	if !ok {
		price, known := f.prices[productID]
		if !known {
			price = 1000
		}
		line = cart.Item{ID: productID, Name: fmt.Sprintf("product %d", productID), Price: price}
	}
	line.Quantity += quantity
	f.lines[productID] = line
	return nil
}

func (f *fakeRemote) RemoveItem(ctx context.Context, token string, productID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.lines, productID)
	return nil
}

func (f *fakeRemote) UpdateItem(ctx context.Context, token string, productID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if line, ok := f.lines[productID]; ok {
		line.Quantity = quantity
		f.lines[productID] = line
	}
	return nil
}

type silentNotifier struct{}

func (silentNotifier) Success(string) {}
func (silentNotifier) Error(string)   {}

func validDetails() cart.DeliveryDetails {
	return cart.DeliveryDetails{
		FullName:    "  Amina Yusuf  ",
		Email:       " amina@example.com ",
		Phone:       "0712000000",
		Address:     " 12 School Lane ",
		District:    "Central",
		City:        "Nairobi",
		Coordinates: cart.Coordinates{Lat: -1.28, Lng: 36.82},
	}
}

func newGuestSetup(t *testing.T) (*cart.Reconciler, *fakeRemote, *cart.MemoryStorage) {
	t.Helper()
	mem := cart.NewMemoryStorage()
	remote := newFakeRemote()
	r := cart.NewReconciler(cart.NewLocalStore(mem), remote, silentNotifier{})
	r.OnAuthChange(context.Background(), "", false)
	return r, remote, mem
}

func TestBeginRedirectsOutOfEmptyCheckout(t *testing.T) {
	r, _, _ := newGuestSetup(t)
	nav := &fakeNav{}
	flow := NewFlow(r, &fakeOrders{nextID: 1}, &fakeSession{}, nav, silentNotifier{})

	entered := flow.Begin(context.Background())

	assert.False(t, entered)
	assert.Equal(t, []string{"/cart"}, nav.paths)
}

func TestSubmitDetailsValidatesBeforeAnyNetwork(t *testing.T) {
	r, _, _ := newGuestSetup(t)
	ctx := context.Background()
	require.NoError(t, r.AddToCart(ctx, cart.Item{ID: 1, Name: "Workbook", Price: 5000}, 1))

	orders := &fakeOrders{nextID: 1}
	flow := NewFlow(r, orders, &fakeSession{}, &fakeNav{}, silentNotifier{})
	require.True(t, flow.Begin(ctx))

	err := flow.SubmitDetails(cart.DeliveryDetails{FullName: "   ", Email: "a@b.c"})
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Fields, "fullName")
	assert.Contains(t, validationErr.Fields, "phone")
	assert.NotContains(t, validationErr.Fields, "email")

	assert.Equal(t, StateDetails, flow.State())
	assert.Zero(t, orders.calls)
}

func TestSubmitDetailsUnauthenticatedParksCheckout(t *testing.T) {
	r, _, _ := newGuestSetup(t)
	ctx := context.Background()
	require.NoError(t, r.AddToCart(ctx, cart.Item{ID: 1, Name: "Workbook", Price: 5000}, 2))

	nav := &fakeNav{}
	flow := NewFlow(r, &fakeOrders{nextID: 1}, &fakeSession{}, nav, silentNotifier{})
	require.True(t, flow.Begin(ctx))

	require.NoError(t, flow.SubmitDetails(validDetails()))

	// parked for the login redirect, not advanced
	assert.Equal(t, []string{"/login"}, nav.paths)
	assert.Equal(t, StateDetails, flow.State())

	pending := r.PendingCheckout()
	require.NotNil(t, pending)
	require.Len(t, pending.Items, 1)
	require.NotNil(t, pending.Delivery)
	assert.Equal(t, "Amina Yusuf", pending.Delivery.FullName)
	assert.Equal(t, "12 School Lane", pending.Delivery.Address)
	assert.Equal(t, placeholderDeliveryFee, pending.Delivery.DeliveryFee)
}

func TestResumeAtPaymentAfterLogin(t *testing.T) {
	r, remote, _ := newGuestSetup(t)
	ctx := context.Background()
	require.NoError(t, r.AddToCart(ctx, cart.Item{ID: 1, Name: "Workbook", Price: 5000, Image: "wb.png"}, 2))

	// guest submits details and is sent to login
	guestFlow := NewFlow(r, &fakeOrders{nextID: 1}, &fakeSession{}, &fakeNav{}, silentNotifier{})
	require.True(t, guestFlow.Begin(ctx))
	require.NoError(t, guestFlow.SubmitDetails(validDetails()))

	// login transition fires; the reconciler merges the guest cart once
	r.OnAuthChange(ctx, "login-token", true)

	// back on the checkout page, now authenticated
	session := &fakeSession{token: "login-token", authed: true}
	nav := &fakeNav{}
	flow := NewFlow(r, &fakeOrders{nextID: 1}, session, nav, silentNotifier{})
	require.True(t, flow.Begin(ctx))

	assert.Equal(t, StatePayment, flow.State())
	require.NotNil(t, flow.Details())
	assert.Equal(t, "Amina Yusuf", flow.Details().FullName)
	require.Len(t, flow.Items(), 1)
	assert.Equal(t, 2, flow.Items()[0].Quantity)

	// merged exactly once, pending record consumed
	assert.Equal(t, 2, remote.lines[1].Quantity)
	assert.Nil(t, r.PendingCheckout())
	assert.Empty(t, nav.paths)
}

func TestPaymentFailureLeavesEverythingRetryable(t *testing.T) {
	mem := cart.NewMemoryStorage()
	remote := newFakeRemote()
	r := cart.NewReconciler(cart.NewLocalStore(mem), remote, silentNotifier{})
	ctx := context.Background()
	r.OnAuthChange(ctx, "tok", true)
	require.NoError(t, r.AddToCart(ctx, cart.Item{ID: 1, Name: "Workbook", Price: 5000}, 2))

	orders := &fakeOrders{err: &OrderCreationError{Err: errors.New("upstream down")}}
	flow := NewFlow(r, orders, &fakeSession{token: "tok", authed: true}, &fakeNav{}, silentNotifier{})
	require.True(t, flow.Begin(ctx))
	require.NoError(t, flow.SubmitDetails(validDetails()))

	_, err := flow.SubmitPayment(ctx, PaymentDetails{Method: "card"})
	require.Error(t, err)

	var orderErr *OrderCreationError
	assert.True(t, errors.As(err, &orderErr))

	// still in Payment, cart untouched: retry is just calling again
	assert.Equal(t, StatePayment, flow.State())
	assert.Len(t, r.Items(), 1)

	orders.err = nil
	orders.nextID = 42
	flow.SetNavigateDelay(0)
	orderID, err := flow.SubmitPayment(ctx, PaymentDetails{Method: "card"})
	require.NoError(t, err)
	assert.Equal(t, 42, orderID)
}

func TestPaymentSuccessConfirmsAndClears(t *testing.T) {
	mem := cart.NewMemoryStorage()
	remote := newFakeRemote()
	r := cart.NewReconciler(cart.NewLocalStore(mem), remote, silentNotifier{})
	ctx := context.Background()
	r.OnAuthChange(ctx, "tok", true)
	remote.prices = map[int]int{1: 5000, 2: 8000}
	require.NoError(t, r.AddToCart(ctx, cart.Item{ID: 1, Name: "Workbook", Price: 5000}, 2))
	require.NoError(t, r.AddToCart(ctx, cart.Item{ID: 2, Name: "Flask", Price: 8000}, 1))

	orders := &fakeOrders{nextID: 42}
	nav := &fakeNav{}
	flow := NewFlow(r, orders, &fakeSession{token: "tok", authed: true}, nav, silentNotifier{})
	flow.SetNavigateDelay(0)

	require.True(t, flow.Begin(ctx))

	details := validDetails()
	details.DeliveryFee = 3000
	require.NoError(t, flow.SubmitDetails(details))
	assert.Equal(t, StatePayment, flow.State())

	orderID, err := flow.SubmitPayment(ctx, PaymentDetails{Method: "mobile_money"})
	require.NoError(t, err)
	assert.Equal(t, 42, orderID)
	assert.Equal(t, StateConfirmation, flow.State())

	// payload carries one address, the line items, and the totals
	payload := orders.last
	require.Len(t, payload.Address, 1)
	assert.Equal(t, "12 School Lane", payload.Address[0].Street)
	assert.Equal(t, "Nairobi", payload.Address[0].City)
	require.Len(t, payload.Items, 2)
	assert.Equal(t, OrderLine{ProductID: 1, Quantity: 2, Price: 5000}, payload.Items[0])
	assert.Equal(t, OrderLine{ProductID: 2, Quantity: 1, Price: 8000}, payload.Items[1])
	assert.Equal(t, 5000*2+8000, payload.Subtotal)
	assert.Equal(t, 3000, payload.DeliveryFee)
	assert.Equal(t, payload.Subtotal+3000, payload.Total)
	assert.Equal(t, "mobile_money", payload.PaymentMethod)
	assert.Equal(t, "paid", payload.PaymentStatus)

	// cart and pending record are gone, then the flow navigates away
	assert.Empty(t, r.Items())
	assert.Nil(t, r.PendingCheckout())
	assert.Equal(t, []string{"/orders/42"}, nav.paths)
}

func TestBuildOrderPayloadTotals(t *testing.T) {
	items := []cart.Item{
		{ID: 1, Price: 1200, Quantity: 3},
		{ID: 2, Price: 25000, Quantity: 1},
	}
	details := cart.DeliveryDetails{Address: "1 Lane", City: "Nairobi", District: "Central", DeliveryFee: 500}

	payload := BuildOrderPayload(items, details, PaymentDetails{Method: "card", Status: "pending"})

	assert.Equal(t, 1200*3+25000, payload.Subtotal)
	assert.Equal(t, payload.Subtotal+500, payload.Total)
	assert.Equal(t, "pending", payload.PaymentStatus)
	require.Len(t, payload.Items, 2)
	assert.Equal(t, OrderLine{ProductID: 1, Quantity: 3, Price: 1200}, payload.Items[0])
}
