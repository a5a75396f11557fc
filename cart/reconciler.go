package cart

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
)

// Mode says which side is the source of truth for the cart.
type Mode int

const (
	ModeUninitialized Mode = iota
	// ModeGuest keeps the cart in local storage only.
	ModeGuest
	// ModeBound treats the remote server cart as authoritative.
	ModeBound
)

// ClearResult enumerates which product ids a ClearCart call removed
// remotely and which survived both the first pass and the single retry
// pass. In guest mode everything lands in Removed.
type ClearResult struct {
	Removed []int
	Failed  []int
}

// Reconciler is the single façade owning the cart aggregate. It selects
// local or remote as source of truth from the auth state, exposes a
// uniform mutation API, and performs the guest-to-bound merge on login.
//
// Every bound-mode mutation is followed by a full refetch: the effective
// cart state after any operation is the server's present truth, never a
// client-side optimistic guess. Mutations serialize behind a mutex.
type Reconciler struct {
	mu     sync.Mutex
	local  *LocalStore
	remote Remote
	notify Notifier

	mode        Mode
	token       string
	items       []Item
	loading     bool
	lastErr     string
	initialized bool

	// login tokens a guest merge has already run for; closes the
	// double-merge window when the same transition fires twice
	merged map[string]bool
}

func NewReconciler(local *LocalStore, remote Remote, notify Notifier) *Reconciler {
	if notify == nil {
		notify = LogNotifier{}
	}
	return &Reconciler{
		local:  local,
		remote: remote,
		notify: notify,
		merged: map[string]bool{},
	}
}

// OnAuthChange dispatches an auth transition and re-initializes the cart
// from the matching source of truth. Guest -> Bound merges the guest cart
// into the bound cart exactly once per login token. Bound -> Guest
// (logout) drops to empty local state without remote calls, since the
// token is already gone.
func (r *Reconciler) OnAuthChange(ctx context.Context, token string, authenticated bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.mode
	if authenticated && token != "" {
		r.mode = ModeBound
		r.token = token
	} else {
		r.mode = ModeGuest
		r.token = ""
	}

	switch r.mode {
	case ModeBound:
		if prev == ModeGuest && !r.merged[token] {
			r.merged[token] = true
			r.mergeGuestCartLocked(ctx)
		} else {
			r.refetchLocked(ctx)
		}
	default:
		if prev == ModeBound {
			r.local.ClearGuestCart()
			r.local.ClearPendingCheckout()
			r.items = []Item{}
		} else {
			r.items = r.local.LoadGuestCart()
		}
	}

	r.initialized = true
}

// AddToCart adds quantity of item to the cart. In guest mode lines
// aggregate by product id; in bound mode the server does the aggregation
// and the refetch picks it up.
func (r *Reconciler) AddToCart(ctx context.Context, item Item, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mode == ModeBound {
		if err := r.remote.AddItem(ctx, r.token, item.ID, quantity); err != nil {
			r.failLocked(err, "Failed to add item to cart")
			return err
		}
		r.refetchLocked(ctx)
	} else {
		found := false
		for i := range r.items {
			if r.items[i].ID == item.ID {
				r.items[i].Quantity += quantity
				found = true
				break
			}
		}
		if !found {
			line := item
			line.Quantity = quantity
			r.items = append(r.items, line)
		}
		r.local.SaveGuestCart(r.items)
	}

	r.notify.Success(item.Name + " added to cart")
	return nil
}

// RemoveFromCart removes the single line matching id. A non-existent id is
// a no-op.
func (r *Reconciler) RemoveFromCart(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked(ctx, id)
}

func (r *Reconciler) removeLocked(ctx context.Context, id int) error {
	if r.mode == ModeBound {
		if err := r.remote.RemoveItem(ctx, r.token, id); err != nil {
			r.failLocked(err, "Failed to remove item from cart")
			return err
		}
		r.refetchLocked(ctx)
		return nil
	}

	kept := r.items[:0]
	for _, line := range r.items {
		if line.ID != id {
			kept = append(kept, line)
		}
	}
	r.items = kept
	r.local.SaveGuestCart(r.items)
	return nil
}

// UpdateQuantity sets the quantity of the line matching id. A quantity of
// zero or less is equivalent to RemoveFromCart; that is policy, not an
// error.
func (r *Reconciler) UpdateQuantity(ctx context.Context, id, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if quantity <= 0 {
		return r.removeLocked(ctx, id)
	}

	if r.mode == ModeBound {
		if err := r.remote.UpdateItem(ctx, r.token, id, quantity); err != nil {
			r.failLocked(err, "Failed to update cart")
			return err
		}
		r.refetchLocked(ctx)
		return nil
	}

	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Quantity = quantity
			break
		}
	}
	r.local.SaveGuestCart(r.items)
	return nil
}

// ClearCart empties the cart. The local clear is authoritative for the
// caller: both storage keys are removed and the in-memory items become
// empty no matter what the server said. There is no bulk-clear endpoint,
// so bound mode removes line by line concurrently, refetches, and runs
// exactly one retry pass over whatever the server still reports. Partial
// remote failure is logged, never escalated.
func (r *Reconciler) ClearCart(ctx context.Context) ClearResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result ClearResult
	if r.mode == ModeBound {
		result = r.clearRemoteLocked(ctx)
	} else {
		for _, line := range r.items {
			result.Removed = append(result.Removed, line.ID)
		}
	}

	r.local.ClearGuestCart()
	r.local.ClearPendingCheckout()
	r.items = []Item{}

	if len(result.Failed) > 0 {
		log.Printf("cart: %d remote lines survived clear: %v", len(result.Failed), result.Failed)
	}
	return result
}

func (r *Reconciler) clearRemoteLocked(ctx context.Context) ClearResult {
	before := make([]int, 0, len(r.items))
	for _, line := range r.items {
		before = append(before, line.ID)
	}

	firstPass := r.removeConcurrent(ctx, before)

	remaining, err := r.remote.FetchCart(ctx, r.token)
	if err != nil {
		// cannot verify against the server; report what the removes said
		return splitClear(before, firstPass)
	}

	if len(remaining) > 0 {
		ids := make([]int, 0, len(remaining))
		for _, line := range remaining {
			ids = append(ids, line.ID)
		}
		r.removeConcurrent(ctx, ids)
		if again, err := r.remote.FetchCart(ctx, r.token); err == nil {
			remaining = again
		}
	}

	survived := make([]int, 0, len(remaining))
	for _, line := range remaining {
		survived = append(survived, line.ID)
	}
	return splitClear(before, survived)
}

func (r *Reconciler) removeConcurrent(ctx context.Context, ids []int) []int {
	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := []int{}

	for _, id := range ids {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := r.remote.RemoveItem(ctx, r.token, id); err != nil {
				mu.Lock()
				failed = append(failed, id)
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()
	return failed
}

func splitClear(before, failed []int) ClearResult {
	failedSet := map[int]bool{}
	for _, id := range failed {
		failedSet[id] = true
	}

	var result ClearResult
	for _, id := range before {
		if failedSet[id] {
			result.Failed = append(result.Failed, id)
		} else {
			result.Removed = append(result.Removed, id)
		}
	}
	sort.Ints(result.Removed)
	sort.Ints(result.Failed)
	return result
}

// MergeGuestCart transfers every guest line into the bound cart, removes
// the guest storage key, and refetches. The raw operation is not
// idempotent: running it twice re-adds the same quantities. OnAuthChange
// and MergeGuestCartOnce guard it per login token.
func (r *Reconciler) MergeGuestCart(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mode != ModeBound {
		return fmt.Errorf("merge requires an authenticated session")
	}
	return r.mergeGuestCartLocked(ctx)
}

// MergeGuestCartOnce runs MergeGuestCart unless a merge already ran for
// the current login token. Safe to dispatch from effects that may fire
// more than once.
func (r *Reconciler) MergeGuestCartOnce(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mode != ModeBound || r.merged[r.token] {
		return nil
	}
	r.merged[r.token] = true
	return r.mergeGuestCartLocked(ctx)
}

func (r *Reconciler) mergeGuestCartLocked(ctx context.Context) error {
	guest := r.local.LoadGuestCart()

	failures := 0
	for _, line := range guest {
		if err := r.remote.AddItem(ctx, r.token, line.ID, line.Quantity); err != nil {
			failures++
			r.notify.Error("Failed to move " + line.Name + " to your cart")
		}
	}

	r.local.ClearGuestCart()
	r.refetchLocked(ctx)

	if failures > 0 {
		return fmt.Errorf("%d of %d guest lines failed to merge", failures, len(guest))
	}
	return nil
}

func (r *Reconciler) refetchLocked(ctx context.Context) {
	r.loading = true
	items, err := r.remote.FetchCart(ctx, r.token)
	r.loading = false

	if err != nil {
		r.failLocked(err, "Failed to load cart")
		return
	}
	r.lastErr = ""
	r.items = items
}

// failLocked records a network failure without touching the last
// known-good items.
func (r *Reconciler) failLocked(err error, msg string) {
	r.lastErr = err.Error()
	r.notify.Error(msg)
}

// Items returns a copy of the current cart lines.
func (r *Reconciler) Items() []Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]Item, len(r.items))
	copy(items, r.items)
	return items
}

// Count is the number of distinct line items, not the sum of quantities.
// Kept as designed even though cart badges usually show total quantity.
func (r *Reconciler) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Total is the sum of price times quantity over all lines.
func (r *Reconciler) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, line := range r.items {
		total += line.Price * line.Quantity
	}
	return total
}

func (r *Reconciler) Mode() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

func (r *Reconciler) IsLoading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

func (r *Reconciler) Err() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

func (r *Reconciler) IsInitialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialized
}

func (r *Reconciler) PendingCheckout() *PendingCheckout {
	return r.local.LoadPendingCheckout()
}

func (r *Reconciler) SavePendingCheckout(pending *PendingCheckout) {
	r.local.SavePendingCheckout(pending)
}

func (r *Reconciler) ClearPendingCheckout() {
	r.local.ClearPendingCheckout()
}
