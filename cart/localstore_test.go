package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGuestCartMissingKey(t *testing.T) {
	store := NewLocalStore(NewMemoryStorage())

	items := store.LoadGuestCart()
	require.NotNil(t, items)
	assert.Empty(t, items)
}

func TestLoadGuestCartCorruptData(t *testing.T) {
	mem := NewMemoryStorage()
	require.NoError(t, mem.Set(guestCartKey, []byte("{not json")))

	store := NewLocalStore(mem)
	items := store.LoadGuestCart()
	require.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSaveAndLoadGuestCart(t *testing.T) {
	mem := NewMemoryStorage()
	store := NewLocalStore(mem)

	saved := []Item{
		{ID: 1, Name: "Graph Notebook", Price: 4500, Quantity: 2, Image: "notebook.png"},
		{ID: 9, Name: "Compass Set", Price: 12000, Quantity: 1, Unit: "set"},
	}
	store.SaveGuestCart(saved)

	loaded := NewLocalStore(mem).LoadGuestCart()
	assert.Equal(t, saved, loaded)
	assert.Equal(t, saved, store.GuestCart())
}

func TestClearGuestCartRemovesKey(t *testing.T) {
	mem := NewMemoryStorage()
	store := NewLocalStore(mem)

	store.SaveGuestCart([]Item{{ID: 1, Name: "Ruler", Price: 2000, Quantity: 1}})
	store.ClearGuestCart()

	_, ok := mem.Get(guestCartKey)
	assert.False(t, ok)
	assert.Empty(t, store.LoadGuestCart())
}

func TestPendingCheckoutRoundTrip(t *testing.T) {
	mem := NewMemoryStorage()
	store := NewLocalStore(mem)

	require.Nil(t, store.LoadPendingCheckout())

	pending := &PendingCheckout{
		Items: []Item{{ID: 3, Name: "Atlas", Price: 15000, Quantity: 1}},
		Delivery: &DeliveryDetails{
			FullName: "Amina Yusuf",
			Email:    "amina@example.com",
			Phone:    "0712000000",
			Address:  "12 School Lane",
			District: "Central",
			City:     "Nairobi",
		},
	}
	store.SavePendingCheckout(pending)

	loaded := store.LoadPendingCheckout()
	require.NotNil(t, loaded)
	assert.Equal(t, pending.Items, loaded.Items)
	require.NotNil(t, loaded.Delivery)
	assert.Equal(t, "Amina Yusuf", loaded.Delivery.FullName)

	store.ClearPendingCheckout()
	assert.Nil(t, store.LoadPendingCheckout())
}

func TestPendingCheckoutCorruptData(t *testing.T) {
	mem := NewMemoryStorage()
	require.NoError(t, mem.Set(pendingCheckoutKey, []byte("[]garbage")))

	store := NewLocalStore(mem)
	assert.Nil(t, store.LoadPendingCheckout())
}

func TestFileStorage(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	_, ok := fs.Get(guestCartKey)
	assert.False(t, ok)

	require.NoError(t, fs.Set(guestCartKey, []byte(`[{"id":1}]`)))
	data, ok := fs.Get(guestCartKey)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":1}]`, string(data))

	require.NoError(t, fs.Delete(guestCartKey))
	_, ok = fs.Get(guestCartKey)
	assert.False(t, ok)

	// deleting a missing key is not an error
	require.NoError(t, fs.Delete(guestCartKey))
}

func TestFileStorageBackedLocalStore(t *testing.T) {
	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	store := NewLocalStore(fs)
	store.SaveGuestCart([]Item{{ID: 5, Name: "Microscope Slides", Price: 9000, Quantity: 3}})

	loaded := store.LoadGuestCart()
	require.Len(t, loaded, 1)
	assert.Equal(t, 5, loaded[0].ID)
	assert.Equal(t, 3, loaded[0].Quantity)
}
