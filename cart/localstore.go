package cart

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	guestCartKey       = "guest_cart"
	pendingCheckoutKey = "pendingCheckoutDetails"
)

// Storage is the key-value port LocalStore persists through. Values are
// JSON documents keyed by fixed storage keys.
type Storage interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Delete(key string) error
}

// FileStorage keeps one JSON file per key under a state directory.
type FileStorage struct {
	dir string
}

func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStorage) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (s *FileStorage) Set(key string, value []byte) error {
	return os.WriteFile(s.path(key), value, 0o644)
}

func (s *FileStorage) Delete(key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MemoryStorage is an in-process Storage, used in tests and as a fallback
// when no state directory is available.
type MemoryStorage struct {
	data map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: map[string][]byte{}}
}

func (s *MemoryStorage) Get(key string) ([]byte, bool) {
	value, ok := s.data[key]
	return value, ok
}

func (s *MemoryStorage) Set(key string, value []byte) error {
	s.data[key] = value
	return nil
}

func (s *MemoryStorage) Delete(key string) error {
	delete(s.data, key)
	return nil
}

// LocalStore persists the guest cart and the pending-checkout record.
// Every read is fail-soft: missing or corrupted data behaves as empty and
// is never surfaced to callers as an error.
type LocalStore struct {
	store  Storage
	mirror []Item
}

func NewLocalStore(store Storage) *LocalStore {
	return &LocalStore{store: store}
}

func (s *LocalStore) LoadGuestCart() []Item {
	data, ok := s.store.Get(guestCartKey)
	if !ok {
		return []Item{}
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return []Item{}
	}
	if items == nil {
		items = []Item{}
	}
	s.mirror = items
	return items
}

func (s *LocalStore) SaveGuestCart(items []Item) {
	s.mirror = items
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	_ = s.store.Set(guestCartKey, data)
}

func (s *LocalStore) ClearGuestCart() {
	s.mirror = nil
	_ = s.store.Delete(guestCartKey)
}

// GuestCart returns the in-memory mirror of the last loaded or saved guest
// cart without touching storage.
func (s *LocalStore) GuestCart() []Item {
	return s.mirror
}

func (s *LocalStore) LoadPendingCheckout() *PendingCheckout {
	data, ok := s.store.Get(pendingCheckoutKey)
	if !ok {
		return nil
	}
	var pending PendingCheckout
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil
	}
	return &pending
}

func (s *LocalStore) SavePendingCheckout(pending *PendingCheckout) {
	if pending == nil {
		return
	}
	data, err := json.Marshal(pending)
	if err != nil {
		return
	}
	_ = s.store.Set(pendingCheckoutKey, data)
}

func (s *LocalStore) ClearPendingCheckout() {
	_ = s.store.Delete(pendingCheckoutKey)
}
