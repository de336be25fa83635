package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"

	"github.com/gosimple/slug"
	"github.com/ncobase/gqltable/config"
)

// KeyPrefix prefixes every persisted snapshot key.
const KeyPrefix = "graphql-table-query-params:"

// ErrUnknownDriver is returned by Open for an unregistered driver name.
var ErrUnknownDriver = errors.New("snapshot: unknown driver")

// Store persists the last location parameters per table identifier.
// Loading a missing snapshot returns empty values and a nil error.
type Store interface {
	Save(ctx context.Context, id string, values url.Values) error
	Load(ctx context.Context, id string) (url.Values, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// Driver opens a Store from configuration.
type Driver interface {
	Name() string
	Open(ctx context.Context, cfg *config.Snapshot) (Store, error)
}

var (
	drivers   = make(map[string]Driver)
	driversMu sync.RWMutex
)

// Register makes a driver available by its name.
// It panics if called twice for the same name or with a nil driver.
func Register(d Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()

	if d == nil {
		panic("snapshot: Register driver is nil")
	}
	name := d.Name()
	if name == "" {
		panic("snapshot: Register driver name is empty")
	}
	if _, exists := drivers[name]; exists {
		panic(fmt.Sprintf("snapshot: Register called twice for driver %s", name))
	}
	drivers[name] = d
}

// Drivers returns the sorted names of registered drivers.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens the store selected by cfg.Driver; an empty driver means memory.
func Open(ctx context.Context, cfg *config.Snapshot) (Store, error) {
	name := "memory"
	if cfg != nil && cfg.Driver != "" {
		name = cfg.Driver
	}
	driversMu.RLock()
	d, ok := drivers[name]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, name)
	}
	store, err := d.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s snapshot store: %w", name, err)
	}
	return store, nil
}

// Key returns the storage key for a table identifier.
func Key(id string) string {
	s := slug.Make(id)
	if s == "" {
		s = "default"
	}
	return KeyPrefix + s
}

// encode stores values as a JSON object of string arrays.
func encode(values url.Values) ([]byte, error) {
	if values == nil {
		values = url.Values{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

func decode(data []byte) (url.Values, error) {
	values := url.Values{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return url.Values{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return values, nil
}
