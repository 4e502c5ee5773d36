// Package schemas keeps the named record types that the CLI and HTTP
// server can convert tables into.
package schemas

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jszwec/csvutil"

	"github.com/JonMunkholm/serdetable/table"
)

// Info contains display information about a schema.
type Info struct {
	Key     string   `json:"key"`     // Unique identifier: "people"
	Group   string   `json:"group"`   // Grouping for listings: "Examples", "Finance"
	Label   string   `json:"label"`   // Display name: "People"
	Columns []string `json:"columns"` // Header column names, in field order
}

// ParseFunc converts a table into the schema's records, returned as a
// slice of the record type.
type ParseFunc func(t table.Table, opts ...table.Option) (any, int, error)

// Definition contains everything needed to convert a table for one schema.
type Definition struct {
	Info  Info
	Parse ParseFunc
}

var (
	registry   = make(map[string]Definition)
	registryMu sync.RWMutex
)

// Define builds a Definition for record type T. Columns are derived from
// T's csv struct tags.
func Define[T any](key, group, label string) Definition {
	var zero T
	columns, err := csvutil.Header(zero, "csv")
	if err != nil {
		panic(fmt.Sprintf("schema %s: %v", key, err))
	}

	return Definition{
		Info: Info{
			Key:     key,
			Group:   group,
			Label:   label,
			Columns: columns,
		},
		Parse: func(t table.Table, opts ...table.Option) (any, int, error) {
			records, err := table.Convert[T](t, opts...)
			if err != nil {
				return nil, 0, err
			}
			return records, len(records), nil
		},
	}
}

// Register adds a schema definition to the registry.
// Panics if a schema with the same key is already registered.
func Register(def Definition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("schema already registered: %s", def.Info.Key))
	}
	registry[def.Info.Key] = def
}

// Get returns a schema definition by key.
// Returns false if not found.
func Get(key string) (Definition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// Lookup is like Get but returns an error naming the known keys.
func Lookup(key string) (Definition, error) {
	if def, ok := Get(key); ok {
		return def, nil
	}
	return Definition{}, fmt.Errorf("unknown schema %q (known: %s)", key, strings.Join(Keys(), ", "))
}

// All returns all registered schema definitions.
// Sorted by group then by key for consistent ordering.
func All() []Definition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Definition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Info.Group != result[j].Info.Group {
			return result[i].Info.Group < result[j].Info.Group
		}
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// Keys returns all registered keys, sorted.
func Keys() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Count returns the number of registered schemas.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered schemas.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Definition)
}

// Template returns a header-only table for the schema, ready to be filled in.
func Template(def Definition) table.Table {
	return table.Table{append(table.Row(nil), def.Info.Columns...)}
}
