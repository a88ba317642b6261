// Package seeders fills a fresh database with sample data. Seeders register
// from init() and run in name order with "stockpile seed".
package seeders

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"gorm.io/gorm"
)

// Func seeds one kind of data.
type Func func(ctx context.Context, db *gorm.DB) error

var (
	mu      sync.Mutex
	entries = map[string]Func{}
)

// Register adds a seeder. Registering the same name twice panics.
func Register(name string, fn Func) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := entries[name]; dup {
		panic(fmt.Sprintf("seeders: %q registered twice", name))
	}
	entries[name] = fn
}

// RunAll executes every seeder and stops on the first error.
func RunAll(ctx context.Context, db *gorm.DB, out io.Writer) error {
	mu.Lock()
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	current := entries
	mu.Unlock()
	sort.Strings(names)

	if len(names) == 0 {
		fmt.Fprintln(out, "  (no seeders registered)")
		return nil
	}
	for _, name := range names {
		fmt.Fprintf(out, "  • Running seeder: %s … ", name)
		if err := current[name](ctx, db); err != nil {
			fmt.Fprintln(out, "FAILED")
			return fmt.Errorf("seeder %q: %w", name, err)
		}
		fmt.Fprintln(out, "done")
	}
	return nil
}
