// Package overrides persists the manual status override map: group ID to
// forced active flag. Every mutation rewrites the full map, never a delta,
// so a load always observes a complete consistent snapshot.
package overrides

import "context"

// Store is the durable key-value port for the override map.
type Store interface {
	// Load reads the entire override map. Implementations return an error
	// for storage failures; callers are expected to fail open to an empty
	// map rather than abort.
	Load(ctx context.Context) (map[int]bool, error)

	// SaveAll overwrites the persisted map with the given one.
	SaveAll(ctx context.Context, m map[int]bool) error
}
