package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"benefits/internal/core"
	"benefits/internal/overrides"
)

// Tab identifies which dashboard tab a group is currently displayed
// under. Toggling a group with no existing override moves it to the
// opposite tab.
type Tab int

const (
	TabActive   Tab = 0
	TabInactive Tab = 1
)

// RecordSource is the bulk read that feeds the resolution pipeline.
type RecordSource interface {
	ListChargeRecords(ctx context.Context) ([]core.ChargeRecord, error)
}

// ResolvedGroup is an employee group plus its status derivation.
type ResolvedGroup struct {
	*core.EmployeeGroup
	Terminated bool
	Active     bool
}

// Resolver runs the identity resolution pipeline and owns the status
// override map. The pipeline itself is pure; the only mutable state is
// the override map, whose read-modify-write-persist cycle is serialized
// by a mutex so concurrent toggles never lose updates.
type Resolver struct {
	records RecordSource
	store   overrides.Store

	mu sync.Mutex // guards the override read-modify-write cycle
}

func NewResolver(records RecordSource, store overrides.Store) *Resolver {
	return &Resolver{records: records, store: store}
}

// ResolveIdentities runs the full pipeline over the current snapshot of
// charge records: parse names, fuzzy-group, aggregate categories and
// latest periods, then derive each group's effective status. Safe to
// rerun on every refresh.
func (r *Resolver) ResolveIdentities(ctx context.Context) ([]ResolvedGroup, error) {
	records, err := r.records.ListChargeRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list charge records: %w", err)
	}

	groups := core.Aggregate(core.GroupRecords(records))
	overrideMap := r.loadOverrides(ctx)

	resolved := make([]ResolvedGroup, len(groups))
	for i, g := range groups {
		terminated := core.IsTerminated(g)
		resolved[i] = ResolvedGroup{
			EmployeeGroup: g,
			Terminated:    terminated,
			Active:        core.EffectiveActive(g.ID, overrideMap, terminated),
		}
	}

	slog.InfoContext(ctx, "Identities resolved",
		"records", len(records),
		"groups", len(groups),
		"overrides", len(overrideMap))

	return resolved, nil
}

// ToggleStatus flips a group's manual status override. With no existing
// override the new value is the opposite of the tab the group is shown
// under: a group toggled on the active tab becomes inactive, and vice
// versa. The whole map is persisted on every toggle.
func (r *Resolver) ToggleStatus(ctx context.Context, groupID int, currentTab Tab) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.loadOverrides(ctx)
	if v, ok := m[groupID]; ok {
		m[groupID] = !v
	} else {
		m[groupID] = currentTab == TabInactive
	}

	if err := r.store.SaveAll(ctx, m); err != nil {
		return fmt.Errorf("persist status overrides: %w", err)
	}

	slog.InfoContext(ctx, "Status override toggled",
		"group_id", groupID,
		"active", m[groupID])

	return nil
}

// FilterResolved applies the search and filter predicates over resolved
// groups, preserving order.
func FilterResolved(groups []ResolvedGroup, query string, planFilters, typeFilters []string) []ResolvedGroup {
	if query == "" && len(planFilters) == 0 && len(typeFilters) == 0 {
		return groups
	}
	out := make([]ResolvedGroup, 0, len(groups))
	for _, g := range groups {
		if core.Matches(g.EmployeeGroup, query, planFilters, typeFilters) {
			out = append(out, g)
		}
	}
	return out
}

// SplitByStatus partitions resolved groups into active and inactive.
func SplitByStatus(groups []ResolvedGroup) (active, inactive []ResolvedGroup) {
	for _, g := range groups {
		if g.Active {
			active = append(active, g)
		} else {
			inactive = append(inactive, g)
		}
	}
	return active, inactive
}

// loadOverrides reads the persisted map, failing open to an empty map on
// storage errors: a corrupt or unavailable override store must never take
// the dashboard down, it just reverts groups to their automatic status.
func (r *Resolver) loadOverrides(ctx context.Context) map[int]bool {
	m, err := r.store.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load status overrides, using automatic status",
			"error", err)
		return map[int]bool{}
	}
	if m == nil {
		return map[int]bool{}
	}
	return m
}
