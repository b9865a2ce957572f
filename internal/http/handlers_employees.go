package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"benefits/internal/core"
	"benefits/internal/services"
)

// handleListEmployees serves the dashboard listing: resolved employee
// groups filtered by search text, plan category, and coverage type, split
// into active and inactive tabs.
func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	groups, err := s.resolvedGroups(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Identity resolution failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to resolve employees")
		return
	}

	q := r.URL.Query()
	groups = services.FilterResolved(groups,
		strings.TrimSpace(q.Get("q")), q["plan"], q["type"])
	active, inactive := services.SplitByStatus(groups)

	switch q.Get("tab") {
	case "":
		writeJSON(w, http.StatusOK, map[string]any{
			"active":   toEmployeeViews(active),
			"inactive": toEmployeeViews(inactive),
		})
	case "active":
		writeJSON(w, http.StatusOK, map[string]any{"employees": toEmployeeViews(active)})
	case "inactive":
		writeJSON(w, http.StatusOK, map[string]any{"employees": toEmployeeViews(inactive)})
	default:
		writeError(w, http.StatusBadRequest, "tab must be active or inactive")
	}
}

// handleLookupEmployee finds one employee group by approximate name and
// returns it with its full charge history.
func (s *Server) handleLookupEmployee(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name parameter is required")
		return
	}

	groups, err := s.resolvedGroups(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Identity resolution failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to resolve employees")
		return
	}

	coreGroups := make([]*core.EmployeeGroup, len(groups))
	for i := range groups {
		coreGroups[i] = groups[i].EmployeeGroup
	}

	match := core.FindGroupByName(coreGroups, name)
	if match == nil {
		writeError(w, http.StatusNotFound, "no employee matches that name")
		return
	}

	for _, g := range groups {
		if g.ID == match.ID {
			writeJSON(w, http.StatusOK, employeeDetailView{
				employeeView: toEmployeeView(g),
				Records:      toRecordViews(g.Records),
			})
			return
		}
	}
	writeError(w, http.StatusNotFound, "no employee matches that name")
}

type toggleRequest struct {
	Tab string `json:"tab"`
}

// handleToggleStatus flips an employee group's manual status override.
// The tab the group was displayed under decides the direction when no
// override exists yet.
func (s *Server) handleToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 0 {
		writeError(w, http.StatusBadRequest, "invalid group id")
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var tab services.Tab
	switch req.Tab {
	case "", "active":
		tab = services.TabActive
	case "inactive":
		tab = services.TabInactive
	default:
		writeError(w, http.StatusBadRequest, "tab must be active or inactive")
		return
	}

	if err := s.identities.ToggleStatus(r.Context(), id, tab); err != nil {
		slog.ErrorContext(r.Context(), "Status toggle failed", "group_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle status")
		return
	}

	s.invalidateGroups()
	w.WriteHeader(http.StatusNoContent)
}
