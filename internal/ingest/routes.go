package ingest

import "strings"

// Route is the runtime form of a tenant route: an uploader identity
// bound to a sink plus merge policy.
type Route struct {
	EntryID           string
	Email             string
	Imperial          bool
	Lang              string
	MergeMode         string
	NameMap           map[string]string
	RejectPoorName    bool
	RequireMappedName bool
	Sink              Sink
}

// RouteSpec is the external description of a route, as carried by
// configuration or the admin API. NameMapText is parsed on upsert.
type RouteSpec struct {
	EntryID           string `json:"entry_id"`
	Email             string `json:"email"`
	Imperial          bool   `json:"imperial"`
	Lang              string `json:"lang"`
	MergeMode         string `json:"merge_mode"`
	NameMapText       string `json:"name_map"`
	RejectPoorName    bool   `json:"reject_poor_name"`
	RequireMappedName bool   `json:"require_mapped_name"`

	Sink Sink `json:"-"`
}

// UpsertRoute creates or replaces the route for spec.EntryID and
// reactivates the endpoint. Invalid merge modes fall back to "none".
func (s *Service) UpsertRoute(spec RouteSpec) {
	email := strings.ToLower(strings.TrimSpace(spec.Email))

	mode := strings.ToLower(strings.TrimSpace(spec.MergeMode))
	switch mode {
	case MergeModeNone, MergeModeName, MergeModeVIN:
	default:
		mode = MergeModeNone
	}

	route := &Route{
		EntryID:           spec.EntryID,
		Email:             email,
		Imperial:          spec.Imperial,
		Lang:              pickLang(spec.Lang, s.defaultLang),
		MergeMode:         mode,
		NameMap:           ParseNameMapText(spec.NameMapText),
		RejectPoorName:    spec.RejectPoorName,
		RequireMappedName: spec.RequireMappedName,
		Sink:              spec.Sink,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.routes[spec.EntryID]; ok && prev.Email != "" {
		delete(s.emailToEntry, prev.Email)
	}
	s.routes[spec.EntryID] = route
	if email != "" {
		s.emailToEntry[email] = spec.EntryID
	}
	s.active = true
	s.specs[spec.EntryID] = spec
}

// RemoveRoute drops a route, its email index entry, and any sticky
// canonical-name associations it owns. Removing the last route
// deactivates the endpoint.
func (s *Service) RemoveRoute(entryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.routes[entryID]
	if ok && prev.Email != "" {
		delete(s.emailToEntry, prev.Email)
	}
	delete(s.routes, entryID)
	delete(s.specs, entryID)
	for canonical, owner := range s.canonicalToEntry {
		if owner == entryID {
			delete(s.canonicalToEntry, canonical)
		}
	}
	if len(s.routes) == 0 {
		s.active = false
	}
}

// ResolveEntryRoute returns the RouteSpec for a configured entry.
func (s *Service) ResolveEntryRoute(entryID string) (RouteSpec, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	spec, ok := s.specs[entryID]
	return spec, ok
}

// Routes lists all configured routes.
func (s *Service) Routes() []RouteSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RouteSpec, 0, len(s.specs))
	for _, spec := range s.specs {
		out = append(out, spec)
	}
	return out
}

// pickRoute selects the route for an uploader email. With no email and
// exactly one route configured, that route wins. With no routes at all,
// a configured legacy fallback (single-tenant mode) is synthesized.
// Caller holds s.mu.
func (s *Service) pickRoute(email string) *Route {
	key := strings.ToLower(strings.TrimSpace(email))
	if key != "" {
		if entryID, ok := s.emailToEntry[key]; ok {
			return s.routes[entryID]
		}
	}
	if key == "" && len(s.routes) == 1 {
		for _, r := range s.routes {
			return r
		}
	}
	if len(s.routes) == 0 && s.fallback != nil {
		return s.fallback
	}
	return nil
}

// rerouteByCanonical re-attributes a frame to the route owning its
// canonical name. The owning association is established on first
// resolution and is sticky until that route is removed.
// Caller holds s.mu.
func (s *Service) rerouteByCanonical(initial *Route, profileName string) *Route {
	if len(s.routes) == 0 {
		return initial
	}

	canonical := ""
	if initial != nil && initial.MergeMode == MergeModeName {
		canonical = lookupCanonical(initial.NameMap, profileName)
	}
	if canonical == "" && profileName != "" {
		for _, r := range s.routes {
			if r.MergeMode != MergeModeName {
				continue
			}
			if c := lookupCanonical(r.NameMap, profileName); c != "" {
				canonical = c
				break
			}
		}
	}
	if canonical == "" {
		return initial
	}

	ownerID, ok := s.canonicalToEntry[canonical]
	if !ok {
		if initial != nil {
			ownerID = initial.EntryID
		} else {
			for id := range s.routes {
				ownerID = id
				break
			}
		}
		if ownerID != "" {
			s.canonicalToEntry[canonical] = ownerID
		}
	}
	if owner, ok := s.routes[ownerID]; ok {
		return owner
	}
	return initial
}
