package ingest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/obddrive/obd-core/internal/obd/units"
)

// Logger defines the logging interface used by the Service.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// runtimeLangMap lists the supported locales; anything else falls back
// to the default.
var runtimeLangMap = map[string]string{
	"en": "en",
	"fr": "fr",
}

func pickLang(lang, fallback string) string {
	l := strings.ToLower(strings.TrimSpace(lang))
	if mapped, ok := runtimeLangMap[l]; ok {
		return mapped
	}
	return fallback
}

// Options configures a Service.
type Options struct {
	SessionTTL      time.Duration
	MaxSessions     int
	DefaultLanguage string
	Active          bool
	Logger          Logger
}

// Service is the ingestion core: it decodes frames, resolves identity
// and routing, maintains the session cache, and publishes accepted
// sessions to the matched route's sink.
//
// All exported methods are safe for concurrent use.
type Service struct {
	mu sync.Mutex

	cache *sessionCache

	routes           map[string]*Route
	specs            map[string]RouteSpec
	emailToEntry     map[string]string
	canonicalToEntry map[string]string

	lastNameByEmail map[string]string
	lastNameByID    map[string]string

	fallback *Route

	active      bool
	defaultLang string
	lastSession *Session

	logger Logger
}

// NewService creates an ingestion service with the given limits. Routes
// are added afterwards via UpsertRoute.
func NewService(opts Options) *Service {
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 600 * time.Second
	}
	max := opts.MaxSessions
	if max <= 0 {
		max = 64
	}
	lang := pickLang(opts.DefaultLanguage, "en")
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	return &Service{
		cache:            newSessionCache(ttl, max),
		routes:           make(map[string]*Route),
		specs:            make(map[string]RouteSpec),
		emailToEntry:     make(map[string]string),
		canonicalToEntry: make(map[string]string),
		lastNameByEmail:  make(map[string]string),
		lastNameByID:     make(map[string]string),
		active:           opts.Active,
		defaultLang:      lang,
		logger:           logger,
	}
}

// SetActive toggles the upload endpoint. While inactive, Process
// returns ErrInactive without touching any state.
func (s *Service) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

// Active reports whether the upload endpoint is enabled.
func (s *Service) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// SetSessionLimits tunes the session cache at runtime. Non-positive
// values are ignored.
func (s *Service) SetSessionLimits(ttl time.Duration, maxSessions int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.setLimits(ttl, maxSessions)
}

// SetLegacyFallback installs a permissive single-tenant route used only
// when no routes are configured, for pre-multi-tenant deployments.
func (s *Service) SetLegacyFallback(email string, imperial bool, lang string, sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = &Route{
		EntryID:        "legacy",
		Email:          strings.ToLower(strings.TrimSpace(email)),
		Imperial:       imperial,
		Lang:           pickLang(lang, s.defaultLang),
		MergeMode:      MergeModeNone,
		NameMap:        map[string]string{},
		RejectPoorName: true,
		Sink:           sink,
	}
}

// LastSession returns the most recently accepted session, for
// diagnostics. Nil before the first accepted frame.
func (s *Service) LastSession() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSession
}

// SessionCount returns the current session cache size.
func (s *Service) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.len()
}

// Process handles one upload frame.
//
// It runs the per-request pipeline: eviction sweep, route resolution,
// canonical re-routing, field decode, identity resolution, unit
// normalization, cache upsert, and sink publish. Returns ResultIgnored
// for frames that are well-formed but filtered (no route, missing
// session id, identity policy rejection); ErrInactive while the
// endpoint is disabled. Sink failures are logged, never returned: the
// frame is already accepted and cached by the time the sink runs.
func (s *Service) Process(ctx context.Context, params map[string]string) (Result, error) {
	s.mu.Lock()

	if !s.active {
		s.mu.Unlock()
		return ResultIgnored, ErrInactive
	}

	s.cache.cleanup(time.Now().UTC())

	email := strings.TrimSpace(firstParam(params, "eml", "email"))
	profileName := extractProfileName(params)

	route := s.pickRoute(email)
	route = s.rerouteByCanonical(route, profileName)
	if route == nil {
		s.mu.Unlock()
		s.logger.Debug("no route matched", "email", email)
		return ResultIgnored, nil
	}

	lang := pickLang(firstParam(params, "lang", "language"), route.Lang)

	canonicalHint := ""
	if route.MergeMode == MergeModeName {
		canonicalHint = lookupCanonical(route.NameMap, profileName)
	}

	session := s.buildSession(params, lang, route, canonicalHint)
	if session == nil {
		s.mu.Unlock()
		s.logger.Debug("frame rejected by identity policy",
			"email", email, "profile_name", profileName, "entry_id", route.EntryID)
		return ResultIgnored, nil
	}

	s.cache.upsert(session)
	s.lastSession = session
	sink := route.Sink
	s.mu.Unlock()

	if sink != nil {
		if err := sink.UpdateFromSession(ctx, session); err != nil {
			s.logger.Error("sink update failed",
				"car_id", session.Profile.ID, "error", err)
		}
	}

	return ResultAccepted, nil
}

// buildSession decodes and resolves one frame into a Session, or nil
// when the frame is filtered. Caller holds s.mu.
func (s *Service) buildSession(params map[string]string, lang string, route *Route, canonicalHint string) *Session {
	email := strings.TrimSpace(firstParam(params, "eml", "email"))
	sessionID := strings.TrimSpace(params["session"])
	if sessionID == "" {
		return nil
	}

	vehicleID := strings.TrimSpace(params["id"])
	profileNameRaw := extractProfileName(params)
	appVersion := extractAppVersion(params)

	values, meta, unknown := decodeFields(params, lang)

	// Merge by VIN: the VIN verbatim becomes the canonical identity.
	canonical := strings.TrimSpace(canonicalHint)
	if route.MergeMode == MergeModeVIN {
		if vin := strings.TrimSpace(params["vin"]); vin != "" {
			canonical = vin
		}
	}

	// Poor-name fallback: substitute the most recently remembered
	// non-poor name for the same vehicle id, else the same email.
	profileName := profileNameRaw
	usedFallback := false
	if isPoorName(profileName) {
		remembered := ""
		if vehicleID != "" {
			remembered = s.lastNameByID[vehicleID]
		}
		if remembered == "" && email != "" {
			remembered = s.lastNameByEmail[email]
		}
		if remembered != "" && !isPoorName(remembered) {
			profileName = remembered
			usedFallback = true
		}
	}

	if route.RejectPoorName && isPoorName(profileName) && canonical == "" {
		return nil
	}
	if route.RequireMappedName && route.MergeMode == MergeModeName && canonical == "" {
		return nil
	}

	if profileName == "" && canonical == "" {
		profileName = "Vehicle " + firstN(sessionID, 6)
	}

	displayName := canonical
	if displayName == "" || isPoorName(displayName) {
		displayName = profileName
		if displayName == "" {
			displayName = "Vehicle " + firstN(sessionID, 6)
		}
	}

	effectiveName := ""
	if !isPoorName(displayName) {
		effectiveName = displayName
	}
	profileID := deriveProfileID(canonical, effectiveName, vehicleID, email, sessionID)

	unitPreference := units.PreferenceMetric
	if route.Imperial {
		unitPreference = units.PreferenceImperial
	}

	profile := Profile{Name: displayName, ID: profileID, Email: email, Version: appVersion}

	units.NormalizeTripDurations(values, meta)
	cleanNonFinite(values)
	units.ApplyUnitPreference(values, meta, unitPreference)

	session := &Session{
		ID:             sessionID,
		LastSeen:       time.Now().UTC(),
		Profile:        profile,
		Values:         values,
		Meta:           meta,
		Unknown:        unknown,
		Lang:           lang,
		UnitPreference: unitPreference,
	}

	// Remember only non-poor raw names, keyed independently by email
	// and vehicle id. A name recalled from the email memory is not
	// written back under that email.
	if !isPoorName(profileNameRaw) {
		if email != "" && !usedFallback {
			s.lastNameByEmail[email] = profileNameRaw
		}
		if vehicleID != "" {
			s.lastNameByID[vehicleID] = profileNameRaw
		}
	}

	return session
}
