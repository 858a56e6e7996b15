// internal/catalog/state.go
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Field names shared by filter state, query strings and Apply.
const (
	KeySearch    = "search"
	KeyEmpresa   = "empresa"
	KeyCategoria = "categoria"
	// KeyReset is accepted by Apply and replaces the whole state with the default.
	KeyReset = "reset"
)

var (
	ErrUnknownFilter = errors.New("unknown filter key")
	ErrInvalidValue  = errors.New("invalid filter value")
)

// FilterState is the user's current selection. Toggles always carries
// every toggle key, so two states compare equal field by field. States are
// values: transitions return a new state and never modify their input.
type FilterState struct {
	Search    string          `json:"search"`
	Empresa   string          `json:"empresa"`
	Categoria string          `json:"categoria"`
	Toggles   map[string]bool `json:"toggles"`
}

// Enabled reports whether the toggle key is on.
func (s FilterState) Enabled(key string) bool {
	return s.Toggles[key]
}

// ActiveToggles returns the enabled toggle keys in class order.
func (s FilterState) ActiveToggles() []string {
	var out []string
	for _, key := range filterKeys {
		if s.Toggles[key] {
			out = append(out, key)
		}
	}
	return out
}

// HasActiveFilters reports whether anything narrows the catalog.
func (s FilterState) HasActiveFilters() bool {
	return s.Search != "" || s.Empresa != "" || s.Categoria != "" || len(s.ActiveToggles()) > 0
}

func (s FilterState) Equal(o FilterState) bool {
	if s.Search != o.Search || s.Empresa != o.Empresa || s.Categoria != o.Categoria {
		return false
	}
	for _, key := range filterKeys {
		if s.Toggles[key] != o.Toggles[key] {
			return false
		}
	}
	return true
}

// fingerprint is a canonical key for memoization. String fields are
// length-prefixed so no field value can spill into the next.
func (s FilterState) fingerprint() string {
	var b strings.Builder
	for _, field := range []string{s.Search, s.Empresa, s.Categoria} {
		b.WriteString(strconv.Itoa(len(field)))
		b.WriteByte(':')
		b.WriteString(field)
	}
	for _, key := range s.ActiveToggles() {
		b.WriteByte(',')
		b.WriteString(key)
	}
	return b.String()
}

func (s FilterState) clone() FilterState {
	out := s
	out.Toggles = make(map[string]bool, len(filterKeys))
	for _, key := range filterKeys {
		out.Toggles[key] = s.Toggles[key]
	}
	return out
}

// Profile fixes the policy choices of one deployment.
type Profile struct {
	// Gate decides when undeclared products are excluded.
	Gate GatePolicy
	// Categories enables the categoria filter.
	Categories bool
	// DefaultExclusions are toggles switched on in the default state.
	DefaultExclusions []string
}

func DefaultProfile() Profile {
	return Profile{Gate: GateBroad, Categories: true}
}

// Model applies a Profile: it owns the default state, the transitions, the
// URL codec and the evaluator configuration.
type Model struct {
	profile  Profile
	defaults FilterState
}

func NewModel(profile Profile) (*Model, error) {
	gate, err := ParseGatePolicy(string(profile.Gate))
	if err != nil {
		return nil, err
	}
	profile.Gate = gate

	m := &Model{profile: profile}
	defaults := FilterState{}.clone()
	for _, key := range profile.DefaultExclusions {
		if !IsFilterKey(key) {
			return nil, fmt.Errorf("%w: default exclusion %q", ErrUnknownFilter, key)
		}
		defaults.Toggles[key] = true
	}
	m.defaults = m.Normalize(defaults)
	return m, nil
}

// MustModel is NewModel for profiles known to be valid.
func MustModel(profile Profile) *Model {
	m, err := NewModel(profile)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *Model) Profile() Profile {
	p := m.profile
	p.DefaultExclusions = append([]string(nil), m.profile.DefaultExclusions...)
	return p
}

// Default returns a fresh copy of the default state.
func (m *Model) Default() FilterState {
	return m.defaults.clone()
}

// Evaluator returns the evaluator configured by the profile.
func (m *Model) Evaluator() Evaluator {
	return Evaluator{Gate: m.profile.Gate, Categories: m.profile.Categories}
}

// Apply sets key to value and overlays the implied toggle updates in one
// step. String fields take a string, toggles take a bool; KeyReset ignores
// value and returns the default state.
func (m *Model) Apply(s FilterState, key string, value any) (FilterState, error) {
	switch key {
	case KeyReset:
		return m.Default(), nil
	case KeySearch, KeyEmpresa, KeyCategoria:
		if key == KeyCategoria && !m.profile.Categories {
			return s, fmt.Errorf("%w: %q", ErrUnknownFilter, key)
		}
		str, ok := value.(string)
		if !ok {
			return s, fmt.Errorf("%w: %s expects a string, got %T", ErrInvalidValue, key, value)
		}
		next := s.clone()
		switch key {
		case KeySearch:
			next.Search = str
		case KeyEmpresa:
			next.Empresa = str
		default:
			next.Categoria = str
		}
		return m.Normalize(next), nil
	}

	if !IsFilterKey(key) {
		return s, fmt.Errorf("%w: %q", ErrUnknownFilter, key)
	}
	on, ok := value.(bool)
	if !ok {
		return s, fmt.Errorf("%w: %s expects a bool, got %T", ErrInvalidValue, key, value)
	}

	next := s.clone()
	next.Toggles[key] = on
	for implied, v := range ImpliedUpdates(key, on) {
		next.Toggles[implied] = v
	}
	return m.Normalize(next), nil
}

// Normalize repairs a state so that every enabled traces toggle has its
// base toggle enabled, and drops the category when the profile has none.
func (m *Model) Normalize(s FilterState) FilterState {
	out := s.clone()
	for traces, base := range tracesToBase {
		if out.Toggles[traces] {
			out.Toggles[base] = true
		}
	}
	if !m.profile.Categories {
		out.Categoria = ""
	}
	return out
}

// Keys lists every field name Apply accepts, sorted.
func (m *Model) Keys() []string {
	keys := []string{KeySearch, KeyEmpresa}
	if m.profile.Categories {
		keys = append(keys, KeyCategoria)
	}
	keys = append(keys, filterKeys...)
	sort.Strings(keys)
	return keys
}
