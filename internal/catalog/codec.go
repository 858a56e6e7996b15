// internal/catalog/codec.go
package catalog

import (
	"net/url"
	"strings"
)

// Encode serializes s as a query string. Non-empty strings emit their
// escaped value; toggles are written only when they differ from the
// default, as key=true or key=false.
func (m *Model) Encode(s FilterState) string {
	var parts []string
	add := func(key, value string) {
		parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(value))
	}

	if s.Search != "" {
		add(KeySearch, s.Search)
	}
	if s.Empresa != "" {
		add(KeyEmpresa, s.Empresa)
	}
	if m.profile.Categories && s.Categoria != "" {
		add(KeyCategoria, s.Categoria)
	}
	for _, key := range filterKeys {
		on := s.Toggles[key]
		if on == m.defaults.Toggles[key] {
			continue
		}
		if on {
			add(key, "true")
		} else {
			add(key, "false")
		}
	}
	return strings.Join(parts, "&")
}

// Decode builds a state from a query string, starting from the default.
// Toggles are on only for the literal value "true"; string fields take the
// first value given; unknown keys and malformed pairs are ignored. The
// result is normalized, so hand-edited inconsistent combinations are
// repaired rather than rejected.
func (m *Model) Decode(query string) FilterState {
	s := m.Default()

	// ParseQuery keeps every well-formed pair even when it reports an error.
	values, _ := url.ParseQuery(strings.TrimPrefix(query, "?"))
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		v := vals[0]
		switch {
		case key == KeySearch:
			s.Search = v
		case key == KeyEmpresa:
			s.Empresa = v
		case key == KeyCategoria:
			if m.profile.Categories {
				s.Categoria = v
			}
		case IsFilterKey(key):
			s.Toggles[key] = v == "true"
		}
	}
	return m.Normalize(s)
}

// DecodeValues is Decode for an already parsed query.
func (m *Model) DecodeValues(values url.Values) FilterState {
	return m.Decode(values.Encode())
}
