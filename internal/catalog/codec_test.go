package catalog

import (
	"math/rand"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeOmitsDefaults(t *testing.T) {
	m := MustModel(DefaultProfile())
	s, err := m.Apply(m.Default(), KeySearch, "bolo")
	require.NoError(t, err)
	s, err = m.Apply(s, KeyEmpresa, "")
	require.NoError(t, err)
	s, err = m.Apply(s, "sem_ovos", true)
	require.NoError(t, err)

	q := m.Encode(s)
	assert.Equal(t, "search=bolo&sem_ovos=true", q)

	values, err := url.ParseQuery(q)
	require.NoError(t, err)
	assert.NotContains(t, values, KeyEmpresa)
	assert.Empty(t, m.Encode(m.Default()))
}

func TestEncodeEscapes(t *testing.T) {
	m := MustModel(DefaultProfile())
	s, err := m.Apply(m.Default(), KeyEmpresa, "Vegana & Cia")
	require.NoError(t, err)
	s, err = m.Apply(s, KeySearch, "pão de mel")
	require.NoError(t, err)

	assert.Equal(t, "search=p%C3%A3o+de+mel&empresa=Vegana+%26+Cia", m.Encode(s))
}

func TestDecode(t *testing.T) {
	m := MustModel(DefaultProfile())

	tests := []struct {
		name  string
		query string
		check func(t *testing.T, s FilterState)
	}{
		{
			name:  "booleans need literal true",
			query: "sem_ovos=true&sem_gluten=TRUE&sem_soja=1&sem_carne=",
			check: func(t *testing.T, s FilterState) {
				assert.Equal(t, []string{"sem_ovos"}, s.ActiveToggles())
			},
		},
		{
			name:  "strings are percent decoded",
			query: "?search=p%C3%A3o+de+mel&empresa=Vegana%20%26%20Cia&categoria=Doces",
			check: func(t *testing.T, s FilterState) {
				assert.Equal(t, "pão de mel", s.Search)
				assert.Equal(t, "Vegana & Cia", s.Empresa)
				assert.Equal(t, "Doces", s.Categoria)
			},
		},
		{
			name:  "unknown keys ignored",
			query: "page=2&sem_tudo=true&search=bolo",
			check: func(t *testing.T, s FilterState) {
				assert.Equal(t, "bolo", s.Search)
				assert.Empty(t, s.ActiveToggles())
			},
		},
		{
			name:  "inconsistent combination repaired",
			query: "sem_tracos_leite=true&sem_leite=false",
			check: func(t *testing.T, s FilterState) {
				assert.True(t, s.Enabled("sem_leite"))
				assert.True(t, s.Enabled("sem_tracos_leite"))
			},
		},
		{
			name:  "malformed pairs degrade",
			query: "search=%zz&sem_ovos=true&empresa=Doce+Vida",
			check: func(t *testing.T, s FilterState) {
				assert.Empty(t, s.Search)
				assert.True(t, s.Enabled("sem_ovos"))
				assert.Equal(t, "Doce Vida", s.Empresa)
			},
		},
		{
			name:  "first value wins",
			query: "search=a&search=b",
			check: func(t *testing.T, s FilterState) {
				assert.Equal(t, "a", s.Search)
			},
		},
		{
			name:  "empty query is default",
			query: "",
			check: func(t *testing.T, s FilterState) {
				assert.Equal(t, m.Default(), s)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, m.Decode(tt.query))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	profiles := []Profile{
		DefaultProfile(),
		{Gate: GateNone, Categories: true, DefaultExclusions: []string{"sem_leite"}},
		{Gate: GateNarrow, Categories: true, DefaultExclusions: []string{"sem_tracos_leite", "sem_gluten"}},
	}
	r := rand.New(rand.NewSource(11))

	for _, p := range profiles {
		m := MustModel(p)
		for i := 0; i < 300; i++ {
			s := randomWalk(m, r, r.Intn(25))
			got := m.Decode(m.Encode(s))
			assert.Equal(t, s, got, "query %q", m.Encode(s))
		}
	}
}

func TestDefaultOnToggleEncodesFalse(t *testing.T) {
	m := MustModel(Profile{DefaultExclusions: []string{"sem_leite"}})
	assert.Empty(t, m.Encode(m.Default()))

	s, err := m.Apply(m.Default(), "sem_leite", false)
	require.NoError(t, err)
	assert.Equal(t, "sem_leite=false", m.Encode(s))
	assert.False(t, m.Decode("sem_leite=false").Enabled("sem_leite"))
	assert.True(t, m.Decode("").Enabled("sem_leite"))
}
