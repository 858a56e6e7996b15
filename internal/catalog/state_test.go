package catalog

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyTracesForcesBase(t *testing.T) {
	m := MustModel(DefaultProfile())
	s := m.Default()
	require.False(t, s.Enabled("sem_tracos_leite"))
	require.False(t, s.Enabled("sem_leite"))

	next, err := m.Apply(s, "sem_tracos_leite", true)
	require.NoError(t, err)
	assert.True(t, next.Enabled("sem_tracos_leite"))
	assert.True(t, next.Enabled("sem_leite"))

	// input untouched
	assert.False(t, s.Enabled("sem_leite"))
}

func TestApplyBaseOffClearsTraces(t *testing.T) {
	m := MustModel(DefaultProfile())
	s, err := m.Apply(m.Default(), "sem_tracos_leite", true)
	require.NoError(t, err)
	require.True(t, s.Enabled("sem_leite"))

	next, err := m.Apply(s, "sem_leite", false)
	require.NoError(t, err)
	assert.False(t, next.Enabled("sem_leite"))
	assert.False(t, next.Enabled("sem_tracos_leite"))
}

func TestApplyStringsAndErrors(t *testing.T) {
	m := MustModel(DefaultProfile())
	s := m.Default()

	s, err := m.Apply(s, KeySearch, "bolo")
	require.NoError(t, err)
	s, err = m.Apply(s, KeyEmpresa, "Doce Vida")
	require.NoError(t, err)
	s, err = m.Apply(s, KeyCategoria, "Doces")
	require.NoError(t, err)
	assert.Equal(t, "bolo", s.Search)
	assert.Equal(t, "Doce Vida", s.Empresa)
	assert.Equal(t, "Doces", s.Categoria)

	_, err = m.Apply(s, "sem_nada", true)
	assert.ErrorIs(t, err, ErrUnknownFilter)

	_, err = m.Apply(s, "sem_ovos", "true")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = m.Apply(s, KeySearch, 3)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestCategoriesDisabled(t *testing.T) {
	m := MustModel(Profile{Gate: GateNone})

	_, err := m.Apply(m.Default(), KeyCategoria, "Doces")
	assert.ErrorIs(t, err, ErrUnknownFilter)
	assert.NotContains(t, m.Keys(), KeyCategoria)

	s := m.Decode("categoria=Doces&search=x")
	assert.Empty(t, s.Categoria)
	assert.Equal(t, "x", s.Search)
}

func TestResetIsIdempotent(t *testing.T) {
	m := MustModel(Profile{Gate: GateBroad, Categories: true, DefaultExclusions: []string{"sem_leite"}})
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		s := randomWalk(m, r, 20)
		reset, err := m.Apply(s, KeyReset, nil)
		require.NoError(t, err)
		assert.Equal(t, m.Default(), reset)

		again, err := m.Apply(reset, KeyReset, "ignored")
		require.NoError(t, err)
		assert.Equal(t, reset, again)
	}
}

func TestDefaultState(t *testing.T) {
	m := MustModel(DefaultProfile())
	d := m.Default()
	assert.Empty(t, d.Search)
	assert.Empty(t, d.Empresa)
	assert.Empty(t, d.Categoria)
	assert.Len(t, d.Toggles, len(FilterKeys()))
	assert.Empty(t, d.ActiveToggles())
	assert.False(t, d.HasActiveFilters())

	dairy := MustModel(Profile{DefaultExclusions: []string{"sem_tracos_leite"}})
	assert.Equal(t, []string{"sem_leite", "sem_tracos_leite"}, dairy.Default().ActiveToggles())
	assert.Equal(t, GateBroad, dairy.Profile().Gate)

	_, err := NewModel(Profile{DefaultExclusions: []string{"sem_tudo"}})
	assert.ErrorIs(t, err, ErrUnknownFilter)

	_, err = NewModel(Profile{Gate: "sometimes"})
	assert.Error(t, err)
}

func TestImplicationClosure(t *testing.T) {
	m := MustModel(DefaultProfile())
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		s := randomWalk(m, r, 1+r.Intn(30))
		for _, c := range Classes() {
			if c.HasTraces() && s.Enabled(c.TracesFilterKey) {
				assert.True(t, s.Enabled(c.BaseFilterKey), "%s on without %s", c.TracesFilterKey, c.BaseFilterKey)
			}
		}
	}
}

func TestNormalizeRepairs(t *testing.T) {
	m := MustModel(DefaultProfile())
	broken := FilterState{Toggles: map[string]bool{"sem_tracos_ovos": true}}

	fixed := m.Normalize(broken)
	assert.True(t, fixed.Enabled("sem_ovos"))
	assert.True(t, fixed.Enabled("sem_tracos_ovos"))
	assert.Len(t, fixed.Toggles, len(FilterKeys()))
	assert.Len(t, broken.Toggles, 1)
}

func TestEqualIgnoresMissingKeys(t *testing.T) {
	a := FilterState{Search: "x"}
	b := FilterState{Search: "x", Toggles: map[string]bool{"sem_ovos": false}}
	assert.True(t, a.Equal(b))

	b.Toggles["sem_ovos"] = true
	assert.False(t, a.Equal(b))
}
