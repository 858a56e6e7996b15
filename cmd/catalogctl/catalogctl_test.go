package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aplv/catalogo-api/internal/catalog"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEncodeCommand(t *testing.T) {
	out, err := run(t, "encode", "sem_tracos_leite=true", "search=bolo de fubá")
	require.NoError(t, err)
	assert.Equal(t, "search=bolo+de+fub%C3%A1&sem_leite=true&sem_tracos_leite=true\n", out)

	out, err = run(t, "encode", "--from", "sem_leite=true&sem_tracos_leite=true", "sem_leite=false")
	require.NoError(t, err)
	assert.Equal(t, "\n", out)

	_, err = run(t, "encode", "--from", "", "sem_ovos=talvez")
	assert.ErrorIs(t, err, catalog.ErrInvalidValue)

	_, err = run(t, "encode", "sem_nozes=true")
	assert.ErrorIs(t, err, catalog.ErrUnknownFilter)
}

func TestQueryCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "produtos.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"slug": "pao-de-queijo", "nome": "Pão de Queijo", "alergicos": "leite", "atributos": {"leite_ou_derivados": true}},
		{"slug": "tapioca", "nome": "Tapioca", "ingredientes": "goma", "atributos": {"leite_ou_derivados": false}},
		{"slug": "misterio", "nome": "Mistério", "atributos": {}}
	]`), 0o644))

	out, err := run(t, "query", "--file", path, "sem_leite=true")
	require.NoError(t, err)
	assert.Contains(t, out, "tapioca\n")
	assert.NotContains(t, out, "pao-de-queijo")
	assert.Contains(t, out, "1 of 3 products")

	out, err = run(t, "query", "--file", path, "--gate", "none", "--explain", "sem_leite=true")
	require.NoError(t, err)
	assert.Contains(t, out, "reject base:sem_leite")
	assert.Contains(t, out, "1 of 3 products")
}

func TestParseFilterValue(t *testing.T) {
	v, err := parseFilterValue("sem_gluten", "1")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = parseFilterValue("empresa", "Doce Vida")
	require.NoError(t, err)
	assert.Equal(t, "Doce Vida", v)
}
