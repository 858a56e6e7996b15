package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aplv/catalogo-api/internal/config"
	"github.com/aplv/catalogo-api/internal/models"
)

const exportJSON = `[
  {
    "slug": "bolo-de-cenoura",
    "nome": "Bolo de Cenoura",
    "empresa": {"nome": "Doce Vida"},
    "categoria": "Doces",
    "alergicos": "contém ovo",
    "origem": ["Brasil"],
    "atributos": {"contem_ovos": true, "leite_ou_derivados": false, "pode_conter_leite": null}
  },
  {"slug": "agua", "nome": "Água"}
]`

func TestDecodeCatalogJSON(t *testing.T) {
	src, err := DecodeCatalogJSON([]byte(exportJSON))
	require.NoError(t, err)
	require.Len(t, src.Products, 2)

	bolo := src.Products[0]
	assert.Equal(t, "Doce Vida", bolo.Brand())
	assert.Equal(t, models.Contains, bolo.Attr("contem_ovos"))
	assert.Equal(t, models.FreeOf, bolo.Attr("leite_ou_derivados"))
	assert.Equal(t, models.Unknown, bolo.Attr("pode_conter_leite"))
	assert.Equal(t, []string{"Brasil"}, []string(bolo.Origem))

	assert.NotNil(t, src.Products[1].Atributos)
	assert.True(t, src.Products[1].IsUnknown())

	obj := `{"products": [{"slug": "a", "nome": "A"}], "brands": ["X"], "categories": ["Y"]}`
	src, err = DecodeCatalogJSON([]byte(obj))
	require.NoError(t, err)
	assert.Len(t, src.Products, 1)
	assert.Equal(t, []string{"X"}, src.Brands)
	assert.Equal(t, []string{"Y"}, src.Categories)

	_, err = DecodeCatalogJSON([]byte("  "))
	assert.ErrorIs(t, err, ErrEmptyCatalogDocument)

	_, err = DecodeCatalogJSON([]byte(`[{"slug": 1}]`))
	assert.Error(t, err)
}

func TestFileCatalogProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "produtos.json")
	require.NoError(t, os.WriteFile(path, []byte(exportJSON), 0o644))

	src, err := NewFileCatalogProvider(path).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, src.Products, 2)

	_, err = NewFileCatalogProvider(filepath.Join(t.TempDir(), "missing.json")).Load(context.Background())
	assert.Error(t, err)
}

func TestHTTPCatalogProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/produtos":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(exportJSON))
		default:
			http.Error(w, "boom", http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	src, err := NewHTTPCatalogProvider(srv.URL+"/produtos", srv.Client()).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, src.Products, 2)

	_, err = NewHTTPCatalogProvider(srv.URL+"/quebrado", srv.Client()).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewHTTPCatalogProvider(srv.URL+"/produtos", nil).Load(ctx)
	assert.Error(t, err)
}

func TestNewCatalogProvider(t *testing.T) {
	p, err := NewCatalogProvider(config.CatalogConfig{Source: config.SourceFile, File: "x.json"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileCatalogProvider{}, p)

	p, err = NewCatalogProvider(config.CatalogConfig{Source: config.SourceHTTP, URL: "http://example.com"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &HTTPCatalogProvider{}, p)

	_, err = NewCatalogProvider(config.CatalogConfig{Source: config.SourceDatabase}, nil)
	assert.Error(t, err)

	_, err = NewCatalogProvider(config.CatalogConfig{Source: "ftp"}, nil)
	assert.Error(t, err)
}
