package services

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aplv/catalogo-api/internal/config"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

// multipartFile builds a parsed multipart upload for content.
func multipartFile(t *testing.T, name string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	file, header, err := req.FormFile("image")
	require.NoError(t, err)
	return file, header
}

func TestUploadProductImageLocal(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{Server: config.ServerConfig{Host: "localhost", Port: "8080"}}
	svc := NewLocalStorageService(cfg, dir)

	file, header := multipartFile(t, "foto.png", pngHeader)
	res, err := svc.UploadProductImage(file, header, "bolo-de-cenoura")
	require.NoError(t, err)

	assert.Equal(t, "image/png", res.MimeType)
	assert.True(t, strings.HasPrefix(res.Key, "produtos/bolo-de-cenoura/"))
	assert.True(t, strings.HasSuffix(res.Key, ".png"))
	assert.Equal(t, "http://localhost:8080/uploads/"+res.Key, res.URL)

	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(res.Key)))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)

	require.NoError(t, svc.DeleteFile(res.Key))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(res.Key)))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, svc.DeleteFile(res.Key))
}

func TestUploadProductImageRejects(t *testing.T) {
	svc := NewLocalStorageService(&config.Config{}, t.TempDir())

	file, header := multipartFile(t, "nota.png", []byte("just some text pretending"))
	_, err := svc.UploadProductImage(file, header, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed")

	file, header = multipartFile(t, "foto.png", pngHeader)
	res, err := svc.UploadProductImage(file, header, "../../etc")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Key, "produtos/sem-slug/"))
}
