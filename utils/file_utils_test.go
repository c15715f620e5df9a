package utils

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("Images", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["Images"][0]
}

func TestSaveAdvertisementImage(t *testing.T) {
	store := &ImageStore{BaseDir: t.TempDir()}
	file := multipartFileHeader(t, "../../etc/Passwd Photo.JPG", []byte("fake image bytes"))

	publicPath, err := store.SaveAdvertisementImage("ad123", file)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(publicPath, "/uploads/advertisements/ad123/"))
	assert.True(t, strings.HasSuffix(publicPath, ".jpg"))

	// The client-supplied name must not leak into storage
	assert.NotContains(t, publicPath, "Passwd")
	assert.NotContains(t, publicPath, "..")

	storedName := filepath.Base(publicPath)
	data, err := os.ReadFile(filepath.Join(store.BaseDir, "advertisements", "ad123", storedName))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake image bytes"), data)
}

func TestSaveAdvertisementImage_UniqueNames(t *testing.T) {
	store := &ImageStore{BaseDir: t.TempDir()}

	first, err := store.SaveAdvertisementImage("ad123", multipartFileHeader(t, "photo.jpg", []byte("one")))
	require.NoError(t, err)
	second, err := store.SaveAdvertisementImage("ad123", multipartFileHeader(t, "photo.jpg", []byte("two")))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestRemoveAdvertisementFiles(t *testing.T) {
	store := &ImageStore{BaseDir: t.TempDir()}

	_, err := store.SaveAdvertisementImage("ad123", multipartFileHeader(t, "photo.jpg", []byte("one")))
	require.NoError(t, err)
	_, err = store.SaveAdvertisementImage("ad123", multipartFileHeader(t, "other.png", []byte("two")))
	require.NoError(t, err)

	require.NoError(t, store.RemoveAdvertisementFiles("ad123"))

	_, err = os.Stat(filepath.Join(store.BaseDir, "advertisements", "ad123"))
	assert.True(t, os.IsNotExist(err))

	// Removing an advertisement that never had files is not an error
	assert.NoError(t, store.RemoveAdvertisementFiles("missing"))
}
