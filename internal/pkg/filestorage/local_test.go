package filestorage

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
)

// multipartHeader builds a real *multipart.FileHeader the way gin would receive it
func multipartHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestSaveAndDelete(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStorage(root, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	url, err := store.SaveFileWithPath(multipartHeader(t, "CV.PDF", []byte("%PDF-1.4")), ResumeFolder, ResumePolicy)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/resumes/"))
	assert.True(t, strings.HasSuffix(url, ".pdf"))

	path := store.GetFullPath(url)
	assert.Equal(t, filepath.Join(root, ResumeFolder), filepath.Dir(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))

	require.NoError(t, store.DeleteFile(url))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// second delete is a no-op
	assert.NoError(t, store.DeleteFile(url))
}

func TestPolicyRejectsUpload(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = store.SaveFileWithPath(multipartHeader(t, "script.exe", []byte("MZ")), ResumeFolder, ResumePolicy)
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	tiny := Policy{Extensions: []string{".png"}, MaxBytes: 2}
	_, err = store.SaveFileWithPath(multipartHeader(t, "a.png", []byte("too big")), ProfilePictureFolder, tiny)
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestGetFullPathRejectsForeignURLs(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "http://cdn/uploads")
	require.NoError(t, err)

	assert.Empty(t, store.GetFullPath("http://elsewhere/uploads/a.png"))
	assert.Empty(t, store.GetFullPath("http://cdn/uploads/../../etc/passwd"))
	assert.Empty(t, store.GetFullPath(""))

	url, err := store.SaveFileWithPath(nil, ResumeFolder, ResumePolicy)
	assert.NoError(t, err)
	assert.Empty(t, url)
}
