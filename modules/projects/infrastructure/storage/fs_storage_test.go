package storage_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
	"github.com/estatedesk/admin/modules/projects/infrastructure/storage"
)

func TestFSStorage_SaveAndServe(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "uploads")
	s := storage.NewFSStorage(root, "uploads")
	require.Equal(t, "/uploads", s.URLPrefix())

	content := []byte("%PDF-1.4\nlicence")
	url, err := s.Save(context.Background(), professional.PendingFile{
		Name:     "licence.pdf",
		MimeType: "application/pdf",
		Data:     content,
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/uploads/"))
	require.True(t, strings.HasSuffix(url, ".pdf"))

	onDisk, err := os.ReadFile(filepath.Join(root, strings.TrimPrefix(url, "/uploads/")))
	require.NoError(t, err)
	require.Equal(t, content, onDisk)

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL + url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, content, body)
}

func TestFSStorage_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := storage.NewFSStorage(t.TempDir(), "/uploads").Save(ctx, professional.PendingFile{Name: "a.png"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestFSStorage_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	root := t.TempDir()
	s := storage.NewFSStorage(root, "/uploads")
	url, err := s.Save(ctx, professional.PendingFile{Name: "pan.png", MimeType: "image/png", Data: []byte("png")})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, url))
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Empty(t, entries)

	require.NoError(t, s.Delete(ctx, url))
	require.Error(t, s.Delete(ctx, "/elsewhere/pan.png"))
	require.Error(t, s.Delete(ctx, "/uploads/../secret"))
}
