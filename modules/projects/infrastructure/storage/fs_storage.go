package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
)

// FSStorage writes documents under root and serves them from urlPrefix.
type FSStorage struct {
	root      string
	urlPrefix string
}

func NewFSStorage(root, urlPrefix string) *FSStorage {
	return &FSStorage{
		root:      root,
		urlPrefix: path.Join("/", urlPrefix),
	}
}

func (s *FSStorage) Save(ctx context.Context, file professional.PendingFile) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := uuid.NewString() + extension(file)
	if err := os.WriteFile(filepath.Join(s.root, name), file.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", file.Name, err)
	}
	return path.Join(s.urlPrefix, name), nil
}

// Delete removes the document behind url. URLs outside the prefix are refused.
func (s *FSStorage) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, ok := strings.CutPrefix(url, s.urlPrefix+"/")
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%q is not a stored document", url)
	}
	if err := os.Remove(filepath.Join(s.root, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

func (s *FSStorage) URLPrefix() string {
	return s.urlPrefix
}

// Handler serves stored documents; mount it under URLPrefix.
func (s *FSStorage) Handler() http.Handler {
	return http.StripPrefix(s.urlPrefix+"/", http.FileServer(http.Dir(s.root)))
}

func extension(file professional.PendingFile) string {
	if m := mimetype.Lookup(file.MimeType); m != nil {
		return m.Extension()
	}
	if ext := filepath.Ext(file.Name); ext != "" {
		return ext
	}
	return mimetype.Detect(file.Data).Extension()
}
