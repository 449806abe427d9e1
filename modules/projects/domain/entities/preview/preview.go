package preview

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
)

// Preview is the inline rendering of a pending attachment.
type Preview struct {
	DataURL  string `json:"data_url"`
	MimeType string `json:"mime_type"`
	Name     string `json:"name"`
}

// Key is the cache key of a slot preview, e.g. engineer_licence_uploaded_url.
func Key(role professional.RoleType, slot professional.Slot) string {
	return fmt.Sprintf("%s_%s", role, slot)
}

// RoleKeys lists the keys of every slot of role.
func RoleKeys(role professional.RoleType) []string {
	keys := make([]string, 0, len(professional.Slots))
	for _, slot := range professional.Slots {
		keys = append(keys, Key(role, slot))
	}
	return keys
}

// ForRole picks the previews of role out of a store listing, keyed by slot.
func ForRole(role professional.RoleType, all map[string]Preview) map[professional.Slot]Preview {
	out := make(map[professional.Slot]Preview)
	prefix := string(role) + "_"
	for k, v := range all {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		slot, err := professional.ParseSlot(strings.TrimPrefix(k, prefix))
		if err != nil {
			continue
		}
		out[slot] = v
	}
	return out
}

func New(f professional.PendingFile, mimeType string) Preview {
	return Preview{
		DataURL:  "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(f.Data),
		MimeType: mimeType,
		Name:     f.Name,
	}
}

// Store holds the previews of one form session. Everything in it can be
// rebuilt from the drafts, so implementations may drop entries at any time.
type Store interface {
	Put(ctx context.Context, key string, p Preview) error
	Get(ctx context.Context, key string) (Preview, bool, error)
	Delete(ctx context.Context, keys ...string) error
	All(ctx context.Context) (map[string]Preview, error)
}

type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Preview
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Preview)}
}

func (s *MemoryStore) Put(_ context.Context, key string, p Preview) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = p
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (Preview, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.items[key]
	return p, ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.items, k)
	}
	return nil
}

func (s *MemoryStore) All(_ context.Context) (map[string]Preview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Preview, len(s.items))
	for k, v := range s.items {
		out[k] = v
	}
	return out, nil
}

// Factory opens the store of one form session.
type Factory func(sessionID uuid.UUID) Store

func MemoryFactory() Factory {
	return func(uuid.UUID) Store { return NewMemoryStore() }
}
