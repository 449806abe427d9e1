package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/estatedesk/admin/modules/projects/domain/aggregates/project"
	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
	"github.com/estatedesk/admin/pkg/composables"
)

// txStub lets composables.InTx reuse the "current" transaction without a pool.
type txStub struct{ pgx.Tx }

func withTx(ctx context.Context) context.Context {
	return composables.WithTx(ctx, txStub{})
}

type professionalRepoStub struct {
	mu         sync.Mutex
	items      []professional.Professional
	listErr    error
	created    []professional.Professional
	dupes      map[string]bool
	lastParams professional.FindParams
}

func (r *professionalRepoStub) GetPaginated(_ context.Context, params *professional.FindParams) ([]professional.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastParams = *params
	out := make([]professional.Professional, 0)
	for _, p := range r.items {
		if params.Role != "" && p.Role() != params.Role {
			continue
		}
		if !strings.Contains(p.Name(), params.Q) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *professionalRepoStub) ListByRole(_ context.Context, role professional.RoleType) ([]professional.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]professional.Professional, 0)
	for _, p := range r.items {
		if p.Role() == role {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *professionalRepoStub) GetByID(_ context.Context, id uuid.UUID) (professional.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.ID() == id {
			return p, nil
		}
	}
	return professional.Professional{}, professional.ErrNotFound
}

func (r *professionalRepoStub) Create(_ context.Context, p professional.Professional) (professional.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dupes[p.LicenceNumber()] {
		return professional.Professional{}, professional.ErrDuplicate
	}
	opts := []professional.Option{
		professional.WithID(uuid.New()),
		professional.WithContact(p.ContactNumber(), p.Email(), p.Address()),
		professional.WithRegistration(p.LicenceNumber(), p.TaxID()),
	}
	for _, slot := range professional.Slots {
		opts = append(opts, professional.WithDocument(slot, p.Document(slot)))
	}
	created := professional.New(p.Role(), p.Name(), opts...)
	r.items = append(r.items, created)
	r.created = append(r.created, created)
	return created, nil
}

type storageStub struct {
	saved   []professional.PendingFile
	deleted []string
	err     error
}

func (s *storageStub) Save(_ context.Context, f professional.PendingFile) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, f)
	return fmt.Sprintf("/uploads/%d-%s", len(s.saved), f.Name), nil
}

func (s *storageStub) Delete(_ context.Context, url string) error {
	s.deleted = append(s.deleted, url)
	return nil
}

type projectRepoStub struct {
	items map[uuid.UUID]project.Project
	order []uuid.UUID
}

func newProjectRepoStub(items ...project.Project) *projectRepoStub {
	r := &projectRepoStub{items: make(map[uuid.UUID]project.Project)}
	for _, p := range items {
		r.items[p.ID()] = p
		r.order = append(r.order, p.ID())
	}
	return r
}

func (r *projectRepoStub) GetAll(context.Context) ([]project.Project, error) {
	out := make([]project.Project, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *projectRepoStub) GetByID(_ context.Context, id uuid.UUID) (project.Project, error) {
	p, ok := r.items[id]
	if !ok {
		return project.Project{}, project.ErrNotFound
	}
	return p, nil
}

func (r *projectRepoStub) Save(_ context.Context, p project.Project) (project.Project, error) {
	if p.ID() == uuid.Nil {
		return project.Project{}, errors.New("stub only updates existing projects")
	}
	r.items[p.ID()] = p
	return p, nil
}
