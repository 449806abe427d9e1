package controllers_test

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/estatedesk/admin/modules/projects/domain/aggregates/project"
	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
)

type txStub struct{ pgx.Tx }

type professionalRepo struct {
	mu    sync.Mutex
	items []professional.Professional
}

func (r *professionalRepo) GetPaginated(_ context.Context, params *professional.FindParams) ([]professional.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]professional.Professional, 0)
	for _, p := range r.items {
		if params.Role != "" && p.Role() != params.Role {
			continue
		}
		if !strings.Contains(strings.ToLower(p.Name()), strings.ToLower(params.Q)) {
			continue
		}
		out = append(out, p)
	}
	out = out[min(params.Offset, len(out)):]
	if params.Limit > 0 && len(out) > params.Limit {
		out = out[:params.Limit]
	}
	return out, nil
}

func (r *professionalRepo) ListByRole(_ context.Context, role professional.RoleType) ([]professional.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]professional.Professional, 0)
	for _, p := range r.items {
		if p.Role() == role {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *professionalRepo) GetByID(_ context.Context, id uuid.UUID) (professional.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if p.ID() == id {
			return p, nil
		}
	}
	return professional.Professional{}, professional.ErrNotFound
}

func (r *professionalRepo) Create(_ context.Context, p professional.Professional) (professional.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
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
	return created, nil
}

func (r *professionalRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

type storage struct {
	mu    sync.Mutex
	saved int
}

func (s *storage) Save(_ context.Context, f professional.PendingFile) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved++
	return fmt.Sprintf("/uploads/%d-%s", s.saved, f.Name), nil
}

func (s *storage) Delete(context.Context, string) error {
	return nil
}

type projectRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]project.Project
	order []uuid.UUID
}

func newProjectRepo(items ...project.Project) *projectRepo {
	r := &projectRepo{items: make(map[uuid.UUID]project.Project)}
	for _, p := range items {
		r.items[p.ID()] = p
		r.order = append(r.order, p.ID())
	}
	return r
}

func (r *projectRepo) GetAll(context.Context) ([]project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]project.Project, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *projectRepo) GetByID(_ context.Context, id uuid.UUID) (project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return project.Project{}, project.ErrNotFound
	}
	return p, nil
}

func (r *projectRepo) Save(_ context.Context, p project.Project) (project.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID() == uuid.Nil {
		opts := []project.Option{
			project.WithID(uuid.New()),
			project.WithLocation(p.Location()),
			project.WithStatus(p.Status()),
		}
		for _, role := range professional.RoleTypes {
			opts = append(opts, project.WithAssignment(role, p.Assigned(role)))
		}
		p = project.New(p.Name(), opts...)
	}
	if _, ok := r.items[p.ID()]; !ok {
		r.order = append(r.order, p.ID())
	}
	r.items[p.ID()] = p
	return p, nil
}
