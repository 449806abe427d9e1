package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
)

// ProfessionalLister is the catalog source the option loader reads from.
type ProfessionalLister interface {
	ListByRole(ctx context.Context, role professional.RoleType) ([]professional.Professional, error)
}

// Catalogs holds the select options of every role.
type Catalogs map[professional.RoleType][]professional.RoleOption

type CatalogService struct {
	lister  ProfessionalLister
	timeout time.Duration
}

func NewCatalogService(lister ProfessionalLister, timeout time.Duration) *CatalogService {
	return &CatalogService{lister: lister, timeout: timeout}
}

func (s *CatalogService) FetchRole(ctx context.Context, role professional.RoleType) ([]professional.RoleOption, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", professional.ErrUnknownRole, role)
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	items, err := s.lister.ListByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("list %s professionals: %w", role, err)
	}
	return professional.ToOptions(role, items), nil
}

// FetchOptions loads every role concurrently. Any failure fails the whole
// call and no partial result is returned.
func (s *CatalogService) FetchOptions(ctx context.Context) (Catalogs, error) {
	results := make([][]professional.RoleOption, len(professional.RoleTypes))
	g, gctx := errgroup.WithContext(ctx)
	for i, role := range professional.RoleTypes {
		g.Go(func() error {
			opts, err := s.FetchRole(gctx, role)
			if err != nil {
				return err
			}
			results[i] = opts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make(Catalogs, len(results))
	for i, role := range professional.RoleTypes {
		out[role] = results[i]
	}
	return out, nil
}
