package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/estatedesk/admin/modules/projects/domain/aggregates/project"
	"github.com/estatedesk/admin/pkg/composables"
	"github.com/estatedesk/admin/pkg/eventbus"
)

type ProjectService struct {
	repo      project.Repository
	publisher eventbus.EventBus
}

func NewProjectService(repo project.Repository, publisher eventbus.EventBus) *ProjectService {
	return &ProjectService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (project.Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProjectService) GetAll(ctx context.Context) ([]project.Project, error) {
	return s.repo.GetAll(ctx)
}

// Update validates dto and saves it over the stored project. A nil id creates
// a new project.
func (s *ProjectService) Update(ctx context.Context, dto *project.UpdateDTO) (project.Project, error) {
	if dto == nil {
		return project.Project{}, errors.New("missing dto")
	}
	if errs := dto.Validate(); len(errs) > 0 {
		return project.Project{}, errs
	}

	var before, saved project.Project
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		before = project.New("")
		if dto.ID != uuid.Nil {
			existing, err := s.repo.GetByID(txCtx, dto.ID)
			if err != nil {
				return err
			}
			before = existing
		}
		next, err := dto.Apply(before)
		if err != nil {
			return err
		}
		saved, err = s.repo.Save(txCtx, next)
		return err
	})
	if err != nil {
		return project.Project{}, err
	}
	s.publisher.Publish(project.NewUpdatedEvent(before, saved))
	return saved, nil
}
