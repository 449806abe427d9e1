package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
	"github.com/estatedesk/admin/pkg/composables"
	"github.com/estatedesk/admin/pkg/eventbus"
)

type ProfessionalService struct {
	repo      professional.Repository
	storage   professional.Storage
	publisher eventbus.EventBus
}

func NewProfessionalService(
	repo professional.Repository,
	storage professional.Storage,
	publisher eventbus.EventBus,
) *ProfessionalService {
	return &ProfessionalService{
		repo:      repo,
		storage:   storage,
		publisher: publisher,
	}
}

func (s *ProfessionalService) GetByID(ctx context.Context, id uuid.UUID) (professional.Professional, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ProfessionalService) ListByRole(ctx context.Context, role professional.RoleType) ([]professional.Professional, error) {
	return s.repo.ListByRole(ctx, role)
}

const maxPageSize = 100

func (s *ProfessionalService) GetPaginated(ctx context.Context, params *professional.FindParams) ([]professional.Professional, error) {
	if params == nil {
		params = &professional.FindParams{}
	}
	params.Q = strings.TrimSpace(params.Q)
	params.Limit = min(params.Limit, maxPageSize)
	params.Offset = max(params.Offset, 0)
	return s.repo.GetPaginated(ctx, params)
}

// SearchOptions is GetPaginated mapped to select options of params.Role.
func (s *ProfessionalService) SearchOptions(ctx context.Context, params *professional.FindParams) ([]professional.RoleOption, error) {
	if _, err := professional.ParseRoleType(string(params.Role)); err != nil {
		return nil, err
	}
	items, err := s.GetPaginated(ctx, params)
	if err != nil {
		return nil, err
	}
	return professional.ToOptions(params.Role, items), nil
}

// Create uploads the pending documents of dto and persists the professional.
// Documents stored for a professional that could not be created are removed.
func (s *ProfessionalService) Create(ctx context.Context, dto *professional.CreateDTO) (professional.Professional, error) {
	if dto == nil {
		return professional.Professional{}, errors.New("missing dto")
	}
	if errs := dto.Validate(); len(errs) > 0 {
		return professional.Professional{}, errs
	}
	if dto.Documents == nil {
		dto.Documents = make(map[professional.Slot]string)
	}

	var stored []string
	created, err := composables.InTxResult(ctx, func(txCtx context.Context) (professional.Professional, error) {
		for _, slot := range professional.Slots {
			file, ok := dto.Files[slot]
			if !ok {
				continue
			}
			url, err := s.storage.Save(txCtx, file)
			if err != nil {
				return professional.Professional{}, fmt.Errorf("store %s: %w", slot, err)
			}
			stored = append(stored, url)
			dto.Documents[slot] = url
		}
		return s.repo.Create(txCtx, dto.ToEntity())
	})
	if err != nil {
		return professional.Professional{}, errors.Join(err, s.discard(ctx, stored))
	}
	s.publisher.Publish(professional.NewCreatedEvent(created))
	return created, nil
}

func (s *ProfessionalService) discard(ctx context.Context, urls []string) error {
	ctx = context.WithoutCancel(ctx)
	var errs []error
	for _, url := range urls {
		if err := s.storage.Delete(ctx, url); err != nil {
			errs = append(errs, fmt.Errorf("discard %s: %w", url, err))
		}
	}
	return errors.Join(errs...)
}

// SubmitDraft is the role submission capability of project forms. A duplicate
// licence number is a refusal, not a failure.
func (s *ProfessionalService) SubmitDraft(ctx context.Context, role professional.RoleType, draft professional.Draft) (bool, error) {
	_, err := s.Create(ctx, professional.NewCreateDTO(role, draft))
	if errors.Is(err, professional.ErrDuplicate) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
