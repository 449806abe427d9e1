package project

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetAll(ctx context.Context) ([]Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (Project, error)
	// Save inserts the project when its id is nil and updates it otherwise.
	Save(ctx context.Context, p Project) (Project, error)
}
