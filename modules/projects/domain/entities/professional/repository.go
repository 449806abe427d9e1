package professional

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	Role   RoleType
	Q      string
	Limit  int
	Offset int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Professional, error)
	ListByRole(ctx context.Context, role RoleType) ([]Professional, error)
	GetByID(ctx context.Context, id uuid.UUID) (Professional, error)
	Create(ctx context.Context, p Professional) (Professional, error)
}

// Storage persists uploaded documents and returns the URL they are served from.
type Storage interface {
	Save(ctx context.Context, file PendingFile) (string, error)
	// Delete removes a document saved earlier. Unknown URLs are a no-op.
	Delete(ctx context.Context, url string) error
}
