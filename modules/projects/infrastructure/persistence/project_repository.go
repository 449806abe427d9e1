package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/estatedesk/admin/modules/projects/domain/aggregates/project"
	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
	"github.com/estatedesk/admin/pkg/composables"
)

const (
	projectColumns = `id, name, location, rera_number, status, progress, budget::text,
		engineer_id, architect_id, accountant_id, created_at, updated_at`

	selectProjectsQuery = `SELECT ` + projectColumns + ` FROM projects`

	insertProjectQuery = `INSERT INTO projects (
		name, location, rera_number, status, progress, budget, engineer_id, architect_id, accountant_id
	) VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9)
	RETURNING ` + projectColumns

	updateProjectQuery = `UPDATE projects SET
		name = $2, location = $3, rera_number = $4, status = $5, progress = $6,
		budget = $7::numeric, engineer_id = $8, architect_id = $9, accountant_id = $10,
		updated_at = now()
	WHERE id = $1
	RETURNING ` + projectColumns
)

type ProjectRepository struct{}

func NewProjectRepository() project.Repository {
	return &ProjectRepository{}
}

func (r *ProjectRepository) GetAll(ctx context.Context) ([]project.Project, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, selectProjectsQuery+" ORDER BY name, id")
	if err != nil {
		return nil, errors.Wrap(err, "query projects")
	}
	defer rows.Close()

	out := make([]project.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (project.Project, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return project.Project{}, err
	}
	p, err := scanProject(tx.QueryRow(ctx, selectProjectsQuery+" WHERE id = $1", pgUUIDFromUUID(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.Project{}, project.ErrNotFound
		}
		return project.Project{}, err
	}
	return p, nil
}

func (r *ProjectRepository) Save(ctx context.Context, p project.Project) (project.Project, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return project.Project{}, err
	}
	args := []any{
		p.Name(),
		p.Location(),
		p.ReraNumber(),
		string(p.Status()),
		p.Progress(),
		p.Budget().String(),
		pgUUIDFromUUID(p.Assigned(professional.Engineer)),
		pgUUIDFromUUID(p.Assigned(professional.Architect)),
		pgUUIDFromUUID(p.Assigned(professional.Accountant)),
	}
	var row pgx.Row
	if p.ID() == uuid.Nil {
		row = tx.QueryRow(ctx, insertProjectQuery, args...)
	} else {
		row = tx.QueryRow(ctx, updateProjectQuery, append([]any{pgUUIDFromUUID(p.ID())}, args...)...)
	}
	saved, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.Project{}, project.ErrNotFound
		}
		return project.Project{}, errors.Wrap(err, "save project")
	}
	return saved, nil
}

func scanProject(row pgx.Row) (project.Project, error) {
	var (
		id, engineerID, architectID, accountantID pgtype.UUID
		name, location, rera, status, budget      string
		progress                                  int16
		createdAt, updatedAt                      pgtype.Timestamptz
	)
	if err := row.Scan(
		&id, &name, &location, &rera, &status, &progress, &budget,
		&engineerID, &architectID, &accountantID, &createdAt, &updatedAt,
	); err != nil {
		return project.Project{}, err
	}
	amount, err := decimal.NewFromString(budget)
	if err != nil {
		return project.Project{}, errors.Wrapf(err, "parse budget %q", budget)
	}
	return project.New(
		name,
		project.WithID(uuidFromPg(id)),
		project.WithLocation(location),
		project.WithReraNumber(rera),
		project.WithStatus(project.Status(status)),
		project.WithProgress(int(progress)),
		project.WithBudget(amount),
		project.WithAssignment(professional.Engineer, uuidFromPg(engineerID)),
		project.WithAssignment(professional.Architect, uuidFromPg(architectID)),
		project.WithAssignment(professional.Accountant, uuidFromPg(accountantID)),
		project.WithTimestamps(createdAt.Time, updatedAt.Time),
	), nil
}
