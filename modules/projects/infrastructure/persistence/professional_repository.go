package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
	"github.com/estatedesk/admin/pkg/composables"
)

const (
	professionalColumns = `id, role, name, contact_number, email, address, licence_number, tax_id,
		licence_uploaded_url, pan_uploaded_url, gst_uploaded_url, profile_uploaded_url, created_at, updated_at`

	selectProfessionalsQuery = `SELECT ` + professionalColumns + ` FROM professionals`

	insertProfessionalQuery = `INSERT INTO professionals (
		role, name, contact_number, email, address, licence_number, tax_id,
		licence_uploaded_url, pan_uploaded_url, gst_uploaded_url, profile_uploaded_url
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING ` + professionalColumns
)

type ProfessionalRepository struct{}

func NewProfessionalRepository() professional.Repository {
	return &ProfessionalRepository{}
}

func (r *ProfessionalRepository) GetPaginated(ctx context.Context, params *professional.FindParams) ([]professional.Professional, error) {
	if params == nil {
		params = &professional.FindParams{}
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	where := []string{"1 = 1"}
	args := []any{}
	if params.Role != "" {
		args = append(args, string(params.Role))
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	if q := strings.TrimSpace(params.Q); q != "" {
		args = append(args, "%"+q+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR licence_number ILIKE $%d)", len(args), len(args)))
	}
	args = append(args, limit, offset)
	query := fmt.Sprintf("%s WHERE %s ORDER BY name, id LIMIT $%d OFFSET $%d",
		selectProfessionalsQuery, strings.Join(where, " AND "), len(args)-1, len(args))
	return r.queryProfessionals(ctx, query, args...)
}

func (r *ProfessionalRepository) ListByRole(ctx context.Context, role professional.RoleType) ([]professional.Professional, error) {
	return r.queryProfessionals(ctx, selectProfessionalsQuery+" WHERE role = $1 ORDER BY name, id", string(role))
}

func (r *ProfessionalRepository) GetByID(ctx context.Context, id uuid.UUID) (professional.Professional, error) {
	items, err := r.queryProfessionals(ctx, selectProfessionalsQuery+" WHERE id = $1", pgUUIDFromUUID(id))
	if err != nil {
		return professional.Professional{}, err
	}
	if len(items) == 0 {
		return professional.Professional{}, professional.ErrNotFound
	}
	return items[0], nil
}

func (r *ProfessionalRepository) Create(ctx context.Context, p professional.Professional) (professional.Professional, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return professional.Professional{}, err
	}
	row := tx.QueryRow(ctx, insertProfessionalQuery,
		string(p.Role()),
		p.Name(),
		p.ContactNumber(),
		p.Email(),
		p.Address(),
		p.LicenceNumber(),
		p.TaxID(),
		p.Document(professional.SlotLicence),
		p.Document(professional.SlotPAN),
		p.Document(professional.SlotGST),
		p.Document(professional.SlotProfile),
	)
	created, err := scanProfessional(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return professional.Professional{}, professional.ErrDuplicate
		}
		return professional.Professional{}, errors.Wrap(err, "create professional")
	}
	return created, nil
}

func (r *ProfessionalRepository) queryProfessionals(ctx context.Context, query string, args ...any) ([]professional.Professional, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query professionals")
	}
	defer rows.Close()

	out := make([]professional.Professional, 0)
	for rows.Next() {
		p, err := scanProfessional(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProfessional(row pgx.Row) (professional.Professional, error) {
	var (
		id                                     pgtype.UUID
		role, name, contact, email, address    string
		licence, taxID                         string
		licenceURL, panURL, gstURL, profileURL string
		createdAt, updatedAt                   pgtype.Timestamptz
	)
	if err := row.Scan(
		&id, &role, &name, &contact, &email, &address, &licence, &taxID,
		&licenceURL, &panURL, &gstURL, &profileURL, &createdAt, &updatedAt,
	); err != nil {
		return professional.Professional{}, err
	}
	return professional.New(
		professional.RoleType(role),
		name,
		professional.WithID(uuidFromPg(id)),
		professional.WithContact(contact, email, address),
		professional.WithRegistration(licence, taxID),
		professional.WithDocument(professional.SlotLicence, licenceURL),
		professional.WithDocument(professional.SlotPAN, panURL),
		professional.WithDocument(professional.SlotGST, gstURL),
		professional.WithDocument(professional.SlotProfile, profileURL),
		professional.WithTimestamps(createdAt.Time, updatedAt.Time),
	), nil
}
