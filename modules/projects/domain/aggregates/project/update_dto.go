package project

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
	"github.com/estatedesk/admin/pkg/constants"
	"github.com/estatedesk/admin/pkg/intl"
	"github.com/estatedesk/admin/pkg/serrors"
)

// UpdateDTO carries the project form as typed by the user.
type UpdateDTO struct {
	ID           uuid.UUID
	Name         string `validate:"required,max=255"`
	Location     string
	ReraNumber   string `validate:"max=64"`
	Status       string `validate:"omitempty,oneof=planned under_construction completed on_hold"`
	Progress     string `validate:"omitempty,number"`
	Budget       string `validate:"omitempty,numeric"`
	EngineerID   uuid.UUID
	ArchitectID  uuid.UUID
	AccountantID uuid.UUID
}

func (d *UpdateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Location = strings.TrimSpace(d.Location)
	d.ReraNumber = strings.TrimSpace(d.ReraNumber)
	d.Status = strings.TrimSpace(d.Status)
	d.Progress = strings.TrimSpace(d.Progress)
	d.Budget = strings.TrimSpace(d.Budget)
}

func (d *UpdateDTO) Validate() serrors.ValidationErrors {
	d.Normalize()
	out := serrors.ValidationErrors{}
	if err := constants.Validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			out["Name"] = serrors.NewError("VALIDATION_invalid", err.Error(), "ValidationErrors.invalid")
			return out
		}
		out = serrors.ProcessValidatorErrors(verrs, fieldLocaleKey)
	}
	if _, ok := out["Progress"]; !ok && d.Progress != "" {
		if n, err := strconv.Atoi(d.Progress); err != nil || n < 0 || n > 100 {
			out["Progress"] = serrors.NewError(
				"VALIDATION_percent",
				"Progress must be between 0 and 100",
				"ValidationErrors.percent",
			).WithTemplateData(map[string]any{"Field": fieldLocaleKey("Progress")})
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (d *UpdateDTO) Ok(ctx context.Context) (map[string]string, bool) {
	errs := d.Validate()
	if len(errs) == 0 {
		return map[string]string{}, true
	}
	l, _ := intl.UseLocalizer(ctx)
	return serrors.LocalizeValidationErrors(errs, l), false
}

// Apply builds the updated project on top of the stored one. Validate must
// have passed. An empty progress or budget clears it to zero.
func (d *UpdateDTO) Apply(base Project) (Project, error) {
	progress := 0
	if d.Progress != "" {
		n, err := strconv.Atoi(d.Progress)
		if err != nil {
			return Project{}, err
		}
		progress = n
	}
	budget := decimal.Zero
	if d.Budget != "" {
		b, err := decimal.NewFromString(d.Budget)
		if err != nil {
			return Project{}, err
		}
		budget = b
	}
	status := base.Status()
	if d.Status != "" {
		status = Status(d.Status)
	}
	return New(
		d.Name,
		WithID(base.ID()),
		WithLocation(d.Location),
		WithReraNumber(d.ReraNumber),
		WithStatus(status),
		WithProgress(progress),
		WithBudget(budget),
		WithAssignment(professional.Engineer, d.EngineerID),
		WithAssignment(professional.Architect, d.ArchitectID),
		WithAssignment(professional.Accountant, d.AccountantID),
		WithTimestamps(base.CreatedAt(), base.UpdatedAt()),
	), nil
}

func fieldLocaleKey(field string) string {
	switch field {
	case "Name", "Location", "Status", "Progress", "Budget":
		return "Projects.Fields." + strings.ToLower(field)
	case "ReraNumber":
		return "Projects.Fields.rera_number"
	default:
		return ""
	}
}
