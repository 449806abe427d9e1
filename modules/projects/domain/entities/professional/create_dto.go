package professional

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/estatedesk/admin/pkg/constants"
	"github.com/estatedesk/admin/pkg/intl"
	"github.com/estatedesk/admin/pkg/serrors"
)

type CreateDTO struct {
	Role          RoleType `validate:"required,oneof=engineer architect accountant"`
	Name          string   `validate:"required,max=255"`
	ContactNumber string   `validate:"max=64"`
	Email         string   `validate:"omitempty,email,max=255"`
	Address       string
	LicenceNumber string               `validate:"max=128"`
	TaxID         string               `validate:"max=64"`
	Files         map[Slot]PendingFile `validate:"-"`
	Documents     map[Slot]string      `validate:"-"`
}

// NewCreateDTO takes a snapshot of a draft. Pending files are copied by
// reference; remote attachments keep their URL.
func NewCreateDTO(role RoleType, d Draft) *CreateDTO {
	dto := &CreateDTO{
		Role:          role,
		Name:          d.Name,
		ContactNumber: d.ContactNumber,
		Email:         d.Email,
		Address:       d.Address,
		LicenceNumber: d.LicenceNumber,
		TaxID:         d.TaxID,
		Files:         d.PendingFiles(),
		Documents:     make(map[Slot]string),
	}
	for _, slot := range Slots {
		if url, ok := d.Attachment(slot).URL(); ok {
			dto.Documents[slot] = url
		}
	}
	return dto
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.ContactNumber = strings.TrimSpace(d.ContactNumber)
	d.Email = strings.TrimSpace(d.Email)
	d.Address = strings.TrimSpace(d.Address)
	d.LicenceNumber = strings.TrimSpace(d.LicenceNumber)
	d.TaxID = strings.TrimSpace(d.TaxID)
}

// Validate returns the coded validation failures keyed by struct field.
func (d *CreateDTO) Validate() serrors.ValidationErrors {
	d.Normalize()
	err := constants.Validate.Struct(d)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return serrors.ValidationErrors{
			"Role": serrors.NewError("VALIDATION_invalid", err.Error(), "ValidationErrors.invalid"),
		}
	}
	return serrors.ProcessValidatorErrors(verrs, fieldLocaleKey)
}

func (d *CreateDTO) Ok(ctx context.Context) (map[string]string, bool) {
	errs := d.Validate()
	if len(errs) == 0 {
		return map[string]string{}, true
	}
	l, _ := intl.UseLocalizer(ctx)
	return serrors.LocalizeValidationErrors(errs, l), false
}

func (d *CreateDTO) ToEntity() Professional {
	opts := []Option{
		WithContact(d.ContactNumber, d.Email, d.Address),
		WithRegistration(d.LicenceNumber, d.TaxID),
	}
	for slot, url := range d.Documents {
		opts = append(opts, WithDocument(slot, url))
	}
	return New(d.Role, d.Name, opts...)
}

func fieldLocaleKey(field string) string {
	switch field {
	case "Name":
		return FieldName.LocaleKey()
	case "ContactNumber":
		return FieldContactNumber.LocaleKey()
	case "Email":
		return FieldEmail.LocaleKey()
	case "LicenceNumber":
		return FieldLicenceNumber.LocaleKey()
	case "TaxID":
		return FieldTaxID.LocaleKey()
	default:
		return ""
	}
}
