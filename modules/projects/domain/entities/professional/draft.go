package professional

import (
	"fmt"
	"strings"
)

// Field names a scalar input of the add-new professional form.
type Field string

const (
	FieldName          Field = "name"
	FieldContactNumber Field = "contact_number"
	FieldEmail         Field = "email"
	FieldAddress       Field = "address"
	FieldLicenceNumber Field = "licence_number"
	FieldTaxID         Field = "tax_id"
)

var Fields = []Field{
	FieldName,
	FieldContactNumber,
	FieldEmail,
	FieldAddress,
	FieldLicenceNumber,
	FieldTaxID,
}

func ParseField(v string) (Field, error) {
	f := Field(strings.TrimSpace(v))
	for _, known := range Fields {
		if known == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, v)
}

func (f Field) LocaleKey() string {
	return "Professionals.Fields." + string(f)
}

// InputType is the HTML input type used to edit the field.
func (f Field) InputType() string {
	switch f {
	case FieldEmail:
		return "email"
	case FieldContactNumber:
		return "tel"
	default:
		return "text"
	}
}

// Draft is a professional that has not been persisted yet. It is a value type:
// copies never share attachment state.
type Draft struct {
	Name          string
	ContactNumber string
	Email         string
	Address       string
	LicenceNumber string
	TaxID         string

	attachments [4]Attachment
}

func NewDraft() Draft {
	return Draft{}
}

// DraftFromProfessional hydrates a draft from a persisted record; documents
// become remote attachments.
func DraftFromProfessional(p Professional) Draft {
	d := Draft{
		Name:          p.Name(),
		ContactNumber: p.ContactNumber(),
		Email:         p.Email(),
		Address:       p.Address(),
		LicenceNumber: p.LicenceNumber(),
		TaxID:         p.TaxID(),
	}
	for _, slot := range Slots {
		d.attachments[slot.index()] = RemoteAttachment(p.Document(slot))
	}
	return d
}

func (d Draft) Get(f Field) string {
	switch f {
	case FieldName:
		return d.Name
	case FieldContactNumber:
		return d.ContactNumber
	case FieldEmail:
		return d.Email
	case FieldAddress:
		return d.Address
	case FieldLicenceNumber:
		return d.LicenceNumber
	case FieldTaxID:
		return d.TaxID
	default:
		return ""
	}
}

func (d *Draft) Set(f Field, v string) error {
	switch f {
	case FieldName:
		d.Name = v
	case FieldContactNumber:
		d.ContactNumber = v
	case FieldEmail:
		d.Email = v
	case FieldAddress:
		d.Address = v
	case FieldLicenceNumber:
		d.LicenceNumber = v
	case FieldTaxID:
		d.TaxID = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return nil
}

func (d Draft) Attachment(s Slot) Attachment {
	i := s.index()
	if i < 0 {
		return EmptyAttachment()
	}
	return d.attachments[i]
}

func (d *Draft) SetAttachment(s Slot, a Attachment) error {
	i := s.index()
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, s)
	}
	d.attachments[i] = a
	return nil
}

func (d *Draft) ClearAttachment(s Slot) error {
	return d.SetAttachment(s, EmptyAttachment())
}

// PendingFiles returns the attachments that still need uploading.
func (d Draft) PendingFiles() map[Slot]PendingFile {
	out := make(map[Slot]PendingFile)
	for _, slot := range Slots {
		if f, ok := d.Attachment(slot).File(); ok {
			out[slot] = f
		}
	}
	return out
}

func (d Draft) HasName() bool {
	return strings.TrimSpace(d.Name) != ""
}
