package professional

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Professional struct {
	id            uuid.UUID
	role          RoleType
	name          string
	contactNumber string
	email         string
	address       string
	licenceNumber string
	taxID         string
	documents     map[Slot]string
	createdAt     time.Time
	updatedAt     time.Time
}

type Option func(p *Professional)

func WithID(id uuid.UUID) Option {
	return func(p *Professional) { p.id = id }
}

func WithContact(contactNumber, email, address string) Option {
	return func(p *Professional) {
		p.contactNumber = strings.TrimSpace(contactNumber)
		p.email = strings.TrimSpace(email)
		p.address = strings.TrimSpace(address)
	}
}

func WithRegistration(licenceNumber, taxID string) Option {
	return func(p *Professional) {
		p.licenceNumber = strings.TrimSpace(licenceNumber)
		p.taxID = strings.TrimSpace(taxID)
	}
}

func WithDocument(slot Slot, url string) Option {
	return func(p *Professional) {
		if strings.TrimSpace(url) == "" {
			delete(p.documents, slot)
			return
		}
		p.documents[slot] = url
	}
}

func WithTimestamps(createdAt, updatedAt time.Time) Option {
	return func(p *Professional) {
		p.createdAt = createdAt
		p.updatedAt = updatedAt
	}
}

func New(role RoleType, name string, opts ...Option) Professional {
	p := Professional{
		role:      role,
		name:      strings.TrimSpace(name),
		documents: make(map[Slot]string),
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func (p Professional) ID() uuid.UUID          { return p.id }
func (p Professional) Role() RoleType         { return p.role }
func (p Professional) Name() string           { return p.name }
func (p Professional) ContactNumber() string  { return p.contactNumber }
func (p Professional) Email() string          { return p.email }
func (p Professional) Address() string        { return p.address }
func (p Professional) LicenceNumber() string  { return p.licenceNumber }
func (p Professional) TaxID() string          { return p.taxID }
func (p Professional) Document(s Slot) string { return p.documents[s] }
func (p Professional) CreatedAt() time.Time   { return p.createdAt }
func (p Professional) UpdatedAt() time.Time   { return p.updatedAt }
