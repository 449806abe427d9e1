package project

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
)

type Status string

const (
	StatusPlanned           Status = "planned"
	StatusUnderConstruction Status = "under_construction"
	StatusCompleted         Status = "completed"
	StatusOnHold            Status = "on_hold"
)

var Statuses = []Status{StatusPlanned, StatusUnderConstruction, StatusCompleted, StatusOnHold}

func (s Status) Valid() bool {
	for _, known := range Statuses {
		if known == s {
			return true
		}
	}
	return false
}

func (s Status) LocaleKey() string {
	return "Projects.Statuses." + string(s)
}

type Project struct {
	id          uuid.UUID
	name        string
	location    string
	reraNumber  string
	status      Status
	progress    int
	budget      decimal.Decimal
	assignments map[professional.RoleType]uuid.UUID
	createdAt   time.Time
	updatedAt   time.Time
}

type Option func(p *Project)

func WithID(id uuid.UUID) Option {
	return func(p *Project) { p.id = id }
}

func WithLocation(location string) Option {
	return func(p *Project) { p.location = strings.TrimSpace(location) }
}

func WithReraNumber(rera string) Option {
	return func(p *Project) { p.reraNumber = strings.TrimSpace(rera) }
}

func WithStatus(status Status) Option {
	return func(p *Project) { p.status = status }
}

func WithProgress(progress int) Option {
	return func(p *Project) { p.progress = progress }
}

func WithBudget(budget decimal.Decimal) Option {
	return func(p *Project) { p.budget = budget }
}

func WithAssignment(role professional.RoleType, id uuid.UUID) Option {
	return func(p *Project) {
		if id == uuid.Nil {
			delete(p.assignments, role)
			return
		}
		p.assignments[role] = id
	}
}

func WithTimestamps(createdAt, updatedAt time.Time) Option {
	return func(p *Project) {
		p.createdAt = createdAt
		p.updatedAt = updatedAt
	}
}

func New(name string, opts ...Option) Project {
	p := Project{
		name:        strings.TrimSpace(name),
		status:      StatusPlanned,
		budget:      decimal.Zero,
		assignments: make(map[professional.RoleType]uuid.UUID),
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func (p Project) ID() uuid.UUID           { return p.id }
func (p Project) Name() string            { return p.name }
func (p Project) Location() string        { return p.location }
func (p Project) ReraNumber() string      { return p.reraNumber }
func (p Project) Status() Status          { return p.status }
func (p Project) Progress() int           { return p.progress }
func (p Project) Budget() decimal.Decimal { return p.budget }
func (p Project) CreatedAt() time.Time    { return p.createdAt }
func (p Project) UpdatedAt() time.Time    { return p.updatedAt }

// Assigned returns the professional selected for role, or uuid.Nil.
func (p Project) Assigned(role professional.RoleType) uuid.UUID {
	return p.assignments[role]
}
