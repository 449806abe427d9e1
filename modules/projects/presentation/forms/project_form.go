package forms

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/estatedesk/admin/modules/projects/domain/entities/preview"
	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
	"github.com/estatedesk/admin/pkg/intl"
	"github.com/estatedesk/admin/pkg/metrics"
	"github.com/estatedesk/admin/pkg/serrors"
)

type CatalogLoader interface {
	FetchRole(ctx context.Context, role professional.RoleType) ([]professional.RoleOption, error)
}

// SubmitAllFunc persists the whole project form. A serrors.ValidationErrors
// result is shown to the user instead of being logged.
type SubmitAllFunc func(ctx context.Context, state ProjectState) error

type ProjectField string

const (
	ProjectFieldName       ProjectField = "name"
	ProjectFieldLocation   ProjectField = "location"
	ProjectFieldReraNumber ProjectField = "rera_number"
	ProjectFieldStatus     ProjectField = "status"
	ProjectFieldProgress   ProjectField = "progress"
	ProjectFieldBudget     ProjectField = "budget"
)

var ProjectFields = []ProjectField{
	ProjectFieldName,
	ProjectFieldLocation,
	ProjectFieldReraNumber,
	ProjectFieldStatus,
	ProjectFieldProgress,
	ProjectFieldBudget,
}

// ProjectState is the project record as edited in the form. Numeric fields
// keep the raw user input; conversion happens on submit.
type ProjectState struct {
	ProjectID  uuid.UUID
	Name       string
	Location   string
	ReraNumber string
	Status     string
	Progress   string
	Budget     string
	Selected   map[professional.RoleType]uuid.UUID
}

func (s ProjectState) Get(f ProjectField) string {
	switch f {
	case ProjectFieldName:
		return s.Name
	case ProjectFieldLocation:
		return s.Location
	case ProjectFieldReraNumber:
		return s.ReraNumber
	case ProjectFieldStatus:
		return s.Status
	case ProjectFieldProgress:
		return s.Progress
	case ProjectFieldBudget:
		return s.Budget
	default:
		return ""
	}
}

func (s *ProjectState) set(f ProjectField, v string) error {
	switch f {
	case ProjectFieldName:
		s.Name = v
	case ProjectFieldLocation:
		s.Location = v
	case ProjectFieldReraNumber:
		s.ReraNumber = v
	case ProjectFieldStatus:
		s.Status = v
	case ProjectFieldProgress:
		s.Progress = v
	case ProjectFieldBudget:
		s.Budget = v
	default:
		return ErrUnknownField.WithTemplateData(map[string]any{"Field": string(f)})
	}
	return nil
}

func (s ProjectState) clone() ProjectState {
	out := s
	out.Selected = make(map[professional.RoleType]uuid.UUID, len(s.Selected))
	for k, v := range s.Selected {
		out.Selected[k] = v
	}
	return out
}

// SectionSnapshot is everything needed to render one role section.
type SectionSnapshot struct {
	Role       professional.RoleType
	Label      string
	Mode       Mode
	Draft      professional.Draft
	Options    []professional.RoleOption
	SelectedID uuid.UUID
	Disabled   bool
	Previews   map[professional.Slot]preview.Preview
}

// Placeholder reports whether a read-only section has nothing to show.
func (s SectionSnapshot) Placeholder() bool {
	return s.Disabled && !s.Draft.HasName()
}

func (s SectionSnapshot) ShowFields() bool {
	if s.Placeholder() {
		return false
	}
	return s.Disabled || s.Mode == ModeAddNew
}

type ProjectFormConfig struct {
	ID         uuid.UUID
	State      ProjectState
	Loader     CatalogLoader
	SubmitRole SubmitRoleFunc
	SubmitAll  SubmitAllFunc
	Previews   preview.Store
	Policy     AttachmentPolicy
	Logger     *logrus.Entry
	Disabled   bool
	// Labels overrides the section titles, keyed by role.
	Labels map[professional.RoleType]string
}

type propsKey struct {
	section   uint64
	catalog   uint64
	selection uint64
	disabled  bool
}

type memoizedProps struct {
	key  propsKey
	snap SectionSnapshot
}

// ProjectForm composes the role sections of a project with the project record
// and its option catalogs.
type ProjectForm struct {
	id       uuid.UUID
	cfg      ProjectFormConfig
	log      *logrus.Entry
	disabled atomic.Bool
	sections map[professional.RoleType]*RoleSection

	mu               sync.Mutex
	state            ProjectState
	catalogs         map[professional.RoleType][]professional.RoleOption
	catalogGen       map[professional.RoleType]uint64
	catalogVersion   map[professional.RoleType]uint64
	selectionVersion map[professional.RoleType]uint64
	props            map[professional.RoleType]memoizedProps
	computed         int
	opened           bool
	submitting       bool
}

func NewProjectForm(cfg ProjectFormConfig) *ProjectForm {
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	if cfg.Previews == nil {
		cfg.Previews = preview.NewMemoryStore()
	}
	if cfg.SubmitAll == nil {
		cfg.SubmitAll = func(context.Context, ProjectState) error { return nil }
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	f := &ProjectForm{
		id:               cfg.ID,
		cfg:              cfg,
		log:              log.WithField("form_session", cfg.ID.String()),
		sections:         make(map[professional.RoleType]*RoleSection, len(professional.RoleTypes)),
		state:            cfg.State.clone(),
		catalogs:         make(map[professional.RoleType][]professional.RoleOption),
		catalogGen:       make(map[professional.RoleType]uint64),
		catalogVersion:   make(map[professional.RoleType]uint64),
		selectionVersion: make(map[professional.RoleType]uint64),
		props:            make(map[professional.RoleType]memoizedProps),
	}
	f.disabled.Store(cfg.Disabled)

	for _, role := range professional.RoleTypes {
		f.sections[role] = NewRoleSection(RoleSectionConfig{
			Role:           role,
			Label:          cfg.Labels[role],
			Submit:         cfg.SubmitRole,
			Previews:       cfg.Previews,
			Policy:         cfg.Policy,
			Logger:         f.log,
			Disabled:       f.Disabled,
			ClearSelection: func() { f.clearSelection(role) },
			RefreshCatalog: func(ctx context.Context) {
				if err := f.Refresh(ctx); err != nil {
					f.log.WithError(err).Warn("catalog refresh after add failed")
				}
			},
		})
	}
	return f
}

func (f *ProjectForm) ID() uuid.UUID { return f.id }

func (f *ProjectForm) Disabled() bool { return f.disabled.Load() }

func (f *ProjectForm) SetDisabled(v bool) { f.disabled.Store(v) }

func (f *ProjectForm) Section(role professional.RoleType) (*RoleSection, error) {
	s, ok := f.sections[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", professional.ErrUnknownRole, role)
	}
	return s, nil
}

func (f *ProjectForm) State() ProjectState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.clone()
}

func (f *ProjectForm) Options(role professional.RoleType) []professional.RoleOption {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]professional.RoleOption(nil), f.catalogs[role]...)
}

// Open loads the catalogs the first time it is called.
func (f *ProjectForm) Open(ctx context.Context) error {
	f.mu.Lock()
	if f.opened {
		f.mu.Unlock()
		return nil
	}
	f.opened = true
	f.mu.Unlock()
	return f.Refresh(ctx)
}

// Refresh reloads every role catalog concurrently. Each list is replaced as a
// whole or not at all, and only by the most recently requested fetch.
func (f *ProjectForm) Refresh(ctx context.Context) error {
	if f.cfg.Loader == nil {
		return nil
	}
	errs := make([]error, len(professional.RoleTypes))
	var wg sync.WaitGroup
	for i, role := range professional.RoleTypes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = f.refreshRole(ctx, role)
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (f *ProjectForm) refreshRole(ctx context.Context, role professional.RoleType) error {
	f.mu.Lock()
	f.catalogGen[role]++
	gen := f.catalogGen[role]
	f.mu.Unlock()

	opts, err := f.cfg.Loader.FetchRole(ctx, role)
	if err != nil {
		metrics.CatalogRefreshFailures.WithLabelValues(string(role)).Inc()
		f.log.WithError(err).WithField("role", string(role)).Error("failed to load professional options")
		return fmt.Errorf("load %s options: %w", role, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.catalogGen[role] != gen {
		return nil
	}
	f.catalogs[role] = opts
	f.catalogVersion[role]++
	return nil
}

// Select picks an existing professional for role. uuid.Nil clears the choice.
// Picking requires the role to be in SelectExisting mode.
func (f *ProjectForm) Select(role professional.RoleType, id uuid.UUID) error {
	section, err := f.Section(role)
	if err != nil {
		return err
	}
	if f.Disabled() {
		return ErrFormDisabled
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == uuid.Nil {
		f.clearSelectionLocked(role)
		return nil
	}
	// f.mu is taken before a section lock, never after. A concurrent switch to
	// None either fails this check or clears the selection once f.mu is free.
	if section.Mode() != ModeSelectExisting {
		return ErrInvalidMode
	}
	found := false
	for _, o := range f.catalogs[role] {
		if o.Value == id {
			found = true
			break
		}
	}
	if !found {
		return ErrUnknownOption
	}
	if f.state.Selected == nil {
		f.state.Selected = make(map[professional.RoleType]uuid.UUID)
	}
	if f.state.Selected[role] != id {
		f.state.Selected[role] = id
		f.selectionVersion[role]++
	}
	return nil
}

func (f *ProjectForm) clearSelection(role professional.RoleType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearSelectionLocked(role)
}

func (f *ProjectForm) clearSelectionLocked(role professional.RoleType) {
	if _, ok := f.state.Selected[role]; !ok {
		return
	}
	delete(f.state.Selected, role)
	f.selectionVersion[role]++
}

func (f *ProjectForm) SetProjectField(field ProjectField, value string) error {
	if f.Disabled() {
		return ErrFormDisabled
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.set(field, value)
}

// Submit asks for confirmation and hands the project state to SubmitAll.
func (f *ProjectForm) Submit(ctx context.Context, gate Gate) (bool, error) {
	if f.Disabled() {
		return false, ErrFormDisabled
	}
	prompt := intl.T(ctx, "ProjectForm.Confirm.Submit", "Save the project?", nil)
	if gate == nil || !gate.Confirm(prompt) {
		return false, nil
	}

	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return false, ErrSubmitInFlight
	}
	f.submitting = true
	state := f.state.clone()
	f.mu.Unlock()

	err := f.cfg.SubmitAll(ctx, state)

	f.mu.Lock()
	f.submitting = false
	f.mu.Unlock()

	if err != nil {
		var verrs serrors.ValidationErrors
		if errors.As(err, &verrs) {
			l, _ := intl.UseLocalizer(ctx)
			msgs := serrors.LocalizeValidationErrors(verrs, l)
			keys := make([]string, 0, len(msgs))
			for k := range msgs {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				gate.Notify(msgs[k])
			}
			return false, nil
		}
		f.log.WithError(err).Error("failed to submit project form")
		gate.Notify(intl.T(ctx, "ProjectForm.Errors.ProjectSubmitFailed", "Could not save the project. Please try again.", nil))
		return false, err
	}
	gate.Notify(intl.T(ctx, "ProjectForm.Notifications.ProjectSaved", "Project saved", nil))
	return true, nil
}

// SectionProps returns the render bundle of a role. The bundle is rebuilt only
// when the section, its catalog, its selection or the disabled flag changed.
func (f *ProjectForm) SectionProps(ctx context.Context, role professional.RoleType) (SectionSnapshot, error) {
	section, err := f.Section(role)
	if err != nil {
		return SectionSnapshot{}, err
	}
	mode, draft, version := section.view()
	disabled := f.Disabled()

	f.mu.Lock()
	key := propsKey{
		section:   version,
		catalog:   f.catalogVersion[role],
		selection: f.selectionVersion[role],
		disabled:  disabled,
	}
	if m, ok := f.props[role]; ok && m.key == key {
		f.mu.Unlock()
		return m.snap, nil
	}
	snap := SectionSnapshot{
		Role:       role,
		Label:      section.Label(),
		Mode:       mode,
		Draft:      draft,
		Options:    append([]professional.RoleOption(nil), f.catalogs[role]...),
		SelectedID: f.state.Selected[role],
		Disabled:   disabled,
	}
	f.mu.Unlock()

	previews, err := section.Previews(ctx)
	if err != nil {
		f.log.WithError(err).WithField("role", string(role)).Warn("failed to read attachment previews")
		snap.Previews = map[professional.Slot]preview.Preview{}
		return snap, nil
	}
	snap.Previews = previews

	f.mu.Lock()
	f.props[role] = memoizedProps{key: key, snap: snap}
	f.computed++
	f.mu.Unlock()
	return snap, nil
}

// Wait blocks until every section finished deriving previews.
func (f *ProjectForm) Wait() {
	for _, s := range f.sections {
		s.Wait()
	}
}

// Close drops the previews held for this form.
func (f *ProjectForm) Close(ctx context.Context) error {
	keys := make([]string, 0, len(professional.RoleTypes)*len(professional.Slots))
	for _, role := range professional.RoleTypes {
		keys = append(keys, preview.RoleKeys(role)...)
	}
	return f.cfg.Previews.Delete(ctx, keys...)
}

func ParseProjectField(v string) (ProjectField, error) {
	field := ProjectField(strings.TrimSpace(v))
	for _, known := range ProjectFields {
		if known == field {
			return field, nil
		}
	}
	return "", ErrUnknownField.WithTemplateData(map[string]any{"Field": v})
}
