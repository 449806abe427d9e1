package forms

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/estatedesk/admin/modules/projects/domain/entities/preview"
	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
	"github.com/estatedesk/admin/pkg/intl"
	"github.com/estatedesk/admin/pkg/metrics"
	"github.com/estatedesk/admin/pkg/serrors"
)

// SubmitRoleFunc persists a draft. It reports false when the backend refused
// the record without failing.
type SubmitRoleFunc func(ctx context.Context, role professional.RoleType, draft professional.Draft) (bool, error)

type RoleSectionConfig struct {
	Role     professional.RoleType
	Label    string
	Submit   SubmitRoleFunc
	Previews preview.Store
	Policy   AttachmentPolicy
	Logger   *logrus.Entry

	// Disabled reports the read-only flag shared by every section of a form.
	Disabled func() bool
	// ClearSelection drops the selected professional of this role.
	ClearSelection func()
	// RefreshCatalog reloads the option catalogs after a successful add.
	RefreshCatalog func(ctx context.Context)
}

// RoleSection is the state machine behind one professional role of a project
// form: a mode, a draft and the previews of the draft's pending files.
type RoleSection struct {
	cfg RoleSectionConfig
	log *logrus.Entry

	mu         sync.Mutex
	mode       Mode
	draft      professional.Draft
	slotGen    map[professional.Slot]uint64
	version    uint64
	submitting bool

	// slotMu orders preview store writes per slot. It is never taken while
	// holding mu, and state changes never wait for it.
	slotMu  map[professional.Slot]*sync.Mutex
	pending sync.WaitGroup
}

func NewRoleSection(cfg RoleSectionConfig) *RoleSection {
	if cfg.Label == "" {
		cfg.Label = cfg.Role.Title()
	}
	if cfg.Previews == nil {
		cfg.Previews = preview.NewMemoryStore()
	}
	if cfg.Policy.MaxSize <= 0 {
		cfg.Policy = DefaultAttachmentPolicy()
	}
	if cfg.Disabled == nil {
		cfg.Disabled = func() bool { return false }
	}
	if cfg.ClearSelection == nil {
		cfg.ClearSelection = func() {}
	}
	if cfg.RefreshCatalog == nil {
		cfg.RefreshCatalog = func(context.Context) {}
	}
	if cfg.Submit == nil {
		cfg.Submit = func(context.Context, professional.RoleType, professional.Draft) (bool, error) {
			return false, nil
		}
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	slotMu := make(map[professional.Slot]*sync.Mutex, len(professional.Slots))
	for _, slot := range professional.Slots {
		slotMu[slot] = &sync.Mutex{}
	}
	return &RoleSection{
		cfg:     cfg,
		log:     log.WithField("role", string(cfg.Role)),
		mode:    ModeSelectExisting,
		draft:   professional.NewDraft(),
		slotGen: make(map[professional.Slot]uint64, len(professional.Slots)),
		slotMu:  slotMu,
	}
}

func (s *RoleSection) Role() professional.RoleType { return s.cfg.Role }
func (s *RoleSection) Label() string               { return s.cfg.Label }

func (s *RoleSection) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *RoleSection) Draft() professional.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Version changes whenever something visible in the section changes.
func (s *RoleSection) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *RoleSection) view() (Mode, professional.Draft, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode, s.draft, s.version
}

func (s *RoleSection) SetMode(m Mode) error {
	if !m.valid() {
		return ErrInvalidMode
	}
	if s.cfg.Disabled() {
		return ErrFormDisabled
	}
	s.mu.Lock()
	if s.mode != m {
		s.mode = m
		s.version++
	}
	s.mu.Unlock()

	if m == ModeNone {
		s.cfg.ClearSelection()
	}
	return nil
}

func (s *RoleSection) SetField(f professional.Field, value string) error {
	if s.cfg.Disabled() {
		return ErrFormDisabled
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.draft.Get(f)
	if err := s.draft.Set(f, value); err != nil {
		return err
	}
	if before != value {
		s.version++
	}
	return nil
}

// Attach puts a file into a slot of the draft. Rejected files leave the draft
// and its previews untouched and are reported through gate.
func (s *RoleSection) Attach(ctx context.Context, gate Gate, slot professional.Slot, file professional.PendingFile) error {
	if _, err := professional.ParseSlot(string(slot)); err != nil {
		return err
	}
	if s.cfg.Disabled() {
		return ErrFormDisabled
	}
	mimeType, err := s.cfg.Policy.Check(file)
	if err != nil {
		metrics.AttachmentRejections.WithLabelValues(string(s.cfg.Role), rejectionReason(err)).Inc()
		notify(gate, localizeError(ctx, err))
		return err
	}
	file.MimeType = mimeType

	s.mu.Lock()
	if s.mode != ModeAddNew {
		s.mu.Unlock()
		return ErrInvalidMode
	}
	if err := s.draft.SetAttachment(slot, professional.PendingAttachment(file)); err != nil {
		s.mu.Unlock()
		return err
	}
	s.slotGen[slot]++
	gen := s.slotGen[slot]
	s.version++
	s.pending.Add(1)
	s.mu.Unlock()

	go s.derivePreview(context.WithoutCancel(ctx), slot, gen, file)
	return nil
}

func (s *RoleSection) derivePreview(ctx context.Context, slot professional.Slot, gen uint64, file professional.PendingFile) {
	defer s.pending.Done()
	p := preview.New(file, file.MimeType)
	key := preview.Key(s.cfg.Role, slot)

	lock := s.slotMu[slot]
	lock.Lock()
	defer lock.Unlock()
	if !s.ownsSlot(slot, gen) {
		return
	}
	if err := s.cfg.Previews.Put(ctx, key, p); err != nil {
		s.log.WithError(err).WithField("slot", string(slot)).Warn("failed to store attachment preview")
		return
	}

	s.mu.Lock()
	current := s.slotGen[slot] == gen
	if current {
		s.version++
	}
	s.mu.Unlock()
	if current {
		return
	}
	// Superseded while writing. Whoever owns the slot now writes or clears
	// the key after this lock is released.
	if err := s.cfg.Previews.Delete(ctx, key); err != nil {
		s.log.WithError(err).WithField("slot", string(slot)).Warn("failed to drop stale attachment preview")
	}
}

func (s *RoleSection) ownsSlot(slot professional.Slot, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slotGen[slot] == gen
}

// dropPreviews deletes the previews of the given slot generations. A slot
// taken over by a newer generation is left to its new owner. When changed is
// set the section version moves once the store is updated.
func (s *RoleSection) dropPreviews(ctx context.Context, gens map[professional.Slot]uint64, changed bool) {
	for _, slot := range professional.Slots {
		gen, ok := gens[slot]
		if !ok {
			continue
		}
		lock := s.slotMu[slot]
		lock.Lock()
		if s.ownsSlot(slot, gen) {
			if err := s.cfg.Previews.Delete(ctx, preview.Key(s.cfg.Role, slot)); err != nil {
				s.log.WithError(err).WithField("slot", string(slot)).Warn("failed to delete attachment preview")
			}
		}
		lock.Unlock()
	}
	if changed {
		s.mu.Lock()
		s.version++
		s.mu.Unlock()
	}
}

// bumpAllSlots invalidates every slot generation. Callers hold s.mu.
func (s *RoleSection) bumpAllSlots() map[professional.Slot]uint64 {
	gens := make(map[professional.Slot]uint64, len(professional.Slots))
	for _, slot := range professional.Slots {
		s.slotGen[slot]++
		gens[slot] = s.slotGen[slot]
	}
	return gens
}

// DeleteFile clears a slot and its preview. Deleting an empty slot is a no-op.
func (s *RoleSection) DeleteFile(ctx context.Context, slot professional.Slot) error {
	if _, err := professional.ParseSlot(string(slot)); err != nil {
		return err
	}
	if s.cfg.Disabled() {
		return ErrFormDisabled
	}
	s.mu.Lock()
	changed := !s.draft.Attachment(slot).IsEmpty()
	if err := s.draft.ClearAttachment(slot); err != nil {
		s.mu.Unlock()
		return err
	}
	s.slotGen[slot]++
	gen := s.slotGen[slot]
	if changed {
		s.version++
	}
	s.mu.Unlock()

	s.dropPreviews(ctx, map[professional.Slot]uint64{slot: gen}, changed)
	return nil
}

// Submit asks for confirmation, validates the draft and hands it to the
// submit capability. On success the draft is reset, the mode returns to
// SelectExisting and the catalogs are refreshed once.
func (s *RoleSection) Submit(ctx context.Context, gate Gate) (bool, error) {
	if s.cfg.Disabled() {
		return false, ErrFormDisabled
	}
	s.mu.Lock()
	if s.mode != ModeAddNew {
		s.mu.Unlock()
		return false, ErrInvalidMode
	}
	if s.submitting {
		s.mu.Unlock()
		return false, ErrSubmitInFlight
	}
	s.submitting = true
	draft := s.draft
	s.mu.Unlock()

	role := string(s.cfg.Role)
	data := map[string]any{"Role": s.cfg.Label}
	prompt := intl.T(ctx, "ProjectForm.Confirm.SubmitRole", fmt.Sprintf("Add this %s?", s.cfg.Label), data)
	if gate == nil || !gate.Confirm(prompt) {
		s.endSubmit()
		return false, nil
	}

	if errs, ok := professional.NewCreateDTO(s.cfg.Role, draft).Ok(ctx); !ok {
		s.endSubmit()
		metrics.RoleSubmissions.WithLabelValues(role, "invalid").Inc()
		fields := make([]string, 0, len(errs))
		for field := range errs {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			gate.Notify(errs[field])
		}
		return false, nil
	}

	ok, err := s.cfg.Submit(ctx, s.cfg.Role, draft)
	if err != nil {
		s.endSubmit()
		metrics.RoleSubmissions.WithLabelValues(role, "error").Inc()
		s.log.WithError(err).Error("failed to submit professional")
		gate.Notify(intl.T(ctx, "ProjectForm.Errors.SubmitFailed", fmt.Sprintf("Could not save the %s. Please try again.", s.cfg.Label), data))
		return false, err
	}
	if !ok {
		s.endSubmit()
		metrics.RoleSubmissions.WithLabelValues(role, "rejected").Inc()
		gate.Notify(intl.T(ctx, "ProjectForm.Errors.SubmitRejected", fmt.Sprintf("The %s was not saved.", s.cfg.Label), data))
		return false, nil
	}

	s.mu.Lock()
	s.draft = professional.NewDraft()
	s.mode = ModeSelectExisting
	gens := s.bumpAllSlots()
	s.version++
	s.submitting = false
	s.mu.Unlock()
	s.dropPreviews(ctx, gens, true)

	metrics.RoleSubmissions.WithLabelValues(role, "succeeded").Inc()
	s.cfg.RefreshCatalog(ctx)
	gate.Notify(intl.T(ctx, "ProjectForm.Notifications.RoleAdded", fmt.Sprintf("%s added", s.cfg.Label), data))
	return true, nil
}

func (s *RoleSection) endSubmit() {
	s.mu.Lock()
	s.submitting = false
	s.mu.Unlock()
}

// Hydrate replaces the draft with a persisted one. It is how read-only views
// load their data, so it ignores the disabled flag.
func (s *RoleSection) Hydrate(ctx context.Context, d professional.Draft) {
	s.mu.Lock()
	s.draft = d
	gens := s.bumpAllSlots()
	s.version++
	s.mu.Unlock()
	s.dropPreviews(ctx, gens, true)
}

func (s *RoleSection) Previews(ctx context.Context) (map[professional.Slot]preview.Preview, error) {
	all, err := s.cfg.Previews.All(ctx)
	if err != nil {
		return nil, err
	}
	return preview.ForRole(s.cfg.Role, all), nil
}

// Wait blocks until every in-flight preview derivation has finished.
func (s *RoleSection) Wait() {
	s.pending.Wait()
}

func notify(gate Gate, msg string) {
	if gate != nil {
		gate.Notify(msg)
	}
}

func localizeError(ctx context.Context, err error) string {
	var be *serrors.BaseError
	if errors.As(err, &be) {
		l, _ := intl.UseLocalizer(ctx)
		return be.Localize(l)
	}
	return err.Error()
}
