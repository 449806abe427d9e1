package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/estatedesk/admin/modules/projects/domain/entities/preview"
	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
	"github.com/estatedesk/admin/modules/projects/presentation/forms"
	"github.com/estatedesk/admin/modules/projects/presentation/mappers"
	"github.com/estatedesk/admin/modules/projects/presentation/templates/pages/projects"
	"github.com/estatedesk/admin/modules/projects/presentation/viewmodels"
	"github.com/estatedesk/admin/modules/projects/services"
	"github.com/estatedesk/admin/pkg/application"
	"github.com/estatedesk/admin/pkg/composables"
	"github.com/estatedesk/admin/pkg/middleware"
)

type ProjectFormControllerOptions struct {
	Sessions *forms.SessionStore
	Previews preview.Factory
	Policy   forms.AttachmentPolicy
}

type ProjectFormController struct {
	app                 application.Application
	projectService      *services.ProjectService
	professionalService *services.ProfessionalService
	catalogService      *services.CatalogService
	sessions            *forms.SessionStore
	previews            preview.Factory
	policy              forms.AttachmentPolicy
	basePath            string
}

type selectionDTO struct {
	Role           string `form:"role"`
	ProfessionalID string `form:"professional_id"`
}

type fieldDTO struct {
	Field string `form:"field"`
	Value string `form:"value"`
}

type modeDTO struct {
	Mode string `form:"mode"`
}

func NewProjectFormController(app application.Application, opts ProjectFormControllerOptions) application.Controller {
	if opts.Previews == nil {
		opts.Previews = preview.MemoryFactory()
	}
	if opts.Sessions == nil {
		opts.Sessions = forms.NewSessionStore(2*time.Hour, app.Logger().WithField("component", "form_sessions"))
	}
	return &ProjectFormController{
		app:                 app,
		projectService:      app.Service(services.ProjectService{}).(*services.ProjectService),
		professionalService: app.Service(services.ProfessionalService{}).(*services.ProfessionalService),
		catalogService:      app.Service(services.CatalogService{}).(*services.CatalogService),
		sessions:            opts.Sessions,
		previews:            opts.Previews,
		policy:              opts.Policy,
		basePath:            "/projects",
	}
}

func (c *ProjectFormController) Key() string {
	return c.basePath
}

func (c *ProjectFormController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(middleware.ProvideLocalizer(c.app))

	router.HandleFunc("/{project_id}/professionals", c.Open).Methods(http.MethodGet)

	session := router.PathPrefix("/forms/{session_id}").Subrouter()
	session.HandleFunc("/roles/{role}", c.GetSection).Methods(http.MethodGet)
	session.HandleFunc("/roles/{role}/mode", c.SetMode).Methods(http.MethodPost)
	session.HandleFunc("/roles/{role}/fields", c.SetRoleField).Methods(http.MethodPost)
	session.HandleFunc("/roles/{role}/files/{slot}", c.AttachFile).Methods(http.MethodPost)
	session.HandleFunc("/roles/{role}/files/{slot}", c.DeleteFile).Methods(http.MethodDelete)
	session.HandleFunc("/roles/{role}/submit", c.SubmitRole).Methods(http.MethodPost)
	session.HandleFunc("/selection", c.Select).Methods(http.MethodPost)
	session.HandleFunc("/fields", c.SetProjectField).Methods(http.MethodPost)
	session.HandleFunc("/submit", c.SubmitProject).Methods(http.MethodPost)
}

func (c *ProjectFormController) sessionURL(id uuid.UUID) string {
	return fmt.Sprintf("%s/forms/%s", c.basePath, id)
}

func (c *ProjectFormController) sectionURL(id uuid.UUID, role professional.RoleType) string {
	return fmt.Sprintf("%s/roles/%s", c.sessionURL(id), role)
}

// Open starts a form session for a project. "new" opens an empty project and
// view=1 opens a read-only projection.
func (c *ProjectFormController) Open(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := composables.UseLogger(ctx)

	state := forms.ProjectState{Selected: map[professional.RoleType]uuid.UUID{}}
	if raw := mux.Vars(r)["project_id"]; raw != "new" {
		projectID, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid project id", http.StatusBadRequest)
			return
		}
		p, err := c.projectService.GetByID(ctx, projectID)
		if err != nil {
			writeHTMLError(w, r, err)
			return
		}
		state = mappers.ProjectToState(p)
	}

	labels := make(map[professional.RoleType]string, len(professional.RoleTypes))
	for _, role := range professional.RoleTypes {
		labels[role] = mappers.RoleLabel(ctx, role)
	}

	id := uuid.New()
	form := forms.NewProjectForm(forms.ProjectFormConfig{
		ID:         id,
		State:      state,
		Loader:     c.catalogService,
		SubmitRole: c.professionalService.SubmitDraft,
		SubmitAll:  c.submitProject(),
		Previews:   c.previews(id),
		Policy:     c.policy,
		Logger:     logger.WithField("project_id", state.ProjectID.String()),
		Disabled:   r.URL.Query().Get("view") == "1",
		Labels:     labels,
	})
	if err := form.Open(ctx); err != nil {
		logger.WithError(err).Warn("project form opened without some catalogs")
	}
	c.hydrateAssigned(ctx, form, state)
	c.sessions.Put(form)

	sections := make([]*viewmodels.RoleSection, 0, len(professional.RoleTypes))
	for _, role := range professional.RoleTypes {
		vm, err := c.sectionViewModel(ctx, form, role)
		if err != nil {
			writeHTMLError(w, r, err)
			return
		}
		sections = append(sections, vm)
	}
	page := mappers.ProjectPageToViewModel(ctx, id, form.State(), form.Disabled(), sections, c.sessionURL(id))
	page.ExportURL = c.basePath + "/export.xlsx"
	templ.Handler(projects.ProfessionalsPage(projects.ProfessionalsPageProps{Page: page}), templ.WithStreaming()).ServeHTTP(w, r)
}

// hydrateAssigned loads the assigned professionals into read-only sections so
// the projection has something to show.
func (c *ProjectFormController) hydrateAssigned(ctx context.Context, form *forms.ProjectForm, state forms.ProjectState) {
	if !form.Disabled() {
		return
	}
	for role, id := range state.Selected {
		p, err := c.professionalService.GetByID(ctx, id)
		if err != nil {
			composables.UseLogger(ctx).WithError(err).WithField("role", string(role)).Warn("assigned professional not found")
			continue
		}
		section, err := form.Section(role)
		if err != nil {
			continue
		}
		section.Hydrate(ctx, professional.DraftFromProfessional(p))
	}
}

// submitProject adapts the project service to the form. The saved id is kept
// so a new project is inserted once and updated afterwards.
func (c *ProjectFormController) submitProject() forms.SubmitAllFunc {
	var savedID uuid.UUID
	return func(ctx context.Context, state forms.ProjectState) error {
		dto := mappers.StateToUpdateDTO(state)
		if dto.ID == uuid.Nil {
			dto.ID = savedID
		}
		p, err := c.projectService.Update(ctx, dto)
		if err != nil {
			return err
		}
		savedID = p.ID()
		return nil
	}
}

func (c *ProjectFormController) useForm(w http.ResponseWriter, r *http.Request) (*forms.ProjectForm, bool) {
	id, err := uuid.Parse(mux.Vars(r)["session_id"])
	if err != nil {
		writeHTMLError(w, r, forms.ErrSessionNotFound)
		return nil, false
	}
	form, err := c.sessions.Get(id)
	if err != nil {
		writeHTMLError(w, r, err)
		return nil, false
	}
	return form, true
}

func (c *ProjectFormController) useSection(w http.ResponseWriter, r *http.Request) (*forms.ProjectForm, *forms.RoleSection, bool) {
	form, ok := c.useForm(w, r)
	if !ok {
		return nil, nil, false
	}
	role, err := professional.ParseRoleType(mux.Vars(r)["role"])
	if err != nil {
		writeHTMLError(w, r, err)
		return nil, nil, false
	}
	section, err := form.Section(role)
	if err != nil {
		writeHTMLError(w, r, err)
		return nil, nil, false
	}
	return form, section, true
}

func (c *ProjectFormController) sectionViewModel(ctx context.Context, form *forms.ProjectForm, role professional.RoleType) (*viewmodels.RoleSection, error) {
	snap, err := form.SectionProps(ctx, role)
	if err != nil {
		return nil, err
	}
	return mappers.RoleSectionToViewModel(ctx, snap, c.sectionURL(form.ID(), role), c.sessionURL(form.ID())+"/selection"), nil
}

func (c *ProjectFormController) renderSection(w http.ResponseWriter, r *http.Request, form *forms.ProjectForm, role professional.RoleType, gate *httpGate) {
	vm, err := c.sectionViewModel(r.Context(), form, role)
	if err != nil {
		writeHTMLError(w, r, err)
		return
	}
	if gate != nil {
		gate.flush(w)
	}
	templ.Handler(projects.RoleSection(projects.RoleSectionProps{Section: vm}), templ.WithStreaming()).ServeHTTP(w, r)
}

func (c *ProjectFormController) GetSection(w http.ResponseWriter, r *http.Request) {
	form, section, ok := c.useSection(w, r)
	if !ok {
		return
	}
	c.renderSection(w, r, form, section.Role(), nil)
}

func (c *ProjectFormController) SetMode(w http.ResponseWriter, r *http.Request) {
	form, section, ok := c.useSection(w, r)
	if !ok {
		return
	}
	dto, err := composables.UseForm(&modeDTO{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	mode, err := forms.ParseMode(dto.Mode)
	if err != nil {
		http.Error(w, errorMessage(r, err), http.StatusBadRequest)
		return
	}
	if err := section.SetMode(mode); err != nil {
		writeHTMLError(w, r, err)
		return
	}
	c.renderSection(w, r, form, section.Role(), nil)
}

func (c *ProjectFormController) SetRoleField(w http.ResponseWriter, r *http.Request) {
	_, section, ok := c.useSection(w, r)
	if !ok {
		return
	}
	dto, err := composables.UseForm(&fieldDTO{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	field, err := professional.ParseField(dto.Field)
	if err != nil {
		writeHTMLError(w, r, err)
		return
	}
	if err := section.SetField(field, dto.Value); err != nil {
		writeHTMLError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ProjectFormController) AttachFile(w http.ResponseWriter, r *http.Request) {
	form, section, ok := c.useSection(w, r)
	if !ok {
		return
	}
	slot, err := professional.ParseSlot(mux.Vars(r)["slot"])
	if err != nil {
		writeHTMLError(w, r, err)
		return
	}
	file, err := c.readUpload(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	gate := newHTTPGate(r)
	if err := section.Attach(r.Context(), gate, slot, file); err != nil {
		if !errors.Is(err, forms.ErrAttachmentTooLarge) && !errors.Is(err, forms.ErrAttachmentType) {
			writeHTMLError(w, r, err)
			return
		}
	}
	c.renderSection(w, r, form, section.Role(), gate)
}

// readUpload reads at most one byte past the size limit so oversized files
// are rejected by the policy without being buffered whole.
func (c *ProjectFormController) readUpload(r *http.Request) (professional.PendingFile, error) {
	limit := c.policy.MaxSize
	if limit <= 0 {
		limit = forms.DefaultMaxAttachmentSize
	}
	if err := r.ParseMultipartForm(limit + 1<<20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return professional.PendingFile{}, err
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		return professional.PendingFile{}, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			composables.UseLogger(r.Context()).WithError(cerr).Warn("failed to close upload")
		}
	}()
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return professional.PendingFile{}, err
	}
	return professional.PendingFile{
		Name:     header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

func (c *ProjectFormController) DeleteFile(w http.ResponseWriter, r *http.Request) {
	form, section, ok := c.useSection(w, r)
	if !ok {
		return
	}
	slot, err := professional.ParseSlot(mux.Vars(r)["slot"])
	if err != nil {
		writeHTMLError(w, r, err)
		return
	}
	if err := section.DeleteFile(r.Context(), slot); err != nil {
		writeHTMLError(w, r, err)
		return
	}
	c.renderSection(w, r, form, section.Role(), nil)
}

func (c *ProjectFormController) SubmitRole(w http.ResponseWriter, r *http.Request) {
	form, section, ok := c.useSection(w, r)
	if !ok {
		return
	}
	gate := newHTTPGate(r)
	if _, err := section.Submit(r.Context(), gate); err != nil && statusFor(err) != http.StatusInternalServerError {
		writeHTMLError(w, r, err)
		return
	}
	c.renderSection(w, r, form, section.Role(), gate)
}

func (c *ProjectFormController) Select(w http.ResponseWriter, r *http.Request) {
	form, ok := c.useForm(w, r)
	if !ok {
		return
	}
	dto, err := composables.UseForm(&selectionDTO{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	role, err := professional.ParseRoleType(dto.Role)
	if err != nil {
		writeHTMLError(w, r, err)
		return
	}
	id := uuid.Nil
	if dto.ProfessionalID != "" {
		if id, err = uuid.Parse(dto.ProfessionalID); err != nil {
			http.Error(w, "invalid professional id", http.StatusBadRequest)
			return
		}
	}
	if err := form.Select(role, id); err != nil {
		writeHTMLError(w, r, err)
		return
	}
	c.renderSection(w, r, form, role, nil)
}

func (c *ProjectFormController) SetProjectField(w http.ResponseWriter, r *http.Request) {
	form, ok := c.useForm(w, r)
	if !ok {
		return
	}
	dto, err := composables.UseForm(&fieldDTO{}, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	field, err := forms.ParseProjectField(dto.Field)
	if err != nil {
		writeHTMLError(w, r, err)
		return
	}
	if err := form.SetProjectField(field, dto.Value); err != nil {
		writeHTMLError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *ProjectFormController) SubmitProject(w http.ResponseWriter, r *http.Request) {
	form, ok := c.useForm(w, r)
	if !ok {
		return
	}
	gate := newHTTPGate(r)
	_, err := form.Submit(r.Context(), gate)
	gate.flush(w)
	if err != nil && statusFor(err) != http.StatusInternalServerError {
		writeHTMLError(w, r, err)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
