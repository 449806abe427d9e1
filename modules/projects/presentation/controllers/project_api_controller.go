package controllers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
	"github.com/estatedesk/admin/modules/projects/presentation/mappers"
	"github.com/estatedesk/admin/modules/projects/services"
	"github.com/estatedesk/admin/pkg/application"
	"github.com/estatedesk/admin/pkg/composables"
	"github.com/estatedesk/admin/pkg/httpapi"
	"github.com/estatedesk/admin/pkg/middleware"
)

type ProjectAPIControllerOptions struct {
	RequestIDHeader string
	// UploadsPrefix and Uploads serve stored professional documents.
	UploadsPrefix string
	Uploads       http.Handler
}

type ProjectAPIController struct {
	app                 application.Application
	catalogService      *services.CatalogService
	professionalService *services.ProfessionalService
	exportService       *services.ExportService
	opts                ProjectAPIControllerOptions
	basePath            string
}

type optionsQuery struct {
	Role   string `form:"role"`
	Q      string `form:"q"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

func (q *optionsQuery) search() bool {
	return q.Q != "" || q.Limit > 0 || q.Offset > 0
}

func NewProjectAPIController(app application.Application, opts ProjectAPIControllerOptions) application.Controller {
	if opts.RequestIDHeader == "" {
		opts.RequestIDHeader = middleware.DefaultLoggerOptions().RequestIDHeader
	}
	return &ProjectAPIController{
		app:                 app,
		catalogService:      app.Service(services.CatalogService{}).(*services.CatalogService),
		professionalService: app.Service(services.ProfessionalService{}).(*services.ProfessionalService),
		exportService:       app.Service(services.ExportService{}).(*services.ExportService),
		opts:                opts,
		basePath:            "/projects",
	}
}

func (c *ProjectAPIController) Key() string {
	return c.basePath + "/api"
}

func (c *ProjectAPIController) Register(r *mux.Router) {
	api := r.PathPrefix(c.basePath + "/api").Subrouter()
	api.Use(middleware.ProvideLocalizer(c.app))
	api.HandleFunc("/professionals:options", c.Options).Methods(http.MethodGet)

	r.HandleFunc(c.basePath+"/export.xlsx", c.Export).Methods(http.MethodGet)

	if c.opts.Uploads != nil && c.opts.UploadsPrefix != "" {
		r.PathPrefix(c.opts.UploadsPrefix + "/").Handler(c.opts.Uploads)
	}
}

func (c *ProjectAPIController) Options(w http.ResponseWriter, r *http.Request) {
	q, err := composables.UseQuery(&optionsQuery{}, r)
	if err != nil {
		writeAPIError(w, r, c.opts.RequestIDHeader, err)
		return
	}
	if q.Role == "" && !q.search() {
		c.allOptions(w, r)
		return
	}
	// Searching needs a role: options are always offered for one select.
	role, err := professional.ParseRoleType(q.Role)
	if err != nil {
		writeAPIError(w, r, c.opts.RequestIDHeader, err)
		return
	}
	var opts []professional.RoleOption
	if q.search() {
		opts, err = c.professionalService.SearchOptions(r.Context(), &professional.FindParams{
			Role:   role,
			Q:      q.Q,
			Limit:  q.Limit,
			Offset: q.Offset,
		})
	} else {
		opts, err = c.catalogService.FetchRole(r.Context(), role)
	}
	if err != nil {
		writeAPIError(w, r, c.opts.RequestIDHeader, err)
		return
	}
	if err := httpapi.WriteJSON(w, http.StatusOK, mappers.OptionsToResponse(opts)); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("failed to write options response")
	}
}

// allOptions answers with every role's catalog, keyed by role.
func (c *ProjectAPIController) allOptions(w http.ResponseWriter, r *http.Request) {
	catalogs, err := c.catalogService.FetchOptions(r.Context())
	if err != nil {
		writeAPIError(w, r, c.opts.RequestIDHeader, err)
		return
	}
	out := make(map[string]any, len(catalogs))
	for role, opts := range catalogs {
		out[string(role)] = mappers.OptionsToResponse(opts)
	}
	if err := httpapi.WriteJSON(w, http.StatusOK, out); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("failed to write options response")
	}
}

func (c *ProjectAPIController) Export(w http.ResponseWriter, r *http.Request) {
	wb, err := c.exportService.Build(r.Context())
	if err != nil {
		writeAPIError(w, r, c.opts.RequestIDHeader, err)
		return
	}
	defer func() {
		if err := wb.Close(); err != nil {
			composables.UseLogger(r.Context()).WithError(err).Warn("failed to close workbook")
		}
	}()

	name := "projects-" + time.Now().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := wb.Write(w); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Error("failed to stream export")
	}
}
