package projects

import (
	"context"
	"embed"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/estatedesk/admin/modules/projects/domain/aggregates/project"
	"github.com/estatedesk/admin/modules/projects/domain/entities/preview"
	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
	"github.com/estatedesk/admin/modules/projects/infrastructure/persistence"
	"github.com/estatedesk/admin/modules/projects/infrastructure/storage"
	"github.com/estatedesk/admin/modules/projects/presentation/controllers"
	"github.com/estatedesk/admin/modules/projects/presentation/forms"
	"github.com/estatedesk/admin/modules/projects/services"
	"github.com/estatedesk/admin/pkg/application"
	"github.com/estatedesk/admin/pkg/configuration"
	"github.com/estatedesk/admin/pkg/metrics"
)

//go:embed presentation/locales/*.toml
var LocaleFiles embed.FS

//go:embed infrastructure/persistence/schema/*.sql
var MigrationFiles embed.FS

type ModuleOptions struct {
	Forms            configuration.FormOptions
	UploadsPath      string
	UploadsURLPrefix string
	RequestIDHeader  string
	// Redis backs attachment previews when Forms.PreviewBackend is "redis".
	Redis *redis.Client
	// Context bounds the form session sweeper. No sweeper runs when nil.
	Context context.Context
}

func NewModule(opts *ModuleOptions) application.Module {
	if opts == nil {
		opts = &ModuleOptions{}
	}
	return &Module{options: opts}
}

type Module struct {
	options  *ModuleOptions
	sessions *forms.SessionStore
}

func (m *Module) Register(app application.Application) error {
	opts := m.options
	log := app.Logger().WithField("module", m.Name())

	app.Migrations().RegisterSchema(&MigrationFiles)
	app.RegisterLocaleFiles(&LocaleFiles)

	professionalRepo := persistence.NewProfessionalRepository()
	projectRepo := persistence.NewProjectRepository()
	uploads := storage.NewFSStorage(opts.UploadsPath, opts.UploadsURLPrefix)

	app.RegisterServices(
		services.NewProfessionalService(professionalRepo, uploads, app.EventPublisher()),
		services.NewProjectService(projectRepo, app.EventPublisher()),
		services.NewCatalogService(professionalRepo, opts.Forms.CatalogTimeout),
		services.NewExportService(professionalRepo, projectRepo),
	)

	ttl := opts.Forms.SessionTTL
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	m.sessions = forms.NewSessionStore(ttl, log.WithField("component", "form_sessions"))
	if opts.Context != nil {
		go m.sessions.Run(opts.Context, opts.Forms.SweepInterval)
	}

	policy := forms.DefaultAttachmentPolicy()
	if opts.Forms.MaxAttachmentSize > 0 {
		policy.MaxSize = opts.Forms.MaxAttachmentSize
	}

	app.RegisterControllers(
		controllers.NewProjectFormController(app, controllers.ProjectFormControllerOptions{
			Sessions: m.sessions,
			Previews: m.previewFactory(log),
			Policy:   policy,
		}),
		controllers.NewProjectAPIController(app, controllers.ProjectAPIControllerOptions{
			RequestIDHeader: opts.RequestIDHeader,
			UploadsPrefix:   uploads.URLPrefix(),
			Uploads:         uploads.Handler(),
		}),
	)

	subscribe(app, log)
	app.RegisterNavItems(NavItems...)
	return nil
}

func (m *Module) previewFactory(log *logrus.Entry) preview.Factory {
	if m.options.Forms.PreviewBackend == "redis" {
		if m.options.Redis != nil {
			return persistence.RedisPreviewFactory(m.options.Redis, m.options.Forms.PreviewTTL)
		}
		log.Warn("redis preview backend requested without a client, using memory")
	}
	return preview.MemoryFactory()
}

func subscribe(app application.Application, log *logrus.Entry) {
	bus := app.EventPublisher()
	bus.Subscribe(func(e *professional.CreatedEvent) {
		metrics.ProfessionalsCreated.WithLabelValues(string(e.Result.Role())).Inc()
		log.WithFields(logrus.Fields{
			"role":            string(e.Result.Role()),
			"professional_id": e.Result.ID().String(),
		}).Info("professional created")
	})
	bus.Subscribe(func(e *project.UpdatedEvent) {
		kind := "updated"
		if e.Before.ID() != e.Result.ID() {
			kind = "created"
		}
		metrics.ProjectsSaved.WithLabelValues(kind).Inc()
		log.WithFields(logrus.Fields{
			"project_id": e.Result.ID().String(),
			"kind":       kind,
		}).Info("project saved")
	})
}

func (m *Module) Name() string {
	return "projects"
}
