package projects_test

import (
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatedesk/admin/modules/projects"
	"github.com/estatedesk/admin/modules/projects/domain/aggregates/project"
	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
	"github.com/estatedesk/admin/modules/projects/services"
	"github.com/estatedesk/admin/pkg/application"
	"github.com/estatedesk/admin/pkg/configuration"
	"github.com/estatedesk/admin/pkg/metrics"
)

func newApp(t *testing.T) application.Application {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	app := application.New(&application.ApplicationOptions{Logger: logger})
	module := projects.NewModule(&projects.ModuleOptions{
		Forms:            configuration.FormOptions{PreviewBackend: "memory"},
		UploadsPath:      t.TempDir(),
		UploadsURLPrefix: "/uploads",
	})
	require.NoError(t, module.Register(app))
	return app
}

func TestModule_Register(t *testing.T) {
	app := newApp(t)

	keys := make([]string, 0)
	for _, c := range app.Controllers() {
		keys = append(keys, c.Key())
	}
	assert.Equal(t, []string{"/projects", "/projects/api"}, keys)
	assert.NotPanics(t, func() {
		_ = app.Service(services.CatalogService{}).(*services.CatalogService)
		_ = app.Service(services.ExportService{}).(*services.ExportService)
	})
	require.Len(t, app.NavItems(nil), 1)
}

func TestModule_Locales(t *testing.T) {
	app := newApp(t)

	zh := i18n.NewLocalizer(app.Bundle(), "zh")
	msg, err := zh.Localize(&i18n.LocalizeConfig{MessageID: "ProjectForm.NotAvailable"})
	require.NoError(t, err)
	assert.Equal(t, "暂无", msg)

	en := i18n.NewLocalizer(app.Bundle(), "en")
	msg, err = en.Localize(&i18n.LocalizeConfig{
		MessageID:    "ProjectForm.Notifications.RoleAdded",
		TemplateData: map[string]any{"Role": "Engineer"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Engineer added", msg)

	assert.Equal(t, "Projects", app.NavItems(en)[0].Name)
}

func TestModule_EventSubscribers(t *testing.T) {
	app := newApp(t)

	created := metrics.ProfessionalsCreated.WithLabelValues(string(professional.Architect))
	before := testutil.ToFloat64(created)
	app.EventPublisher().Publish(professional.NewCreatedEvent(professional.New(professional.Architect, "Lena")))
	assert.InDelta(t, before+1, testutil.ToFloat64(created), 0.001)

	saved := metrics.ProjectsSaved.WithLabelValues("created")
	before = testutil.ToFloat64(saved)
	app.EventPublisher().Publish(project.NewUpdatedEvent(project.New(""), project.New("Skyline", project.WithID(uuid.New()))))
	assert.InDelta(t, before+1, testutil.ToFloat64(saved), 0.001)
}
