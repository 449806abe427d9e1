package server_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estatedesk/admin/internal/server"
	"github.com/estatedesk/admin/pkg/application"
	"github.com/estatedesk/admin/pkg/configuration"
)

func TestDefault_NotFound(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	app := application.New(&application.ApplicationOptions{Logger: logger})

	srv, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: &configuration.Configuration{RequestIDHeader: "X-Request-ID", RealIPHeader: "X-Real-IP"},
		Application:   app,
	})
	require.NoError(t, err)
	h := srv.Router()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects/api/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"NOT_FOUND"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "404 page not found")
}
