package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iota-uz/go-i18n/v2/i18n"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/estatedesk/admin/pkg/composables"
	"github.com/estatedesk/admin/pkg/intl"
)

func TestWithLogger_SetsRequestIDAndLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetLevel(logrus.InfoLevel)

	var sawLogger bool
	h := WithLogger(logger, DefaultLoggerOptions())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry := composables.UseLogger(r.Context())
		sawLogger = entry.Data["request-id"] == "req-1"
		w.WriteHeader(http.StatusAccepted)
	}))

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.True(t, sawLogger)
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))
	require.Contains(t, buf.String(), "request completed")
}

func TestWithLogger_RecoversPanic(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	h := WithLogger(logger, DefaultLoggerOptions())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects/api/x", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
}

type localeSource struct{ bundle *i18n.Bundle }

func (l localeSource) Bundle() *i18n.Bundle            { return l.bundle }
func (l localeSource) GetSupportedLanguages() []string { return []string{"en", "zh"} }

func TestProvideLocalizer_PicksAcceptLanguage(t *testing.T) {
	var got language.Tag
	var hasLocalizer bool
	h := ProvideLocalizer(localeSource{bundle: i18n.NewBundle(language.English)})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = intl.UseLocale(r.Context())
			_, hasLocalizer = intl.UseLocalizer(r.Context())
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, hasLocalizer)
	require.Equal(t, language.Chinese, got)
}
