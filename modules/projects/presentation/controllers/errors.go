package controllers

import (
	"errors"
	"net/http"

	"github.com/estatedesk/admin/modules/projects/domain/aggregates/project"
	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
	"github.com/estatedesk/admin/modules/projects/presentation/forms"
	"github.com/estatedesk/admin/pkg/composables"
	"github.com/estatedesk/admin/pkg/httpapi"
	"github.com/estatedesk/admin/pkg/intl"
	"github.com/estatedesk/admin/pkg/serrors"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, forms.ErrSessionNotFound),
		errors.Is(err, professional.ErrNotFound),
		errors.Is(err, project.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, forms.ErrFormDisabled):
		return http.StatusForbidden
	case errors.Is(err, forms.ErrInvalidMode),
		errors.Is(err, forms.ErrSubmitInFlight):
		return http.StatusConflict
	case errors.Is(err, forms.ErrAttachmentTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, forms.ErrAttachmentType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, forms.ErrUnknownOption),
		errors.Is(err, forms.ErrUnknownField),
		errors.Is(err, professional.ErrUnknownRole),
		errors.Is(err, professional.ErrUnknownField),
		errors.Is(err, professional.ErrUnknownSlot):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(err error) string {
	var base *serrors.BaseError
	if errors.As(err, &base) {
		return base.Code
	}
	switch statusFor(err) {
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

func errorMessage(r *http.Request, err error) string {
	var base *serrors.BaseError
	if errors.As(err, &base) {
		l, _ := intl.UseLocalizer(r.Context())
		return base.Localize(l)
	}
	if statusFor(err) == http.StatusInternalServerError {
		return intl.T(r.Context(), "Errors.Internal", "internal server error", nil)
	}
	return err.Error()
}

func writeHTMLError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		composables.UseLogger(r.Context()).WithError(err).Error("project form request failed")
	}
	http.Error(w, errorMessage(r, err), status)
}

func writeAPIError(w http.ResponseWriter, r *http.Request, requestIDHeader string, err error) {
	status := statusFor(err)
	logger := composables.UseLogger(r.Context())
	if status == http.StatusInternalServerError {
		logger.WithError(err).Error("projects api request failed")
	}
	meta := map[string]string{
		"request_id": w.Header().Get(requestIDHeader),
	}
	if err := httpapi.WriteError(w, status, errorCode(err), errorMessage(r, err), meta); err != nil {
		logger.WithError(err).Warn("failed to write error response")
	}
}
