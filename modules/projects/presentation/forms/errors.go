package forms

import "github.com/estatedesk/admin/pkg/serrors"

var (
	ErrFormDisabled    = serrors.NewError("FORM_DISABLED", "form is read-only", "ProjectForm.Errors.Disabled")
	ErrInvalidMode     = serrors.NewError("FORM_INVALID_MODE", "operation is not allowed in the current mode", "ProjectForm.Errors.InvalidMode")
	ErrUnknownOption   = serrors.NewError("FORM_UNKNOWN_OPTION", "professional is not in the current catalog", "ProjectForm.Errors.UnknownOption")
	ErrUnknownField    = serrors.NewError("FORM_UNKNOWN_FIELD", "unknown project field", "ProjectForm.Errors.UnknownField")
	ErrSubmitInFlight  = serrors.NewError("FORM_SUBMIT_IN_FLIGHT", "a submission is already in progress", "ProjectForm.Errors.SubmitInFlight")
	ErrSessionNotFound = serrors.NewError("FORM_SESSION_NOT_FOUND", "form session expired or does not exist", "ProjectForm.Errors.SessionNotFound")

	ErrAttachmentTooLarge = serrors.NewError("ATTACHMENT_TOO_LARGE", "file is larger than the allowed size", "ProjectForm.Errors.AttachmentTooLarge")
	ErrAttachmentType     = serrors.NewError("ATTACHMENT_TYPE", "only JPEG, PNG and PDF files are accepted", "ProjectForm.Errors.AttachmentType")
)
