package serrors

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/iota-uz/go-i18n/v2/i18n"
)

// BaseError is a coded error that can be rendered in the user's language.
type BaseError struct {
	Code         string         `json:"code"`
	Message      string         `json:"message"`
	LocaleKey    string         `json:"-"`
	TemplateData map[string]any `json:"-"`
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{
		Code:      code,
		Message:   message,
		LocaleKey: localeKey,
	}
}

func (e *BaseError) Error() string {
	return e.Message
}

// Is matches on Code so that errors built WithTemplateData still compare equal
// to the sentinel they were derived from.
func (e *BaseError) Is(target error) bool {
	var other *BaseError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

func (e *BaseError) WithTemplateData(data map[string]any) *BaseError {
	return &BaseError{
		Code:         e.Code,
		Message:      e.Message,
		LocaleKey:    e.LocaleKey,
		TemplateData: data,
	}
}

func (e *BaseError) Localize(l *i18n.Localizer) string {
	if l == nil || e.LocaleKey == "" {
		return e.Message
	}
	msg, err := l.Localize(&i18n.LocalizeConfig{
		MessageID:    e.LocaleKey,
		TemplateData: e.TemplateData,
		DefaultMessage: &i18n.Message{
			ID:    e.LocaleKey,
			Other: e.Message,
		},
	})
	if err != nil {
		return e.Message
	}
	return msg
}

// ValidationErrors maps a field name to its validation failure.
type ValidationErrors map[string]*BaseError

func (v ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(v))
}

// ProcessValidatorErrors converts validator output into coded errors. fieldLocaleKey
// maps a struct field to the locale key of its label, or "" when it has none.
func ProcessValidatorErrors(errs validator.ValidationErrors, fieldLocaleKey func(field string) string) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fe := range errs {
		label := fe.Field()
		if key := fieldLocaleKey(fe.Field()); key != "" {
			label = key
		}
		out[fe.Field()] = NewError(
			"VALIDATION_"+fe.Tag(),
			fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()),
			"ValidationErrors."+fe.Tag(),
		).WithTemplateData(map[string]any{
			"Field": label,
			"Param": fe.Param(),
		})
	}
	return out
}

func LocalizeValidationErrors(errs ValidationErrors, l *i18n.Localizer) map[string]string {
	out := make(map[string]string, len(errs))
	for field, err := range errs {
		data := make(map[string]any, len(err.TemplateData))
		for k, v := range err.TemplateData {
			data[k] = v
		}
		if key, ok := data["Field"].(string); ok && l != nil {
			if label, lErr := l.Localize(&i18n.LocalizeConfig{MessageID: key}); lErr == nil {
				data["Field"] = label
			}
		}
		out[field] = err.WithTemplateData(data).Localize(l)
	}
	return out
}
