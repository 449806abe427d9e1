package forms

import (
	"errors"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
)

const DefaultMaxAttachmentSize int64 = 5 << 20

var defaultAllowedTypes = []string{"image/jpeg", "image/png", "application/pdf"}

type AttachmentPolicy struct {
	MaxSize int64
	Allowed []string
}

func DefaultAttachmentPolicy() AttachmentPolicy {
	return AttachmentPolicy{
		MaxSize: DefaultMaxAttachmentSize,
		Allowed: defaultAllowedTypes,
	}
}

// Check returns the MIME type the file will be stored with. The content is
// sniffed first; the declared type is used only for opaque binary content.
func (p AttachmentPolicy) Check(f professional.PendingFile) (string, error) {
	limit := p.MaxSize
	if limit <= 0 {
		limit = DefaultMaxAttachmentSize
	}
	if f.Size() > limit {
		return "", ErrAttachmentTooLarge.WithTemplateData(map[string]any{
			"Name":  f.Name,
			"Limit": limit >> 20,
		})
	}

	allowed := p.Allowed
	if len(allowed) == 0 {
		allowed = defaultAllowedTypes
	}

	if len(f.Data) > 0 {
		detected := mimetype.Detect(f.Data)
		if !detected.Is("application/octet-stream") {
			for _, a := range allowed {
				if detected.Is(a) {
					return a, nil
				}
			}
			return "", ErrAttachmentType.WithTemplateData(map[string]any{"Name": f.Name})
		}
	}

	declared := normalizeMediaType(f.MimeType)
	for _, a := range allowed {
		if declared == a {
			return a, nil
		}
	}
	return "", ErrAttachmentType.WithTemplateData(map[string]any{"Name": f.Name})
}

func normalizeMediaType(v string) string {
	mt, _, err := mime.ParseMediaType(v)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(v))
	}
	if mt == "image/jpg" {
		return "image/jpeg"
	}
	return mt
}

func rejectionReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAttachmentTooLarge):
		return "too_large"
	default:
		return "type"
	}
}
