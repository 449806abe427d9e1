package professional

import (
	"fmt"
	"strings"
)

// Slot names one of the four document uploads a professional carries.
type Slot string

const (
	SlotLicence Slot = "licence_uploaded_url"
	SlotPAN     Slot = "pan_uploaded_url"
	SlotGST     Slot = "gst_uploaded_url"
	SlotProfile Slot = "profile_uploaded_url"
)

var Slots = []Slot{SlotLicence, SlotPAN, SlotGST, SlotProfile}

func ParseSlot(v string) (Slot, error) {
	s := Slot(strings.TrimSpace(v))
	if s.index() < 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownSlot, v)
	}
	return s, nil
}

func (s Slot) index() int {
	for i, slot := range Slots {
		if slot == s {
			return i
		}
	}
	return -1
}

func (s Slot) LocaleKey() string {
	return "Professionals.Slots." + string(s)
}

// PendingFile is a file chosen in the form but not yet persisted.
type PendingFile struct {
	Name     string
	MimeType string
	Data     []byte
}

func (f PendingFile) Size() int64 {
	return int64(len(f.Data))
}

type AttachmentKind int

const (
	AttachmentEmpty AttachmentKind = iota
	AttachmentPending
	AttachmentRemote
)

func (k AttachmentKind) String() string {
	switch k {
	case AttachmentPending:
		return "pending"
	case AttachmentRemote:
		return "remote"
	default:
		return "empty"
	}
}

// Attachment is the content of a slot: nothing, a pending local file or the
// URL of an already persisted document.
type Attachment struct {
	kind AttachmentKind
	file *PendingFile
	url  string
}

func EmptyAttachment() Attachment {
	return Attachment{}
}

func PendingAttachment(f PendingFile) Attachment {
	return Attachment{kind: AttachmentPending, file: &f}
}

func RemoteAttachment(url string) Attachment {
	if strings.TrimSpace(url) == "" {
		return EmptyAttachment()
	}
	return Attachment{kind: AttachmentRemote, url: url}
}

func (a Attachment) Kind() AttachmentKind { return a.kind }
func (a Attachment) IsEmpty() bool        { return a.kind == AttachmentEmpty }

func (a Attachment) File() (PendingFile, bool) {
	if a.kind != AttachmentPending || a.file == nil {
		return PendingFile{}, false
	}
	return *a.file, true
}

func (a Attachment) URL() (string, bool) {
	if a.kind != AttachmentRemote {
		return "", false
	}
	return a.url, true
}
