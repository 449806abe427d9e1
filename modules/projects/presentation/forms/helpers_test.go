package forms_test

import (
	"bytes"
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
)

var (
	pngMagic  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegMagic = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
	pdfMagic  = []byte("%PDF-1.4\n")
)

func fileOf(name, mimeType string, magic []byte, size int) professional.PendingFile {
	data := make([]byte, 0, size)
	data = append(data, magic...)
	if size > len(data) {
		data = append(data, bytes.Repeat([]byte{0}, size-len(data))...)
	}
	return professional.PendingFile{Name: name, MimeType: mimeType, Data: data}
}

type fakeLoader struct {
	mu      sync.Mutex
	options map[professional.RoleType][]professional.RoleOption
	errs    map[professional.RoleType]error
	calls   map[professional.RoleType]int
}

func newFakeLoader() *fakeLoader {
	l := &fakeLoader{
		options: make(map[professional.RoleType][]professional.RoleOption),
		errs:    make(map[professional.RoleType]error),
		calls:   make(map[professional.RoleType]int),
	}
	for _, role := range professional.RoleTypes {
		l.options[role] = []professional.RoleOption{
			{Label: role.Title() + " One", Value: uuid.New()},
			{Label: role.Title() + " Two", Value: uuid.New()},
		}
	}
	return l
}

func (l *fakeLoader) FetchRole(_ context.Context, role professional.RoleType) ([]professional.RoleOption, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[role]++
	if err := l.errs[role]; err != nil {
		return nil, err
	}
	return append([]professional.RoleOption(nil), l.options[role]...), nil
}

func (l *fakeLoader) Calls(role professional.RoleType) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[role]
}

type submitRecorder struct {
	mu     sync.Mutex
	ok     bool
	err    error
	drafts []professional.Draft
}

func (r *submitRecorder) Submit(_ context.Context, _ professional.RoleType, d professional.Draft) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts = append(r.drafts, d)
	return r.ok, r.err
}

func (r *submitRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.drafts)
}
