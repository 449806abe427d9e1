package forms_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/estatedesk/admin/modules/projects/domain/entities/preview"
	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
	"github.com/estatedesk/admin/modules/projects/presentation/forms"
)

type sectionFixture struct {
	section   *forms.RoleSection
	previews  *preview.MemoryStore
	submitter *submitRecorder
	refreshes int
	clears    int
	disabled  bool
}

func newSectionFixture(t *testing.T, role professional.RoleType) *sectionFixture {
	t.Helper()
	fx := &sectionFixture{
		previews:  preview.NewMemoryStore(),
		submitter: &submitRecorder{ok: true},
	}
	fx.section = forms.NewRoleSection(forms.RoleSectionConfig{
		Role:           role,
		Submit:         fx.submitter.Submit,
		Previews:       fx.previews,
		Policy:         forms.DefaultAttachmentPolicy(),
		Disabled:       func() bool { return fx.disabled },
		ClearSelection: func() { fx.clears++ },
		RefreshCatalog: func(context.Context) { fx.refreshes++ },
	})
	return fx
}

func (fx *sectionFixture) startDraft(t *testing.T, name string) {
	t.Helper()
	require.NoError(t, fx.section.SetMode(forms.ModeAddNew))
	require.NoError(t, fx.section.SetField(professional.FieldName, name))
}

func TestRoleSection_AttachAndSubmit(t *testing.T) {
	ctx := context.Background()
	fx := newSectionFixture(t, professional.Engineer)
	fx.startDraft(t, "Jane Doe")

	png := fileOf("licence.png", "image/png", pngMagic, 2<<20)
	require.NoError(t, fx.section.Attach(ctx, &forms.StaticGate{}, professional.SlotLicence, png))
	fx.section.Wait()

	preview, ok, err := fx.previews.Get(ctx, "engineer_licence_uploaded_url")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "image/png", preview.MimeType)
	require.Contains(t, preview.DataURL, "data:image/png;base64,")

	attached, ok := fx.section.Draft().Attachment(professional.SlotLicence).File()
	require.True(t, ok)
	require.Equal(t, "licence.png", attached.Name)
	require.Len(t, attached.Data, 2<<20)

	gate := &forms.StaticGate{Answer: true}
	submitted, err := fx.section.Submit(ctx, gate)
	require.NoError(t, err)
	require.True(t, submitted)

	require.Equal(t, forms.ModeSelectExisting, fx.section.Mode())
	require.Equal(t, professional.NewDraft(), fx.section.Draft())
	_, ok, err = fx.previews.Get(ctx, "engineer_licence_uploaded_url")
	require.NoError(t, err)
	require.False(t, ok)
	previews, err := fx.section.Previews(ctx)
	require.NoError(t, err)
	require.Empty(t, previews)
	require.Equal(t, 1, fx.refreshes)

	require.Equal(t, 1, fx.submitter.Count())
	sent := fx.submitter.drafts[0]
	require.Equal(t, "Jane Doe", sent.Name)
	require.Len(t, sent.PendingFiles(), 1)
	require.Len(t, gate.Prompts, 1)
	require.Equal(t, []string{"Engineer added"}, gate.Messages)
}

func TestRoleSection_SubmitFailureKeepsDraft(t *testing.T) {
	cases := []struct {
		name    string
		ok      bool
		err     error
		wantErr bool
	}{
		{name: "resolves false", ok: false},
		{name: "rejects", err: errors.New("connection reset"), wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			fx := newSectionFixture(t, professional.Architect)
			fx.submitter.ok = tc.ok
			fx.submitter.err = tc.err
			fx.startDraft(t, "Ar. Mehta")
			require.NoError(t, fx.section.Attach(ctx, nil, professional.SlotPAN, fileOf("pan.pdf", "application/pdf", pdfMagic, 1024)))
			fx.section.Wait()

			before := fx.section.Draft()
			previewsBefore, err := fx.section.Previews(ctx)
			require.NoError(t, err)

			gate := &forms.StaticGate{Answer: true}
			submitted, err := fx.section.Submit(ctx, gate)
			if tc.wantErr {
				require.ErrorIs(t, err, tc.err)
			} else {
				require.NoError(t, err)
			}
			require.False(t, submitted)
			require.Equal(t, forms.ModeAddNew, fx.section.Mode())
			require.Equal(t, before, fx.section.Draft())
			previewsAfter, err := fx.section.Previews(ctx)
			require.NoError(t, err)
			require.Equal(t, previewsBefore, previewsAfter)
			require.Zero(t, fx.refreshes)
			require.Len(t, gate.Messages, 1)
		})
	}
}

func TestRoleSection_SubmitDeclined(t *testing.T) {
	fx := newSectionFixture(t, professional.Accountant)
	fx.startDraft(t, "Ravi")

	submitted, err := fx.section.Submit(context.Background(), &forms.StaticGate{Answer: false})
	require.NoError(t, err)
	require.False(t, submitted)
	require.Zero(t, fx.submitter.Count())
	require.Equal(t, forms.ModeAddNew, fx.section.Mode())
	require.Equal(t, "Ravi", fx.section.Draft().Name)
}

func TestRoleSection_SubmitValidation(t *testing.T) {
	fx := newSectionFixture(t, professional.Engineer)
	require.NoError(t, fx.section.SetMode(forms.ModeAddNew))
	require.NoError(t, fx.section.SetField(professional.FieldEmail, "nope"))

	gate := &forms.StaticGate{Answer: true}
	submitted, err := fx.section.Submit(context.Background(), gate)
	require.NoError(t, err)
	require.False(t, submitted)
	require.Zero(t, fx.submitter.Count())
	require.Len(t, gate.Messages, 2)
	require.Equal(t, forms.ModeAddNew, fx.section.Mode())
}

func TestRoleSection_SubmitRequiresAddNew(t *testing.T) {
	fx := newSectionFixture(t, professional.Engineer)
	_, err := fx.section.Submit(context.Background(), &forms.StaticGate{Answer: true})
	require.ErrorIs(t, err, forms.ErrInvalidMode)
}

func TestRoleSection_AttachRejected(t *testing.T) {
	cases := []struct {
		name string
		file professional.PendingFile
		want error
	}{
		{
			name: "jpeg over 5 MiB",
			file: fileOf("big.jpg", "image/jpeg", jpegMagic, 6<<20),
			want: forms.ErrAttachmentTooLarge,
		},
		{
			name: "one byte over the limit",
			file: fileOf("edge.pdf", "application/pdf", pdfMagic, 5<<20+1),
			want: forms.ErrAttachmentTooLarge,
		},
		{
			name: "gif",
			file: fileOf("anim.gif", "image/gif", []byte("GIF89a"), 64),
			want: forms.ErrAttachmentType,
		},
		{
			name: "declared png but zip content",
			file: fileOf("fake.png", "image/png", []byte("PK\x03\x04"), 64),
			want: forms.ErrAttachmentType,
		},
		{
			name: "text content declared as png",
			file: professional.PendingFile{Name: "notes.png", MimeType: "image/png", Data: []byte("just some notes\n")},
			want: forms.ErrAttachmentType,
		},
		{
			name: "unknown content with disallowed declared type",
			file: professional.PendingFile{Name: "notes.txt", MimeType: "text/plain", Data: []byte("hello")},
			want: forms.ErrAttachmentType,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			fx := newSectionFixture(t, professional.Engineer)
			fx.startDraft(t, "Jane Doe")
			require.NoError(t, fx.section.Attach(ctx, nil, professional.SlotLicence, fileOf("ok.png", "image/png", pngMagic, 512)))
			fx.section.Wait()

			draftBefore := fx.section.Draft()
			previewsBefore, err := fx.section.Previews(ctx)
			require.NoError(t, err)
			versionBefore := fx.section.Version()

			gate := &forms.StaticGate{}
			err = fx.section.Attach(ctx, gate, professional.SlotLicence, tc.file)
			require.ErrorIs(t, err, tc.want)
			fx.section.Wait()

			require.Equal(t, draftBefore, fx.section.Draft())
			previewsAfter, err := fx.section.Previews(ctx)
			require.NoError(t, err)
			require.Equal(t, previewsBefore, previewsAfter)
			require.Equal(t, versionBefore, fx.section.Version())
			require.Len(t, gate.Messages, 1)
		})
	}
}

func TestRoleSection_AttachExactLimitAccepted(t *testing.T) {
	fx := newSectionFixture(t, professional.Engineer)
	fx.startDraft(t, "Jane Doe")
	err := fx.section.Attach(context.Background(), nil, professional.SlotProfile, fileOf("me.jpg", "image/jpeg", jpegMagic, 5<<20))
	require.NoError(t, err)
	fx.section.Wait()
}

func TestRoleSection_DeclaredTypeFallback(t *testing.T) {
	fx := newSectionFixture(t, professional.Engineer)
	fx.startDraft(t, "Jane Doe")
	ctx := context.Background()

	// Content without a recognizable signature is accepted on its declared type.
	file := professional.PendingFile{Name: "scan.pdf", MimeType: "application/pdf; charset=binary", Data: []byte{0x01, 0x02, 0x03}}
	require.NoError(t, fx.section.Attach(ctx, nil, professional.SlotGST, file))
	fx.section.Wait()

	got, ok := fx.section.Draft().Attachment(professional.SlotGST).File()
	require.True(t, ok)
	require.Equal(t, "application/pdf", got.MimeType)
}

func TestRoleSection_LastAttachWins(t *testing.T) {
	ctx := context.Background()
	fx := newSectionFixture(t, professional.Engineer)
	fx.startDraft(t, "Jane Doe")

	require.NoError(t, fx.section.Attach(ctx, nil, professional.SlotLicence, fileOf("first.png", "image/png", pngMagic, 128)))
	require.NoError(t, fx.section.Attach(ctx, nil, professional.SlotLicence, fileOf("second.pdf", "application/pdf", pdfMagic, 128)))
	fx.section.Wait()

	p, ok, err := fx.previews.Get(ctx, preview.Key(professional.Engineer, professional.SlotLicence))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "second.pdf", p.Name)
	require.Equal(t, "application/pdf", p.MimeType)
}

func TestRoleSection_DeleteCancelsPendingPreview(t *testing.T) {
	ctx := context.Background()
	fx := newSectionFixture(t, professional.Engineer)
	fx.startDraft(t, "Jane Doe")

	require.NoError(t, fx.section.Attach(ctx, nil, professional.SlotPAN, fileOf("pan.png", "image/png", pngMagic, 128)))
	require.NoError(t, fx.section.DeleteFile(ctx, professional.SlotPAN))
	fx.section.Wait()

	previews, err := fx.section.Previews(ctx)
	require.NoError(t, err)
	require.Empty(t, previews)
	require.True(t, fx.section.Draft().Attachment(professional.SlotPAN).IsEmpty())
}

func TestRoleSection_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	fx := newSectionFixture(t, professional.Engineer)
	fx.startDraft(t, "Jane Doe")
	require.NoError(t, fx.section.Attach(ctx, nil, professional.SlotGST, fileOf("gst.pdf", "application/pdf", pdfMagic, 256)))
	require.NoError(t, fx.section.Attach(ctx, nil, professional.SlotPAN, fileOf("pan.pdf", "application/pdf", pdfMagic, 256)))
	fx.section.Wait()

	require.NoError(t, fx.section.DeleteFile(ctx, professional.SlotGST))
	onceDraft := fx.section.Draft()
	onceMode := fx.section.Mode()
	oncePreviews, err := fx.section.Previews(ctx)
	require.NoError(t, err)
	onceVersion := fx.section.Version()

	require.NoError(t, fx.section.DeleteFile(ctx, professional.SlotGST))
	twicePreviews, err := fx.section.Previews(ctx)
	require.NoError(t, err)

	require.Equal(t, onceDraft, fx.section.Draft())
	require.Equal(t, onceMode, fx.section.Mode())
	require.Equal(t, oncePreviews, twicePreviews)
	require.Equal(t, onceVersion, fx.section.Version())
	require.Contains(t, twicePreviews, professional.SlotPAN)
	require.NotContains(t, twicePreviews, professional.SlotGST)
}

func TestRoleSection_DisabledRefusesMutations(t *testing.T) {
	ctx := context.Background()
	fx := newSectionFixture(t, professional.Engineer)
	fx.startDraft(t, "Jane Doe")
	require.NoError(t, fx.section.Attach(ctx, nil, professional.SlotLicence, fileOf("l.png", "image/png", pngMagic, 64)))
	fx.section.Wait()

	fx.disabled = true
	draft := fx.section.Draft()
	version := fx.section.Version()

	require.ErrorIs(t, fx.section.SetMode(forms.ModeNone), forms.ErrFormDisabled)
	require.ErrorIs(t, fx.section.SetField(professional.FieldName, "Other"), forms.ErrFormDisabled)
	require.ErrorIs(t, fx.section.Attach(ctx, nil, professional.SlotPAN, fileOf("p.png", "image/png", pngMagic, 64)), forms.ErrFormDisabled)
	require.ErrorIs(t, fx.section.DeleteFile(ctx, professional.SlotLicence), forms.ErrFormDisabled)
	_, err := fx.section.Submit(ctx, &forms.StaticGate{Answer: true})
	require.ErrorIs(t, err, forms.ErrFormDisabled)

	require.Equal(t, forms.ModeAddNew, fx.section.Mode())
	require.Equal(t, draft, fx.section.Draft())
	require.Equal(t, version, fx.section.Version())
	require.Zero(t, fx.clears)
	require.Zero(t, fx.submitter.Count())
}

func TestRoleSection_ModeSwitchKeepsDraft(t *testing.T) {
	fx := newSectionFixture(t, professional.Engineer)
	fx.startDraft(t, "Jane Doe")

	require.NoError(t, fx.section.SetMode(forms.ModeSelectExisting))
	require.Equal(t, "Jane Doe", fx.section.Draft().Name)
	require.Zero(t, fx.clears)

	require.NoError(t, fx.section.SetMode(forms.ModeNone))
	require.Equal(t, 1, fx.clears)
	require.Equal(t, forms.ModeNone, fx.section.Mode())

	require.ErrorIs(t, fx.section.SetMode(forms.Mode(42)), forms.ErrInvalidMode)
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]forms.Mode{
		"select": forms.ModeSelectExisting,
		"none":   forms.ModeNone,
		"ADD":    forms.ModeAddNew,
	} {
		got, err := forms.ParseMode(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
		require.Equal(t, want, must(forms.ParseMode(got.String())))
	}
	_, err := forms.ParseMode("edit")
	require.ErrorIs(t, err, forms.ErrInvalidMode)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// blockingSubmit holds the first submission until release is closed.
type blockingSubmit struct {
	started chan struct{}
	release chan struct{}
}

func newBlockingSubmit() *blockingSubmit {
	return &blockingSubmit{started: make(chan struct{}), release: make(chan struct{})}
}

func (b *blockingSubmit) Submit(ctx context.Context, _ professional.RoleType, _ professional.Draft) (bool, error) {
	close(b.started)
	select {
	case <-b.release:
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func TestRoleSection_SubmitInFlight(t *testing.T) {
	ctx := context.Background()
	loader := newFakeLoader()
	blocker := newBlockingSubmit()
	f := openForm(t, loader, forms.ProjectFormConfig{SubmitRole: blocker.Submit})

	engineer := must(f.Section(professional.Engineer))
	architect := must(f.Section(professional.Architect))
	require.NoError(t, engineer.SetMode(forms.ModeAddNew))
	require.NoError(t, engineer.SetField(professional.FieldName, "Jane Doe"))

	type result struct {
		ok  bool
		err error
	}
	done := make(chan result, 1)
	go func() {
		ok, err := engineer.Submit(ctx, &forms.StaticGate{Answer: true})
		done <- result{ok, err}
	}()
	<-blocker.started

	// Nothing else in the form waits for the submission.
	require.NoError(t, architect.SetMode(forms.ModeAddNew))
	require.NoError(t, architect.SetField(professional.FieldName, "Ar. Mehta"))
	require.NoError(t, engineer.SetField(professional.FieldEmail, "jane@example.com"))
	require.NoError(t, f.Select(professional.Accountant, loader.options[professional.Accountant][0].Value))
	require.NoError(t, f.SetProjectField(forms.ProjectFieldName, "Skyline"))

	ok, err := engineer.Submit(ctx, &forms.StaticGate{Answer: true})
	require.ErrorIs(t, err, forms.ErrSubmitInFlight)
	require.False(t, ok)

	close(blocker.release)
	res := <-done
	require.NoError(t, res.err)
	require.True(t, res.ok)
	require.Equal(t, forms.ModeSelectExisting, engineer.Mode())
	require.Equal(t, forms.ModeAddNew, architect.Mode())
	require.Equal(t, "Ar. Mehta", architect.Draft().Name)
}

// slowStore holds the first Put until release is closed.
type slowStore struct {
	*preview.MemoryStore
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (s *slowStore) Put(ctx context.Context, key string, p preview.Preview) error {
	s.once.Do(func() {
		close(s.entered)
		<-s.release
	})
	return s.MemoryStore.Put(ctx, key, p)
}

func TestRoleSection_PreviewWriteDoesNotBlockEdits(t *testing.T) {
	ctx := context.Background()
	store := &slowStore{
		MemoryStore: preview.NewMemoryStore(),
		entered:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	section := forms.NewRoleSection(forms.RoleSectionConfig{Role: professional.Architect, Previews: store})
	require.NoError(t, section.SetMode(forms.ModeAddNew))

	require.NoError(t, section.Attach(ctx, nil, professional.SlotGST, fileOf("old.png", "image/png", pngMagic, 64)))
	<-store.entered

	edited := make(chan error, 1)
	go func() {
		if err := section.SetField(professional.FieldName, "Ar. Mehta"); err != nil {
			edited <- err
			return
		}
		edited <- section.Attach(ctx, nil, professional.SlotGST, fileOf("new.pdf", "application/pdf", pdfMagic, 64))
	}()
	select {
	case err := <-edited:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("edits waited for the preview store")
	}

	close(store.release)
	section.Wait()

	p, ok, err := store.Get(ctx, preview.Key(professional.Architect, professional.SlotGST))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "new.pdf", p.Name)
	require.Equal(t, "Ar. Mehta", section.Draft().Name)
}
