package projects

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/estatedesk/admin/modules/projects/presentation/viewmodels"
	"github.com/estatedesk/admin/pkg/intl"
)

type RoleSectionProps struct {
	Section *viewmodels.RoleSection
}

// RoleSection renders one role's fragment. Every control swaps the whole
// fragment so the server-side section stays the only source of truth.
func RoleSection(props RoleSectionProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		s := props.Section
		h := &htmlWriter{w: w}

		h.raw(`<section class="flex flex-col gap-4 rounded-lg border border-gray-200 p-4"`)
		h.attr("id", s.DOMID())
		h.attr("data-role", s.Role)
		h.attr("data-mode", s.Mode)
		h.raw(`>`)
		h.raw(`<h3 class="text-lg font-medium">`)
		h.text(s.Label)
		h.raw(`</h3>`)

		if !s.Disabled {
			writeModeSwitch(ctx, h, s)
		}
		if s.Mode == "select" || s.Disabled {
			writeSelect(ctx, h, s)
		}

		switch {
		case s.Placeholder:
			h.raw(`<p class="text-sm text-gray-500" data-placeholder="true">`)
			h.text(intl.T(ctx, "ProjectForm.NotAvailable", "not available", nil))
			h.raw(`</p>`)
		case s.ShowFields:
			writeFields(ctx, h, s)
			writeFiles(ctx, h, s)
			if !s.Disabled {
				writeSubmit(ctx, h, s)
			}
		}

		h.raw(`</section>`)
		return h.err
	})
}

func writeModeSwitch(ctx context.Context, h *htmlWriter, s *viewmodels.RoleSection) {
	modes := []struct{ value, key, fallback string }{
		{"select", "ProjectForm.Modes.Select", "Select existing"},
		{"none", "ProjectForm.Modes.None", "None"},
		{"add", "ProjectForm.Modes.Add", "Add new"},
	}
	h.raw(`<div class="flex gap-2" role="radiogroup">`)
	for _, m := range modes {
		h.raw(`<label class="flex items-center gap-1"><input type="radio"`)
		h.attr("name", s.Role+"_mode")
		h.attr("value", m.value)
		h.flag("checked", s.Mode == m.value)
		h.attr("hx-post", s.BaseURL+"/mode")
		h.attr("hx-vals", `{"mode":"`+m.value+`"}`)
		h.attr("hx-target", "#"+s.DOMID())
		h.raw(` hx-swap="outerHTML">`)
		h.text(intl.T(ctx, m.key, m.fallback, nil))
		h.raw(`</label>`)
	}
	h.raw(`</div>`)
}

func writeSelect(ctx context.Context, h *htmlWriter, s *viewmodels.RoleSection) {
	h.raw(`<select class="form-select" name="professional_id"`)
	h.attr("id", s.Role+"_professional_id")
	h.flag("disabled", s.Disabled)
	h.attr("hx-post", s.SelectURL)
	h.attr("hx-vals", `{"role":"`+s.Role+`"}`)
	h.attr("hx-target", "#"+s.DOMID())
	h.raw(` hx-swap="outerHTML">`)
	h.raw(`<option value="">`)
	h.text(intl.T(ctx, "ProjectForm.SelectPlaceholder", "Choose...", nil))
	h.raw(`</option>`)
	for _, o := range s.Options {
		h.raw(`<option`)
		h.attr("value", o.Value)
		h.flag("selected", o.Selected)
		h.raw(`>`)
		h.text(o.Label)
		h.raw(`</option>`)
	}
	h.raw(`</select>`)
}

func writeFields(ctx context.Context, h *htmlWriter, s *viewmodels.RoleSection) {
	h.raw(`<div class="grid grid-cols-2 gap-3">`)
	for _, f := range s.Fields {
		h.raw(`<label class="flex flex-col gap-1 text-sm"`)
		h.attr("for", f.ID)
		h.raw(`>`)
		h.text(f.Label)
		h.raw(`<input class="form-input"`)
		h.attr("id", f.ID)
		h.attr("name", "value")
		h.attr("type", f.InputType)
		h.attr("value", f.Value)
		h.flag("readonly", s.Disabled)
		if next, ok := s.Focus.Next(f.ID); ok {
			h.attr("data-next-focus", next)
		}
		if !s.Disabled {
			h.attr("hx-post", s.BaseURL+"/fields")
			h.attr("hx-vals", `{"field":"`+f.Name+`"}`)
			h.raw(` hx-trigger="change" hx-swap="none"`)
		}
		h.raw(`>`)
		if f.Error != "" {
			h.raw(`<span class="text-xs text-red-600">`)
			h.text(f.Error)
			h.raw(`</span>`)
		}
		h.raw(`</label>`)
	}
	h.raw(`</div>`)
}

func writeFiles(ctx context.Context, h *htmlWriter, s *viewmodels.RoleSection) {
	h.raw(`<div class="grid grid-cols-2 gap-3">`)
	for _, f := range s.Files {
		h.raw(`<div class="flex flex-col gap-1 text-sm"`)
		h.attr("id", f.Key)
		h.attr("data-state", f.State)
		h.raw(`><span>`)
		h.text(f.Label)
		h.raw(`</span>`)

		switch {
		case f.PreviewURL != "" && f.IsImage():
			h.raw(`<img class="h-24 w-24 object-cover"`)
			h.attr("src", f.PreviewURL)
			h.attr("alt", f.FileName)
			h.raw(`>`)
		case f.PreviewURL != "":
			h.raw(`<a target="_blank"`)
			h.attr("href", f.PreviewURL)
			h.raw(`>`)
			h.text(f.FileName)
			h.raw(`</a>`)
		case f.URL != "":
			h.raw(`<a target="_blank"`)
			h.attr("href", f.URL)
			h.raw(`>`)
			h.text(f.FileName)
			h.raw(`</a>`)
		case f.FileName != "":
			h.text(f.FileName)
		}

		if !s.Disabled {
			if f.State == "empty" {
				h.raw(`<input type="file" name="file" accept="image/jpeg,image/png,application/pdf"`)
				h.attr("hx-post", s.BaseURL+"/files/"+f.Slot)
				h.attr("hx-target", "#"+s.DOMID())
				h.raw(` hx-swap="outerHTML" hx-encoding="multipart/form-data">`)
			} else {
				h.raw(`<button type="button" class="text-red-600"`)
				h.attr("hx-delete", s.BaseURL+"/files/"+f.Slot)
				h.attr("hx-target", "#"+s.DOMID())
				h.raw(` hx-swap="outerHTML">`)
				h.text(intl.T(ctx, "ProjectForm.RemoveFile", "Remove", nil))
				h.raw(`</button>`)
			}
		}
		h.raw(`</div>`)
	}
	h.raw(`</div>`)
}

func writeSubmit(ctx context.Context, h *htmlWriter, s *viewmodels.RoleSection) {
	if s.Mode != "add" {
		return
	}
	prompt := intl.T(ctx, "ProjectForm.Confirm.SubmitRole", "Add this "+s.Label+"?", map[string]any{"Role": s.Label})
	h.raw(`<button type="button" class="btn btn-primary"`)
	h.attr("hx-post", s.BaseURL+"/submit")
	h.attr("hx-confirm", prompt)
	h.raw(` hx-vals='{"confirmed":"true"}'`)
	h.attr("hx-target", "#"+s.DOMID())
	h.raw(` hx-swap="outerHTML">`)
	h.text(intl.T(ctx, "ProjectForm.AddRole", "Add "+s.Label, map[string]any{"Role": s.Label}))
	h.raw(`</button>`)
}
