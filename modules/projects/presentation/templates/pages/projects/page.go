package projects

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/estatedesk/admin/modules/projects/presentation/viewmodels"
	"github.com/estatedesk/admin/pkg/intl"
)

type ProfessionalsPageProps struct {
	Page *viewmodels.ProjectPage
}

// ProfessionalsPage is the full document for a project form session.
func ProfessionalsPage(props ProfessionalsPageProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := props.Page
		h := &htmlWriter{w: w}

		h.raw(`<!DOCTYPE html><html`)
		h.attr("lang", intl.UseLocale(ctx).String())
		h.raw(`><head><meta charset="utf-8"><title>`)
		h.text(p.Title)
		h.raw(`</title><script src="https://unpkg.com/htmx.org@1.9.12" defer></script>`)
		h.raw(`<script>document.addEventListener("keydown",function(e){` +
			`if(e.key!=="Enter"||!e.target.dataset.nextFocus)return;` +
			`var n=document.getElementById(e.target.dataset.nextFocus);if(n){e.preventDefault();n.focus();}});` +
			`document.addEventListener("notify",function(e){` +
			`(e.detail.value||[]).forEach(function(m){alert(m)})});</script>`)
		h.raw(`</head><body class="mx-auto max-w-5xl p-6">`)

		h.raw(`<main class="flex flex-col gap-6"`)
		h.attr("data-session", p.SessionID)
		h.raw(`><h1 class="text-2xl font-semibold">`)
		h.text(p.Title)
		h.raw(`</h1>`)

		if h.err == nil {
			h.err = ProjectFields(p).Render(ctx, w)
		}
		for _, s := range p.Sections {
			if h.err != nil {
				break
			}
			h.err = RoleSection(RoleSectionProps{Section: s}).Render(ctx, w)
		}

		h.raw(`<div class="flex gap-3">`)
		if !p.Disabled {
			h.raw(`<button type="button" class="btn btn-primary"`)
			h.attr("hx-post", p.SubmitURL)
			h.attr("hx-confirm", intl.T(ctx, "ProjectForm.Confirm.Submit", "Save the project?", nil))
			h.raw(` hx-vals='{"confirmed":"true"}' hx-swap="none">`)
			h.text(intl.T(ctx, "ProjectForm.Save", "Save", nil))
			h.raw(`</button>`)
		}
		if p.ExportURL != "" {
			h.raw(`<a class="btn btn-secondary"`)
			h.attr("href", p.ExportURL)
			h.raw(`>`)
			h.text(intl.T(ctx, "ProjectForm.Export", "Export", nil))
			h.raw(`</a>`)
		}
		h.raw(`</div></main></body></html>`)
		return h.err
	})
}

// ProjectFields renders the project metadata block.
func ProjectFields(p *viewmodels.ProjectPage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<div class="grid grid-cols-3 gap-3" id="project-fields">`)
		for _, f := range p.Fields {
			h.raw(`<label class="flex flex-col gap-1 text-sm"`)
			h.attr("for", f.ID)
			h.raw(`>`)
			h.text(f.Label)
			if f.Name == "status" {
				h.raw(`<select class="form-select" name="value"`)
				h.attr("id", f.ID)
				h.flag("disabled", p.Disabled)
				writeProjectFieldHx(h, p, f)
				h.raw(`>`)
				for _, o := range p.Statuses {
					h.raw(`<option`)
					h.attr("value", o.Value)
					h.flag("selected", o.Selected)
					h.raw(`>`)
					h.text(o.Label)
					h.raw(`</option>`)
				}
				h.raw(`</select>`)
			} else {
				h.raw(`<input class="form-input" name="value"`)
				h.attr("id", f.ID)
				h.attr("type", f.InputType)
				h.attr("value", f.Value)
				h.flag("readonly", p.Disabled)
				writeProjectFieldHx(h, p, f)
				h.raw(`>`)
			}
			h.raw(`</label>`)
		}
		h.raw(`</div>`)
		return h.err
	})
}

func writeProjectFieldHx(h *htmlWriter, p *viewmodels.ProjectPage, f viewmodels.Field) {
	if next, ok := p.Focus.Next(f.ID); ok {
		h.attr("data-next-focus", next)
	}
	if p.Disabled {
		return
	}
	h.attr("hx-post", p.FieldsURL)
	h.attr("hx-vals", `{"field":"`+f.Name+`"}`)
	h.raw(` hx-trigger="change" hx-swap="none"`)
}
