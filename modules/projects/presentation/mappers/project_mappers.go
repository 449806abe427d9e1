package mappers

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/estatedesk/admin/modules/projects/domain/aggregates/project"
	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
	"github.com/estatedesk/admin/modules/projects/presentation/forms"
	"github.com/estatedesk/admin/modules/projects/presentation/viewmodels"
	"github.com/estatedesk/admin/pkg/intl"
)

var fieldLabels = map[professional.Field]string{
	professional.FieldName:          "Name",
	professional.FieldContactNumber: "Contact number",
	professional.FieldEmail:         "Email",
	professional.FieldAddress:       "Address",
	professional.FieldLicenceNumber: "Licence number",
	professional.FieldTaxID:         "Tax ID",
}

var slotLabels = map[professional.Slot]string{
	professional.SlotLicence: "Licence",
	professional.SlotPAN:     "PAN card",
	professional.SlotGST:     "GST certificate",
	professional.SlotProfile: "Profile photo",
}

var projectFieldLabels = map[forms.ProjectField]string{
	forms.ProjectFieldName:       "Project name",
	forms.ProjectFieldLocation:   "Location",
	forms.ProjectFieldReraNumber: "RERA number",
	forms.ProjectFieldStatus:     "Status",
	forms.ProjectFieldProgress:   "Progress (%)",
	forms.ProjectFieldBudget:     "Budget",
}

var statusLabels = map[project.Status]string{
	project.StatusPlanned:           "Planned",
	project.StatusUnderConstruction: "Under construction",
	project.StatusCompleted:         "Completed",
	project.StatusOnHold:            "On hold",
}

func FieldID(role professional.RoleType, field professional.Field) string {
	return string(role) + "_" + string(field)
}

func ProjectFieldID(field forms.ProjectField) string {
	return "project_" + string(field)
}

func RoleLabel(ctx context.Context, role professional.RoleType) string {
	return intl.T(ctx, role.LocaleKey(), role.Title(), nil)
}

func RoleSectionToViewModel(ctx context.Context, snap forms.SectionSnapshot, baseURL, selectURL string) *viewmodels.RoleSection {
	vm := &viewmodels.RoleSection{
		Role:        string(snap.Role),
		Label:       snap.Label,
		Mode:        snap.Mode.String(),
		Disabled:    snap.Disabled,
		Placeholder: snap.Placeholder(),
		ShowFields:  snap.ShowFields(),
		BaseURL:     baseURL,
		SelectURL:   selectURL,
	}
	if snap.SelectedID != uuid.Nil {
		vm.SelectedID = snap.SelectedID.String()
	}

	vm.Options = make([]viewmodels.Option, 0, len(snap.Options))
	for _, o := range snap.Options {
		vm.Options = append(vm.Options, viewmodels.Option{
			Label:    o.Label,
			Value:    o.Value.String(),
			Selected: o.Value == snap.SelectedID,
		})
	}

	if !vm.ShowFields {
		return vm
	}

	vm.Fields = make([]viewmodels.Field, 0, len(professional.Fields))
	for _, f := range professional.Fields {
		id := FieldID(snap.Role, f)
		vm.Fields = append(vm.Fields, viewmodels.Field{
			ID:        id,
			Name:      string(f),
			Label:     intl.T(ctx, f.LocaleKey(), fieldLabels[f], nil),
			Value:     snap.Draft.Get(f),
			InputType: f.InputType(),
		})
		vm.Focus = append(vm.Focus, id)
	}

	vm.Files = make([]viewmodels.FileSlot, 0, len(professional.Slots))
	for _, slot := range professional.Slots {
		fs := viewmodels.FileSlot{
			Slot:  string(slot),
			Key:   string(snap.Role) + "_" + string(slot),
			Label: intl.T(ctx, slot.LocaleKey(), slotLabels[slot], nil),
		}
		a := snap.Draft.Attachment(slot)
		fs.State = a.Kind().String()
		if f, ok := a.File(); ok {
			fs.FileName = f.Name
		}
		if url, ok := a.URL(); ok {
			fs.URL = url
			fs.FileName = url[strings.LastIndex(url, "/")+1:]
		}
		if p, ok := snap.Previews[slot]; ok {
			fs.PreviewURL = p.DataURL
			fs.PreviewMime = p.MimeType
		}
		vm.Files = append(vm.Files, fs)
	}
	return vm
}

func ProjectPageToViewModel(
	ctx context.Context,
	formID uuid.UUID,
	state forms.ProjectState,
	disabled bool,
	sections []*viewmodels.RoleSection,
	baseURL string,
) *viewmodels.ProjectPage {
	page := &viewmodels.ProjectPage{
		SessionID: formID.String(),
		Title:     intl.T(ctx, "ProjectForm.Title", "Project professionals", nil),
		Disabled:  disabled,
		Sections:  sections,
		FieldsURL: baseURL + "/fields",
		SubmitURL: baseURL + "/submit",
	}
	if state.ProjectID != uuid.Nil {
		page.ProjectID = state.ProjectID.String()
	}
	if state.Name != "" {
		page.Title = state.Name
	}

	for _, f := range forms.ProjectFields {
		id := ProjectFieldID(f)
		inputType := "text"
		if f == forms.ProjectFieldProgress || f == forms.ProjectFieldBudget {
			inputType = "number"
		}
		page.Fields = append(page.Fields, viewmodels.Field{
			ID:        id,
			Name:      string(f),
			Label:     intl.T(ctx, "Projects.Fields."+string(f), projectFieldLabels[f], nil),
			Value:     state.Get(f),
			InputType: inputType,
		})
		page.Focus = append(page.Focus, id)
	}
	for _, s := range project.Statuses {
		page.Statuses = append(page.Statuses, viewmodels.Option{
			Label:    intl.T(ctx, s.LocaleKey(), statusLabels[s], nil),
			Value:    string(s),
			Selected: string(s) == state.Status,
		})
	}
	return page
}

// ProjectToState seeds a form session from a stored project.
func ProjectToState(p project.Project) forms.ProjectState {
	state := forms.ProjectState{
		ProjectID:  p.ID(),
		Name:       p.Name(),
		Location:   p.Location(),
		ReraNumber: p.ReraNumber(),
		Status:     string(p.Status()),
		Progress:   strconv.Itoa(p.Progress()),
		Budget:     p.Budget().String(),
		Selected:   make(map[professional.RoleType]uuid.UUID),
	}
	for _, role := range professional.RoleTypes {
		if id := p.Assigned(role); id != uuid.Nil {
			state.Selected[role] = id
		}
	}
	return state
}

// StateToUpdateDTO is the inverse of ProjectToState.
func StateToUpdateDTO(state forms.ProjectState) *project.UpdateDTO {
	return &project.UpdateDTO{
		ID:           state.ProjectID,
		Name:         state.Name,
		Location:     state.Location,
		ReraNumber:   state.ReraNumber,
		Status:       state.Status,
		Progress:     state.Progress,
		Budget:       state.Budget,
		EngineerID:   state.Selected[professional.Engineer],
		ArchitectID:  state.Selected[professional.Architect],
		AccountantID: state.Selected[professional.Accountant],
	}
}

func OptionsToResponse(opts []professional.RoleOption) viewmodels.OptionsResponse {
	items := make([]viewmodels.OptionItem, 0, len(opts))
	for _, o := range opts {
		items = append(items, viewmodels.OptionItem{Label: o.Label, Value: o.Value.String()})
	}
	return viewmodels.OptionsResponse{Items: items}
}
