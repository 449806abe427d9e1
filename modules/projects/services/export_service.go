package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/estatedesk/admin/modules/projects/domain/aggregates/project"
	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
)

const projectsSheet = "Projects"

var professionalHeaders = []string{
	"Name", "Contact number", "Email", "Address", "Licence number", "Tax ID",
	"Licence", "PAN", "GST", "Profile",
}

var projectHeaders = []string{
	"Name", "Location", "RERA number", "Status", "Progress %", "Budget",
	"Engineer", "Architect", "Accountant",
}

type ProjectLister interface {
	GetAll(ctx context.Context) ([]project.Project, error)
}

// ExportService writes projects and the professional catalogs to a workbook.
type ExportService struct {
	professionals ProfessionalLister
	projects      ProjectLister
}

func NewExportService(professionals ProfessionalLister, projects ProjectLister) *ExportService {
	return &ExportService{professionals: professionals, projects: projects}
}

func SheetName(role professional.RoleType) string {
	return role.Title() + "s"
}

func (s *ExportService) Build(ctx context.Context) (*excelize.File, error) {
	byRole := make(map[professional.RoleType][]professional.Professional, len(professional.RoleTypes))
	names := make(map[uuid.UUID]string)
	for _, role := range professional.RoleTypes {
		items, err := s.professionals.ListByRole(ctx, role)
		if err != nil {
			return nil, fmt.Errorf("list %s professionals: %w", role, err)
		}
		byRole[role] = items
		for _, p := range items {
			names[p.ID()] = professional.OptionLabel(role, p)
		}
	}
	projects, err := s.projects.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	return newWorkbook(func(f *excelize.File) error {
		return fillWorkbook(f, projects, byRole, names)
	})
}

// newWorkbook hands a fresh workbook to fill and closes it when fill fails.
func newWorkbook(fill func(*excelize.File) error) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := fill(f); err != nil {
		if cErr := f.Close(); cErr != nil {
			err = errors.Join(err, cErr)
		}
		return nil, err
	}
	return f, nil
}

func fillWorkbook(
	f *excelize.File,
	projects []project.Project,
	byRole map[professional.RoleType][]professional.Professional,
	names map[uuid.UUID]string,
) error {
	if err := f.SetSheetName("Sheet1", projectsSheet); err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}

	rows := make([][]any, 0, len(projects))
	for _, p := range projects {
		budget, _ := p.Budget().Float64()
		rows = append(rows, []any{
			p.Name(),
			p.Location(),
			p.ReraNumber(),
			string(p.Status()),
			p.Progress(),
			budget,
			names[p.Assigned(professional.Engineer)],
			names[p.Assigned(professional.Architect)],
			names[p.Assigned(professional.Accountant)],
		})
	}
	if err := writeSheet(f, projectsSheet, projectHeaders, rows, headerStyle); err != nil {
		return err
	}

	for _, role := range professional.RoleTypes {
		sheet := SheetName(role)
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		rows := make([][]any, 0, len(byRole[role]))
		for _, p := range byRole[role] {
			rows = append(rows, []any{
				p.Name(),
				p.ContactNumber(),
				p.Email(),
				p.Address(),
				p.LicenceNumber(),
				p.TaxID(),
				p.Document(professional.SlotLicence),
				p.Document(professional.SlotPAN),
				p.Document(professional.SlotGST),
				p.Document(professional.SlotProfile),
			})
		}
		if err := writeSheet(f, sheet, professionalHeaders, rows, headerStyle); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExportService) Export(ctx context.Context, w io.Writer) error {
	f, err := s.Build(ctx)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any, headerStyle int) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return err
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 20)
}
