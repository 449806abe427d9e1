package project_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/estatedesk/admin/modules/projects/domain/aggregates/project"
	"github.com/estatedesk/admin/modules/projects/domain/entities/professional"
)

func TestUpdateDTO_Validate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		dto    project.UpdateDTO
		fields []string
	}{
		{name: "valid", dto: project.UpdateDTO{Name: "Skyline", Progress: "40", Budget: "1250000.50"}},
		{name: "missing name", dto: project.UpdateDTO{}, fields: []string{"Name"}},
		{name: "progress out of range", dto: project.UpdateDTO{Name: "A", Progress: "120"}, fields: []string{"Progress"}},
		{name: "progress not a number", dto: project.UpdateDTO{Name: "A", Progress: "ten"}, fields: []string{"Progress"}},
		{name: "bad status", dto: project.UpdateDTO{Name: "A", Status: "sold"}, fields: []string{"Status"}},
		{name: "bad budget", dto: project.UpdateDTO{Name: "A", Budget: "12k"}, fields: []string{"Budget"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dto := tc.dto
			errs := dto.Validate()
			require.Len(t, errs, len(tc.fields))
			for _, f := range tc.fields {
				require.Contains(t, errs, f)
			}
		})
	}
}

func TestUpdateDTO_Apply(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	engineer := uuid.New()
	base := project.New("Old", project.WithID(id), project.WithProgress(10),
		project.WithAssignment(professional.Architect, uuid.New()))

	dto := project.UpdateDTO{
		Name:       " Skyline ",
		Location:   "Pune",
		Budget:     "99.95",
		EngineerID: engineer,
	}
	require.Empty(t, dto.Validate())

	got, err := dto.Apply(base)
	require.NoError(t, err)
	require.Equal(t, id, got.ID())
	require.Equal(t, "Skyline", got.Name())
	require.Zero(t, got.Progress())
	require.True(t, decimal.RequireFromString("99.95").Equal(got.Budget()))
	require.Equal(t, engineer, got.Assigned(professional.Engineer))
	require.Equal(t, uuid.Nil, got.Assigned(professional.Architect))
	require.Equal(t, project.StatusPlanned, got.Status())
}

func TestUpdateDTO_ApplyClearsNumbers(t *testing.T) {
	t.Parallel()

	base := project.New("Skyline", project.WithID(uuid.New()), project.WithProgress(70),
		project.WithBudget(decimal.RequireFromString("1250000")))

	dto := project.UpdateDTO{Name: "Skyline", Progress: " ", Budget: ""}
	require.Empty(t, dto.Validate())
	got, err := dto.Apply(base)
	require.NoError(t, err)
	require.Zero(t, got.Progress())
	require.True(t, got.Budget().IsZero())

	dto = project.UpdateDTO{Name: "Skyline", Progress: "0", Budget: "0"}
	require.Empty(t, dto.Validate())
	got, err = dto.Apply(base)
	require.NoError(t, err)
	require.Zero(t, got.Progress())
	require.True(t, got.Budget().IsZero())
}
