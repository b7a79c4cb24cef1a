package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"recipebox-backend/internal/domains/ingredient"
)

type fakeIngredientRepo struct {
	ingredient.Repository
	byName map[string]ingredient.Ingredient
}

func newFakeIngredientRepo() *fakeIngredientRepo {
	return &fakeIngredientRepo{byName: make(map[string]ingredient.Ingredient)}
}

func (f *fakeIngredientRepo) Create(_ context.Context, ing *ingredient.Ingredient) error {
	if _, ok := f.byName[ing.Name]; ok {
		return ingredient.ErrDuplicateIngredient
	}
	f.byName[ing.Name] = *ing
	return nil
}

func (f *fakeIngredientRepo) List(_ context.Context, prefix string) ([]ingredient.Ingredient, error) {
	out := make([]ingredient.Ingredient, 0)
	for _, ing := range f.byName {
		if strings.HasPrefix(strings.ToLower(ing.Name), strings.ToLower(prefix)) {
			out = append(out, ing)
		}
	}
	return out, nil
}

func (f *fakeIngredientRepo) GetByID(_ context.Context, id uuid.UUID) (*ingredient.Ingredient, error) {
	for _, ing := range f.byName {
		if ing.ID == id {
			return &ing, nil
		}
	}
	return nil, nil
}

func buildWorkbook(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, cell := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, name, cell))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestImportXLSX(t *testing.T) {
	repo := newFakeIngredientRepo()
	svc := NewIngredientService(repo)

	buf := buildWorkbook(t, [][]string{
		{"flour", "g"},
		{"milk", "ml"},
		{"flour", "g"},      // duplicate, skipped
		{"salt"},            // missing unit, skipped
		{"  sugar ", " g "}, // trimmed
	})

	result, err := svc.ImportXLSX(context.Background(), buf)
	require.NoError(t, err)

	assert.Equal(t, 5, result.TotalRows)
	assert.Equal(t, 3, result.Created)
	assert.Equal(t, 2, result.Skipped)

	assert.Contains(t, repo.byName, "flour")
	assert.Contains(t, repo.byName, "milk")
	assert.Contains(t, repo.byName, "sugar")
	assert.Equal(t, "g", repo.byName["sugar"].MeasurementUnit)
}

func TestImportXLSXRejectsGarbage(t *testing.T) {
	svc := NewIngredientService(newFakeIngredientRepo())

	_, err := svc.ImportXLSX(context.Background(), strings.NewReader("this is not a workbook"))
	assert.ErrorIs(t, err, ingredient.ErrInvalidImportFile)
}

func TestCreateTrimsFields(t *testing.T) {
	repo := newFakeIngredientRepo()
	svc := NewIngredientService(repo)

	dto, err := svc.Create(context.Background(), ingredient.CreateIngredientRequest{
		Name:            "  olive oil  ",
		MeasurementUnit: " ml ",
	})
	require.NoError(t, err)
	assert.Equal(t, "olive oil", dto.Name)
	assert.Equal(t, "ml", dto.MeasurementUnit)

	_, err = svc.Create(context.Background(), ingredient.CreateIngredientRequest{
		Name:            "olive oil",
		MeasurementUnit: "ml",
	})
	assert.ErrorIs(t, err, ingredient.ErrDuplicateIngredient)
}

func TestGetByIDNotFound(t *testing.T) {
	svc := NewIngredientService(newFakeIngredientRepo())

	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ingredient.ErrIngredientNotFound)
}
