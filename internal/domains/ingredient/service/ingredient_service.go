package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"recipebox-backend/internal/domains/ingredient"
	"recipebox-backend/pkg/logger"
)

type ingredientService struct {
	repo ingredient.Repository
}

func NewIngredientService(repo ingredient.Repository) ingredient.Service {
	return &ingredientService{repo: repo}
}

func (s *ingredientService) List(ctx context.Context, prefix string) ([]ingredient.IngredientDTO, error) {
	ingredients, err := s.repo.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	dtos := make([]ingredient.IngredientDTO, 0, len(ingredients))
	for i := range ingredients {
		dtos = append(dtos, ingredients[i].ToDTO())
	}
	return dtos, nil
}

func (s *ingredientService) GetByID(ctx context.Context, id uuid.UUID) (*ingredient.IngredientDTO, error) {
	ing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, ingredient.ErrIngredientNotFound
	}

	dto := ing.ToDTO()
	return &dto, nil
}

func (s *ingredientService) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]ingredient.Ingredient, error) {
	return s.repo.GetByIDs(ctx, ids)
}

func (s *ingredientService) Create(ctx context.Context, req ingredient.CreateIngredientRequest) (*ingredient.IngredientDTO, error) {
	ing := &ingredient.Ingredient{
		ID:              uuid.New(),
		Name:            strings.TrimSpace(req.Name),
		MeasurementUnit: strings.TrimSpace(req.MeasurementUnit),
		CreatedAt:       time.Now(),
	}

	if err := s.repo.Create(ctx, ing); err != nil {
		return nil, err
	}

	dto := ing.ToDTO()
	return &dto, nil
}

func (s *ingredientService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *ingredientService) ImportXLSX(ctx context.Context, r io.Reader) (*ingredient.ImportResult, error) {
	// Step 1: Parse the workbook
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, ingredient.ErrInvalidImportFile
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ingredient.ErrInvalidImportFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	// Step 2: Insert rows one by one; a duplicate name skips the row
	// instead of aborting the import
	result := &ingredient.ImportResult{TotalRows: len(rows)}
	for i, row := range rows {
		if len(row) < 2 {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: expected name and measurement unit", i+1))
			continue
		}

		name := strings.TrimSpace(row[0])
		unit := strings.TrimSpace(row[1])
		if name == "" || unit == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: empty name or measurement unit", i+1))
			continue
		}

		ing := &ingredient.Ingredient{
			ID:              uuid.New(),
			Name:            name,
			MeasurementUnit: unit,
			CreatedAt:       time.Now(),
		}
		if err := s.repo.Create(ctx, ing); err != nil {
			if errors.Is(err, ingredient.ErrDuplicateIngredient) {
				result.Skipped++
				continue
			}
			return nil, err
		}
		result.Created++
	}

	logger.Info("ingredient import finished", map[string]interface{}{
		"total_rows": result.TotalRows,
		"created":    result.Created,
		"skipped":    result.Skipped,
	})

	return result, nil
}
