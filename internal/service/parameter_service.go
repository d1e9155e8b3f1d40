package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/model"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/pkg/apperr"
)

type ParameterInput struct {
	Key         string `json:"key" binding:"required"`
	Value       string `json:"value" binding:"required"`
	Description string `json:"description"`
}

// ParameterService maintains admin-editable system parameters. Set is an
// upsert keyed on the parameter name.
type ParameterService interface {
	SetParameter(ctx context.Context, input ParameterInput) (*model.SystemParameter, error)
	GetParameter(ctx context.Context, key string) (*model.SystemParameter, error)
	ListParameters(ctx context.Context) ([]model.SystemParameter, error)
	DeleteParameter(ctx context.Context, key string) error
}

type parameterService struct {
	db *gorm.DB
}

func NewParameterService(db *gorm.DB) ParameterService {
	return &parameterService{db: db}
}

func (s *parameterService) SetParameter(ctx context.Context, input ParameterInput) (*model.SystemParameter, error) {
	key := strings.TrimSpace(input.Key)
	if key == "" {
		return nil, apperr.Validation("key is required")
	}

	var param model.SystemParameter
	err := s.db.WithContext(ctx).First(&param, "key = ?", key).Error
	switch {
	case err == nil:
		param.Value = input.Value
		if input.Description != "" {
			param.Description = input.Description
		}
		if saveErr := s.db.WithContext(ctx).Save(&param).Error; saveErr != nil {
			return nil, fmt.Errorf("failed to update parameter: %w", saveErr)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		param = model.SystemParameter{Key: key, Value: input.Value, Description: input.Description}
		if createErr := s.db.WithContext(ctx).Create(&param).Error; createErr != nil {
			return nil, fmt.Errorf("failed to create parameter: %w", createErr)
		}
	default:
		return nil, fmt.Errorf("failed to load parameter: %w", err)
	}

	return &param, nil
}

func (s *parameterService) GetParameter(ctx context.Context, key string) (*model.SystemParameter, error) {
	var param model.SystemParameter
	err := s.db.WithContext(ctx).First(&param, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("parameter not found")
		}
		return nil, fmt.Errorf("failed to load parameter: %w", err)
	}
	return &param, nil
}

func (s *parameterService) ListParameters(ctx context.Context) ([]model.SystemParameter, error) {
	var params []model.SystemParameter
	if err := s.db.WithContext(ctx).Order("key ASC").Find(&params).Error; err != nil {
		return nil, fmt.Errorf("failed to list parameters: %w", err)
	}
	return params, nil
}

func (s *parameterService) DeleteParameter(ctx context.Context, key string) error {
	result := s.db.WithContext(ctx).Where("key = ?", key).Delete(&model.SystemParameter{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete parameter: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("parameter not found")
	}
	return nil
}
