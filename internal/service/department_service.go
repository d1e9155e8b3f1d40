package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/model"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/pkg/apperr"
)

// DepartmentInput is shared by create and update; create validates the
// required fields in the service so updates can stay partial
type DepartmentInput struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id"`
	Active   *bool  `json:"active"`
}

type DepartmentService interface {
	CreateDepartment(ctx context.Context, input DepartmentInput) (*model.Department, error)
	UpdateDepartment(ctx context.Context, id string, input DepartmentInput) (*model.Department, error)
	GetDepartmentByID(ctx context.Context, id string) (*model.Department, error)
	ListDepartments(ctx context.Context, activeOnly bool) ([]model.Department, error)
	DeleteDepartment(ctx context.Context, id string) error
}

type departmentService struct {
	db *gorm.DB
}

func NewDepartmentService(db *gorm.DB) DepartmentService {
	return &departmentService{db: db}
}

func (s *departmentService) CreateDepartment(ctx context.Context, input DepartmentInput) (*model.Department, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, apperr.Validation("code is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperr.Validation("name is required")
	}

	var existing model.Department
	if err := s.db.WithContext(ctx).First(&existing, "code = ?", code).Error; err == nil {
		return nil, apperr.Conflict("department code already exists")
	}

	dept := model.Department{
		Code:   code,
		Name:   strings.TrimSpace(input.Name),
		Active: true,
	}
	if input.ParentID != "" {
		parentID, err := uuid.Parse(input.ParentID)
		if err != nil {
			return nil, apperr.Validation("invalid parent department id")
		}
		var parent model.Department
		if err := s.db.WithContext(ctx).First(&parent, "id = ?", parentID).Error; err != nil {
			return nil, apperr.NotFound("parent department not found")
		}
		dept.ParentID = &parentID
	}

	if err := s.db.WithContext(ctx).Create(&dept).Error; err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	return &dept, nil
}

func (s *departmentService) UpdateDepartment(ctx context.Context, id string, input DepartmentInput) (*model.Department, error) {
	dept, err := s.GetDepartmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if code := strings.TrimSpace(input.Code); code != "" && code != dept.Code {
		var existing model.Department
		if err := s.db.WithContext(ctx).First(&existing, "code = ?", code).Error; err == nil {
			return nil, apperr.Conflict("department code already exists")
		}
		dept.Code = code
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		dept.Name = name
	}
	if input.ParentID != "" {
		parentID, parseErr := uuid.Parse(input.ParentID)
		if parseErr != nil {
			return nil, apperr.Validation("invalid parent department id")
		}
		if parentID == dept.ID {
			return nil, apperr.Validation("department cannot be its own parent")
		}
		dept.ParentID = &parentID
	}
	if input.Active != nil {
		dept.Active = *input.Active
	}

	if err := s.db.WithContext(ctx).Save(dept).Error; err != nil {
		return nil, fmt.Errorf("failed to update department: %w", err)
	}
	return dept, nil
}

func (s *departmentService) GetDepartmentByID(ctx context.Context, id string) (*model.Department, error) {
	departmentID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid department id")
	}

	var dept model.Department
	err = s.db.WithContext(ctx).Preload("Children").First(&dept, "id = ?", departmentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("department not found")
		}
		return nil, fmt.Errorf("failed to load department: %w", err)
	}
	return &dept, nil
}

func (s *departmentService) ListDepartments(ctx context.Context, activeOnly bool) ([]model.Department, error) {
	query := s.db.WithContext(ctx).Order("code ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var departments []model.Department
	if err := query.Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

func (s *departmentService) DeleteDepartment(ctx context.Context, id string) error {
	dept, err := s.GetDepartmentByID(ctx, id)
	if err != nil {
		return err
	}

	// Departments referenced by users or requests are deactivated, not removed
	var users, requests int64
	s.db.WithContext(ctx).Model(&model.User{}).Where("department_id = ?", dept.ID).Count(&users)
	s.db.WithContext(ctx).Model(&model.Request{}).Where("department_id = ?", dept.ID).Count(&requests)
	if users > 0 || requests > 0 {
		return apperr.Conflict("department is in use and cannot be deleted")
	}

	return s.db.WithContext(ctx).Delete(dept).Error
}
