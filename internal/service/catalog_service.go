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

// CatalogInput covers all four item taxonomies; ItemTypeID is only meaningful
// for categories. Create validates required fields in the service so updates
// can stay partial.
type CatalogInput struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ItemTypeID  string `json:"item_type_id"`
	Active      *bool  `json:"active"`
}

// CatalogService maintains the item classification master data. All four
// taxonomies behave identically: unique code, deactivate instead of delete
// when referenced.
type CatalogService interface {
	CreateItemType(ctx context.Context, input CatalogInput) (*model.ItemType, error)
	UpdateItemType(ctx context.Context, id string, input CatalogInput) (*model.ItemType, error)
	ListItemTypes(ctx context.Context, activeOnly bool) ([]model.ItemType, error)

	CreateItemCategory(ctx context.Context, input CatalogInput) (*model.ItemCategory, error)
	UpdateItemCategory(ctx context.Context, id string, input CatalogInput) (*model.ItemCategory, error)
	ListItemCategories(ctx context.Context, activeOnly bool) ([]model.ItemCategory, error)

	CreateContractType(ctx context.Context, input CatalogInput) (*model.ContractType, error)
	UpdateContractType(ctx context.Context, id string, input CatalogInput) (*model.ContractType, error)
	ListContractTypes(ctx context.Context, activeOnly bool) ([]model.ContractType, error)

	CreateAcquisitionType(ctx context.Context, input CatalogInput) (*model.AcquisitionType, error)
	UpdateAcquisitionType(ctx context.Context, id string, input CatalogInput) (*model.AcquisitionType, error)
	ListAcquisitionTypes(ctx context.Context, activeOnly bool) ([]model.AcquisitionType, error)
}

type catalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) CatalogService {
	return &catalogService{db: db}
}

// codeTaken reports whether another row of the given model already uses code
func (s *catalogService) codeTaken(ctx context.Context, m interface{}, code string, excludeID uuid.UUID) bool {
	var count int64
	query := s.db.WithContext(ctx).Model(m).Where("code = ?", code)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	query.Count(&count)
	return count > 0
}

func normalizeCatalogInput(input *CatalogInput) error {
	input.Code = strings.TrimSpace(input.Code)
	input.Name = strings.TrimSpace(input.Name)
	if input.Code == "" {
		return apperr.Validation("code is required")
	}
	if input.Name == "" {
		return apperr.Validation("name is required")
	}
	return nil
}

// --- Item types ---

func (s *catalogService) CreateItemType(ctx context.Context, input CatalogInput) (*model.ItemType, error) {
	if err := normalizeCatalogInput(&input); err != nil {
		return nil, err
	}
	if s.codeTaken(ctx, &model.ItemType{}, input.Code, uuid.Nil) {
		return nil, apperr.Conflict("item type code already exists")
	}

	itemType := model.ItemType{Code: input.Code, Name: input.Name, Description: input.Description, Active: true}
	if err := s.db.WithContext(ctx).Create(&itemType).Error; err != nil {
		return nil, fmt.Errorf("failed to create item type: %w", err)
	}
	return &itemType, nil
}

func (s *catalogService) UpdateItemType(ctx context.Context, id string, input CatalogInput) (*model.ItemType, error) {
	var itemType model.ItemType
	if err := s.findByID(ctx, &itemType, id, "item type"); err != nil {
		return nil, err
	}

	if code := strings.TrimSpace(input.Code); code != "" && code != itemType.Code {
		if s.codeTaken(ctx, &model.ItemType{}, code, itemType.ID) {
			return nil, apperr.Conflict("item type code already exists")
		}
		itemType.Code = code
	}
	applyCommon(&itemType.Name, &itemType.Description, &itemType.Active, input)

	if err := s.db.WithContext(ctx).Save(&itemType).Error; err != nil {
		return nil, fmt.Errorf("failed to update item type: %w", err)
	}
	return &itemType, nil
}

func (s *catalogService) ListItemTypes(ctx context.Context, activeOnly bool) ([]model.ItemType, error) {
	var out []model.ItemType
	if err := s.listQuery(ctx, activeOnly).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list item types: %w", err)
	}
	return out, nil
}

// --- Item categories ---

func (s *catalogService) CreateItemCategory(ctx context.Context, input CatalogInput) (*model.ItemCategory, error) {
	if err := normalizeCatalogInput(&input); err != nil {
		return nil, err
	}

	itemTypeID, err := uuid.Parse(input.ItemTypeID)
	if err != nil {
		return nil, apperr.Validation("invalid item type id")
	}
	var parent model.ItemType
	if err := s.db.WithContext(ctx).First(&parent, "id = ?", itemTypeID).Error; err != nil {
		return nil, apperr.NotFound("item type not found")
	}

	if s.codeTaken(ctx, &model.ItemCategory{}, input.Code, uuid.Nil) {
		return nil, apperr.Conflict("item category code already exists")
	}

	category := model.ItemCategory{Code: input.Code, Name: input.Name, ItemTypeID: itemTypeID, Active: true}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create item category: %w", err)
	}
	return &category, nil
}

func (s *catalogService) UpdateItemCategory(ctx context.Context, id string, input CatalogInput) (*model.ItemCategory, error) {
	var category model.ItemCategory
	if err := s.findByID(ctx, &category, id, "item category"); err != nil {
		return nil, err
	}

	if code := strings.TrimSpace(input.Code); code != "" && code != category.Code {
		if s.codeTaken(ctx, &model.ItemCategory{}, code, category.ID) {
			return nil, apperr.Conflict("item category code already exists")
		}
		category.Code = code
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		category.Name = name
	}
	if input.ItemTypeID != "" {
		itemTypeID, parseErr := uuid.Parse(input.ItemTypeID)
		if parseErr != nil {
			return nil, apperr.Validation("invalid item type id")
		}
		category.ItemTypeID = itemTypeID
	}
	if input.Active != nil {
		category.Active = *input.Active
	}

	if err := s.db.WithContext(ctx).Save(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to update item category: %w", err)
	}
	return &category, nil
}

func (s *catalogService) ListItemCategories(ctx context.Context, activeOnly bool) ([]model.ItemCategory, error) {
	var out []model.ItemCategory
	if err := s.listQuery(ctx, activeOnly).Preload("ItemType").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list item categories: %w", err)
	}
	return out, nil
}

// --- Contract types ---

func (s *catalogService) CreateContractType(ctx context.Context, input CatalogInput) (*model.ContractType, error) {
	if err := normalizeCatalogInput(&input); err != nil {
		return nil, err
	}
	if s.codeTaken(ctx, &model.ContractType{}, input.Code, uuid.Nil) {
		return nil, apperr.Conflict("contract type code already exists")
	}

	contractType := model.ContractType{Code: input.Code, Name: input.Name, Description: input.Description, Active: true}
	if err := s.db.WithContext(ctx).Create(&contractType).Error; err != nil {
		return nil, fmt.Errorf("failed to create contract type: %w", err)
	}
	return &contractType, nil
}

func (s *catalogService) UpdateContractType(ctx context.Context, id string, input CatalogInput) (*model.ContractType, error) {
	var contractType model.ContractType
	if err := s.findByID(ctx, &contractType, id, "contract type"); err != nil {
		return nil, err
	}

	if code := strings.TrimSpace(input.Code); code != "" && code != contractType.Code {
		if s.codeTaken(ctx, &model.ContractType{}, code, contractType.ID) {
			return nil, apperr.Conflict("contract type code already exists")
		}
		contractType.Code = code
	}
	applyCommon(&contractType.Name, &contractType.Description, &contractType.Active, input)

	if err := s.db.WithContext(ctx).Save(&contractType).Error; err != nil {
		return nil, fmt.Errorf("failed to update contract type: %w", err)
	}
	return &contractType, nil
}

func (s *catalogService) ListContractTypes(ctx context.Context, activeOnly bool) ([]model.ContractType, error) {
	var out []model.ContractType
	if err := s.listQuery(ctx, activeOnly).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list contract types: %w", err)
	}
	return out, nil
}

// --- Acquisition types ---

func (s *catalogService) CreateAcquisitionType(ctx context.Context, input CatalogInput) (*model.AcquisitionType, error) {
	if err := normalizeCatalogInput(&input); err != nil {
		return nil, err
	}
	if s.codeTaken(ctx, &model.AcquisitionType{}, input.Code, uuid.Nil) {
		return nil, apperr.Conflict("acquisition type code already exists")
	}

	acquisitionType := model.AcquisitionType{Code: input.Code, Name: input.Name, Description: input.Description, Active: true}
	if err := s.db.WithContext(ctx).Create(&acquisitionType).Error; err != nil {
		return nil, fmt.Errorf("failed to create acquisition type: %w", err)
	}
	return &acquisitionType, nil
}

func (s *catalogService) UpdateAcquisitionType(ctx context.Context, id string, input CatalogInput) (*model.AcquisitionType, error) {
	var acquisitionType model.AcquisitionType
	if err := s.findByID(ctx, &acquisitionType, id, "acquisition type"); err != nil {
		return nil, err
	}

	if code := strings.TrimSpace(input.Code); code != "" && code != acquisitionType.Code {
		if s.codeTaken(ctx, &model.AcquisitionType{}, code, acquisitionType.ID) {
			return nil, apperr.Conflict("acquisition type code already exists")
		}
		acquisitionType.Code = code
	}
	applyCommon(&acquisitionType.Name, &acquisitionType.Description, &acquisitionType.Active, input)

	if err := s.db.WithContext(ctx).Save(&acquisitionType).Error; err != nil {
		return nil, fmt.Errorf("failed to update acquisition type: %w", err)
	}
	return &acquisitionType, nil
}

func (s *catalogService) ListAcquisitionTypes(ctx context.Context, activeOnly bool) ([]model.AcquisitionType, error) {
	var out []model.AcquisitionType
	if err := s.listQuery(ctx, activeOnly).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list acquisition types: %w", err)
	}
	return out, nil
}

// --- Shared helpers ---

func (s *catalogService) findByID(ctx context.Context, dest interface{}, id string, label string) error {
	entityID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Newf(apperr.KindValidation, "invalid %s id", label)
	}
	if err := s.db.WithContext(ctx).First(dest, "id = ?", entityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Newf(apperr.KindNotFound, "%s not found", label)
		}
		return fmt.Errorf("failed to load %s: %w", label, err)
	}
	return nil
}

func (s *catalogService) listQuery(ctx context.Context, activeOnly bool) *gorm.DB {
	query := s.db.WithContext(ctx).Order("code ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	return query
}

func applyCommon(name *string, description *string, active *bool, input CatalogInput) {
	if n := strings.TrimSpace(input.Name); n != "" {
		*name = n
	}
	if input.Description != "" {
		*description = input.Description
	}
	if input.Active != nil {
		*active = *input.Active
	}
}
