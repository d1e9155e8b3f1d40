package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/pkg/apperr"
)

func TestCatalogDuplicateCodesAreRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	_, err := svc.CreateItemType(ctx, CatalogInput{Code: "HW", Name: "Hardware"})
	require.NoError(t, err)

	_, err = svc.CreateItemType(ctx, CatalogInput{Code: "HW", Name: "Hardware de novo"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = svc.CreateContractType(ctx, CatalogInput{Code: "CT-1", Name: "Compra direta"})
	require.NoError(t, err)
	_, err = svc.CreateContractType(ctx, CatalogInput{Code: "CT-1", Name: "Outro"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = svc.CreateAcquisitionType(ctx, CatalogInput{Code: "AQ-1", Name: "Licitação"})
	require.NoError(t, err)
	_, err = svc.CreateAcquisitionType(ctx, CatalogInput{Code: "AQ-1", Name: "Outro"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestItemCategoryRequiresExistingItemType(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	_, err := svc.CreateItemCategory(ctx, CatalogInput{Code: "NB", Name: "Notebooks", ItemTypeID: "not-a-uuid"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	itemType, err := svc.CreateItemType(ctx, CatalogInput{Code: "HW", Name: "Hardware"})
	require.NoError(t, err)

	category, err := svc.CreateItemCategory(ctx, CatalogInput{Code: "NB", Name: "Notebooks", ItemTypeID: itemType.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, itemType.ID, category.ItemTypeID)
}

func TestCatalogUpdateIsPartial(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	created, err := svc.CreateItemType(ctx, CatalogInput{Code: "SW", Name: "Software", Description: "Licenças"})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.UpdateItemType(ctx, created.ID.String(), CatalogInput{Active: &inactive})
	require.NoError(t, err)

	assert.Equal(t, "SW", updated.Code, "untouched fields survive a partial update")
	assert.Equal(t, "Software", updated.Name)
	assert.False(t, updated.Active)

	listed, err := svc.ListItemTypes(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, listed, "deactivated entries drop out of the active listing")
}

func TestCatalogMissingEntry(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	ctx := context.Background()

	_, err := svc.UpdateItemType(ctx, "11111111-2222-3333-4444-555555555555", CatalogInput{Name: "x"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
