package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrackhq/medtrack-backend/internal/dto"
	"github.com/medtrackhq/medtrack-backend/internal/models"
)

func TestUserIndicatorUpsert(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserIndicatorService(db)
	alice := createUser(t, db, "alice")
	ind := createBuiltin(t, db, "葡萄糖", f(3.9), f(6.1))

	fav := true
	first, err := svc.Upsert(alice.ID, &dto.UpsertUserIndicatorRequest{IndicatorID: ind.ID, Favorite: &fav})
	require.NoError(t, err)
	assert.True(t, first.Favorite)

	alias := "空腹血糖"
	second, err := svc.Upsert(alice.ID, &dto.UpsertUserIndicatorRequest{
		IndicatorID: ind.ID, Alias: &alias, ThresholdMin: f(4.0),
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Favorite)
	require.NotNil(t, second.Alias)
	assert.Equal(t, "空腹血糖", *second.Alias)
	require.NotNil(t, second.ThresholdMin)
	assert.Equal(t, 4.0, *second.ThresholdMin)

	var count int64
	require.NoError(t, db.Model(&models.UserIndicator{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUserIndicatorUnknownIndicator(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserIndicatorService(db)
	alice := createUser(t, db, "alice")

	fav := true
	_, err := svc.Upsert(alice.ID, &dto.UpsertUserIndicatorRequest{IndicatorID: 999, Favorite: &fav})
	assert.ErrorIs(t, err, ErrIndicatorNotFound)
}

func TestUserIndicatorUnfollowHardDeletes(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserIndicatorService(db)
	alice := createUser(t, db, "alice")
	ind := createBuiltin(t, db, "葡萄糖", f(3.9), f(6.1))

	fav := true
	_, err := svc.Upsert(alice.ID, &dto.UpsertUserIndicatorRequest{IndicatorID: ind.ID, Favorite: &fav})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(alice.ID, ind.ID))
	assert.ErrorIs(t, svc.Delete(alice.ID, ind.ID), ErrUserIndicatorNotFound)

	var count int64
	require.NoError(t, db.Unscoped().Model(&models.UserIndicator{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
