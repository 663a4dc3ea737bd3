package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrackhq/medtrack-backend/internal/dto"
)

func TestCreateIndicatorUniquePerUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewIndicatorService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	req := &dto.CreateIndicatorRequest{NameCN: "自定义指标", Unit: "mg/L"}

	_, err := svc.Create(alice.ID, req)
	require.NoError(t, err)

	_, err = svc.Create(alice.ID, req)
	assert.ErrorIs(t, err, ErrDuplicateIndicator)

	// A different user may own an indicator with the same name.
	_, err = svc.Create(bob.ID, req)
	assert.NoError(t, err)
}

func TestCreateIndicatorLoincUnique(t *testing.T) {
	db := newTestDB(t)
	svc := NewIndicatorService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	loinc := "2345-7"
	_, err := svc.Create(alice.ID, &dto.CreateIndicatorRequest{NameCN: "指标甲", Unit: "mmol/L", Loinc: &loinc})
	require.NoError(t, err)

	_, err = svc.Create(bob.ID, &dto.CreateIndicatorRequest{NameCN: "指标乙", Unit: "mmol/L", Loinc: &loinc})
	assert.ErrorIs(t, err, ErrLoincTaken)
}

func TestIndicatorVisibility(t *testing.T) {
	db := newTestDB(t)
	svc := NewIndicatorService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	builtin := createBuiltin(t, db, "葡萄糖", f(3.9), f(6.1))
	own, err := svc.Create(alice.ID, &dto.CreateIndicatorRequest{NameCN: "私有指标", Unit: "mg/L"})
	require.NoError(t, err)

	_, err = svc.Get(bob.ID, builtin.ID)
	assert.NoError(t, err)

	_, err = svc.Get(bob.ID, own.ID)
	assert.ErrorIs(t, err, ErrIndicatorNotFound)
}

func TestUpdateBuiltinRequiresStaff(t *testing.T) {
	db := newTestDB(t)
	svc := NewIndicatorService(db)
	alice := createUser(t, db, "alice")
	builtin := createBuiltin(t, db, "葡萄糖", f(3.9), f(6.1))

	unit := "mg/dL"
	_, err := svc.Update(alice.ID, false, builtin.ID, &dto.UpdateIndicatorRequest{Unit: &unit})
	assert.ErrorIs(t, err, ErrForbidden)

	resp, err := svc.Update(alice.ID, true, builtin.ID, &dto.UpdateIndicatorRequest{Unit: &unit})
	require.NoError(t, err)
	assert.Equal(t, "mg/dL", resp.Unit)
}

func TestListAttachesLatestRecordAndStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewIndicatorService(db)
	records := NewRecordService(db)
	alice := createUser(t, db, "alice")
	ind := createBuiltin(t, db, "葡萄糖", f(3.9), f(6.1))

	_, err := records.Create(alice.ID, ind.ID, &dto.CreateRecordRequest{Date: "2025-06-01", Value: "5.0"})
	require.NoError(t, err)
	_, err = records.Create(alice.ID, ind.ID, &dto.CreateRecordRequest{Date: "2025-07-01", Value: "7.2"})
	require.NoError(t, err)

	resp, err := svc.List(alice.ID, &dto.ListIndicatorsQuery{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)

	item := resp.Items[0]
	require.NotNil(t, item.Value)
	assert.Equal(t, "7.2", *item.Value)
	require.NotNil(t, item.Status)
	assert.Equal(t, StatusHigh, *item.Status)
	require.NotNil(t, item.MeasureDate)
	assert.Equal(t, "2025-07-01", *item.MeasureDate)
	require.NotNil(t, item.ReferenceRange)
	assert.Equal(t, "3.9-6.1", *item.ReferenceRange)
}

func TestListRecordOverridesBaselineRange(t *testing.T) {
	db := newTestDB(t)
	svc := NewIndicatorService(db)
	records := NewRecordService(db)
	alice := createUser(t, db, "alice")
	ind := createBuiltin(t, db, "指标", f(1), f(10))

	_, err := records.Create(alice.ID, ind.ID, &dto.CreateRecordRequest{
		Date: "2025-07-01", Value: "2", ReferenceMin: f(3),
	})
	require.NoError(t, err)

	resp, err := svc.List(alice.ID, &dto.ListIndicatorsQuery{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	require.NotNil(t, resp.Items[0].Status)
	assert.Equal(t, StatusLow, *resp.Items[0].Status)
}

func TestListDateWindow(t *testing.T) {
	db := newTestDB(t)
	svc := NewIndicatorService(db)
	records := NewRecordService(db)
	alice := createUser(t, db, "alice")
	ind := createBuiltin(t, db, "指标", f(1), f(10))

	_, err := records.Create(alice.ID, ind.ID, &dto.CreateRecordRequest{Date: "2025-05-01", Value: "4"})
	require.NoError(t, err)
	_, err = records.Create(alice.ID, ind.ID, &dto.CreateRecordRequest{Date: "2025-07-01", Value: "8"})
	require.NoError(t, err)

	resp, err := svc.List(alice.ID, &dto.ListIndicatorsQuery{
		Page: 1, PageSize: 20, StartDate: "2025-04-01", EndDate: "2025-06-01",
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	require.NotNil(t, resp.Items[0].Value)
	assert.Equal(t, "4", *resp.Items[0].Value)
}

func TestListFavoritesFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewIndicatorService(db)
	follows := NewUserIndicatorService(db)
	alice := createUser(t, db, "alice")

	a := createBuiltin(t, db, "指标甲", f(1), f(10))
	createBuiltin(t, db, "指标乙", f(1), f(10))

	fav := true
	_, err := follows.Upsert(alice.ID, &dto.UpsertUserIndicatorRequest{IndicatorID: a.ID, Favorite: &fav})
	require.NoError(t, err)

	resp, err := svc.List(alice.ID, &dto.ListIndicatorsQuery{Page: 1, PageSize: 20, Favorites: &fav})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, a.ID, resp.Items[0].ID)
	assert.True(t, resp.Items[0].Favorite)
	assert.Equal(t, int64(1), resp.Total)
}

func TestListPaginationTotalStable(t *testing.T) {
	db := newTestDB(t)
	svc := NewIndicatorService(db)
	alice := createUser(t, db, "alice")

	names := []string{"甲", "乙", "丙", "丁", "戊"}
	for _, n := range names {
		createBuiltin(t, db, "指标"+n, f(1), f(10))
	}

	first, err := svc.List(alice.ID, &dto.ListIndicatorsQuery{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), first.Total)
	assert.Len(t, first.Items, 2)

	last, err := svc.List(alice.ID, &dto.ListIndicatorsQuery{Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), last.Total)
	assert.Len(t, last.Items, 1)

	again, err := svc.List(alice.ID, &dto.ListIndicatorsQuery{Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, last.Total, again.Total)
}

func TestListKeywordFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewIndicatorService(db)
	alice := createUser(t, db, "alice")

	glucose := createBuiltin(t, db, "葡萄糖", f(3.9), f(6.1))
	en := "Glucose"
	require.NoError(t, db.Model(glucose).Update("name_en", en).Error)
	createBuiltin(t, db, "血红蛋白", f(115), f(175))

	byCN, err := svc.List(alice.ID, &dto.ListIndicatorsQuery{Page: 1, PageSize: 20, Keyword: "葡萄"})
	require.NoError(t, err)
	require.Len(t, byCN.Items, 1)
	assert.Equal(t, glucose.ID, byCN.Items[0].ID)

	byEN, err := svc.List(alice.ID, &dto.ListIndicatorsQuery{Page: 1, PageSize: 20, Keyword: "gluco"})
	require.NoError(t, err)
	require.Len(t, byEN.Items, 1)
	assert.Equal(t, glucose.ID, byEN.Items[0].ID)
}

func TestDeleteIndicatorHidesIt(t *testing.T) {
	db := newTestDB(t)
	svc := NewIndicatorService(db)
	alice := createUser(t, db, "alice")

	own, err := svc.Create(alice.ID, &dto.CreateIndicatorRequest{NameCN: "临时指标", Unit: "mg/L"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(alice.ID, false, own.ID))

	_, err = svc.Get(alice.ID, own.ID)
	assert.ErrorIs(t, err, ErrIndicatorNotFound)

	resp, err := svc.List(alice.ID, &dto.ListIndicatorsQuery{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Total)
}
