package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrackhq/medtrack-backend/internal/dto"
)

func TestRecordLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecordService(db)
	alice := createUser(t, db, "alice")
	ind := createBuiltin(t, db, "葡萄糖", f(3.9), f(6.1))

	created, err := svc.Create(alice.ID, ind.ID, &dto.CreateRecordRequest{Date: "2025-07-01", Value: "5.0"})
	require.NoError(t, err)
	assert.Equal(t, "manual", created.Source)
	require.NotNil(t, created.Status)
	assert.Equal(t, StatusNormal, *created.Status)
	assert.Equal(t, "mmol/L", created.Unit)

	v := "7.5"
	updated, err := svc.Update(alice.ID, created.RecordID, &dto.UpdateRecordRequest{Value: &v})
	require.NoError(t, err)
	require.NotNil(t, updated.Status)
	assert.Equal(t, StatusHigh, *updated.Status)

	require.NoError(t, svc.Delete(alice.ID, created.RecordID))
	assert.ErrorIs(t, svc.Delete(alice.ID, created.RecordID), ErrRecordNotFound)
}

func TestRecordRequiresVisibleIndicator(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecordService(db)
	indicators := NewIndicatorService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	own, err := indicators.Create(alice.ID, &dto.CreateIndicatorRequest{NameCN: "私有指标", Unit: "mg/L"})
	require.NoError(t, err)

	_, err = svc.Create(bob.ID, own.ID, &dto.CreateRecordRequest{Date: "2025-07-01", Value: "1"})
	assert.ErrorIs(t, err, ErrIndicatorNotFound)
}

func TestRecordOwnershipScoping(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecordService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	ind := createBuiltin(t, db, "葡萄糖", f(3.9), f(6.1))

	rec, err := svc.Create(alice.ID, ind.ID, &dto.CreateRecordRequest{Date: "2025-07-01", Value: "5.0"})
	require.NoError(t, err)

	// Bob shares the builtin catalog but never sees Alice's data.
	list, err := svc.List(bob.ID, ind.ID, "", "", nil, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(0), list.Total)

	v := "9"
	_, err = svc.Update(bob.ID, rec.RecordID, &dto.UpdateRecordRequest{Value: &v})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRecordListDateFilterAndOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewRecordService(db)
	alice := createUser(t, db, "alice")
	ind := createBuiltin(t, db, "葡萄糖", f(3.9), f(6.1))

	for _, d := range []string{"2025-05-01", "2025-06-01", "2025-07-01"} {
		_, err := svc.Create(alice.ID, ind.ID, &dto.CreateRecordRequest{Date: d, Value: "5.0"})
		require.NoError(t, err)
	}

	list, err := svc.List(alice.ID, ind.ID, "2025-05-15", "", nil, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Total)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "2025-07-01", list.Items[0].Date)
	assert.Equal(t, "2025-06-01", list.Items[1].Date)
}
