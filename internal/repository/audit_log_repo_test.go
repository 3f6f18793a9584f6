package repository

import (
	"testing"
	"time"

	"magazine-pro-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditListWindow(t *testing.T) {
	db := newTestDB(t)
	repo := NewAuditLogRepo(db)

	for i := 0; i < 120; i++ {
		require.NoError(t, repo.Append(db, &model.AuditLog{
			Action:   model.ActionScanIn,
			Delta:    1,
			NewTotal: i + 1,
		}))
	}

	logs, err := repo.List(10)
	require.NoError(t, err)
	assert.Len(t, logs, 10)

	// Limits above the cap and non-positive limits both collapse to the window
	logs, err = repo.List(500)
	require.NoError(t, err)
	assert.Len(t, logs, MaxAuditWindow)

	logs, err = repo.List(0)
	require.NoError(t, err)
	assert.Len(t, logs, MaxAuditWindow)

	for i := 1; i < len(logs); i++ {
		assert.False(t, logs[i].CreatedAt.After(logs[i-1].CreatedAt))
	}
}

func TestStockMovementSignedDeltas(t *testing.T) {
	db := newTestDB(t)
	repo := NewAuditLogRepo(db)

	require.NoError(t, repo.Append(db, &model.AuditLog{Action: model.ActionScanIn, Delta: 5, NewTotal: 5}))
	require.NoError(t, repo.Append(db, &model.AuditLog{Action: model.ActionScanOut, Delta: -2, NewTotal: 3}))
	require.NoError(t, repo.Append(db, &model.AuditLog{Action: model.ActionAdjust, Delta: 40, NewTotal: 43}))

	movement, err := repo.GetStockMovement(time.Now().AddDate(0, 0, -1), time.Now())
	require.NoError(t, err)
	require.Len(t, movement, 1)
	assert.Equal(t, 5, movement[0].Inbound)
	assert.Equal(t, 2, movement[0].Outbound, "outbound is reported as a positive magnitude")
}

func TestAuditClear(t *testing.T) {
	db := newTestDB(t)
	repo := NewAuditLogRepo(db)

	require.NoError(t, repo.Append(db, &model.AuditLog{Action: model.ActionCreate}))
	require.NoError(t, repo.Clear(db))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}
