package mysql

import (
	"errors"
	"testing"

	"Child_Shield/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReport(userID uint64) *model.CaseReport {
	return &model.CaseReport{
		UserID:              userID,
		ReportAs:            "Adult",
		TypeOfAbuse:         "Physical",
		VictimName:          "Ada",
		VictimAge:           9,
		VictimAddress:       "1 Main St",
		GuardianName:        "Grace",
		GuardianAddress:     "1 Main St",
		SuspectName:         "Sam",
		SuspectAge:          40,
		CaseSuspectRelation: "No",
		SuspectAddress:      "2 Side St",
		Status:              model.ReportPending,
	}
}

func countOutbox(t *testing.T, repo *CaseReportRepository, aggregateID uint64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, repo.DB.Model(&model.Outbox{}).Where("aggregate_id = ?", aggregateID).Count(&n).Error)
	return n
}

func TestCaseReportRepository_CreateWritesOutbox(t *testing.T) {
	repo := NewCaseReportRepository(newTestDB(t))
	ctx := testCtx(t)

	r := newReport(7)
	ob := &model.Outbox{EventType: model.EventReportCreated, Payload: `{"userId":7}`}
	require.NoError(t, repo.Create(ctx, r, ob))
	require.NotZero(t, r.ID)
	assert.Equal(t, r.ID, ob.AggregateID)
	assert.Equal(t, int64(1), countOutbox(t, repo, r.ID))

	// a bad outbox row takes the report down with it
	bad := newReport(7)
	require.Error(t, repo.Create(ctx, bad, &model.Outbox{EventType: model.EventReportCreated, Payload: "not json"}))
	list, err := repo.ListByUser(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCaseReportRepository_UpdateCommitsWithOutbox(t *testing.T) {
	repo := NewCaseReportRepository(newTestDB(t))
	ctx := testCtx(t)

	r := newReport(7)
	require.NoError(t, repo.Create(ctx, r, nil))

	got, err := repo.Update(ctx, r.ID, func(report *model.CaseReport) (*model.Outbox, error) {
		report.Status = model.ReportReported
		return &model.Outbox{EventType: model.EventReportStatusChanged, Payload: `{"status":"reported"}`}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReportReported, got.Status)

	stored, err := repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReportReported, stored.Status)
	assert.Equal(t, int64(1), countOutbox(t, repo, r.ID))
}

func TestCaseReportRepository_UpdateRollsBack(t *testing.T) {
	repo := NewCaseReportRepository(newTestDB(t))
	ctx := testCtx(t)

	r := newReport(7)
	require.NoError(t, repo.Create(ctx, r, nil))

	errInvalidStatus := errors.New("invalid status")

	tests := []struct {
		name    string
		apply   func(report *model.CaseReport) (*model.Outbox, error)
		wantErr error
	}{
		{
			name: "apply rejects the patch",
			apply: func(report *model.CaseReport) (*model.Outbox, error) {
				report.VictimName = "changed"
				report.Status = "archived"
				return nil, errInvalidStatus
			},
			wantErr: errInvalidStatus,
		},
		{
			name: "outbox insert fails",
			apply: func(report *model.CaseReport) (*model.Outbox, error) {
				report.Status = model.ReportReported
				return &model.Outbox{EventType: model.EventReportStatusChanged, Payload: "not json"}, nil
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Update(ctx, r.ID, tt.apply)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}

			stored, err := repo.FindByID(ctx, r.ID)
			require.NoError(t, err)
			assert.Equal(t, model.ReportPending, stored.Status)
			assert.Equal(t, "Ada", stored.VictimName)
			assert.Zero(t, countOutbox(t, repo, r.ID))
		})
	}
}

func TestCaseReportRepository_NotFound(t *testing.T) {
	repo := NewCaseReportRepository(newTestDB(t))
	ctx := testCtx(t)

	_, err := repo.FindByID(ctx, 404)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Update(ctx, 404, func(*model.CaseReport) (*model.Outbox, error) {
		t.Fatal("apply must not run for a missing row")
		return nil, nil
	})
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, repo.Delete(ctx, 404), ErrNotFound)
}

func TestCaseReportRepository_ListOrder(t *testing.T) {
	repo := NewCaseReportRepository(newTestDB(t))
	ctx := testCtx(t)

	first, second, other := newReport(7), newReport(7), newReport(8)
	for _, r := range []*model.CaseReport{first, second, other} {
		require.NoError(t, repo.Create(ctx, r, nil))
	}

	mine, err := repo.ListByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	// newest first; equal timestamps fall back to id
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, repo.Delete(ctx, first.ID))
	mine, err = repo.ListByUser(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
