package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Moim-App/internal/domain/model"
	"Moim-App/internal/domain/repository"
	repoImpl "Moim-App/internal/repository"
)

// brokenSessionRepo 破損したストレージを模擬するリポジトリ
type brokenSessionRepo struct{}

func (brokenSessionRepo) Get(ctx context.Context, sessionID string) (*repository.SessionState, error) {
	return nil, errors.New("データの変換に失敗しました")
}

func (brokenSessionRepo) Set(ctx context.Context, sessionID string, state *repository.SessionState) error {
	return nil
}

func newTestCellService() DecisionCellService {
	sessionRepo := repoImpl.NewMemorySessionRepository(time.Hour)
	now := func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }
	return NewDecisionCellServiceWithClock(sessionRepo, now)
}

func TestDecisionCellService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("update後のloadで日付と曜日が一致する", func(t *testing.T) {
		svc := newTestCellService()

		date := "2024-03-01"
		updated, err := svc.Update(ctx, "session-1", model.DecisionCellPatch{Date: &date})
		require.NoError(t, err)
		assert.Equal(t, "2024-03-01", updated.Date)
		assert.Equal(t, 5, updated.DayOfWeek) // 金曜日

		loaded := svc.Load(ctx, "session-1")
		assert.Equal(t, updated, loaded)
	})

	t.Run("日付変更でrequest_idがリセットされる", func(t *testing.T) {
		svc := newTestCellService()

		before, err := svc.RequestID(ctx, "session-2")
		require.NoError(t, err)

		date := "2024-03-08"
		_, err = svc.Update(ctx, "session-2", model.DecisionCellPatch{Date: &date})
		require.NoError(t, err)

		after, err := svc.RequestID(ctx, "session-2")
		require.NoError(t, err)
		assert.NotEqual(t, before, after)
	})

	t.Run("日付以外の変更ではrequest_idが維持される", func(t *testing.T) {
		svc := newTestCellService()

		before, err := svc.RequestID(ctx, "session-3")
		require.NoError(t, err)

		partySize := 6
		_, err = svc.Update(ctx, "session-3", model.DecisionCellPatch{PartySize: &partySize})
		require.NoError(t, err)

		after, err := svc.RequestID(ctx, "session-3")
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestDecisionCellService_RequestID(t *testing.T) {
	ctx := context.Background()
	svc := newTestCellService()

	t.Run("リセットなしの2回の呼び出しは同じ値を返す", func(t *testing.T) {
		first, err := svc.RequestID(ctx, "session-a")
		require.NoError(t, err)
		require.NotEmpty(t, first)

		second, err := svc.RequestID(ctx, "session-a")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("リセット後は必ず新しい値になる", func(t *testing.T) {
		first, err := svc.RequestID(ctx, "session-b")
		require.NoError(t, err)

		reset, err := svc.ResetRequestID(ctx, "session-b")
		require.NoError(t, err)
		assert.NotEqual(t, first, reset)

		after, err := svc.RequestID(ctx, "session-b")
		require.NoError(t, err)
		assert.Equal(t, reset, after)
	})
}

func TestDecisionCellService_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("未保存セッションは既定値を返す", func(t *testing.T) {
		svc := newTestCellService()

		cell := svc.Load(ctx, "unknown-session")
		assert.Equal(t, "2024-03-01", cell.Date) // 注入した現在時刻の今日
		assert.Equal(t, 2, cell.PartySize)
		assert.Equal(t, "2", cell.PartySizeBucket)
	})

	t.Run("破損したストレージは既定値で静かに回復する", func(t *testing.T) {
		now := func() time.Time { return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC) }
		svc := NewDecisionCellServiceWithClock(brokenSessionRepo{}, now)

		cell := svc.Load(ctx, "corrupt-session")
		assert.Equal(t, "2024-03-01", cell.Date)
		assert.Equal(t, model.TimeBlock{Start: "18:00", End: "20:00"}, cell.TimeBlock)
	})
}
