package repository

import (
	"context"
	"errors"

	"Moim-App/internal/domain/model"
)

// ErrSessionNotFound セッションが存在しない・期限切れの場合に返す
var ErrSessionNotFound = errors.New("セッションが見つかりません")

// SessionState セッション単位で保持する検索コンテキスト
type SessionState struct {
	DecisionCell model.DecisionCell `json:"decision_cell" firestore:"decision_cell"`
	RequestID    string             `json:"request_id" firestore:"request_id"`
}

// SessionRepository DecisionCell と RequestId のセッションスコープ永続化。
// 呼び出しは必ず DecisionCellService 経由で行い、直接読み書きしない
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (*SessionState, error)
	Set(ctx context.Context, sessionID string, state *SessionState) error
}
