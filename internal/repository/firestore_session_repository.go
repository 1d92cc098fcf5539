package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"Moim-App/internal/domain/model"
	"Moim-App/internal/domain/repository"
)

// FirestoreSessionRepository Firestoreを使用したセッション状態ストア。
// expireAt のTTLポリシーでブラウジングセッション終了後に自動削除される
type FirestoreSessionRepository struct {
	client   *firestore.Client
	ttlHours int
}

// NewFirestoreSessionRepository 新しいFirestoreSessionRepositoryインスタンスを作成
func NewFirestoreSessionRepository(client *firestore.Client, ttlHours int) repository.SessionRepository {
	return &FirestoreSessionRepository{
		client:   client,
		ttlHours: ttlHours,
	}
}

// firestoreSessionDocument Firestoreのセッションドキュメント
type firestoreSessionDocument struct {
	DecisionCell model.DecisionCell `firestore:"decision_cell"`
	RequestID    string             `firestore:"request_id"`
	ExpireAt     time.Time          `firestore:"expireAt"`
}

func (r *FirestoreSessionRepository) Get(ctx context.Context, sessionID string) (*repository.SessionState, error) {
	doc, err := r.client.Collection("decisionSessions").Doc(sessionID).Get(ctx)
	if err != nil {
		if status := err.Error(); strings.Contains(status, "NotFound") || strings.Contains(status, "not found") {
			return nil, repository.ErrSessionNotFound
		}
		return nil, fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}

	var data firestoreSessionDocument
	if err := doc.DataTo(&data); err != nil {
		return nil, fmt.Errorf("セッションデータの変換に失敗しました: %w", err)
	}

	// TTLポリシーの削除はベストエフォートなので期限切れはここでも弾く
	if !data.ExpireAt.IsZero() && data.ExpireAt.Before(time.Now()) {
		return nil, repository.ErrSessionNotFound
	}

	return &repository.SessionState{
		DecisionCell: data.DecisionCell,
		RequestID:    data.RequestID,
	}, nil
}

func (r *FirestoreSessionRepository) Set(ctx context.Context, sessionID string, state *repository.SessionState) error {
	data := firestoreSessionDocument{
		DecisionCell: state.DecisionCell,
		RequestID:    state.RequestID,
		ExpireAt:     time.Now().Add(time.Duration(r.ttlHours) * time.Hour),
	}

	_, err := r.client.Collection("decisionSessions").Doc(sessionID).Set(ctx, data)
	if err != nil {
		return fmt.Errorf("セッションの保存に失敗しました: %w", err)
	}
	return nil
}
