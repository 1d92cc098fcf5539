package repository

import (
	"context"

	"Moim-App/internal/domain/model"
)

// RecommendProvider 外部のランキングサービスへの問い合わせ。
// ランキングアルゴリズム自体は不透明で、本システムはリクエスト組み立てと
// レスポンスのオーケストレーションのみ行う
type RecommendProvider interface {
	Recommend(ctx context.Context, query *model.RecommendQuery) ([]model.RecommendedRegion, error)
}

// ActionSink 分析・インプレッション送信先。失敗はログのみで呼び出し元に返さない
type ActionSink interface {
	// Emit は fire-and-forget で送信する（ブロックしない）
	Emit(action string, requestID string, payload map[string]any)
}
