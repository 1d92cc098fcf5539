package service

import (
	"errors"
	"log"
	"sync"
	"time"

	"Moim-App/internal/domain/model"
	"Moim-App/internal/domain/repository"
)

// OverlayRenderer セッションごとの前回状態を所有し、照合パスを駆動するレンダラー。
// マップ上のオーバーレイ状態を変更するのはこのレンダラーだけ
type OverlayRenderer struct {
	mu      sync.Mutex
	service *OverlayService
	sink    repository.OverlaySink // 未接続ならnil
	markers map[string]model.OverlayState
	routes  map[string]model.OverlayState

	retryDelay  time.Duration
	maxAttempts int
}

// NewOverlayRenderer OverlayRendererの新しいインスタンスを作成。sinkはnil可
func NewOverlayRenderer(service *OverlayService, sink repository.OverlaySink) *OverlayRenderer {
	return &OverlayRenderer{
		service:     service,
		sink:        sink,
		markers:     make(map[string]model.OverlayState),
		routes:      make(map[string]model.OverlayState),
		retryDelay:  500 * time.Millisecond,
		maxAttempts: 5,
	}
}

// AttachSink マップエンジンのアダプタを後から接続する
func (r *OverlayRenderer) AttachSink(sink repository.OverlaySink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sink = sink
}

// Render 照合パスを1回実行し、差分コマンド列を返す
func (r *OverlayRenderer) Render(sessionID string, in *model.OverlayInput) []model.OverlayCommand {
	r.mu.Lock()
	prev := r.markers[sessionID]
	if prev == nil {
		prev = model.OverlayState{}
	}

	next, commands := r.service.Reconcile(prev, in)
	r.markers[sessionID] = next
	sink := r.sink
	r.mu.Unlock()

	r.applyToSink(sink, commands)
	return commands
}

// RenderRoutes 経路パスを1回実行し、差分コマンド列を返す。冪等
func (r *OverlayRenderer) RenderRoutes(sessionID string, origins []model.ResolvedOrigin, destination model.LatLng) []model.OverlayCommand {
	r.mu.Lock()
	prev := r.routes[sessionID]
	if prev == nil {
		prev = model.OverlayState{}
	}

	next, commands := r.service.BuildRoutes(prev, origins, destination)
	r.routes[sessionID] = next
	sink := r.sink
	r.mu.Unlock()

	r.applyToSink(sink, commands)
	return commands
}

// ClearSession セッションの描画状態を破棄する（ページ離脱時）
func (r *OverlayRenderer) ClearSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.markers, sessionID)
	delete(r.routes, sessionID)
}

// applyToSink エンジン未初期化の間は固定間隔でリトライする（上限あり）。
// 失敗してもログに残すだけで呼び出し元には返さない
func (r *OverlayRenderer) applyToSink(sink repository.OverlaySink, commands []model.OverlayCommand) {
	if sink == nil || len(commands) == 0 {
		return
	}

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err := sink.Apply(commands)
		if err == nil {
			return
		}
		if !errors.Is(err, repository.ErrSinkNotReady) {
			log.Printf("⚠️ オーバーレイ適用に失敗: %v", err)
			return
		}
		if attempt < r.maxAttempts {
			time.Sleep(r.retryDelay)
		}
	}
	log.Printf("⚠️ マップエンジンが初期化されないため、オーバーレイ適用を見送り (%d回試行)", r.maxAttempts)
}
