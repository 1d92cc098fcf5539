package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"Moim-App/internal/domain/repository"
)

// HTTPActionSink は分析バックエンドへのインプレッション・クリック送信の実装。
// 送信はfire-and-forgetで、失敗してもUIをブロックしない
type HTTPActionSink struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// NewHTTPActionSink は新しいシンクを生成する
func NewHTTPActionSink(baseURL, apiToken string) repository.ActionSink {
	return &HTTPActionSink{
		baseURL:    baseURL,
		apiToken:   apiToken,
		httpClient: &http.Client{Timeout: 3 * time.Second},
	}
}

type actionBody struct {
	Action     string         `json:"action"`
	RequestID  string         `json:"request_id"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Emit は別goroutineで送信する。失敗はログのみ
func (s *HTTPActionSink) Emit(action string, requestID string, payload map[string]any) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		body, err := json.Marshal(&actionBody{
			Action:     action,
			RequestID:  requestID,
			Payload:    payload,
			OccurredAt: time.Now(),
		})
		if err != nil {
			log.Printf("⚠️ 分析イベントの構築に失敗: %v", err)
			return
		}

		req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/api/ai/actions", bytes.NewReader(body))
		if err != nil {
			log.Printf("⚠️ 分析イベントのリクエスト作成に失敗: %v", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")
		if s.apiToken != "" {
			req.Header.Set("Authorization", "Bearer "+s.apiToken)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			log.Printf("⚠️ 分析イベントの送信に失敗 (action: %s): %v", action, err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			log.Printf("⚠️ 分析バックエンドがエラーを返却 (action: %s): %s", action, resp.Status)
		}
	}()
}

// NopActionSink 分析バックエンド未設定時のシンク
type NopActionSink struct{}

func (NopActionSink) Emit(action string, requestID string, payload map[string]any) {}
