package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"Moim-App/internal/domain/model"
	"Moim-App/internal/domain/repository"
)

// RecommendClient は外部ランキングサービスを呼び出すRecommendProviderの実装
type RecommendClient struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

// NewRecommendClient は新しいクライアントを生成する
func NewRecommendClient(baseURL, apiToken string) repository.RecommendProvider {
	return &RecommendClient{
		baseURL:    baseURL,
		apiToken:   apiToken,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Recommend はランキングサービスを呼び出して候補エリア一覧を取得する
func (c *RecommendClient) Recommend(ctx context.Context, query *model.RecommendQuery) ([]model.RecommendedRegion, error) {
	// 1. APIリクエストボディを構築
	body := recommendRequestBody{
		Purpose:          query.Purpose,
		UserSelectedTags: query.Tags,
		LocationName:     query.LocationName,
		CurrentLat:       query.Primary.Lat,
		CurrentLng:       query.Primary.Lng,
		DecisionCell:     &query.DecisionCell,
		RequestID:        query.RequestID,
	}
	for _, companion := range query.Companions {
		body.Users = append(body.Users, companionUser{Location: companion})
	}

	payload, err := json.Marshal(&body)
	if err != nil {
		return nil, fmt.Errorf("リクエストボディの構築に失敗: %w", err)
	}

	// 2. HTTPリクエストを作成・実行
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/recommend", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("APIリクエストに失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("APIからエラーステータスが返されました: %s", resp.Status)
	}

	// 3. JSONレスポンスをパース
	var apiResp []regionResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("JSONのパースに失敗: %w", err)
	}

	if len(apiResp) == 0 {
		return nil, errors.New("APIから有効な候補エリアが返されませんでした")
	}

	// 4. ドメインモデルに変換して返す
	regions := make([]model.RecommendedRegion, 0, len(apiResp))
	for _, r := range apiResp {
		region := model.RecommendedRegion{
			RegionName:  r.RegionName,
			Places:      r.Places,
			TravelTimes: r.TravelTimes,
		}
		if r.Center != nil && r.Center.IsValid() {
			center := *r.Center
			region.Center = &center
		}
		regions = append(regions, region)
	}
	return regions, nil
}

// --- ランキングサービスAPIのリクエスト・レスポンス構造体 ---

type recommendRequestBody struct {
	Purpose          string              `json:"purpose"`
	UserSelectedTags []string            `json:"user_selected_tags"`
	LocationName     string              `json:"location_name"`
	CurrentLat       float64             `json:"current_lat"`
	CurrentLng       float64             `json:"current_lng"`
	Users            []companionUser     `json:"users"`
	DecisionCell     *model.DecisionCell `json:"decision_cell,omitempty"`
	RequestID        string              `json:"request_id,omitempty"`
}

type companionUser struct {
	Location model.LatLng `json:"location"`
}

type regionResponse struct {
	RegionName  string            `json:"region_name"`
	Center      *model.LatLng     `json:"center"`
	Places      []model.PlaceCard `json:"places"`
	TravelTimes []int             `json:"travel_times"`
}
