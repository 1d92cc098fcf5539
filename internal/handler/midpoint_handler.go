package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"Moim-App/internal/domain/model"
	"Moim-App/internal/usecase"
)

// MidpointHandler 中間地点検索APIのハンドラー
type MidpointHandler struct {
	midpointUseCase usecase.MidpointUseCase
}

// NewMidpointHandler 新しいMidpointHandlerインスタンスを作成
func NewMidpointHandler(midpointUseCase usecase.MidpointUseCase) *MidpointHandler {
	return &MidpointHandler{
		midpointUseCase: midpointUseCase,
	}
}

// PostSearch は中間地点のおすすめを検索するエンドポイント
// POST /api/midpoint/search
func (h *MidpointHandler) PostSearch(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	var req model.MidpointSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "リクエストの形式が正しくありません: " + err.Error(),
		})
		return
	}

	if err := h.validateSearchRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
		return
	}

	response, err := h.midpointUseCase.SearchMidpoint(c.Request.Context(), sessionID, userIDFrom(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNoResolvableOrigin):
			// 地点ゼロはユーザー入力の問題なので422で返す
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "no_origin",
				"message": "出発地点を1つ以上指定してください",
			})
		case errors.Is(err, usecase.ErrRequestInFlight):
			c.JSON(http.StatusConflict, gin.H{
				"error":   "request_in_flight",
				"message": "検索リクエストが実行中です",
			})
		default:
			// 失敗時も表示中の結果は有効なまま（クライアントは前回表示を維持する）
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   "recommend_failed",
				"message": "おすすめの取得に失敗しました: " + err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, response)
}

// validateSearchRequest はリクエストの詳細バリデーションを行う
func (h *MidpointHandler) validateSearchRequest(req *model.MidpointSearchRequest) error {
	if req.Purpose == "" {
		return &ValidationError{Field: "purpose", Message: "目的は必須です"}
	}
	validPurpose := false
	for _, purpose := range model.GetAllPurposes() {
		if req.Purpose == purpose {
			validPurpose = true
			break
		}
	}
	if !validPurpose {
		return &ValidationError{Field: "purpose", Message: "不明な目的です: " + req.Purpose}
	}

	if !req.IncludeMe && len(req.FriendIDs) == 0 && len(req.ManualPlaces) == 0 {
		return &ValidationError{Field: "origins", Message: "出発地点を1つ以上指定してください"}
	}

	for category := range req.Tags {
		known := false
		for _, valid := range model.GetAllTagCategories() {
			if category == valid {
				known = true
				break
			}
		}
		if !known {
			return &ValidationError{Field: "tags", Message: "不明なタグカテゴリです: " + category}
		}
	}

	if req.DeviceLocation != nil {
		if req.DeviceLocation.Lat < -90 || req.DeviceLocation.Lat > 90 {
			return &ValidationError{Field: "device_location.lat", Message: "緯度は-90から90の範囲で指定してください"}
		}
		if req.DeviceLocation.Lng < -180 || req.DeviceLocation.Lng > 180 {
			return &ValidationError{Field: "device_location.lng", Message: "経度は-180から180の範囲で指定してください"}
		}
	}

	return nil
}

// PostQuery はランキングを介さないフリーテキスト検索エンドポイント
// POST /api/midpoint/query
func (h *MidpointHandler) PostQuery(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	var req struct {
		Query        string `json:"query"`
		MainCategory string `json:"main_category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "リクエストの形式が正しくありません: " + err.Error(),
		})
		return
	}

	response, err := h.midpointUseCase.SearchByQuery(c.Request.Context(), sessionID, req.Query, req.MainCategory)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "search_failed",
			"message": "場所検索に失敗しました: " + err.Error(),
		})
		return
	}

	// 空クエリ・ヒットなしは結果なしとして204を返す
	if response == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, response)
}

// PostTab はアクティブな候補エリアタブを切り替えるエンドポイント
// POST /api/midpoint/tab
func (h *MidpointHandler) PostTab(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	var req struct {
		Index int `json:"index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "リクエストの形式が正しくありません: " + err.Error(),
		})
		return
	}

	region, err := h.midpointUseCase.SelectTab(sessionID, req.Index)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "tab_not_found",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, region)
}

// ValidationError はバリデーションエラーを表す
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
