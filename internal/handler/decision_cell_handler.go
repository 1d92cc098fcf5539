package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Moim-App/internal/domain/model"
	"Moim-App/internal/domain/service"
)

// DecisionCellHandler 検索コンテキスト（DecisionCell）のHTTPハンドラー
type DecisionCellHandler struct {
	cellService service.DecisionCellService
}

// NewDecisionCellHandler DecisionCellHandlerの新しいインスタンスを作成
func NewDecisionCellHandler(cellService service.DecisionCellService) *DecisionCellHandler {
	return &DecisionCellHandler{
		cellService: cellService,
	}
}

// GetDecisionCell GET /api/decision-cell
func (h *DecisionCellHandler) GetDecisionCell(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	cell := h.cellService.Load(c.Request.Context(), sessionID)
	requestID, err := h.cellService.RequestID(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "相関トークンの取得に失敗しました: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"decision_cell": cell,
		"request_id":    requestID,
	})
}

// PatchDecisionCell PATCH /api/decision-cell
// 部分更新のみ受け付ける。日付が変わると request_id も切り替わる
func (h *DecisionCellHandler) PatchDecisionCell(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	var patch model.DecisionCellPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "リクエストの形式が正しくありません: " + err.Error(),
		})
		return
	}

	cell, err := h.cellService.Update(c.Request.Context(), sessionID, patch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "検索コンテキストの更新に失敗しました: " + err.Error(),
		})
		return
	}

	requestID, err := h.cellService.RequestID(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "相関トークンの取得に失敗しました: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"decision_cell": cell,
		"request_id":    requestID,
	})
}
