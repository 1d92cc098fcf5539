package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"Moim-App/internal/domain/repository"
)

// UsersHandler プロフィール・フレンド一覧のHTTPハンドラー
type UsersHandler struct {
	usersRepo repository.UsersRepository
}

// NewUsersHandler UsersHandlerの新しいインスタンスを作成
func NewUsersHandler(usersRepo repository.UsersRepository) *UsersHandler {
	return &UsersHandler{
		usersRepo: usersRepo,
	}
}

// GetMe GET /api/users/me
// 出発地点ピッカーの「自分を含める」表示に使うプロフィール
func (h *UsersHandler) GetMe(c *gin.Context) {
	user, err := h.usersRepo.GetByID(c.Request.Context(), userIDFrom(c))
	if err != nil {
		if strings.Contains(err.Error(), "見つかりません") {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "プロフィールの取得に失敗しました: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetFriends GET /api/friends
// 出発地点ピッカーに表示するフレンド一覧（最終確認位置つき）
func (h *UsersHandler) GetFriends(c *gin.Context) {
	friends, err := h.usersRepo.GetFriends(c.Request.Context(), userIDFrom(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "フレンド一覧の取得に失敗しました: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, friends)
}
