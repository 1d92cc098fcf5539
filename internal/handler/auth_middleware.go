package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	contextUserIDKey  = "user_id"
	sessionHeaderName = "X-Session-Id"
)

// AuthMiddleware Bearerトークンを検証し、user_id をコンテキストに設定する
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "認証トークンがありません",
			})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "認証トークンが無効です",
			})
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "認証トークンにユーザーIDがありません",
			})
			return
		}

		c.Set(contextUserIDKey, subject)
		c.Next()
	}
}

// userIDFrom 認証済みユーザーIDを取得する
func userIDFrom(c *gin.Context) string {
	return c.GetString(contextUserIDKey)
}

// sessionIDFrom X-Session-Id ヘッダーからセッションIDを取得する。
// セッションはクライアント側で発行したUUIDを想定する
func sessionIDFrom(c *gin.Context) string {
	return c.GetHeader(sessionHeaderName)
}

// requireSessionID セッションIDがない場合は400を返す
func requireSessionID(c *gin.Context) (string, bool) {
	sessionID := sessionIDFrom(c)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": sessionHeaderName + " ヘッダーが必要です",
		})
		return "", false
	}
	return sessionID, true
}
