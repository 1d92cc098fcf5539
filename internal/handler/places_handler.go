package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"Moim-App/internal/domain/model"
	"Moim-App/internal/domain/repository"
)

// PlacesHandler 場所検索・サジェスト・詳細のHTTPハンドラー
type PlacesHandler struct {
	placesRepo repository.PlacesRepository
}

// NewPlacesHandler PlacesHandlerの新しいインスタンスを作成
func NewPlacesHandler(placesRepo repository.PlacesRepository) *PlacesHandler {
	return &PlacesHandler{
		placesRepo: placesRepo,
	}
}

// SearchPlaces GET /api/places/search?query=&main_category=
func (h *PlacesHandler) SearchPlaces(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "queryパラメータは必須です",
		})
		return
	}

	places, err := h.placesRepo.Search(c.Request.Context(), query, c.Query("main_category"), 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "場所検索に失敗しました: " + err.Error(),
		})
		return
	}

	cards := make([]any, 0, len(places))
	for i := range places {
		cards = append(cards, places[i].ToPlaceCard())
	}
	c.JSON(http.StatusOK, cards)
}

// AutocompletePlaces GET /api/places/autocomplete?query=
func (h *PlacesHandler) AutocompletePlaces(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))

	places, err := h.placesRepo.Autocomplete(c.Request.Context(), query, 10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "サジェスト検索に失敗しました: " + err.Error(),
		})
		return
	}

	cards := make([]any, 0, len(places))
	for i := range places {
		cards = append(cards, places[i].ToPlaceCard())
	}
	c.JSON(http.StatusOK, cards)
}

// NearbyPlaces GET /api/places/nearby?lat=&lng=&radius=
// 地図の表示範囲に合わせた周辺の場所一覧（距離の近い順）
func (h *PlacesHandler) NearbyPlaces(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	center := model.LatLng{Lat: lat, Lng: lng}
	if latErr != nil || lngErr != nil || !center.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "lat/lngパラメータが正しくありません",
		})
		return
	}

	radiusMeters := 800
	if raw := c.Query("radius"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 10000 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_request",
				"message": "radiusは1〜10000メートルの範囲で指定してください",
			})
			return
		}
		radiusMeters = parsed
	}

	places, err := h.placesRepo.FindNearby(c.Request.Context(), center, radiusMeters, 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "周辺場所の検索に失敗しました: " + err.Error(),
		})
		return
	}

	cards := make([]any, 0, len(places))
	for _, place := range places {
		cards = append(cards, place.ToPlaceCard())
	}
	c.JSON(http.StatusOK, cards)
}

// GetPlace GET /api/places/:id
// クライアントが画面遷移で離脱した場合はリクエストコンテキストの
// キャンセルがそのままリポジトリまで伝播する
func (h *PlacesHandler) GetPlace(c *gin.Context) {
	placeID := c.Param("id")
	if placeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "place_idが指定されていません",
		})
		return
	}

	place, err := h.placesRepo.GetByID(c.Request.Context(), placeID)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.Status(499) // client closed request
			return
		}
		if strings.Contains(err.Error(), "見つかりません") {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "場所詳細の取得に失敗しました: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, place)
}
