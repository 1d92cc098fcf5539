package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Moim-App/internal/domain/model"
	"Moim-App/internal/domain/repository"
	"Moim-App/internal/domain/service"
	"Moim-App/internal/usecase"
)

// OverlayHandler マップオーバーレイの照合パスを駆動するHTTPハンドラー。
// クライアントは返ってきたコマンド列をそのままマップエンジンへ適用する
type OverlayHandler struct {
	renderer        *service.OverlayRenderer
	resolver        service.OriginResolverService
	midpointUseCase usecase.MidpointUseCase
	usersRepo       repository.UsersRepository
}

// NewOverlayHandler OverlayHandlerの新しいインスタンスを作成
func NewOverlayHandler(
	renderer *service.OverlayRenderer,
	resolver service.OriginResolverService,
	midpointUseCase usecase.MidpointUseCase,
	usersRepo repository.UsersRepository,
) *OverlayHandler {
	return &OverlayHandler{
		renderer:        renderer,
		resolver:        resolver,
		midpointUseCase: midpointUseCase,
		usersRepo:       usersRepo,
	}
}

// overlayPlanRequest POST /api/overlay/plan のリクエストボディ
type overlayPlanRequest struct {
	IncludeMe     bool                     `json:"include_me"`
	SelfLocation  *model.LatLng            `json:"self_location,omitempty"`
	FriendIDs     []string                 `json:"friend_ids"`
	ManualPlaces  []model.ManualPlaceInput `json:"manual_places"`
	Loot          []model.LootMarker       `json:"loot"`
	Destination   *model.LatLng            `json:"destination,omitempty"` // 単一の場所を選択中の場合
	IncludeRoutes bool                     `json:"include_routes"`
}

// PostPlan は照合パスを1回実行し、remove→addの順の差分コマンド列を返す
// POST /api/overlay/plan
func (h *OverlayHandler) PostPlan(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	var req overlayPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "リクエストの形式が正しくありません: " + err.Error(),
		})
		return
	}

	in := &model.OverlayInput{
		IncludeSelf:  req.IncludeMe,
		SelfLocation: req.SelfLocation,
		ActiveRegion: h.midpointUseCase.ActiveRegion(sessionID),
		Loot:         req.Loot,
	}

	// フレンドマーカー（位置が取れないフレンドは表示のみスキップ）
	if len(req.FriendIDs) > 0 {
		friends, err := h.usersRepo.GetFriendsByIDs(c.Request.Context(), userIDFrom(c), req.FriendIDs)
		if err == nil {
			for _, friend := range friends {
				marker := model.FriendMarker{FriendID: friend.FriendID, Name: friend.Name}
				if friend.HasLocation() {
					ll := friend.Location.ToLatLng()
					marker.LatLng = &ll
				}
				in.Friends = append(in.Friends, marker)
			}
		}
	}

	// 手入力地点マーカー（解決できたもののみ）
	for _, manual := range req.ManualPlaces {
		if ll := h.resolver.ResolveManual(c.Request.Context(), manual); ll != nil {
			in.Manual = append(in.Manual, model.ResolvedOrigin{
				Kind:   model.OriginManual,
				Label:  manual.Label,
				LatLng: *ll,
			})
		}
	}

	commands := h.renderer.Render(sessionID, in)

	// 経路パス: 選択中の場所、なければアクティブなエリアの中心を目的地にする
	if req.IncludeRoutes {
		destination := req.Destination
		if destination == nil && in.ActiveRegion != nil {
			destination = in.ActiveRegion.Center
		}
		if destination != nil && destination.IsValid() {
			origins := h.midpointUseCase.ActiveOrigins(sessionID)
			commands = append(commands, h.renderer.RenderRoutes(sessionID, origins, *destination)...)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"commands": commands,
	})
}

// DeleteSession はセッションの描画状態を破棄する（マップ画面からの離脱時）
// DELETE /api/overlay/session
func (h *OverlayHandler) DeleteSession(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	h.renderer.ClearSession(sessionID)
	c.Status(http.StatusNoContent)
}
