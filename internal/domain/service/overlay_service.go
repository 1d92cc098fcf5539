package service

import (
	"fmt"

	"Moim-App/internal/domain/helper"
	"Moim-App/internal/domain/model"
)

// OverlayService オーバーレイの宣言的な照合（差分計算）を行うサービス。
// 望ましいオーバーレイ集合を組み立て、前回の状態と突き合わせて
// remove → add の順のコマンド列を出力する。マップエンジンには依存しない
type OverlayService struct{}

// NewOverlayService OverlayServiceの新しいインスタンスを作成
func NewOverlayService() *OverlayService {
	return &OverlayService{}
}

// Reconcile 5つのマーカー集合の照合パス。
// 前回から消えたオーバーレイの remove を全て出力してから add を出力する。
// 入力の座標が不正な要素は静かにスキップする
func (s *OverlayService) Reconcile(prev model.OverlayState, in *model.OverlayInput) (model.OverlayState, []model.OverlayCommand) {
	desired := s.buildDesired(in)

	commands := make([]model.OverlayCommand, 0)

	// 撤去パス: 望ましい集合に存在しない・内容が変わったものを先に全て取り除く
	for _, collection := range model.MarkerCollections {
		for id, overlay := range prev[collection] {
			next, ok := desired[collection][id]
			if ok && overlayEqual(overlay, next) {
				continue
			}
			o := overlay
			commands = append(commands, model.OverlayCommand{Op: model.OpRemove, Collection: collection, Overlay: &o})
		}
	}

	// 追加パス
	for _, collection := range model.MarkerCollections {
		for id, overlay := range desired[collection] {
			if prevOverlay, ok := prev[collection][id]; ok && overlayEqual(prevOverlay, overlay) {
				continue
			}
			o := overlay
			commands = append(commands, model.OverlayCommand{Op: model.OpAdd, Collection: collection, Overlay: &o})
		}
	}

	// 再センタリング: アクティブなエリアが中心を持つ場合のみ
	if in.ActiveRegion != nil && in.ActiveRegion.Center != nil && in.ActiveRegion.Center.IsValid() {
		center := *in.ActiveRegion.Center
		commands = append(commands, model.OverlayCommand{Op: model.OpRecenter, Center: &center})
	}

	return desired, commands
}

// buildDesired 現在の入力から望ましいオーバーレイ集合を組み立てる
func (s *OverlayService) buildDesired(in *model.OverlayInput) model.OverlayState {
	desired := make(model.OverlayState, len(model.MarkerCollections))
	for _, collection := range model.MarkerCollections {
		desired[collection] = make(map[string]model.Overlay)
	}

	// 自分マーカーは「自分を含める」がONのときだけ
	if in.IncludeSelf && in.SelfLocation != nil && in.SelfLocation.IsValid() {
		desired[model.CollectionSelf]["self"] = model.Overlay{
			ID:         "self",
			Collection: model.CollectionSelf,
			Position:   *in.SelfLocation,
			Label:      "現在地",
		}
	}

	// アクティブなエリアの場所マーカー
	if in.ActiveRegion != nil {
		for i, place := range in.ActiveRegion.Places {
			ll := place.ToLatLng()
			if !ll.IsValid() {
				continue
			}
			id := fmt.Sprintf("place:%d:%s", i, place.Name)
			desired[model.CollectionPlaces][id] = model.Overlay{
				ID:         id,
				Collection: model.CollectionPlaces,
				Position:   ll,
				Label:      place.Name,
			}
		}
	}

	// ルートドロップ・イベントマーカー
	for _, loot := range in.Loot {
		if !loot.LatLng.IsValid() {
			continue
		}
		id := "loot:" + loot.ID
		desired[model.CollectionLoot][id] = model.Overlay{
			ID:         id,
			Collection: model.CollectionLoot,
			Position:   loot.LatLng,
			Label:      loot.Label,
		}
	}

	// フレンドマーカー（位置が解決できたフレンドのみ）
	for _, friend := range in.Friends {
		if friend.LatLng == nil || !friend.LatLng.IsValid() {
			continue
		}
		id := "friend:" + friend.FriendID
		desired[model.CollectionFriends][id] = model.Overlay{
			ID:         id,
			Collection: model.CollectionFriends,
			Position:   *friend.LatLng,
			Label:      friend.Name,
		}
	}

	// 手入力地点マーカー（座標解決済みのみ）
	for _, manual := range in.Manual {
		if manual.Kind != model.OriginManual || !manual.LatLng.IsValid() {
			continue
		}
		id := "manual:" + manual.Label
		desired[model.CollectionManual][id] = model.Overlay{
			ID:         id,
			Collection: model.CollectionManual,
			Position:   manual.LatLng,
			Label:      manual.Label,
		}
	}

	return desired
}

// BuildRoutes 経路パス。照合パスとは独立で冪等。
// 前回の経路線・時間ラベルを全て撤去してから、解決済みの各出発地点について
// 種別ごとの色の経路線と、中点の所要時間ラベルを描画する。
// 所要時間はバックエンドの確定値を優先し、欠損時はフォールバック推定（"~"付き）
func (s *OverlayService) BuildRoutes(prev model.OverlayState, origins []model.ResolvedOrigin, destination model.LatLng) (model.OverlayState, []model.OverlayCommand) {
	commands := make([]model.OverlayCommand, 0)

	// 撤去パス
	for _, collection := range []model.OverlayCollection{model.CollectionRoutes, model.CollectionTimeLabels} {
		for _, overlay := range prev[collection] {
			o := overlay
			commands = append(commands, model.OverlayCommand{Op: model.OpRemove, Collection: collection, Overlay: &o})
		}
	}

	desired := model.OverlayState{
		model.CollectionRoutes:     make(map[string]model.Overlay),
		model.CollectionTimeLabels: make(map[string]model.Overlay),
	}

	if !destination.IsValid() {
		return desired, commands
	}

	for i, origin := range origins {
		if !origin.LatLng.IsValid() {
			continue
		}

		minutes := origin.TravelMinutes
		estimated := origin.TravelEstimated
		if minutes <= 0 {
			minutes = helper.FallbackTravelMinutes(origin.LatLng, destination)
			estimated = true
		}

		routeID := fmt.Sprintf("route:%d:%s", i, origin.Kind)
		route := model.Overlay{
			ID:         routeID,
			Collection: model.CollectionRoutes,
			Position:   origin.LatLng,
			Color:      model.RouteColorFor(origin.Kind),
			Path:       []model.LatLng{origin.LatLng, destination},
		}
		desired[model.CollectionRoutes][routeID] = route
		commands = append(commands, model.OverlayCommand{Op: model.OpAdd, Collection: model.CollectionRoutes, Overlay: &route})

		labelID := fmt.Sprintf("label:%d:%s", i, origin.Kind)
		label := model.Overlay{
			ID:         labelID,
			Collection: model.CollectionTimeLabels,
			Position:   helper.RouteMidpoint(origin.LatLng, destination),
			Label:      helper.TravelLabel(minutes, estimated),
		}
		desired[model.CollectionTimeLabels][labelID] = label
		commands = append(commands, model.OverlayCommand{Op: model.OpAdd, Collection: model.CollectionTimeLabels, Overlay: &label})
	}

	return desired, commands
}

// overlayEqual 2つのオーバーレイが描画内容として同一かチェック
func overlayEqual(a, b model.Overlay) bool {
	if a.ID != b.ID || a.Collection != b.Collection || a.Position != b.Position ||
		a.Label != b.Label || a.Color != b.Color || len(a.Path) != len(b.Path) {
		return false
	}
	for i := range a.Path {
		if a.Path[i] != b.Path[i] {
			return false
		}
	}
	return true
}
