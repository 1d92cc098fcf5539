package model

// OverlayCollection マップ上で独立に管理するオーバーレイの集合
type OverlayCollection string

const (
	CollectionSelf       OverlayCollection = "self_marker"
	CollectionPlaces     OverlayCollection = "place_markers"
	CollectionLoot       OverlayCollection = "loot_markers"
	CollectionFriends    OverlayCollection = "friend_markers"
	CollectionManual     OverlayCollection = "manual_markers"
	CollectionRoutes     OverlayCollection = "routes"
	CollectionTimeLabels OverlayCollection = "time_labels"
)

// MarkerCollections 通常の照合パスで管理する5つのマーカー集合。
// routes / time_labels は経路パスで別途管理する
var MarkerCollections = []OverlayCollection{
	CollectionSelf,
	CollectionPlaces,
	CollectionLoot,
	CollectionFriends,
	CollectionManual,
}

// Overlay マップに描画する1要素（マーカー・経路線・ラベル）
type Overlay struct {
	ID         string            `json:"id"` // 集合内で安定な識別子
	Collection OverlayCollection `json:"collection"`
	Position   LatLng            `json:"position"`
	Label      string            `json:"label,omitempty"`
	Color      string            `json:"color,omitempty"` // 経路線のみ
	Path       []LatLng          `json:"path,omitempty"`  // 経路線のみ
}

// OverlayState 前回の照合パスで描画済みのオーバーレイ。
// OverlayService（レンダラー）だけが所有・変更する
type OverlayState map[OverlayCollection]map[string]Overlay

// Clone 状態の複製（照合パスの入出力を分離するため）
func (s OverlayState) Clone() OverlayState {
	cloned := make(OverlayState, len(s))
	for collection, overlays := range s {
		m := make(map[string]Overlay, len(overlays))
		for id, o := range overlays {
			m[id] = o
		}
		cloned[collection] = m
	}
	return cloned
}

// CommandOp オーバーレイ差分コマンドの種別
type CommandOp string

const (
	OpAdd      CommandOp = "add"
	OpRemove   CommandOp = "remove"
	OpRecenter CommandOp = "recenter"
)

// OverlayCommand マップエンジンに依存しない描画コマンド。
// 1パス内では必ず remove が add より先に並ぶ
type OverlayCommand struct {
	Op         CommandOp         `json:"op"`
	Collection OverlayCollection `json:"collection,omitempty"`
	Overlay    *Overlay          `json:"overlay,omitempty"`
	Center     *LatLng           `json:"center,omitempty"` // recenter のみ
}

// LootMarker イベント・ルートドロップ用のマーカー入力
type LootMarker struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	LatLng LatLng `json:"latlng"`
}

// FriendMarker フレンドの表示用マーカー入力
type FriendMarker struct {
	FriendID string  `json:"friend_id"`
	Name     string  `json:"name"`
	LatLng   *LatLng `json:"latlng,omitempty"` // 位置未取得なら描画しない
}

// OverlayInput 1回の照合パスへの入力
type OverlayInput struct {
	IncludeSelf  bool               `json:"include_self"`
	SelfLocation *LatLng            `json:"self_location,omitempty"`
	ActiveRegion *RecommendedRegion `json:"active_region,omitempty"`
	Loot         []LootMarker       `json:"loot"`
	Friends      []FriendMarker     `json:"friends"`
	Manual       []ResolvedOrigin   `json:"manual"`
}

// 出発地点種別ごとの経路線の色
const (
	RouteColorSelf   = "#4A90D9"
	RouteColorFriend = "#50B86C"
	RouteColorManual = "#E2A03F"
)

// RouteColorFor 出発地点の種別から経路線の色を返す
func RouteColorFor(kind OriginKind) string {
	switch kind {
	case OriginSelf:
		return RouteColorSelf
	case OriginFriend:
		return RouteColorFriend
	default:
		return RouteColorManual
	}
}
