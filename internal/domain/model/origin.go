package model

// OriginKind 中間地点検索に参加する地点の種別
type OriginKind string

const (
	OriginSelf   OriginKind = "self"   // 自分（プロフィール or 端末位置情報）
	OriginFriend OriginKind = "friend" // フレンドの最終確認位置
	OriginManual OriginKind = "manual" // 手入力の地点（フリーテキスト）
)

// ResolvedOrigin 座標解決済みの出発地点
type ResolvedOrigin struct {
	Kind     OriginKind `json:"kind"`
	Label    string     `json:"label"`
	FriendID string     `json:"friend_id,omitempty"`
	LatLng   LatLng     `json:"latlng"`

	// TravelMinutes 目的地までの所要時間（分）。バックエンドが返さなかった場合は0
	TravelMinutes int `json:"travel_minutes,omitempty"`
	// TravelEstimated 所要時間がフォールバック推定値かどうか
	TravelEstimated bool `json:"travel_estimated,omitempty"`
}
