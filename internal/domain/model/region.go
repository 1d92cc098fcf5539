package model

import "sort"

// Place 場所ストアのレコード（PostGIS GEOMETRY型の位置情報を持つ）
type Place struct {
	ID       string    `json:"id" db:"id"`
	Name     string    `json:"name" db:"name"`
	Category string    `json:"category" db:"category"`
	Address  string    `json:"address" db:"address"`
	Location *Geometry `json:"location" db:"location"`
	Tags     []string  `json:"tags" db:"tags"`
	Rate     float64   `json:"rate" db:"rate"`
	URL      *string   `json:"url,omitempty" db:"url"`
}

// ToLatLng Placeの位置情報をLatLng型に変換
func (p *Place) ToLatLng() LatLng {
	return p.Location.ToLatLng()
}

// ToPlaceCard Place をレスポンス用のカードに変換
func (p *Place) ToPlaceCard() PlaceCard {
	ll := p.ToLatLng()
	return PlaceCard{
		Name:     p.Name,
		Category: p.Category,
		Address:  p.Address,
		Lat:      ll.Lat,
		Lng:      ll.Lng,
		Tags:     p.Tags,
	}
}

// PlaceCard おすすめ結果・検索結果として表示する場所カード
type PlaceCard struct {
	Name     string   `json:"name"`
	Category string   `json:"category,omitempty"`
	Address  string   `json:"address,omitempty"`
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	Tags     []string `json:"tags,omitempty"`
}

// ToLatLng PlaceCard の座標を LatLng 型に変換
func (p *PlaceCard) ToLatLng() LatLng {
	return LatLng{Lat: p.Lat, Lng: p.Lng}
}

// RecommendedRegion ランキングサービスが返す候補エリア。
// TravelTimes はリクエストに含めた出発地点の順序にインデックス対応する
type RecommendedRegion struct {
	RegionName  string      `json:"region_name"`
	Center      *LatLng     `json:"center,omitempty"`
	Places      []PlaceCard `json:"places"`
	TravelTimes []int       `json:"travel_times,omitempty"` // 分。欠損・非正値は未確定扱い
}

// RecommendQuery ランキングサービスへの問い合わせ内容
type RecommendQuery struct {
	Purpose      string       `json:"purpose"`
	Tags         []string     `json:"user_selected_tags"` // カテゴリ横断でフラット化済み
	LocationName string       `json:"location_name"`
	Primary      LatLng       `json:"-"` // 先頭の解決済み地点（current_lat/lngになる）
	Companions   []LatLng     `json:"-"` // 残りの地点
	DecisionCell DecisionCell `json:"decision_cell"`
	RequestID    string       `json:"request_id"`
}

// MidpointSearchRequest 中間地点検索APIのリクエストボディ
type MidpointSearchRequest struct {
	Purpose        string              `json:"purpose"`
	IncludeMe      bool                `json:"include_me"`
	DeviceLocation *LatLng             `json:"device_location,omitempty"`
	FriendIDs      []string            `json:"friend_ids"`
	ManualPlaces   []ManualPlaceInput  `json:"manual_places"`
	Tags           map[string][]string `json:"tags"` // カテゴリ → 選択タグ
}

// ManualPlaceInput 手入力地点。オートコンプリート確定済みなら座標を持つ
type ManualPlaceInput struct {
	Label  string  `json:"label"`
	LatLng *LatLng `json:"latlng,omitempty"`
}

// MidpointSearchResponse 中間地点検索APIのレスポンス
type MidpointSearchResponse struct {
	RequestID   string              `json:"request_id"`
	Regions     []RecommendedRegion `json:"regions"`
	ActiveIndex int                 `json:"active_index"`
	Origins     []ResolvedOrigin    `json:"origins"`
}

// FlattenTags カテゴリ別のタグ選択をフラットな一覧にする（順序はカテゴリ名昇順→出現順）
func (r *MidpointSearchRequest) FlattenTags() []string {
	if len(r.Tags) == 0 {
		return []string{}
	}
	categories := make([]string, 0, len(r.Tags))
	for category := range r.Tags {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	flat := make([]string, 0)
	seen := make(map[string]struct{})
	for _, category := range categories {
		for _, tag := range r.Tags[category] {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			flat = append(flat, tag)
		}
	}
	return flat
}
