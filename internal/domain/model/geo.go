package model

// LatLng 緯度経度を表す基本的な型（距離計算・経路描画で使用）
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsValid 緯度経度が有効な範囲内かチェック
func (l LatLng) IsValid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180 &&
		!(l.Lat == 0 && l.Lng == 0)
}

// Geometry PostGIS GEOMETRY型に対応する構造体
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [longitude, latitude]
}

// ToLatLng Geometry の座標を LatLng 型に変換（不正な場合はゼロ値）
func (g *Geometry) ToLatLng() LatLng {
	if g != nil && len(g.Coordinates) >= 2 {
		return LatLng{
			Lat: g.Coordinates[1], // latitude
			Lng: g.Coordinates[0], // longitude
		}
	}
	return LatLng{}
}
