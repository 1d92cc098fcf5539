package repository

import (
	"fmt"

	"github.com/paulmach/orb"

	"Moim-App/internal/domain/model"
)

// SearchBound 中心点と半径から検索用の境界ボックスを作成する。
// ST_DWithin の前段の粗いインデックスフィルタに使う
func SearchBound(center model.LatLng, radiusMeters int) orb.Bound {
	point := orb.Point{center.Lng, center.Lat}
	bound := orb.Bound{Min: point, Max: point}

	// 緯度1度 ≈ 111km として半径をおおまかに度数へ変換
	padding := float64(radiusMeters) / 111000.0
	return bound.Pad(padding)
}

// BoundToEnvelopeArgs 境界ボックスを ST_MakeEnvelope の引数順
// (minLng, minLat, maxLng, maxLat) で返す
func BoundToEnvelopeArgs(bound orb.Bound) (float64, float64, float64, float64) {
	return bound.Min.Lon(), bound.Min.Lat(), bound.Max.Lon(), bound.Max.Lat()
}

// FormatPointWKT 座標を PostGIS に渡す POINT のWKTに変換
func FormatPointWKT(ll model.LatLng) string {
	return fmt.Sprintf("POINT(%f %f)", ll.Lng, ll.Lat)
}
