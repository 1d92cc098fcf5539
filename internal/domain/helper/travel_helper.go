package helper

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"

	"Moim-App/internal/domain/model"
)

const earthRadiusKm = 6371.0

// HaversineDistance は2地点間の距離を計算する (km)
func HaversineDistance(p1, p2 model.LatLng) float64 {
	lat1 := p1.Lat * math.Pi / 180
	lng1 := p1.Lng * math.Pi / 180
	lat2 := p2.Lat * math.Pi / 180
	lng2 := p2.Lng * math.Pi / 180
	dLat := lat2 - lat1
	dLng := lng2 - lng1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// FallbackTravelMinutes は大圏距離からの簡易所要時間推定 (分)。
// 実効速度約20km/h + 固定オーバーヘッド5分の線形モデルで、
// バックエンドの所要時間が欠損している場合にのみ使用する
func FallbackTravelMinutes(origin, destination model.LatLng) int {
	distanceKm := HaversineDistance(origin, destination)
	return int(math.Ceil(distanceKm*3 + 5))
}

// TravelLabel は所要時間の表示文字列を返す。
// 推定値は確定値と区別できるよう "~" を前置する
func TravelLabel(minutes int, estimated bool) string {
	if estimated {
		return fmt.Sprintf("~%d分", minutes)
	}
	return fmt.Sprintf("%d分", minutes)
}

// RouteMidpoint は2地点の大圏中点を計算する（経路上の時間ラベルのアンカー位置）
func RouteMidpoint(p1, p2 model.LatLng) model.LatLng {
	a := s2.LatLngFromDegrees(p1.Lat, p1.Lng)
	b := s2.LatLngFromDegrees(p2.Lat, p2.Lng)

	mid := s2.Interpolate(0.5, s2.PointFromLatLng(a), s2.PointFromLatLng(b))
	midLatLng := s2.LatLngFromPoint(mid)

	return model.LatLng{
		Lat: midLatLng.Lat.Degrees(),
		Lng: midLatLng.Lng.Degrees(),
	}
}
