package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"Moim-App/internal/domain/model"
)

func TestHaversineDistance(t *testing.T) {
	t.Run("同一地点は距離0", func(t *testing.T) {
		p := model.LatLng{Lat: 37.50, Lng: 127.00}
		assert.Equal(t, 0.0, HaversineDistance(p, p))
	})

	t.Run("近距離の2地点", func(t *testing.T) {
		origin := model.LatLng{Lat: 37.50, Lng: 127.00}
		destination := model.LatLng{Lat: 37.51, Lng: 127.01}

		distance := HaversineDistance(origin, destination)
		assert.InDelta(t, 1.42, distance, 0.05)
	})
}

func TestFallbackTravelMinutes(t *testing.T) {
	// ceil(distance_km * 3 + 5) の線形モデル
	origin := model.LatLng{Lat: 37.50, Lng: 127.00}
	destination := model.LatLng{Lat: 37.51, Lng: 127.01}

	minutes := FallbackTravelMinutes(origin, destination)
	assert.Equal(t, 10, minutes)
}

func TestTravelLabel(t *testing.T) {
	// 推定値は確定値と区別できるよう "~" を前置する
	assert.Equal(t, "12分", TravelLabel(12, false))
	assert.Equal(t, "~10分", TravelLabel(10, true))
}

func TestRouteMidpoint(t *testing.T) {
	origin := model.LatLng{Lat: 37.50, Lng: 127.00}
	destination := model.LatLng{Lat: 37.52, Lng: 127.02}

	mid := RouteMidpoint(origin, destination)
	assert.InDelta(t, 37.51, mid.Lat, 0.001)
	assert.InDelta(t, 127.01, mid.Lng, 0.001)
}
