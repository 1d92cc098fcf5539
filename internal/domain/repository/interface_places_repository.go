package repository

import (
	"context"

	"Moim-App/internal/domain/model"
)

type PlacesRepository interface {
	GetByID(ctx context.Context, id string) (*model.Place, error)
	// Search はフリーテキストとカテゴリで場所を検索する（ランキング順）
	Search(ctx context.Context, query string, mainCategory string, limit int) ([]model.Place, error)
	// Autocomplete は前方一致でサジェスト候補を検索する
	Autocomplete(ctx context.Context, query string, limit int) ([]model.Place, error)
	FindNearby(ctx context.Context, location model.LatLng, radiusMeters int, limit int) ([]*model.Place, error)
}
