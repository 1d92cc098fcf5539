package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/paulmach/orb/encoding/wkt"

	"Moim-App/internal/database"
	"Moim-App/internal/domain/model"
	"Moim-App/internal/domain/repository"
)

type SupabasePlacesRepository struct {
	client *database.SupabaseClient
}

func NewSupabasePlacesRepository(client *database.SupabaseClient) repository.PlacesRepository {
	return &SupabasePlacesRepository{
		client: client,
	}
}

func (r *SupabasePlacesRepository) GetByID(ctx context.Context, id string) (*model.Place, error) {
	var places []model.Place
	data, count, err := r.client.GetClient().From("places").Select("*", "exact", false).Eq("id", id).Execute()
	if err != nil {
		return nil, fmt.Errorf("場所データの取得失敗: %w", err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &places); err != nil {
		return nil, fmt.Errorf("場所データのJSONアンマーシャル失敗: %w", err)
	}

	if len(places) == 0 {
		return nil, fmt.Errorf("場所ID %s が見つかりません", id)
	}

	return &places[0], nil
}

func (r *SupabasePlacesRepository) Search(ctx context.Context, query string, mainCategory string, limit int) ([]model.Place, error) {
	builder := r.client.GetClient().From("places").
		Select("*", "exact", false).
		Filter("name", "ilike", "%"+query+"%")

	if mainCategory != "" {
		builder = builder.Eq("category", mainCategory)
	}

	data, count, err := builder.Limit(limit, "").Execute()
	if err != nil {
		return nil, fmt.Errorf("場所検索の実行失敗: %w", err)
	}
	_ = count

	var places []model.Place
	if err := json.Unmarshal([]byte(data), &places); err != nil {
		return nil, fmt.Errorf("場所データのJSONアンマーシャル失敗: %w", err)
	}

	// 評価の高い順（先頭ヒットが手入力地点の解決先になる）
	sort.Slice(places, func(i, j int) bool {
		return places[i].Rate > places[j].Rate
	})

	return places, nil
}

func (r *SupabasePlacesRepository) Autocomplete(ctx context.Context, query string, limit int) ([]model.Place, error) {
	if query == "" {
		return []model.Place{}, nil
	}

	// 前方一致のサジェスト
	data, count, err := r.client.GetClient().From("places").
		Select("id,name,category,address,location", "exact", false).
		Filter("name", "ilike", query+"%").
		Limit(limit, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("サジェスト検索の実行失敗: %w", err)
	}
	_ = count

	var places []model.Place
	if err := json.Unmarshal([]byte(data), &places); err != nil {
		return nil, fmt.Errorf("場所データのJSONアンマーシャル失敗: %w", err)
	}

	return places, nil
}

func (r *SupabasePlacesRepository) FindNearby(ctx context.Context, location model.LatLng, radiusMeters int, limit int) ([]*model.Place, error) {
	// orb.Bound で境界ボックスを作成し、PostGIS ST_Intersects で粗く絞り込む
	bound := SearchBound(location, radiusMeters)
	wktString := wkt.MarshalString(bound.ToPolygon())

	data, count, err := r.client.GetClient().From("places").
		Select("*", "exact", false).
		Filter("location", "st_intersects", fmt.Sprintf("ST_GeomFromText('%s', 4326)", wktString)).
		Limit(limit, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("周辺場所の検索失敗: %w", err)
	}
	_ = count

	var places []model.Place
	if err := json.Unmarshal([]byte(data), &places); err != nil {
		return nil, fmt.Errorf("場所データのJSONアンマーシャル失敗: %w", err)
	}

	result := make([]*model.Place, 0, len(places))
	for i := range places {
		result = append(result, &places[i])
	}
	return result, nil
}
