package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"Moim-App/internal/domain/model"
	"Moim-App/internal/domain/repository"
	"Moim-App/internal/infrastructure/database"
)

type PostgresPlacesRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresPlacesRepository(client *database.PostgreSQLClient) repository.PlacesRepository {
	return &PostgresPlacesRepository{
		client: client,
	}
}

// PlaceResult PostGIS関数の結果を受け取るための構造体
type PlaceResult struct {
	ID             string
	Name           string
	Category       string
	Address        string
	Location       string
	Tags           string
	Rate           float64
	URL            sql.NullString
	DistanceMeters float64
}

// ToPlace PlaceResultをmodel.Placeに変換
func (pr *PlaceResult) ToPlace() (*model.Place, error) {
	var location model.Geometry
	if err := json.Unmarshal([]byte(pr.Location), &location); err != nil {
		return nil, fmt.Errorf("location JSONBパースエラー: %w", err)
	}

	var tags []string
	if pr.Tags != "" {
		if err := json.Unmarshal([]byte(pr.Tags), &tags); err != nil {
			return nil, fmt.Errorf("tags JSONBパースエラー: %w", err)
		}
	}

	place := &model.Place{
		ID:       pr.ID,
		Name:     pr.Name,
		Category: pr.Category,
		Address:  pr.Address,
		Location: &location,
		Tags:     tags,
		Rate:     pr.Rate,
	}

	if pr.URL.Valid {
		place.URL = &pr.URL.String
	}

	return place, nil
}

func (r *PostgresPlacesRepository) scanPlaces(rows *sql.Rows, withDistance bool) ([]model.Place, error) {
	var places []model.Place
	for rows.Next() {
		var result PlaceResult
		var err error
		if withDistance {
			err = rows.Scan(&result.ID, &result.Name, &result.Category, &result.Address,
				&result.Location, &result.Tags, &result.Rate, &result.URL, &result.DistanceMeters)
		} else {
			err = rows.Scan(&result.ID, &result.Name, &result.Category, &result.Address,
				&result.Location, &result.Tags, &result.Rate, &result.URL)
		}
		if err != nil {
			return nil, fmt.Errorf("場所データスキャンエラー: %w", err)
		}

		place, err := result.ToPlace()
		if err != nil {
			return nil, err
		}
		places = append(places, *place)
	}
	return places, nil
}

func (r *PostgresPlacesRepository) GetByID(ctx context.Context, id string) (*model.Place, error) {
	query := `SELECT id, name, category, address, ST_AsGeoJSON(location)::jsonb, tags, rate, url FROM places WHERE id = $1`

	row := r.client.DB.QueryRowContext(ctx, query, id)

	var result PlaceResult
	err := row.Scan(&result.ID, &result.Name, &result.Category, &result.Address,
		&result.Location, &result.Tags, &result.Rate, &result.URL)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("場所ID %s が見つかりません", id)
		}
		return nil, fmt.Errorf("場所データの取得失敗: %w", err)
	}

	return result.ToPlace()
}

func (r *PostgresPlacesRepository) Search(ctx context.Context, query string, mainCategory string, limit int) ([]model.Place, error) {
	sqlQuery := `
		SELECT
			p.id, p.name, p.category, p.address,
			ST_AsGeoJSON(p.location)::jsonb as location,
			p.tags, p.rate, p.url
		FROM places p
		WHERE p.name ILIKE '%' || $1 || '%'
		AND ($2 = '' OR p.category = $2)
		ORDER BY p.rate DESC
		LIMIT $3
	`

	rows, err := r.client.DB.QueryContext(ctx, sqlQuery, query, mainCategory, limit)
	if err != nil {
		return nil, fmt.Errorf("場所検索失敗: %w", err)
	}
	defer rows.Close()

	return r.scanPlaces(rows, false)
}

func (r *PostgresPlacesRepository) Autocomplete(ctx context.Context, query string, limit int) ([]model.Place, error) {
	if query == "" {
		return []model.Place{}, nil
	}

	sqlQuery := `
		SELECT
			p.id, p.name, p.category, p.address,
			ST_AsGeoJSON(p.location)::jsonb as location,
			p.tags, p.rate, p.url
		FROM places p
		WHERE p.name ILIKE $1 || '%'
		ORDER BY p.rate DESC
		LIMIT $2
	`

	rows, err := r.client.DB.QueryContext(ctx, sqlQuery, query, limit)
	if err != nil {
		return nil, fmt.Errorf("サジェスト検索失敗: %w", err)
	}
	defer rows.Close()

	return r.scanPlaces(rows, false)
}

func (r *PostgresPlacesRepository) FindNearby(ctx context.Context, location model.LatLng, radiusMeters int, limit int) ([]*model.Place, error) {
	// 境界ボックスで粗く絞ってから ST_DWithin で正確に判定する
	bound := SearchBound(location, radiusMeters)
	minLng, minLat, maxLng, maxLat := BoundToEnvelopeArgs(bound)
	point := FormatPointWKT(location)

	sqlQuery := `
		SELECT
			p.id, p.name, p.category, p.address,
			ST_AsGeoJSON(p.location)::jsonb as location,
			p.tags, p.rate, p.url,
			ST_Distance(
				ST_GeogFromText($1),
				p.location::geography
			) as distance_meters
		FROM places p
		WHERE p.location && ST_MakeEnvelope($3, $4, $5, $6, 4326)
		AND ST_DWithin(
			ST_GeogFromText($1),
			p.location::geography,
			$2
		)
		ORDER BY distance_meters
		LIMIT $7
	`

	rows, err := r.client.DB.QueryContext(ctx, sqlQuery, point, radiusMeters,
		minLng, minLat, maxLng, maxLat, limit)
	if err != nil {
		return nil, fmt.Errorf("周辺場所検索失敗: %w", err)
	}
	defer rows.Close()

	places, err := r.scanPlaces(rows, true)
	if err != nil {
		return nil, err
	}

	result := make([]*model.Place, 0, len(places))
	for i := range places {
		result = append(result, &places[i])
	}
	return result, nil
}
