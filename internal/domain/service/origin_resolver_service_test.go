package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"Moim-App/internal/domain/model"
)

// fakeUsersRepo テスト用のユーザーリポジトリ
type fakeUsersRepo struct {
	user    *model.User
	friends []model.Friend
	err     error
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, userID string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.user == nil {
		return nil, errors.New("ユーザーが見つかりません")
	}
	return f.user, nil
}

func (f *fakeUsersRepo) GetFriends(ctx context.Context, userID string) ([]model.Friend, error) {
	return f.friends, f.err
}

func (f *fakeUsersRepo) GetFriendsByIDs(ctx context.Context, userID string, friendIDs []string) ([]model.Friend, error) {
	if f.err != nil {
		return nil, f.err
	}
	var result []model.Friend
	for _, id := range friendIDs {
		for _, friend := range f.friends {
			if friend.FriendID == id {
				result = append(result, friend)
			}
		}
	}
	return result, nil
}

// fakePlacesRepo 検索呼び出し回数を記録する場所リポジトリ
type fakePlacesRepo struct {
	searchCalls int
	hits        []model.Place
	err         error
}

func (f *fakePlacesRepo) GetByID(ctx context.Context, id string) (*model.Place, error) {
	return nil, errors.New("not implemented")
}

func (f *fakePlacesRepo) Search(ctx context.Context, query string, mainCategory string, limit int) ([]model.Place, error) {
	f.searchCalls++
	return f.hits, f.err
}

func (f *fakePlacesRepo) Autocomplete(ctx context.Context, query string, limit int) ([]model.Place, error) {
	return f.hits, f.err
}

func (f *fakePlacesRepo) FindNearby(ctx context.Context, location model.LatLng, radiusMeters int, limit int) ([]*model.Place, error) {
	return nil, errors.New("not implemented")
}

func geometryAt(lat, lng float64) *model.Geometry {
	return &model.Geometry{Type: "Point", Coordinates: []float64{lng, lat}}
}

func TestOriginResolverService_ResolveAll(t *testing.T) {
	ctx := context.Background()

	t.Run("自分→フレンド→手入力の固定順序で解決する", func(t *testing.T) {
		usersRepo := &fakeUsersRepo{
			user: &model.User{ID: "u1", Name: "自分", Location: geometryAt(37.50, 127.00), LocationName: "自宅"},
			friends: []model.Friend{
				{FriendID: "f1", Name: "友人A", Location: geometryAt(37.52, 127.02)},
			},
		}
		placesRepo := &fakePlacesRepo{}
		svc := NewOriginResolverService(usersRepo, placesRepo)

		origins := svc.ResolveAll(ctx, "u1", &model.MidpointSearchRequest{
			IncludeMe: true,
			FriendIDs: []string{"f1"},
			ManualPlaces: []model.ManualPlaceInput{
				{Label: "カフェ", LatLng: &model.LatLng{Lat: 37.54, Lng: 127.04}},
			},
		})

		assert.Len(t, origins, 3)
		assert.Equal(t, model.OriginSelf, origins[0].Kind)
		assert.Equal(t, model.OriginFriend, origins[1].Kind)
		assert.Equal(t, model.OriginManual, origins[2].Kind)
		assert.Equal(t, model.LatLng{Lat: 37.50, Lng: 127.00}, origins[0].LatLng)
		// 座標確定済みの手入力地点は検索を呼ばない
		assert.Equal(t, 0, placesRepo.searchCalls)
	})

	t.Run("プロフィール位置がなければ端末位置にフォールバックする", func(t *testing.T) {
		usersRepo := &fakeUsersRepo{user: &model.User{ID: "u1", Name: "自分"}}
		svc := NewOriginResolverService(usersRepo, &fakePlacesRepo{})

		origins := svc.ResolveAll(ctx, "u1", &model.MidpointSearchRequest{
			IncludeMe:      true,
			DeviceLocation: &model.LatLng{Lat: 35.68, Lng: 139.76},
		})

		assert.Len(t, origins, 1)
		assert.Equal(t, model.LatLng{Lat: 35.68, Lng: 139.76}, origins[0].LatLng)
	})

	t.Run("位置のないフレンドは解決から除外される", func(t *testing.T) {
		usersRepo := &fakeUsersRepo{
			friends: []model.Friend{
				{FriendID: "f1", Name: "友人A", Location: geometryAt(37.52, 127.02)},
				{FriendID: "f2", Name: "友人B"}, // 位置なし
			},
		}
		svc := NewOriginResolverService(usersRepo, &fakePlacesRepo{})

		origins := svc.ResolveAll(ctx, "u1", &model.MidpointSearchRequest{
			FriendIDs: []string{"f1", "f2"},
		})

		assert.Len(t, origins, 1)
		assert.Equal(t, "f1", origins[0].FriendID)
	})

	t.Run("フリーテキストの手入力はちょうど1回の検索で解決する", func(t *testing.T) {
		placesRepo := &fakePlacesRepo{
			hits: []model.Place{
				{ID: "p1", Name: "江南駅", Location: geometryAt(37.497, 127.027)},
			},
		}
		svc := NewOriginResolverService(&fakeUsersRepo{}, placesRepo)

		origins := svc.ResolveAll(ctx, "u1", &model.MidpointSearchRequest{
			ManualPlaces: []model.ManualPlaceInput{{Label: "江南駅"}},
		})

		assert.Equal(t, 1, placesRepo.searchCalls)
		assert.Len(t, origins, 1)
		assert.InDelta(t, 37.497, origins[0].LatLng.Lat, 0.0001)
	})

	t.Run("検索がヒットしない手入力は除外される（エラーにしない）", func(t *testing.T) {
		placesRepo := &fakePlacesRepo{hits: []model.Place{}}
		svc := NewOriginResolverService(&fakeUsersRepo{}, placesRepo)

		origins := svc.ResolveAll(ctx, "u1", &model.MidpointSearchRequest{
			ManualPlaces: []model.ManualPlaceInput{{Label: "存在しない場所"}},
		})

		assert.Equal(t, 1, placesRepo.searchCalls)
		assert.Empty(t, origins)
	})

	t.Run("検索失敗でも残りの地点は解決される", func(t *testing.T) {
		placesRepo := &fakePlacesRepo{err: errors.New("タイムアウト")}
		usersRepo := &fakeUsersRepo{
			user: &model.User{ID: "u1", Location: geometryAt(37.50, 127.00), LocationName: "自宅"},
		}
		svc := NewOriginResolverService(usersRepo, placesRepo)

		origins := svc.ResolveAll(ctx, "u1", &model.MidpointSearchRequest{
			IncludeMe:    true,
			ManualPlaces: []model.ManualPlaceInput{{Label: "どこか"}},
		})

		assert.Len(t, origins, 1)
		assert.Equal(t, model.OriginSelf, origins[0].Kind)
	})
}
