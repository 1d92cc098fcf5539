package service

import (
	"context"
	"log"

	"Moim-App/internal/domain/model"
	"Moim-App/internal/domain/repository"
)

// OriginResolverService 出発地点（自分・フレンド・手入力）を座標に解決するサービス
type OriginResolverService interface {
	// ResolveAll はリクエスト内の全地点を固定順序（自分→フレンド→手入力）で解決する。
	// 解決できなかった地点は除外され、エラーにはならない
	ResolveAll(ctx context.Context, userID string, req *model.MidpointSearchRequest) []model.ResolvedOrigin

	// ResolveManual は手入力地点を単体で解決する。解決不能ならnil
	ResolveManual(ctx context.Context, input model.ManualPlaceInput) *model.LatLng
}

type originResolverServiceImpl struct {
	usersRepo  repository.UsersRepository
	placesRepo repository.PlacesRepository
}

// NewOriginResolverService OriginResolverServiceの新しいインスタンスを作成
func NewOriginResolverService(usersRepo repository.UsersRepository, placesRepo repository.PlacesRepository) OriginResolverService {
	return &originResolverServiceImpl{
		usersRepo:  usersRepo,
		placesRepo: placesRepo,
	}
}

// ResolveAll 自分→フレンド→手入力の固定順序で解決する。
// この順序は下流の travel_times 配列のインデックス対応に使われるため変更してはいけない
func (s *originResolverServiceImpl) ResolveAll(ctx context.Context, userID string, req *model.MidpointSearchRequest) []model.ResolvedOrigin {
	origins := make([]model.ResolvedOrigin, 0)

	// 1. 自分（プロフィール位置 → 端末位置の順でフォールバック）
	if req.IncludeMe {
		if self := s.resolveSelf(ctx, userID, req.DeviceLocation); self != nil {
			origins = append(origins, *self)
		}
	}

	// 2. フレンド（最終確認位置がないフレンドは解決から除外）
	if len(req.FriendIDs) > 0 {
		friends, err := s.usersRepo.GetFriendsByIDs(ctx, userID, req.FriendIDs)
		if err != nil {
			log.Printf("⚠️ フレンド位置の取得に失敗、フレンドを除外して続行: %v", err)
		} else {
			for _, friend := range friends {
				if !friend.HasLocation() {
					continue
				}
				origins = append(origins, model.ResolvedOrigin{
					Kind:     model.OriginFriend,
					Label:    friend.Name,
					FriendID: friend.FriendID,
					LatLng:   friend.Location.ToLatLng(),
				})
			}
		}
	}

	// 3. 手入力地点
	for _, manual := range req.ManualPlaces {
		if manual.Label == "" && manual.LatLng == nil {
			continue
		}
		if ll := s.ResolveManual(ctx, manual); ll != nil {
			origins = append(origins, model.ResolvedOrigin{
				Kind:   model.OriginManual,
				Label:  manual.Label,
				LatLng: *ll,
			})
		}
	}

	return origins
}

// resolveSelf プロフィールの登録位置を優先し、なければ端末位置を使う
func (s *originResolverServiceImpl) resolveSelf(ctx context.Context, userID string, deviceLocation *model.LatLng) *model.ResolvedOrigin {
	user, err := s.usersRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("⚠️ プロフィールの取得に失敗: %v", err)
		user = nil
	}

	if user != nil && user.HasLocation() {
		return &model.ResolvedOrigin{
			Kind:   model.OriginSelf,
			Label:  user.LocationName,
			LatLng: user.Location.ToLatLng(),
		}
	}

	if deviceLocation != nil && deviceLocation.IsValid() {
		return &model.ResolvedOrigin{
			Kind:   model.OriginSelf,
			Label:  "現在地",
			LatLng: *deviceLocation,
		}
	}

	return nil
}

// ResolveManual オートコンプリート確定済みの座標を優先し、
// フリーテキストのみの場合は場所検索の先頭ヒットを採用する。
// 検索失敗・ヒットなしはログを残してnilを返す（呼び出し元には投げない）
func (s *originResolverServiceImpl) ResolveManual(ctx context.Context, input model.ManualPlaceInput) *model.LatLng {
	if input.LatLng != nil && input.LatLng.IsValid() {
		return input.LatLng
	}

	if input.Label == "" {
		return nil
	}

	hits, err := s.placesRepo.Search(ctx, input.Label, "", 1)
	if err != nil {
		log.Printf("⚠️ 手入力地点「%s」の検索に失敗: %v", input.Label, err)
		return nil
	}
	if len(hits) == 0 {
		log.Printf("⚠️ 手入力地点「%s」に一致する場所がありません", input.Label)
		return nil
	}

	ll := hits[0].ToLatLng()
	if !ll.IsValid() {
		return nil
	}
	return &ll
}
