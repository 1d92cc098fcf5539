package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"Moim-App/internal/domain/model"
	"Moim-App/internal/domain/repository"
	"Moim-App/internal/domain/service"
)

// ErrNoResolvableOrigin 1地点も座標解決できなかった場合に返す。
// このときランキングサービスへのリクエストは発行されない
var ErrNoResolvableOrigin = errors.New("出発地点を1つも解決できませんでした")

// ErrRequestInFlight 同一セッションの検索が実行中の場合に返す
var ErrRequestInFlight = errors.New("検索リクエストが実行中です")

// requestPhase セッションごとの検索リクエストの状態機械
// idle → pending → (success | failure) → idle
type requestPhase int

const (
	phaseIdle requestPhase = iota
	phasePending
)

type MidpointUseCase interface {
	// SearchMidpoint は出発地点を解決してランキングサービスに問い合わせ、
	// 候補エリア一覧を保存して先頭をアクティブにする。
	// 失敗時は表示中の結果を変更しない
	SearchMidpoint(ctx context.Context, sessionID, userID string, req *model.MidpointSearchRequest) (*model.MidpointSearchResponse, error)

	// SearchByQuery はランキングを介さないフリーテキスト検索。
	// ヒットを1つの合成エリアに包んで同じ描画経路に流す。
	// 空クエリ・ヒットなしは nil を返す（エラーではない）
	SearchByQuery(ctx context.Context, sessionID, query, mainCategory string) (*model.MidpointSearchResponse, error)

	// SelectTab はアクティブなエリアを切り替える。ネットワーク呼び出しは行わない
	SelectTab(sessionID string, index int) (*model.RecommendedRegion, error)

	// ActiveRegion は現在アクティブなエリアを返す（未検索ならnil）
	ActiveRegion(sessionID string) *model.RecommendedRegion

	// ActiveOrigins は直近の検索で使った解決済み出発地点を返す（所要時間ペア済み）
	ActiveOrigins(sessionID string) []model.ResolvedOrigin
}

// sessionResults セッションごとの表示中の結果
type sessionResults struct {
	regions     []model.RecommendedRegion
	activeIndex int
	origins     []model.ResolvedOrigin
}

type midpointUseCaseImpl struct {
	resolver    service.OriginResolverService
	cellService service.DecisionCellService
	provider    repository.RecommendProvider
	placesRepo  repository.PlacesRepository
	actionSink  repository.ActionSink

	mu      sync.Mutex
	results map[string]*sessionResults
	phases  map[string]requestPhase
}

// NewMidpointUseCase MidpointUseCaseの新しいインスタンスを作成
func NewMidpointUseCase(
	resolver service.OriginResolverService,
	cellService service.DecisionCellService,
	provider repository.RecommendProvider,
	placesRepo repository.PlacesRepository,
	actionSink repository.ActionSink,
) MidpointUseCase {
	return &midpointUseCaseImpl{
		resolver:    resolver,
		cellService: cellService,
		provider:    provider,
		placesRepo:  placesRepo,
		actionSink:  actionSink,
		results:     make(map[string]*sessionResults),
		phases:      make(map[string]requestPhase),
	}
}

// beginRequest pending への遷移。既にpendingなら二重送信として拒否する
func (u *midpointUseCaseImpl) beginRequest(sessionID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.phases[sessionID] == phasePending {
		return ErrRequestInFlight
	}
	u.phases[sessionID] = phasePending
	return nil
}

func (u *midpointUseCaseImpl) endRequest(sessionID string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.phases[sessionID] = phaseIdle
}

func (u *midpointUseCaseImpl) SearchMidpoint(ctx context.Context, sessionID, userID string, req *model.MidpointSearchRequest) (*model.MidpointSearchResponse, error) {
	if err := u.beginRequest(sessionID); err != nil {
		return nil, err
	}
	defer u.endRequest(sessionID)

	log.Printf("🔍 中間地点検索開始 (目的: %s)", model.GetPurposeJapaneseName(req.Purpose))

	// Step 1: 出発地点の解決（自分→フレンド→手入力の固定順序）
	origins := u.resolver.ResolveAll(ctx, userID, req)
	if len(origins) == 0 {
		return nil, ErrNoResolvableOrigin
	}
	log.Printf("✅ %d地点を解決", len(origins))

	// Step 2: 検索コンテキストと相関トークン
	cell := u.cellService.Load(ctx, sessionID)
	requestID, err := u.cellService.RequestID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("相関トークンの取得に失敗: %w", err)
	}

	// Step 3: ランキングサービスへの問い合わせを組み立てる。
	// 先頭の解決済み地点が current_lat/lng、残りが companions になる
	companions := make([]model.LatLng, 0, len(origins)-1)
	for _, origin := range origins[1:] {
		companions = append(companions, origin.LatLng)
	}
	query := &model.RecommendQuery{
		Purpose:      req.Purpose,
		Tags:         req.FlattenTags(),
		LocationName: origins[0].Label,
		Primary:      origins[0].LatLng,
		Companions:   companions,
		DecisionCell: cell,
		RequestID:    requestID,
	}

	regions, err := u.provider.Recommend(ctx, query)
	if err != nil {
		// 表示中の結果は変更しない（古いが有効なデータを残す）
		return nil, fmt.Errorf("おすすめ取得に失敗: %w", err)
	}
	if len(regions) == 0 {
		return nil, fmt.Errorf("条件に合うエリアが見つかりませんでした")
	}
	log.Printf("✅ %d件の候補エリアを取得", len(regions))

	// Step 4: 先頭エリアをアクティブにし、所要時間を地点にペアリングする。
	// travel_times は地点順のインデックス対応なので、受信直後にペア化して
	// 以降の処理が配列順序に依存しないようにする
	paired := pairTravelTimes(origins, regions[0].TravelTimes)

	u.mu.Lock()
	u.results[sessionID] = &sessionResults{
		regions:     regions,
		activeIndex: 0,
		origins:     paired,
	}
	u.mu.Unlock()

	// Step 5: インプレッション送信（fire-and-forget）
	u.actionSink.Emit("midpoint_impression", requestID, map[string]any{
		"purpose":      req.Purpose,
		"region_count": len(regions),
		"region_name":  regions[0].RegionName,
	})

	log.Printf("🎉 中間地点検索完了 (request_id: %s)", requestID)

	return &model.MidpointSearchResponse{
		RequestID:   requestID,
		Regions:     regions,
		ActiveIndex: 0,
		Origins:     paired,
	}, nil
}

func (u *midpointUseCaseImpl) SearchByQuery(ctx context.Context, sessionID, query, mainCategory string) (*model.MidpointSearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	places, err := u.placesRepo.Search(ctx, query, mainCategory, 20)
	if err != nil {
		return nil, fmt.Errorf("場所検索に失敗: %w", err)
	}
	if len(places) == 0 {
		return nil, nil
	}

	// ヒットを1つの合成エリアに包み、ランキング結果と同じ描画経路で表示する
	cards := make([]model.PlaceCard, 0, len(places))
	for _, place := range places {
		cards = append(cards, place.ToPlaceCard())
	}
	center := cards[0].ToLatLng()
	region := model.RecommendedRegion{
		RegionName: query,
		Center:     &center,
		Places:     cards,
	}

	u.mu.Lock()
	u.results[sessionID] = &sessionResults{
		regions:     []model.RecommendedRegion{region},
		activeIndex: 0,
	}
	u.mu.Unlock()

	return &model.MidpointSearchResponse{
		Regions:     []model.RecommendedRegion{region},
		ActiveIndex: 0,
	}, nil
}

func (u *midpointUseCaseImpl) SelectTab(sessionID string, index int) (*model.RecommendedRegion, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	results, ok := u.results[sessionID]
	if !ok {
		return nil, fmt.Errorf("検索結果がありません")
	}
	if index < 0 || index >= len(results.regions) {
		return nil, fmt.Errorf("タブ番号が不正です: %d", index)
	}

	results.activeIndex = index
	region := results.regions[index]

	// アクティブなエリアの所要時間で地点のペアリングを更新する
	results.origins = pairTravelTimes(results.origins, region.TravelTimes)

	return &region, nil
}

func (u *midpointUseCaseImpl) ActiveRegion(sessionID string) *model.RecommendedRegion {
	u.mu.Lock()
	defer u.mu.Unlock()

	results, ok := u.results[sessionID]
	if !ok || len(results.regions) == 0 {
		return nil
	}
	region := results.regions[results.activeIndex]
	return &region
}

func (u *midpointUseCaseImpl) ActiveOrigins(sessionID string) []model.ResolvedOrigin {
	u.mu.Lock()
	defer u.mu.Unlock()

	results, ok := u.results[sessionID]
	if !ok {
		return nil
	}
	origins := make([]model.ResolvedOrigin, len(results.origins))
	copy(origins, results.origins)
	return origins
}

// pairTravelTimes バックエンドの travel_times を地点ごとにペア化する。
// 非正値・欠損はフォールバック推定の対象として未確定のまま残す
func pairTravelTimes(origins []model.ResolvedOrigin, travelTimes []int) []model.ResolvedOrigin {
	paired := make([]model.ResolvedOrigin, len(origins))
	copy(paired, origins)
	for i := range paired {
		paired[i].TravelMinutes = 0
		paired[i].TravelEstimated = false
		if i < len(travelTimes) && travelTimes[i] > 0 {
			paired[i].TravelMinutes = travelTimes[i]
		}
	}
	return paired
}
