package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"Moim-App/internal/domain/model"
	"Moim-App/internal/domain/repository"
)

// DecisionCellService DecisionCell と RequestId の唯一の更新経路。
// セッションストアを直接読み書きするのはこのサービスだけ
type DecisionCellService interface {
	// Default は現在時刻から既定値のセルを返す
	Default() model.DecisionCell

	// Load はセッションのセルを取得する。未保存・破損時は既定値を返す
	Load(ctx context.Context, sessionID string) model.DecisionCell

	// Update は load → merge → normalize → save を行い、更新後のセルを返す。
	// 日付が変わった場合は RequestId もリセットされる
	Update(ctx context.Context, sessionID string, patch model.DecisionCellPatch) (model.DecisionCell, error)

	// RequestID は相関トークンを返す（初回アクセス時に生成）
	RequestID(ctx context.Context, sessionID string) (string, error)

	// ResetRequestID は必ず新しいトークンを発行して保存する
	ResetRequestID(ctx context.Context, sessionID string) (string, error)
}

type decisionCellServiceImpl struct {
	sessionRepo repository.SessionRepository
	now         func() time.Time
}

// NewDecisionCellService DecisionCellServiceの新しいインスタンスを作成
func NewDecisionCellService(sessionRepo repository.SessionRepository) DecisionCellService {
	return &decisionCellServiceImpl{
		sessionRepo: sessionRepo,
		now:         time.Now,
	}
}

// NewDecisionCellServiceWithClock テスト用に現在時刻を注入できるコンストラクタ
func NewDecisionCellServiceWithClock(sessionRepo repository.SessionRepository, now func() time.Time) DecisionCellService {
	return &decisionCellServiceImpl{
		sessionRepo: sessionRepo,
		now:         now,
	}
}

func (s *decisionCellServiceImpl) Default() model.DecisionCell {
	return model.DefaultDecisionCell(s.now())
}

// loadState セッション状態を取得する。欠損・破損は既定値で静かに回復する
func (s *decisionCellServiceImpl) loadState(ctx context.Context, sessionID string) *repository.SessionState {
	state, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		if err != repository.ErrSessionNotFound {
			log.Printf("⚠️ セッション %s の読み込みに失敗、既定値で続行: %v", sessionID, err)
		}
		return &repository.SessionState{DecisionCell: s.Default()}
	}
	state.DecisionCell = state.DecisionCell.Normalize()
	return state
}

func (s *decisionCellServiceImpl) Load(ctx context.Context, sessionID string) model.DecisionCell {
	return s.loadState(ctx, sessionID).DecisionCell
}

func (s *decisionCellServiceImpl) Update(ctx context.Context, sessionID string, patch model.DecisionCellPatch) (model.DecisionCell, error) {
	state := s.loadState(ctx, sessionID)
	previousDate := state.DecisionCell.Date

	state.DecisionCell = state.DecisionCell.Apply(patch).Normalize()

	// 日付の変更は検索コンテキストの無効化を意味するので相関トークンを切り替える
	if state.DecisionCell.Date != previousDate {
		state.RequestID = uuid.New().String()
	}

	if err := s.sessionRepo.Set(ctx, sessionID, state); err != nil {
		return model.DecisionCell{}, err
	}
	return state.DecisionCell, nil
}

func (s *decisionCellServiceImpl) RequestID(ctx context.Context, sessionID string) (string, error) {
	state := s.loadState(ctx, sessionID)
	if state.RequestID != "" {
		return state.RequestID, nil
	}

	state.RequestID = uuid.New().String()
	if err := s.sessionRepo.Set(ctx, sessionID, state); err != nil {
		return "", err
	}
	return state.RequestID, nil
}

func (s *decisionCellServiceImpl) ResetRequestID(ctx context.Context, sessionID string) (string, error) {
	state := s.loadState(ctx, sessionID)
	state.RequestID = uuid.New().String()
	if err := s.sessionRepo.Set(ctx, sessionID, state); err != nil {
		return "", err
	}
	return state.RequestID, nil
}
