package repository

import (
	"context"

	"Moim-App/internal/domain/model"
)

type UsersRepository interface {
	// GetByID はプロフィールを取得する（Self Origin の解決元）
	GetByID(ctx context.Context, userID string) (*model.User, error)
	// GetFriends はフレンド一覧を最終確認位置つきで取得する
	GetFriends(ctx context.Context, userID string) ([]model.Friend, error)
	GetFriendsByIDs(ctx context.Context, userID string, friendIDs []string) ([]model.Friend, error)
}
