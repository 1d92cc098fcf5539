package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"Moim-App/internal/database"
	"Moim-App/internal/domain/model"
	"Moim-App/internal/domain/repository"
)

type SupabaseUsersRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseUsersRepository(client *database.SupabaseClient) repository.UsersRepository {
	return &SupabaseUsersRepository{
		client: client,
	}
}

func (r *SupabaseUsersRepository) GetByID(ctx context.Context, userID string) (*model.User, error) {
	var users []model.User
	data, count, err := r.client.GetClient().From("users").Select("*", "exact", false).Eq("id", userID).Execute()
	if err != nil {
		return nil, fmt.Errorf("ユーザーデータの取得失敗: %w", err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &users); err != nil {
		return nil, fmt.Errorf("ユーザーデータのJSONアンマーシャル失敗: %w", err)
	}

	if len(users) == 0 {
		return nil, fmt.Errorf("ユーザーID %s が見つかりません", userID)
	}

	return &users[0], nil
}

// GetFriends friends_view からフレンド一覧を最終確認位置つきで取得する
func (r *SupabaseUsersRepository) GetFriends(ctx context.Context, userID string) ([]model.Friend, error) {
	var friends []model.Friend
	data, count, err := r.client.GetClient().From("friends_view").
		Select("friend_id,name,location", "exact", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("フレンドデータの取得失敗: %w", err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &friends); err != nil {
		return nil, fmt.Errorf("フレンドデータのJSONアンマーシャル失敗: %w", err)
	}

	return friends, nil
}

func (r *SupabaseUsersRepository) GetFriendsByIDs(ctx context.Context, userID string, friendIDs []string) ([]model.Friend, error) {
	if len(friendIDs) == 0 {
		return []model.Friend{}, nil
	}

	var friends []model.Friend
	data, count, err := r.client.GetClient().From("friends_view").
		Select("friend_id,name,location", "exact", false).
		Eq("user_id", userID).
		In("friend_id", friendIDs).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("フレンドデータの取得失敗: %w", err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &friends); err != nil {
		return nil, fmt.Errorf("フレンドデータのJSONアンマーシャル失敗: %w", err)
	}

	return friends, nil
}
