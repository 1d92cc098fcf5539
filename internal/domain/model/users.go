package model

// User ユーザープロフィール（Supabase users テーブル）
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Location     *Geometry `json:"location" db:"location"` // 登録済みの拠点位置（NULLABLE）
	LocationName string    `json:"location_name" db:"location_name"`
	AvatarURL    *string   `json:"avatar_url,omitempty" db:"avatar_url"`
}

// HasLocation 拠点位置が登録されているかチェック
func (u *User) HasLocation() bool {
	return u.Location != nil && len(u.Location.Coordinates) >= 2
}

// Friend フレンドの表示・解決に使う情報。Location は最終確認位置
type Friend struct {
	FriendID string    `json:"friend_id" db:"friend_id"`
	Name     string    `json:"name" db:"name"`
	Location *Geometry `json:"location" db:"location"` // 未取得ならnil
}

// HasLocation 最終確認位置があるかチェック
func (f *Friend) HasLocation() bool {
	return f.Location != nil && len(f.Location.Coordinates) >= 2
}
