package repository

import (
	"errors"

	"Moim-App/internal/domain/model"
)

// ErrSinkNotReady マップエンジンがまだ初期化されていない場合に返す
var ErrSinkNotReady = errors.New("マップエンジンが初期化されていません")

// OverlaySink 差分コマンドの適用先（実際のマップエンジンへのアダプタ）。
// まだ初期化されていない間は ErrSinkNotReady を返す
type OverlaySink interface {
	Apply(commands []model.OverlayCommand) error
}
