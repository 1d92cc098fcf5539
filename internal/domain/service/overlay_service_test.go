package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Moim-App/internal/domain/model"
)

func reconcileInput() *model.OverlayInput {
	return &model.OverlayInput{
		IncludeSelf:  true,
		SelfLocation: &model.LatLng{Lat: 37.50, Lng: 127.00},
		Friends: []model.FriendMarker{
			{FriendID: "f1", Name: "友人A", LatLng: &model.LatLng{Lat: 37.52, Lng: 127.02}},
			{FriendID: "f2", Name: "友人B", LatLng: &model.LatLng{Lat: 37.53, Lng: 127.03}},
		},
	}
}

func commandsByOp(commands []model.OverlayCommand, op model.CommandOp) []model.OverlayCommand {
	var filtered []model.OverlayCommand
	for _, cmd := range commands {
		if cmd.Op == op {
			filtered = append(filtered, cmd)
		}
	}
	return filtered
}

func TestOverlayService_Reconcile(t *testing.T) {
	svc := NewOverlayService()

	t.Run("初回は全マーカーがaddされる", func(t *testing.T) {
		state, commands := svc.Reconcile(model.OverlayState{}, reconcileInput())

		assert.Len(t, state[model.CollectionSelf], 1)
		assert.Len(t, state[model.CollectionFriends], 2)
		assert.Empty(t, commandsByOp(commands, model.OpRemove))
		assert.Len(t, commandsByOp(commands, model.OpAdd), 3)
	})

	t.Run("フレンドの選択解除はそのマーカーだけをremoveする", func(t *testing.T) {
		prev, _ := svc.Reconcile(model.OverlayState{}, reconcileInput())

		// f2 を外す
		in := reconcileInput()
		in.Friends = in.Friends[:1]
		state, commands := svc.Reconcile(prev, in)

		removes := commandsByOp(commands, model.OpRemove)
		require.Len(t, removes, 1)
		assert.Equal(t, "friend:f2", removes[0].Overlay.ID)

		// 残りのマーカーは再描画されない
		assert.Empty(t, commandsByOp(commands, model.OpAdd))
		assert.Len(t, state[model.CollectionFriends], 1)
		assert.Len(t, state[model.CollectionSelf], 1)
	})

	t.Run("removeは必ずaddより先に並ぶ", func(t *testing.T) {
		prev, _ := svc.Reconcile(model.OverlayState{}, reconcileInput())

		// f2 を外し、手入力地点を足す
		in := reconcileInput()
		in.Friends = in.Friends[:1]
		in.Manual = []model.ResolvedOrigin{
			{Kind: model.OriginManual, Label: "カフェ", LatLng: model.LatLng{Lat: 37.54, Lng: 127.04}},
		}
		_, commands := svc.Reconcile(prev, in)

		lastRemove, firstAdd := -1, -1
		for i, cmd := range commands {
			switch cmd.Op {
			case model.OpRemove:
				lastRemove = i
			case model.OpAdd:
				if firstAdd == -1 {
					firstAdd = i
				}
			}
		}
		require.NotEqual(t, -1, lastRemove)
		require.NotEqual(t, -1, firstAdd)
		assert.Less(t, lastRemove, firstAdd)
	})

	t.Run("入力が変わらなければコマンドは出ない", func(t *testing.T) {
		prev, _ := svc.Reconcile(model.OverlayState{}, reconcileInput())
		_, commands := svc.Reconcile(prev, reconcileInput())
		assert.Empty(t, commands)
	})

	t.Run("座標が不正な要素は静かにスキップされる", func(t *testing.T) {
		in := &model.OverlayInput{
			IncludeSelf:  true,
			SelfLocation: &model.LatLng{}, // (0,0) は不正座標扱い
			Loot: []model.LootMarker{
				{ID: "l1", Label: "イベント", LatLng: model.LatLng{Lat: 91.0, Lng: 0.0}},
				{ID: "l2", Label: "ドロップ", LatLng: model.LatLng{Lat: 37.51, Lng: 127.01}},
			},
		}
		state, commands := svc.Reconcile(model.OverlayState{}, in)

		assert.Empty(t, state[model.CollectionSelf])
		assert.Len(t, state[model.CollectionLoot], 1)
		require.Len(t, commands, 1)
		assert.Equal(t, "loot:l2", commands[0].Overlay.ID)
	})

	t.Run("アクティブなエリアがあればrecenterが末尾に付く", func(t *testing.T) {
		in := &model.OverlayInput{
			ActiveRegion: &model.RecommendedRegion{
				RegionName: "ソウルの森",
				Center:     &model.LatLng{Lat: 37.544, Lng: 127.037},
				Places: []model.PlaceCard{
					{Name: "カフェA", Lat: 37.545, Lng: 127.038},
				},
			},
		}
		_, commands := svc.Reconcile(model.OverlayState{}, in)

		require.NotEmpty(t, commands)
		last := commands[len(commands)-1]
		assert.Equal(t, model.OpRecenter, last.Op)
		assert.Equal(t, model.LatLng{Lat: 37.544, Lng: 127.037}, *last.Center)
	})
}

func TestOverlayService_BuildRoutes(t *testing.T) {
	svc := NewOverlayService()
	destination := model.LatLng{Lat: 37.52, Lng: 127.02}

	origins := []model.ResolvedOrigin{
		{Kind: model.OriginSelf, Label: "現在地", LatLng: model.LatLng{Lat: 37.50, Lng: 127.00}, TravelMinutes: 12},
		{Kind: model.OriginFriend, FriendID: "f1", Label: "友人A", LatLng: model.LatLng{Lat: 37.54, Lng: 127.04}},
	}

	t.Run("種別ごとの色の経路線と中点の時間ラベルを描画する", func(t *testing.T) {
		state, commands := svc.BuildRoutes(model.OverlayState{}, origins, destination)

		assert.Len(t, state[model.CollectionRoutes], 2)
		assert.Len(t, state[model.CollectionTimeLabels], 2)
		assert.Len(t, commands, 4)

		selfRoute := state[model.CollectionRoutes]["route:0:self"]
		assert.Equal(t, model.RouteColorSelf, selfRoute.Color)
		assert.Equal(t, []model.LatLng{origins[0].LatLng, destination}, selfRoute.Path)

		friendRoute := state[model.CollectionRoutes]["route:1:friend"]
		assert.Equal(t, model.RouteColorFriend, friendRoute.Color)
	})

	t.Run("確定値はそのまま、欠損はフォールバック推定で~付き", func(t *testing.T) {
		state, _ := svc.BuildRoutes(model.OverlayState{}, origins, destination)

		assert.Equal(t, "12分", state[model.CollectionTimeLabels]["label:0:self"].Label)

		// 友人A は所要時間欠損 → 距離ベースの推定（"~"前置）
		friendLabel := state[model.CollectionTimeLabels]["label:1:friend"].Label
		assert.Equal(t, "~", friendLabel[:1])
	})

	t.Run("前回の経路線・時間ラベルを全て撤去してから描き直す", func(t *testing.T) {
		prev, _ := svc.BuildRoutes(model.OverlayState{}, origins, destination)

		state, commands := svc.BuildRoutes(prev, origins[:1], destination)

		removes := commandsByOp(commands, model.OpRemove)
		assert.Len(t, removes, 4) // 前回の経路線2 + ラベル2
		assert.Len(t, state[model.CollectionRoutes], 1)
		assert.Len(t, state[model.CollectionTimeLabels], 1)

		// removeが先
		assert.Equal(t, model.OpRemove, commands[0].Op)
	})

	t.Run("目的地が不正なら撤去だけ行う", func(t *testing.T) {
		prev, _ := svc.BuildRoutes(model.OverlayState{}, origins, destination)

		state, commands := svc.BuildRoutes(prev, origins, model.LatLng{})

		assert.Empty(t, state[model.CollectionRoutes])
		assert.Empty(t, commandsByOp(commands, model.OpAdd))
		assert.Len(t, commandsByOp(commands, model.OpRemove), 4)
	})
}
