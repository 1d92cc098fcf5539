package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultDecisionCell(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC) // 金曜日

	cell := DefaultDecisionCell(now)

	assert.Equal(t, "2024-03-01", cell.Date)
	assert.Equal(t, "18:00", cell.TimeBlock.Start)
	assert.Equal(t, "20:00", cell.TimeBlock.End)
	assert.Equal(t, 2, cell.PartySize)
	assert.Equal(t, "2", cell.PartySizeBucket)
	assert.Equal(t, 5, cell.DayOfWeek)
}

func TestDecisionCell_Normalize(t *testing.T) {
	t.Run("冪等性: normalize(normalize(x)) == normalize(x)", func(t *testing.T) {
		inputs := []DecisionCell{
			{Date: "2024/03/01", PartySize: 3},
			{Date: "2024年3月1日", PartySize: 7},
			{Date: "not a date", PartySize: 0},
			{},
			DefaultDecisionCell(time.Now()),
		}
		for _, input := range inputs {
			once := input.Normalize()
			twice := once.Normalize()
			assert.Equal(t, once, twice)
		}
	})

	t.Run("ロケール形式の日付をYYYY-MM-DDに正準化する", func(t *testing.T) {
		cell := DecisionCell{Date: "2024年3月1日", PartySize: 2}.Normalize()
		assert.Equal(t, "2024-03-01", cell.Date)
		assert.Equal(t, 5, cell.DayOfWeek) // 金曜日
	})

	t.Run("解釈不能な日付は空文字になる（エラーにしない）", func(t *testing.T) {
		cell := DecisionCell{Date: "いつか", PartySize: 2}.Normalize()
		assert.Equal(t, "", cell.Date)
		assert.Equal(t, 0, cell.DayOfWeek)
	})

	t.Run("バケットと曜日は常にparty_size/dateの関数", func(t *testing.T) {
		cell := DecisionCell{Date: "2024-03-02", PartySize: 5, PartySizeBucket: "2", DayOfWeek: 1}.Normalize()
		assert.Equal(t, "6+", cell.PartySizeBucket)
		assert.Equal(t, 6, cell.DayOfWeek) // 土曜日
	})
}

func TestPartySizeBucketFor(t *testing.T) {
	assert.Equal(t, "2", PartySizeBucketFor(1))
	assert.Equal(t, "2", PartySizeBucketFor(2))
	assert.Equal(t, "4", PartySizeBucketFor(3))
	assert.Equal(t, "4", PartySizeBucketFor(4))
	assert.Equal(t, "6+", PartySizeBucketFor(5))
	assert.Equal(t, "6+", PartySizeBucketFor(12))
}

func TestDecisionCell_Apply(t *testing.T) {
	base := DefaultDecisionCell(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	date := "2024-04-10"
	partySize := 4
	updated := base.Apply(DecisionCellPatch{Date: &date, PartySize: &partySize}).Normalize()

	assert.Equal(t, "2024-04-10", updated.Date)
	assert.Equal(t, 4, updated.PartySize)
	assert.Equal(t, "4", updated.PartySizeBucket)
	assert.Equal(t, 3, updated.DayOfWeek) // 水曜日
	// パッチに含まれないフィールドは維持される
	assert.Equal(t, base.TimeBlock, updated.TimeBlock)
}
