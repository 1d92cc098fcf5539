package model

import "time"

// TimeBlock 集合時間帯（HH:MM表記）
type TimeBlock struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DecisionCell 日付・時間帯・人数を正規化した検索コンテキスト。
// おすすめリクエストの重複排除とキャッシュ・分析の突合キーに使う
type DecisionCell struct {
	Date            string    `json:"date" firestore:"date"` // 常に YYYY-MM-DD
	TimeBlock       TimeBlock `json:"time_block" firestore:"time_block"`
	PartySize       int       `json:"party_size" firestore:"party_size"`
	PartySizeBucket string    `json:"party_size_bucket" firestore:"party_size_bucket"` // "2" / "4" / "6+"
	DayOfWeek       int       `json:"day_of_week" firestore:"day_of_week"`             // 0=日曜〜6=土曜（Dateから再導出）
}

// DecisionCellPatch 部分更新。nilのフィールドは変更しない
type DecisionCellPatch struct {
	Date      *string    `json:"date,omitempty"`
	TimeBlock *TimeBlock `json:"time_block,omitempty"`
	PartySize *int       `json:"party_size,omitempty"`
}

const (
	defaultTimeBlockStart = "18:00"
	defaultTimeBlockEnd   = "20:00"
	defaultPartySize      = 2
)

// DefaultDecisionCell 現在時刻から既定値のセルを生成する（今日・18:00〜20:00・2人）
func DefaultDecisionCell(now time.Time) DecisionCell {
	cell := DecisionCell{
		Date:      now.Format("2006-01-02"),
		TimeBlock: TimeBlock{Start: defaultTimeBlockStart, End: defaultTimeBlockEnd},
		PartySize: defaultPartySize,
	}
	return cell.Normalize()
}

// Apply パッチをマージした新しいセルを返す（正規化は行わない）
func (c DecisionCell) Apply(patch DecisionCellPatch) DecisionCell {
	if patch.Date != nil {
		c.Date = *patch.Date
	}
	if patch.TimeBlock != nil {
		c.TimeBlock = *patch.TimeBlock
	}
	if patch.PartySize != nil {
		c.PartySize = *patch.PartySize
	}
	return c
}

// Normalize 日付の正準化・バケットと曜日の再導出を行う。冪等
func (c DecisionCell) Normalize() DecisionCell {
	c.Date = CanonicalDate(c.Date)
	if c.PartySize < 1 {
		c.PartySize = defaultPartySize
	}
	c.PartySizeBucket = PartySizeBucketFor(c.PartySize)
	c.DayOfWeek = dayOfWeekOf(c.Date)
	if c.TimeBlock.Start == "" {
		c.TimeBlock.Start = defaultTimeBlockStart
	}
	if c.TimeBlock.End == "" {
		c.TimeBlock.End = defaultTimeBlockEnd
	}
	return c
}

// PartySizeBucketFor 人数からバケットを導出する純粋関数
func PartySizeBucketFor(partySize int) string {
	switch {
	case partySize <= 2:
		return "2"
	case partySize <= 4:
		return "4"
	default:
		return "6+"
	}
}

// dateLayouts 入力として受け付ける日付表記。先頭が正準形
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"2006年01月02日",
	"2006年1月2日",
	"Jan 2, 2006",
	"January 2, 2006",
}

// CanonicalDate 日付文字列を YYYY-MM-DD に正準化する。解釈不能なら空文字
func CanonicalDate(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// dayOfWeekOf 正準化済み日付から曜日を導出する（空文字なら0）
func dayOfWeekOf(date string) int {
	if date == "" {
		return 0
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0
	}
	return int(t.Weekday())
}
