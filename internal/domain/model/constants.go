package model

// PurposeConstants 集まりの目的の定数
const (
	PurposeMeal     = "meal"
	PurposeCafe     = "cafe"
	PurposeDrink    = "drink"
	PurposeActivity = "activity"
	PurposeStudy    = "study"
)

// PurposeNameMap 目的IDから日本語名へのマッピング
var PurposeNameMap = map[string]string{
	PurposeMeal:     "食事",
	PurposeCafe:     "カフェ",
	PurposeDrink:    "飲み会",
	PurposeActivity: "アクティビティ",
	PurposeStudy:    "作業・勉強",
}

// GetPurposeJapaneseName 目的IDから日本語名を取得する
func GetPurposeJapaneseName(purpose string) string {
	if name, ok := PurposeNameMap[purpose]; ok {
		return name
	}
	return purpose // デフォルトはそのまま返す
}

// GetAllPurposes 全目的の一覧を取得する
func GetAllPurposes() []string {
	return []string{
		PurposeMeal,
		PurposeCafe,
		PurposeDrink,
		PurposeActivity,
		PurposeStudy,
	}
}

// TagCategoryConstants フィルタータグのカテゴリ定数
const (
	TagCategoryMood    = "mood"    // 雰囲気
	TagCategoryBudget  = "budget"  // 予算
	TagCategoryCuisine = "cuisine" // 料理ジャンル
	TagCategoryAccess  = "access"  // アクセス条件
)

// GetAllTagCategories 全タグカテゴリの一覧を取得する
func GetAllTagCategories() []string {
	return []string{
		TagCategoryMood,
		TagCategoryBudget,
		TagCategoryCuisine,
		TagCategoryAccess,
	}
}
