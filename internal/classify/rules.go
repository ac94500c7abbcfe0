package classify

// DefaultRules returns the built-in category table. It can be replaced
// wholesale from configuration; matching itself never changes.
func DefaultRules() RuleSet {
	return RuleSet{
		{Label: "work", Any: []string{
			"会議", "議事録", "要件", "設計", "テスト", "障害", "レビュー", "仕様", "課題", "タスク",
			"WBS", "進捗", "顧客", "ユーザ", "問い合わせ", "リリース", "保守", "運用",
			"SVN", "Git", "Bitbucket", "Jira", "Confluence", "SharePoint", "OneNote", "Copilot", "Teams",
			"見積", "稼働", "工数", "PR", "MR", "ブランチ",
		}},
		{Label: "shopping", Any: []string{
			"買う", "購入", "注文", "Amazon", "楽天", "価格", "セール", "比較", "クーポン", "ポイント", "在庫",
		}},
		{Label: "health", Any: []string{
			"体重", "筋トレ", "ジム", "パーソナル", "睡眠", "疲れ", "体調", "食事", "PFC", "タンパク", "ダイエット",
		}},
		{Label: "game", Any: []string{
			"モンハン", "モンハンNOW", "Switch", "Steam", "PS5", "攻略", "周回", "レベル", "ガチャ", "ボス", "クエスト",
		}},
		{Label: "travel", Any: []string{
			"旅行", "ホテル", "新幹線", "飛行機", "予約", "ルート", "観光", "温泉", "駅", "空港",
		}},
		{Label: "finance", Any: []string{
			"家計", "税金", "ふるさと納税", "クレカ", "ポイント", "支出", "貯金", "投資",
		}},
		{Label: "obsidian", Any: []string{
			"Obsidian", "Vault", "Daily", "diary", "リンク", "[[", "タグ", "テンプレ", "Second Brain",
		}},
	}
}

// DefaultFixedTags is the fixed list unioned with auto categories in
// fixed-plus-auto mode.
func DefaultFixedTags() []string {
	return []string{"INBOX", "clip", "idea"}
}
