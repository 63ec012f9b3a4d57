// Package i18n is a static lookup of the user-facing strings the server produces.
package i18n

import "github.com/Faltri/imposter-word-game/domain"

var messages = map[domain.Language]map[string]string{
	domain.LanguageEnglish: {
		"empty-name":         "Please enter a name",
		"name-too-long":      "That name is too long",
		"too-many-players":   "The lobby is full",
		"unknown-player":     "That player is not in this game",
		"empty-clue":         "Type a clue first",
		"clue-too-long":      "Keep it short (1-3 words max)",
		"invalid-rules":      "Those rules are not valid",
		"invalid-category":   "That category is not usable",
		"invalid-vote":       "Pick someone else to vote for",
		"invalid-guess":      "Pick a word from the list",
		"empty-theme":        "Type a theme first",
		"unknown-action":     "Unknown action",
		"wrong-phase":        "You can't do that right now",
		"not-your-turn":      "It's not your turn",
		"too-few-players":    "You need at least 3 players",
		"reroll-unavailable": "Reroll is only available once, for the first player",
		"stale-action":       "The game moved on, try again",
		"already-generating": "Already generating a category",
		"no-categories":      "No categories available",
		"ai-category-failed": "AI category generation failed, using the selected categories",
		"fair-play-degraded": "Fair play could not be applied this round",
		"session-not-found":  "Game not found",
		"bad-request-format": "Bad request",
		"unknown-error":      "Something went wrong",
		"rate-limited":       "Slow down",
		"server-timeout":     "The server took too long, try again",
		"session-closed":     "This game has ended",
	},
	domain.LanguageJapanese: {
		"empty-name":         "名前を入力してください",
		"name-too-long":      "名前が長すぎます",
		"too-many-players":   "ロビーが満員です",
		"unknown-player":     "そのプレイヤーはいません",
		"empty-clue":         "ヒントを入力してください",
		"clue-too-long":      "短くしてください（1〜3語まで）",
		"invalid-rules":      "ルールが正しくありません",
		"invalid-category":   "そのカテゴリーは使えません",
		"invalid-vote":       "他の人に投票してください",
		"invalid-guess":      "リストから単語を選んでください",
		"empty-theme":        "テーマを入力してください",
		"unknown-action":     "不明な操作です",
		"wrong-phase":        "今はその操作はできません",
		"not-your-turn":      "あなたの番ではありません",
		"too-few-players":    "3人以上必要です",
		"reroll-unavailable": "やり直しは最初のプレイヤーが一度だけ使えます",
		"stale-action":       "ゲームが進みました。もう一度お試しください",
		"already-generating": "カテゴリーを生成中です",
		"no-categories":      "カテゴリーがありません",
		"ai-category-failed": "AIカテゴリーの生成に失敗しました。選択したカテゴリーを使います",
		"fair-play-degraded": "このラウンドではフェアプレイを適用できませんでした",
		"session-not-found":  "ゲームが見つかりません",
		"bad-request-format": "不正なリクエストです",
		"unknown-error":      "エラーが発生しました",
		"rate-limited":       "ゆっくり操作してください",
		"server-timeout":     "サーバーの応答がありません。もう一度お試しください",
		"session-closed":     "このゲームは終了しました",
	},
}

// T returns the message for key in lang, falling back to English and then to the key.
func T(lang domain.Language, key string) string {
	if msg, ok := messages[lang][key]; ok {
		return msg
	}
	if msg, ok := messages[domain.LanguageEnglish][key]; ok {
		return msg
	}
	return key
}
