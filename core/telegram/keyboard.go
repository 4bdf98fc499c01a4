package telegram

import (
	"strings"

	"github.com/AigentLabsFramework/aigent-framework/core/engine"

	tele "gopkg.in/telebot.v4"
)

// ChoiceMarkup builds an inline keyboard from engine choices, one button per
// row. The choice token travels as raw callback data.
func ChoiceMarkup(choices []engine.Choice) *tele.ReplyMarkup {
	if len(choices) == 0 {
		return nil
	}
	inline := make([][]tele.InlineButton, 0, len(choices))
	for _, choice := range choices {
		inline = append(inline, []tele.InlineButton{{
			Text: choice.Label,
			Data: choice.Token,
		}})
	}
	return &tele.ReplyMarkup{InlineKeyboard: inline}
}

// CallbackToken extracts the raw token from a callback. Telebot prefixes
// unique-encoded buttons with "\f<unique>|"; raw data buttons arrive as-is.
func CallbackToken(cb *tele.Callback) string {
	if cb == nil {
		return ""
	}
	raw := cb.Data
	if strings.HasPrefix(raw, "\f") {
		raw = strings.TrimPrefix(raw, "\f")
		if i := strings.IndexByte(raw, '|'); i >= 0 {
			raw = raw[i+1:]
		}
	}
	return strings.TrimSpace(raw)
}
