package telegram

import (
	"testing"

	"github.com/AigentLabsFramework/aigent-framework/core/engine"

	tele "gopkg.in/telebot.v4"
)

func TestChoiceMarkup(t *testing.T) {
	markup := ChoiceMarkup([]engine.Choice{
		{Label: "Electronics", Token: "cat_Electronics"},
		{Label: "Clothing", Token: "cat_Clothing"},
	})
	if markup == nil {
		t.Fatal("nil markup")
	}
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("rows = %d, want 2", len(markup.InlineKeyboard))
	}
	btn := markup.InlineKeyboard[0][0]
	if btn.Text != "Electronics" || btn.Data != "cat_Electronics" {
		t.Fatalf("button = %+v", btn)
	}

	if ChoiceMarkup(nil) != nil {
		t.Fatal("empty choices should produce nil markup")
	}
}

func TestCallbackToken(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{"raw", "buy_3", "buy_3"},
		{"unique encoded", "\fmenu|buy_3", "buy_3"},
		{"padded", " cat_Cars ", "cat_Cars"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CallbackToken(&tele.Callback{Data: tc.data})
			if got != tc.want {
				t.Fatalf("CallbackToken(%q) = %q, want %q", tc.data, got, tc.want)
			}
		})
	}
	if got := CallbackToken(nil); got != "" {
		t.Fatalf("nil callback: %q", got)
	}
}
