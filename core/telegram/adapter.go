package telegram

import (
	"strings"
	"time"

	"log/slog"

	"github.com/AigentLabsFramework/aigent-framework/core/engine"
	"github.com/AigentLabsFramework/aigent-framework/core/logger"

	tele "gopkg.in/telebot.v4"
)

// Route declares a single bot handler bound to an arbitrary endpoint.
// Endpoint values are passed directly to tele.Bot.Handle.
type Route struct {
	Endpoint any
	Handler  tele.HandlerFunc
}

// Adapter translates Telegram updates into engine events and sends the
// engine's responses back as messages with inline keyboards.
type Adapter struct {
	engine *engine.Engine
}

// NewAdapter wraps an engine.
func NewAdapter(eng *engine.Engine) *Adapter {
	return &Adapter{engine: eng}
}

// Routes lists the bot endpoints the adapter serves.
func (a *Adapter) Routes() []Route {
	return []Route{
		{Endpoint: "/" + engine.CommandStart, Handler: a.onCommand(engine.CommandStart)},
		{Endpoint: "/" + engine.CommandAdminControl, Handler: a.onCommand(engine.CommandAdminControl)},
		{Endpoint: tele.OnCallback, Handler: a.onCallback},
		{Endpoint: tele.OnText, Handler: a.onText},
	}
}

func (a *Adapter) onCommand(name string) tele.HandlerFunc {
	return func(c tele.Context) error {
		return a.dispatch(c, engine.InboundEvent{
			UserID:  senderID(c),
			Kind:    engine.EventCommand,
			Command: name,
		})
	}
}

func (a *Adapter) onCallback(c tele.Context) error {
	// Stop the client spinner before any handler work.
	_ = c.Respond(&tele.CallbackResponse{})
	token := CallbackToken(c.Callback())
	if token == "" {
		return nil
	}
	return a.dispatch(c, engine.InboundEvent{
		UserID: senderID(c),
		Kind:   engine.EventButton,
		Token:  token,
	})
}

func (a *Adapter) onText(c tele.Context) error {
	text := c.Text()
	// Slash commands without an explicit route still reach OnText.
	if strings.HasPrefix(text, "/") {
		name := strings.TrimPrefix(strings.Fields(text)[0], "/")
		if at := strings.IndexByte(name, '@'); at >= 0 {
			name = name[:at]
		}
		return a.dispatch(c, engine.InboundEvent{
			UserID:  senderID(c),
			Kind:    engine.EventCommand,
			Command: name,
		})
	}
	return a.dispatch(c, engine.InboundEvent{
		UserID: senderID(c),
		Kind:   engine.EventText,
		Text:   text,
	})
}

func (a *Adapter) dispatch(c tele.Context, ev engine.InboundEvent) error {
	ctx := requestContext(c)
	start := time.Now()
	resp := a.engine.Handle(ctx, ev)
	logger.Debug(ctx, "tg", "update.handled",
		slog.Int64("user_id", ev.UserID),
		slog.Duration("duration", logger.RoundMS(logger.Took(start))),
	)
	if markup := ChoiceMarkup(resp.Choices); markup != nil {
		return c.Send(resp.Text, markup)
	}
	return c.Send(resp.Text)
}

func senderID(c tele.Context) int64 {
	if user := c.Sender(); user != nil {
		return user.ID
	}
	return 0
}
