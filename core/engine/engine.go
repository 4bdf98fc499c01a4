package engine

import (
	"context"
	"fmt"
	"strings"

	"log/slog"

	"github.com/AigentLabsFramework/aigent-framework/core/logger"
	"github.com/AigentLabsFramework/aigent-framework/core/market"
	"github.com/AigentLabsFramework/aigent-framework/core/session"
)

// Variant selects the product flavor the engine runs as.
type Variant int

const (
	// Marketplace sells items: combined sell wizard, keyword-only search.
	Marketplace Variant = iota
	// Rental rents items out: full listing wizard, search with location.
	Rental
)

// ParseVariant maps the config string to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rental":
		return Rental, nil
	case "marketplace", "":
		return Marketplace, nil
	default:
		return Marketplace, fmt.Errorf("unknown variant %q", s)
	}
}

func (v Variant) String() string {
	if v == Rental {
		return "rental"
	}
	return "marketplace"
}

// Options wires an Engine.
type Options struct {
	Variant  Variant
	Catalog  *market.Catalog
	Config   *market.ConfigStore
	Escrow   *market.Escrow
	Stats    *market.StatsReporter
	Sessions *session.Manager
}

// Engine is the marketplace coordinator. One Handle call per inbound event;
// events for different users may arrive concurrently.
type Engine struct {
	variant  Variant
	catalog  *market.Catalog
	cfg      *market.ConfigStore
	escrow   *market.Escrow
	stats    *market.StatsReporter
	sessions *session.Manager
}

// New builds an Engine from wired stores.
func New(opts Options) *Engine {
	return &Engine{
		variant:  opts.Variant,
		catalog:  opts.Catalog,
		cfg:      opts.Config,
		escrow:   opts.Escrow,
		stats:    opts.Stats,
		sessions: opts.Sessions,
	}
}

// Handle processes one inbound event and always produces a response; every
// domain error is converted to user-visible text here.
func (e *Engine) Handle(ctx context.Context, ev InboundEvent) Response {
	switch ev.Kind {
	case EventCommand:
		return e.handleCommand(ctx, ev)
	case EventButton:
		act := ParseToken(ev.Token)
		logger.Debug(ctx, "engine", "event.button",
			slog.Int64("user_id", ev.UserID),
			slog.String("action", act.Kind.String()),
		)
		return e.handleAction(ctx, ev.UserID, act)
	case EventText:
		return e.handleText(ctx, ev.UserID, ev.Text)
	default:
		return Response{Text: "Unsupported action."}
	}
}

func (e *Engine) handleCommand(ctx context.Context, ev InboundEvent) Response {
	logger.Debug(ctx, "engine", "event.command",
		slog.Int64("user_id", ev.UserID),
		slog.String("handler", ev.Command),
	)
	switch ev.Command {
	case CommandStart:
		return e.mainMenu(ev.UserID)
	case CommandAdminControl:
		return e.handleAction(ctx, ev.UserID, Action{Kind: ActionAdminPanel})
	default:
		return Response{Text: "Unknown command."}
	}
}

func (e *Engine) mainMenu(userID int64) Response {
	var resp Response
	if e.variant == Rental {
		resp = Response{
			Text: "Welcome to Aigent Rental!",
			Choices: []Choice{
				{Label: "Items for Rent", Token: tokenBrowseRent},
				{Label: "Search Items", Token: tokenSearch},
				{Label: "List Your Item", Token: tokenListItem},
				{Label: "My Rentals", Token: tokenRentals},
			},
		}
	} else {
		resp = Response{
			Text: "Welcome to the Marketplace!",
			Choices: []Choice{
				{Label: "Items for Sale", Token: tokenBrowseSale},
				{Label: "Search Items", Token: tokenSearch},
				{Label: "Sell Your Item", Token: tokenSellItem},
				{Label: "My History", Token: tokenHistory},
			},
		}
	}
	if e.cfg.IsAdmin(userID) {
		resp.Choices = append(resp.Choices, Choice{Label: "Admin Control", Token: tokenAdminControl})
	}
	return resp
}

func (e *Engine) handleAction(ctx context.Context, userID int64, act Action) Response {
	switch act.Kind {
	case ActionBrowse:
		return e.categoryMenu("Select a category:", prefixCategory)

	case ActionOpenCategory:
		return e.listCategory(act.Name)

	case ActionSearch:
		e.sessions.Do(userID, func(s *session.Session) {
			s.Begin(session.WizardSearch, session.StepEnterKeyword)
		})
		return Response{Text: "Enter a keyword to search:"}

	case ActionSell:
		if e.variant == Rental {
			return e.categoryMenu("Select category:", prefixSelectCategory)
		}
		return e.categoryMenu("Select category for your item:", prefixSellCategory)

	case ActionSellCategory:
		return e.beginSale(userID, act.Name)

	case ActionSelectCategory:
		return e.beginListing(userID, act.Name)

	case ActionSelectType:
		return e.selectType(userID, act.Physical)

	case ActionHistory:
		return Response{
			Text: "Your History:",
			Choices: []Choice{
				{Label: "All Trades", Token: tokenAllTrades},
				{Label: "Active Trades", Token: tokenActiveTrades},
			},
		}

	case ActionAllTrades:
		return e.allTrades(userID)

	case ActionActiveTrades:
		return e.activeTrades(userID)

	case ActionBuy, ActionRent:
		return e.initiateTrade(ctx, userID, act.ItemID)

	case ActionConfirm:
		return e.confirmTrade(ctx, userID, act.TxID)

	case ActionAdminPanel:
		if resp, ok := e.requireAdmin(userID); !ok {
			return resp
		}
		return Response{
			Text: "Admin Control Panel:",
			Choices: []Choice{
				{Label: "Add Category", Token: tokenAddCategory},
				{Label: "Remove Category", Token: tokenRemoveCategoryMenu},
				{Label: "Set Fee", Token: tokenSetFee},
				{Label: "Change Wallet", Token: tokenChangeWallet},
				{Label: "View Stats", Token: tokenViewStats},
			},
		}

	case ActionAddCategory:
		if resp, ok := e.requireAdmin(userID); !ok {
			return resp
		}
		e.sessions.Do(userID, func(s *session.Session) {
			s.Begin(session.WizardAdmin, session.StepAdminCategory)
		})
		return Response{Text: "Enter new category name:"}

	case ActionRemoveCategoryMenu:
		if resp, ok := e.requireAdmin(userID); !ok {
			return resp
		}
		return e.categoryMenu("Select category to remove:", prefixRemoveCategory)

	case ActionRemoveCategory:
		return e.removeCategory(ctx, userID, act.Name)

	case ActionSetFee:
		if resp, ok := e.requireAdmin(userID); !ok {
			return resp
		}
		e.sessions.Do(userID, func(s *session.Session) {
			s.Begin(session.WizardAdmin, session.StepAdminFee)
		})
		return Response{Text: "Enter new fee percentage (e.g., 0.75):"}

	case ActionChangeWallet:
		if resp, ok := e.requireAdmin(userID); !ok {
			return resp
		}
		e.sessions.Do(userID, func(s *session.Session) {
			s.Begin(session.WizardAdmin, session.StepAdminWallet)
		})
		return Response{Text: "Enter new admin wallet address:"}

	case ActionViewStats:
		if resp, ok := e.requireAdmin(userID); !ok {
			return resp
		}
		return Response{Text: fmt.Sprintf("Total Traded: %s SOL\nTotal Users: %d",
			e.stats.TotalTraded(), e.stats.TotalUsers())}

	default:
		return Response{Text: "Unsupported action."}
	}
}

func (e *Engine) requireAdmin(userID int64) (Response, bool) {
	if e.cfg.IsAdmin(userID) {
		return Response{}, true
	}
	return Response{Text: "Unauthorized!"}, false
}

func (e *Engine) categoryMenu(prompt, prefix string) Response {
	categories := e.cfg.ListCategories()
	if len(categories) == 0 {
		return Response{Text: "No categories yet."}
	}
	choices := make([]Choice, 0, len(categories))
	for _, cat := range categories {
		choices = append(choices, Choice{Label: cat, Token: prefix + cat})
	}
	return Response{Text: prompt, Choices: choices}
}

func (e *Engine) listCategory(name string) Response {
	items := e.catalog.ListByCategory(name)
	if len(items) == 0 {
		return Response{Text: "No items in this category."}
	}
	choices := make([]Choice, 0, len(items))
	for _, item := range items {
		choices = append(choices, Choice{
			Label: fmt.Sprintf("%s - %s", item.Title, item.Price),
			Token: e.purchaseToken(item.ID),
		})
	}
	return Response{Text: fmt.Sprintf("Items in %s:", name), Choices: choices}
}

func (e *Engine) purchaseToken(itemID int64) string {
	if e.variant == Rental {
		return Action{Kind: ActionRent, ItemID: itemID}.Token()
	}
	return Action{Kind: ActionBuy, ItemID: itemID}.Token()
}

func (e *Engine) beginSale(userID int64, category string) Response {
	if !e.catalog.HasCategory(category) {
		e.sessions.Do(userID, func(s *session.Session) { s.Reset() })
		return Response{Text: "Category not found."}
	}
	e.sessions.Do(userID, func(s *session.Session) {
		s.Begin(session.WizardSale, session.StepEnterDetails)
		s.Draft.Category = category
		s.Draft.Kind = market.KindDigital
		s.Draft.OwnerID = userID
	})
	return Response{Text: "Enter item details (description, price, link) separated by commas:"}
}

func (e *Engine) beginListing(userID int64, category string) Response {
	if !e.catalog.HasCategory(category) {
		e.sessions.Do(userID, func(s *session.Session) { s.Reset() })
		return Response{Text: "Category not found."}
	}
	e.sessions.Do(userID, func(s *session.Session) {
		s.Begin(session.WizardListing, session.StepSelectType)
		s.Draft.Category = category
		s.Draft.OwnerID = userID
	})
	return Response{
		Text: "Is the item physical or digital?",
		Choices: []Choice{
			{Label: "Physical", Token: tokenTypePhysical},
			{Label: "Digital", Token: tokenTypeDigital},
		},
	}
}

func (e *Engine) selectType(userID int64, physical bool) Response {
	var resp Response
	e.sessions.Do(userID, func(s *session.Session) {
		if s.Wizard != session.WizardListing || s.Step != session.StepSelectType {
			resp = Response{Text: "Unsupported action."}
			return
		}
		if physical {
			s.Draft.Kind = market.KindPhysical
			s.Advance(session.StepEnterLocation)
			resp = Response{Text: "Enter location (e.g., Melbourne):"}
			return
		}
		s.Draft.Kind = market.KindDigital
		s.Advance(session.StepEnterName)
		resp = Response{Text: "Enter service name (e.g., Graphic Design Template):"}
	})
	return resp
}

func (e *Engine) allTrades(userID int64) Response {
	trades := e.escrow.ListTrades(userID, market.TradesAll)
	if len(trades) == 0 {
		return Response{Text: "No trade history."}
	}
	lines := make([]string, 0, len(trades)+1)
	lines = append(lines, "All Trades:")
	for _, t := range trades {
		lines = append(lines, fmt.Sprintf("TX %s: %s SOL at %s",
			t.TxID, t.Amount, t.CreatedAt.Format("2006-01-02 15:04")))
	}
	return Response{Text: strings.Join(lines, "\n")}
}

func (e *Engine) activeTrades(userID int64) Response {
	trades := e.escrow.ListTrades(userID, market.TradesActive)
	if len(trades) == 0 {
		return Response{Text: "No active trades."}
	}
	lines := make([]string, 0, len(trades)+1)
	lines = append(lines, "Active Trades:")
	choices := make([]Choice, 0, len(trades))
	for _, t := range trades {
		lines = append(lines, fmt.Sprintf("TX %s: %s SOL", t.TxID, t.Amount))
		choices = append(choices, Choice{
			Label: "Confirm " + t.TxID,
			Token: Action{Kind: ActionConfirm, TxID: t.TxID}.Token(),
		})
	}
	return Response{Text: strings.Join(lines, "\n"), Choices: choices}
}

func (e *Engine) initiateTrade(ctx context.Context, userID, itemID int64) Response {
	ticket, err := e.escrow.InitiateTrade(userID, itemID)
	if err != nil {
		logger.Warn(ctx, "engine", "trade.initiate",
			slog.Int64("user_id", userID),
			slog.Int64("listing_id", itemID),
			slog.String("err", err.Error()),
		)
		return Response{Text: "Item not found."}
	}
	logger.Info(ctx, "engine", "trade.initiate",
		slog.Int64("user_id", userID),
		slog.Int64("listing_id", itemID),
		slog.String("tx_id", ticket.TxID),
		slog.String("fee", ticket.Fee.String()),
	)
	return Response{Text: ticket.Instructions}
}

func (e *Engine) confirmTrade(ctx context.Context, userID int64, txID string) Response {
	msg, err := e.escrow.ConfirmTrade(userID, txID)
	if err != nil {
		// A failed confirm also discards any wizard in flight.
		e.sessions.Do(userID, func(s *session.Session) { s.Reset() })
		return Response{Text: "No pending trade with that id."}
	}
	logger.Info(ctx, "engine", "trade.confirm",
		slog.Int64("user_id", userID),
		slog.String("tx_id", txID),
	)
	return Response{Text: msg}
}

func (e *Engine) removeCategory(ctx context.Context, userID int64, name string) Response {
	removed, err := e.cfg.RemoveCategory(userID, name)
	if err != nil {
		if resp, ok := e.requireAdmin(userID); !ok {
			return resp
		}
		return Response{Text: "Category not found."}
	}
	logger.Info(ctx, "engine", "category.remove",
		slog.Int64("user_id", userID),
		slog.String("category", name),
		slog.Int("count", len(removed)),
	)
	return Response{Text: fmt.Sprintf("%s removed.", name)}
}
