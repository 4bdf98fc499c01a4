package engine

import (
	"strconv"
	"strings"
)

// ActionKind is the typed routing enum behind the wire button tokens. The
// string prefixes below are the wire contract with pre-existing adapters and
// must not change; everything past the parser works with Action values only.
type ActionKind int

const (
	ActionUnknown ActionKind = iota

	// Main menu.
	ActionBrowse
	ActionSearch
	ActionSell
	ActionHistory

	// History submenu.
	ActionAllTrades
	ActionActiveTrades

	// Admin panel.
	ActionAdminPanel
	ActionAddCategory
	ActionRemoveCategoryMenu
	ActionSetFee
	ActionChangeWallet
	ActionViewStats

	// Parameterized actions.
	ActionOpenCategory   // cat_<name>
	ActionBuy            // buy_<id>
	ActionRent           // rent_<id>
	ActionConfirm        // confirm_<txid>
	ActionRemoveCategory // remove_cat_<name>
	ActionSellCategory   // sell_cat_<name>
	ActionSelectCategory // select_cat_<name>
	ActionSelectType     // type_physical | type_digital
)

// Action is a parsed button token.
type Action struct {
	Kind     ActionKind
	Name     string // category name for the *_cat_ actions
	ItemID   int64  // listing id for buy/rent
	TxID     string // trade id for confirm
	Physical bool   // item type for ActionSelectType
}

const (
	tokenBrowseSale         = "items_for_sale"
	tokenBrowseRent         = "items_for_rent"
	tokenSearch             = "search_items"
	tokenSellItem           = "sell_item"
	tokenListItem           = "list_item"
	tokenHistory            = "my_history"
	tokenRentals            = "my_rentals"
	tokenAllTrades          = "all_trades"
	tokenActiveTrades       = "active_trades"
	tokenAdminControl       = "admin_control"
	tokenAddCategory        = "add_category"
	tokenRemoveCategoryMenu = "remove_category"
	tokenSetFee             = "set_fee"
	tokenChangeWallet       = "change_wallet"
	tokenViewStats          = "view_stats"
	tokenTypePhysical       = "type_physical"
	tokenTypeDigital        = "type_digital"

	prefixCategory       = "cat_"
	prefixBuy            = "buy_"
	prefixRent           = "rent_"
	prefixConfirm        = "confirm_"
	prefixRemoveCategory = "remove_cat_"
	prefixSellCategory   = "sell_cat_"
	prefixSelectCategory = "select_cat_"
)

// ParseToken decodes a wire token into a typed Action. Unknown tokens map to
// ActionUnknown rather than an error; the engine answers those with a hint.
func ParseToken(token string) Action {
	switch token {
	case tokenBrowseSale, tokenBrowseRent:
		return Action{Kind: ActionBrowse}
	case tokenSearch:
		return Action{Kind: ActionSearch}
	case tokenSellItem, tokenListItem:
		return Action{Kind: ActionSell}
	case tokenHistory, tokenRentals:
		return Action{Kind: ActionHistory}
	case tokenAllTrades:
		return Action{Kind: ActionAllTrades}
	case tokenActiveTrades:
		return Action{Kind: ActionActiveTrades}
	case tokenAdminControl:
		return Action{Kind: ActionAdminPanel}
	case tokenAddCategory:
		return Action{Kind: ActionAddCategory}
	case tokenRemoveCategoryMenu:
		return Action{Kind: ActionRemoveCategoryMenu}
	case tokenSetFee:
		return Action{Kind: ActionSetFee}
	case tokenChangeWallet:
		return Action{Kind: ActionChangeWallet}
	case tokenViewStats:
		return Action{Kind: ActionViewStats}
	case tokenTypePhysical:
		return Action{Kind: ActionSelectType, Physical: true}
	case tokenTypeDigital:
		return Action{Kind: ActionSelectType}
	}

	// Longer prefixes first: "remove_cat_" and "sell_cat_" both end in "cat_".
	switch {
	case strings.HasPrefix(token, prefixRemoveCategory):
		return Action{Kind: ActionRemoveCategory, Name: token[len(prefixRemoveCategory):]}
	case strings.HasPrefix(token, prefixSellCategory):
		return Action{Kind: ActionSellCategory, Name: token[len(prefixSellCategory):]}
	case strings.HasPrefix(token, prefixSelectCategory):
		return Action{Kind: ActionSelectCategory, Name: token[len(prefixSelectCategory):]}
	case strings.HasPrefix(token, prefixConfirm):
		return Action{Kind: ActionConfirm, TxID: token[len(prefixConfirm):]}
	case strings.HasPrefix(token, prefixBuy):
		if id, err := strconv.ParseInt(token[len(prefixBuy):], 10, 64); err == nil {
			return Action{Kind: ActionBuy, ItemID: id}
		}
	case strings.HasPrefix(token, prefixRent):
		if id, err := strconv.ParseInt(token[len(prefixRent):], 10, 64); err == nil {
			return Action{Kind: ActionRent, ItemID: id}
		}
	case strings.HasPrefix(token, prefixCategory):
		return Action{Kind: ActionOpenCategory, Name: token[len(prefixCategory):]}
	}
	return Action{Kind: ActionUnknown}
}

// Token renders the action back into its wire form. Variant-dependent menu
// tokens are produced by the engine's menu builders, not here.
func (a Action) Token() string {
	switch a.Kind {
	case ActionSearch:
		return tokenSearch
	case ActionHistory:
		return tokenHistory
	case ActionAllTrades:
		return tokenAllTrades
	case ActionActiveTrades:
		return tokenActiveTrades
	case ActionAdminPanel:
		return tokenAdminControl
	case ActionAddCategory:
		return tokenAddCategory
	case ActionRemoveCategoryMenu:
		return tokenRemoveCategoryMenu
	case ActionSetFee:
		return tokenSetFee
	case ActionChangeWallet:
		return tokenChangeWallet
	case ActionViewStats:
		return tokenViewStats
	case ActionSelectType:
		if a.Physical {
			return tokenTypePhysical
		}
		return tokenTypeDigital
	case ActionOpenCategory:
		return prefixCategory + a.Name
	case ActionBuy:
		return prefixBuy + strconv.FormatInt(a.ItemID, 10)
	case ActionRent:
		return prefixRent + strconv.FormatInt(a.ItemID, 10)
	case ActionConfirm:
		return prefixConfirm + a.TxID
	case ActionRemoveCategory:
		return prefixRemoveCategory + a.Name
	case ActionSellCategory:
		return prefixSellCategory + a.Name
	case ActionSelectCategory:
		return prefixSelectCategory + a.Name
	default:
		return ""
	}
}

func (k ActionKind) String() string {
	switch k {
	case ActionBrowse:
		return "browse"
	case ActionSearch:
		return "search"
	case ActionSell:
		return "sell"
	case ActionHistory:
		return "history"
	case ActionAllTrades:
		return "all_trades"
	case ActionActiveTrades:
		return "active_trades"
	case ActionAdminPanel:
		return "admin_panel"
	case ActionAddCategory:
		return "add_category"
	case ActionRemoveCategoryMenu:
		return "remove_category_menu"
	case ActionSetFee:
		return "set_fee"
	case ActionChangeWallet:
		return "change_wallet"
	case ActionViewStats:
		return "view_stats"
	case ActionOpenCategory:
		return "open_category"
	case ActionBuy:
		return "buy"
	case ActionRent:
		return "rent"
	case ActionConfirm:
		return "confirm"
	case ActionRemoveCategory:
		return "remove_category"
	case ActionSellCategory:
		return "sell_category"
	case ActionSelectCategory:
		return "select_category"
	default:
		return "unknown"
	}
}
