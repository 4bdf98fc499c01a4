package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/AigentLabsFramework/aigent-framework/core/logger"
	"github.com/AigentLabsFramework/aigent-framework/core/market"
	"github.com/AigentLabsFramework/aigent-framework/core/session"
)

// handleText advances the calling user's wizard by one step. All state reads
// and writes happen inside the session manager's per-user critical section.
func (e *Engine) handleText(ctx context.Context, userID int64, text string) Response {
	text = strings.TrimSpace(text)
	var resp Response
	e.sessions.Do(userID, func(s *session.Session) {
		if !s.Active() {
			resp = Response{Text: "Use /start to open the menu."}
			return
		}
		logger.Debug(ctx, "engine", "wizard.step",
			slog.Int64("user_id", userID),
			slog.String("wizard", s.Wizard.String()),
			slog.String("step", s.Step.String()),
		)
		switch s.Wizard {
		case session.WizardListing:
			resp = e.listingStep(s, text)
		case session.WizardSale:
			resp = e.saleStep(s, text)
		case session.WizardSearch:
			resp = e.searchStep(s, userID, text)
		case session.WizardAdmin:
			resp = e.adminStep(s, userID, text)
		default:
			s.Reset()
			resp = Response{Text: "Use /start to open the menu."}
		}
	})
	return resp
}

// listingStep runs the rental listing wizard: type has already been chosen
// via buttons, the remaining steps are free text.
func (e *Engine) listingStep(s *session.Session, text string) Response {
	switch s.Step {
	case session.StepEnterLocation:
		if text == "" {
			return Response{Text: "Enter location (e.g., Melbourne):"}
		}
		s.Draft.Location = text
		s.Advance(session.StepEnterName)
		return Response{Text: "Enter service name (e.g., Car Rent in Melbourne):"}

	case session.StepEnterName:
		if text == "" {
			return Response{Text: "Please enter a value."}
		}
		s.Draft.Title = text
		s.Advance(session.StepEnterPrice)
		return Response{Text: "Enter price with duration (e.g., 50 SOL per 1d):"}

	case session.StepEnterPrice:
		// Rental prices carry free-form duration text, so any input is kept.
		s.Draft.Price = market.LooseMoney(text)
		s.Advance(session.StepEnterDeposit)
		return Response{Text: "Enter deposit amount (e.g., 100 SOL):"}

	case session.StepEnterDeposit:
		deposit, err := market.ParseMoney(text)
		if err != nil {
			return Response{Text: "Invalid deposit. Enter a number (e.g., 100 SOL)."}
		}
		s.Draft.Deposit = deposit
		s.Advance(session.StepEnterDescription)
		return Response{Text: "Enter short description:"}

	case session.StepEnterDescription:
		s.Draft.Description = text
		s.Advance(session.StepEnterLinks)
		return Response{Text: "Enter optional links (comma-separated):"}

	case session.StepEnterLinks:
		if text != "" {
			for _, link := range strings.Split(text, ",") {
				if link = strings.TrimSpace(link); link != "" {
					s.Draft.Links = append(s.Draft.Links, link)
				}
			}
		}
		listing, err := e.catalog.AddListing(s.Draft)
		s.Reset()
		if err != nil {
			if errors.Is(err, market.ErrNotFound) {
				return Response{Text: "Category no longer exists."}
			}
			return Response{Text: "Could not list the item."}
		}
		return Response{Text: fmt.Sprintf("Listed: %s", listing.Title)}

	default:
		s.Reset()
		return Response{Text: "Use /start to open the menu."}
	}
}

// saleStep parses the single-message marketplace sale form. A bad message
// keeps the wizard on the same step so the user can retry.
func (e *Engine) saleStep(s *session.Session, text string) Response {
	const usage = "Format: description, price, link (link optional)"
	parts := strings.SplitN(text, ",", 3)
	if len(parts) < 2 {
		return Response{Text: usage}
	}
	desc := strings.TrimSpace(parts[0])
	amount, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if desc == "" || err != nil {
		return Response{Text: usage}
	}
	s.Draft.Title = desc
	s.Draft.Price = market.NewMoney(amount)
	if len(parts) == 3 {
		if link := strings.TrimSpace(parts[2]); link != "" {
			s.Draft.Links = []string{link}
		}
	}
	listing, addErr := e.catalog.AddListing(s.Draft)
	s.Reset()
	if addErr != nil {
		if errors.Is(addErr, market.ErrNotFound) {
			return Response{Text: "Category no longer exists."}
		}
		return Response{Text: "Could not list the item."}
	}
	return Response{Text: fmt.Sprintf("Listed: %s for %s SOL", listing.Title, amount)}
}

func (e *Engine) searchStep(s *session.Session, userID int64, text string) Response {
	switch s.Step {
	case session.StepEnterKeyword:
		if text == "" {
			return Response{Text: "Enter a keyword to search:"}
		}
		if e.variant == Rental {
			s.Keyword = text
			s.Advance(session.StepEnterSearchLocation)
			return Response{Text: `Enter location (or "none" to skip):`}
		}
		s.Reset()
		return e.searchResults(e.catalog.Search(text, ""))

	case session.StepEnterSearchLocation:
		keyword := s.Keyword
		location := text
		if strings.EqualFold(location, "none") {
			location = ""
		}
		s.Reset()
		return e.searchResults(e.catalog.Search(keyword, location))

	default:
		s.Reset()
		return Response{Text: "Use /start to open the menu."}
	}
}

func (e *Engine) searchResults(items []market.Listing) Response {
	if len(items) == 0 {
		return Response{Text: "No items found."}
	}
	choices := make([]Choice, 0, len(items))
	for _, item := range items {
		choices = append(choices, Choice{
			Label: fmt.Sprintf("%s - %s", item.Title, item.Price),
			Token: e.purchaseToken(item.ID),
		})
	}
	return Response{Text: fmt.Sprintf("Found %d items:", len(items)), Choices: choices}
}

func (e *Engine) adminStep(s *session.Session, userID int64, text string) Response {
	switch s.Step {
	case session.StepAdminCategory:
		err := e.cfg.AddCategory(userID, text)
		switch {
		case err == nil:
			s.Reset()
			return Response{Text: fmt.Sprintf("Added: %s", text)}
		case errors.Is(err, market.ErrConflict):
			s.Reset()
			return Response{Text: "Category exists."}
		case errors.Is(err, market.ErrUnauthorized):
			s.Reset()
			return Response{Text: "Unauthorized!"}
		default:
			return Response{Text: "Enter new category name:"}
		}

	case session.StepAdminFee:
		fee, err := decimal.NewFromString(text)
		if err != nil {
			return Response{Text: "Invalid number."}
		}
		if err := e.cfg.SetFeePercent(userID, fee); err != nil {
			if errors.Is(err, market.ErrUnauthorized) {
				s.Reset()
				return Response{Text: "Unauthorized!"}
			}
			return Response{Text: "Invalid number."}
		}
		s.Reset()
		return Response{Text: fmt.Sprintf("Fee set to %s%%", fee)}

	case session.StepAdminWallet:
		if err := e.cfg.SetWallet(userID, text); err != nil {
			if errors.Is(err, market.ErrUnauthorized) {
				s.Reset()
				return Response{Text: "Unauthorized!"}
			}
			return Response{Text: "Invalid address."}
		}
		s.Reset()
		return Response{Text: "Wallet updated."}

	default:
		s.Reset()
		return Response{Text: "Use /start to open the menu."}
	}
}
