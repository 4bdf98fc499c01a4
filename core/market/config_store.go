package market

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// ConfigStore holds the admin-controlled settings: fee percent, payout wallet
// and the category set. Category data lives in the catalog; the store performs
// the admin check and delegates.
type ConfigStore struct {
	mu         sync.RWMutex
	adminID    int64
	feePercent decimal.Decimal
	wallet     string
	catalog    *Catalog
}

// ConfigOptions seeds a ConfigStore.
type ConfigOptions struct {
	AdminID    int64
	FeePercent decimal.Decimal
	Wallet     string
	Catalog    *Catalog
}

// NewConfigStore builds the store around an existing catalog.
func NewConfigStore(opts ConfigOptions) *ConfigStore {
	return &ConfigStore{
		adminID:    opts.AdminID,
		feePercent: opts.FeePercent,
		wallet:     opts.Wallet,
		catalog:    opts.Catalog,
	}
}

// IsAdmin reports whether the user is the configured admin identity.
func (s *ConfigStore) IsAdmin(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.adminID != 0 && userID == s.adminID
}

func (s *ConfigStore) authorize(userID int64) error {
	if !s.IsAdmin(userID) {
		return fmt.Errorf("user %d: %w", userID, ErrUnauthorized)
	}
	return nil
}

// FeePercent returns the current admin fee percentage.
func (s *ConfigStore) FeePercent() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feePercent
}

// SetFeePercent updates the fee. The value must be a non-negative decimal.
func (s *ConfigStore) SetFeePercent(userID int64, value decimal.Decimal) error {
	if err := s.authorize(userID); err != nil {
		return err
	}
	if value.IsNegative() {
		return fmt.Errorf("%w: fee percent must be >= 0", ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feePercent = value
	return nil
}

// Wallet returns the payout wallet address.
func (s *ConfigStore) Wallet() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wallet
}

// SetWallet updates the payout wallet address.
func (s *ConfigStore) SetWallet(userID int64, address string) error {
	if err := s.authorize(userID); err != nil {
		return err
	}
	if !IsWalletAddress(address) {
		return fmt.Errorf("%w: wallet address %q", ErrInvalidInput, address)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallet = address
	return nil
}

// AddCategory registers a category after the admin check.
func (s *ConfigStore) AddCategory(userID int64, name string) error {
	if err := s.authorize(userID); err != nil {
		return err
	}
	return s.catalog.AddCategory(name)
}

// RemoveCategory deletes a category and cascades to its listings.
func (s *ConfigStore) RemoveCategory(userID int64, name string) ([]Listing, error) {
	if err := s.authorize(userID); err != nil {
		return nil, err
	}
	return s.catalog.RemoveCategory(name)
}

// ListCategories returns category names in the order added.
func (s *ConfigStore) ListCategories() []string {
	return s.catalog.Categories()
}

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// IsWalletAddress reports whether s looks like a base58 Solana public key.
func IsWalletAddress(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 32 || len(s) > 44 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(base58Alphabet, r) {
			return false
		}
	}
	return true
}
