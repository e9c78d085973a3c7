package folio

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// Document is the persisted form of a State. Every number is a decimal
// string so that a round trip is exact.
type Document struct {
	BaseCurrency string                     `json:"base_currency"`
	Holdings     map[string]HoldingDocument `json:"holdings"`
	CashBalances map[string]CashDocument    `json:"cash_balances"`
}

// HoldingDocument is the persisted form of a Holding.
type HoldingDocument struct {
	Quantity     decimal.Decimal `json:"quantity"`
	AvgCost      decimal.Decimal `json:"avg_cost"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	Currency     string          `json:"currency"`
	AssetClass   AssetClass      `json:"asset_class"`
	Acquired     time.Time       `json:"acquired,omitzero"`
	Updated      time.Time       `json:"updated,omitzero"`
}

// CashDocument is the persisted form of a CashBalance.
type CashDocument struct {
	Available decimal.Decimal `json:"available"`
	Reserved  decimal.Decimal `json:"reserved"`
}

// Document returns the persisted form of the state. Snapshots are not part
// of it; see EncodeSnapshots.
func (s *State) Document() Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc := Document{
		BaseCurrency: s.base,
		Holdings:     make(map[string]HoldingDocument, len(s.holdings)),
		CashBalances: make(map[string]CashDocument, len(s.cash)),
	}
	for sym, h := range s.holdings {
		doc.Holdings[sym] = HoldingDocument{
			Quantity:     h.Quantity.Value(),
			AvgCost:      h.AvgCost.Value(),
			CurrentPrice: h.Price.Value(),
			Currency:     h.Currency(),
			AssetClass:   h.AssetClass,
			Acquired:     h.Acquired,
			Updated:      h.Updated,
		}
	}
	for cur, c := range s.cash {
		doc.CashBalances[cur] = CashDocument{Available: c.Available, Reserved: c.Reserved}
	}
	return doc
}

// NewStateFromDocument rebuilds a State. Every holding and balance is
// validated; the first invalid entry fails the whole document.
func NewStateFromDocument(doc Document, opts ...Option) (*State, error) {
	s, err := NewState(doc.BaseCurrency, opts...)
	if err != nil {
		return nil, err
	}
	for sym, hd := range doc.Holdings {
		class, err := ParseAssetClass(string(hd.AssetClass))
		if err != nil {
			return nil, fmt.Errorf("holding %s: %w", sym, err)
		}
		h := Holding{
			Symbol:     sym,
			Quantity:   Quantity{value: hd.Quantity},
			AvgCost:    Money{value: hd.AvgCost, cur: hd.Currency},
			Price:      Money{value: hd.CurrentPrice, cur: hd.Currency},
			AssetClass: class,
			Acquired:   hd.Acquired,
			Updated:    hd.Updated,
		}
		if err := h.Validate(); err != nil {
			return nil, err
		}
		if h.Quantity.IsZero() {
			continue
		}
		s.holdings[sym] = h
	}
	for cur, cd := range doc.CashBalances {
		if !ValidCurrency(cur) {
			return nil, validationf("cash balance: unknown currency %q", cur)
		}
		if cd.Available.IsNegative() || cd.Reserved.IsNegative() {
			return nil, validationf("cash balance %s: negative amount", cur)
		}
		s.cash[cur] = CashBalance{Currency: cur, Available: cd.Available, Reserved: cd.Reserved}
	}
	return s, nil
}

// EncodeState writes the state document as indented JSON.
func EncodeState(w io.Writer, s *State) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Document()); err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	return nil
}

// DecodeState reads a state document written by EncodeState.
func DecodeState(r io.Reader, opts ...Option) (*State, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding state: %w", err)
	}
	return NewStateFromDocument(doc, opts...)
}
