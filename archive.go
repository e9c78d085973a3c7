package folio

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"
)

// The snapshot archive is a stream of msgpack records, one per snapshot,
// so that new snapshots are appended to the file without rewriting it.

type archivedHolding struct {
	Symbol     string    `msgpack:"symbol"`
	Quantity   string    `msgpack:"quantity"`
	AvgCost    string    `msgpack:"avg_cost"`
	Price      string    `msgpack:"price"`
	Currency   string    `msgpack:"currency"`
	AssetClass string    `msgpack:"asset_class"`
	Acquired   time.Time `msgpack:"acquired"`
	Updated    time.Time `msgpack:"updated"`
}

type archivedCash struct {
	Currency  string `msgpack:"currency"`
	Available string `msgpack:"available"`
	Reserved  string `msgpack:"reserved"`
}

type archivedSnapshot struct {
	ID            string            `msgpack:"id"`
	Time          time.Time         `msgpack:"time"`
	BaseCurrency  string            `msgpack:"base_currency"`
	Holdings      []archivedHolding `msgpack:"holdings"`
	Cash          []archivedCash    `msgpack:"cash"`
	HoldingsValue string            `msgpack:"holdings_value"`
	CashValue     string            `msgpack:"cash_value"`
	TotalValue    string            `msgpack:"total_value"`
	UnrealizedPnL string            `msgpack:"unrealized_pnl"`
	CostBasis     string            `msgpack:"cost_basis"`
	Metadata      map[string]string `msgpack:"metadata,omitempty"`
}

// EncodeSnapshots appends snapshots to w.
func EncodeSnapshots(w io.Writer, snaps ...*Snapshot) error {
	enc := msgpack.NewEncoder(w)
	for _, s := range snaps {
		rec := archivedSnapshot{
			ID:            s.id,
			Time:          s.at,
			BaseCurrency:  s.base,
			HoldingsValue: s.holdingsValue.value.String(),
			CashValue:     s.cashValue.value.String(),
			TotalValue:    s.totalValue.value.String(),
			UnrealizedPnL: s.unrealizedPnL.value.String(),
			CostBasis:     s.costBasis.value.String(),
			Metadata:      s.metadata,
		}
		for _, h := range s.Holdings() {
			rec.Holdings = append(rec.Holdings, archivedHolding{
				Symbol:     h.Symbol,
				Quantity:   h.Quantity.String(),
				AvgCost:    h.AvgCost.value.String(),
				Price:      h.Price.value.String(),
				Currency:   h.Currency(),
				AssetClass: string(h.AssetClass),
				Acquired:   h.Acquired,
				Updated:    h.Updated,
			})
		}
		for _, c := range s.CashBalances() {
			rec.Cash = append(rec.Cash, archivedCash{
				Currency:  c.Currency,
				Available: c.Available.String(),
				Reserved:  c.Reserved.String(),
			})
		}
		if err := enc.Encode(&rec); err != nil {
			return fmt.Errorf("encoding snapshot %s: %w", s.id, err)
		}
	}
	return nil
}

// DecodeSnapshots reads every snapshot in r, oldest first.
func DecodeSnapshots(r io.Reader) ([]*Snapshot, error) {
	dec := msgpack.NewDecoder(r)
	var snaps []*Snapshot
	for {
		var rec archivedSnapshot
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			return snaps, nil
		}
		if err != nil {
			return snaps, fmt.Errorf("decoding snapshot #%d: %w", len(snaps)+1, err)
		}
		s, err := rec.snapshot()
		if err != nil {
			return snaps, fmt.Errorf("decoding snapshot %s: %w", rec.ID, err)
		}
		snaps = append(snaps, s)
	}
}

func (rec *archivedSnapshot) snapshot() (*Snapshot, error) {
	var p decimalParser
	s := &Snapshot{
		id:            rec.ID,
		at:            rec.Time,
		base:          rec.BaseCurrency,
		holdings:      make(map[string]Holding, len(rec.Holdings)),
		cash:          make(map[string]CashBalance, len(rec.Cash)),
		holdingsValue: Money{value: p.parse(rec.HoldingsValue), cur: rec.BaseCurrency},
		cashValue:     Money{value: p.parse(rec.CashValue), cur: rec.BaseCurrency},
		totalValue:    Money{value: p.parse(rec.TotalValue), cur: rec.BaseCurrency},
		unrealizedPnL: Money{value: p.parse(rec.UnrealizedPnL), cur: rec.BaseCurrency},
		costBasis:     Money{value: p.parse(rec.CostBasis), cur: rec.BaseCurrency},
		metadata:      rec.Metadata,
	}
	for _, h := range rec.Holdings {
		s.holdings[h.Symbol] = Holding{
			Symbol:     h.Symbol,
			Quantity:   Quantity{value: p.parse(h.Quantity)},
			AvgCost:    Money{value: p.parse(h.AvgCost), cur: h.Currency},
			Price:      Money{value: p.parse(h.Price), cur: h.Currency},
			AssetClass: AssetClass(h.AssetClass),
			Acquired:   h.Acquired,
			Updated:    h.Updated,
		}
	}
	for _, c := range rec.Cash {
		s.cash[c.Currency] = CashBalance{
			Currency:  c.Currency,
			Available: p.parse(c.Available),
			Reserved:  p.parse(c.Reserved),
		}
	}
	return s, p.err
}

// decimalParser keeps the first parse error.
type decimalParser struct{ err error }

func (p *decimalParser) parse(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil && p.err == nil {
		p.err = err
	}
	return v
}
