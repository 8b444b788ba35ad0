// Package ledger implements the virtual brokerage account used by the
// replay engine: cash, per-symbol positions with weighted average cost, an
// append-only trade log and an append-only daily equity history.
//
// Every operation is all-or-nothing: a rejected buy or sell leaves cash,
// positions, trades and history unchanged. A Ledger holds no global state
// and is not safe for concurrent use; independent runs use independent
// instances.
package ledger

import (
	"log/slog"
	"slices"
	"sort"
	"time"
)

// Action is the trade direction.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

// Position is an open holding in one symbol.
type Position struct {
	Symbol      string
	Volume      int64   // shares, always > 0 while the position exists
	AverageCost float64 // volume-weighted per-share cost basis
}

// Trade is one executed order. RealizedPnL is set on sells only and is the
// price-vs-cost difference before fees.
type Trade struct {
	Date        time.Time
	Action      Action
	Symbol      string
	Price       float64
	Volume      int64
	Fee         float64 // commission, plus stamp duty on sells
	Amount      float64 // price * volume
	RealizedPnL float64
}

// MarkStatus records how a holding was priced in a snapshot.
type MarkStatus int8

const (
	// MarkClose means the day's close price was available for the symbol.
	MarkClose MarkStatus = iota
	// MarkCostFallback means no price was supplied and the average cost was
	// substituted. This can hide mark-to-market risk for halted symbols, so
	// it is surfaced here instead of silently applied.
	MarkCostFallback
	// MarkCarriedForward means the symbol had no fresh close for the day and
	// its last known close was carried forward.
	MarkCarriedForward
)

// MarkValuation is one holding's contribution to a snapshot.
type MarkValuation struct {
	Symbol string
	Volume int64
	Price  float64
	Status MarkStatus
}

// EquitySnapshot is one day's account valuation.
type EquitySnapshot struct {
	Date          time.Time
	TotalValue    float64
	Cash          float64
	HoldingsValue float64
	Marks         []MarkValuation // sorted by symbol
}

// Ledger is the virtual account.
type Ledger struct {
	cash           float64
	initialCapital float64
	fees           Fees
	positions      map[string]*Position
	trades         []Trade
	history        []EquitySnapshot
	log            *slog.Logger
}

// New creates a ledger with the given starting cash and fee model.
// A nil logger falls back to slog.Default().
func New(initialCapital float64, fees Fees, log *slog.Logger) *Ledger {
	if log == nil {
		log = slog.Default()
	}
	return &Ledger{
		cash:           initialCapital,
		initialCapital: initialCapital,
		fees:           fees,
		positions:      make(map[string]*Position),
		log:            log,
	}
}

// Buy executes a buy order. It returns false, with no state change, when
// price or volume is non-positive or cash cannot cover amount + commission.
func (l *Ledger) Buy(date time.Time, symbol string, price float64, volume int64) bool {
	if volume <= 0 || price <= 0 {
		l.log.Warn("buy rejected", "symbol", symbol, "price", price, "volume", volume, "reason", "non-positive price or volume")
		return false
	}

	amount := price * float64(volume)
	commission := l.fees.Commission(amount)
	totalCost := amount + commission

	if l.cash < totalCost {
		l.log.Debug("buy rejected", "symbol", symbol, "need", totalCost, "cash", l.cash, "reason", "insufficient cash")
		return false
	}

	l.cash -= totalCost

	pos, ok := l.positions[symbol]
	if !ok {
		pos = &Position{Symbol: symbol}
		l.positions[symbol] = pos
	}
	newVolume := pos.Volume + volume
	pos.AverageCost = (float64(pos.Volume)*pos.AverageCost + float64(volume)*price) / float64(newVolume)
	pos.Volume = newVolume

	l.trades = append(l.trades, Trade{
		Date:   date,
		Action: Buy,
		Symbol: symbol,
		Price:  price,
		Volume: volume,
		Fee:    commission,
		Amount: amount,
	})
	return true
}

// Sell executes a sell. A volume of 0 (or any volume above the held
// amount) is clamped to the full position: sell-all semantics. Selling a
// symbol with no open position, or at a non-positive price, returns false
// with no state change, as does a sell whose fees exceed both the proceeds
// and the remaining cash.
func (l *Ledger) Sell(date time.Time, symbol string, price float64, volume int64) bool {
	if price <= 0 {
		l.log.Warn("sell rejected", "symbol", symbol, "price", price, "reason", "non-positive price")
		return false
	}

	pos, ok := l.positions[symbol]
	if !ok {
		l.log.Warn("sell rejected", "symbol", symbol, "reason", "no open position")
		return false
	}

	if volume <= 0 || volume > pos.Volume {
		volume = pos.Volume
	}

	amount := price * float64(volume)
	commission := l.fees.Commission(amount)
	tax := l.fees.Tax(amount)
	netIncome := amount - commission - tax

	// The commission floor can push net income below zero on a tiny
	// notional. Cash must never go negative, so such a sell is rejected.
	if l.cash+netIncome < 0 {
		l.log.Warn("sell rejected", "symbol", symbol, "net", netIncome, "cash", l.cash, "reason", "fees would overdraw cash")
		return false
	}

	l.cash += netIncome

	pnl := (price - pos.AverageCost) * float64(volume)

	pos.Volume -= volume
	if pos.Volume == 0 {
		delete(l.positions, symbol)
	}

	l.trades = append(l.trades, Trade{
		Date:        date,
		Action:      Sell,
		Symbol:      symbol,
		Price:       price,
		Volume:      volume,
		Fee:         commission + tax,
		Amount:      amount,
		RealizedPnL: pnl,
	})
	return true
}

// SellAll liquidates the full position in symbol.
func (l *Ledger) SellAll(date time.Time, symbol string, price float64) bool {
	return l.Sell(date, symbol, price, 0)
}

// valuations prices every holding with the supplied marks, preferring a
// fresh close over a carried-forward one and falling back to average cost,
// sorted by symbol for deterministic output.
func (l *Ledger) valuations(marks, carried map[string]float64) []MarkValuation {
	out := make([]MarkValuation, 0, len(l.positions))
	for sym, pos := range l.positions {
		v := MarkValuation{Symbol: sym, Volume: pos.Volume}
		if price, ok := marks[sym]; ok {
			v.Price = price
			v.Status = MarkClose
		} else if price, ok := carried[sym]; ok {
			v.Price = price
			v.Status = MarkCarriedForward
		} else {
			v.Price = pos.AverageCost
			v.Status = MarkCostFallback
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// UpdateDailyStats marks the account to market and appends one equity
// snapshot for the day. marks holds the day's fresh closes and carried holds
// last known closes carried forward for symbols without a fresh one; a
// holding in neither map is valued at average cost. The per-symbol status on
// the snapshot makes each substitution auditable.
func (l *Ledger) UpdateDailyStats(date time.Time, marks, carried map[string]float64) EquitySnapshot {
	vals := l.valuations(marks, carried)

	holdings := 0.0
	for _, v := range vals {
		holdings += float64(v.Volume) * v.Price
	}

	snap := EquitySnapshot{
		Date:          date,
		TotalValue:    l.cash + holdings,
		Cash:          l.cash,
		HoldingsValue: holdings,
		Marks:         vals,
	}
	l.history = append(l.history, snap)
	return snap
}

// TotalValue prices the account with the same rule as UpdateDailyStats but
// mutates nothing.
func (l *Ledger) TotalValue(marks map[string]float64) float64 {
	total := l.cash
	for _, v := range l.valuations(marks, nil) {
		total += float64(v.Volume) * v.Price
	}
	return total
}

// Cash returns the current free cash.
func (l *Ledger) Cash() float64 { return l.cash }

// InitialCapital returns the starting cash.
func (l *Ledger) InitialCapital() float64 { return l.initialCapital }

// Position returns the open position for symbol, if any.
func (l *Ledger) Position(symbol string) (Position, bool) {
	pos, ok := l.positions[symbol]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// HeldSymbols returns the open position symbols in ascending order.
func (l *Ledger) HeldSymbols() []string {
	out := make([]string, 0, len(l.positions))
	for sym := range l.positions {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// OpenPositions returns the number of open positions.
func (l *Ledger) OpenPositions() int { return len(l.positions) }

// Trades returns a copy of the trade log in execution order. Mutating the
// result does not affect the ledger.
func (l *Ledger) Trades() []Trade { return slices.Clone(l.trades) }

// History returns a copy of the daily equity history, mark slices included.
// Mutating the result does not affect the ledger.
func (l *Ledger) History() []EquitySnapshot {
	out := slices.Clone(l.history)
	for i := range out {
		out[i].Marks = slices.Clone(out[i].Marks)
	}
	return out
}
