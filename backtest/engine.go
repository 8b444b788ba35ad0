// Package backtest drives the virtual ledger day by day over indicator-
// enriched history, applying a fixed score-based decision policy, and
// reduces the resulting equity history into performance statistics.
//
// A run is single-threaded and fully deterministic: identical history,
// signals and configuration produce an identical trade sequence. All
// history is materialized before the loop starts; nothing inside the loop
// performs I/O.
package backtest

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/tradelab/stockbt/indicators"
	"github.com/tradelab/stockbt/ledger"
	"github.com/tradelab/stockbt/market"
	"github.com/tradelab/stockbt/signal"
)

// Result is the outcome of one run.
type Result struct {
	Symbols    []string
	Start      time.Time
	End        time.Time
	FinalValue float64
	TradeCount int
	Trades     []ledger.Trade
	Equity     []ledger.EquitySnapshot
}

// Engine replays a date range against one symbol or a portfolio pool.
// Construct a fresh Engine per run; it owns one ledger and holds no state
// shared with other runs.
type Engine struct {
	start   time.Time
	end     time.Time
	capital float64

	data   market.Provider
	scorer signal.Provider
	policy Policy
	fees   ledger.Fees
	log    *slog.Logger

	book *ledger.Ledger

	// cache holds full pre-start lookback history per symbol, materialized
	// before the replay loop starts.
	cache map[string]market.History
}

// Option configures an Engine.
type Option func(*Engine)

// WithPolicy overrides the default decision policy.
func WithPolicy(p Policy) Option { return func(e *Engine) { e.policy = p } }

// WithFees overrides the default fee model.
func WithFees(f ledger.Fees) Option { return func(e *Engine) { e.fees = f } }

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.log = l } }

// WithScorer replaces the default composite signal provider.
func WithScorer(s signal.Provider) Option { return func(e *Engine) { e.scorer = s } }

// NewEngine creates an engine for one run over [start, end] with the given
// starting capital.
func NewEngine(data market.Provider, start, end time.Time, capital float64, opts ...Option) *Engine {
	e := &Engine{
		start:   market.Day(start),
		end:     market.Day(end),
		capital: capital,
		data:    data,
		scorer:  signal.Composite{},
		policy:  DefaultPolicy(),
		fees:    ledger.DefaultFees(),
		cache:   make(map[string]market.History),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	e.book = ledger.New(capital, e.fees, e.log)
	return e
}

// Ledger exposes the engine's account for inspection after a run.
func (e *Engine) Ledger() *ledger.Ledger { return e.book }

// loadData materializes history for every symbol, fetching LookbackDays of
// calendar warm-up before the start date. Symbols that fail or come back
// empty are logged and skipped.
func (e *Engine) loadData(symbols []string) {
	fetchStart := e.start.AddDate(0, 0, -e.policy.LookbackDays)
	for _, sym := range symbols {
		if _, ok := e.cache[sym]; ok {
			continue
		}
		h, err := e.data.History(sym, fetchStart)
		if err != nil {
			e.log.Warn("history fetch failed", "symbol", sym, "err", err)
			continue
		}
		if len(h) == 0 {
			e.log.Warn("no history", "symbol", sym)
			continue
		}
		e.cache[sym] = h
	}
}

// symbolFrame is a symbol's enriched simulation window with a by-date
// index, plus its pre-computed signal per day.
type symbolFrame struct {
	symbol string
	days   map[time.Time]frameRow
}

type frameRow struct {
	snap  indicators.Snapshot
	score signal.Result
}

// frame enriches one cached history and slices it to the simulation window.
// It returns nil when the symbol has insufficient bars.
func (e *Engine) frame(symbol string) *symbolFrame {
	h := e.cache[symbol]
	if len(h) < e.policy.MinHistoryBars {
		e.log.Warn("insufficient history", "symbol", symbol, "bars", len(h), "need", e.policy.MinHistoryBars)
		return nil
	}

	snaps := indicators.Enrich(h)

	f := &symbolFrame{symbol: symbol, days: make(map[time.Time]frameRow)}
	for _, s := range snaps {
		if s.Date.Before(e.start) || s.Date.After(e.end) {
			continue
		}
		f.days[s.Date] = frameRow{snap: s, score: e.scorer.Score(s)}
	}
	return f
}

// shouldExit applies the sell rule shared by both modes. The returned
// reason distinguishes the price stop from a score-driven exit.
func (e *Engine) shouldExit(row frameRow) (string, bool) {
	if row.snap.Close < row.snap.MA20*e.policy.StopLossRatio {
		return "stop loss", true
	}
	if row.score.Score < e.policy.ExitScore {
		return "score drop", true
	}
	return "", false
}

// Run replays a single symbol over the engine's date range.
//
// Entry: no position, score >= EntryScore and close above MA20; invest
// CashFraction of cash rounded down to whole lots, skipping notionals below
// MinTradeAmount. Exit: score below ExitScore or close below
// MA20*StopLossRatio. The ledger is marked to market every simulated day.
func (e *Engine) Run(symbol string) (Result, error) {
	if symbol == "" {
		return Result{}, fmt.Errorf("backtest: symbol is required")
	}

	e.loadData([]string{symbol})
	f := e.frame(symbol)
	if f == nil {
		return Result{Symbols: []string{symbol}, Start: e.start, End: e.end, FinalValue: e.capital}, nil
	}

	dates := sortedDates(f.days)
	if len(dates) == 0 {
		e.log.Warn("no trading dates in range", "symbol", symbol)
		return Result{Symbols: []string{symbol}, Start: e.start, End: e.end, FinalValue: e.capital}, nil
	}

	for _, date := range dates {
		row := f.days[date]
		closePrice := row.snap.Close

		if _, held := e.book.Position(symbol); !held {
			if row.score.Score >= e.policy.EntryScore && closePrice > row.snap.MA20 {
				amount := e.book.Cash() * e.policy.CashFraction
				if amount >= e.policy.MinTradeAmount {
					if vol := e.policy.lotShares(amount, closePrice); vol > 0 {
						if e.book.Buy(date, symbol, closePrice, vol) {
							e.log.Info("buy", "date", day(date), "symbol", symbol,
								"price", closePrice, "volume", vol, "score", row.score.Score)
						}
					}
				}
			}
		} else if reason, exit := e.shouldExit(row); exit {
			if e.book.SellAll(date, symbol, closePrice) {
				e.log.Info("sell", "date", day(date), "symbol", symbol,
					"price", closePrice, "reason", reason, "score", row.score.Score)
			}
		}

		e.book.UpdateDailyStats(date, map[string]float64{symbol: closePrice}, nil)
	}

	return e.result([]string{symbol}), nil
}

// candidate is a pool symbol qualifying for entry on one day.
type candidate struct {
	symbol      string
	score       int
	price       float64
	volumeRatio float64
}

// RunPortfolio replays a candidate pool with at most maxPositions
// concurrent holdings (0 means the policy default).
//
// Each day: sells run first so freed cash is available to the buy phase;
// qualifying candidates (score >= PortfolioEntryScore, close above MA20)
// are ranked by score descending, then volume ratio descending; cash is
// split over the remaining free slots as each buy executes. Held symbols
// missing a row today keep their last known close for valuation.
func (e *Engine) RunPortfolio(symbols []string, maxPositions int) (Result, error) {
	if len(symbols) == 0 {
		return Result{}, fmt.Errorf("backtest: at least one symbol is required")
	}
	if maxPositions <= 0 {
		maxPositions = e.policy.MaxPositions
	}

	e.loadData(symbols)

	frames := make(map[string]*symbolFrame)
	dateSet := make(map[time.Time]struct{})
	var pool []string
	for _, sym := range symbols {
		if _, ok := e.cache[sym]; !ok {
			continue // data failure: excluded from the pool, run continues
		}
		f := e.frame(sym)
		if f == nil {
			continue
		}
		frames[sym] = f
		pool = append(pool, sym)
		for d := range f.days {
			dateSet[d] = struct{}{}
		}
	}
	sort.Strings(pool)

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	if len(dates) == 0 {
		e.log.Warn("portfolio run has no trading dates")
		return Result{Symbols: symbols, Start: e.start, End: e.end, FinalValue: e.capital}, nil
	}

	e.log.Info("portfolio run", "pool", len(pool), "days", len(dates), "max_positions", maxPositions)

	// lastClose carries each held symbol's most recent close forward into
	// valuations on days where the symbol has no row (suspension policy).
	lastClose := make(map[string]float64)

	for _, date := range dates {
		// Sell phase. HeldSymbols is sorted, keeping the day deterministic.
		for _, sym := range e.book.HeldSymbols() {
			f := frames[sym]
			if f == nil {
				continue
			}
			row, ok := f.days[date]
			if !ok {
				continue // no row today (suspension?), decision deferred
			}
			if reason, exit := e.shouldExit(row); exit {
				if e.book.SellAll(date, sym, row.snap.Close) {
					e.log.Info("sell", "date", day(date), "symbol", sym,
						"price", row.snap.Close, "reason", reason, "score", row.score.Score)
				}
			}
		}

		// Buy phase.
		freeSlots := maxPositions - e.book.OpenPositions()
		if freeSlots > 0 {
			var cands []candidate
			for _, sym := range pool {
				if _, held := e.book.Position(sym); held {
					continue
				}
				row, ok := frames[sym].days[date]
				if !ok {
					continue
				}
				if row.score.Score >= e.policy.PortfolioEntryScore && row.snap.Close > row.snap.MA20 {
					cands = append(cands, candidate{
						symbol:      sym,
						score:       row.score.Score,
						price:       row.snap.Close,
						volumeRatio: row.snap.VolumeRatio,
					})
				}
			}
			rankCandidates(cands)

			if len(cands) > freeSlots {
				cands = cands[:freeSlots]
			}
			for _, c := range cands {
				amount := e.book.Cash() / float64(freeSlots)
				if amount <= e.policy.MinSlotAmount {
					continue // too small to be worth a slot; slot not consumed
				}
				vol := e.policy.lotShares(amount, c.price)
				if vol <= 0 {
					continue
				}
				if e.book.Buy(date, c.symbol, c.price, vol) {
					e.log.Info("buy", "date", day(date), "symbol", c.symbol,
						"price", c.price, "volume", vol, "score", c.score)
					freeSlots--
				}
			}
		}

		// Snapshot phase: price every held symbol with today's close when
		// present, else its last known close carried forward.
		marks := make(map[string]float64)
		carried := make(map[string]float64)
		for _, sym := range e.book.HeldSymbols() {
			if row, ok := frames[sym].days[date]; ok {
				lastClose[sym] = row.snap.Close
				marks[sym] = row.snap.Close
				continue
			}
			if px, ok := lastClose[sym]; ok {
				carried[sym] = px
			}
		}
		e.book.UpdateDailyStats(date, marks, carried)
	}

	return e.result(symbols), nil
}

// rankCandidates orders by score descending, then volume ratio descending,
// then symbol ascending as the final stable tie-break.
func rankCandidates(cands []candidate) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].score != cands[j].score {
			return cands[i].score > cands[j].score
		}
		if cands[i].volumeRatio != cands[j].volumeRatio {
			return cands[i].volumeRatio > cands[j].volumeRatio
		}
		return cands[i].symbol < cands[j].symbol
	})
}

func (e *Engine) result(symbols []string) Result {
	hist := e.book.History()
	final := e.capital
	var start, end time.Time
	if len(hist) > 0 {
		final = hist[len(hist)-1].TotalValue
		start = hist[0].Date
		end = hist[len(hist)-1].Date
	}
	trades := e.book.Trades()
	return Result{
		Symbols:    symbols,
		Start:      start,
		End:        end,
		FinalValue: final,
		TradeCount: len(trades),
		Trades:     trades,
		Equity:     hist,
	}
}

func sortedDates(days map[time.Time]frameRow) []time.Time {
	out := make([]time.Time, 0, len(days))
	for d := range days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func day(t time.Time) string { return t.Format("2006-01-02") }
