// Package market provides daily bar data types and history providers
package market

import (
	"fmt"
	"sort"
	"time"
)

// Bar represents one daily OHLCV (Open, High, Low, Close, Volume) bar.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// History is an ordered sequence of daily bars for one symbol, ascending by date.
type History []Bar

// Provider supplies daily bar history for a symbol starting at a given date.
// Implementations must return bars ascending by date. An empty history and a
// nil error means the symbol has no data available.
type Provider interface {
	History(symbol string, start time.Time) (History, error)
}

// Day truncates t to midnight UTC. All bar dates are normalized with Day so
// date equality works across loaders.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Sort orders the history ascending by date in place.
func (h History) Sort() {
	sort.Slice(h, func(i, j int) bool { return h[i].Date.Before(h[j].Date) })
}

// Since returns the sub-history with date >= start.
func (h History) Since(start time.Time) History {
	lo := sort.Search(len(h), func(i int) bool { return !h[i].Date.Before(start) })
	return h[lo:]
}

// Between returns the sub-history with from <= date <= to.
func (h History) Between(from, to time.Time) History {
	lo := sort.Search(len(h), func(i int) bool { return !h[i].Date.Before(from) })
	hi := sort.Search(len(h), func(i int) bool { return h[i].Date.After(to) })
	return h[lo:hi]
}

// Closes returns the close prices in bar order.
func (h History) Closes() []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		out[i] = b.Close
	}
	return out
}

// Validate checks that the history is strictly ascending by date with
// positive prices.
func (h History) Validate() error {
	for i, b := range h {
		if b.Close <= 0 || b.Open <= 0 || b.High <= 0 || b.Low <= 0 {
			return fmt.Errorf("bar %d (%s): non-positive price", i, b.Date.Format("2006-01-02"))
		}
		if i > 0 && !h[i-1].Date.Before(b.Date) {
			return fmt.Errorf("bar %d (%s): dates not strictly ascending", i, b.Date.Format("2006-01-02"))
		}
	}
	return nil
}
