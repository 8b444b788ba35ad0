package backtest

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"
)

// WriteReport renders a human-readable summary of a run to w.
func WriteReport(w io.Writer, r *Result, p Performance) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Symbols:       %s\n", strings.Join(r.Symbols, ", "))
	fmt.Fprintf(w, "Start:         %s\n", r.Start.Format(time.DateOnly))
	fmt.Fprintf(w, "End:           %s\n", r.End.Format(time.DateOnly))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Capital: %.2f\n", p.InitialCapital)
	fmt.Fprintf(w, "Final Value:   %.2f\n", p.FinalValue)
	fmt.Fprintf(w, "Total Return:  %.2f%%\n", p.TotalReturnPct)
	fmt.Fprintf(w, "CAGR:          %.2f%%\n", p.CAGRPct)
	fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", p.MaxDrawdownPct)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", r.TradeCount)
	fmt.Fprintf(w, "Wins:          %d\n", p.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", p.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", p.WinRatePct)
	fmt.Fprintf(w, "Avg Win:       %.2f\n", p.AvgWin)
	fmt.Fprintf(w, "Avg Loss:      %.2f\n", p.AvgLoss)

	switch {
	case math.IsInf(p.ProfitLossRatio, 1):
		fmt.Fprintln(w, "P/L Ratio:     inf (no losing trades)")
	case p.ProfitLossRatio > 0:
		fmt.Fprintf(w, "P/L Ratio:     %.2f\n", p.ProfitLossRatio)
	}

	if p.Wins > 0 || p.Losses > 0 {
		fmt.Fprintf(w, "Largest Win:   %.2f\n", p.LargestWin)
		fmt.Fprintf(w, "Largest Loss:  %.2f\n", p.LargestLoss)
		fmt.Fprintf(w, "Win Streak:    %d\n", p.MaxConsecutiveWins)
		fmt.Fprintf(w, "Loss Streak:   %d\n", p.MaxConsecutiveLosses)
	}

	fmt.Fprintln(w)
}
