package journal

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// Org export renders a run as an org-mode subtree so results can be filed
// straight into a research notebook.

var orgFuncs = template.FuncMap{
	"join": func(s []string) string { return strings.Join(s, ", ") },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

const runOrgTemplate = `* BACKTEST: {{join .Symbols}} ({{.Mode}})
:PROPERTIES:
:RUN_ID:      {{.RunID}}
:MODE:        {{.Mode}}
:SYMBOLS:     {{join .Symbols}}
:START_DATE:  {{.Start.Format "2006-01-02"}}
:END_DATE:    {{.End.Format "2006-01-02"}}
:START_CAP:   {{printf "%.2f" .InitialCapital}}
:FINAL_VALUE: {{printf "%.2f" .FinalValue}}
:RETURN_PCT:  {{printf "%.2f" .TotalReturnPct}}
:MAX_DD_PCT:  {{printf "%.2f" .MaxDrawdownPct}}
:TRADES:      {{.Trades}}
:WINS:        {{.Wins}}
:LOSSES:      {{.Losses}}
:WIN_RATE:    {{printf "%.2f" .WinRatePct}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Performance Summary
- Return:       *{{printf "%.2f" .TotalReturnPct}}%*
- Max Drawdown: *{{printf "%.2f" .MaxDrawdownPct}}%*
- Win Rate:     *{{printf "%.2f" .WinRatePct}}%*

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Wins}} |
| Losses  | {{.Losses}} |
| Total   | {{.Trades}} |
`

// FormatRunOrg renders the run summary subtree.
func FormatRunOrg(r Run) (string, error) {
	t, err := template.New("run").Funcs(orgFuncs).Parse(runOrgTemplate)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatTradeOrg renders one trade as a second-level heading with a
// properties drawer.
func FormatTradeOrg(t TradeRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "** Trade %d: %s %s\n", t.Seq, t.Action, t.Symbol)
	sb.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&sb, ":RUN_ID: %s\n", shortID(t.RunID))
	fmt.Fprintf(&sb, ":DATE: %s\n", t.Date.Format("2006-01-02"))
	fmt.Fprintf(&sb, ":ACTION: %s\n", t.Action)
	fmt.Fprintf(&sb, ":SYMBOL: %s\n", t.Symbol)
	fmt.Fprintf(&sb, ":PRICE: %.4f\n", t.Price)
	fmt.Fprintf(&sb, ":VOLUME: %d\n", t.Volume)
	fmt.Fprintf(&sb, ":FEE: %.2f\n", t.Fee)
	fmt.Fprintf(&sb, ":REALIZED_PNL: %.2f\n", t.RealizedPnL)
	sb.WriteString(":END:")
	return sb.String()
}

// FormatTradesOrg joins trade subtrees separated by a blank line.
func FormatTradesOrg(trades []TradeRecord) string {
	parts := make([]string, len(trades))
	for i, t := range trades {
		parts[i] = FormatTradeOrg(t)
	}
	return strings.Join(parts, "\n\n\n")
}

// shortID truncates an ID for display headings.
func shortID(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
