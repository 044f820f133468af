package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/fd1az/saucerswap-engine/business/swap/domain"
	"github.com/fd1az/saucerswap-engine/internal/apperror"
	"github.com/fd1az/saucerswap-engine/internal/asset"
	"github.com/fd1az/saucerswap-engine/internal/health"
)

// Colors
var (
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorSuccess = lipgloss.Color("#10B981") // Green
	colorDanger  = lipgloss.Color("#EF4444") // Red
	colorWarning = lipgloss.Color("#F59E0B") // Amber
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorBorder  = lipgloss.Color("#374151") // Dark gray
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorPrimary).
			Padding(0, 2)

	labelStyle   = lipgloss.NewStyle().Foreground(colorMuted).Width(16)
	valueStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	dangerStyle  = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(colorWarning)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

type row struct {
	label string
	value string
}

func renderBox(title string, rows []row) string {
	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, titleStyle.Render(title), "")
	for _, r := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(r.label), valueStyle.Render(r.value)))
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// routeString renders "HBAR -(0.15%)-> USDC" from the intent and the
// encoded path.
func routeString(plan domain.Plan) string {
	symbols := []string{plan.Intent.TokenIn.Symbol()}
	for _, v := range plan.Intent.Via {
		symbols = append(symbols, v.Symbol())
	}
	symbols = append(symbols, plan.Intent.TokenOut.Symbol())

	_, fees, err := domain.DecodePath(plan.Path)
	if err != nil || len(fees) != len(symbols)-1 {
		return strings.Join(symbols, " -> ")
	}

	var b strings.Builder
	b.WriteString(symbols[0])
	for i, fee := range fees {
		fmt.Fprintf(&b, " -(%s)-> %s", fee.Percent(), symbols[i+1])
	}
	return b.String()
}

func renderPlan(plan domain.Plan, chainID uint64) string {
	in, out := plan.Intent.TokenIn, plan.Intent.TokenOut
	price := plan.Price(chainID, time.Now())
	rows := []row{
		{"Route", routeString(plan)},
		{"Shape", plan.Shape.String()},
		{"Amount in", plan.Intent.AmountIn.String() + " " + in.Symbol()},
		{"Expected out", plan.ExpectedOut().String() + " " + out.Symbol()},
		{"Minimum out", plan.MinOutHuman().String() + " " + out.Symbol()},
		{"Price", price.String()},
		{"Inverse", price.Invert().String()},
		{"Slippage", plan.Intent.Slippage.Mul(hundred).String() + "%"},
	}
	if g := plan.Quote.GasEstimate; g != nil && g.Sign() > 0 {
		rows = append(rows, row{"Quoter gas", g.String()})
	}
	return renderBox("Quote", rows)
}

func renderResult(res domain.SwapResult) string {
	status := successStyle.Render("confirmed")
	if !res.Success {
		status = dangerStyle.Render("failed")
	}

	rows := []row{{"Status", status}, {"Shape", res.Shape.String()}}
	if res.ApprovalTxHash != "" {
		rows = append(rows, row{"Approval tx", res.ApprovalTxHash})
	}
	if res.TxHash != "" {
		rows = append(rows, row{"Swap tx", res.TxHash})
	}
	if res.Success {
		rows = append(rows,
			row{"Amount in", res.AmountIn.String()},
			row{"Expected out", res.AmountOut.String()},
			row{"Minimum out", res.MinOut.String()},
			row{"Gas used", fmt.Sprintf("%d", res.GasUsed)},
		)
	} else {
		rows = append(rows,
			row{"Code", string(res.Code)},
			row{"Error", res.Error},
		)
	}
	return renderBox("Swap", rows)
}

func renderBalances(account string, balances []asset.Amount) string {
	rows := []row{{"Account", account}}
	for _, b := range balances {
		rows = append(rows, row{b.Asset().Symbol(), b.ToDecimal().String()})
	}
	return renderBox("Balances", rows)
}

func renderTokens(tokens []*asset.Asset) string {
	rows := make([]row, 0, len(tokens))
	for _, t := range tokens {
		id := "native"
		if eid, ok := t.EntityID(); ok {
			id = eid
		}
		rows = append(rows, row{t.Symbol(), fmt.Sprintf("%-14s %s", id, mutedStyle.Render(fmt.Sprintf("%d decimals", t.Decimals())))})
	}
	return renderBox("Tokens", rows)
}

func renderHealth(status health.Status) string {
	rows := make([]row, 0, len(status.Checks)+1)
	for _, name := range status.Names() {
		check := status.Checks[name]
		mark := successStyle.Render("ok")
		if !check.Healthy {
			mark = dangerStyle.Render("fail")
		}
		rows = append(rows, row{name, fmt.Sprintf("%s %s %s", mark, check.Message, mutedStyle.Render(check.Latency))})
	}
	rows = append(rows, row{"Overall", status.Status})
	return renderBox("Health", rows)
}

func renderError(err error) string {
	if !apperror.IsAppError(err) {
		return dangerStyle.Render("Error: ") + err.Error()
	}
	return dangerStyle.Render("Error ["+string(apperror.GetCode(err))+"]: ") + err.Error()
}

func renderWarning(msg string) string {
	return warnStyle.Render(msg)
}

// withSpinner runs fn while a spinner with msg is shown on w. The spinner
// stays silent when w is not a terminal.
func withSpinner(w io.Writer, msg string, fn func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + msg
	s.Start()
	defer s.Stop()
	fn()
}
