package exporter

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"approvalcli/pkg/contracts/domain"
)

// ConsolePrinter renders an AnalysisReport as terminal tables
type ConsolePrinter struct {
	w       io.Writer
	heading *color.Color
	answer  *color.Color
	warn    *color.Color
}

// NewConsolePrinter creates a printer writing to w
func NewConsolePrinter(w io.Writer, noColor bool) *ConsolePrinter {
	p := &ConsolePrinter{
		w:       w,
		heading: color.New(color.FgYellow, color.Bold),
		answer:  color.New(color.FgGreen),
		warn:    color.New(color.FgRed),
	}
	if noColor {
		p.heading.DisableColor()
		p.answer.DisableColor()
		p.warn.DisableColor()
	}
	return p
}

// Print writes every section of the report followed by the one-line answers
func (p *ConsolePrinter) Print(report *domain.AnalysisReport) error {
	if report == nil {
		return fmt.Errorf("nothing to print")
	}

	for _, s := range reportSections(report) {
		if _, err := p.heading.Fprintf(p.w, "\n%s\n", s.name); err != nil {
			return err
		}
		table := tablewriter.NewWriter(p.w)
		table.SetAutoFormatHeaders(false)
		table.SetHeader(s.headers)
		for _, row := range s.rows {
			cells := make([]string, len(row))
			for i, v := range row {
				cells[i] = consoleCell(v)
			}
			table.Append(cells)
		}
		table.Render()
	}

	fmt.Fprintln(p.w)
	for _, line := range answers(report) {
		if _, err := p.answer.Fprintln(p.w, line); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(report.QueryErrors) {
		if _, err := p.warn.Fprintf(p.w, "%s failed: %s\n", name, report.QueryErrors[name]); err != nil {
			return err
		}
	}
	return nil
}

// answers states each business question's result in one sentence
func answers(r *domain.AnalysisReport) []string {
	var lines []string
	for _, q := range r.QuarterlyRates {
		lines = append(lines, fmt.Sprintf("Approval rate in %s: %s", q.Quarter, formatPercent(q.Rate)))
	}
	if c := r.Customers; c != nil {
		lines = append(lines, fmt.Sprintf("Customers attempting a %s deposit in %s: %s (%s attempts)",
			formatMoney(c.Amount), monthLabel(c.Month, c.Year), formatCount(c.DistinctCustomers), formatCount(c.TotalAttempts)))
	}
	if a := r.ApprovedAmount; a != nil {
		lines = append(lines, fmt.Sprintf("Approved deposits in %s: %s",
			monthLabel(a.Month, a.Year), formatMoney(a.Total)))
	}
	if b := r.TopBanks; b != nil {
		lines = append(lines, fmt.Sprintf("Best approval rate among the top %d banks for %s to %s deposits in %d: %s (%s)",
			b.TopN, formatMoney(b.Low), formatMoney(b.High), b.Year, b.Best.Bank, formatPercent(b.Best.Rate)))
	}
	if f := r.Factors; f != nil && len(f.Scores) > 0 {
		top := f.Scores[0]
		for _, s := range f.Scores[1:] {
			if s.FScore+s.MIScore > top.FScore+top.MIScore {
				top = s
			}
		}
		lines = append(lines, fmt.Sprintf("Strongest factor between %s and %s: %s (F score %s, MI score %s)",
			f.Earlier, f.Later, top.Feature, formatScore(top.FScore), formatScore(top.MIScore)))
	}
	return lines
}
