package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-bank-connect/models"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ── initial sync ─────────────────────────────────────────────────────────────

func (m *wizardModel) updateInitialSync(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.skip):
		if err := m.machine.SkipInitialSync(); err != nil {
			m.status = err.Error()
		}
		m.setState(m.machine.State())
		return nil
	case key.Matches(msg, keys.enter):
		days, err := parseDays(m.daysInput.Value())
		if err != nil {
			m.status = err.Error()
			return nil
		}
		m.status = ""
		return m.run(models.StepInitialSync, func(ctx context.Context) error {
			return m.machine.StartInitialSync(ctx, days)
		})
	}

	var cmd tea.Cmd
	m.daysInput, cmd = m.daysInput.Update(msg)
	return cmd
}

// parseDays turns the days input into a sync range. Empty input asks for
// an adaptive sync.
func parseDays(v string) (*int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	days, err := strconv.Atoi(v)
	if err != nil || days <= 0 {
		return nil, fmt.Errorf("days must be a positive number, got %q", v)
	}
	return &days, nil
}

func (m *wizardModel) viewInitialSync() string {
	var b strings.Builder
	if res := m.state.Result; res != nil {
		fmt.Fprintf(&b, "%s\n", valueOrDash(res.Message))
		for _, acc := range res.ImportedAccounts {
			fmt.Fprintf(&b, "  • %s (%s)\n", acc.Name, acc.IBAN)
		}
		b.WriteString("\n")
	}

	switch rec := m.state.Recommendation; {
	case rec == nil:
		b.WriteString("Leave the field empty to let the server choose the range.\n")
	case rec.NeedsDaysPrompt:
		fmt.Fprintf(&b, "%s\nHow many days of history should be imported?\n", valueOrDash(rec.Reason))
	default:
		fmt.Fprintf(&b, "%s\n", valueOrDash(rec.Reason))
	}

	b.WriteString("\nDays │ [")
	b.WriteString(m.daysInput.View())
	b.WriteString("]\n")

	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	b.WriteString(renderError(humanizeMessage(m.state.Error(models.StepInitialSync))))

	return renderPage("INITIAL SYNC", strings.TrimRight(b.String(), "\n"), "enter: start sync │ s: skip")
}

// ── syncing ──────────────────────────────────────────────────────────────────

func (m *wizardModel) viewSyncing() string {
	p := m.state.Sync.Progress
	if p == nil {
		return renderPage("SYNCING", m.spinner.View()+" Connecting to the bank...", "s: skip")
	}

	var b strings.Builder
	if p.TotalAccounts > 0 {
		fmt.Fprintf(&b, "Account %d of %d: %s\n", p.AccountIndex, p.TotalAccounts, valueOrDash(p.CurrentAccountName))
		if p.CurrentAccount != "" {
			fmt.Fprintf(&b, "IBAN %s\n", p.CurrentAccount)
		}
	}
	fmt.Fprintf(&b, "%s %s\n\n", m.spinner.View(), phaseLabel(p.Phase))

	if p.TransactionsTotal > 0 {
		percent := float64(p.TransactionsCurrent) / float64(p.TransactionsTotal)
		b.WriteString(m.bar.ViewAs(percent))
		fmt.Fprintf(&b, "  %d/%d transactions\n", p.TransactionsCurrent, p.TransactionsTotal)
	}
	if p.LastTransactionDescription != "" {
		fmt.Fprintf(&b, "Last: %s", fitText(p.LastTransactionDescription, 40))
		if p.LastCounterAccountName != "" {
			fmt.Fprintf(&b, " → %s", fitText(p.LastCounterAccountName, 30))
		}
		b.WriteString("\n")
	}
	if p.LastMessage != "" {
		b.WriteString(helpStyle.Render(p.LastMessage))
		b.WriteString("\n")
	}
	for _, accErr := range p.AccountErrors {
		b.WriteString(errorStyle.Render("! " + accErr))
		b.WriteString("\n")
	}

	return renderPage("SYNCING", strings.TrimRight(b.String(), "\n"), "s: skip")
}

func phaseLabel(phase models.SyncPhase) string {
	switch phase {
	case models.PhaseConnecting:
		return "Connecting to the bank..."
	case models.PhaseFetching:
		return "Fetching transactions..."
	case models.PhaseClassifying:
		return "Classifying transactions..."
	case models.PhaseComplete:
		return "Done."
	default:
		return "Starting..."
	}
}
