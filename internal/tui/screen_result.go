package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-bank-connect/models"
)

func (m *wizardModel) viewSuccess() string {
	var b strings.Builder
	b.WriteString(successStyle.Render("Bank connected."))
	b.WriteString("\n\n")

	if res := m.state.Result; res != nil {
		fmt.Fprintf(&b, "%d account(s) imported.\n", len(res.ImportedAccounts))
	}

	switch sync := m.state.Sync.Result; {
	case sync == nil:
		b.WriteString("Initial sync skipped. You can run it later with `bankconnect sync`.\n")
	default:
		fmt.Fprintf(&b, "%d transaction(s) imported from %d account(s).\n", sync.TotalImported, sync.AccountsSynced)
		if sync.Message != "" {
			b.WriteString(helpStyle.Render(sync.Message))
			b.WriteString("\n")
		}
		for _, e := range sync.Errors {
			b.WriteString(errorStyle.Render("! " + e))
			b.WriteString("\n")
		}
	}

	return renderPage("DONE", strings.TrimRight(b.String(), "\n"), "enter/q: close")
}

func (m *wizardModel) updateError(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.restart):
		m.machine.Reset()
		m.setState(m.machine.State())
	case key.Matches(msg, keys.esc):
		m.back()
	case key.Matches(msg, keys.quit):
		m.quit = true
	}
	return nil
}

func (m *wizardModel) viewError() string {
	overlay := errorOverlayModel{message: humanizeMessage(valueOrDash(m.state.Error(models.StepError)))}
	return renderPage("SYNC FAILED", overlay.View(), "")
}
