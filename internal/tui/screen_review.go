package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-bank-connect/models"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *wizardModel) updateReview(msg tea.KeyMsg) tea.Cmd {
	accounts := m.state.Accounts.Discovered

	if m.renaming {
		switch {
		case key.Matches(msg, keys.enter):
			if m.reviewIdx < len(accounts) {
				m.machine.UpdateAccountName(accounts[m.reviewIdx].IBAN, strings.TrimSpace(m.renameInput.Value()))
				m.setState(m.machine.State())
			}
			m.stopRenaming()
			return nil
		case key.Matches(msg, keys.esc):
			m.stopRenaming()
			return nil
		}
		var cmd tea.Cmd
		m.renameInput, cmd = m.renameInput.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, keys.esc):
		m.back()
	case key.Matches(msg, keys.up):
		if m.reviewIdx > 0 {
			m.reviewIdx--
		}
	case key.Matches(msg, keys.down):
		if m.reviewIdx < len(accounts)-1 {
			m.reviewIdx++
		}
	case key.Matches(msg, keys.toggle):
		if m.reviewIdx < len(accounts) {
			m.machine.ToggleAccount(accounts[m.reviewIdx].IBAN)
			m.setState(m.machine.State())
		}
	case key.Matches(msg, keys.rename):
		if m.reviewIdx < len(accounts) {
			m.renaming = true
			m.renameInput.SetValue(m.state.Accounts.Names[accounts[m.reviewIdx].IBAN])
			m.renameInput.CursorEnd()
			return m.renameInput.Focus()
		}
	case key.Matches(msg, keys.copy):
		if m.reviewIdx < len(accounts) {
			return m.copyIBAN(accounts[m.reviewIdx].IBAN)
		}
	case key.Matches(msg, keys.enter):
		if m.state.IsLoading(models.StepReviewAccounts) {
			return nil
		}
		return m.run(models.StepReviewAccounts, m.machine.ConfirmImport)
	}
	return nil
}

func (m *wizardModel) stopRenaming() {
	m.renaming = false
	m.renameInput.Blur()
}

func (m *wizardModel) viewReview() string {
	var b strings.Builder
	b.WriteString("   │ Name                     │ IBAN                   │ Type     │ Balance\n")
	b.WriteString("───┼──────────────────────────┼────────────────────────┼──────────┼──────────────\n")

	for i, acc := range m.state.Accounts.Discovered {
		mark := "[ ]"
		if m.state.Accounts.Selected[acc.IBAN] {
			mark = "[x]"
		}

		name := m.state.Accounts.Names[acc.IBAN]
		if m.renaming && i == m.reviewIdx {
			name = m.renameInput.View()
		} else {
			name = fitText(valueOrDash(name), 24)
		}

		line := fmt.Sprintf("%s │ %-24s │ %-22s │ %-8s │ %s",
			mark, name, acc.IBAN, fitText(valueOrDash(acc.AccountType), 8), formatAmount(acc.Balance, acc.Currency))
		if i == m.reviewIdx {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(m.state.Accounts.Discovered) == 0 {
		b.WriteString("No accounts found.\n")
	}
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	b.WriteString(renderError(humanizeMessage(m.state.Error(models.StepReviewAccounts))))

	hotKeys := "esc: back │ space: select │ e: rename │ c: copy IBAN │ enter: import"
	if m.renaming {
		hotKeys = "enter: save name │ esc: cancel"
	}
	return renderPage("REVIEW ACCOUNTS", strings.TrimRight(b.String(), "\n"), hotKeys)
}
