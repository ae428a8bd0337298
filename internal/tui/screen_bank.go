package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-bank-connect/models"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ── find bank ────────────────────────────────────────────────────────────────

func (m *wizardModel) updateFindBank(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, keys.enter) {
		if m.state.IsLoading(models.StepFindBank) {
			return nil
		}
		blz := strings.TrimSpace(m.blz.Value())
		m.machine.UpdateForm(models.BankFormPatch{BLZ: &blz})
		return m.run(models.StepFindBank, m.machine.LookupBank)
	}

	var cmd tea.Cmd
	m.blz, cmd = m.blz.Update(msg)
	return cmd
}

func (m *wizardModel) viewFindBank() string {
	var b strings.Builder
	b.WriteString("Bank code (BLZ) │ [")
	b.WriteString(m.blz.View())
	b.WriteString("]\n")

	if m.state.IsLoading(models.StepFindBank) {
		b.WriteString("\n" + m.spinner.View() + " Looking up bank...\n")
	}
	b.WriteString(renderError(humanizeMessage(m.state.Error(models.StepFindBank))))

	return renderPage("FIND YOUR BANK", strings.TrimRight(b.String(), "\n"), "enter: search │ f1: about")
}

// ── credentials ──────────────────────────────────────────────────────────────

func (m *wizardModel) updateCredentials(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.esc):
		m.back()
		return nil
	case key.Matches(msg, keys.tab, keys.backtab):
		m.switchCredFocus()
		return nil
	case key.Matches(msg, keys.enter):
		if m.state.IsLoading(models.StepCredentials) {
			return nil
		}
		username := strings.TrimSpace(m.username.Value())
		pin := m.pin.Value()
		m.machine.UpdateForm(models.BankFormPatch{Username: &username, PIN: &pin})
		return m.run(models.StepCredentials, m.machine.DiscoverTANMethods)
	}

	var cmd tea.Cmd
	if m.credFocus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.pin, cmd = m.pin.Update(msg)
	}
	return cmd
}

func (m *wizardModel) switchCredFocus() {
	if m.credFocus == 0 {
		m.credFocus = 1
		m.username.Blur()
		m.pin.Focus()
		return
	}
	m.credFocus = 0
	m.pin.Blur()
	m.username.Focus()
}

func (m *wizardModel) viewCredentials() string {
	var b strings.Builder
	if bank := m.state.Bank; bank != nil {
		fmt.Fprintf(&b, "%s (%s, BIC %s)\n\n", bank.Name, valueOrDash(bank.City), valueOrDash(bank.BIC))
	}
	b.WriteString("Username │ [")
	b.WriteString(m.username.View())
	b.WriteString("]\n")
	b.WriteString("PIN      │ [")
	b.WriteString(m.pin.View())
	b.WriteString("]\n")

	if m.state.IsLoading(models.StepCredentials) {
		b.WriteString("\n" + m.spinner.View() + " Asking the bank for TAN methods...\n")
	}
	b.WriteString(renderError(humanizeMessage(m.state.Error(models.StepCredentials))))

	return renderPage("ONLINE BANKING LOGIN", strings.TrimRight(b.String(), "\n"), "esc: back │ tab: next field │ enter: continue")
}

// ── TAN method ───────────────────────────────────────────────────────────────

func (m *wizardModel) updateTAN(msg tea.KeyMsg) tea.Cmd {
	methods := m.state.TAN.Methods
	switch {
	case key.Matches(msg, keys.esc):
		m.back()
	case key.Matches(msg, keys.up):
		if m.tanIdx > 0 {
			m.tanIdx--
			m.selectTAN()
		}
	case key.Matches(msg, keys.down):
		if m.tanIdx < len(methods)-1 {
			m.tanIdx++
			m.selectTAN()
		}
	case key.Matches(msg, keys.enter):
		if m.state.IsLoading(models.StepTANDiscovery) {
			return nil
		}
		return m.run(models.StepTANDiscovery, m.machine.ConnectBank)
	}
	return nil
}

// selectTAN writes the highlighted method into the form. Decoupled methods
// use their name as TAN medium.
func (m *wizardModel) selectTAN() {
	methods := m.state.TAN.Methods
	if m.tanIdx < 0 || m.tanIdx >= len(methods) {
		return
	}
	method := methods[m.tanIdx]
	medium := ""
	if method.IsDecoupled {
		medium = method.Name
	}
	m.machine.UpdateForm(models.BankFormPatch{TANMethod: &method.Code, TANMedium: &medium})
	m.setState(m.machine.State())
}

func (m *wizardModel) viewTAN() string {
	var b strings.Builder
	for i, method := range m.state.TAN.Methods {
		line := fmt.Sprintf("%s  %s", method.Code, method.Name)
		if method.IsDecoupled {
			line += " (approve in app)"
		}
		if method.Code == m.state.TAN.DefaultMethod {
			line += " [default]"
		}
		if i == m.tanIdx {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if m.state.IsLoading(models.StepTANDiscovery) {
		b.WriteString("\n" + m.spinner.View() + " Connecting and discovering accounts...\n")
	}
	b.WriteString(renderError(humanizeMessage(m.state.Error(models.StepTANDiscovery))))

	return renderPage("CHOOSE TAN METHOD", strings.TrimRight(b.String(), "\n"), "esc: back │ ↑/↓: choose │ enter: connect")
}

func digitsOnly(s string) error {
	for _, r := range s {
		if r < '0' || r > '9' {
			return fmt.Errorf("%q is not a digit", r)
		}
	}
	return nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
