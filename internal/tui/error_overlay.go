package tui

import "strings"

// errorOverlayModel renders the terminal error step of the wizard.
type errorOverlayModel struct {
	message string
}

func (m errorOverlayModel) View() string {
	var b strings.Builder
	b.WriteString(errorStyle.Render("Bank connection failed"))
	b.WriteString("\n\n")
	b.WriteString(m.message)
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("r: start over │ esc: back │ q: quit"))
	return overlayBoxStyle.Render(b.String())
}
