package tui

import (
	"github.com/MKhiriev/go-bank-connect/models"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// RootModel wraps the wizard screens:
// 1) handles global Ctrl+C quit
// 2) toggles the build info window
// 3) delegates all other messages to the wizard
type RootModel struct {
	wizard    *wizardModel
	buildInfo models.BuildInfo

	quitByUser    bool
	showBuildInfo bool
}

func NewRootModel(w *wizardModel, buildInfo models.BuildInfo) RootModel {
	return RootModel{wizard: w, buildInfo: buildInfo}
}

func (r RootModel) Init() tea.Cmd {
	return r.wizard.Init()
}

func (r RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keyMsg.String() == "ctrl+c":
			r.quitByUser = true
			return r, tea.Quit
		case key.Matches(keyMsg, keys.buildInfo):
			r.showBuildInfo = !r.showBuildInfo
			return r, nil
		case key.Matches(keyMsg, keys.esc) && r.showBuildInfo:
			r.showBuildInfo = false
			return r, nil
		}

		if r.showBuildInfo {
			return r, nil
		}
	}

	cmd := r.wizard.Update(msg)
	if r.wizard.quit {
		r.quitByUser = true
		return r, tea.Quit
	}
	return r, cmd
}

func (r RootModel) View() string {
	if r.showBuildInfo {
		return renderBuildInfoWindow(r.buildInfo)
	}
	return r.wizard.View()
}
