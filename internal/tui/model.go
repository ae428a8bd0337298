package tui

import (
	"context"
	"time"

	"github.com/MKhiriev/go-bank-connect/internal/wizard"
	"github.com/MKhiriev/go-bank-connect/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const statusTTL = 2 * time.Second

// wizardModel renders the current wizard step and turns key presses into
// machine actions. Async actions run as tea commands; the model re-reads
// the machine state when they finish and on every published state.
type wizardModel struct {
	ctx     context.Context
	machine *wizard.Machine
	state   wizard.State

	blz       textinput.Model
	username  textinput.Model
	pin       textinput.Model
	credFocus int

	tanIdx int

	reviewIdx   int
	renaming    bool
	renameInput textinput.Model

	daysInput  textinput.Model
	daysSeeded bool

	spinner spinner.Model
	bar     progress.Model

	status string
	quit   bool

	// writeClipboard is swapped in tests.
	writeClipboard func(string) error
}

func newWizardModel(ctx context.Context, machine *wizard.Machine) *wizardModel {
	blz := textinput.New()
	blz.Placeholder = "12030000"
	blz.CharLimit = 8
	blz.Width = 20
	blz.Validate = digitsOnly

	username := textinput.New()
	username.Placeholder = "online banking login"
	username.CharLimit = 64
	username.Width = 40

	pin := textinput.New()
	pin.Placeholder = "PIN"
	pin.CharLimit = 64
	pin.Width = 40
	pin.EchoMode = textinput.EchoPassword
	pin.EchoCharacter = '*'

	rename := textinput.New()
	rename.CharLimit = 80
	rename.Width = 40

	days := textinput.New()
	days.Placeholder = "adaptive"
	days.CharLimit = 4
	days.Width = 10
	days.Validate = digitsOnly

	s := spinner.New()
	s.Spinner = spinner.MiniDot

	m := &wizardModel{
		ctx:            ctx,
		machine:        machine,
		blz:            blz,
		username:       username,
		pin:            pin,
		renameInput:    rename,
		daysInput:      days,
		spinner:        s,
		bar:            progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		writeClipboard: clipboard.WriteAll,
	}
	m.setState(machine.State())
	return m
}

func (m *wizardModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m *wizardModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case stateMsg:
		m.setState(msg.state)
		return nil
	case opDoneMsg:
		m.setState(m.machine.State())
		return nil
	case copiedMsg:
		if msg.err != nil {
			m.status = "Copy failed: " + msg.err.Error()
		} else {
			m.status = "Copied " + msg.iban
		}
		return clearStatusAfter(statusTTL)
	case clearStatusMsg:
		m.status = ""
		return nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	case progress.FrameMsg:
		updated, cmd := m.bar.Update(msg)
		if bar, ok := updated.(progress.Model); ok {
			m.bar = bar
		}
		return cmd
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-20, 10), 60)
		return nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateFocused(msg)
	}

	switch m.state.Step {
	case models.StepFindBank:
		return m.updateFindBank(keyMsg)
	case models.StepCredentials:
		return m.updateCredentials(keyMsg)
	case models.StepTANDiscovery:
		return m.updateTAN(keyMsg)
	case models.StepReviewAccounts:
		return m.updateReview(keyMsg)
	case models.StepInitialSync:
		return m.updateInitialSync(keyMsg)
	case models.StepSyncing:
		if key.Matches(keyMsg, keys.skip) {
			if err := m.machine.SkipInitialSync(); err != nil {
				m.status = err.Error()
			}
			m.setState(m.machine.State())
		}
		return nil
	case models.StepSuccess:
		if key.Matches(keyMsg, keys.enter, keys.quit) {
			m.quit = true
		}
		return nil
	case models.StepError:
		return m.updateError(keyMsg)
	}
	return nil
}

func (m *wizardModel) View() string {
	switch m.state.Step {
	case models.StepFindBank:
		return m.viewFindBank()
	case models.StepCredentials:
		return m.viewCredentials()
	case models.StepTANDiscovery:
		return m.viewTAN()
	case models.StepReviewAccounts:
		return m.viewReview()
	case models.StepConnecting:
		return renderPage("IMPORTING ACCOUNTS", m.spinner.View()+" Importing the selected accounts...", "")
	case models.StepInitialSync:
		return m.viewInitialSync()
	case models.StepSyncing:
		return m.viewSyncing()
	case models.StepSuccess:
		return m.viewSuccess()
	case models.StepError:
		return m.viewError()
	}
	return renderPage("BANK CONNECTION", "", "")
}

// setState adopts s and prepares the inputs of a step that was just
// entered.
func (m *wizardModel) setState(s wizard.State) {
	prev := m.state.Step
	m.state = s

	if s.Step == models.StepInitialSync && !m.daysSeeded && s.Recommendation != nil {
		m.daysSeeded = true
		if s.Recommendation.NeedsDaysPrompt && s.Recommendation.SuggestedDays > 0 {
			m.daysInput.SetValue(itoa(s.Recommendation.SuggestedDays))
		}
	}

	if prev == s.Step && prev != "" {
		return
	}
	m.enterStep(s)
}

func (m *wizardModel) enterStep(s wizard.State) {
	m.blz.Blur()
	m.username.Blur()
	m.pin.Blur()
	m.daysInput.Blur()
	m.renaming = false

	switch s.Step {
	case models.StepFindBank:
		if s.Form.BLZ == "" {
			m.blz.SetValue("")
			m.username.SetValue("")
			m.pin.SetValue("")
			m.daysInput.SetValue("")
			m.daysSeeded = false
			m.reviewIdx = 0
		}
		m.blz.Focus()
	case models.StepCredentials:
		m.credFocus = 0
		m.username.Focus()
	case models.StepTANDiscovery:
		m.tanIdx = 0
		for i, method := range s.TAN.Methods {
			if method.Code == s.Form.TANMethod {
				m.tanIdx = i
			}
		}
	case models.StepReviewAccounts:
		if m.reviewIdx >= len(s.Accounts.Discovered) {
			m.reviewIdx = 0
		}
	case models.StepInitialSync:
		m.daysInput.Focus()
	}
}

// updateFocused forwards non-key messages, such as the cursor blink, to
// the input that has focus on the current step.
func (m *wizardModel) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.state.Step {
	case models.StepFindBank:
		m.blz, cmd = m.blz.Update(msg)
	case models.StepCredentials:
		if m.credFocus == 0 {
			m.username, cmd = m.username.Update(msg)
		} else {
			m.pin, cmd = m.pin.Update(msg)
		}
	case models.StepReviewAccounts:
		if m.renaming {
			m.renameInput, cmd = m.renameInput.Update(msg)
		}
	case models.StepInitialSync:
		m.daysInput, cmd = m.daysInput.Update(msg)
	}
	return cmd
}

// run executes a machine action off the UI goroutine.
func (m *wizardModel) run(step models.ConnectionStep, action func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{step: step, err: action(ctx)}
	}
}

func (m *wizardModel) back() {
	m.machine.Back()
	m.setState(m.machine.State())
}

func (m *wizardModel) copyIBAN(iban string) tea.Cmd {
	write := m.writeClipboard
	return func() tea.Msg {
		return copiedMsg{iban: iban, err: write(iban)}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{} })
}
