package tui

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-bank-connect/internal/logger"
	"github.com/MKhiriev/go-bank-connect/internal/wizard"
	"github.com/MKhiriev/go-bank-connect/models"
	tea "github.com/charmbracelet/bubbletea"
)

// TUI runs the bank connection wizard in the terminal.
type TUI struct {
	machine   *wizard.Machine
	buildInfo models.BuildInfo
	logger    *logger.Logger
}

func New(machine *wizard.Machine, buildInfo models.BuildInfo, log *logger.Logger) *TUI {
	if log == nil {
		log = logger.Nop()
	}
	return &TUI{machine: machine, buildInfo: buildInfo, logger: log}
}

// Run opens a wizard session and blocks until the user quits. It returns
// the last wizard state, and [ErrUserQuit] if the user left before the
// wizard reached the success step.
func (t *TUI) Run(ctx context.Context) (wizard.State, error) {
	t.machine.Open()
	defer t.machine.Close()

	root := NewRootModel(newWizardModel(ctx, t.machine), t.buildInfo)
	p := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx))

	// Subscribers run on the goroutine that changed the state, which may
	// be the program's own Update; the relay keeps them from blocking it.
	relay := newStateRelay()
	unsubscribe := t.machine.Subscribe(relay.publish)
	defer unsubscribe()

	relayCtx, stopRelay := context.WithCancel(ctx)
	defer stopRelay()
	go relay.forward(relayCtx, p.Send)

	finalModel, err := p.Run()
	if err != nil {
		return t.machine.State(), err
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return t.machine.State(), tea.ErrProgramKilled
	}

	state := t.machine.State()
	t.logger.Debug().Str("step", state.Step.String()).Bool("quit_by_user", result.quitByUser).Msg("wizard closed")
	if result.quitByUser && state.Step != models.StepSuccess {
		return state, ErrUserQuit
	}
	return state, nil
}

// stateRelay hands published states to the program. States are complete
// snapshots, so only the newest pending one is delivered.
type stateRelay struct {
	mu     sync.Mutex
	latest wizard.State
	signal chan struct{}
}

func newStateRelay() *stateRelay {
	return &stateRelay{signal: make(chan struct{}, 1)}
}

func (r *stateRelay) publish(s wizard.State) {
	r.mu.Lock()
	r.latest = s
	r.mu.Unlock()

	select {
	case r.signal <- struct{}{}:
	default:
	}
}

func (r *stateRelay) forward(ctx context.Context, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.signal:
			r.mu.Lock()
			s := r.latest
			r.mu.Unlock()
			send(stateMsg{state: s})
		}
	}
}
