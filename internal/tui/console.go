// internal/tui/console.go
//
// Interactive routing console. Elm architecture via bubbletea: the model
// holds the inputs and the latest routing result, Update reacts to key
// presses, View renders. Routing is synchronous and cheap, so the plan
// recomputes live on every edit.
package tui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"agentkit/internal/config"
	"agentkit/internal/logbook"
	"agentkit/internal/logging"
	"agentkit/internal/router"
	"agentkit/internal/taskcall"
)

// consoleState is the screen being shown.
type consoleState int

const (
	stateRoute  consoleState = iota // task/files inputs with the live plan
	stateChains                     // chain browser
)

// inputFocus tracks which text input receives keystrokes.
type inputFocus int

const (
	focusTask inputFocus = iota
	focusFiles
)

// chainItem adapts a router.Chain to the bubbles list.
type chainItem struct {
	chain router.Chain
}

func (i chainItem) Title() string       { return i.chain.Name }
func (i chainItem) Description() string { return i.chain.Description }
func (i chainItem) FilterValue() string { return i.chain.Name }

// App is the console model. It owns no I/O beyond the logger; every state
// change comes in through Update.
type App struct {
	cfg     *config.Config
	router  *router.Router
	log     *slog.Logger
	logbook *logbook.Logbook

	state consoleState
	focus inputFocus

	taskInput  textinput.Model
	filesInput textinput.Model
	chainList  list.Model

	preferParallel bool
	chainName      string

	result router.Result
	calls  []taskcall.Call

	statusMsg string
	width     int
	height    int
}

// Option adjusts the console before its first frame.
type Option func(*App)

// WithLogbook makes the console tail the given log file in a side panel.
func WithLogbook(lb *logbook.Logbook) Option {
	return func(a *App) { a.logbook = lb }
}

// New builds the console over an already-loaded configuration and router.
func New(cfg *config.Config, r *router.Router, log *slog.Logger, opts ...Option) *App {
	if log == nil {
		log = logging.Discard()
	}

	task := textinput.New()
	task.Placeholder = "Describe the task..."
	task.Prompt = "> "
	task.CharLimit = 400
	task.Focus()

	files := textinput.New()
	files.Placeholder = "Touched files, comma separated (optional)"
	files.Prompt = "> "
	files.CharLimit = 400

	chains := r.Chains()
	items := make([]list.Item, len(chains))
	for i, c := range chains {
		items[i] = chainItem{chain: c}
	}
	chainList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	chainList.Title = "Select Chain"
	chainList.SetShowStatusBar(false)
	chainList.SetFilteringEnabled(true)

	a := &App{
		cfg:            cfg,
		router:         r,
		log:            log,
		state:          stateRoute,
		focus:          focusTask,
		taskInput:      task,
		filesInput:     files,
		chainList:      chainList,
		preferParallel: true,
		statusMsg:      "Type a task to see its plan",
	}
	for _, opt := range opts {
		opt(a)
	}
	a.refresh()
	return a
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update reacts to one message.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.taskInput.Width = max(20, msg.Width/2-8)
		a.filesInput.Width = max(20, msg.Width/2-8)
		a.chainList.SetSize(max(20, msg.Width/2-4), max(8, msg.Height-10))
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "esc":
			if a.state == stateChains {
				a.state = stateRoute
				return a, nil
			}
			return a, tea.Quit
		case "tab":
			if a.state == stateRoute {
				a.toggleFocus()
				return a, nil
			}
		case "ctrl+p":
			a.preferParallel = !a.preferParallel
			a.refresh()
			return a, nil
		case "ctrl+b":
			if a.state == stateRoute {
				a.state = stateChains
				return a, nil
			}
		case "ctrl+x":
			if a.chainName != "" {
				a.chainName = ""
				a.statusMsg = "Chain cleared, back to dynamic analysis"
				a.refresh()
				return a, nil
			}
		case "enter":
			switch a.state {
			case stateChains:
				if item, ok := a.chainList.SelectedItem().(chainItem); ok {
					a.applyChain(item.chain.Name)
				}
				a.state = stateRoute
				return a, nil
			case stateRoute:
				a.refresh()
				a.log.Info("console routed",
					"agents", len(a.result.Agents),
					"phases", len(a.result.Phases),
					"chain", a.result.Chain)
				return a, nil
			}
		}
	}

	var cmds []tea.Cmd
	switch a.state {
	case stateRoute:
		before := a.taskInput.Value() + "\x00" + a.filesInput.Value()
		var cmd tea.Cmd
		if a.focus == focusTask {
			a.taskInput, cmd = a.taskInput.Update(msg)
		} else {
			a.filesInput, cmd = a.filesInput.Update(msg)
		}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if before != a.taskInput.Value()+"\x00"+a.filesInput.Value() {
			a.refresh()
		}
	case stateChains:
		var cmd tea.Cmd
		a.chainList, cmd = a.chainList.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return a, tea.Batch(cmds...)
}

// toggleFocus moves the cursor between the task and files inputs.
func (a *App) toggleFocus() {
	if a.focus == focusTask {
		a.focus = focusFiles
		a.taskInput.Blur()
		a.filesInput.Focus()
		return
	}
	a.focus = focusTask
	a.filesInput.Blur()
	a.taskInput.Focus()
}

// applyChain pins a predefined chain; the plan shows its phases verbatim
// until the chain is cleared.
func (a *App) applyChain(name string) {
	a.chainName = name
	a.statusMsg = "Chain applied: " + name + " (ctrl+x clears it)"
	a.refresh()
	a.log.Info("console chain applied", "chain", name)
}

// refresh reroutes the current inputs and regenerates the task calls.
func (a *App) refresh() {
	task := strings.TrimSpace(a.taskInput.Value())
	a.result = a.router.Route(router.Request{
		Task:           task,
		Files:          parseFiles(a.filesInput.Value()),
		Chain:          a.chainName,
		PreferParallel: a.preferParallel,
	})
	a.calls = taskcall.Generate(a.result, task)
	a.log.Debug("console refreshed",
		"task_len", len(task),
		"agents", len(a.result.Agents),
		"phases", len(a.result.Phases))
}

// parseFiles splits the comma-separated files input into clean paths.
func parseFiles(s string) []string {
	var files []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			files = append(files, p)
		}
	}
	return files
}
