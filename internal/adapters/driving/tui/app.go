// Package tui implements the live archive status view following the Elm
// architecture. The view refreshes itself when the harvesting pipeline
// writes new observations into the archive.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/skycatch/internal/core/domain"
	"github.com/custodia-labs/skycatch/internal/core/ports/driving"
)

// keyMap defines the status view keybindings.
type keyMap struct {
	Refresh key.Binding
	Update  key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Update: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "recompute"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Messages.
type (
	// statsMsg carries freshly loaded statistics rows.
	statsMsg struct {
		rows []domain.SourceStats
		err  error
	}

	// updatedMsg reports the outcome of a statistics recompute.
	updatedMsg struct {
		err error
	}

	// archiveChangedMsg is sent by the ingest watcher after new
	// observations settle.
	archiveChangedMsg struct{}
)

// App is the archive status view. It implements tea.Model.
type App struct {
	// stats provides the statistics rows.
	stats driving.StatsService

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the view styles.
	styles *Styles

	// keys holds the keybindings.
	keys keyMap

	// table presents the per-source rows.
	table table.Model

	// spinner runs while loading or recomputing.
	spinner spinner.Model

	// loading and updating track in-flight work.
	loading  bool
	updating bool

	// refreshed is when rows were last loaded.
	refreshed time.Time

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates the first WindowSizeMsg arrived.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the status view over a stats service.
func NewApp(stats driving.StatsService) (*App, error) {
	if stats == nil {
		return nil, fmt.Errorf("creating app: stats service is required")
	}

	s := DefaultStyles()

	columns := []table.Column{
		{Title: "Source", Width: 32},
		{Title: "Count", Width: 12},
		{Title: "Nights", Width: 8},
		{Title: "First", Width: 10},
		{Title: "Last", Width: 10},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
	)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		stats:   stats,
		ctx:     context.Background(),
		styles:  s,
		keys:    defaultKeyMap(),
		table:   t,
		spinner: sp,
		loading: true,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("skycatch - Archive Status"),
		a.spinner.Tick,
		a.loadStats(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.table.SetWidth(msg.Width - 4)
		a.table.SetHeight(msg.Height - 6)
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit

		case key.Matches(msg, a.keys.Refresh):
			a.loading = true
			a.err = nil
			return a, tea.Batch(a.spinner.Tick, a.loadStats())

		case key.Matches(msg, a.keys.Update):
			if a.updating {
				return a, nil
			}
			a.updating = true
			a.err = nil
			return a, tea.Batch(a.spinner.Tick, a.updateStats())
		}

		var cmd tea.Cmd
		a.table, cmd = a.table.Update(msg)
		return a, cmd

	case statsMsg:
		a.loading = false
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.refreshed = time.Now()
		a.table.SetRows(statsRows(msg.rows))
		return a, nil

	case updatedMsg:
		a.updating = false
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.loading = true
		return a, a.loadStats()

	case archiveChangedMsg:
		// New observations landed: recompute, then reload.
		if a.updating {
			return a, nil
		}
		a.updating = true
		return a, tea.Batch(a.spinner.Tick, a.updateStats())

	case spinner.TickMsg:
		if !a.loading && !a.updating {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	view := a.styles.Title.Render("Archive Status") + "\n\n"
	view += a.styles.Border.Render(a.table.View()) + "\n"

	switch {
	case a.err != nil:
		view += a.styles.Error.Render("Error: "+a.err.Error()) + "\n"
	case a.updating:
		view += a.spinner.View() + " recomputing statistics\n"
	case a.loading:
		view += a.spinner.View() + " loading\n"
	default:
		view += a.styles.Muted.Render(
			"refreshed "+a.refreshed.Format("15:04:05")) + "\n"
	}

	view += a.styles.Help.Render("r refresh - u recompute - q quit")
	return view
}

// loadStats fetches the statistics rows.
func (a *App) loadStats() tea.Cmd {
	return func() tea.Msg {
		rows, err := a.stats.SourceStatistics(a.ctx)
		return statsMsg{rows: rows, err: err}
	}
}

// updateStats recomputes statistics for every source.
func (a *App) updateStats() tea.Cmd {
	return func() tea.Msg {
		return updatedMsg{err: a.stats.UpdateStatistics(a.ctx, "")}
	}
}

// statsRows converts statistics rows for the table component.
func statsRows(stats []domain.SourceStats) []table.Row {
	rows := make([]table.Row, 0, len(stats))
	for _, s := range stats {
		rows = append(rows, table.Row{
			s.Name,
			strconv.FormatInt(s.Count, 10),
			strconv.FormatInt(s.Nights, 10),
			boundDate(s.StartDate),
			boundDate(s.StopDate),
		})
	}
	return rows
}

func boundDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}
