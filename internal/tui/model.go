// Package tui renders the job queue in the terminal and turns key presses
// into queue actions.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/progress"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/vmunix/carbon/internal/job"
	"github.com/vmunix/carbon/internal/queue"
)

const (
	actionTimeout = 10 * time.Second
	labelWidth    = 36
	barWidth      = 30
)

// Controller carries out the actions a user can take on the queue. It is
// backed by an in-process scheduler or by the daemon's API.
type Controller interface {
	Submit(ctx context.Context, url string) (string, error)
	Cancel(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	ClearCompleted(ctx context.Context) (int, error)
}

// Options tune a TUI run.
type Options struct {
	// ExitWhenSettled quits once every job has reached a terminal status.
	ExitWhenSettled bool
	Theme           *Theme
}

// snapshotMsg carries a new queue snapshot.
type snapshotMsg queue.Snapshot

// streamClosedMsg reports that the snapshot feed ended.
type streamClosedMsg struct{}

// actionMsg reports the outcome of a key-triggered action.
type actionMsg struct {
	verb string
	id   string
	n    int
	err  error
}

// model is the bubbletea model for the queue view.
type model struct {
	ctrl     Controller
	snaps    <-chan queue.Snapshot
	snap     queue.Snapshot
	loaded   bool
	cursor   int
	selected string
	bar      progress.Model
	input    textinput.Model
	adding   bool
	theme    Theme
	opts     Options
	notice   string
	noticeOK bool
	quitting bool
	done     bool
	lost     bool
}

func newModel(ctrl Controller, snaps <-chan queue.Snapshot, opts Options) model {
	theme := DefaultTheme
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	input := textinput.New()
	input.Prompt = "url: "
	input.Placeholder = "https://..."
	input.SetWidth(60)
	return model{
		ctrl:  ctrl,
		snaps: snaps,
		bar: progress.New(
			progress.WithDefaultBlend(),
			progress.WithWidth(barWidth),
		),
		input: input,
		theme: theme,
		opts:  opts,
	}
}

// Init starts listening for snapshots.
func (m model) Init() tea.Cmd {
	return waitSnapshot(m.snaps)
}

// Update handles messages and returns the updated model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if m.adding {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg.String())

	case tea.PasteMsg:
		if m.adding {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil

	case snapshotMsg:
		m.applySnapshot(queue.Snapshot(msg))
		if m.opts.ExitWhenSettled && len(m.snap.Jobs) > 0 && m.snap.Settled() {
			m.done = true
			return m, tea.Quit
		}
		return m, waitSnapshot(m.snaps)

	case streamClosedMsg:
		m.lost = true
		return m, tea.Quit

	case actionMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("%s failed: %v", msg.verb, msg.err)
			m.noticeOK = false
			return m, nil
		}
		switch msg.verb {
		case "clear":
			m.notice = fmt.Sprintf("cleared %d finished job(s)", msg.n)
		case "add":
			m.notice = fmt.Sprintf("queued %s", shortID(msg.id))
		default:
			m.notice = fmt.Sprintf("%s %s", pastTense(msg.verb), shortID(msg.id))
		}
		m.noticeOK = true
		return m, nil
	}

	return m, nil
}

func (m model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "j", "down":
		m.move(1)
	case "k", "up":
		m.move(-1)
	case "x":
		if id := m.selected; id != "" {
			return m, m.act("cancel", id, func(ctx context.Context) (int, error) {
				return 0, m.ctrl.Cancel(ctx, id)
			})
		}
	case "d":
		if id := m.selected; id != "" {
			return m, m.act("delete", id, func(ctx context.Context) (int, error) {
				return 0, m.ctrl.Delete(ctx, id)
			})
		}
	case "c":
		return m, m.act("clear", "", m.ctrl.ClearCompleted)
	case "a":
		m.adding = true
		m.input.Reset()
		return m, m.input.Focus()
	}
	return m, nil
}

// handleInputKey edits the URL line. Enter submits, esc abandons it.
func (m model) handleInputKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.adding = false
		m.input.Blur()
		return m, nil
	case "enter":
		url := strings.TrimSpace(m.input.Value())
		m.adding = false
		m.input.Blur()
		if url == "" {
			return m, nil
		}
		return m, m.submit(url)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) move(delta int) {
	if len(m.snap.Jobs) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.snap.Jobs)-1)
	m.selected = m.snap.Jobs[m.cursor].ID
}

// applySnapshot replaces the view state and keeps the cursor on the same
// job when it is still listed.
func (m *model) applySnapshot(snap queue.Snapshot) {
	if m.loaded && snap.Version < m.snap.Version {
		return
	}
	m.snap = snap
	m.loaded = true

	if len(snap.Jobs) == 0 {
		m.cursor, m.selected = 0, ""
		return
	}
	for i, j := range snap.Jobs {
		if j.ID == m.selected {
			m.cursor = i
			return
		}
	}
	m.cursor = min(m.cursor, len(snap.Jobs)-1)
	m.selected = snap.Jobs[m.cursor].ID
}

// submit queues url off the update loop.
func (m model) submit(url string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		id, err := m.ctrl.Submit(ctx, url)
		return actionMsg{verb: "add", id: id, err: err}
	}
}

// act runs fn off the update loop.
func (m model) act(verb, id string, fn func(context.Context) (int, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		n, err := fn(ctx)
		return actionMsg{verb: verb, id: id, n: n, err: err}
	}
}

// View renders the queue display.
func (m model) View() tea.View {
	return tea.NewView(m.render())
}

func (m model) render() string {
	if !m.loaded {
		return "Waiting for queue state...\n"
	}

	var b strings.Builder
	counts := m.snap.Counts()
	header := fmt.Sprintf("carbon  %d job(s)  %d active  limit %d  %d done  %d failed",
		len(m.snap.Jobs), m.snap.Active, m.snap.MaxConcurrent,
		counts[job.StatusCompleted], counts[job.StatusFailed])
	b.WriteString(m.theme.titleStyle().Render(header))
	b.WriteString("\n\n")

	if len(m.snap.Jobs) == 0 {
		b.WriteString(m.theme.hintStyle().Render("  queue is empty"))
		b.WriteString("\n")
	}
	for i, j := range m.snap.Jobs {
		b.WriteString(m.renderRow(j, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.notice != "" {
		if m.noticeOK {
			b.WriteString(m.theme.hintStyle().Render(m.notice))
		} else {
			b.WriteString(m.theme.errorStyle().Render(m.notice))
		}
		b.WriteString("\n")
	}
	if m.lost {
		b.WriteString(m.theme.errorStyle().Render("lost connection to the queue"))
		b.WriteString("\n")
	}
	if m.adding {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(m.theme.hintStyle().Render("enter queue  esc cancel"))
	} else {
		b.WriteString(m.theme.hintStyle().Render("a add  j/k select  x cancel  d delete  c clear  q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m model) renderRow(j job.Job, selected bool) string {
	pointer := "  "
	if selected {
		pointer = m.theme.cursorStyle().Render("> ")
	}
	style := m.theme.statusStyle(j.Status)
	line := fmt.Sprintf("%s%s %-*s %-11s ", pointer, style.Render(glyph(j.Status)),
		labelWidth, truncate(Label(j), labelWidth), style.Render(string(j.Status)))

	switch j.Status {
	case job.StatusDownloading, job.StatusConverting:
		line += m.bar.ViewAs(j.Progress.Percent/100) + fmt.Sprintf(" %5.1f%%", j.Progress.Percent)
		if j.Progress.Speed != "" {
			line += "  " + j.Progress.Speed
		}
		if j.Progress.ETA != "" {
			line += "  eta " + j.Progress.ETA
		}
	case job.StatusCompleted:
		line += m.theme.hintStyle().Render(j.OutputPath)
	case job.StatusFailed:
		line += m.theme.errorStyle().Render(j.Error)
	}
	return line
}

// waitSnapshot blocks on the next snapshot from ch.
func waitSnapshot(ch <-chan queue.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

// Label is the display name for a job: its title once known, else its URL.
func Label(j job.Job) string {
	if j.Title != "" {
		return j.Title
	}
	return j.URL
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}

func pastTense(verb string) string {
	switch verb {
	case "cancel":
		return "cancelled"
	case "delete":
		return "deleted"
	default:
		return verb
	}
}

// Run shows the interactive queue view until the user quits or, with
// ExitWhenSettled, until every job is terminal. It returns the last
// snapshot seen.
func Run(ctrl Controller, snaps <-chan queue.Snapshot, opts Options) (queue.Snapshot, error) {
	p := tea.NewProgram(newModel(ctrl, snaps, opts))

	finalModel, err := p.Run()
	if err != nil {
		return queue.Snapshot{}, fmt.Errorf("tui: %w", err)
	}
	m, ok := finalModel.(model)
	if !ok {
		return queue.Snapshot{}, nil
	}
	if m.lost {
		return m.snap, ErrStreamClosed
	}
	return m.snap, nil
}
