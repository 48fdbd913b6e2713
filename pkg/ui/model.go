package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/wellpick/pkg/config"
	"github.com/vanderheijden86/wellpick/pkg/debug"
	"github.com/vanderheijden86/wellpick/pkg/loader"
	"github.com/vanderheijden86/wellpick/pkg/tree"
	"github.com/vanderheijden86/wellpick/pkg/watcher"
)

// clipboardWriteAll is swapped out in tests.
var clipboardWriteAll = clipboard.WriteAll

// Result is how the picker session ended.
type Result int

const (
	Pending Result = iota
	Confirmed
	Cancelled
)

// DatasetChangedMsg carries a freshly loaded dataset after the file changed.
type DatasetChangedMsg struct {
	Roots []*tree.HierNode
}

// DatasetErrorMsg reports a failed reload or a watch error. The current tree
// is kept.
type DatasetErrorMsg struct {
	Err error
}

// WatchFileCmd waits for the next change to the watched dataset and reloads
// it off the UI goroutine.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-w.Changed():
			roots, err := loader.LoadFile(w.Path())
			if err != nil {
				return DatasetErrorMsg{Err: err}
			}
			return DatasetChangedMsg{Roots: roots}
		case err := <-w.Errors():
			return DatasetErrorMsg{Err: err}
		}
	}
}

// PickerModel is the bubbletea model of the well picker: a filter input over
// a dropdown of checkable tree rows.
type PickerModel struct {
	picker *tree.Picker
	cfg    config.Config
	theme  Theme

	input   textinput.Model
	open    bool
	cursor  int
	current tree.NodeID
	offset  int

	width  int
	height int

	watcher       *watcher.Watcher
	statusMsg     string
	statusIsError bool
	result        Result
}

// NewPickerModel creates a picker over p. The dropdown starts open.
func NewPickerModel(p *tree.Picker, cfg config.Config, theme Theme) PickerModel {
	ti := textinput.New()
	ti.Placeholder = "type a well name..."
	ti.Prompt = "filter: "
	ti.CharLimit = 64
	ti.SetValue(p.Store().FilterText())
	ti.Focus()

	m := PickerModel{
		picker: p,
		cfg:    cfg,
		theme:  theme,
		input:  ti,
		open:   true,
	}
	m.syncCursor()
	return m
}

// SetWatcher makes the model reload the dataset when w reports a change.
// Must be called before the program starts.
func (m *PickerModel) SetWatcher(w *watcher.Watcher) {
	m.watcher = w
}

// SetSize updates the terminal dimensions.
func (m *PickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = clamp(m.boxWidth()-len(m.input.Prompt)-6, 8, 200)
}

// Result returns how the session ended.
func (m PickerModel) Result() Result { return m.result }

// SelectedNames returns the selected names in tree order.
func (m PickerModel) SelectedNames() []string { return m.picker.SelectedNames() }

// Summary returns the selection summary shown in the footer.
func (m PickerModel) Summary() string {
	return m.picker.Summary(m.cfg.Picker.Separator, m.cfg.Picker.Placeholder)
}

// IsOpen reports whether the dropdown is shown.
func (m PickerModel) IsOpen() bool { return m.open }

// CursorNode returns the row under the cursor.
func (m PickerModel) CursorNode() (*tree.FlatNode, bool) {
	rows := m.picker.Controller().Visible()
	if len(rows) == 0 {
		return nil, false
	}
	return rows[clamp(m.cursor, 0, len(rows)-1)], true
}

// Status returns the status line and whether it reports an error.
func (m PickerModel) Status() (string, bool) { return m.statusMsg, m.statusIsError }

func (m PickerModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.watcher != nil {
		cmds = append(cmds, WatchFileCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.syncCursor()
		return m, nil

	case DatasetChangedMsg:
		// IDs are reassigned on reload; the cursor follows its name path.
		cursorKey, hadCursor := m.picker.Store().PathKeys()[m.current]
		m.picker.Reload(msg.Roots)
		m.current = 0
		if hadCursor {
			for id, key := range m.picker.Store().PathKeys() {
				if key == cursorKey {
					m.current = id
					break
				}
			}
		}
		m.syncCursor()
		m.setStatus(fmt.Sprintf("Reloaded %d nodes", tree.Count(msg.Roots)), false)
		return m, m.rewatch()

	case DatasetErrorMsg:
		debug.Log("ui: dataset error: %v", msg.Err)
		text := msg.Err.Error()
		if errors.Is(msg.Err, watcher.ErrFileRemoved) {
			text = "Dataset file was removed; keeping the current tree"
		}
		m.setStatus(text, true)
		return m, m.rewatch()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PickerModel) rewatch() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return WatchFileCmd(m.watcher)
}

func (m PickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.picker.Controller()

	switch msg.String() {
	case "ctrl+c":
		m.result = Cancelled
		return m, tea.Quit

	case "esc":
		if m.open {
			m.open = false
			return m, nil
		}
		m.result = Cancelled
		return m, tea.Quit

	case "enter":
		m.result = Confirmed
		return m, tea.Quit

	case "up", "ctrl+p":
		if !m.open {
			m.open = true
			return m, nil
		}
		m.moveCursor(-1)
		return m, nil

	case "down", "ctrl+n":
		if !m.open {
			m.open = true
			return m, nil
		}
		m.moveCursor(1)
		return m, nil

	case "pgup":
		m.moveCursor(-m.maxVisible())
		return m, nil

	case "pgdown":
		m.moveCursor(m.maxVisible())
		return m, nil

	case "right":
		if node, ok := m.CursorNode(); ok && m.open && node.Expandable {
			if !ctrl.IsExpanded(node.ID) {
				ctrl.Expand(node.ID)
			} else {
				m.moveCursor(1)
			}
			m.syncCursor()
		}
		return m, nil

	case "left":
		if node, ok := m.CursorNode(); ok && m.open {
			if node.Expandable && ctrl.IsExpanded(node.ID) {
				ctrl.Collapse(node.ID)
			} else if parent, ok := ctrl.ParentOf(node.ID); ok {
				m.current = parent
			}
			m.syncCursor()
		}
		return m, nil

	case " ", "tab":
		if node, ok := m.CursorNode(); ok && m.open {
			ctrl.Toggle(node.ID)
		}
		return m, nil

	case "ctrl+e":
		ctrl.ExpandAll()
		m.syncCursor()
		return m, nil

	case "ctrl+w":
		ctrl.CollapseAll()
		m.syncCursor()
		return m, nil

	case "ctrl+o":
		m.open = !m.open
		return m, nil

	case "ctrl+x":
		ctrl.ClearSelection()
		m.setStatus("Selection cleared", false)
		return m, nil

	case "ctrl+y":
		summary := m.Summary()
		if err := clipboardWriteAll(summary); err != nil {
			m.setStatus(fmt.Sprintf("Clipboard error: %v", err), true)
		} else {
			m.setStatus(fmt.Sprintf("Copied %d selected", ctrl.SelectedCount()), false)
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.picker.SetFilterText(after)
		m.open = true
		m.cursor, m.current, m.offset = 0, 0, 0
		m.syncCursor()
	}
	return m, cmd
}

func (m *PickerModel) setStatus(text string, isError bool) {
	m.statusMsg = text
	m.statusIsError = isError
}

func (m *PickerModel) moveCursor(delta int) {
	rows := m.picker.Controller().Visible()
	if len(rows) == 0 {
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, len(rows)-1)
	m.current = rows[m.cursor].ID
	m.syncCursor()
}

// syncCursor re-resolves the cursor after the visible rows changed. The
// cursor follows its node when it is still visible; otherwise it stays at
// the same index, clamped.
func (m *PickerModel) syncCursor() {
	rows := m.picker.Controller().Visible()
	if len(rows) == 0 {
		m.cursor, m.current, m.offset = 0, 0, 0
		return
	}
	found := false
	if m.current != 0 {
		for i, row := range rows {
			if row.ID == m.current {
				m.cursor = i
				found = true
				break
			}
		}
	}
	if !found {
		m.cursor = clamp(m.cursor, 0, len(rows)-1)
		m.current = rows[m.cursor].ID
	}

	visible := m.maxVisible()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	m.offset = clamp(m.offset, 0, max(len(rows)-visible, 0))
}

func (m PickerModel) maxVisible() int {
	rows := m.cfg.Picker.MaxVisible
	if rows < config.MinVisibleRows {
		rows = config.MinVisibleRows
	}
	// Title, input box, dropdown border, summary, status and help.
	if m.height > 0 && m.height-10 < rows {
		rows = max(m.height-10, config.MinVisibleRows)
	}
	return rows
}

func (m PickerModel) boxWidth() int {
	if m.width == 0 {
		return 60
	}
	return clamp(m.width-2, MinBoxWidth, 100)
}

func (m PickerModel) View() string {
	t := m.theme
	width := m.boxWidth()

	var lines []string
	lines = append(lines, t.Title.Render("Select wells"))
	lines = append(lines, t.Input.Width(width-2).Render(m.input.View()))

	if m.open {
		lines = append(lines, m.viewDropdown(width))
	}

	summary := m.Summary()
	count := m.picker.Controller().SelectedCount()
	if count == 0 {
		lines = append(lines, t.Placeholder.Render(truncateRunesHelper(summary, width, "…")))
	} else {
		label := fmt.Sprintf("Selected (%d): ", count)
		lines = append(lines, t.MutedText.Render(label)+
			t.Summary.Render(truncateRunesHelper(summary, width-len(label), "…")))
	}

	if m.statusMsg != "" {
		style := t.Status
		if m.statusIsError {
			style = t.Error
		}
		lines = append(lines, style.Render(truncateRunesHelper(m.statusMsg, width, "…")))
	}

	lines = append(lines, t.Help.Render(m.helpLine(width)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m PickerModel) viewDropdown(width int) string {
	t := m.theme
	rows := m.picker.Controller().Visible()
	inner := width - 4

	var lines []string
	if len(rows) == 0 {
		lines = append(lines, t.MutedText.Render("No matching wells"))
	} else {
		visible := m.maxVisible()
		end := min(m.offset+visible, len(rows))
		for i := m.offset; i < end; i++ {
			lines = append(lines, m.renderRow(rows[i], i == m.cursor, inner))
		}
		if len(rows) > visible {
			lines = append(lines, t.MutedText.Render(fmt.Sprintf("(%d/%d)", m.cursor+1, len(rows))))
		}
	}
	return t.Dropdown.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (m PickerModel) helpLine(width int) string {
	help := "↑/↓ move • ←/→ fold • space toggle • ^e/^w expand/collapse all • ^y copy • ^x clear • enter confirm • esc close"
	return truncateRunesHelper(help, width, "…")
}
