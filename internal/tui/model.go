package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oxleyk/meridian/internal/engine"
	"github.com/oxleyk/meridian/internal/feeds"
	"github.com/oxleyk/meridian/internal/highlight"
	"github.com/oxleyk/meridian/internal/zone"
)

// ReloadFunc re-resolves the persisted zone set after an on-disk change.
// It returns the zones that should now be displayed, already validated.
type ReloadFunc func() ([]zone.Zone, error)

// AppModel is the root BubbleTea model: one column per displayed zone, a
// header with the reference instant and highlight countdown, and a footer
// of key hints. All engine mutation happens here, on the single Update
// goroutine, so activity always lands before the tick that follows it.
type AppModel struct {
	Eng     *engine.Engine
	Cols    []*Column
	Focus   int
	Keys    KeyMap
	Reload  ReloadFunc
	Width   int
	Height  int
	Weather map[string]feeds.Result
	ErrMsg  string

	quitting bool
}

// NewAppModel creates the root model for an engine whose zones are already
// registered.
func NewAppModel(eng *engine.Engine) AppModel {
	m := AppModel{
		Eng:     eng,
		Keys:    DefaultKeyMap(),
		Weather: make(map[string]feeds.Result),
	}
	m.rebuildColumns()
	return m
}

// Init starts the tick loop.
func (m AppModel) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every second. The message
// carries the wake time, so a throttled terminal still advances the engine
// by real elapsed time.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return MsgTick{Time: t}
	})
}

// Update handles all messages.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.layout()
		m.refresh()
		return m, nil

	case MsgTick:
		m.Eng.Advance(msg.Time)
		m.applyScrollRequests()
		m.refresh()
		return m, tickCmd()

	case MsgZonesChanged:
		m.reloadZones()
		m.refresh()
		return m, nil

	case MsgWeather:
		m.Weather[msg.ZoneID] = msg.Result
		return m, nil

	case MsgError:
		m.ErrMsg = msg.Msg
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Left):
		m.Eng.Activity()
		if m.Focus > 0 {
			m.Focus--
		}
		m.refresh()

	case key.Matches(msg, m.Keys.Right):
		m.Eng.Activity()
		if m.Focus < len(m.Cols)-1 {
			m.Focus++
		}
		m.refresh()

	case key.Matches(msg, m.Keys.Up):
		m.scrollFocused(-1)

	case key.Matches(msg, m.Keys.Down):
		m.scrollFocused(1)

	case key.Matches(msg, m.Keys.PageUp):
		m.scrollFocused(-m.pageSize())

	case key.Matches(msg, m.Keys.PageDown):
		m.scrollFocused(m.pageSize())

	case key.Matches(msg, m.Keys.Select):
		m.Eng.Activity()
		if col, ok := m.focusedCol(); ok {
			if v, ok := col.CursorView(); ok {
				m.Eng.Select(v.Instant)
				m.applyScrollRequests()
			}
		}
		m.refresh()

	case key.Matches(msg, m.Keys.Clear):
		m.Eng.ClearHighlight()
		m.refresh()

	case key.Matches(msg, m.Keys.Reset):
		m.Eng.Activity()

	case key.Matches(msg, m.Keys.Now):
		m.Eng.Activity()
		idx := m.Eng.Sequence().FloorIndex(m.Eng.Reference())
		for _, c := range m.Cols {
			c.CenterOn(idx)
		}
		m.refresh()
	}
	return m, nil
}

// scrollFocused moves the focused column's cursor: a manual scroll, so the
// zone becomes user-active and the highlight countdown resets.
func (m *AppModel) scrollFocused(delta int) {
	col, ok := m.focusedCol()
	if !ok {
		return
	}
	offset := col.MoveCursor(delta)
	m.Eng.UserScroll(col.Zone.ID, offset)
	m.Eng.Activity()
	m.refresh()
}

func (m *AppModel) focusedCol() (*Column, bool) {
	if m.Focus < 0 || m.Focus >= len(m.Cols) {
		return nil, false
	}
	return m.Cols[m.Focus], true
}

func (m *AppModel) pageSize() int {
	if col, ok := m.focusedCol(); ok && col.VP.Height > 1 {
		return col.VP.Height - 1
	}
	return 10
}

// applyScrollRequests drains the engine's pending re-centering requests and
// applies them to the matching columns.
func (m *AppModel) applyScrollRequests() {
	for _, req := range m.Eng.TakeScrollRequests() {
		for _, c := range m.Cols {
			if c.Zone.ID == req.ZoneID {
				c.CenterOn(req.Index)
				break
			}
		}
	}
}

// reloadZones re-resolves the display set through the reload hook and diffs
// it against the engine: removed zones are unregistered, new ones
// registered, and columns rebuilt in the new order.
func (m *AppModel) reloadZones() {
	if m.Reload == nil {
		return
	}
	zones, err := m.Reload()
	if err != nil {
		m.ErrMsg = err.Error()
		return
	}

	want := make(map[string]bool, len(zones))
	for _, z := range zones {
		want[z.ID] = true
	}
	for _, z := range m.Eng.Zones() {
		if !want[z.ID] {
			m.Eng.UnregisterZone(z.ID)
		}
	}
	current := make(map[string]bool)
	for _, z := range m.Eng.Zones() {
		current[z.ID] = true
	}
	for _, z := range zones {
		if !current[z.ID] {
			if err := m.Eng.RegisterZone(z); err != nil {
				m.ErrMsg = err.Error()
			}
		}
	}
	m.rebuildColumns()
	m.layout()
}

// rebuildColumns recreates the column list from the engine's zone order,
// preserving scroll state for zones that survive.
func (m *AppModel) rebuildColumns() {
	old := make(map[string]*Column, len(m.Cols))
	for _, c := range m.Cols {
		old[c.Zone.ID] = c
	}
	zones := m.Eng.Zones()
	cols := make([]*Column, 0, len(zones))
	for _, z := range zones {
		if c, ok := old[z.ID]; ok {
			cols = append(cols, c)
			continue
		}
		cols = append(cols, NewColumn(z, 24, 20))
	}
	m.Cols = cols
	if m.Focus >= len(cols) {
		m.Focus = len(cols) - 1
	}
	if m.Focus < 0 {
		m.Focus = 0
	}
}

// layout divides the window among the columns.
func (m *AppModel) layout() {
	if len(m.Cols) == 0 || m.Width <= 0 {
		return
	}
	// Border takes 2 columns and 2 rows per box; header, title block and
	// footer take fixed rows.
	colWidth := m.Width/len(m.Cols) - 3
	if colWidth < 16 {
		colWidth = 16
	}
	colHeight := m.Height - 8
	if colHeight < 4 {
		colHeight = 4
	}
	for _, c := range m.Cols {
		c.SetSize(colWidth, colHeight)
	}
}

// refresh re-renders every column's rows for the current tick.
func (m *AppModel) refresh() {
	for i, c := range m.Cols {
		views, err := m.Eng.Column(c.Zone.ID)
		if err != nil {
			continue
		}
		c.SetViews(views, i == m.Focus)
	}
}

// View renders the dashboard.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}
	if len(m.Cols) == 0 {
		return styleHeader.Render("meridian") + "\n\n  no zones configured — try: meridian zones add Europe/London\n"
	}

	header := m.headerView()
	cols := make([]string, len(m.Cols))
	for i, c := range m.Cols {
		refProj, err := m.Eng.Project(m.Eng.Reference(), c.Zone.ID)
		if err != nil {
			continue
		}
		var weather *feeds.Result
		if r, ok := m.Weather[c.Zone.ID]; ok {
			weather = &r
		}
		cols[i] = c.View(refProj, weather, i == m.Focus)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	return header + "\n" + body + "\n" + m.footerView()
}

func (m AppModel) headerView() string {
	ref := m.Eng.Reference()
	left := styleHeaderLabel.Render("meridian") + "  " +
		ref.Format("Mon Jan 2 15:04:05")

	hl := m.Eng.Highlight()
	right := ""
	if hl.State == highlight.Active {
		right = styleHeaderPin.Render(fmt.Sprintf("%s pinned %s · clears in %ds",
			iconPinned, hl.Selected.Format("15:04"), hl.Remaining))
	}
	line := left
	if right != "" {
		line += "   " + right
	}
	return styleHeader.Render(line)
}

func (m AppModel) footerView() string {
	hints := []string{
		m.Keys.Left.Help().Key + "/" + m.Keys.Right.Help().Key + " zones",
		m.Keys.Up.Help().Key + "/" + m.Keys.Down.Help().Key + " scroll",
		m.Keys.Select.Help().Key + " " + m.Keys.Select.Help().Desc,
		m.Keys.Clear.Help().Key + " " + m.Keys.Clear.Help().Desc,
		m.Keys.Now.Help().Key + " " + m.Keys.Now.Help().Desc,
		m.Keys.Quit.Help().Key + " " + m.Keys.Quit.Help().Desc,
	}
	line := strings.Join(hints, " · ")
	if m.ErrMsg != "" {
		line += "   " + styleRowDSTWarn.Render(m.ErrMsg)
	}
	return styleFooter.Render(line)
}
