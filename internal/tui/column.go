package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/oxleyk/meridian/internal/engine"
	"github.com/oxleyk/meridian/internal/feeds"
	"github.com/oxleyk/meridian/internal/ui"
	"github.com/oxleyk/meridian/internal/zone"
)

// Column is one zone's independently scrollable slot list: a viewport over
// one rendered line per slot, plus a cursor used when the column has focus.
// Slot index and viewport line number are identical, which keeps re-centering
// a plain offset computation.
type Column struct {
	Zone   zone.Zone
	VP     viewport.Model
	Cursor int

	views []engine.SlotView
}

// NewColumn creates a column for a zone.
func NewColumn(z zone.Zone, width, height int) *Column {
	vp := viewport.New(width, height)
	vp.SetContent("")
	return &Column{Zone: z, VP: vp}
}

// SetSize updates the viewport dimensions. Two lines are reserved for the
// column title and meta row inside the bordered box.
func (c *Column) SetSize(width, height int) {
	c.VP.Width = width
	c.VP.Height = height
}

// SetViews replaces the column's slot views for this tick and re-renders
// the viewport content, preserving the scroll offset.
func (c *Column) SetViews(views []engine.SlotView, focused bool) {
	c.views = views
	if c.Cursor >= len(views) {
		c.Cursor = len(views) - 1
	}
	if c.Cursor < 0 {
		c.Cursor = 0
	}
	offset := c.VP.YOffset
	c.VP.SetContent(c.renderRows(focused))
	c.VP.SetYOffset(offset)
}

// CenterOn scrolls the viewport so the given slot index sits in the middle,
// clamped at the list edges, and moves the cursor with it.
func (c *Column) CenterOn(idx int) {
	if idx < 0 || idx >= len(c.views) {
		return
	}
	c.Cursor = idx
	c.VP.SetYOffset(idx - c.VP.Height/2)
}

// MoveCursor shifts the cursor by delta, clamping, and keeps it visible.
// Returns the resulting viewport offset for scroll-activity reporting.
func (c *Column) MoveCursor(delta int) int {
	c.Cursor += delta
	if c.Cursor < 0 {
		c.Cursor = 0
	}
	if c.Cursor >= len(c.views) {
		c.Cursor = len(c.views) - 1
	}
	if c.Cursor < c.VP.YOffset {
		c.VP.SetYOffset(c.Cursor)
	}
	if c.Cursor >= c.VP.YOffset+c.VP.Height {
		c.VP.SetYOffset(c.Cursor - c.VP.Height + 1)
	}
	return c.VP.YOffset
}

// CursorView returns the slot view under the cursor.
func (c *Column) CursorView() (engine.SlotView, bool) {
	if c.Cursor < 0 || c.Cursor >= len(c.views) {
		return engine.SlotView{}, false
	}
	return c.views[c.Cursor], true
}

// renderRows renders one line per slot.
func (c *Column) renderRows(focused bool) string {
	var b strings.Builder
	for i, v := range c.views {
		b.WriteString(c.renderRow(i, v, focused))
		if i < len(c.views)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (c *Column) renderRow(i int, v engine.SlotView, focused bool) string {
	cursor := "  "
	if focused && i == c.Cursor {
		cursor = cursorIndicator + " "
	}

	label := ui.Slot(v.Proj)
	marks := ""
	if v.Flags.NearDST && !v.Proj.Mars {
		marks += " " + iconDSTWarn
	}
	if v.Flags.Weekend {
		marks += " " + iconWeekend
	}
	if v.Flags.Highlighted {
		label = iconPinned + " " + label
	}
	if v.Flags.DateBoundary {
		label = iconBoundary + " " + label
	}

	line := cursor + label + marks
	if w := c.VP.Width; w > 0 && lipgloss.Width(line) > w {
		line = ansi.Truncate(line, w, "")
	}

	style := styleRow
	switch {
	case v.Proj.Mars && v.Proj.Hour < 0:
		style = styleRowInvalid
	case v.Flags.Highlighted:
		style = styleRowHighlight
	case v.Flags.Current:
		style = styleRowCurrent
	case v.Flags.DateBoundary:
		style = styleRowBoundary
	case v.Flags.Night:
		style = styleRowNight
	case v.Flags.Weekend:
		style = styleRowWeekend
	}
	if v.Flags.NearDST && !v.Flags.Highlighted && !v.Flags.Current && !v.Proj.Mars {
		style = styleRowDSTWarn
	}
	return style.Render(line)
}

// Title renders the column header: zone name, then a meta line with either
// the civil offset/weekday/weather or the Mars sol for the reference instant.
// weather is nil for zones the weather collaborator does not track.
func (c *Column) Title(refProj zone.Projection, weather *feeds.Result, focused bool) string {
	titleStyle := styleColTitle
	if c.Zone.Kind() == zone.KindMars {
		titleStyle = styleColTitleMars
	}
	if focused {
		titleStyle = styleColTitleFocus
	}

	name := c.Zone.DisplayName()
	if c.Zone.Country != "" {
		name += " · " + c.Zone.Country
	}

	var meta string
	if refProj.Mars {
		meta = ui.Mars(refProj)
	} else {
		meta = fmt.Sprintf("%s %s %s", ui.Civil(refProj), ui.Weekday(refProj.Weekday), ui.Offset(refProj.OffsetMinutes))
		if refProj.DST {
			meta += " DST"
		}
	}
	if badge := weatherBadge(weather); badge != "" {
		meta += "  " + badge
	}
	return titleStyle.Render(name) + "\n" + styleColMeta.Render(meta)
}

// View renders the full bordered column.
func (c *Column) View(refProj zone.Projection, weather *feeds.Result, focused bool) string {
	border := styleColBorder
	if focused {
		border = styleColBorderFocus
	}
	body := c.Title(refProj, weather, focused) + "\n" + c.VP.View()
	return border.Width(c.VP.Width).Render(body)
}

// weatherBadge renders the tagged weather result. Loading and Failed results
// degrade to placeholders; raw errors never reach a column.
func weatherBadge(r *feeds.Result) string {
	if r == nil {
		return ""
	}
	switch r.Status {
	case feeds.StatusReady:
		return fmt.Sprintf("%.0f°C %s", r.Report.TempC, r.Report.Summary)
	case feeds.StatusLoading:
		return "…"
	default:
		return "–"
	}
}
