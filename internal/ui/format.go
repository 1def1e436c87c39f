// Package ui holds presentation-neutral formatting shared by the dashboard
// and the one-shot commands: time labels, offsets, sols. No styling here,
// only strings.
package ui

import (
	"fmt"

	"github.com/oxleyk/meridian/internal/zone"
)

// InvalidLabel is rendered for fail-closed Mars projections.
const InvalidLabel = "--:--"

// Civil formats a civil projection as 24-hour "15:04".
func Civil(p zone.Projection) string {
	return fmt.Sprintf("%02d:%02d", p.Hour, p.Minute)
}

// Mars formats a Mars projection as 12-hour time with the MTC suffix and
// sol count: "8:13 PM MTC (Sol 1234)".
func Mars(p zone.Projection) string {
	if p.Hour < 0 {
		return InvalidLabel
	}
	h := p.Hour % 12
	if h == 0 {
		h = 12
	}
	ampm := "AM"
	if p.Hour >= 12 {
		ampm = "PM"
	}
	return fmt.Sprintf("%d:%02d %s MTC (Sol %d)", h, p.Minute, ampm, p.Sol)
}

// Slot formats either projection family.
func Slot(p zone.Projection) string {
	if p.Mars {
		return Mars(p)
	}
	return Civil(p)
}

// Offset formats a UTC offset in minutes as "UTC+5:30" / "UTC-4" / "UTC".
func Offset(minutes int) string {
	if minutes == 0 {
		return "UTC"
	}
	sign := "+"
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("UTC%s%d", sign, h)
	}
	return fmt.Sprintf("UTC%s%d:%02d", sign, h, m)
}

// Weekday names the ISO weekday number (Monday=1 .. Sunday=7).
func Weekday(iso int) string {
	names := [...]string{"", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	if iso < 1 || iso > 7 {
		return "?"
	}
	return names[iso]
}
