// Package mars converts Earth instants into Mars timekeeping: Mars Sol Date,
// Coordinated Mars Time, and Local Mean Solar Time for a fixed longitude.
// The conversion chain follows the conventional MSD formulation; the exact
// constants matter because sol counts for real missions must line up with
// the published mission clocks.
package mars

import (
	"math"
	"time"

	"github.com/oxleyk/meridian/internal/zone"
)

const (
	// ttOffsetSeconds converts Universal Time to Terrestrial Time. The sum
	// of the current leap-second total and the relativistic correction,
	// treated as a constant rather than recomputed from a leap-second table.
	ttOffsetSeconds = 69.184

	// msdEpochJD anchors the Mars Sol Date to its conventional epoch.
	msdEpochJD = 2451549.5

	// earthDaysPerSol is the ratio of one Mars solar day to one Earth day.
	earthDaysPerSol = 1.0274912517

	msdOffset     = 44796.0
	msdCorrection = 0.00096

	// degreesPerHour converts longitude to solar time offset.
	degreesPerHour = 15.0
)

// JulianDateUT converts an instant to a Julian Date in Universal Time using
// the Gregorian day-number formula plus the fractional day since midnight UT.
func JulianDateUT(t time.Time) float64 {
	u := t.UTC()
	y, m, d := u.Date()
	jdn := gregorianJDN(y, int(m), d)
	frac := (float64(u.Hour())*3600 + float64(u.Minute())*60 + float64(u.Second()) +
		float64(u.Nanosecond())/1e9) / 86400.0
	// jdn is the Julian day number at noon UT; midnight of the same civil
	// date is half a day earlier.
	return float64(jdn) - 0.5 + frac
}

// gregorianJDN is the standard integer day-number algorithm, valid for the
// Gregorian calendar.
func gregorianJDN(y, m, d int) int64 {
	a := int64(14-m) / 12
	yy := int64(y) + 4800 - a
	mm := int64(m) + 12*a - 3
	return int64(d) + (153*mm+2)/5 + 365*yy + yy/4 - yy/100 + yy/400 - 32045
}

// MSD returns the Mars Sol Date for an instant: a running count of Mars
// solar days since the conventional epoch.
func MSD(t time.Time) float64 {
	jdTT := JulianDateUT(t) + ttOffsetSeconds/86400.0
	return (jdTT-msdEpochJD)/earthDaysPerSol + msdOffset - msdCorrection
}

// MTCHours returns Coordinated Mars Time (mean solar time at Mars longitude
// zero) in fractional hours, 0 <= h < 24.
func MTCHours(t time.Time) float64 {
	return mod24(MSD(t) * 24)
}

// LMSTHours returns Local Mean Solar Time in fractional hours for a fixed
// longitude in degrees east of the Mars prime meridian.
func LMSTHours(t time.Time, longitudeEastDeg float64) float64 {
	return mod24(MTCHours(t) - longitudeEastDeg/degreesPerHour)
}

func mod24(h float64) float64 {
	h = math.Mod(h, 24)
	if h < 0 {
		h += 24
	}
	return h
}

// splitHours decomposes fractional hours into integer hour/minute/second.
// Seconds are rounded; carries are applied seconds into minutes, minutes
// into hours, and the hour wraps mod 24, in that order.
func splitHours(h float64) (hh, mm, ss int) {
	hh = int(h)
	frac := (h - float64(hh)) * 60
	mm = int(frac)
	ss = int(math.Round((frac - float64(mm)) * 60))
	if ss == 60 {
		ss = 0
		mm++
	}
	if mm == 60 {
		mm = 0
		hh++
	}
	if hh == 24 {
		hh = 0
	}
	return hh, mm, ss
}

// Project maps an instant into a Mars zone's local representation. For
// landing-site zones the sol count is relative to the rover's landing
// instant (sol 0 on landing day); plain Mars zones count sols from the
// shared solEpoch anchor so every column agrees on what sol it is.
//
// Degenerate instants outside the supported calendar range fail closed with
// Invalid() rather than propagating nonsense: one bad zone must not take
// down a whole render pass.
func Project(t time.Time, z zone.Zone) zone.Projection {
	if !plausible(t) {
		return Invalid()
	}
	msd := MSD(t)
	if math.IsNaN(msd) || math.IsInf(msd, 0) {
		return Invalid()
	}
	lmst := LMSTHours(t, z.MarsLongitudeE)
	h, m, s := splitHours(lmst)

	anchor := solEpoch
	if z.Rover != nil {
		anchor = z.Rover.Landing
	}
	sol := int64(math.Floor(msd - landingMSD(anchor)))
	return zone.Projection{
		Hour:   h,
		Minute: m,
		Second: s,
		Mars:   true,
		Sol:    sol,
	}
}

// Invalid is the fail-closed projection for degenerate input: every field is
// clearly out of range so renderers can show a placeholder instead of a
// plausible-but-wrong time.
func Invalid() zone.Projection {
	return zone.Projection{Hour: -1, Minute: -1, Second: -1, Mars: true, Sol: -1}
}

// IsInvalid reports whether p is the fail-closed sentinel.
func IsInvalid(p zone.Projection) bool {
	return p.Mars && p.Hour < 0
}

// plausible bounds the conversion to the calendar range the day-number
// formula is sound for.
func plausible(t time.Time) bool {
	y := t.UTC().Year()
	return y >= 1 && y <= 9999
}
