package zone

import (
	"testing"
	"time"
)

func mustResolve(t *testing.T, p *CivilProjector, id string) {
	t.Helper()
	if err := p.Resolve(id); err != nil {
		t.Skipf("tzdata unavailable for %s: %v", id, err)
	}
}

func TestKind_ByNamespace(t *testing.T) {
	t.Parallel()
	tests := []struct {
		id   string
		want Kind
	}{
		{"Europe/London", KindCivil},
		{"UTC", KindCivil},
		{"mars/perseverance", KindMars},
		{"mars/mtc", KindMars},
	}
	for _, tt := range tests {
		if got := (Zone{ID: tt.id}).Kind(); got != tt.want {
			t.Errorf("Kind(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		zone Zone
		want string
	}{
		{Zone{ID: "America/New_York"}, "New York"},
		{Zone{ID: "Europe/London", Name: "London"}, "London"},
		{Zone{ID: "mars/perseverance"}, "perseverance"},
		{Zone{ID: "UTC"}, "UTC"},
	}
	for _, tt := range tests {
		if got := tt.zone.DisplayName(); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.zone.ID, got, tt.want)
		}
	}
}

func TestResolve_UnknownZone(t *testing.T) {
	t.Parallel()
	p := NewCivilProjector()
	if err := p.Resolve("Nowhere/Imaginary"); err == nil {
		t.Fatal("expected error for unknown zone, got nil")
	}
}

func TestProject_RoundTrip(t *testing.T) {
	t.Parallel()
	p := NewCivilProjector()

	zones := []string{"UTC", "America/New_York", "Asia/Kolkata", "Australia/Sydney"}
	instants := []time.Time{
		time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 15, 3, 30, 0, 0, time.UTC),
		time.Date(2024, 3, 10, 7, 30, 0, 0, time.UTC), // inside the US spring-forward window
	}
	for _, id := range zones {
		mustResolve(t, p, id)
		for _, instant := range instants {
			proj := p.Project(instant, id)

			// Reconstruct the UTC instant from the local fields plus offset.
			local := instant.In(p.Location(id))
			rebuilt := time.Date(local.Year(), local.Month(), local.Day(),
				proj.Hour, proj.Minute, proj.Second, 0, time.UTC).
				Add(-time.Duration(proj.OffsetMinutes) * time.Minute)
			if !rebuilt.Equal(instant.Truncate(time.Second)) {
				t.Errorf("%s @ %v: round trip = %v", id, instant, rebuilt)
			}
		}
	}
}

func TestProject_ISOWeekday(t *testing.T) {
	t.Parallel()
	p := NewCivilProjector()
	mustResolve(t, p, "UTC")

	tests := []struct {
		day  time.Time
		want int
	}{
		{time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC), 1},  // Monday
		{time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC), 6},  // Saturday
		{time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), 7}, // Sunday
	}
	for _, tt := range tests {
		if got := p.Project(tt.day, "UTC").Weekday; got != tt.want {
			t.Errorf("weekday of %v = %d, want %d", tt.day, got, tt.want)
		}
	}
}

func TestProject_DSTFlag(t *testing.T) {
	t.Parallel()
	p := NewCivilProjector()
	mustResolve(t, p, "America/New_York")

	summer := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	winter := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	if !p.Project(summer, "America/New_York").DST {
		t.Error("July in New York must be DST")
	}
	if p.Project(winter, "America/New_York").DST {
		t.Error("January in New York must not be DST")
	}
}

func TestNearDSTTransition(t *testing.T) {
	t.Parallel()
	p := NewCivilProjector()
	mustResolve(t, p, "America/New_York")
	mustResolve(t, p, "Asia/Tokyo")

	tests := []struct {
		name    string
		instant time.Time
		id      string
		want    bool
	}{
		// Spring forward 2024-03-10 07:00 UTC.
		{"day before transition", time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC), "America/New_York", true},
		{"mid summer", time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC), "America/New_York", false},
		{"zone without DST", time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC), "Asia/Tokyo", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.NearDSTTransition(tt.instant, tt.id); got != tt.want {
				t.Errorf("NearDSTTransition = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProjection_MinuteOfDay(t *testing.T) {
	t.Parallel()
	p := Projection{Hour: 8, Minute: 15}
	if got := p.MinuteOfDay(); got != 495 {
		t.Errorf("MinuteOfDay = %d, want 495", got)
	}
}
