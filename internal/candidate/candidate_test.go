package candidate

import "testing"

func TestBestQuality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tags   []Quality
		expect Quality
	}{
		{name: "no tags", tags: nil, expect: ""},
		{name: "single tag", tags: []Quality{"c"}, expect: QualityC},
		{name: "best wins regardless of order", tags: []Quality{QualityC, QualityA, QualityB}, expect: QualityA},
		{name: "unknown tags ignored", tags: []Quality{"X", QualityB}, expect: QualityB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &Profile{Quality: tt.tags}
			if got := p.BestQuality(); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestDrivingLicenseCovers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		have, need DrivingLicense
		expect     bool
	}{
		{have: LicenseNone, need: LicenseNone, expect: true},
		{have: LicenseNone, need: LicenseB, expect: false},
		{have: LicenseB, need: LicenseB, expect: true},
		{have: "b", need: "B", expect: true},
		{have: LicenseC, need: LicenseB, expect: true},
		{have: LicenseB, need: LicenseC, expect: false},
		{have: LicenseCE, need: LicenseC, expect: true},
		{have: LicenseBE, need: LicenseC, expect: false},
	}

	for _, tt := range tests {
		if got := tt.have.Covers(tt.need); got != tt.expect {
			t.Fatalf("%q covers %q: expected %v, got %v", tt.have, tt.need, tt.expect, got)
		}
	}
}

func TestPoolExcludePreservesOrder(t *testing.T) {
	t.Parallel()

	pool := NewPool([]*Profile{{ID: "1"}, nil, {ID: "2"}, {ID: "3"}, {ID: "4"}})
	if pool.Len() != 4 {
		t.Fatalf("expected nil entries to be skipped, got %d items", pool.Len())
	}

	dropped := pool.Exclude(func(p *Profile) bool { return p.ID == "2" || p.ID == "4" })
	if len(dropped) != 2 || dropped[0] != "2" || dropped[1] != "4" {
		t.Fatalf("unexpected dropped ids: %v", dropped)
	}

	if pool.Len() != 2 || pool.Items[0].ID != "1" || pool.Items[1].ID != "3" {
		t.Fatalf("unexpected remaining pool: %d items", pool.Len())
	}
}

func TestDisplayNameAndLabel(t *testing.T) {
	t.Parallel()

	p := &Profile{ID: "c-1", FirstName: " Anna ", LastName: "Müller"}
	if got := p.DisplayName(); got != "Anna Müller" {
		t.Fatalf("unexpected display name: %q", got)
	}

	if got := (&Profile{ID: "c-2"}).DisplayName(); got != "c-2" {
		t.Fatalf("expected id fallback, got %q", got)
	}

	loc := Location{PostalCode: "8004", City: "Zürich", Canton: "ZH"}
	if got := loc.Label(); got != "8004 Zürich (ZH)" {
		t.Fatalf("unexpected label: %q", got)
	}
	if got := (Location{Canton: "BE"}).Label(); got != "BE" {
		t.Fatalf("unexpected canton-only label: %q", got)
	}
}

func TestDrivingLicenseValid(t *testing.T) {
	for _, l := range []DrivingLicense{"b", " CE ", LicenseD} {
		if !l.Valid() {
			t.Fatalf("expected %q to be valid", l)
		}
	}
	for _, l := range []DrivingLicense{"", "A1", "truck"} {
		if l.Valid() {
			t.Fatalf("expected %q to be invalid", l)
		}
	}
}

func TestPeerTarget(t *testing.T) {
	lat, lon := 47.05, 8.31
	p := &Profile{ID: "c7", Position: "Schreiner EFZ", UnitID: "lu", Location: Location{Lat: &lat, Lon: &lon, City: "Luzern"}}

	target := PeerTarget(p, 30)
	if target.Kind != TargetCandidate || target.Role != "Schreiner EFZ" || target.RadiusKm != 30 {
		t.Fatalf("unexpected peer target: %+v", target)
	}
	if target.UnitID != "lu" || !target.Location.Point().Valid() {
		t.Fatalf("expected unit and location to be copied: %+v", target)
	}
}
