package scoring

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spigell/staffmatch/internal/candidate"
)

// SortKey names the primary ordering of a ranked list.
type SortKey string

const (
	SortByScore    SortKey = "score"
	SortByDistance SortKey = "distance"
)

// Profile is a named bundle of weights, lookup tables, the location curve and
// the hard-filter policy used by one calling context.
type Profile struct {
	Name                  string
	RoleMatchMax          float64
	QualityTable          map[candidate.Quality]float64
	ExperienceTable       map[candidate.Experience]float64
	Location              LocationCurve
	DocsBonus             float64
	NotesBonus            float64
	HardFilterOnRoleMatch bool
	PrimaryKey            SortKey
}

// Limits holds the declared maximum of every component.
type Limits struct {
	RoleMatch  float64
	Quality    float64
	Experience float64
	Location   float64
	Documents  float64
	Notes      float64
}

// Total is the highest score a candidate can reach with the profile.
func (l Limits) Total() float64 {
	return l.RoleMatch + l.Quality + l.Experience + l.Location + l.Documents + l.Notes
}

// Limits returns the per-component maxima of the profile.
func (p Profile) Limits() Limits {
	l := Limits{
		RoleMatch: p.RoleMatchMax,
		Documents: p.DocsBonus,
		Notes:     p.NotesBonus,
	}
	for _, v := range p.QualityTable {
		if v > l.Quality {
			l.Quality = v
		}
	}
	for _, v := range p.ExperienceTable {
		if v > l.Experience {
			l.Experience = v
		}
	}
	if p.Location != nil {
		l.Location = p.Location.Max()
	}
	return l
}

// Validate checks the profile for negative weights and a missing curve.
func (p Profile) Validate() error {
	if p.Name == "" {
		return errors.New("profile name is required")
	}
	if p.Location == nil {
		return fmt.Errorf("profile %s: location curve is required", p.Name)
	}
	if p.RoleMatchMax < 0 || p.DocsBonus < 0 || p.NotesBonus < 0 || p.Location.Max() < 0 {
		return fmt.Errorf("profile %s: weights must not be negative", p.Name)
	}
	for q, v := range p.QualityTable {
		if v < 0 {
			return fmt.Errorf("profile %s: negative points for quality %s", p.Name, q)
		}
	}
	for e, v := range p.ExperienceTable {
		if v < 0 {
			return fmt.Errorf("profile %s: negative points for experience %s", p.Name, e)
		}
	}
	switch p.PrimaryKey {
	case SortByScore, SortByDistance:
	default:
		return fmt.Errorf("profile %s: unknown primary key %q", p.Name, p.PrimaryKey)
	}
	return nil
}

// Excludes reports whether the hard filter drops a scored candidate. The filter
// only applies when the target explicitly searches for a role.
func (p Profile) Excludes(target *candidate.Target, b Breakdown) bool {
	if !p.HardFilterOnRoleMatch || target == nil || !target.HasRole() {
		return false
	}
	return b.RoleMatch == 0
}

const (
	PresetVacancy = "vacancy"
	PresetCompany = "company"
	PresetPeers   = "peers"
)

var presets = map[string]func() Profile{
	PresetVacancy: Vacancy,
	PresetCompany: Company,
	PresetPeers:   Peers,
}

// Vacancy is used when ranking candidates for an open vacancy: 40/30/20/10 budget,
// stepped location bonus, hard role filter.
func Vacancy() Profile {
	return Profile{
		Name:         PresetVacancy,
		RoleMatchMax: 40,
		QualityTable: map[candidate.Quality]float64{
			candidate.QualityA: 30,
			candidate.QualityB: 20,
			candidate.QualityC: 10,
		},
		ExperienceTable: map[candidate.Experience]float64{
			candidate.ExperienceExpert:       20,
			candidate.ExperienceSenior:       16,
			candidate.ExperienceIntermediate: 10,
			candidate.ExperienceJunior:       5,
		},
		Location:              Stepped{WithinRadius: 10, BandKm: 50, BandPoints: 5},
		HardFilterOnRoleMatch: true,
		PrimaryKey:            SortByScore,
	}
}

// Company is used when proposing candidates to a company or contact: 30/20/15/10/5
// budget plus a location share that decays linearly to zero at the target radius.
func Company() Profile {
	return Profile{
		Name:         PresetCompany,
		RoleMatchMax: 30,
		QualityTable: map[candidate.Quality]float64{
			candidate.QualityA: 20,
			candidate.QualityB: 14,
			candidate.QualityC: 8,
		},
		ExperienceTable: map[candidate.Experience]float64{
			candidate.ExperienceExpert:       15,
			candidate.ExperienceSenior:       12,
			candidate.ExperienceIntermediate: 8,
			candidate.ExperienceJunior:       4,
		},
		Location:              LinearDecay{MaxPoints: 20, CapAtRadius: true},
		DocsBonus:             10,
		NotesBonus:            5,
		HardFilterOnRoleMatch: true,
		PrimaryKey:            SortByScore,
	}
}

// Peers is used when looking for candidates similar to a selected one. It keeps
// every eligible candidate and ranks by distance first, with a flat 50 km band.
func Peers() Profile {
	return Profile{
		Name:         PresetPeers,
		RoleMatchMax: 30,
		QualityTable: map[candidate.Quality]float64{
			candidate.QualityA: 20,
			candidate.QualityB: 14,
			candidate.QualityC: 8,
		},
		ExperienceTable: map[candidate.Experience]float64{
			candidate.ExperienceExpert:       15,
			candidate.ExperienceSenior:       12,
			candidate.ExperienceIntermediate: 8,
			candidate.ExperienceJunior:       4,
		},
		Location:   Stepped{WithinRadius: 20, BandKm: 50, BandPoints: 10},
		DocsBonus:  10,
		NotesBonus: 5,
		PrimaryKey: SortByDistance,
	}
}

// Preset returns a fresh copy of the named profile.
func Preset(name string) (Profile, error) {
	build, ok := presets[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown weight profile %q (known: %v)", name, Names())
	}
	return build(), nil
}

// Names lists the preset names in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
