// Package candidate holds the request-scoped data model shared by the matching stages.
package candidate

import (
	"strings"

	"github.com/spigell/staffmatch/internal/geo"
)

// Quality is a single-letter internal placement rating.
type Quality string

const (
	QualityA Quality = "A"
	QualityB Quality = "B"
	QualityC Quality = "C"
)

// Rank orders qualities by severity: A is the best. Unknown values rank 0.
func (q Quality) Rank() int {
	switch Quality(strings.ToUpper(strings.TrimSpace(string(q)))) {
	case QualityA:
		return 3
	case QualityB:
		return 2
	case QualityC:
		return 1
	default:
		return 0
	}
}

// Normalized returns the upper-cased letter or an empty value for unknown ratings.
func (q Quality) Normalized() Quality {
	n := Quality(strings.ToUpper(strings.TrimSpace(string(q))))
	if n.Rank() == 0 {
		return ""
	}
	return n
}

// Experience is the candidate seniority level.
type Experience string

const (
	ExperienceUnset        Experience = ""
	ExperienceJunior       Experience = "junior"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceSenior       Experience = "senior"
	ExperienceExpert       Experience = "expert"
)

// Rank orders experience levels. Unset or unknown levels rank 0.
func (e Experience) Rank() int {
	switch Experience(strings.ToLower(strings.TrimSpace(string(e)))) {
	case ExperienceJunior:
		return 1
	case ExperienceIntermediate:
		return 2
	case ExperienceSenior:
		return 3
	case ExperienceExpert:
		return 4
	default:
		return 0
	}
}

// Normalized returns the lower-cased level or ExperienceUnset for unknown values.
func (e Experience) Normalized() Experience {
	n := Experience(strings.ToLower(strings.TrimSpace(string(e))))
	if n.Rank() == 0 {
		return ExperienceUnset
	}
	return n
}

// DrivingLicense is the highest driving licence category a candidate holds.
type DrivingLicense string

const (
	LicenseNone DrivingLicense = ""
	LicenseB    DrivingLicense = "B"
	LicenseBE   DrivingLicense = "BE"
	LicenseC    DrivingLicense = "C"
	LicenseCE   DrivingLicense = "CE"
	LicenseD    DrivingLicense = "D"
)

// Valid reports whether the licence is one of the known categories.
func (l DrivingLicense) Valid() bool {
	switch DrivingLicense(strings.ToUpper(strings.TrimSpace(string(l)))) {
	case LicenseB, LicenseBE, LicenseC, LicenseCE, LicenseD:
		return true
	default:
		return false
	}
}

// Covers reports whether the licence includes the required category.
// C and D include B; the E variants include their base category.
func (l DrivingLicense) Covers(required DrivingLicense) bool {
	have := DrivingLicense(strings.ToUpper(strings.TrimSpace(string(l))))
	need := DrivingLicense(strings.ToUpper(strings.TrimSpace(string(required))))
	if need == LicenseNone {
		return true
	}
	if have == need {
		return true
	}
	switch have {
	case LicenseBE:
		return need == LicenseB
	case LicenseC, LicenseD:
		return need == LicenseB
	case LicenseCE:
		return need == LicenseB || need == LicenseBE || need == LicenseC
	default:
		return false
	}
}

// Status is the activity status of a candidate record.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPlaced   Status = "placed"
	StatusBlocked  Status = "blocked"
)

// Location describes where a candidate lives or a target is. Every field is optional.
type Location struct {
	Lat        *float64 `json:"lat,omitempty"`
	Lon        *float64 `json:"lon,omitempty"`
	PostalCode string   `json:"postal_code,omitempty"`
	City       string   `json:"city,omitempty"`
	Canton     string   `json:"canton,omitempty"`
}

// Point returns the coordinates of the location.
func (l Location) Point() geo.Point {
	return geo.Point{Lat: l.Lat, Lon: l.Lon}
}

// Label renders the textual part of the location, e.g. "8004 Zürich (ZH)".
func (l Location) Label() string {
	parts := make([]string, 0, 3)
	if pc := strings.TrimSpace(l.PostalCode); pc != "" {
		parts = append(parts, pc)
	}
	if city := strings.TrimSpace(l.City); city != "" {
		parts = append(parts, city)
	}
	label := strings.Join(parts, " ")
	if canton := strings.TrimSpace(l.Canton); canton != "" {
		if label == "" {
			return canton
		}
		label += " (" + canton + ")"
	}
	return label
}

// Profile is a candidate record as handed over by the caller. It is never mutated.
type Profile struct {
	ID             string         `json:"id"`
	FirstName      string         `json:"first_name,omitempty"`
	LastName       string         `json:"last_name,omitempty"`
	Position       string         `json:"position,omitempty"`
	Location       Location       `json:"location"`
	Quality        []Quality      `json:"quality,omitempty"`
	QualityNote    string         `json:"quality_note,omitempty"`
	Experience     Experience     `json:"experience,omitempty"`
	DrivingLicense DrivingLicense `json:"driving_license,omitempty"`
	Status         Status         `json:"status,omitempty"`
	Notes          string         `json:"notes,omitempty"`
	DocumentURL    string         `json:"document_url,omitempty"`
	UnitID         string         `json:"unit_id,omitempty"`
	ClaimedBy      string         `json:"claimed_by,omitempty"`
}

// DisplayName returns "First Last", falling back to the id for nameless records.
func (p *Profile) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
	if name == "" {
		return p.ID
	}
	return name
}

// BestQuality returns the highest-ranked quality tag, or an empty value.
func (p *Profile) BestQuality() Quality {
	var best Quality
	for _, q := range p.Quality {
		if q.Rank() > best.Rank() {
			best = q.Normalized()
		}
	}
	return best
}

// HasDocument reports whether a profile document reference is present.
func (p *Profile) HasDocument() bool {
	return strings.TrimSpace(p.DocumentURL) != ""
}

// HasNotes reports whether free-text notes or a quality annotation are present.
func (p *Profile) HasNotes() bool {
	return strings.TrimSpace(p.Notes) != "" || strings.TrimSpace(p.QualityNote) != ""
}

// IsActive reports whether the candidate may be considered for matching.
func (p *Profile) IsActive() bool {
	return Status(strings.ToLower(strings.TrimSpace(string(p.Status)))) == StatusActive
}
