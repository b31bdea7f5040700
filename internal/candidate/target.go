package candidate

import "strings"

// TargetKind names what a match target was resolved from.
type TargetKind string

const (
	TargetVacancy   TargetKind = "vacancy"
	TargetCompany   TargetKind = "company"
	TargetContact   TargetKind = "contact"
	TargetCandidate TargetKind = "candidate"
)

// Target is the open role candidates are ranked against.
type Target struct {
	ID             string         `json:"id"`
	Kind           TargetKind     `json:"kind,omitempty"`
	Role           string         `json:"role,omitempty"`
	Company        string         `json:"company,omitempty"`
	Description    string         `json:"description,omitempty"`
	Location       Location       `json:"location"`
	RadiusKm       float64        `json:"radius_km,omitempty"`
	MinQuality     Quality        `json:"min_quality,omitempty"`
	MinExperience  Experience     `json:"min_experience,omitempty"`
	DrivingLicense DrivingLicense `json:"driving_license,omitempty"`
	Urgent         bool           `json:"urgent,omitempty"`
	UnitID         string         `json:"unit_id,omitempty"`
}

// HasRole reports whether the target explicitly searches for a role.
func (t *Target) HasRole() bool {
	return strings.TrimSpace(t.Role) != ""
}

// HasCriteria reports whether any optional eligibility criterion is set.
func (t *Target) HasCriteria() bool {
	return t.MinQuality.Normalized() != "" ||
		t.MinExperience.Normalized() != ExperienceUnset ||
		strings.TrimSpace(string(t.DrivingLicense)) != ""
}

// PeerTarget describes a search for candidates similar to p: same position,
// around p's location.
func PeerTarget(p *Profile, radiusKm float64) *Target {
	return &Target{
		ID:       p.ID,
		Kind:     TargetCandidate,
		Role:     p.Position,
		Location: p.Location,
		RadiusKm: radiusKm,
		UnitID:   p.UnitID,
	}
}
