package ai

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/spigell/staffmatch/internal/candidate"
	"github.com/spigell/staffmatch/internal/utils"
)

//go:embed prompt.md
var promptTemplate string

const (
	notesMaxRunes      = 300
	defaultDocMaxRunes = 2000
)

// BuildPrompt renders the target and the shortlist. Only attributes that are
// present are written, so the model never sees placeholders for missing data.
func BuildPrompt(target *candidate.Target, entries []Entry, docs map[string]string, docMaxRunes int) string {
	if docMaxRunes <= 0 {
		docMaxRunes = defaultDocMaxRunes
	}

	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Candidate == nil {
			continue
		}
		blocks = append(blocks, candidateBlock(e, docs[e.Candidate.ID], docMaxRunes))
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{TARGET}}", targetBlock(target))
	return strings.ReplaceAll(prompt, "{{CANDIDATES}}", strings.Join(blocks, "\n"))
}

func targetBlock(t *candidate.Target) string {
	if t == nil {
		return "- (no details)"
	}

	var b block
	b.add("Role", t.Role)
	b.add("Company", t.Company)
	b.add("Description", utils.Truncate(strings.TrimSpace(t.Description), notesMaxRunes))
	b.add("Location", t.Location.Label())
	if t.RadiusKm > 0 {
		b.add("Search radius", fmt.Sprintf("%g km", t.RadiusKm))
	}
	b.add("Minimum quality", string(t.MinQuality.Normalized()))
	b.add("Minimum experience", string(t.MinExperience.Normalized()))
	b.add("Driving license", string(t.DrivingLicense))
	if t.Urgent {
		b.add("Urgent", "yes")
	}
	if b.empty() {
		return "- (no details)"
	}
	return b.String()
}

func candidateBlock(e Entry, doc string, docMaxRunes int) string {
	c := e.Candidate

	var b block
	b.add("Candidate ID", c.ID)
	b.add("Position", c.Position)
	b.add("Location", c.Location.Label())
	if e.DistanceKm != nil {
		b.add("Distance", fmt.Sprintf("%.1f km", *e.DistanceKm))
	}
	b.add("Experience", string(c.Experience.Normalized()))

	tags := make([]string, 0, len(c.Quality))
	for _, q := range c.Quality {
		if n := q.Normalized(); n != "" {
			tags = append(tags, string(n))
		}
	}
	b.add("Quality", strings.Join(tags, ", "))
	b.add("Quality note", utils.Truncate(strings.TrimSpace(c.QualityNote), notesMaxRunes))
	b.add("Driving license", string(c.DrivingLicense))
	b.add("Notes", utils.Truncate(strings.TrimSpace(c.Notes), notesMaxRunes))
	b.add("Document excerpt", utils.Truncate(strings.TrimSpace(doc), docMaxRunes))

	return "---\n" + b.String()
}

type block struct {
	lines []string
}

func (b *block) add(label, value string) {
	value = strings.Join(strings.Fields(value), " ")
	if value == "" {
		return
	}
	b.lines = append(b.lines, fmt.Sprintf("- %s: %s", label, value))
}

func (b *block) empty() bool {
	return len(b.lines) == 0
}

func (b *block) String() string {
	return strings.Join(b.lines, "\n")
}
