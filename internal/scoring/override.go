package scoring

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/spigell/staffmatch/internal/candidate"
)

// Override describes a custom profile derived from a preset. Unset fields keep
// the base preset's values.
type Override struct {
	Base                  string             `mapstructure:"base"`
	RoleMatchMax          *float64           `mapstructure:"role-match-max"`
	Quality               map[string]float64 `mapstructure:"quality"`
	Experience            map[string]float64 `mapstructure:"experience"`
	Stepped               *Stepped           `mapstructure:"stepped"`
	LinearDecay           *LinearDecay       `mapstructure:"linear-decay"`
	DocsBonus             *float64           `mapstructure:"docs-bonus"`
	NotesBonus            *float64           `mapstructure:"notes-bonus"`
	HardFilterOnRoleMatch *bool              `mapstructure:"hard-filter"`
	PrimaryKey            string             `mapstructure:"primary-key"`
}

// DecodeOverride decodes a loosely typed configuration block into an Override.
func DecodeOverride(raw map[string]any) (Override, error) {
	var o Override
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &o,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return o, fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return o, fmt.Errorf("decode profile override: %w", err)
	}
	return o, nil
}

// Build derives a validated profile named name from the override.
func (o Override) Build(name string) (Profile, error) {
	base := strings.TrimSpace(o.Base)
	if base == "" {
		base = PresetCompany
	}

	p, err := Preset(base)
	if err != nil {
		return Profile{}, err
	}
	p.Name = name

	if o.RoleMatchMax != nil {
		p.RoleMatchMax = *o.RoleMatchMax
	}
	for k, v := range o.Quality {
		q := candidate.Quality(k).Normalized()
		if q == "" {
			return Profile{}, fmt.Errorf("profile %s: unknown quality %q", name, k)
		}
		p.QualityTable[q] = v
	}
	for k, v := range o.Experience {
		e := candidate.Experience(k).Normalized()
		if e == candidate.ExperienceUnset {
			return Profile{}, fmt.Errorf("profile %s: unknown experience level %q", name, k)
		}
		p.ExperienceTable[e] = v
	}
	if o.Stepped != nil && o.LinearDecay != nil {
		return Profile{}, fmt.Errorf("profile %s: only one location curve can be set", name)
	}
	if o.Stepped != nil {
		p.Location = *o.Stepped
	}
	if o.LinearDecay != nil {
		p.Location = *o.LinearDecay
	}
	if o.DocsBonus != nil {
		p.DocsBonus = *o.DocsBonus
	}
	if o.NotesBonus != nil {
		p.NotesBonus = *o.NotesBonus
	}
	if o.HardFilterOnRoleMatch != nil {
		p.HardFilterOnRoleMatch = *o.HardFilterOnRoleMatch
	}
	if key := strings.TrimSpace(o.PrimaryKey); key != "" {
		p.PrimaryKey = SortKey(key)
	}

	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}
