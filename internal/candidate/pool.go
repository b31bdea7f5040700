package candidate

// Pool is an ordered list of candidate profiles.
type Pool struct {
	Items []*Profile
}

// NewPool wraps the given profiles, skipping nil entries.
func NewPool(items []*Profile) *Pool {
	p := &Pool{Items: make([]*Profile, 0, len(items))}
	for _, item := range items {
		if item != nil {
			p.Items = append(p.Items, item)
		}
	}
	return p
}

func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Items)
}

// Exclude drops every profile for which drop returns true and returns the dropped ids.
// Order of the remaining profiles is preserved.
func (p *Pool) Exclude(drop func(*Profile) bool) []string {
	var excluded []string
	kept := p.Items[:0]
	for _, c := range p.Items {
		if drop(c) {
			excluded = append(excluded, c.ID)
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(p.Items); i++ {
		p.Items[i] = nil
	}
	p.Items = kept
	return excluded
}

// Clone returns a shallow copy so filters can drop entries without touching the caller's slice.
func (p *Pool) Clone() *Pool {
	if p == nil {
		return &Pool{}
	}
	items := make([]*Profile, len(p.Items))
	copy(items, p.Items)
	return &Pool{Items: items}
}
