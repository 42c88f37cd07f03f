package domain

// Concept is a controlled vocabulary entry tags must resolve to. Concepts
// may form a hierarchy through Parent; the concept graph is acyclic.
type Concept struct {
	ID          string
	Label       string
	Parent      string
	Description string
	Synonyms    []string
}

// TaxonomySnapshot is an immutable view of the taxonomy at a point in time.
// Validation passes hold on to one snapshot for their whole run, so a
// concurrent reload is never observed mid-validation.
type TaxonomySnapshot struct {
	Version  string
	URI      string
	concepts map[string]*Concept
	byAlias  map[string]*Concept
	ordered  []*Concept
}

// NewTaxonomySnapshot builds a snapshot from an ordered concept list.
// The alias index covers concept ids, labels and synonyms, case folded.
func NewTaxonomySnapshot(version, uri string, concepts []*Concept) *TaxonomySnapshot {
	s := &TaxonomySnapshot{
		Version:  version,
		URI:      uri,
		concepts: make(map[string]*Concept, len(concepts)),
		byAlias:  make(map[string]*Concept),
		ordered:  concepts,
	}
	for _, c := range concepts {
		s.concepts[c.ID] = c
		s.byAlias[foldConcept(c.ID)] = c
		if c.Label != "" {
			s.byAlias[foldConcept(c.Label)] = c
		}
		for _, syn := range c.Synonyms {
			s.byAlias[foldConcept(syn)] = c
		}
	}
	return s
}

// Resolve looks a name up directly or via label/synonym.
func (s *TaxonomySnapshot) Resolve(name string) (*Concept, bool) {
	c, ok := s.byAlias[foldConcept(name)]
	return c, ok
}

// IsDescendant reports whether concept a is b or sits below b in the
// hierarchy.
func (s *TaxonomySnapshot) IsDescendant(a, b string) bool {
	ca, ok := s.Resolve(a)
	if !ok {
		return false
	}
	cb, ok := s.Resolve(b)
	if !ok {
		return false
	}
	for cur := ca; cur != nil; {
		if cur.ID == cb.ID {
			return true
		}
		if cur.Parent == "" {
			return false
		}
		cur = s.concepts[cur.Parent]
	}
	return false
}

// Concepts returns all concepts in definition order.
func (s *TaxonomySnapshot) Concepts() []*Concept {
	return s.ordered
}

// Len returns the number of registered concepts.
func (s *TaxonomySnapshot) Len() int {
	return len(s.concepts)
}

func foldConcept(name string) string {
	b := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if ch >= 'A' && ch <= 'Z' {
			ch += 'a' - 'A'
		}
		if ch == ' ' {
			ch = '_'
		}
		b = append(b, ch)
	}
	return string(b)
}
