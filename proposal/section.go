package proposal

// Section enumerates the prose sections carried into a digest.
type Section int

const (
	Abstract Section = iota
	Specification
	Motivation
	Rationale
)

var sections = []struct {
	heading string
	label   string
}{
	Abstract:      {heading: "Abstract", label: "SUMMARY"},
	Specification: {heading: "Specification", label: "SPECIFICATION"},
	Motivation:    {heading: "Motivation", label: "MOTIVATION"},
	Rationale:     {heading: "Rationale", label: "RATIONALE"},
}

// Sections returns sections in digest order.
func Sections() []Section {
	return []Section{Abstract, Specification, Motivation, Rationale}
}

// Heading returns the markdown heading label.
func (s Section) Heading() string {
	return sections[s].heading
}

// Label returns the digest block label.
func (s Section) Label() string {
	return sections[s].label
}
