package types

import "github.com/m-mizutani/goerr/v2"

// Archetype is the consumer segment a persona belongs to. It drives the
// probability tables used during context generation.
type Archetype string

const (
	ArchetypeStudent      Archetype = "student"
	ArchetypeProfessional Archetype = "professional"
	ArchetypeParent       Archetype = "parent"
	ArchetypeRetiree      Archetype = "retiree"
	ArchetypeFreelancer   Archetype = "freelancer"
	ArchetypeTourist      Archetype = "tourist"
	ArchetypeRegular      Archetype = "regular"
)

// IsValid checks if the archetype is a known value
func (a Archetype) IsValid() bool {
	switch a {
	case ArchetypeStudent, ArchetypeProfessional, ArchetypeParent, ArchetypeRetiree,
		ArchetypeFreelancer, ArchetypeTourist, ArchetypeRegular:
		return true
	}
	return false
}

// Validate returns an error if the archetype is unknown
func (a Archetype) Validate() error {
	if !a.IsValid() {
		return goerr.New("unknown archetype", goerr.V("archetype", string(a)))
	}
	return nil
}

// String returns the string representation of the archetype
func (a Archetype) String() string {
	return string(a)
}
