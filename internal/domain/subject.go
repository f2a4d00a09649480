package domain

import "fmt"

// Subject identifies the owner of a points balance: a user or an advertiser.
// The ledger never branches on the concrete type; anything type-specific goes
// through the SubjectDirectory capability.
type Subject struct {
	ID   uint
	Type string
}

func (s Subject) String() string { return fmt.Sprintf("%s/%d", s.Type, s.ID) }

func (s Subject) Valid() bool { return s.ID != 0 && ValidSubjectType(s.Type) }
