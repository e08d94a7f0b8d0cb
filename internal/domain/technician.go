package domain

import (
	"fmt"
	"time"
)

// Expertise enumerates technician specialisations.
type Expertise string

const (
	ExpertiseNetworkInfrastructure  Expertise = "Network Infrastructure"
	ExpertiseMobileServices         Expertise = "Mobile Services"
	ExpertiseInternetServices       Expertise = "Internet Services"
	ExpertiseGeneralTroubleshooting Expertise = "General Troubleshooting"
)

// AllExpertise lists expertise values in menu order.
func AllExpertise() []Expertise {
	return []Expertise{
		ExpertiseNetworkInfrastructure,
		ExpertiseMobileServices,
		ExpertiseInternetServices,
		ExpertiseGeneralTroubleshooting,
	}
}

// Valid reports whether e is a known expertise.
func (e Expertise) Valid() bool {
	for _, v := range AllExpertise() {
		if v == e {
			return true
		}
	}
	return false
}

// ParseExpertise maps a stored or typed value to an Expertise.
func ParseExpertise(s string) (Expertise, error) {
	e := Expertise(s)
	if !e.Valid() {
		return "", fmt.Errorf("unknown expertise %q", s)
	}
	return e, nil
}

// Technician is a field engineer who resolves complaints.
// Available is false exactly while the technician holds an open assignment.
type Technician struct {
	ID           int64
	Name         string
	Phone        string
	Email        *string
	Location     string
	Expertise    Expertise
	Available    bool
	RegisteredAt time.Time
}
