package student

import (
	"fmt"
	"strings"

	"github.com/voter-api/internal/domain"
)

// RegisterRequest is the wire form of a registration. Role selects which
// Registration it decodes into.
type RegisterRequest struct {
	IDNo      domain.StudentID `json:"idNo"`
	Role      string           `json:"role"`
	Manifesto string           `json:"manifesto"`
}

// Registration is one of VoterRegistration or CandidateRegistration.
type Registration interface {
	StudentID() string
	Role() string
	manifesto() string
}

type VoterRegistration struct {
	IDNo string
}

func (r VoterRegistration) StudentID() string { return r.IDNo }
func (r VoterRegistration) Role() string      { return domain.StudentRoleVoter }
func (r VoterRegistration) manifesto() string { return "" }

type CandidateRegistration struct {
	IDNo      string
	Manifesto string
}

func (r CandidateRegistration) StudentID() string { return r.IDNo }
func (r CandidateRegistration) Role() string      { return domain.StudentRoleCandidate }
func (r CandidateRegistration) manifesto() string { return r.Manifesto }

// ParseRegistration validates req and returns the matching Registration.
func ParseRegistration(req RegisterRequest) (Registration, error) {
	idNo := strings.TrimSpace(req.IDNo.String())
	if idNo == "" {
		return nil, fmt.Errorf("ID number is required: %w", domain.ErrBadRequest)
	}
	switch strings.ToLower(strings.TrimSpace(req.Role)) {
	case domain.StudentRoleVoter:
		return VoterRegistration{IDNo: idNo}, nil
	case domain.StudentRoleCandidate:
		return CandidateRegistration{IDNo: idNo, Manifesto: strings.TrimSpace(req.Manifesto)}, nil
	case "":
		return nil, fmt.Errorf("Role is required: %w", domain.ErrBadRequest)
	default:
		return nil, fmt.Errorf("Invalid role %q: %w", req.Role, domain.ErrBadRequest)
	}
}
