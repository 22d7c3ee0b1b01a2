package domain

import "time"

// Student is a roster entry for the institutional-ID flow.
type Student struct {
	IDNo       string `json:"idNo" dynamodbav:"id_no"`
	FullName   string `json:"fullName" dynamodbav:"full_name"`
	Email      string `json:"email" dynamodbav:"email"`
	Role       string `json:"role,omitempty" dynamodbav:"role,omitempty"`
	Registered bool   `json:"registered" dynamodbav:"registered"`
	Approved   bool   `json:"approved" dynamodbav:"approved"`
	Manifesto  string `json:"manifesto,omitempty" dynamodbav:"manifesto,omitempty"`
	Admin      bool   `json:"-" dynamodbav:"admin"`
}

// StudentVote is the single global vote a registered voter may cast.
type StudentVote struct {
	VoterID     string    `json:"voterId" dynamodbav:"voter_id"`
	CandidateID string    `json:"candidateId" dynamodbav:"candidate_id"`
	VotedAt     time.Time `json:"votedAt" dynamodbav:"voted_at"`
}

// LoginCode is a one-time code emailed to a student. ExpiresAt doubles as the DynamoDB TTL.
type LoginCode struct {
	CollegeID string `json:"collegeId" dynamodbav:"college_id"`
	Code      string `json:"-" dynamodbav:"code"`
	ExpiresAt int64  `json:"expiresAt" dynamodbav:"expires_at"` // Unix seconds
}

// Expired reports whether the code is past its expiry at now.
func (c *LoginCode) Expired(now time.Time) bool {
	return now.Unix() >= c.ExpiresAt
}

type SendLoginCodeRequest struct {
	CollegeID StudentID `json:"collegeId" validate:"required"`
}

type VerifyLoginCodeRequest struct {
	CollegeID StudentID `json:"collegeId" validate:"required"`
	OTP       string    `json:"otp" validate:"required"`
}

type StudentVoteRequest struct {
	VoterID     StudentID `json:"voterId"`
	CandidateID StudentID `json:"candidateId"`
}

type ApproveCandidateRequest struct {
	CollegeID StudentID `json:"collegeId"`
}
