package domain

import "time"

// Candidate belongs to exactly one session.
type Candidate struct {
	CandidateID string    `json:"_id" dynamodbav:"candidate_id"`
	SessionCode string    `json:"sessionCode" dynamodbav:"session_code"`
	Name        string    `json:"name" dynamodbav:"name"`
	Manifesto   string    `json:"manifesto" dynamodbav:"manifesto"`
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"created_at"`
}

type AddCandidateRequest struct {
	Name      string `json:"name"`
	Manifesto string `json:"manifesto"`
}
