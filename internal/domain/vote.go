package domain

import "time"

// Vote is keyed by (SessionCode, VoterID); one per voter per session.
type Vote struct {
	SessionCode string    `json:"sessionCode" dynamodbav:"session_code"`
	VoterID     string    `json:"userId" dynamodbav:"voter_id"`
	CandidateID string    `json:"candidateId" dynamodbav:"candidate_id"`
	VotedAt     time.Time `json:"votedAt" dynamodbav:"voted_at"`
}

type CastVoteRequest struct {
	CandidateID string `json:"candidateId"`
}

// CandidateResult is one row of a tally.
type CandidateResult struct {
	CandidateID string `json:"candidateId"`
	Name        string `json:"name"`
	Votes       int    `json:"votes"`
	Percentage  int    `json:"percentage"`
}

// Results is a full tally: TotalVotes counts every vote passed in.
type Results struct {
	TotalVotes int               `json:"totalVotes"`
	Results    []CandidateResult `json:"results"`
}
