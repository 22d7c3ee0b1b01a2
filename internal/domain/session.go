package domain

import "time"

// Session is a voting session addressed by its short join code.
type Session struct {
	Code          string    `json:"code" dynamodbav:"code"`
	Title         string    `json:"title" dynamodbav:"title"`
	OwnerID       string    `json:"ownerId" dynamodbav:"owner_id"`
	PublicResults bool      `json:"publicResults" dynamodbav:"public_results"`
	CreatedAt     time.Time `json:"createdAt" dynamodbav:"created_at"`
}

type CreateSessionRequest struct {
	Title string `json:"title"`
}

type SessionSettingsRequest struct {
	PublicResults bool `json:"publicResults"`
}
