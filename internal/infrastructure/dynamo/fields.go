package dynamo

// DynamoDB attribute names used in key, condition and update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldEmail            = "email"
	fieldPasswordHash     = "password_hash"
	fieldResetToken       = "reset_token"
	fieldResetTokenExpiry = "reset_token_expiry"
	fieldUpdatedAt        = "updated_at"

	fieldCode          = "code"
	fieldOwnerID       = "owner_id"
	fieldCreatedAt     = "created_at"
	fieldPublicResults = "public_results"

	fieldSessionCode = "session_code"
	fieldCandidateID = "candidate_id"
	fieldVoterID     = "voter_id"

	fieldIDNo       = "id_no"
	fieldFullName   = "full_name"
	fieldAdmin      = "admin"
	fieldRole       = "role"
	fieldRegistered = "registered"
	fieldApproved   = "approved"
	fieldManifesto  = "manifesto"

	fieldCollegeID = "college_id"
	fieldExpiresAt = "expires_at"
)

// GSI names.
const (
	indexResetToken     = "reset_token-index"
	indexOwnerCreatedAt = "owner_id-created_at-index"
)
