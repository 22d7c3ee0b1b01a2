package domain

// Token roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Student registration roles.
const (
	StudentRoleVoter     = "voter"
	StudentRoleCandidate = "candidate"
)
