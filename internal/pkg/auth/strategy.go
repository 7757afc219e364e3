package auth

import "time"

// Claims is what a session token proves about its holder.
type Claims struct {
	CompanyID string
	Role      string
	ExpiresAt time.Time
}

type Strategy interface {
	IssueToken(companyID, role string) (string, error)
	ParseToken(token string) (Claims, error)
	Name() string
}

type Options struct {
	TTL time.Duration
	Now func() time.Time
}
