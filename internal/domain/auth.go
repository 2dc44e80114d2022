package domain

import (
	"context"
	"time"
)

type Principal struct {
	Subject string
	OrgID   string
	Roles   []string
}

func (p Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

const (
	RoleAdmin     = "admin"
	RoleFaculty   = "faculty"
	RoleStudent   = "student"
	RoleRecruiter = "recruiter"
)

type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (RateLimitDecision, error)
}
