package http

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"campussync/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	headerAdminKey = "X-Admin-Key"
	headerSubject  = "X-Principal-Subject"
	headerOrg      = "X-Principal-Org"
	headerRoles    = "X-Principal-Roles"
)

// principalFromHeaders trusts the identity headers set by the gateway in
// front of this service. Session auth itself lives there, not here.
func principalFromHeaders(c *gin.Context) domain.Principal {
	p := domain.Principal{
		Subject: strings.TrimSpace(c.GetHeader(headerSubject)),
		OrgID:   strings.TrimSpace(c.GetHeader(headerOrg)),
	}
	if raw := c.GetHeader(headerRoles); raw != "" {
		for _, role := range strings.Split(raw, ",") {
			if role = strings.TrimSpace(role); role != "" {
				p.Roles = append(p.Roles, role)
			}
		}
	}
	return p
}

func (s *Server) requireAdmin(c *gin.Context) bool {
	if s.adminAPIKey == "" {
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "admin key required")
		return false
	}
	key := strings.TrimSpace(c.GetHeader(headerAdminKey))
	if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(s.adminAPIKey)) != 1 {
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid admin key")
		return false
	}
	return true
}
