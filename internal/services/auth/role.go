package auth

import (
	"strings"

	"github.com/tiagocodinha/StagelinkApproval/internal/domain/enums"
)

// RoleForEmail is the single place where the agency admin account is
// told apart from reviewing clients.
func RoleForEmail(adminEmail, email string) enums.Role {
	if strings.EqualFold(strings.TrimSpace(adminEmail), strings.TrimSpace(email)) {
		return enums.RoleAdmin
	}
	return enums.RoleClient
}
