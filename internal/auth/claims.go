package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// KeycloakClaims extracts the specific data we need from the JWT
type KeycloakClaims struct {
	jwt.RegisteredClaims

	Email             string `json:"email"`
	EmailVerified     bool   `json:"email_verified"`
	PreferredUsername string `json:"preferred_username"`
	Azp               string `json:"azp"`
	RealmAccess       struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
}

// UserInfo is what handlers read back from the request context.
type UserInfo struct {
	ID              string // The 'sub' claim; listings are owned by this value
	Username        string
	Email           string
	AuthorizedParty string
	Roles           []string
}

func (c KeycloakClaims) UserInfo() UserInfo {
	return UserInfo{
		ID:              c.Subject,
		Username:        c.PreferredUsername,
		Email:           c.Email,
		AuthorizedParty: c.Azp,
		Roles:           c.RealmAccess.Roles,
	}
}

func (u UserInfo) IsAdmin() bool {
	return slices.Contains(u.Roles, RoleAdmin)
}
