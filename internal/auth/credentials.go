package auth

import (
	"errors"
	"fmt"
	"os"

	"github.com/xcode-links/xcache/internal/branding"
)

var (
	// ErrNoCredentials is returned when the user or password variable is unset.
	ErrNoCredentials = errors.New("no Apple developer account credentials")
	// ErrInvalidCredentials is returned when the sign-in endpoint rejects the
	// credentials.
	ErrInvalidCredentials = errors.New("the specified Apple developer account credentials are incorrect")
)

// Credentials identify an Apple developer account.
type Credentials struct {
	User     string
	Password string
	// TeamID selects a team for accounts that belong to several. Optional.
	TeamID string
}

// UserEnv names the account variable (XCODE_LINKS_USER).
func UserEnv() string { return branding.EnvVar("USER") }

// PasswordEnv names the password variable.
func PasswordEnv() string { return branding.EnvVar("PASSWORD") }

// TeamIDEnv names the optional team variable.
func TeamIDEnv() string { return branding.EnvVar("TEAM_ID") }

// CredentialsFromEnv reads the account from the environment.
func CredentialsFromEnv() (Credentials, error) {
	c := Credentials{
		User:     os.Getenv(UserEnv()),
		Password: os.Getenv(PasswordEnv()),
		TeamID:   os.Getenv(TeamIDEnv()),
	}
	if c.User == "" || c.Password == "" {
		return Credentials{}, fmt.Errorf("%w: provide them via the %s and %s environment variables",
			ErrNoCredentials, UserEnv(), PasswordEnv())
	}
	return c, nil
}

// String never includes the password.
func (c Credentials) String() string {
	if c.TeamID != "" {
		return c.User + " (team " + c.TeamID + ")"
	}
	return c.User
}
