package domain

import "errors"

// Storage keys shared by the session store and the API client.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Session is the client-side authentication state.
// Token is non-empty iff the user is authenticated, and User is non-nil
// whenever Token is non-empty.
type Session struct {
	Token string       `json:"token,omitempty"`
	User  *UserProfile `json:"user,omitempty"`
}

// Authenticated reports whether the session holds a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the body returned by a successful login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

var (
	errMissingToken = errors.New("login response has no token")
	errMissingUser  = errors.New("login response has no user")
)

// Validate rejects responses that would leave a half-authenticated session.
func (r *AuthResponse) Validate() error {
	if r.Token == "" {
		return errMissingToken
	}
	if r.User == nil || r.User.ID == 0 {
		return errMissingUser
	}
	return nil
}

// PasswordChange is the payload for PUT /auth/password.
type PasswordChange struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// MinPasswordLen is the shortest accepted new password, in runes.
const MinPasswordLen = 6

// Password validation failures. Messages are shown to the user as-is.
var (
	ErrOldPasswordRequired = errors.New("La contraseña actual es obligatoria.")
	ErrPasswordMismatch    = errors.New("La nueva contraseña y su confirmación no coinciden.")
	ErrPasswordTooShort    = errors.New("La nueva contraseña debe tener al menos 6 caracteres.")
)

// Validate checks the change before it is sent. When forced (first login with
// a temporary password) the old password is not required and is sent empty.
func (p *PasswordChange) Validate(forced bool, confirm string) error {
	if forced {
		p.OldPassword = ""
	} else if p.OldPassword == "" {
		return ErrOldPasswordRequired
	}
	if p.NewPassword != confirm {
		return ErrPasswordMismatch
	}
	if len([]rune(p.NewPassword)) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	return nil
}
