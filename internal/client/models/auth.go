package models

// AuthResult is the payload of a successful login or signup.
type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// GoogleAuthResult is returned by the identity-provider login. When NewUser
// is set, User is partial and Token is empty: the account must be completed.
type GoogleAuthResult struct {
	NewUser bool   `json:"newUser"`
	User    *User  `json:"user"`
	Token   string `json:"token,omitempty"`
}

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /auth/login. Identifier is an email or a username.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// CompleteGoogleSignupRequest finishes an identity-provider signup.
type CompleteGoogleSignupRequest struct {
	GoogleIDToken string `json:"googleIdToken"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	Email         string `json:"email"`
}
