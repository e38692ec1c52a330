package services

import (
	"net/url"
	"strings"

	"github.com/dmitrijs2005/botfolio/internal/common"
)

// SignupForm is the password signup form.
type SignupForm struct {
	Name            string
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	AcceptTerms     bool
}

// CompleteGoogleForm finishes an identity-provider signup.
type CompleteGoogleForm struct {
	Username    string
	Name        string
	AcceptTerms bool
}

func validateUsername(username string) error {
	if username == "" {
		return invalid("username", "Username is required")
	}
	if !common.ValidUsername(username) {
		return invalid("username", "Username can only contain letters, numbers, and underscores")
	}
	return nil
}

func (f SignupForm) validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return invalid("name", "Name is required")
	}
	if err := validateUsername(f.Username); err != nil {
		return err
	}
	if !strings.Contains(f.Email, "@") {
		return invalid("email", "A valid email is required")
	}
	if f.Password == "" {
		return invalid("password", "Password is required")
	}
	if f.Password != f.ConfirmPassword {
		return invalid("confirmPassword", "Passwords do not match")
	}
	if !f.AcceptTerms {
		return invalid("terms", "You must accept the terms and conditions")
	}
	return nil
}

func (f CompleteGoogleForm) validate() error {
	if err := validateUsername(f.Username); err != nil {
		return err
	}
	if !f.AcceptTerms {
		return invalid("terms", "You must accept the terms and conditions")
	}
	return nil
}

// validateLink accepts absolute http(s) URLs only.
func validateLink(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("link", "Please enter a valid http(s) URL")
	}
	return nil
}
