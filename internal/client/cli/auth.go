package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/botfolio/internal/client/services"
	"github.com/dmitrijs2005/botfolio/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// Signup prompts for the signup form and creates the account. On success
// the session starts and the app moves to the dashboard.
func (a *App) Signup(ctx context.Context, _ []string) error {
	var form services.SignupForm
	var err error

	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Enter full name", &form.Name},
		{"Enter username", &form.Username},
		{"Enter email", &form.Email},
	} {
		if *f.dst, err = getSimpleText(a.reader, f.prompt, a.out); err != nil {
			return err
		}
	}

	pw, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)
	form.Password, form.ConfirmPassword = string(pw), string(confirm)

	if form.AcceptTerms, err = GetConfirmation(a.reader, "Accept the terms and conditions?", a.out); err != nil {
		return err
	}

	if err := a.authService.Signup(ctx, form); err != nil {
		return a.fail(err, "Signup failed")
	}
	a.println("Welcome, " + form.Username + "!")
	return nil
}

// Login prompts for credentials and starts a session.
func (a *App) Login(ctx context.Context, _ []string) error {
	identifier, err := getSimpleText(a.reader, "Enter email or username", a.out)
	if err != nil {
		return err
	}

	pw, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if err := a.authService.Login(ctx, identifier, string(pw)); err != nil {
		return a.fail(err, "Login failed")
	}
	a.println("Login successful")
	return nil
}

// Google signs in with an identity-provider token. First-time users are
// sent to complete-google.
func (a *App) Google(ctx context.Context, args []string) error {
	out, err := a.authService.GoogleLogin(ctx, args[0])
	if err != nil {
		return a.fail(err, "Google sign-in failed")
	}
	if out.NeedsCompletion {
		a.println("New account: run complete-google to choose a username.")
		return nil
	}
	a.println("Login successful")
	return nil
}

// CompleteGoogle finishes a pending identity-provider signup.
func (a *App) CompleteGoogle(ctx context.Context, _ []string) error {
	pending, err := a.authService.PendingGoogleSignup(ctx)
	if err != nil {
		return a.fail(err, "Google signup failed")
	}
	a.printf("Completing signup for %s\n", pending.User.Email)

	var form services.CompleteGoogleForm
	if form.Username, err = getSimpleText(a.reader, "Choose a username", a.out); err != nil {
		return err
	}
	if form.Name, err = getSimpleText(a.reader, "Enter full name (empty keeps \""+pending.User.Name+"\")", a.out); err != nil {
		return err
	}
	if form.AcceptTerms, err = GetConfirmation(a.reader, "Accept the terms and conditions?", a.out); err != nil {
		return err
	}

	if err := a.authService.CompleteGoogleSignup(ctx, form); err != nil {
		return a.fail(err, "Google signup failed")
	}
	a.println("Welcome, " + strings.TrimSpace(form.Username) + "!")
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	a.authService.Logout(ctx)
	a.println("Logged out")
	return nil
}
