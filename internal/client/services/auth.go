// Package services holds the use cases behind the CLI: authentication,
// profile editing under plan quotas, plan purchase, projects and the admin
// console. Services talk to the API through client.Client and never write
// session keys themselves; that is the session store's job.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/botfolio/internal/client/client"
	"github.com/dmitrijs2005/botfolio/internal/client/models"
	"github.com/dmitrijs2005/botfolio/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/botfolio/internal/client/session"
	"github.com/dmitrijs2005/botfolio/internal/logging"
)

// Sessions is the part of the session store the services depend on.
type Sessions interface {
	Login(ctx context.Context, user *models.User, token string) error
	Logout(ctx context.Context)
	IsAuthenticated() bool
	CurrentUser() *models.User
	Require(role models.Role) session.Access
}

// GoogleOutcome reports how an identity-provider login ended.
type GoogleOutcome struct {
	// NeedsCompletion is set for first-time users: nothing was logged in and
	// the app moved to the complete-signup route.
	NeedsCompletion bool
	User            *models.User
}

// PendingGoogleSignup is the handoff left behind by a first-time Google login.
type PendingGoogleSignup struct {
	IDToken string
	User    *models.User
}

type AuthService interface {
	Login(ctx context.Context, identifier, password string) error
	Signup(ctx context.Context, form SignupForm) error
	GoogleLogin(ctx context.Context, idToken string) (*GoogleOutcome, error)
	PendingGoogleSignup(ctx context.Context) (*PendingGoogleSignup, error)
	CompleteGoogleSignup(ctx context.Context, form CompleteGoogleForm) error
	Logout(ctx context.Context)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client   client.Client
	sessions Sessions
	repo     metadata.Repository
	nav      session.Navigator
	log      logging.Logger
}

func NewAuthService(c client.Client, sessions Sessions, repo metadata.Repository, nav session.Navigator, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{client: c, sessions: sessions, repo: repo, nav: nav, log: log.With("component", "auth")}
}

func (s *authService) Login(ctx context.Context, identifier, password string) error {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return invalid("identifier", "Email or username and password are required")
	}

	res, err := s.client.Login(ctx, models.LoginRequest{Identifier: identifier, Password: password})
	if err != nil {
		return err
	}
	return s.establish(ctx, res)
}

func (s *authService) Signup(ctx context.Context, form SignupForm) error {
	if err := form.validate(); err != nil {
		return err
	}

	res, err := s.client.Signup(ctx, models.SignupRequest{
		Name:     strings.TrimSpace(form.Name),
		Username: form.Username,
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
	})
	if err != nil {
		return err
	}
	return s.establish(ctx, res)
}

func (s *authService) establish(ctx context.Context, res *models.AuthResult) error {
	if res == nil {
		return client.ErrUnexpectedAPI
	}
	if err := s.sessions.Login(ctx, res.User, res.Token); err != nil {
		return fmt.Errorf("%w: %w", client.ErrUnexpectedAPI, err)
	}
	return nil
}

func (s *authService) GoogleLogin(ctx context.Context, idToken string) (*GoogleOutcome, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, invalid("token", "Google sign-in token is required")
	}

	res, err := s.client.GoogleAuth(ctx, idToken)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, client.ErrUnexpectedAPI
	}

	if !res.NewUser {
		if err := s.establish(ctx, &models.AuthResult{User: res.User, Token: res.Token}); err != nil {
			return nil, err
		}
		return &GoogleOutcome{User: res.User}, nil
	}

	raw, err := json.Marshal(res.User)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetMany(ctx, map[string][]byte{
		session.KeyGoogleSignupToken: []byte(idToken),
		session.KeyGoogleUserData:    raw,
	}); err != nil {
		return nil, fmt.Errorf("failed to keep google signup data: %w", err)
	}

	s.log.Info(ctx, "google signup pending", "email", emailOf(res.User))
	s.nav.Navigate(session.RouteCompleteGoogleSignup)
	return &GoogleOutcome{NeedsCompletion: true, User: res.User}, nil
}

// PendingGoogleSignup returns the handoff data. When it is missing the app
// is sent back to the login route and ErrMissingGoogleSignup is returned.
func (s *authService) PendingGoogleSignup(ctx context.Context) (*PendingGoogleSignup, error) {
	token, err := s.repo.Get(ctx, session.KeyGoogleSignupToken)
	if err != nil {
		return nil, err
	}
	raw, err := s.repo.Get(ctx, session.KeyGoogleUserData)
	if err != nil {
		return nil, err
	}

	var u *models.User
	if len(token) == 0 || len(raw) == 0 || json.Unmarshal(raw, &u) != nil || u == nil {
		s.nav.Navigate(session.RouteLogin)
		return nil, ErrMissingGoogleSignup
	}
	return &PendingGoogleSignup{IDToken: string(token), User: u}, nil
}

func (s *authService) CompleteGoogleSignup(ctx context.Context, form CompleteGoogleForm) error {
	pending, err := s.PendingGoogleSignup(ctx)
	if err != nil {
		return err
	}
	if err := form.validate(); err != nil {
		return err
	}

	name := strings.TrimSpace(form.Name)
	if name == "" {
		name = pending.User.Name
	}

	res, err := s.client.CompleteGoogleSignup(ctx, models.CompleteGoogleSignupRequest{
		GoogleIDToken: pending.IDToken,
		Username:      form.Username,
		Name:          name,
		Email:         pending.User.Email,
	})
	if err != nil {
		return err
	}
	if err := s.establish(ctx, res); err != nil {
		return err
	}

	for _, k := range []string{session.KeyGoogleSignupToken, session.KeyGoogleUserData} {
		if err := s.repo.Delete(ctx, k); err != nil {
			s.log.Warn(ctx, "failed to drop google signup data", "key", k, "error", err)
		}
	}
	return nil
}

func (s *authService) Logout(ctx context.Context) {
	s.sessions.Logout(ctx)
}

func (s *authService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *authService) Close(ctx context.Context) error {
	err := s.client.Close()
	if err != nil {
		s.log.Warn(ctx, "failed to close api client", "error", err)
	}
	return err
}

// guard logs the session out when the API rejects its token.
func guard(ctx context.Context, sessions Sessions, err error) error {
	if errors.Is(err, client.ErrUnauthorized) && sessions.IsAuthenticated() {
		sessions.Logout(ctx)
	}
	return err
}

func emailOf(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.Email
}
