package services

import (
	"context"

	"github.com/dmitrijs2005/botfolio/internal/client/client"
	"github.com/dmitrijs2005/botfolio/internal/client/models"
	"github.com/dmitrijs2005/botfolio/internal/client/session"
	"github.com/dmitrijs2005/botfolio/internal/logging"
)

// AdminService is the admin console. Every call is gated on the session
// holding the admin role; the API checks again on its side.
type AdminService interface {
	ListUsers(ctx context.Context) ([]models.AdminUser, error)
	UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	ListLinks(ctx context.Context) ([]models.PortfolioLink, error)
	RemoveLink(ctx context.Context, link models.PortfolioLink) error
	Analytics(ctx context.Context) (*models.Analytics, error)
}

type adminService struct {
	client   client.Client
	sessions Sessions
	log      logging.Logger
}

func NewAdminService(c client.Client, sessions Sessions, log logging.Logger) AdminService {
	if log == nil {
		log = logging.Nop()
	}
	return &adminService{client: c, sessions: sessions, log: log.With("component", "admin")}
}

func (s *adminService) gate() error {
	switch s.sessions.Require(models.RoleAdmin) {
	case session.AccessGranted:
		return nil
	case session.AccessPending:
		return ErrNotLoggedIn
	default:
		if !s.sessions.IsAuthenticated() {
			return ErrNotLoggedIn
		}
		return ErrAdminRequired
	}
}

func (s *adminService) ListUsers(ctx context.Context) ([]models.AdminUser, error) {
	if err := s.gate(); err != nil {
		return nil, err
	}
	u, err := s.client.AdminUsers(ctx)
	return u, guard(ctx, s.sessions, err)
}

func (s *adminService) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	if err := s.gate(); err != nil {
		return nil, err
	}
	if upd.Username != "" {
		if err := validateUsername(upd.Username); err != nil {
			return nil, err
		}
	}
	if upd.Role != "" && upd.Role != models.RoleUser && upd.Role != models.RoleAdmin {
		return nil, invalid("role", "Role must be user or admin")
	}
	u, err := s.client.AdminUpdateUser(ctx, id, upd)
	if err != nil {
		return nil, guard(ctx, s.sessions, err)
	}
	s.log.Info(ctx, "user updated", "user_id", id, "role", u.Role)
	return u, nil
}

func (s *adminService) DeleteUser(ctx context.Context, id string) error {
	if err := s.gate(); err != nil {
		return err
	}
	if me := s.sessions.CurrentUser(); me != nil && me.ID == id {
		return invalid("id", "You cannot delete your own account here")
	}
	if err := s.client.AdminDeleteUser(ctx, id); err != nil {
		return guard(ctx, s.sessions, err)
	}
	s.log.Info(ctx, "user deleted", "user_id", id)
	return nil
}

func (s *adminService) ListLinks(ctx context.Context) ([]models.PortfolioLink, error) {
	if err := s.gate(); err != nil {
		return nil, err
	}
	l, err := s.client.AdminPortfolioLinks(ctx)
	return l, guard(ctx, s.sessions, err)
}

func (s *adminService) RemoveLink(ctx context.Context, link models.PortfolioLink) error {
	if err := s.gate(); err != nil {
		return err
	}
	return guard(ctx, s.sessions, s.client.AdminRemovePortfolioLink(ctx, link))
}

func (s *adminService) Analytics(ctx context.Context) (*models.Analytics, error) {
	if err := s.gate(); err != nil {
		return nil, err
	}
	a, err := s.client.AdminAnalytics(ctx)
	return a, guard(ctx, s.sessions, err)
}
