package client

import (
	"context"

	"github.com/dmitrijs2005/botfolio/internal/client/models"
)

// Client is the transport-agnostic contract of the remote Botfolio API.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error)
	Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResult, error)
	GoogleAuth(ctx context.Context, idToken string) (*models.GoogleAuthResult, error)
	CompleteGoogleSignup(ctx context.Context, req models.CompleteGoogleSignupRequest) (*models.AuthResult, error)

	Me(ctx context.Context) (*models.User, error)
	Profile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.Profile, error)
	PublicProfile(ctx context.Context, username string) (*models.Profile, error)
	AllUsers(ctx context.Context) ([]models.User, error)

	CreateOrder(ctx context.Context, amount int64, planName string) (*models.Order, error)
	VerifyPayment(ctx context.Context, conf models.PaymentConfirmation) error

	Projects(ctx context.Context) ([]models.Project, error)
	CreateProject(ctx context.Context, p models.Project) (*models.Project, error)
	UpdateProject(ctx context.Context, p models.Project) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error
	Tasks(ctx context.Context, projectID string) ([]models.Task, error)
	CreateTask(ctx context.Context, projectID string, t models.Task) (*models.Task, error)
	UpdateTask(ctx context.Context, t models.Task) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	TaskSummary(ctx context.Context) (*models.TaskSummary, error)

	AdminUsers(ctx context.Context) ([]models.AdminUser, error)
	AdminUpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	AdminDeleteUser(ctx context.Context, id string) error
	AdminPortfolioLinks(ctx context.Context) ([]models.PortfolioLink, error)
	AdminRemovePortfolioLink(ctx context.Context, link models.PortfolioLink) error
	AdminAnalytics(ctx context.Context) (*models.Analytics, error)
}

// TokenSource yields the bearer token attached to outgoing requests; "" means
// the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}
