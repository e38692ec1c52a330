package services

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/botfolio/internal/client/client"
	"github.com/dmitrijs2005/botfolio/internal/client/entitlement"
	"github.com/dmitrijs2005/botfolio/internal/client/models"
	"github.com/dmitrijs2005/botfolio/internal/logging"
)

// Dashboard is the landing view after login.
type Dashboard struct {
	User          *models.User
	PlanName      string
	PlanExpired   bool
	RemainingDays int
	Quotas        map[entitlement.Kind]int
	Projects      []models.Project
	Tasks         models.TaskSummary
}

type ProjectService interface {
	Dashboard(ctx context.Context) (*Dashboard, error)

	Projects(ctx context.Context) ([]models.Project, error)
	CreateProject(ctx context.Context, p models.Project) (*models.Project, error)
	UpdateProject(ctx context.Context, p models.Project) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error

	Tasks(ctx context.Context, projectID string) ([]models.Task, error)
	AddTask(ctx context.Context, projectID, title string, due *time.Time) (*models.Task, error)
	SetTaskStatus(ctx context.Context, t models.Task, status models.TaskStatus) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type projectService struct {
	client   client.Client
	sessions Sessions
	resolver *entitlement.Resolver
	log      logging.Logger
}

func NewProjectService(c client.Client, sessions Sessions, r *entitlement.Resolver, log logging.Logger) ProjectService {
	if log == nil {
		log = logging.Nop()
	}
	return &projectService{client: c, sessions: sessions, resolver: r, log: log.With("component", "projects")}
}

func (s *projectService) authed(ctx context.Context, err error) error {
	return guard(ctx, s.sessions, err)
}

// Dashboard refreshes the user from the API; the plan shown is the one the
// backend holds now, not the one cached at login.
func (s *projectService) Dashboard(ctx context.Context) (*Dashboard, error) {
	if !s.sessions.IsAuthenticated() {
		return nil, ErrNotLoggedIn
	}

	u, err := s.client.Me(ctx)
	if err != nil {
		return nil, s.authed(ctx, err)
	}
	projects, err := s.client.Projects(ctx)
	if err != nil {
		return nil, s.authed(ctx, err)
	}
	summary, err := s.client.TaskSummary(ctx)
	if err != nil {
		return nil, s.authed(ctx, err)
	}

	d := &Dashboard{
		User:          u,
		PlanName:      entitlement.TierBasic.String(),
		PlanExpired:   s.resolver.IsExpired(u.Plan),
		RemainingDays: s.resolver.RemainingDays(u.Plan),
		Quotas:        make(map[entitlement.Kind]int, 3),
		Projects:      projects,
		Tasks:         *summary,
	}
	if u.Plan != nil && u.Plan.Name != "" {
		d.PlanName = u.Plan.Name
	}
	for _, k := range []entitlement.Kind{entitlement.ShortLinks, entitlement.LongLinks, entitlement.DesignImages} {
		d.Quotas[k] = s.resolver.QuotaFor(u.Plan, k)
	}
	return d, nil
}

func (s *projectService) Projects(ctx context.Context) ([]models.Project, error) {
	p, err := s.client.Projects(ctx)
	return p, s.authed(ctx, err)
}

func (s *projectService) CreateProject(ctx context.Context, p models.Project) (*models.Project, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return nil, invalid("title", "Project title is required")
	}
	out, err := s.client.CreateProject(ctx, p)
	if err != nil {
		return nil, s.authed(ctx, err)
	}
	s.log.Info(ctx, "project created", "project", out.ID)
	return out, nil
}

func (s *projectService) UpdateProject(ctx context.Context, p models.Project) (*models.Project, error) {
	if p.ID == "" {
		return nil, invalid("id", "Project id is required")
	}
	out, err := s.client.UpdateProject(ctx, p)
	return out, s.authed(ctx, err)
}

func (s *projectService) DeleteProject(ctx context.Context, id string) error {
	return s.authed(ctx, s.client.DeleteProject(ctx, id))
}

func (s *projectService) Tasks(ctx context.Context, projectID string) ([]models.Task, error) {
	t, err := s.client.Tasks(ctx, projectID)
	return t, s.authed(ctx, err)
}

func (s *projectService) AddTask(ctx context.Context, projectID, title string, due *time.Time) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title", "Task title is required")
	}
	out, err := s.client.CreateTask(ctx, projectID, models.Task{Title: title, Status: models.TaskTodo, DueDate: due})
	return out, s.authed(ctx, err)
}

func (s *projectService) SetTaskStatus(ctx context.Context, t models.Task, status models.TaskStatus) (*models.Task, error) {
	switch status {
	case models.TaskTodo, models.TaskInProgress, models.TaskDone:
	default:
		return nil, invalid("status", "Status must be todo, in-progress or done")
	}
	t.Status = status
	out, err := s.client.UpdateTask(ctx, t)
	return out, s.authed(ctx, err)
}

func (s *projectService) DeleteTask(ctx context.Context, id string) error {
	return s.authed(ctx, s.client.DeleteTask(ctx, id))
}
