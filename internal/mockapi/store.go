package mockapi

import (
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/botfolio/internal/client/models"
	"github.com/google/uuid"
)

var (
	errNotFound = errors.New("not found")
	errTaken    = errors.New("username or email already exists")
)

// account is a user as the backend stores it.
type account struct {
	user         models.User
	passwordHash []byte
	bio          string
	tags         []string
	short        []string
	long         []string
	designs      []string
	lastLogin    *time.Time
}

func (a *account) profile() models.Profile {
	return models.Profile{
		User:         *a.user.Clone(),
		Bio:          a.bio,
		Tags:         slices.Clone(a.tags),
		ShortLinks:   slices.Clone(a.short),
		LongLinks:    slices.Clone(a.long),
		DesignImages: slices.Clone(a.designs),
	}
}

// store is the in-memory state of the mock backend.
type store struct {
	mu       sync.Mutex
	accounts map[string]*account
	projects map[string]*ownedProject
	tasks    map[string]*ownedTask
	orders   map[string]*order
}

type ownedProject struct {
	owner string
	models.Project
}

type ownedTask struct {
	owner string
	models.Task
}

type order struct {
	owner string
	tier  string
	models.Order
}

func newStore() *store {
	return &store{
		accounts: make(map[string]*account),
		projects: make(map[string]*ownedProject),
		tasks:    make(map[string]*ownedTask),
		orders:   make(map[string]*order),
	}
}

func newID() string { return uuid.NewString() }

// findLocked looks an account up by username or email, case-insensitively.
func (s *store) findLocked(identifier string) *account {
	for _, a := range s.accounts {
		if strings.EqualFold(a.user.Username, identifier) || strings.EqualFold(a.user.Email, identifier) {
			return a
		}
	}
	return nil
}

func (s *store) takenLocked(username, email, exceptID string) bool {
	for id, a := range s.accounts {
		if id == exceptID {
			continue
		}
		if (username != "" && strings.EqualFold(a.user.Username, username)) ||
			(email != "" && strings.EqualFold(a.user.Email, email)) {
			return true
		}
	}
	return false
}

func (s *store) create(a *account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.takenLocked(a.user.Username, a.user.Email, "") {
		return errTaken
	}
	if a.user.ID == "" {
		a.user.ID = newID()
	}
	s.accounts[a.user.ID] = a
	return nil
}

func (s *store) find(identifier string) (*account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.findLocked(identifier)
	if a == nil {
		return nil, false
	}
	c := *a
	return &c, true
}

// update runs fn on the stored account under the lock.
func (s *store) update(id string, fn func(a *account) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return errNotFound
	}
	return fn(a)
}

// view runs fn on the stored account under the lock.
func (s *store) view(id string, fn func(a *account)) error {
	return s.update(id, func(a *account) error {
		fn(a)
		return nil
	})
}

func (s *store) deleteAccount(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return errNotFound
	}
	delete(s.accounts, id)
	for pid, p := range s.projects {
		if p.owner == id {
			delete(s.projects, pid)
		}
	}
	for tid, t := range s.tasks {
		if t.owner == id {
			delete(s.tasks, tid)
		}
	}
	for oid, o := range s.orders {
		if o.owner == id {
			delete(s.orders, oid)
		}
	}
	return nil
}

// each calls fn for every account ordered by username.
func (s *store) each(fn func(a *account)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*account, 0, len(s.accounts))
	for _, a := range s.accounts {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].user.Username < all[j].user.Username })
	for _, a := range all {
		fn(a)
	}
}

func (s *store) putOrder(o *order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
}

// takeOrder removes and returns the order if it belongs to owner.
func (s *store) takeOrder(id, owner string) (*order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok || o.owner != owner {
		return nil, false
	}
	delete(s.orders, id)
	return o, true
}

func (s *store) projectsOf(owner string) []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Project{}
	for _, p := range s.projects {
		if p.owner == owner {
			out = append(out, p.Project)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

func (s *store) putProject(owner string, p models.Project) models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = newID()
	}
	s.projects[p.ID] = &ownedProject{owner: owner, Project: p}
	return p
}

func (s *store) ownsProject(owner, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	return ok && p.owner == owner
}

func (s *store) deleteProject(owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok || p.owner != owner {
		return errNotFound
	}
	delete(s.projects, id)
	for tid, t := range s.tasks {
		if t.ProjectID == id {
			delete(s.tasks, tid)
		}
	}
	return nil
}

func (s *store) tasksOf(owner, projectID string) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Task{}
	for _, t := range s.tasks {
		if t.owner == owner && (projectID == "" || t.ProjectID == projectID) {
			out = append(out, t.Task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

func (s *store) task(owner, id string) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.owner != owner {
		return models.Task{}, false
	}
	return t.Task, true
}

func (s *store) putTask(owner string, t models.Task) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = newID()
	}
	s.tasks[t.ID] = &ownedTask{owner: owner, Task: t}
	return t
}

func (s *store) deleteTask(owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok || t.owner != owner {
		return errNotFound
	}
	delete(s.tasks, id)
	return nil
}
