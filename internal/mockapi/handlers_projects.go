package mockapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/botfolio/internal/client/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, s.store.projectsOf(userIDFrom(r.Context())))
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var p models.Project
	if !decodeJSON(w, r, &p) {
		return
	}
	if strings.TrimSpace(p.Title) == "" {
		respondWithError(w, http.StatusBadRequest, "Title is required")
		return
	}
	p.ID = ""
	if p.Status == "" {
		p.Status = "active"
	}
	respondWithJSON(w, http.StatusCreated, s.store.putProject(userIDFrom(r.Context()), p))
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	owner, id := userIDFrom(r.Context()), chi.URLParam(r, "id")
	if !s.store.ownsProject(owner, id) {
		respondWithError(w, http.StatusNotFound, "Project not found")
		return
	}
	var p models.Project
	if !decodeJSON(w, r, &p) {
		return
	}
	if strings.TrimSpace(p.Title) == "" {
		respondWithError(w, http.StatusBadRequest, "Title is required")
		return
	}
	p.ID = id
	respondWithJSON(w, http.StatusOK, s.store.putProject(owner, p))
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.store.deleteProject(userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondWithError(w, http.StatusNotFound, "Project not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	owner, id := userIDFrom(r.Context()), chi.URLParam(r, "id")
	if !s.store.ownsProject(owner, id) {
		respondWithError(w, http.StatusNotFound, "Project not found")
		return
	}
	respondWithJSON(w, http.StatusOK, s.store.tasksOf(owner, id))
}

func validStatus(st models.TaskStatus) bool {
	switch st {
	case models.TaskTodo, models.TaskInProgress, models.TaskDone:
		return true
	}
	return false
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	owner, projectID := userIDFrom(r.Context()), chi.URLParam(r, "id")
	if !s.store.ownsProject(owner, projectID) {
		respondWithError(w, http.StatusNotFound, "Project not found")
		return
	}
	var t models.Task
	if !decodeJSON(w, r, &t) {
		return
	}
	if strings.TrimSpace(t.Title) == "" {
		respondWithError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if t.Status == "" {
		t.Status = models.TaskTodo
	}
	if !validStatus(t.Status) {
		respondWithError(w, http.StatusBadRequest, "Invalid status")
		return
	}
	t.ID = ""
	t.ProjectID = projectID
	respondWithJSON(w, http.StatusCreated, s.store.putTask(owner, t))
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	owner, id := userIDFrom(r.Context()), chi.URLParam(r, "id")
	cur, ok := s.store.task(owner, id)
	if !ok {
		respondWithError(w, http.StatusNotFound, "Task not found")
		return
	}
	var t models.Task
	if !decodeJSON(w, r, &t) {
		return
	}
	if t.Title != "" {
		cur.Title = t.Title
	}
	if t.Status != "" {
		if !validStatus(t.Status) {
			respondWithError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		cur.Status = t.Status
	}
	if t.DueDate != nil {
		cur.DueDate = t.DueDate
	}
	respondWithJSON(w, http.StatusOK, s.store.putTask(owner, cur))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.store.deleteTask(userIDFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		respondWithError(w, http.StatusNotFound, "Task not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTaskSummary(w http.ResponseWriter, r *http.Request) {
	var sum models.TaskSummary
	for _, t := range s.store.tasksOf(userIDFrom(r.Context()), "") {
		sum.Total++
		switch t.Status {
		case models.TaskTodo:
			sum.Todo++
		case models.TaskInProgress:
			sum.InProgress++
		case models.TaskDone:
			sum.Done++
		}
	}
	respondWithJSON(w, http.StatusOK, sum)
}
