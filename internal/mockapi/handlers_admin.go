package mockapi

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/dmitrijs2005/botfolio/internal/client/entitlement"
	"github.com/dmitrijs2005/botfolio/internal/client/models"
	"github.com/dmitrijs2005/botfolio/internal/common"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	users := []models.AdminUser{}
	s.store.each(func(a *account) {
		users = append(users, models.AdminUser{User: *a.user.Clone(), LastLogin: a.lastLogin})
	})
	respondWithJSON(w, http.StatusOK, users)
}

func (s *Server) handleAdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	var upd models.UserUpdate
	if !decodeJSON(w, r, &upd) {
		return
	}
	if upd.Role != "" && upd.Role != models.RoleUser && upd.Role != models.RoleAdmin {
		respondWithError(w, http.StatusBadRequest, "Invalid role")
		return
	}
	if upd.Username != "" && !common.ValidUsername(upd.Username) {
		respondWithError(w, http.StatusBadRequest, "Username can only contain letters, numbers and underscores")
		return
	}

	id := chi.URLParam(r, "id")
	var u *models.User
	err := s.store.update(id, func(a *account) error {
		if s.store.takenLocked(upd.Username, upd.Email, id) {
			return errTaken
		}
		if upd.Name != "" {
			a.user.Name = upd.Name
		}
		if upd.Username != "" {
			a.user.Username = upd.Username
		}
		if upd.Email != "" {
			a.user.Email = upd.Email
		}
		if upd.Role != "" {
			a.user.Role = upd.Role
		}
		u = a.user.Clone()
		return nil
	})
	switch {
	case errors.Is(err, errTaken):
		respondWithError(w, http.StatusConflict, "Username or email already exists")
	case err != nil:
		respondWithError(w, http.StatusNotFound, "User not found")
	default:
		respondWithJSON(w, http.StatusOK, u)
	}
}

func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == userIDFrom(r.Context()) {
		respondWithError(w, http.StatusBadRequest, "Admins cannot delete themselves")
		return
	}
	if err := s.store.deleteAccount(id); err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

func (s *Server) handleAdminLinks(w http.ResponseWriter, r *http.Request) {
	links := []models.PortfolioLink{}
	s.store.each(func(a *account) {
		add := func(t models.LinkType, urls []string) {
			for _, u := range urls {
				links = append(links, models.PortfolioLink{UserID: a.user.ID, Username: a.user.Username, Type: t, URL: u})
			}
		}
		add(models.LinkShort, a.short)
		add(models.LinkLong, a.long)
		add(models.LinkDesign, a.designs)
	})
	respondWithJSON(w, http.StatusOK, links)
}

func (s *Server) handleAdminRemoveLink(w http.ResponseWriter, r *http.Request) {
	var req models.PortfolioLink
	if !decodeJSON(w, r, &req) {
		return
	}

	errNoLink := errors.New("link not found")
	err := s.store.update(req.UserID, func(a *account) error {
		var list *[]string
		switch req.Type {
		case models.LinkShort:
			list = &a.short
		case models.LinkLong:
			list = &a.long
		case models.LinkDesign:
			list = &a.designs
		default:
			return errNoLink
		}
		i := slices.Index(*list, req.URL)
		if i < 0 {
			return errNoLink
		}
		*list = slices.Delete(slices.Clone(*list), i, i+1)
		return nil
	})
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Link not found")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Link removed"})
}

func (s *Server) handleAdminAnalytics(w http.ResponseWriter, r *http.Request) {
	an := models.Analytics{
		RoleBreakdown: map[models.Role]int{},
		PlanBreakdown: map[string]int{},
	}
	s.store.each(func(a *account) {
		an.TotalUsers++
		if a.lastLogin != nil && s.now().Sub(*a.lastLogin) < entitlement.PlanWindow {
			an.ActiveUsers++
		}
		an.RoleBreakdown[a.user.Role]++
		plan := entitlement.TierBasic.String()
		if a.user.Plan != nil && a.user.Plan.Name != "" {
			plan = strings.ToLower(a.user.Plan.Name)
		}
		an.PlanBreakdown[plan]++
	})
	respondWithJSON(w, http.StatusOK, an)
}
