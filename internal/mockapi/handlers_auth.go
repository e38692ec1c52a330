package mockapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/botfolio/internal/client/entitlement"
	"github.com/dmitrijs2005/botfolio/internal/client/models"
	"github.com/dmitrijs2005/botfolio/internal/common"
	"github.com/dmitrijs2005/botfolio/internal/cryptox"
	"github.com/dmitrijs2005/botfolio/internal/mockapi/auth"
)

func (s *Server) basicPlan() *models.Plan {
	offer, _ := entitlement.Lookup(entitlement.TierBasic)
	return &models.Plan{
		Name:         entitlement.TierBasic.String(),
		PurchasedAt:  models.TimePtr(s.now()),
		LinksAllowed: models.IntPtr(offer.Links),
		DesignLimit:  models.IntPtr(offer.Designs),
	}
}

func (s *Server) issue(w http.ResponseWriter, code int, id string) {
	var user *models.User
	_ = s.store.update(id, func(a *account) error {
		now := s.now()
		a.lastLogin = &now
		user = a.user.Clone()
		return nil
	})
	if user == nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role), []byte(s.cfg.SecretKey), s.cfg.TokenValidity)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	respondWithJSON(w, code, models.AuthResult{User: user, Token: token})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Name == "" || req.Username == "" || req.Email == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if !common.ValidUsername(req.Username) {
		respondWithError(w, http.StatusBadRequest, "Username can only contain letters, numbers and underscores")
		return
	}

	hash, err := cryptox.HashPassword([]byte(req.Password))
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	a := &account{
		user: models.User{
			Name:     req.Name,
			Username: req.Username,
			Email:    req.Email,
			Role:     models.RoleUser,
			Plan:     s.basicPlan(),
		},
		passwordHash: hash,
	}
	if err := s.store.create(a); err != nil {
		respondWithError(w, http.StatusConflict, "Username or email already exists")
		return
	}

	s.logger.Info(r.Context(), "user signed up", "username", a.user.Username)
	s.issue(w, http.StatusCreated, a.user.ID)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Identifier == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Email/username and password are required")
		return
	}

	a, ok := s.store.find(strings.TrimSpace(req.Identifier))
	if !ok || !cryptox.CheckPassword(a.passwordHash, []byte(req.Password)) {
		respondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	s.issue(w, http.StatusOK, a.user.ID)
}

func (s *Server) handleGoogle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := auth.ParseGoogleToken(req.Token)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid Google token")
		return
	}

	if a, ok := s.store.find(id.Email); ok {
		s.issue(w, http.StatusOK, a.user.ID)
		return
	}

	respondWithJSON(w, http.StatusOK, models.GoogleAuthResult{
		NewUser: true,
		User:    &models.User{Name: id.Name, Email: id.Email},
	})
}

func (s *Server) handleCompleteGoogle(w http.ResponseWriter, r *http.Request) {
	var req models.CompleteGoogleSignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := auth.ParseGoogleToken(req.GoogleIDToken)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid Google token")
		return
	}
	if !strings.EqualFold(id.Email, strings.TrimSpace(req.Email)) {
		respondWithError(w, http.StatusBadRequest, "Email does not match Google account")
		return
	}
	if !common.ValidUsername(req.Username) {
		respondWithError(w, http.StatusBadRequest, "Username can only contain letters, numbers and underscores")
		return
	}

	name := req.Name
	if name == "" {
		name = id.Name
	}
	a := &account{
		user: models.User{
			Name:     name,
			Username: req.Username,
			Email:    id.Email,
			Role:     models.RoleUser,
			Plan:     s.basicPlan(),
		},
	}
	if err := s.store.create(a); err != nil {
		if errors.Is(err, errTaken) {
			respondWithError(w, http.StatusConflict, "Username or email already exists")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.issue(w, http.StatusCreated, a.user.ID)
}

