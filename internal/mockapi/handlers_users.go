package mockapi

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/dmitrijs2005/botfolio/internal/client/models"
	"github.com/dmitrijs2005/botfolio/internal/common"
	"github.com/go-chi/chi/v5"
)

const (
	maxProfileForm = 16 << 20
	// MaxDesignImage is the largest accepted design upload.
	MaxDesignImage = 1 << 20
)

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	var u *models.User
	if err := s.store.view(userIDFrom(r.Context()), func(a *account) { u = a.user.Clone() }); err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	respondWithJSON(w, http.StatusOK, u)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	var p models.Profile
	if err := s.store.view(userIDFrom(r.Context()), func(a *account) { p = a.profile() }); err != nil {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

func (s *Server) handlePublicProfile(w http.ResponseWriter, r *http.Request) {
	a, ok := s.store.find(chi.URLParam(r, "username"))
	if !ok {
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	p := a.profile()
	p.Email = ""
	respondWithJSON(w, http.StatusOK, p)
}

func (s *Server) handleAllUsers(w http.ResponseWriter, r *http.Request) {
	users := []models.User{}
	s.store.each(func(a *account) {
		u := a.user.Clone()
		u.Email = ""
		users = append(users, *u)
	})
	respondWithJSON(w, http.StatusOK, users)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxProfileForm); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	form := r.MultipartForm

	uploads, err := readUploads(form.File["designImages"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var avatar string
	if files := form.File["profileImage"]; len(files) > 0 {
		avatar = "/uploads/" + newID() + "-" + path.Base(files[0].Filename)
	}

	id := userIDFrom(r.Context())
	username := strings.TrimSpace(r.FormValue("username"))
	email := strings.TrimSpace(r.FormValue("email"))
	if username != "" && !common.ValidUsername(username) {
		respondWithError(w, http.StatusBadRequest, "Username can only contain letters, numbers and underscores")
		return
	}

	var p models.Profile
	err = s.store.update(id, func(a *account) error {
		if s.store.takenLocked(username, email, id) {
			return errTaken
		}
		if v := strings.TrimSpace(r.FormValue("name")); v != "" {
			a.user.Name = v
		}
		if username != "" {
			a.user.Username = username
		}
		if email != "" {
			a.user.Email = email
		}
		if _, ok := form.Value["bio"]; ok {
			a.bio = r.FormValue("bio")
		}
		a.tags = form.Value["tags[]"]
		a.short = form.Value["shortVideos[]"]
		a.long = form.Value["longVideos[]"]
		a.designs = append(append([]string{}, form.Value["existingDesignImages[]"]...), uploads...)

		switch {
		case avatar != "":
			a.user.ProfileImage = avatar
		case r.FormValue("removeProfileImage") == "true":
			a.user.ProfileImage = ""
		}

		p = a.profile()
		return nil
	})
	switch {
	case errors.Is(err, errTaken):
		respondWithError(w, http.StatusConflict, "Username or email already exists")
		return
	case err != nil:
		respondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

// readUploads checks the design images and returns the URLs they are served under.
func readUploads(files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		if fh.Size > MaxDesignImage {
			return nil, fmt.Errorf("image %s exceeds 1MB", fh.Filename)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("unreadable upload %s", fh.Filename)
		}
		_, err = io.Copy(io.Discard, f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("unreadable upload %s", fh.Filename)
		}
		urls = append(urls, "/uploads/"+newID()+"-"+path.Base(fh.Filename))
	}
	return urls, nil
}
