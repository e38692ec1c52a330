package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/botfolio/internal/client/models"
	"github.com/dmitrijs2005/botfolio/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

/*************
 * Recording server
 *************/

type recorded struct {
	method string
	path   string
	auth   string
	body   []byte
	ctype  string
}

func newServer(t *testing.T, status int, reply string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		rec.ctype = r.Header.Get("Content-Type")
		rec.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestLogin_SendsJSONAndDecodesResult(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"user":{"_id":"u1","username":"bob_01","role":"user"},"token":"T1"}`)
	c := NewHTTPClient(srv.URL+"/api", time.Second, nil, nil)

	res, err := c.Login(context.Background(), models.LoginRequest{Identifier: "bob_01", Password: "secret1"})
	require.NoError(t, err)
	require.NotNil(t, res.User)
	assert.Equal(t, "T1", res.Token)
	assert.Equal(t, "bob_01", res.User.Username)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/api/auth/login", rec.path)
	assert.Equal(t, "", rec.auth)
	assert.Equal(t, "application/json", rec.ctype)

	var sent models.LoginRequest
	require.NoError(t, json.Unmarshal(rec.body, &sent))
	assert.Equal(t, "bob_01", sent.Identifier)
}

func TestRequests_CarryBearerToken(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"_id":"u1","username":"bob_01"}`)
	c := NewHTTPClient(srv.URL, time.Second, staticToken("abc"), nil)

	_, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", rec.auth)
	assert.Equal(t, "/users/me", rec.path)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusBadRequest, ErrValidation},
		{http.StatusUnprocessableEntity, ErrValidation},
		{http.StatusInternalServerError, ErrServer},
		{http.StatusServiceUnavailable, ErrUnavailable},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv, _ := newServer(t, tc.status, `{"message":"nope"}`)
			c := NewHTTPClient(srv.URL, time.Second, nil, nil)

			_, err := c.Me(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.True(t, IsStatus(err, tc.status))
			assert.Equal(t, "nope", Message(err, "fallback"))
		})
	}
}

func TestBadRequest_IsValidationError(t *testing.T) {
	srv, _ := newServer(t, http.StatusBadRequest, `{"message":"Username can only contain letters, numbers and underscores"}`)
	c := NewHTTPClient(srv.URL, time.Second, nil, nil)

	_, err := c.Me(context.Background())
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.ErrorIs(t, fmt.Errorf("form: %w", common.ErrValidation), ErrValidation)
}

func TestErrorWithoutBody_UsesStatusText(t *testing.T) {
	srv, _ := newServer(t, http.StatusNotFound, ``)
	c := NewHTTPClient(srv.URL, time.Second, nil, nil)

	err := c.DeleteProject(context.Background(), "p1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "404 Not Found", apiErr.Error())
	assert.Equal(t, "fallback", Message(err, "fallback"))
}

func TestTransportFailure_IsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(url, time.Second, nil, nil)
	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "Server unavailable, please try again later", Message(err, "x"))
}

func TestMalformedBody_IsUnexpected(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{not json`)
	c := NewHTTPClient(srv.URL, time.Second, nil, nil)

	_, err := c.Profile(context.Background())
	assert.ErrorIs(t, err, ErrUnexpectedAPI)
}

func TestCreateOrder_RequiresOrder(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{}`)
	c := NewHTTPClient(srv.URL, time.Second, nil, nil)

	_, err := c.CreateOrder(context.Background(), 2500, "Standard")
	assert.ErrorIs(t, err, ErrUnexpectedAPI)
	assert.JSONEq(t, `{"amount":2500,"planName":"Standard"}`, string(rec.body))
}

func TestUpdateProfile_SendsMultipart(t *testing.T) {
	var form map[string][]string
	var fileNames []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		form = r.MultipartForm.Value
		for _, fh := range r.MultipartForm.File["designImages"] {
			fileNames = append(fileNames, fh.Filename)
		}
		_, _ = io.WriteString(w, `{"_id":"u1","username":"bob_01","shortVideos":["a","b"]}`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, time.Second, staticToken("tok"), nil)
	p, err := c.UpdateProfile(context.Background(), models.ProfileUpdate{
		Name:                 "Bob",
		Username:             "bob_01",
		ShortLinks:           []string{"a", "b"},
		ExistingDesignImages: []string{"old.png"},
		NewDesignImages:      []models.Upload{{Name: "new.png", Data: []byte{1, 2, 3}}},
		RemoveProfileImage:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, p.ShortLinks)

	assert.Equal(t, []string{"a", "b"}, form["shortVideos[]"])
	assert.Equal(t, []string{"old.png"}, form["existingDesignImages[]"])
	assert.Equal(t, []string{"true"}, form["removeProfileImage"])
	assert.Equal(t, []string{"new.png"}, fileNames)
}

func TestPathParameters_AreEscaped(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{}`)
	c := NewHTTPClient(srv.URL, time.Second, nil, nil)

	_, err := c.PublicProfile(context.Background(), "a b")
	require.NoError(t, err)
	assert.Equal(t, "/users/a b", rec.path)
}
