package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/botfolio/internal/client/models"
	"github.com/dmitrijs2005/botfolio/internal/common"
	"github.com/dmitrijs2005/botfolio/internal/logging"
	"github.com/dmitrijs2005/botfolio/internal/netx"
)

// maxErrorBody bounds how much of an error response is read for its message.
const maxErrorBody = 64 << 10

// HTTPClient is the REST implementation of Client.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger
}

// NewHTTPClient builds a client for the API rooted at baseURL
// (e.g. "http://127.0.0.1:8080/api"). tokens may be nil for anonymous use.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource, log logging.Logger) *HTTPClient {
	if log == nil {
		log = logging.Nop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	var res models.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResult, error) {
	var res models.AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/signup", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) GoogleAuth(ctx context.Context, idToken string) (*models.GoogleAuthResult, error) {
	var res models.GoogleAuthResult
	body := map[string]string{"token": idToken}
	if err := c.do(ctx, http.MethodPost, "/users/auth/google", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) CompleteGoogleSignup(ctx context.Context, req models.CompleteGoogleSignupRequest) (*models.AuthResult, error) {
	var res models.AuthResult
	if err := c.do(ctx, http.MethodPost, "/users/auth/google/complete-signup", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, http.MethodGet, "/users/profile", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile sends the whole editable profile as multipart/form-data.
func (c *HTTPClient) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.Profile, error) {
	fields := []netx.Field{
		{Name: "name", Value: upd.Name},
		{Name: "username", Value: upd.Username},
		{Name: "email", Value: upd.Email},
		{Name: "bio", Value: upd.Bio},
	}
	appendAll := func(name string, values []string) {
		for _, v := range values {
			fields = append(fields, netx.Field{Name: name, Value: v})
		}
	}
	appendAll("tags[]", upd.Tags)
	appendAll("shortVideos[]", upd.ShortLinks)
	appendAll("longVideos[]", upd.LongLinks)
	appendAll("existingDesignImages[]", upd.ExistingDesignImages)
	if upd.RemoveProfileImage {
		fields = append(fields, netx.Field{Name: "removeProfileImage", Value: "true"})
	}

	var files []netx.FilePart
	for _, img := range upd.NewDesignImages {
		files = append(files, netx.FilePart{Field: "designImages", FileName: img.Name, Data: img.Data})
	}
	if upd.ProfileImage != nil {
		files = append(files, netx.FilePart{Field: "profileImage", FileName: upd.ProfileImage.Name, Data: upd.ProfileImage.Data})
	}

	body, contentType, err := netx.MultipartBody(fields, files)
	if err != nil {
		return nil, fmt.Errorf("encode profile form: %w", err)
	}

	var p models.Profile
	if err := c.send(ctx, http.MethodPut, "/users/profile", body, contentType, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) PublicProfile(ctx context.Context, username string) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(username), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) AllUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/all-users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) CreateOrder(ctx context.Context, amount int64, planName string) (*models.Order, error) {
	req := struct {
		Amount   int64  `json:"amount"`
		PlanName string `json:"planName"`
	}{amount, planName}
	var res struct {
		Order *models.Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodPost, "/payment/create-order", req, &res); err != nil {
		return nil, err
	}
	if res.Order == nil {
		return nil, fmt.Errorf("%w: create-order returned no order", ErrUnexpectedAPI)
	}
	return res.Order, nil
}

func (c *HTTPClient) VerifyPayment(ctx context.Context, conf models.PaymentConfirmation) error {
	return c.do(ctx, http.MethodPost, "/payment/verify-payment", conf, nil)
}

func (c *HTTPClient) Projects(ctx context.Context) ([]models.Project, error) {
	var ps []models.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

func (c *HTTPClient) CreateProject(ctx context.Context, p models.Project) (*models.Project, error) {
	var res models.Project
	if err := c.do(ctx, http.MethodPost, "/projects", p, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) UpdateProject(ctx context.Context, p models.Project) (*models.Project, error) {
	var res models.Project
	if err := c.do(ctx, http.MethodPut, "/projects/"+url.PathEscape(p.ID), p, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) Tasks(ctx context.Context, projectID string) ([]models.Task, error) {
	var ts []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks/project/"+url.PathEscape(projectID), nil, &ts); err != nil {
		return nil, err
	}
	return ts, nil
}

func (c *HTTPClient) CreateTask(ctx context.Context, projectID string, t models.Task) (*models.Task, error) {
	var res models.Task
	if err := c.do(ctx, http.MethodPost, "/tasks/project/"+url.PathEscape(projectID), t, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) UpdateTask(ctx context.Context, t models.Task) (*models.Task, error) {
	var res models.Task
	if err := c.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(t.ID), t, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) TaskSummary(ctx context.Context) (*models.TaskSummary, error) {
	var s models.TaskSummary
	if err := c.do(ctx, http.MethodGet, "/tasks/summary", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) AdminUsers(ctx context.Context) ([]models.AdminUser, error) {
	var users []models.AdminUser
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *HTTPClient) AdminUpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(id), upd, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) AdminDeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) AdminPortfolioLinks(ctx context.Context) ([]models.PortfolioLink, error) {
	var links []models.PortfolioLink
	if err := c.do(ctx, http.MethodGet, "/admin/portfolio-links", nil, &links); err != nil {
		return nil, err
	}
	return links, nil
}

func (c *HTTPClient) AdminRemovePortfolioLink(ctx context.Context, link models.PortfolioLink) error {
	return c.do(ctx, http.MethodPost, "/admin/portfolio-links/remove", link, nil)
}

func (c *HTTPClient) AdminAnalytics(ctx context.Context) (*models.Analytics, error) {
	var a models.Analytics
	if err := c.do(ctx, http.MethodGet, "/admin/analytics", nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// do sends in as JSON (when non-nil) and decodes the response into out (when non-nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}
	return c.send(ctx, method, path, body, contentType, out)
}

func (c *HTTPClient) send(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeAPIError(resp)
		c.log.Debug(ctx, "request rejected", "method", method, "path", path, "status", resp.StatusCode)
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %w", ErrUnexpectedAPI, method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}

// IsStatus reports whether err is an API answer with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

var _ Client = (*HTTPClient)(nil)
