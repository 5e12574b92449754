package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/sharestory/internal/client/models"
	"github.com/dmitrijs2005/sharestory/internal/client/session"
	"github.com/dmitrijs2005/sharestory/internal/common"
	"github.com/sethvargo/go-retry"
)

const defaultPhotoName = "photo.jpg"

// HTTPClient implements Client over the REST API.
type HTTPClient struct {
	baseURL string
	sess    *session.Session
	http    *http.Client
}

// NewHTTPClient returns a Client for the API at baseURL. The session is
// shared with the caller: when login updates the token, subsequent requests
// pick it up.
func NewHTTPClient(baseURL string, sess *session.Session, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		sess:    sess,
		http:    &http.Client{Timeout: timeout},
	}
}

// apiResponse is the common envelope of every API reply.
type apiResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type remoteStory struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PhotoURL    string   `json:"photoUrl"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	CreatedAt   string   `json:"createdAt"`
}

func (rs *remoteStory) toModel() (*models.Story, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, rs.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("malformed createdAt in story %s: %w", rs.ID, err)
	}
	return &models.Story{
		ID:          rs.ID,
		Name:        rs.Name,
		Description: rs.Description,
		PhotoURL:    rs.PhotoURL,
		Lat:         rs.Lat,
		Lon:         rs.Lon,
		CreatedAt:   createdAt,
	}, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.sess.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+c.sess.Token)
	}
	return req, nil
}

// do executes the request and maps failures onto the shared error taxonomy:
// transport problems wrap ErrUnavailable, non-2xx replies wrap ErrUnauthorized
// or ErrRemoteRejected with the server's message.
func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiResponse
		msg := http.StatusText(resp.StatusCode)
		if jsonErr := json.Unmarshal(body, &apiErr); jsonErr == nil && apiErr.Message != "" {
			msg = apiErr.Message
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %s", common.ErrUnauthorized, msg)
		}
		return fmt.Errorf("%w: %s", common.ErrRemoteRejected, msg)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// PostStory uploads one story as a multipart form: description, the photo as
// a file part, and optional coordinates.
func (c *HTTPClient) PostStory(ctx context.Context, storyReq NewStoryRequest) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("description", storyReq.Description); err != nil {
		return err
	}

	name := storyReq.PhotoName
	if name == "" {
		name = defaultPhotoName
	}
	part, err := mw.CreateFormFile("photo", name)
	if err != nil {
		return err
	}
	if _, err := part.Write(storyReq.Photo); err != nil {
		return err
	}

	if storyReq.Lat != nil && storyReq.Lon != nil {
		if err := mw.WriteField("lat", strconv.FormatFloat(*storyReq.Lat, 'f', -1, 64)); err != nil {
			return err
		}
		if err := mw.WriteField("lon", strconv.FormatFloat(*storyReq.Lon, 'f', -1, 64)); err != nil {
			return err
		}
	}

	if err := mw.Close(); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/stories", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.do(req, nil)
}

// GetStories fetches the remote story list. The read is idempotent, so
// transient transport failures are retried with fibonacci backoff; server
// rejections are returned as-is.
func (c *HTTPClient) GetStories(ctx context.Context) ([]models.Story, error) {
	var payload struct {
		apiResponse
		ListStory []remoteStory `json:"listStory"`
	}

	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := c.newRequest(ctx, http.MethodGet, "/stories", nil)
		if err != nil {
			return err
		}
		if err := c.do(req, &payload); err != nil {
			if errors.Is(err, common.ErrUnavailable) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]models.Story, 0, len(payload.ListStory))
	for _, rs := range payload.ListStory {
		s, err := rs.toModel()
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, nil
}

// GetStoryByID fetches a single remote story.
func (c *HTTPClient) GetStoryByID(ctx context.Context, id string) (*models.Story, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/stories/"+id, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		apiResponse
		Story remoteStory `json:"story"`
	}
	if err := c.do(req, &payload); err != nil {
		return nil, err
	}
	return payload.Story.toModel()
}

// Login authenticates against the API and returns the issued token.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/login", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var payload struct {
		apiResponse
		LoginResult struct {
			UserID string `json:"userId"`
			Name   string `json:"name"`
			Token  string `json:"token"`
		} `json:"loginResult"`
	}
	if err := c.do(req, &payload); err != nil {
		return nil, err
	}

	return &LoginResult{
		UserID: payload.LoginResult.UserID,
		Name:   payload.LoginResult.Name,
		Token:  payload.LoginResult.Token,
	}, nil
}

// Register creates an account.
func (c *HTTPClient) Register(ctx context.Context, name, email, password string) error {
	body, err := json.Marshal(map[string]string{"name": name, "email": email, "password": password})
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/register", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, nil)
}
