package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"trainingevents/internal/domain"
	"trainingevents/internal/domain/entities"
	"trainingevents/internal/ports/output"
)

var (
	_ output.UserDirectory       = (*UserClient)(nil)
	_ output.LessonPlanDirectory = (*LessonPlanClient)(nil)
	_ output.AddressDirectory    = (*AddressClient)(nil)
)

// client performs JSON GET requests against one directory service.
type client struct {
	baseURL string
	http    *http.Client
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// getJSON decodes the response body into out. found is false on 404.
func (c *client) getJSON(ctx context.Context, path string, query url.Values, out any) (found bool, err error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 300:
		return false, fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

// UserClient reads users from the user service (/api/users).
type UserClient struct {
	c *client
}

func NewUserClient(baseURL string, timeout time.Duration) *UserClient {
	return &UserClient{c: newClient(baseURL, timeout)}
}

func (uc *UserClient) GetUser(ctx context.Context, id int64) (*entities.User, error) {
	var u entities.User
	found, err := uc.c.getJSON(ctx, "/api/users/"+strconv.FormatInt(id, 10), nil, &u)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (uc *UserClient) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	var users []entities.User
	found, err := uc.c.getJSON(ctx, "/api/users", url.Values{"username": {username}}, &users)
	if err != nil {
		return nil, err
	}
	if !found || len(users) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return &users[0], nil
}

// LessonPlanClient reads lesson plans from the lesson service (/api/lessonplans).
type LessonPlanClient struct {
	c *client
}

func NewLessonPlanClient(baseURL string, timeout time.Duration) *LessonPlanClient {
	return &LessonPlanClient{c: newClient(baseURL, timeout)}
}

func (lc *LessonPlanClient) ExistsLessonPlan(ctx context.Context, id int64) (bool, error) {
	_, err := lc.GetLessonPlan(ctx, id)
	if errors.Is(err, domain.ErrLessonPlanNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (lc *LessonPlanClient) ListPresentableLessonPlans(ctx context.Context) ([]int64, error) {
	var plans []entities.LessonPlan
	if _, err := lc.c.getJSON(ctx, "/api/lessonplans", url.Values{"presentable": {"true"}}, &plans); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(plans))
	for _, lp := range plans {
		ids = append(ids, lp.ID)
	}
	return ids, nil
}

func (lc *LessonPlanClient) GetLessonPlan(ctx context.Context, id int64) (*entities.LessonPlan, error) {
	var lp entities.LessonPlan
	found, err := lc.c.getJSON(ctx, "/api/lessonplans/"+strconv.FormatInt(id, 10), nil, &lp)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrLessonPlanNotFound
	}
	return &lp, nil
}

// AddressClient reads addresses from the address service (/api/addresses).
type AddressClient struct {
	c *client
}

func NewAddressClient(baseURL string, timeout time.Duration) *AddressClient {
	return &AddressClient{c: newClient(baseURL, timeout)}
}

func (ac *AddressClient) GetAddress(ctx context.Context, id int64) (*entities.Address, error) {
	var a entities.Address
	found, err := ac.c.getJSON(ctx, "/api/addresses/"+strconv.FormatInt(id, 10), nil, &a)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrAddressNotFound
	}
	return &a, nil
}
