package directory

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"trainingevents/internal/domain"
	"trainingevents/internal/domain/entities"
	"trainingevents/internal/ports/output"
)

var (
	_ output.UserDirectory       = (*Static)(nil)
	_ output.LessonPlanDirectory = (*Static)(nil)
	_ output.AddressDirectory    = (*Static)(nil)
)

// Data is the content of a static directory file.
type Data struct {
	Users       []entities.User       `yaml:"users"`
	LessonPlans []entities.LessonPlan `yaml:"lessonPlans"`
	Addresses   []entities.Address    `yaml:"addresses"`
}

// Static serves users, lesson plans and addresses from memory. It stands in
// for the remote directories in local setups.
type Static struct {
	mu         sync.RWMutex
	users      map[int64]entities.User
	byUsername map[string]int64
	plans      map[int64]entities.LessonPlan
	addresses  map[int64]entities.Address
}

func NewStatic(d Data) *Static {
	s := &Static{
		users:      make(map[int64]entities.User, len(d.Users)),
		byUsername: make(map[string]int64, len(d.Users)),
		plans:      make(map[int64]entities.LessonPlan, len(d.LessonPlans)),
		addresses:  make(map[int64]entities.Address, len(d.Addresses)),
	}
	for _, u := range d.Users {
		s.PutUser(u)
	}
	for _, lp := range d.LessonPlans {
		s.PutLessonPlan(lp)
	}
	for _, a := range d.Addresses {
		s.addresses[a.ID] = a
	}
	return s
}

// LoadFile reads a YAML directory file.
func LoadFile(path string) (*Static, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("directory: read %s: %w", path, err)
	}
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("directory: parse %s: %w", path, err)
	}
	return NewStatic(d), nil
}

func (s *Static) PutUser(u entities.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	if u.Username != "" {
		s.byUsername[u.Username] = u.ID
	}
}

func (s *Static) PutLessonPlan(lp entities.LessonPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[lp.ID] = lp
}

func (s *Static) GetUser(_ context.Context, id int64) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (s *Static) GetUserByUsername(_ context.Context, username string) (*entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := s.users[id]
	return &u, nil
}

func (s *Static) ExistsLessonPlan(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.plans[id]
	return ok, nil
}

// ListPresentableLessonPlans returns presentable plan IDs, ascending.
func (s *Static) ListPresentableLessonPlans(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := []int64{}
	for id, lp := range s.plans {
		if lp.Presentable {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *Static) GetLessonPlan(_ context.Context, id int64) (*entities.LessonPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lp, ok := s.plans[id]
	if !ok {
		return nil, domain.ErrLessonPlanNotFound
	}
	lp.Activities = append([]entities.Activity(nil), lp.Activities...)
	return &lp, nil
}

func (s *Static) GetAddress(_ context.Context, id int64) (*entities.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.addresses[id]
	if !ok {
		return nil, domain.ErrAddressNotFound
	}
	return &a, nil
}
