package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"eapmetrics/internal/cache"
	"eapmetrics/internal/model"
)

type stubSurveyRepo struct {
	mu      sync.Mutex
	surveys map[string]*model.SurveyInstance
	nextID  int
}

func newStubSurveyRepo(surveys ...*model.SurveyInstance) *stubSurveyRepo {
	r := &stubSurveyRepo{surveys: map[string]*model.SurveyInstance{}}
	for _, s := range surveys {
		r.surveys[s.ID] = s
	}
	return r
}

func (r *stubSurveyRepo) Create(_ context.Context, s *model.SurveyInstance) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.ID = fmt.Sprintf("survey-%d", r.nextID)
	r.surveys[s.ID] = s
	return s.ID, nil
}

func (r *stubSurveyRepo) GetByID(_ context.Context, id string) (*model.SurveyInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.surveys[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *stubSurveyRepo) ListByCompany(_ context.Context, companyID string) ([]*model.SurveyInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.SurveyInstance{}
	for _, s := range r.surveys {
		if s.CompanyID == companyID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubSurveyRepo) Previous(_ context.Context, survey *model.SurveyInstance) (*model.SurveyInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var prev *model.SurveyInstance
	for _, s := range r.surveys {
		if s.CompanyID != survey.CompanyID || !s.StartDate.Before(survey.StartDate) {
			continue
		}
		if prev == nil || s.StartDate.After(prev.StartDate) {
			prev = s
		}
	}
	return prev, nil
}

func (r *stubSurveyRepo) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.surveys[id]; ok {
		s.IsActive = active
	}
	return nil
}

type stubResponseRepo struct {
	mu        sync.Mutex
	responses map[string][]*model.Response
	listCalls int
	err       error
}

func newStubResponseRepo() *stubResponseRepo {
	return &stubResponseRepo{responses: map[string][]*model.Response{}}
}

func (r *stubResponseRepo) add(surveyID string, responses ...*model.Response) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[surveyID] = append(r.responses[surveyID], responses...)
}

func (r *stubResponseRepo) Create(_ context.Context, resp *model.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	resp.ID = fmt.Sprintf("resp-%d", len(r.responses[resp.SurveyID])+1)
	r.responses[resp.SurveyID] = append(r.responses[resp.SurveyID], resp)
	return nil
}

func (r *stubResponseRepo) ListBySurvey(_ context.Context, surveyID string) ([]*model.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.err != nil {
		return nil, r.err
	}
	return append([]*model.Response(nil), r.responses[surveyID]...), nil
}

func (r *stubResponseRepo) CountBySurvey(_ context.Context, surveyID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.responses[surveyID])), nil
}

func (r *stubResponseRepo) EnsureIndexes(context.Context) error { return nil }

func (r *stubResponseRepo) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listCalls
}

type stubCompanyRepo struct {
	companies map[string]*model.Company
}

func (r *stubCompanyRepo) GetByID(_ context.Context, id string) (*model.Company, error) {
	return r.companies[id], nil
}

func (r *stubCompanyRepo) EmployeeCount(_ context.Context, companyID string) (int, error) {
	if c, ok := r.companies[companyID]; ok {
		return c.EmployeeCount, nil
	}
	return 0, nil
}

func (r *stubCompanyRepo) Upsert(_ context.Context, c *model.Company) error {
	r.companies[c.ID] = c
	return nil
}

// memCache mirrors the Redis cache: JSON values plus a per-survey key index
type memCache struct {
	mu    sync.Mutex
	data  map[string][]byte
	index map[string]map[string]bool
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, index: map[string]map[string]bool{}}
}

func (c *memCache) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) Set(_ context.Context, key string, v interface{}, surveyIDs ...string) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	for _, id := range surveyIDs {
		if c.index[id] == nil {
			c.index[id] = map[string]bool{}
		}
		c.index[id][key] = true
	}
	return nil
}

func (c *memCache) Invalidate(_ context.Context, surveyID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.index[surveyID] {
		delete(c.data, key)
	}
	delete(c.index, surveyID)
	return nil
}

func (c *memCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

type stubFeed struct {
	mu        sync.Mutex
	published []cache.ResponseEvent
	events    chan cache.ResponseEvent
	err       error
}

func newStubFeed() *stubFeed {
	return &stubFeed{events: make(chan cache.ResponseEvent, 16)}
}

func (f *stubFeed) Publish(_ context.Context, ev *cache.ResponseEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, *ev)
	return nil
}

func (f *stubFeed) Subscribe(context.Context) (<-chan cache.ResponseEvent, func() error) {
	return f.events, func() error { return nil }
}

type broadcast struct {
	surveyID string
	msgType  string
	payload  interface{}
}

type stubBroadcaster struct {
	mu         sync.Mutex
	dashboards map[string]int
	sent       []broadcast
	notify     chan broadcast
}

func newStubBroadcaster(dashboards map[string]int) *stubBroadcaster {
	return &stubBroadcaster{dashboards: dashboards, notify: make(chan broadcast, 16)}
}

func (b *stubBroadcaster) BroadcastToDashboards(surveyID, msgType string, payload interface{}) {
	msg := broadcast{surveyID, msgType, payload}
	b.mu.Lock()
	b.sent = append(b.sent, msg)
	b.mu.Unlock()
	select {
	case b.notify <- msg:
	default:
	}
}

func (b *stubBroadcaster) DashboardCount(surveyID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dashboards[surveyID]
}

func (b *stubBroadcaster) messages(msgType string) []broadcast {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []broadcast
	for _, m := range b.sent {
		if m.msgType == msgType {
			out = append(out, m)
		}
	}
	return out
}
