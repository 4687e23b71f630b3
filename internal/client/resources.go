package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"EventHub/internal/interfaces"
	"EventHub/internal/model"
	"EventHub/internal/repository"
	"EventHub/internal/service"
)

// HealthStatus GET /api/health
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// DatabaseHealth GET /api/health/db
type DatabaseHealth struct {
	Connected bool      `json:"connected"`
	Message   string    `json:"message"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DatabaseHealth(ctx context.Context) (*DatabaseHealth, error) {
	var out DatabaseHealth
	if err := c.do(ctx, http.MethodGet, "/api/health/db", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- examples ----

func (c *Client) ListExamples(ctx context.Context, name string) ([]*model.Example, error) {
	q := url.Values{}
	if name != "" {
		q.Set("name", name)
	}
	var out []*model.Example
	if err := c.do(ctx, http.MethodGet, "/api/examples", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetExample(ctx context.Context, id uint64) (*model.Example, error) {
	var out model.Example
	if err := c.do(ctx, http.MethodGet, idPath("/api/examples", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateExample(ctx context.Context, in service.ExampleInput) (*model.Example, error) {
	var out model.Example
	if err := c.do(ctx, http.MethodPost, "/api/examples", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateExample(ctx context.Context, id uint64, in service.ExampleInput) (*model.Example, error) {
	var out model.Example
	if err := c.do(ctx, http.MethodPut, idPath("/api/examples", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteExample(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/examples", id), nil, nil, nil)
}

// ---- events ----

func (c *Client) ListEvents(ctx context.Context, status model.EventStatus) ([]*model.Event, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	var out []*model.Event
	if err := c.do(ctx, http.MethodGet, "/api/events", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetEvent(ctx context.Context, id uint64) (*model.Event, error) {
	return c.event(ctx, http.MethodGet, idPath("/api/events", id), nil)
}

func (c *Client) CreateEvent(ctx context.Context, req service.CreateEventRequest) (*model.Event, error) {
	return c.event(ctx, http.MethodPost, "/api/events", req)
}

func (c *Client) UpdateEvent(ctx context.Context, id uint64, req service.UpdateEventRequest) (*model.Event, error) {
	return c.event(ctx, http.MethodPatch, idPath("/api/events", id), req)
}

func (c *Client) StartEvent(ctx context.Context, id uint64) (*model.Event, error) {
	return c.event(ctx, http.MethodPost, idPath("/api/events", id, "start"), nil)
}

func (c *Client) CompleteEvent(ctx context.Context, id uint64) (*model.Event, error) {
	return c.event(ctx, http.MethodPost, idPath("/api/events", id, "complete"), nil)
}

func (c *Client) event(ctx context.Context, method, path string, in interface{}) (*model.Event, error) {
	var out model.Event
	if err := c.do(ctx, method, path, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/events", id), nil, nil, nil)
}

// Rankings limit <= 0 时使用服务端默认值
func (c *Client) Rankings(ctx context.Context, eventID uint64, limit int) ([]service.RankingEntry, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []service.RankingEntry
	if err := c.do(ctx, http.MethodGet, idPath("/api/events", eventID, "rankings"), q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) EventStats(ctx context.Context, eventID uint64) (*service.EventStats, error) {
	var out service.EventStats
	if err := c.do(ctx, http.MethodGet, idPath("/api/events", eventID, "stats"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- participants ----

func (c *Client) Join(ctx context.Context, req service.JoinRequest) (*model.Participant, error) {
	return c.participant(ctx, http.MethodPost, "/api/participants", req)
}

func (c *Client) GetParticipant(ctx context.Context, id uint64) (*model.Participant, error) {
	return c.participant(ctx, http.MethodGet, idPath("/api/participants", id), nil)
}

func (c *Client) ResetParticipant(ctx context.Context, id uint64) (*model.Participant, error) {
	return c.participant(ctx, http.MethodPost, idPath("/api/participants", id, "reset"), nil)
}

func (c *Client) participant(ctx context.Context, method, path string, in interface{}) (*model.Participant, error) {
	var out model.Participant
	if err := c.do(ctx, method, path, nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ParticipantStats(ctx context.Context, id uint64) (*service.ParticipantStats, error) {
	var out service.ParticipantStats
	if err := c.do(ctx, http.MethodGet, idPath("/api/participants", id, "stats"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ParticipantBadges(ctx context.Context, id uint64) ([]*model.ParticipantBadge, error) {
	var out []*model.ParticipantBadge
	if err := c.do(ctx, http.MethodGet, idPath("/api/participants", id, "badges"), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ---- questions ----

// ListQuestions eventID 为 0 时返回全部问题
func (c *Client) ListQuestions(ctx context.Context, eventID uint64) ([]*model.Question, error) {
	q := url.Values{}
	if eventID != 0 {
		q.Set("event_id", strconv.FormatUint(eventID, 10))
	}
	var out []*model.Question
	if err := c.do(ctx, http.MethodGet, "/api/questions", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetQuestion(ctx context.Context, id uint64) (*model.Question, error) {
	var out model.Question
	if err := c.do(ctx, http.MethodGet, idPath("/api/questions", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateQuestion(ctx context.Context, req service.CreateQuestionRequest) (*model.Question, error) {
	var out model.Question
	if err := c.do(ctx, http.MethodPost, "/api/questions", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GenerateQuestion(ctx context.Context, req service.GenerateQuestionRequest) (*interfaces.GeneratedQuestion, error) {
	var out interfaces.GeneratedQuestion
	if err := c.do(ctx, http.MethodPost, "/api/questions/generate", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteQuestion(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/questions", id), nil, nil, nil)
}

// ---- responses ----

func (c *Client) ListResponses(ctx context.Context, filter repository.ResponseFilter) ([]*model.Response, error) {
	q := url.Values{}
	if filter.QuestionID != 0 {
		q.Set("question_id", strconv.FormatUint(filter.QuestionID, 10))
	}
	if filter.ParticipantID != 0 {
		q.Set("participant_id", strconv.FormatUint(filter.ParticipantID, 10))
	}
	var out []*model.Response
	if err := c.do(ctx, http.MethodGet, "/api/responses", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetResponse(ctx context.Context, id uint64) (*model.Response, error) {
	var out model.Response
	if err := c.do(ctx, http.MethodGet, idPath("/api/responses", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateResponse(ctx context.Context, req service.CreateResponseRequest) (*model.Response, error) {
	var out model.Response
	if err := c.do(ctx, http.MethodPost, "/api/responses", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) TopQualityResponses(ctx context.Context, eventID uint64, limit int) ([]*model.Response, error) {
	q := url.Values{"event_id": {strconv.FormatUint(eventID, 10)}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []*model.Response
	if err := c.do(ctx, http.MethodGet, "/api/responses/top/quality", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ---- messages ----

func (c *Client) ListMessages(ctx context.Context, eventID uint64, limit int) ([]*model.Message, error) {
	q := url.Values{"event_id": {strconv.FormatUint(eventID, 10)}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []*model.Message
	if err := c.do(ctx, http.MethodGet, "/api/messages", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateMessage(ctx context.Context, req service.CreateMessageRequest) (*model.Message, error) {
	var out model.Message
	if err := c.do(ctx, http.MethodPost, "/api/messages", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMessage(ctx context.Context, id uint64) error {
	return c.do(ctx, http.MethodDelete, idPath("/api/messages", id), nil, nil, nil)
}
