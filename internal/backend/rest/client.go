package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"gtodo/internal/config"
	"gtodo/internal/service"
)

// TodosPath is the collection path of the todo API.
const TodosPath = "/api/todos"

// Client implements service.Service using the todo REST API.
type Client struct {
	fetcher *Fetcher
	cfg     *config.Config
}

// New creates a client for the servers and timeout in cfg.
func New(cfg *config.Config) (*Client, error) {
	return NewWithHTTPClient(cfg, http.DefaultClient)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(cfg *config.Config, httpClient *http.Client) (*Client, error) {
	if len(cfg.Servers) == 0 {
		return nil, ErrNoServers
	}
	servers := make([]string, len(cfg.Servers))
	copy(servers, cfg.Servers)

	return &Client{
		fetcher: &Fetcher{
			HTTPClient: httpClient,
			Servers:    servers,
			UserAgent:  config.UserAgent(),
			Logger:     cfg.Log().With("component", "rest"),
		},
		cfg: cfg,
	}, nil
}

// Servers returns the base addresses in the order they are tried.
func (c *Client) Servers() []string {
	out := make([]string, len(c.fetcher.Servers))
	copy(out, c.fetcher.Servers)
	return out
}

// ListTasks returns every task in server order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	data, err := c.fetcher.Fetch(ctx, TodosPath, Request{})
	if err != nil {
		return nil, err
	}

	var tasks []service.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decode task list: %w", err)
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	return tasks, nil
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, task service.NewTask) (service.Task, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	data, err := c.fetcher.Fetch(ctx, TodosPath, Request{
		Method: http.MethodPost,
		Body:   task,
	})
	if err != nil {
		return service.Task{}, err
	}
	return decodeTask(data)
}

// UpdateTask sends the full task body to the task's resource.
func (c *Client) UpdateTask(ctx context.Context, task service.Task) (service.Task, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	data, err := c.fetcher.Fetch(ctx, taskPath(task.ID), Request{
		Method: http.MethodPut,
		Body:   task,
	})
	if err != nil {
		return service.Task{}, err
	}
	return decodeTask(data)
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id service.ID) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, err := c.fetcher.Fetch(ctx, taskPath(id), Request{Method: http.MethodDelete})
	return err
}

// withTimeout bounds a logical call when a timeout is configured.
// The fetcher itself never adds one.
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg == nil || c.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.cfg.Timeout)
}

func taskPath(id service.ID) string {
	return TodosPath + "/" + url.PathEscape(id.String())
}

func decodeTask(data []byte) (service.Task, error) {
	var task service.Task
	if err := json.Unmarshal(data, &task); err != nil {
		return service.Task{}, fmt.Errorf("decode task: %w", err)
	}
	return task, nil
}
