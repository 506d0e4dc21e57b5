// Package client provides the API client for interacting with the job API
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/api/v1/handlers"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/api/v1/routes"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/db/models"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/types"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// Client is the interface for API client
type Client interface {
	// Health Check
	HealthCheck(ctx context.Context) (map[string]string, error)

	// Job Endpoints
	CreateJob(ctx context.Context, req types.CreateJobRequest) (models.Job, error)
	GetJob(ctx context.Context, id uint) (models.Job, error)
	UpdateStatus(ctx context.Context, id uint, req types.UpdateStatusRequest) (models.Job, error)
	RejectJob(ctx context.Context, id uint, req types.RejectJobRequest) (models.Job, error)

	// Bulk Endpoints
	BulkAssign(ctx context.Context, req types.BulkAssignRequest) (types.BulkResult, error)
	BulkUpdate(ctx context.Context, req types.BulkUpdateRequest) (types.BulkResult, error)
	BulkDelete(ctx context.Context, req types.BulkDeleteRequest) (types.BulkResult, error)
}

var _ Client = &APIClient{}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string

	// Timeout is the request timeout
	Timeout time.Duration

	// ActorID and ActorRole identify the caller. The gateway normally
	// injects these headers; the client sets them directly.
	ActorID   uint
	ActorRole models.UserRole
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: routes.DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL   string
	timeout   time.Duration
	actorID   uint
	actorRole models.UserRole
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	// Validate the base URL
	_, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return &APIClient{
		baseURL:   opts.BaseURL,
		timeout:   opts.Timeout,
		actorID:   opts.ActorID,
		actorRole: opts.ActorRole,
	}, nil
}

// createAgent creates a new Fiber Agent for the given method and endpoint
func (c *APIClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	fullURL := c.baseURL + endpoint

	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	case http.MethodDelete:
		agent = fiber.Delete(fullURL)
	case http.MethodPatch:
		agent = fiber.Patch(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	// Set timeout from context or client default
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	agent.Set("Content-Type", "application/json")
	agent.Set("Accept", "application/json")
	if c.actorID != 0 {
		agent.Set(handlers.HeaderActorID, strconv.FormatUint(uint64(c.actorID), 10))
		agent.Set(handlers.HeaderActorRole, string(c.actorRole))
	}

	if body != nil {
		agent.JSON(body)
	}

	return agent, nil
}

// doRequest sends the HTTP request, unwraps the response envelope, and
// decodes the data payload into v
func (c *APIClient) doRequest(agent *fiber.Agent, v interface{}) error {
	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("error sending request: %w", errs[0])
	}

	var envelope handlers.Response
	if len(body) > 0 {
		if err := json.Unmarshal(body, &envelope); err != nil {
			// Not an envelope; surface the raw body
			if statusCode < 200 || statusCode >= 300 {
				return &fiber.Error{Code: statusCode, Message: string(body)}
			}
			return fmt.Errorf("error decoding response: %w", err)
		}
	}

	if statusCode < 200 || statusCode >= 300 {
		msg := envelope.Error
		if msg == "" {
			msg = string(body)
		}
		return &fiber.Error{
			Code:    statusCode,
			Message: msg,
		}
	}

	if v != nil && envelope.Data != nil {
		dataJSON, err := json.Marshal(envelope.Data)
		if err != nil {
			return fmt.Errorf("error marshaling data: %w", err)
		}
		if err := json.Unmarshal(dataJSON, v); err != nil {
			return fmt.Errorf("error decoding data: %w", err)
		}
	}

	return nil
}

// executeRequest creates an agent, sends the request, and processes the response
func (c *APIClient) executeRequest(ctx context.Context, method, endpoint string, body, response interface{}) error {
	agent, err := c.createAgent(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	return c.doRequest(agent, response)
}

// HealthCheck checks the health of the API server
func (c *APIClient) HealthCheck(ctx context.Context) (map[string]string, error) {
	agent, err := c.createAgent(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}

	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("error sending request: %w", errs[0])
	}
	if statusCode != http.StatusOK {
		return nil, &fiber.Error{Code: statusCode, Message: string(body)}
	}

	var health map[string]string
	if err := json.Unmarshal(body, &health); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	return health, nil
}

// CreateJob creates a new job
func (c *APIClient) CreateJob(ctx context.Context, req types.CreateJobRequest) (models.Job, error) {
	var job models.Job
	err := c.executeRequest(ctx, http.MethodPost, routes.APIPrefix+routes.JobsPath, req, &job)
	return job, err
}

// GetJob fetches a single job by ID
func (c *APIClient) GetJob(ctx context.Context, id uint) (models.Job, error) {
	var job models.Job
	endpoint := fmt.Sprintf("%s%s/%d", routes.APIPrefix, routes.JobsPath, id)
	err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &job)
	return job, err
}

// UpdateStatus moves a job to a new lifecycle status
func (c *APIClient) UpdateStatus(ctx context.Context, id uint, req types.UpdateStatusRequest) (models.Job, error) {
	var job models.Job
	endpoint := fmt.Sprintf("%s%s/%d/status", routes.APIPrefix, routes.JobsPath, id)
	err := c.executeRequest(ctx, http.MethodPatch, endpoint, req, &job)
	return job, err
}

// RejectJob lets an assigned technician hand a job back
func (c *APIClient) RejectJob(ctx context.Context, id uint, req types.RejectJobRequest) (models.Job, error) {
	var job models.Job
	endpoint := fmt.Sprintf("%s%s/%d/reject", routes.APIPrefix, routes.JobsPath, id)
	err := c.executeRequest(ctx, http.MethodPost, endpoint, req, &job)
	return job, err
}

// BulkAssign assigns a technician to a batch of jobs
func (c *APIClient) BulkAssign(ctx context.Context, req types.BulkAssignRequest) (types.BulkResult, error) {
	var result types.BulkResult
	err := c.executeRequest(ctx, http.MethodPost, routes.APIPrefix+routes.BulkAssignPath, req, &result)
	return result, err
}

// BulkUpdate applies one patch to a batch of jobs
func (c *APIClient) BulkUpdate(ctx context.Context, req types.BulkUpdateRequest) (types.BulkResult, error) {
	var result types.BulkResult
	err := c.executeRequest(ctx, http.MethodPatch, routes.APIPrefix+routes.BulkPath, req, &result)
	return result, err
}

// BulkDelete removes a batch of jobs
func (c *APIClient) BulkDelete(ctx context.Context, req types.BulkDeleteRequest) (types.BulkResult, error) {
	var result types.BulkResult
	err := c.executeRequest(ctx, http.MethodDelete, routes.APIPrefix+routes.BulkPath, req, &result)
	return result, err
}
