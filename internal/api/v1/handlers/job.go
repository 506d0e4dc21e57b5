package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/access"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/api/v1/services"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/db/models"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/lifecycle"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/logger"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/scheduling"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/types"
)

// Actor header names. Authentication happens upstream; the gateway injects
// the verified identity here.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

// JobHandler handles HTTP requests for job operations
type JobHandler struct {
	service *services.JobService
}

// NewJobHandler creates a new job handler instance
func NewJobHandler(s *services.JobService) *JobHandler {
	return &JobHandler{service: s}
}

// CreateJob handles the request to create a new job
func (h *JobHandler) CreateJob(c *fiber.Ctx) error {
	actor, ok := h.actor(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput("missing or invalid actor headers"))
	}

	var req types.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput(err.Error()))
	}

	job, err := h.service.CreateJob(c.Context(), actor, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).
		JSON(Response{
			Slug: SuccessSlug,
			Data: job,
		})
}

// GetJob handles the request to read a single job
func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	actor, ok := h.actor(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput("missing or invalid actor headers"))
	}

	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput("invalid job id"))
	}

	job, err := h.service.GetJob(c.Context(), actor, uint(jobID))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(Response{
		Slug: SuccessSlug,
		Data: job,
	})
}

// UpdateStatus handles a single-job status change
func (h *JobHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, ok := h.actor(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput("missing or invalid actor headers"))
	}

	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput("invalid job id"))
	}

	var req types.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput(err.Error()))
	}
	if err := req.Validate(); err != nil {
		return respondError(c, err)
	}

	job, err := h.service.UpdateStatus(c.Context(), actor, uint(jobID), req.Status)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(Response{
		Slug: SuccessSlug,
		Data: job,
	})
}

// RejectJob handles a technician declining an assignment
func (h *JobHandler) RejectJob(c *fiber.Ctx) error {
	actor, ok := h.actor(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput("missing or invalid actor headers"))
	}

	jobID, err := c.ParamsInt("id")
	if err != nil || jobID <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput("invalid job id"))
	}

	// The reason body is optional.
	var req types.RejectJobRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).
				JSON(errInvalidInput(err.Error()))
		}
	}

	job, err := h.service.RejectJob(c.Context(), actor, uint(jobID), req.Reason)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(Response{
		Slug: SuccessSlug,
		Data: job,
	})
}

// BulkAssign handles assigning a technician to many jobs atomically
func (h *JobHandler) BulkAssign(c *fiber.Ctx) error {
	actor, ok := h.actor(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput("missing or invalid actor headers"))
	}

	var req types.BulkAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput(err.Error()))
	}

	result, err := h.service.BulkAssign(c.Context(), actor, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(Response{
		Slug: SuccessSlug,
		Data: result,
	})
}

// BulkUpdate handles applying one patch to many jobs atomically
func (h *JobHandler) BulkUpdate(c *fiber.Ctx) error {
	actor, ok := h.actor(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput("missing or invalid actor headers"))
	}

	var req types.BulkUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput(err.Error()))
	}

	result, err := h.service.BulkUpdate(c.Context(), actor, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(Response{
		Slug: SuccessSlug,
		Data: result,
	})
}

// BulkDelete handles deleting many jobs atomically
func (h *JobHandler) BulkDelete(c *fiber.Ctx) error {
	actor, ok := h.actor(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput("missing or invalid actor headers"))
	}

	var req types.BulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(errInvalidInput(err.Error()))
	}

	result, err := h.service.BulkDelete(c.Context(), actor, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(Response{
		Slug: SuccessSlug,
		Data: result,
	})
}

// actor resolves the caller identity from the trusted gateway headers
func (h *JobHandler) actor(c *fiber.Ctx) (access.Actor, bool) {
	id := c.GetReqHeaders()[HeaderActorID]
	roleStr := c.GetReqHeaders()[HeaderActorRole]
	if len(id) == 0 || len(roleStr) == 0 {
		return access.Actor{}, false
	}

	actorID, err := strconv.ParseUint(id[0], 10, 32)
	if err != nil || actorID == 0 {
		return access.Actor{}, false
	}
	role, err := models.ParseUserRole(roleStr[0])
	if err != nil {
		return access.Actor{}, false
	}
	return access.Actor{ID: uint(actorID), Role: role}, true
}

// respondError maps the service error taxonomy onto transport outcomes.
// Store internals stay opaque: unknown errors are logged with context and
// surfaced as a generic server error.
func respondError(c *fiber.Ctx, err error) error {
	var validationErr *types.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).
			JSON(Response{Slug: InvalidInputSlug, Error: validationErr.Error(), Data: validationErr.Fields})
	}

	var deniedErr *access.DeniedError
	if errors.As(err, &deniedErr) {
		return c.Status(fiber.StatusForbidden).
			JSON(errForbidden(deniedErr.Reason))
	}

	var notFoundErr *types.NotFoundError
	if errors.As(err, &notFoundErr) {
		return c.Status(fiber.StatusNotFound).
			JSON(errNotFound(notFoundErr.Error()))
	}

	var transitionErr *lifecycle.TransitionError
	if errors.As(err, &transitionErr) {
		return c.Status(fiber.StatusUnprocessableEntity).
			JSON(Response{Slug: InvalidTransitionSlug, Error: transitionErr.Error()})
	}

	var conflictErr *scheduling.ConflictError
	if errors.As(err, &conflictErr) {
		return c.Status(fiber.StatusConflict).
			JSON(Response{Slug: ConflictSlug, Error: conflictErr.Error(), Data: conflictErr.Conflicts})
	}

	logger.ErrorWithFields("job operation failed", map[string]interface{}{
		"path":  c.Path(),
		"error": err.Error(),
	})
	return c.Status(fiber.StatusInternalServerError).
		JSON(errServer("internal error"))
}
