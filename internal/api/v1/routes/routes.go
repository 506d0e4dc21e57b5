// Package routes wires the v1 API surface.
package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/api/v1/handlers"
)

// DefaultBaseURL is the default base URL for the API server
const DefaultBaseURL = "http://localhost:8080"

// API path segments shared with the client package
const (
	APIPrefix      = "/api/v1"
	JobsPath       = "/jobs"
	BulkAssignPath = "/jobs/bulk/assign"
	BulkPath       = "/jobs/bulk"
)

// SetupRoutes configures all the v1 routes
func SetupRoutes(router fiber.Router, jobs *handlers.JobHandler) {
	// Bulk routes are registered before the :id routes so "bulk" never
	// parses as a job id.
	router.Post(BulkAssignPath, jobs.BulkAssign)
	router.Patch(BulkPath, jobs.BulkUpdate)
	router.Delete(BulkPath, jobs.BulkDelete)

	router.Post(JobsPath, jobs.CreateJob)
	router.Get(JobsPath+"/:id", jobs.GetJob)
	router.Patch(JobsPath+"/:id/status", jobs.UpdateStatus)
	router.Post(JobsPath+"/:id/reject", jobs.RejectJob)
}

// Register registers the v1 routes
func Register(app *fiber.App, jobs *handlers.JobHandler) {
	v1Group := app.Group(APIPrefix)
	SetupRoutes(v1Group, jobs)
}
