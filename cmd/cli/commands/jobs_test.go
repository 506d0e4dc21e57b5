package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/db/models"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/types"
)

// fakeClient stubs the API client for command tests
type fakeClient struct {
	getJobFn       func(ctx context.Context, id uint) (models.Job, error)
	bulkAssignFn   func(ctx context.Context, req types.BulkAssignRequest) (types.BulkResult, error)
	updateStatusFn func(ctx context.Context, id uint, req types.UpdateStatusRequest) (models.Job, error)
	rejectJobFn    func(ctx context.Context, id uint, req types.RejectJobRequest) (models.Job, error)
}

func (f *fakeClient) HealthCheck(context.Context) (map[string]string, error) {
	return map[string]string{"status": "healthy"}, nil
}

func (f *fakeClient) CreateJob(context.Context, types.CreateJobRequest) (models.Job, error) {
	return models.Job{}, nil
}

func (f *fakeClient) GetJob(ctx context.Context, id uint) (models.Job, error) {
	return f.getJobFn(ctx, id)
}

func (f *fakeClient) UpdateStatus(ctx context.Context, id uint, req types.UpdateStatusRequest) (models.Job, error) {
	return f.updateStatusFn(ctx, id, req)
}

func (f *fakeClient) RejectJob(ctx context.Context, id uint, req types.RejectJobRequest) (models.Job, error) {
	return f.rejectJobFn(ctx, id, req)
}

func (f *fakeClient) BulkAssign(ctx context.Context, req types.BulkAssignRequest) (types.BulkResult, error) {
	return f.bulkAssignFn(ctx, req)
}

func (f *fakeClient) BulkUpdate(context.Context, types.BulkUpdateRequest) (types.BulkResult, error) {
	return types.BulkResult{}, nil
}

func (f *fakeClient) BulkDelete(context.Context, types.BulkDeleteRequest) (types.BulkResult, error) {
	return types.BulkResult{}, nil
}

// setupJobsTestCommand sets up the jobs command with a fake client
func setupJobsTestCommand(t *testing.T) (*cobra.Command, *fakeClient, *bytes.Buffer) {
	fake := &fakeClient{}

	originalClient := apiClient
	t.Cleanup(func() {
		apiClient = originalClient
	})
	apiClient = fake

	outputBuf := &bytes.Buffer{}

	cmd := GetJobsCmd()
	cmd.SetOut(outputBuf)
	for _, subCmd := range cmd.Commands() {
		subCmd.SetOut(outputBuf)
	}

	return cmd, fake, outputBuf
}

func TestGetJobCommand(t *testing.T) {
	cmd, fake, outputBuf := setupJobsTestCommand(t)

	fake.getJobFn = func(_ context.Context, id uint) (models.Job, error) {
		assert.Equal(t, uint(42), id)

		job := models.Job{Title: "Replace HVAC filter", Status: models.JobStatusOpen}
		job.ID = 42
		return job, nil
	}

	cmd.SetArgs([]string{"get", "--id", "42"})
	require.NoError(t, cmd.Execute())

	output := outputBuf.String()
	assert.Contains(t, output, "Replace HVAC filter")
	assert.Contains(t, output, "OPEN")
}

func TestAssignJobsCommand(t *testing.T) {
	cmd, fake, outputBuf := setupJobsTestCommand(t)

	fake.bulkAssignFn = func(_ context.Context, req types.BulkAssignRequest) (types.BulkResult, error) {
		assert.Equal(t, []uint{1, 2, 3}, req.JobIDs)
		assert.Equal(t, uint(9), req.TechnicianID)

		return types.BulkResult{JobIDs: req.JobIDs, Count: len(req.JobIDs)}, nil
	}

	cmd.SetArgs([]string{"assign", "--ids", "1,2,3", "--technician", "9"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, outputBuf.String(), `"count": 3`)
}

func TestUpdateStatusCommand(t *testing.T) {
	cmd, fake, outputBuf := setupJobsTestCommand(t)

	fake.updateStatusFn = func(_ context.Context, id uint, req types.UpdateStatusRequest) (models.Job, error) {
		assert.Equal(t, uint(5), id)
		assert.Equal(t, models.JobStatusInProgress, req.Status)

		job := models.Job{Title: "Paint hallway", Status: models.JobStatusInProgress}
		job.ID = 5
		return job, nil
	}

	cmd.SetArgs([]string{"update-status", "--id", "5", "--status", "IN_PROGRESS"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, outputBuf.String(), "IN_PROGRESS")
}

func TestUpdateStatusCommand_InvalidStatus(t *testing.T) {
	cmd, _, _ := setupJobsTestCommand(t)

	cmd.SetArgs([]string{"update-status", "--id", "5", "--status", "DONE"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid job status")
}
