package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/db/models"
	"github.com/kezar0001-cpu/buildstatefm-app-sub004/internal/types"
)

// jobOutput represents the filtered output for a job
type jobOutput struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	Status        string `json:"status"`
	AssignedToID  *uint  `json:"assigned_to_id,omitempty"`
	ScheduledDate string `json:"scheduled_date,omitempty"`
}

func filterJob(job models.Job) jobOutput {
	out := jobOutput{
		ID:           job.ID,
		Title:        job.Title,
		Status:       string(job.Status),
		AssignedToID: job.AssignedToID,
	}
	if job.ScheduledDate != nil {
		out.ScheduledDate = job.ScheduledDate.Format(time.RFC3339)
	}
	return out
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	cmd.Println(string(prettyJSON))
	return nil
}

func init() {
	jobsCmd.AddCommand(getJobCmd)
	jobsCmd.AddCommand(assignJobsCmd)
	jobsCmd.AddCommand(updateStatusCmd)
	jobsCmd.AddCommand(rejectJobCmd)

	// Add flags
	getJobCmd.Flags().UintP("id", "i", 0, "Job ID to fetch")
	_ = getJobCmd.MarkFlagRequired("id")

	assignJobsCmd.Flags().UintSliceP("ids", "i", nil, "Job IDs to assign")
	assignJobsCmd.Flags().UintP("technician", "t", 0, "Technician user ID")
	_ = assignJobsCmd.MarkFlagRequired("ids")
	_ = assignJobsCmd.MarkFlagRequired("technician")

	updateStatusCmd.Flags().UintP("id", "i", 0, "Job ID to update")
	updateStatusCmd.Flags().String("status", "", "Target status (OPEN, ASSIGNED, IN_PROGRESS, COMPLETED, CANCELLED)")
	_ = updateStatusCmd.MarkFlagRequired("id")
	_ = updateStatusCmd.MarkFlagRequired("status")

	rejectJobCmd.Flags().UintP("id", "i", 0, "Job ID to reject")
	rejectJobCmd.Flags().String("reason", "", "Reason for handing the job back")
	_ = rejectJobCmd.MarkFlagRequired("id")
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage jobs",
}

var getJobCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a specific job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetUint("id")

		job, err := apiClient.GetJob(context.Background(), jobID)
		if err != nil {
			return fmt.Errorf("error fetching job: %w", err)
		}

		return printJSON(cmd, filterJob(job))
	},
}

var assignJobsCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign a technician to one or more jobs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobIDs, _ := cmd.Flags().GetUintSlice("ids")
		technicianID, _ := cmd.Flags().GetUint("technician")

		result, err := apiClient.BulkAssign(context.Background(), types.BulkAssignRequest{
			JobIDs:       jobIDs,
			TechnicianID: technicianID,
		})
		if err != nil {
			return fmt.Errorf("error assigning jobs: %w", err)
		}

		return printJSON(cmd, result)
	},
}

var updateStatusCmd = &cobra.Command{
	Use:   "update-status",
	Short: "Move a job to a new lifecycle status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetUint("id")
		status, _ := cmd.Flags().GetString("status")

		jobStatus, err := models.ParseJobStatus(status)
		if err != nil {
			return err
		}

		job, err := apiClient.UpdateStatus(context.Background(), jobID, types.UpdateStatusRequest{
			Status: jobStatus,
		})
		if err != nil {
			return fmt.Errorf("error updating job status: %w", err)
		}

		return printJSON(cmd, filterJob(job))
	},
}

var rejectJobCmd = &cobra.Command{
	Use:   "reject",
	Short: "Hand an assigned job back to the open pool",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetUint("id")
		reason, _ := cmd.Flags().GetString("reason")

		job, err := apiClient.RejectJob(context.Background(), jobID, types.RejectJobRequest{
			Reason: reason,
		})
		if err != nil {
			return fmt.Errorf("error rejecting job: %w", err)
		}

		return printJSON(cmd, filterJob(job))
	},
}

// GetJobsCmd returns the jobs command
func GetJobsCmd() *cobra.Command {
	return jobsCmd
}
