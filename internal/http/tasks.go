package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/library/internal/circulation"
	"github.com/mrlokans/library/internal/tasks"
)

// TasksController handles task queue management endpoints.
type TasksController struct {
	queue              TaskQueue
	reportRetention    time.Duration
	auditRetentionDays int
}

// NewTasksController creates a new TasksController. The retention values
// are used by the maintenance task type.
func NewTasksController(queue TaskQueue, reportRetention time.Duration, auditRetentionDays int) *TasksController {
	return &TasksController{
		queue:              queue,
		reportRetention:    reportRetention,
		auditRetentionDays: auditRetentionDays,
	}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// RunTaskRequest is the request body for running a task.
type RunTaskRequest struct {
	// Start and End are required for export_report
	Start string `json:"start"`
	End   string `json:"end"`
}

// ListTaskTypes returns the task types that can be triggered.
// GET /tasks/types
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	respondOK(c, "Task types retrieved", []TaskTypeInfo{
		{
			Type:        tasks.ExportReportTaskName,
			Description: "Write the borrowings report for a date window",
		},
		{
			Type:        "maintenance",
			Description: "Remove expired report files and audit events",
		},
	})
}

// GetTaskStatus returns the status of a specific task.
// GET /tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := tc.queue.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}
	if status == backlite.TaskStatusNotFound {
		respondFail(c, http.StatusNotFound, "Task not found")
		return
	}

	respondOK(c, "Task status retrieved", gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

// RunTask enqueues a task of the given type.
// POST /tasks/:type/run
func (tc *TasksController) RunTask(c *gin.Context) {
	taskType := c.Param("type")

	var req RunTaskRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, "Invalid request body")
			return
		}
	}

	var queued []backlite.Task
	switch taskType {
	case tasks.ExportReportTaskName:
		start, end, err := circulation.ParseReportWindow(req.Start, req.End)
		if err != nil {
			respondError(c, err, "run task")
			return
		}
		queued = []backlite.Task{tasks.ExportReportTask{Start: start, End: end, Trigger: circulation.TriggerAPI}}

	case "maintenance":
		queued = tasks.MaintenanceTasks(tc.reportRetention, tc.auditRetentionDays)

	default:
		respondBadRequest(c, fmt.Sprintf("unknown task type: %s", taskType))
		return
	}

	ids, err := tc.queue.Enqueue(queued...)
	if err != nil {
		respondInternalError(c, err, "enqueue task")
		return
	}

	c.JSON(http.StatusAccepted, Envelope{
		Status:  StatusSuccess,
		Message: "Task enqueued",
		Data:    gin.H{"type": taskType, "taskIds": ids},
	})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
