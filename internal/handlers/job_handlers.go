package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// JobRunner is the scheduler surface exposed to administrators.
type JobRunner interface {
	RunNow(name string) error
	JobNames() []string
}

type JobHandlers struct {
	runner JobRunner
}

func NewJobHandlers(runner JobRunner) *JobHandlers {
	return &JobHandlers{runner: runner}
}

func (h *JobHandlers) List(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"jobs": h.runner.JobNames()})
}

// Trigger queues a registered job outside its schedule. The job runs in the
// background; its outcome shows up in the job metrics and logs.
func (h *JobHandlers) Trigger(c echo.Context) error {
	name := strings.TrimSpace(c.Param("name"))
	if err := h.runner.RunNow(name); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, map[string]string{"job": name, "status": "triggered"})
}
