package httpapi

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/process"
)

// HealthReport is the body of GET /healthz.
type HealthReport struct {
	Status  string        `json:"status"`
	Time    string        `json:"time"`
	Uptime  string        `json:"uptime"`
	Process *ProcessStats `json:"process,omitempty"`
}

// ProcessStats describes the serving process.
type ProcessStats struct {
	PID        int32   `json:"pid"`
	RSSBytes   uint64  `json:"rss_bytes"`
	CPUPercent float64 `json:"cpu_percent"`
	Goroutines int     `json:"goroutines"`
}

func healthHandler(started time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthReport{
			Status:  "ok",
			Time:    time.Now().UTC().Format(time.RFC3339),
			Uptime:  time.Since(started).Round(time.Second).String(),
			Process: processStats(),
		})
	}
}

// processStats is best effort; nil when the platform does not expose it.
func processStats() *ProcessStats {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil
	}
	stats := &ProcessStats{PID: p.Pid, Goroutines: runtime.NumGoroutine()}
	if mem, err := p.MemoryInfo(); err == nil {
		stats.RSSBytes = mem.RSS
	}
	if cpu, err := p.CPUPercent(); err == nil {
		stats.CPUPercent = cpu
	}
	return stats
}
