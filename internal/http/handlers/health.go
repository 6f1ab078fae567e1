package handlers

import (
	"context"
	"os"
	"runtime"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"gorm.io/gorm"

	"github.com/beatbrain/beatbrain/internal/library"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	version   string
	startTime time.Time
	db        *gorm.DB
	reader    *library.Reader
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		version:   version,
		startTime: time.Now(),
	}
}

// WithDB sets the database connection for health checks.
func (h *HealthHandler) WithDB(db *gorm.DB) *HealthHandler {
	h.db = db
	return h
}

// WithLibraryReader sets the library reader for connection reporting.
func (h *HealthHandler) WithLibraryReader(reader *library.Reader) *HealthHandler {
	h.reader = reader
	return h
}

// CPUInfo reports CPU load.
type CPUInfo struct {
	Cores     int     `json:"cores"`
	Load1Min  float64 `json:"load_1min"`
	Load5Min  float64 `json:"load_5min"`
	Load15Min float64 `json:"load_15min"`
}

// MemoryInfo reports system and process memory usage in megabytes.
type MemoryInfo struct {
	TotalMemoryMB     float64 `json:"total_memory_mb"`
	UsedMemoryMB      float64 `json:"used_memory_mb"`
	AvailableMemoryMB float64 `json:"available_memory_mb"`
	ProcessMemoryMB   float64 `json:"process_memory_mb"`
}

// DatabaseHealth reports application database responsiveness.
type DatabaseHealth struct {
	Status         string  `json:"status"`
	ResponseTimeMS float64 `json:"response_time_ms"`
}

// LibraryHealth reports the Mixxx library connection state.
type LibraryHealth struct {
	Connected bool   `json:"connected"`
	Path      string `json:"path,omitempty"`
}

// FullHealthResponse is the health check body.
type FullHealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	CPU       CPUInfo           `json:"cpu"`
	Memory    MemoryInfo        `json:"memory"`
	Database  DatabaseHealth    `json:"database"`
	Library   LibraryHealth     `json:"library"`
	Checks    map[string]string `json:"checks"`
}

// HealthInput is the input for the health check endpoint.
type HealthInput struct{}

// HealthOutput is the output for the health check endpoint.
type HealthOutput struct {
	Body FullHealthResponse
}

// Register registers the health routes with the API.
func (h *HealthHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getHealth",
		Method:      "GET",
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service including system metrics",
		Tags:        []string{"System"},
	}, h.GetHealth)

	huma.Register(api, huma.Operation{
		OperationID: "getVersion",
		Method:      "GET",
		Path:        "/api/v1/version",
		Summary:     "Get application version",
		Tags:        []string{"System"},
	}, h.GetVersion)
}

// VersionInput is the input for the version endpoint.
type VersionInput struct{}

// VersionOutput is the output for the version endpoint.
type VersionOutput struct {
	Body struct {
		Version string `json:"version"`
	}
}

// GetVersion returns the application version.
func (h *HealthHandler) GetVersion(ctx context.Context, input *VersionInput) (*VersionOutput, error) {
	resp := &VersionOutput{}
	resp.Body.Version = h.version
	return resp, nil
}

// GetHealth returns the health status of the service.
func (h *HealthHandler) GetHealth(ctx context.Context, input *HealthInput) (*HealthOutput, error) {
	now := time.Now()
	uptime := now.Sub(h.startTime)

	dbHealth := h.databaseHealth(ctx)

	status := "healthy"
	if dbHealth.Status == "error" {
		status = "degraded"
	}

	libHealth := LibraryHealth{}
	if h.reader != nil {
		libHealth.Connected = h.reader.Connected()
		libHealth.Path = h.reader.Path()
	}

	return &HealthOutput{
		Body: FullHealthResponse{
			Status:    status,
			Timestamp: now.UTC().Format(time.RFC3339),
			Version:   h.version,
			Uptime:    uptime.Round(time.Second).String(),
			CPU:       h.cpuInfo(),
			Memory:    h.memoryInfo(),
			Database:  dbHealth,
			Library:   libHealth,
			Checks: map[string]string{
				"database": dbHealth.Status,
			},
		},
	}, nil
}

func (h *HealthHandler) cpuInfo() CPUInfo {
	info := CPUInfo{Cores: runtime.NumCPU()}

	loadAvg, err := load.Avg()
	if err == nil && loadAvg != nil {
		info.Load1Min = loadAvg.Load1
		info.Load5Min = loadAvg.Load5
		info.Load15Min = loadAvg.Load15
	}
	return info
}

func (h *HealthHandler) memoryInfo() MemoryInfo {
	info := MemoryInfo{}

	vmStat, err := mem.VirtualMemory()
	if err == nil && vmStat != nil {
		info.TotalMemoryMB = float64(vmStat.Total) / 1024 / 1024
		info.UsedMemoryMB = float64(vmStat.Used) / 1024 / 1024
		info.AvailableMemoryMB = float64(vmStat.Available) / 1024 / 1024
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err == nil {
		if memInfo, err := proc.MemoryInfo(); err == nil && memInfo != nil {
			info.ProcessMemoryMB = float64(memInfo.RSS) / 1024 / 1024
		}
	}
	return info
}

func (h *HealthHandler) databaseHealth(ctx context.Context) DatabaseHealth {
	health := DatabaseHealth{Status: "ok"}

	if h.db == nil {
		health.Status = "unknown"
		return health
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		health.Status = "error"
		return health
	}

	start := time.Now()
	err = sqlDB.PingContext(ctx)
	health.ResponseTimeMS = float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		health.Status = "error"
	}
	return health
}
