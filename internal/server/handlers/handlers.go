package handlers

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tuvia-hanfatzot/fuels-app/internal/config"
	"github.com/tuvia-hanfatzot/fuels-app/internal/pipeline"
	"github.com/tuvia-hanfatzot/fuels-app/internal/store"
)

// Handlers is the API handler set.
type Handlers struct {
	store   *store.Store
	cfg     *config.AppConfig
	dataDir string

	jobs   map[string]*Job
	jobsMu sync.RWMutex
}

// Job tracks one cleaning run end to end. Progress fields are updated
// from the pipeline goroutine and read by the status endpoint.
type Job struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"` // processing / done / error
	Percent     int       `json:"percent"`
	Stage       string    `json:"stage"`
	Error       string    `json:"error,omitempty"`
	Warnings    []string  `json:"warnings,omitempty"`
	SheetsFound []string  `json:"sheets_found,omitempty"`
	OutputPath  string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewHandlers creates the handler set.
func NewHandlers(st *store.Store, cfg *config.AppConfig, dataDir string) *Handlers {
	return &Handlers{
		store:   st,
		cfg:     cfg,
		dataDir: dataDir,
		jobs:    make(map[string]*Job),
	}
}

// Response is the common API envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func errorResponse(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: message,
	})
}

// RegisterRoutes wires the API routes.
func (h *Handlers) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/upload", h.Upload)
	api.GET("/jobs/:id", h.JobStatus)
	api.GET("/jobs/:id/download", h.Download)
	api.GET("/runs", h.ListRuns)
}

// Upload accepts one or more xlsx files, persists them under the data
// directory, starts the pipeline in a goroutine and returns the job id.
func (h *Handlers) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		errorResponse(c, 1001, "invalid multipart form")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		errorResponse(c, 1002, "no files uploaded")
		return
	}

	jobID := uuid.New().String()
	var paths []string
	var names []string
	var total int64
	for i, fh := range files {
		dst := filepath.Join(h.dataDir, "uploads",
			fmt.Sprintf("%s_%d_%s", jobID, i, filepath.Base(fh.Filename)))
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			errorResponse(c, 5001, fmt.Sprintf("failed to save %s: %v", fh.Filename, err))
			return
		}
		paths = append(paths, dst)
		names = append(names, fh.Filename)
		total += fh.Size
	}

	runID, err := h.store.CreateRun(jobID, strings.Join(names, ", "), total)
	if err != nil {
		log.Printf("failed to record run %s: %v", jobID, err)
	}

	job := &Job{
		ID:        jobID,
		Status:    "processing",
		Stage:     "Queued",
		CreatedAt: time.Now(),
	}
	h.jobsMu.Lock()
	h.jobs[jobID] = job
	h.jobsMu.Unlock()

	go h.runJob(job, runID, paths)

	success(c, gin.H{"job_id": jobID})
}

func (h *Handlers) runJob(job *Job, runID int64, paths []string) {
	cleaner := pipeline.New(pipelineOptions(h.cfg.Pipeline))

	result, err := cleaner.Run(paths, func(percent int, stage string) {
		h.jobsMu.Lock()
		job.Percent = percent
		job.Stage = stage
		h.jobsMu.Unlock()
	})
	if err != nil {
		h.jobsMu.Lock()
		job.Status = "error"
		job.Error = err.Error()
		h.jobsMu.Unlock()
		if cerr := h.store.CompleteRun(runID, 0, 0, "error", err.Error()); cerr != nil {
			log.Printf("failed to complete run %s: %v", job.ID, cerr)
		}
		return
	}
	defer result.File.Close()

	outPath := filepath.Join(h.dataDir, "exports", job.ID+".xlsx")
	if err := result.File.SaveAs(outPath); err != nil {
		h.jobsMu.Lock()
		job.Status = "error"
		job.Error = fmt.Sprintf("failed to save output: %v", err)
		h.jobsMu.Unlock()
		if cerr := h.store.CompleteRun(runID, result.RowsIn, result.RowsOut, "error", err.Error()); cerr != nil {
			log.Printf("failed to complete run %s: %v", job.ID, cerr)
		}
		return
	}

	h.jobsMu.Lock()
	job.Status = "done"
	job.Percent = 100
	job.Stage = "Done"
	job.Warnings = result.Warnings
	job.SheetsFound = result.SheetsFound
	job.OutputPath = outPath
	h.jobsMu.Unlock()

	if err := h.store.CompleteRun(runID, result.RowsIn, result.RowsOut, "done", ""); err != nil {
		log.Printf("failed to complete run %s: %v", job.ID, err)
	}
}

// JobStatus reports a job's progress and outcome.
func (h *Handlers) JobStatus(c *gin.Context) {
	id := c.Param("id")

	h.jobsMu.RLock()
	job, ok := h.jobs[id]
	var snapshot Job
	if ok {
		snapshot = *job
	}
	h.jobsMu.RUnlock()

	if !ok {
		errorResponse(c, 4041, "job not found")
		return
	}
	success(c, snapshot)
}

// Download streams the cleaned workbook of a finished job.
func (h *Handlers) Download(c *gin.Context) {
	id := c.Param("id")

	h.jobsMu.RLock()
	job, ok := h.jobs[id]
	var status, path string
	if ok {
		status = job.Status
		path = job.OutputPath
	}
	h.jobsMu.RUnlock()

	if !ok {
		errorResponse(c, 4041, "job not found")
		return
	}
	if status != "done" || path == "" {
		errorResponse(c, 4042, "job not finished")
		return
	}
	c.FileAttachment(path, "cleaned.xlsx")
}

// ListRuns returns the recent run history.
func (h *Handlers) ListRuns(c *gin.Context) {
	runs, err := h.store.ListRuns(50)
	if err != nil {
		errorResponse(c, 5002, err.Error())
		return
	}
	success(c, runs)
}

// pipelineOptions converts the TOML pipeline section into run options.
func pipelineOptions(pc config.PipelineConfig) pipeline.Options {
	opts := pipeline.DefaultOptions()
	if pc.TargetSheet != "" {
		opts.TargetSheet = pc.TargetSheet
	}
	if pc.SummarySheet != "" {
		opts.SummarySheet = pc.SummarySheet
	}
	if pc.HeaderRows > 0 {
		opts.Combine.HeaderRows = pc.HeaderRows
		opts.Combine.DataStart = pc.HeaderRows + 1
	}
	if len(pc.Sources) > 0 {
		opts.Combine.Rules = opts.Combine.Rules[:0]
		for _, s := range pc.Sources {
			opts.Combine.Rules = append(opts.Combine.Rules, pipeline.SourceRule{
				Label:                s.Label,
				Sheet:                s.Sheet,
				Tokens:               s.Tokens,
				InsertCategoryColumn: s.InsertCategoryColumn,
			})
		}
	}
	opts.Combine.DropColsLo = pc.DropColsLo
	opts.Combine.DropColsHi = pc.DropColsHi
	return opts
}
