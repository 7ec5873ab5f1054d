// Package mlflow provides an experiment-tracking sink using the
// MLflow REST API.
package mlflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/visionforge/yolotrain-cli/internal/core/domain"
	"github.com/visionforge/yolotrain-cli/internal/core/ports/driven"
	"github.com/visionforge/yolotrain-cli/internal/logger"
)

// Ensure Tracker implements the interface.
var _ driven.ExperimentTracker = (*Tracker)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://127.0.0.1:5000"
	DefaultExperiment = "yolotrain"
	DefaultTimeout    = 10 * time.Second

	// Metric forwarding is throttled so a fast trainer cannot flood
	// the tracking server; excess epochs are dropped, not queued.
	defaultMetricsPerSecond = 5.0
	defaultMetricsBurst     = 10
)

// Config holds configuration for the MLflow tracker.
type Config struct {
	// BaseURL is the tracking server base URL (default: local MLflow).
	BaseURL string

	// Experiment is the experiment name runs are logged under.
	Experiment string

	// Timeout is the per-request timeout (default: 10s).
	Timeout time.Duration
}

// Tracker forwards run lifecycle events and per-epoch metrics to an
// MLflow tracking server.
type Tracker struct {
	client     *http.Client
	baseURL    string
	experiment string
	limiter    *rate.Limiter

	mu           sync.Mutex
	experimentID string
	// runIDs maps domain run IDs to MLflow run IDs.
	runIDs map[string]string
}

// NewTracker creates an MLflow tracker.
func NewTracker(cfg Config) *Tracker {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Experiment == "" {
		cfg.Experiment = DefaultExperiment
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Tracker{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		experiment: cfg.Experiment,
		limiter:    rate.NewLimiter(rate.Limit(defaultMetricsPerSecond), defaultMetricsBurst),
		runIDs:     make(map[string]string),
	}
}

// createRunRequest is the MLflow runs/create request format.
type createRunRequest struct {
	ExperimentID string `json:"experiment_id"`
	RunName      string `json:"run_name,omitempty"`
	StartTime    int64  `json:"start_time"`
}

// createRunResponse is the MLflow runs/create response format.
type createRunResponse struct {
	Run struct {
		Info struct {
			RunID string `json:"run_id"`
		} `json:"info"`
	} `json:"run"`
}

// metricEntry is the MLflow metric wire format.
type metricEntry struct {
	Key       string  `json:"key"`
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
	Step      int64   `json:"step"`
}

// logBatchRequest is the MLflow runs/log-batch request format.
type logBatchRequest struct {
	RunID   string        `json:"run_id"`
	Metrics []metricEntry `json:"metrics"`
}

// updateRunRequest is the MLflow runs/update request format.
type updateRunRequest struct {
	RunID   string `json:"run_id"`
	Status  string `json:"status"`
	EndTime int64  `json:"end_time"`
}

// StartRun creates an MLflow run for the training run.
func (t *Tracker) StartRun(ctx context.Context, run *domain.TrainingRun) error {
	experimentID, err := t.ensureExperiment(ctx)
	if err != nil {
		return fmt.Errorf("resolve experiment: %w", err)
	}

	req := createRunRequest{
		ExperimentID: experimentID,
		RunName:      run.Artifact,
		StartTime:    run.StartedAt.UnixMilli(),
	}

	var resp createRunResponse
	if err := t.post(ctx, "/api/2.0/mlflow/runs/create", req, &resp); err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	if resp.Run.Info.RunID == "" {
		return fmt.Errorf("create run: empty run_id from %s", t.baseURL)
	}

	t.mu.Lock()
	t.runIDs[run.ID] = resp.Run.Info.RunID
	t.mu.Unlock()
	return nil
}

// LogEpoch forwards one epoch's metrics. Epochs beyond the forwarding
// rate are dropped; tracking is best-effort.
func (t *Tracker) LogEpoch(ctx context.Context, runID string, metrics domain.EpochMetrics) error {
	mlflowID, ok := t.lookup(runID)
	if !ok {
		return fmt.Errorf("%w: run %s", domain.ErrNotFound, runID)
	}

	if !t.limiter.Allow() {
		logger.Debug("Metric forwarding throttled, dropping epoch %d", metrics.Epoch)
		return nil
	}

	now := time.Now().UnixMilli()
	entries := make([]metricEntry, 0, len(metrics.Values))
	for key, value := range metrics.Values {
		entries = append(entries, metricEntry{
			Key:       key,
			Value:     value,
			Timestamp: now,
			Step:      int64(metrics.Epoch),
		})
	}

	req := logBatchRequest{RunID: mlflowID, Metrics: entries}
	if err := t.post(ctx, "/api/2.0/mlflow/runs/log-batch", req, nil); err != nil {
		return fmt.Errorf("log epoch %d: %w", metrics.Epoch, err)
	}
	return nil
}

// EndRun terminates the MLflow run.
func (t *Tracker) EndRun(ctx context.Context, runID string, state domain.RunState) error {
	mlflowID, ok := t.lookup(runID)
	if !ok {
		return fmt.Errorf("%w: run %s", domain.ErrNotFound, runID)
	}

	status := "FINISHED"
	if state == domain.RunStateFailed {
		status = "FAILED"
	}

	req := updateRunRequest{
		RunID:   mlflowID,
		Status:  status,
		EndTime: time.Now().UnixMilli(),
	}
	if err := t.post(ctx, "/api/2.0/mlflow/runs/update", req, nil); err != nil {
		return fmt.Errorf("update run: %w", err)
	}

	t.mu.Lock()
	delete(t.runIDs, runID)
	t.mu.Unlock()
	return nil
}

// lookup resolves a domain run ID to an MLflow run ID.
func (t *Tracker) lookup(runID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id, ok := t.runIDs[runID]
	return id, ok
}

// ensureExperiment resolves the experiment ID, creating the experiment
// on first use. The result is cached for the tracker's lifetime.
func (t *Tracker) ensureExperiment(ctx context.Context) (string, error) {
	t.mu.Lock()
	cached := t.experimentID
	t.mu.Unlock()
	if cached != "" {
		return cached, nil
	}

	id, err := t.getExperimentByName(ctx)
	if err != nil {
		id, err = t.createExperiment(ctx)
		if err != nil {
			return "", err
		}
	}

	t.mu.Lock()
	t.experimentID = id
	t.mu.Unlock()
	return id, nil
}

// getExperimentByName fetches an existing experiment's ID.
func (t *Tracker) getExperimentByName(ctx context.Context) (string, error) {
	endpoint := t.baseURL + "/api/2.0/mlflow/experiments/get-by-name?experiment_name=" +
		url.QueryEscape(t.experiment)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("experiment %q not found (status %d)", t.experiment, resp.StatusCode)
	}

	var body struct {
		Experiment struct {
			ExperimentID string `json:"experiment_id"`
		} `json:"experiment"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return body.Experiment.ExperimentID, nil
}

// createExperiment creates the experiment and returns its ID.
func (t *Tracker) createExperiment(ctx context.Context) (string, error) {
	req := map[string]string{"name": t.experiment}
	var resp struct {
		ExperimentID string `json:"experiment_id"`
	}
	if err := t.post(ctx, "/api/2.0/mlflow/experiments/create", req, &resp); err != nil {
		return "", fmt.Errorf("create experiment: %w", err)
	}
	return resp.ExperimentID, nil
}

// post sends a JSON request and optionally decodes the response.
func (t *Tracker) post(ctx context.Context, path string, reqBody, respBody any) error {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		t.baseURL+path,
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mlflow error (status %d): %s", resp.StatusCode, string(body))
	}

	if respBody != nil {
		if err := json.Unmarshal(body, respBody); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
