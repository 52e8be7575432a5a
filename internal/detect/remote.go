package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/annotation"
)

// Job status values reported by the detection service.
const (
	JobStatusInProgress = "IN_PROGRESS"
	JobStatusSucceeded  = "SUCCEEDED"
)

const defaultPollInterval = 5 * time.Second

// Client runs asynchronous label-detection jobs against a remote detection
// service: it starts a job for a stored object, polls until the job leaves
// IN_PROGRESS, and returns the flattened results.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
}

// NewClient returns a Client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		pollInterval: defaultPollInterval,
	}
}

type startJobRequest struct {
	ObjectKey string `json:"objectKey"`
}

type startJobResponse struct {
	JobID string `json:"jobId"`
	Error string `json:"error,omitempty"`
}

// StartLabelDetection submits a detection job for the stored object and
// returns the job ID.
func (c *Client) StartLabelDetection(ctx context.Context, objectKey string) (string, error) {
	body, err := json.Marshal(startJobRequest{ObjectKey: objectKey})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/jobs", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to start detection job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return "", fmt.Errorf("detection service returned status %d", resp.StatusCode)
	}

	var startResp startJobResponse
	if err := json.NewDecoder(resp.Body).Decode(&startResp); err != nil {
		return "", fmt.Errorf("failed to decode job response: %w", err)
	}
	if startResp.Error != "" {
		return "", fmt.Errorf("detection service error: %s", startResp.Error)
	}
	if startResp.JobID == "" {
		return "", fmt.Errorf("detection service returned empty job ID")
	}

	return startResp.JobID, nil
}

// GetLabelDetection fetches the current state of a detection job.
func (c *Client) GetLabelDetection(ctx context.Context, jobID string) (*LabelResults, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/v1/jobs/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get job status: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detection service returned status %d", resp.StatusCode)
	}

	var results LabelResults
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal results: %w", err)
	}

	return &results, nil
}

// Detections implements Source: it runs a full job to completion and
// flattens the label instances.
func (c *Client) Detections(ctx context.Context, objectKey string) ([]annotation.RawDetection, error) {
	jobID, err := c.StartLabelDetection(ctx, objectKey)
	if err != nil {
		return nil, err
	}
	log.Printf("Label detection started (JobId: %s)", jobID)

	var results *LabelResults
	for {
		results, err = c.GetLabelDetection(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if results.JobStatus != JobStatusInProgress {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}

	if results.JobStatus != JobStatusSucceeded {
		return nil, fmt.Errorf("detection job %s finished with status %s", jobID, results.JobStatus)
	}

	return Flatten(results), nil
}
