package drill

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with a timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}

// submitPlans runs every team's scripted submissions through a worker
// pool. Submissions within one plan stay in order; teams interleave.
func submitPlans(ctx context.Context, config *Config, plans []Plan, stats *Stats) error {
	total := 0
	for _, plan := range plans {
		total += len(plan.Passwords)
	}
	log.Printf("submitting %d passwords for %d teams with %d workers", total, len(plans), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/api/submit-password"

	var (
		accepted  int64
		rejected  int64
		failed    int64
		submitted int64
	)

	planChan := make(chan Plan, config.Workers)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for plan := range planChan {
				for _, password := range plan.Passwords {
					select {
					case <-ctx.Done():
						return
					default:
					}

					result := submitOne(ctx, client, url, Submission{
						TeamName: plan.TeamName,
						Password: password,
					})

					atomic.AddInt64(&submitted, 1)
					switch result {
					case "accepted":
						atomic.AddInt64(&accepted, 1)
					case "rejected":
						atomic.AddInt64(&rejected, 1)
					default:
						atomic.AddInt64(&failed, 1)
					}
				}

				if config.Verbose {
					log.Printf("team %s done: target level %d", plan.TeamName, plan.TargetLevel)
				}
			}
		}()
	}

	go func() {
		defer close(planChan)
		for _, plan := range plans {
			select {
			case <-ctx.Done():
				return
			case planChan <- plan:
			}
		}
	}()

	wg.Wait()

	stats.SubmissionsSent = int(atomic.LoadInt64(&submitted))
	stats.Accepted = int(atomic.LoadInt64(&accepted))
	stats.Rejected = int(atomic.LoadInt64(&rejected))
	stats.Failed = int(atomic.LoadInt64(&failed))

	log.Printf("submission completed: accepted=%d rejected=%d failed=%d",
		stats.Accepted, stats.Rejected, stats.Failed)

	return nil
}

// submitOne sends a single submission and classifies the outcome.
// A success=false body on 200 is a domain rejection, not a failure.
func submitOne(ctx context.Context, client *HTTPClient, url string, sub Submission) string {
	resp, err := client.Post(ctx, url, sub)
	if err != nil {
		return "failed"
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}
	if resp.StatusCode != http.StatusOK {
		return "failed"
	}

	var ack SubmitAck
	if err := json.Unmarshal(body, &ack); err != nil {
		return "failed"
	}
	if ack.Success {
		return "accepted"
	}
	return "rejected"
}
