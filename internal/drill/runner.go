package drill

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Run executes the complete drill process.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	log.Printf("starting leaderboard drill against %s", config.BaseURL)

	// Step 1: health check
	if err := checkHealth(ctx, config); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	// Step 2: optional reset for a clean run
	if config.Reset {
		if err := resetLedger(ctx, config, stats); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
	}

	// Step 3: generate per-team plans
	plans, err := generatePlans(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("plan generation failed: %w", err)
	}

	// Step 4: submit all passwords
	if err := submitPlans(ctx, config, plans, stats); err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}

	// Step 5: fetch and verify the board
	board, err := fetchBoard(ctx, config)
	if err != nil {
		return fmt.Errorf("fetching board failed: %w", err)
	}
	stats.BoardEntries = board.Total

	if err := verifyBoard(board, plans); err != nil {
		return fmt.Errorf("board verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)
	return nil
}

// checkHealth verifies the service is reachable before submitting.
func checkHealth(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/api/ping")
	if err != nil {
		return fmt.Errorf("service unreachable at %s: %w", config.BaseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service returned status %d", resp.StatusCode)
	}

	log.Printf("service is healthy")
	return nil
}

// resetLedger clears all progress and feedback before the run.
func resetLedger(ctx context.Context, config *Config, stats *Stats) error {
	client := newHTTPClient(config.Timeout)

	resp, err := client.Post(ctx, config.BaseURL+"/api/reset-progress", struct{}{})
	if err != nil {
		return err
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reset returned status %d", resp.StatusCode)
	}

	var ack ResetAck
	if err := json.Unmarshal(body, &ack); err != nil {
		return fmt.Errorf("failed to decode reset response: %w", err)
	}
	if !ack.Success {
		return fmt.Errorf("reset rejected: %s", ack.Message)
	}

	log.Printf("ledger reset: %d submissions, %d feedbacks deleted",
		ack.Deleted.Submissions, ack.Deleted.Feedbacks)
	return nil
}

// fetchBoard retrieves the current ordered leaderboard.
func fetchBoard(ctx context.Context, config *Config) (*Board, error) {
	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/api/team-progress")
	if err != nil {
		return nil, err
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("board request returned status %d", resp.StatusCode)
	}

	var board Board
	if err := json.Unmarshal(body, &board); err != nil {
		return nil, fmt.Errorf("failed to decode board: %w", err)
	}
	return &board, nil
}

// displayFinalStats prints a summary of the drill run.
func displayFinalStats(stats *Stats) {
	log.Printf("========================================")
	log.Printf("drill completed in %v", stats.Duration.Round(time.Millisecond))
	log.Printf("teams planned:    %d", stats.TeamsPlanned)
	log.Printf("submissions sent: %d", stats.SubmissionsSent)
	log.Printf("accepted:         %d", stats.Accepted)
	log.Printf("rejected:         %d", stats.Rejected)
	log.Printf("failed:           %d", stats.Failed)
	log.Printf("board entries:    %d", stats.BoardEntries)
	log.Printf("========================================")
}
