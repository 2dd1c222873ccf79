package drill

import "time"

// Config holds configuration for a leaderboard drill run.
type Config struct {
	BaseURL string        // Base URL of the service
	Teams   int           // Number of teams to simulate
	Workers int           // Number of concurrent workers
	Timeout time.Duration // HTTP request timeout
	Reset   bool          // Reset the ledger before the drill
	LogFile string        // Log file for drill output
	Verbose bool          // Enable verbose logging
}

// Plan is the scripted submission sequence for one simulated team.
type Plan struct {
	TeamName    string   // display name sent on every submission
	TargetLevel int      // highest level the team should end at
	Passwords   []string // submissions in send order, replays included
}

// Submission mirrors the request body of POST /api/submit-password.
type Submission struct {
	TeamName string `json:"teamName"`
	Password string `json:"password"`
}

// SubmitAck mirrors the submission response envelope.
type SubmitAck struct {
	Success      bool   `json:"success"`
	Level        int    `json:"level"`
	SubmissionID string `json:"submissionId"`
	Message      string `json:"message"`
}

// BoardEntry mirrors one leaderboard row.
type BoardEntry struct {
	ID        string `json:"id"`
	TeamName  string `json:"teamName"`
	Level     int    `json:"level"`
	Timestamp string `json:"timestamp"`
}

// Board mirrors the GET /api/team-progress envelope.
type Board struct {
	Success    bool         `json:"success"`
	Teams      []BoardEntry `json:"teams"`
	Total      int          `json:"total"`
	ServerTime string       `json:"serverTime"`
}

// ResetAck mirrors the POST /api/reset-progress response.
type ResetAck struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Deleted struct {
		Submissions int `json:"submissions"`
		Feedbacks   int `json:"feedbacks"`
	} `json:"deleted"`
}

// Stats holds drill statistics.
type Stats struct {
	TeamsPlanned    int
	SubmissionsSent int
	Accepted        int
	Rejected        int
	Failed          int
	BoardEntries    int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
