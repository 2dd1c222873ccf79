// Package config defines service configuration structures and loading hooks.
package config

// Store backend names accepted by the Store field.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Store selects the ledger backend: sqlite or memory.
	Store string `koanf:"store"`

	// DBPath is the SQLite database file for the sqlite backend.
	DBPath string `koanf:"db_path"`

	// SnapshotPath enables restart survival for the memory backend by
	// journaling the ledger to a JSON snapshot file. Empty disables it.
	SnapshotPath string `koanf:"snapshot_path"`

	// SnapshotQueueSize bounds the snapshot journal request queue.
	SnapshotQueueSize int `koanf:"snapshot_queue_size"`

	// PersistTimeoutMS bounds a single persistence operation.
	PersistTimeoutMS int `koanf:"persist_timeout_ms"`

	// ReconcilePolicy selects the submission reconciliation rule:
	// monotonic (default) or latest.
	ReconcilePolicy string `koanf:"reconcile_policy"`

	// MaxTeamNameLen caps the accepted team name length.
	MaxTeamNameLen int `koanf:"max_team_name_len"`

	// PingMessage is returned by GET /api/ping.
	PingMessage string `koanf:"ping_message"`
}

// New builds a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":8080",
		Store:             StoreSQLite,
		DBPath:            "shellhunt.db",
		SnapshotPath:      "",
		SnapshotQueueSize: 64,
		PersistTimeoutMS:  5000,
		ReconcilePolicy:   "monotonic",
		MaxTeamNameLen:    50,
		PingMessage:       "ping",
	}
}
