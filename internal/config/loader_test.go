package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/okian/shellhunt/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Store, convey.ShouldEqual, config.StoreSQLite)
				convey.So(cfg.DBPath, convey.ShouldEqual, "shellhunt.db")
				convey.So(cfg.ReconcilePolicy, convey.ShouldEqual, "monotonic")
				convey.So(cfg.MaxTeamNameLen, convey.ShouldEqual, 50)
				convey.So(cfg.PingMessage, convey.ShouldEqual, "ping")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SHELLHUNT_ADDR", ":9090")
			_ = os.Setenv("SHELLHUNT_STORE", "memory")
			_ = os.Setenv("SHELLHUNT_SNAPSHOT_PATH", "/tmp/ledger.json")
			_ = os.Setenv("SHELLHUNT_RECONCILE_POLICY", "latest")
			_ = os.Setenv("SHELLHUNT_PING_MESSAGE", "pong")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.Store, convey.ShouldEqual, config.StoreMemory)
				convey.So(cfg.SnapshotPath, convey.ShouldEqual, "/tmp/ledger.json")
				convey.So(cfg.ReconcilePolicy, convey.ShouldEqual, "latest")
				convey.So(cfg.PingMessage, convey.ShouldEqual, "pong")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			yamlContent := `
addr: ":7070"
store: "memory"
snapshot_path: "ledger.json"
snapshot_queue_size: 128
max_team_name_len: 64
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SHELLHUNT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load file values and keep defaults elsewhere", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.Store, convey.ShouldEqual, config.StoreMemory)
				convey.So(cfg.SnapshotQueueSize, convey.ShouldEqual, 128)
				convey.So(cfg.MaxTeamNameLen, convey.ShouldEqual, 64)
				convey.So(cfg.ReconcilePolicy, convey.ShouldEqual, "monotonic")
			})
		})

		convey.Convey("When file and environment variables are combined", func() {
			yamlContent := `
addr: ":7070"
max_team_name_len: 64
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SHELLHUNT_CONFIG", tmpFile)
			_ = os.Setenv("SHELLHUNT_ADDR", ":6060")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables win over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.MaxTeamNameLen, convey.ShouldEqual, 64)
			})
		})

		convey.Convey("When the YAML file is invalid", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SHELLHUNT_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("SHELLHUNT_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When addr is empty", func() {
			_ = os.Setenv("SHELLHUNT_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the store backend is unknown", func() {
			_ = os.Setenv("SHELLHUNT_STORE", "etcd")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "unknown store backend")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When db_path is cleared for the sqlite store", func() {
			_ = os.Setenv("SHELLHUNT_DB_PATH", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When numeric env vars are not numbers", func() {
			_ = os.Setenv("SHELLHUNT_MAX_TEAM_NAME_LEN", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When persist timeout is zero", func() {
			_ = os.Setenv("SHELLHUNT_PERSIST_TIMEOUT_MS", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"SHELLHUNT_CONFIG",
		"SHELLHUNT_ADDR",
		"SHELLHUNT_STORE",
		"SHELLHUNT_DB_PATH",
		"SHELLHUNT_SNAPSHOT_PATH",
		"SHELLHUNT_SNAPSHOT_QUEUE_SIZE",
		"SHELLHUNT_PERSIST_TIMEOUT_MS",
		"SHELLHUNT_RECONCILE_POLICY",
		"SHELLHUNT_MAX_TEAM_NAME_LEN",
		"SHELLHUNT_PING_MESSAGE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "shellhunt-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
