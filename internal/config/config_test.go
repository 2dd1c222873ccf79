package config_test

import (
	"testing"

	"github.com/okian/shellhunt/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.Store, convey.ShouldEqual, config.StoreSQLite)
			convey.So(cfg.DBPath, convey.ShouldEqual, "shellhunt.db")
			convey.So(cfg.SnapshotQueueSize, convey.ShouldEqual, 64)
			convey.So(cfg.PersistTimeoutMS, convey.ShouldEqual, 5000)
			convey.So(cfg.ReconcilePolicy, convey.ShouldEqual, "monotonic")
			convey.So(cfg.MaxTeamNameLen, convey.ShouldEqual, 50)
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
		})
	})
}
