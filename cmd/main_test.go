package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/shellhunt/internal/adapters/http/api"
	"github.com/okian/shellhunt/internal/adapters/http/site"
	"github.com/okian/shellhunt/internal/adapters/http/swagger"
	app "github.com/okian/shellhunt/internal/app"
	"github.com/okian/shellhunt/internal/config"
	"github.com/okian/shellhunt/pkg/logger"
	"github.com/okian/shellhunt/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	_ = logger.Init()
	os.Exit(m.Run())
}

func TestConfigurationLoading(t *testing.T) {
	convey.Convey("Given environment configuration", t, func() {
		_ = os.Setenv("SHELLHUNT_ADDR", ":9090")
		_ = os.Setenv("SHELLHUNT_STORE", "memory")
		_ = os.Setenv("SHELLHUNT_RECONCILE_POLICY", "latest")
		defer func() {
			_ = os.Unsetenv("SHELLHUNT_ADDR")
			_ = os.Unsetenv("SHELLHUNT_STORE")
			_ = os.Unsetenv("SHELLHUNT_RECONCILE_POLICY")
		}()

		convey.Convey("Then configuration should be loadable", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			convey.So(cfg.Store, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.ReconcilePolicy, convey.ShouldEqual, "latest")
		})
	})
}

func TestOpenStore(t *testing.T) {
	convey.Convey("Given store configuration", t, func() {
		ctx := context.Background()

		convey.Convey("When the memory backend is selected", func() {
			cfg := config.New()
			cfg.Store = config.StoreMemory

			store, err := openStore(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = store.Close() }()

			convey.So(store, convey.ShouldNotBeNil)
		})

		convey.Convey("When the memory backend has a snapshot path", func() {
			cfg := config.New()
			cfg.Store = config.StoreMemory
			cfg.SnapshotPath = filepath.Join(t.TempDir(), "ledger.json")

			store, err := openStore(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = store.Close() }()

			convey.So(store, convey.ShouldNotBeNil)
		})

		convey.Convey("When the sqlite backend is selected", func() {
			cfg := config.New()
			cfg.DBPath = filepath.Join(t.TempDir(), "ledger.db")

			store, err := openStore(ctx, cfg)
			convey.So(err, convey.ShouldBeNil)
			defer func() { _ = store.Close() }()

			convey.So(store, convey.ShouldNotBeNil)
		})
	})
}

func TestApplicationSetup(t *testing.T) {
	convey.Convey("Given the full application wiring", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cfg := config.New()
		cfg.Store = config.StoreMemory

		store, err := openStore(ctx, cfg)
		convey.So(err, convey.ShouldBeNil)

		svc := app.New(app.WithStore(store))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("Then all routes register on one mux without conflict", func() {
			mux := http.NewServeMux()

			convey.So(func() {
				swagger.Register(ctx, mux)
				site.Register(ctx, mux)
				api.NewServer(svc, svc).Register(ctx, mux)
			}, convey.ShouldNotPanic)
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the background metrics updaters", t, func() {
		convey.Convey("When the system updater runs until its context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			convey.So(func() {
				startSystemMetricsUpdater(ctx)
			}, convey.ShouldNotPanic)
		})

		convey.Convey("When system metrics are sampled directly", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("When a metrics manager uses a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := metrics.NewManager(metrics.WithPrometheusRegistry(registry))

			convey.So(manager, convey.ShouldNotBeNil)
		})
	})
}

func TestInvalidConfiguration(t *testing.T) {
	convey.Convey("Given an invalid store backend", t, func() {
		_ = os.Setenv("SHELLHUNT_STORE", "etcd")
		defer func() { _ = os.Unsetenv("SHELLHUNT_STORE") }()

		convey.Convey("Then configuration loading should fail", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}
