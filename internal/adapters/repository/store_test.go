package repository_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/okian/shellhunt/internal/adapters/journal"
	"github.com/okian/shellhunt/internal/adapters/repository"
	"github.com/okian/shellhunt/internal/domain/model"
	"github.com/okian/shellhunt/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	_ = logger.Init()
	os.Exit(m.Run())
}

func progressRecord(team string, level int, ts time.Time) model.Progress {
	return model.Progress{
		ID:        team + "-id",
		TeamName:  team,
		TeamKey:   model.TeamKey(team),
		Level:     level,
		Timestamp: ts,
	}
}

// storeContract runs the behavior shared by every Store implementation.
func storeContract(t *testing.T, name string, open func() repository.Store) {
	t.Helper()

	Convey("Given an empty "+name+" store", t, func() {
		ctx := context.Background()
		store := open()
		defer func() { _ = store.Close() }()

		ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

		Convey("When looking up an unknown team", func() {
			_, found, err := store.GetProgress(ctx, "nobody")

			Convey("Then nothing is found and no error occurs", func() {
				So(err, ShouldBeNil)
				So(found, ShouldBeFalse)
			})
		})

		Convey("When a progress record is written", func() {
			rec := progressRecord("Alpha", 3, ts)
			So(store.PutProgress(ctx, rec), ShouldBeNil)

			Convey("Then it can be read back by team key", func() {
				got, found, err := store.GetProgress(ctx, "alpha")
				So(err, ShouldBeNil)
				So(found, ShouldBeTrue)
				So(got.TeamName, ShouldEqual, "Alpha")
				So(got.Level, ShouldEqual, 3)
				So(got.Timestamp.Equal(ts), ShouldBeTrue)
			})

			Convey("And overwritten under the same key", func() {
				update := progressRecord("ALPHA", 7, ts.Add(time.Minute))
				update.TeamKey = "alpha"
				So(store.PutProgress(ctx, update), ShouldBeNil)

				Convey("Then one record remains, holding the new state", func() {
					records, err := store.ListProgress(ctx)
					So(err, ShouldBeNil)
					So(records, ShouldHaveLength, 1)
					So(records[0].Level, ShouldEqual, 7)
					So(records[0].TeamName, ShouldEqual, "ALPHA")
				})
			})
		})

		Convey("When a feedback record is written", func() {
			rec := model.Feedback{
				ID: "f1", TeamName: "Beta", TeamKey: "beta",
				Level: 2, Rating: 4, Comments: "great puzzles", Timestamp: ts,
			}
			So(store.PutFeedback(ctx, rec), ShouldBeNil)

			Convey("Then it round-trips including comments", func() {
				got, found, err := store.GetFeedback(ctx, "beta")
				So(err, ShouldBeNil)
				So(found, ShouldBeTrue)
				So(got.Rating, ShouldEqual, 4)
				So(got.Comments, ShouldEqual, "great puzzles")
				So(got.Timestamp.Equal(ts), ShouldBeTrue)
			})
		})

		Convey("When the store holds records and is reset", func() {
			So(store.PutProgress(ctx, progressRecord("Alpha", 3, ts)), ShouldBeNil)
			So(store.PutProgress(ctx, progressRecord("Beta", 5, ts)), ShouldBeNil)
			So(store.PutFeedback(ctx, model.Feedback{
				ID: "f1", TeamName: "Alpha", TeamKey: "alpha",
				Level: 3, Rating: 5, Timestamp: ts,
			}), ShouldBeNil)

			deletedProgress, deletedFeedback, err := store.ResetAll(ctx)

			Convey("Then the deleted counts are reported", func() {
				So(err, ShouldBeNil)
				So(deletedProgress, ShouldEqual, 2)
				So(deletedFeedback, ShouldEqual, 1)
			})

			Convey("Then the store is empty afterwards", func() {
				records, err := store.ListProgress(ctx)
				So(err, ShouldBeNil)
				So(records, ShouldBeEmpty)

				feedbacks, err := store.ListFeedback(ctx)
				So(err, ShouldBeNil)
				So(feedbacks, ShouldBeEmpty)
			})

			Convey("Then resetting again returns zeros", func() {
				p, f, err := store.ResetAll(ctx)
				So(err, ShouldBeNil)
				So(p, ShouldEqual, 0)
				So(f, ShouldEqual, 0)
			})
		})

		Convey("When counting records", func() {
			So(store.PutProgress(ctx, progressRecord("Alpha", 3, ts)), ShouldBeNil)

			progress, feedback, err := store.Counts(ctx)

			Convey("Then counts reflect the stored state", func() {
				So(err, ShouldBeNil)
				So(progress, ShouldEqual, 1)
				So(feedback, ShouldEqual, 0)
			})
		})
	})
}

func TestMemoryStoreContract(t *testing.T) {
	storeContract(t, "memory", func() repository.Store {
		s, err := repository.NewMemoryStore()
		if err != nil {
			t.Fatalf("open memory store: %v", err)
		}
		return s
	})
}

func TestSQLiteStoreContract(t *testing.T) {
	storeContract(t, "sqlite", func() repository.Store {
		path := filepath.Join(t.TempDir(), "ledger.db")
		s, err := repository.NewSQLiteStore(context.Background(), path)
		if err != nil {
			t.Fatalf("open sqlite store: %v", err)
		}
		return s
	})
}

func TestSQLiteStoreReopen(t *testing.T) {
	Convey("Given a sqlite store with records", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "ledger.db")
		ts := time.Date(2025, 6, 1, 12, 0, 0, 123456789, time.UTC)

		store, err := repository.NewSQLiteStore(ctx, path)
		So(err, ShouldBeNil)
		So(store.PutProgress(ctx, progressRecord("Alpha", 6, ts)), ShouldBeNil)
		So(store.Close(), ShouldBeNil)

		Convey("When the store is reopened on the same file", func() {
			reopened, err := repository.NewSQLiteStore(ctx, path)
			So(err, ShouldBeNil)
			defer func() { _ = reopened.Close() }()

			Convey("Then state survived the restart, nanoseconds included", func() {
				got, found, err := reopened.GetProgress(ctx, "alpha")
				So(err, ShouldBeNil)
				So(found, ShouldBeTrue)
				So(got.Level, ShouldEqual, 6)
				So(got.Timestamp.Equal(ts), ShouldBeTrue)
			})
		})
	})

	Convey("Given an empty path", t, func() {
		_, err := repository.NewSQLiteStore(context.Background(), "  ")

		Convey("Then opening fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestMemoryStoreJournalReload(t *testing.T) {
	Convey("Given a journaled memory store", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "ledger.json")
		ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

		j, err := journal.New(path)
		So(err, ShouldBeNil)

		store, err := repository.NewMemoryStore(repository.WithJournal(j, path))
		So(err, ShouldBeNil)
		So(store.PutProgress(ctx, progressRecord("Alpha", 4, ts)), ShouldBeNil)
		So(store.PutFeedback(ctx, model.Feedback{
			ID: "f1", TeamName: "Alpha", TeamKey: "alpha",
			Level: 4, Rating: 3, Timestamp: ts,
		}), ShouldBeNil)
		// Close drains the journal queue, flushing the final snapshot.
		So(store.Close(), ShouldBeNil)

		Convey("When a new store opens with a journal on the same path", func() {
			j2, err := journal.New(path)
			So(err, ShouldBeNil)
			reloaded, err := repository.NewMemoryStore(repository.WithJournal(j2, path))
			So(err, ShouldBeNil)
			defer func() { _ = reloaded.Close() }()

			Convey("Then the snapshot state is visible again", func() {
				got, found, err := reloaded.GetProgress(ctx, "alpha")
				So(err, ShouldBeNil)
				So(found, ShouldBeTrue)
				So(got.Level, ShouldEqual, 4)

				fb, found, err := reloaded.GetFeedback(ctx, "alpha")
				So(err, ShouldBeNil)
				So(found, ShouldBeTrue)
				So(fb.Rating, ShouldEqual, 3)
			})
		})
	})
}

func TestMemoryStoreJournalConcurrentDurability(t *testing.T) {
	Convey("Given a journaled memory store written by concurrent teams", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "ledger.json")

		j, err := journal.New(path, journal.WithQueueSize(4))
		So(err, ShouldBeNil)
		store, err := repository.NewMemoryStore(repository.WithJournal(j, path))
		So(err, ShouldBeNil)

		const writers = 32
		errCh := make(chan error, writers)
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				team := fmt.Sprintf("team-%02d", n)
				errCh <- store.PutProgress(ctx, progressRecord(team, 1+n%10, time.Now().UTC()))
			}(i)
		}
		wg.Wait()
		close(errCh)
		for err := range errCh {
			So(err, ShouldBeNil)
		}

		Convey("When the store closes and the snapshot is reloaded", func() {
			So(store.Close(), ShouldBeNil)

			st, found, err := journal.Load(path)
			So(err, ShouldBeNil)
			So(found, ShouldBeTrue)

			Convey("Then every acknowledged write survives", func() {
				So(st.Progress, ShouldHaveLength, writers)

				seen := make(map[string]bool, len(st.Progress))
				for _, rec := range st.Progress {
					seen[rec.TeamKey] = true
				}
				for i := 0; i < writers; i++ {
					So(seen[fmt.Sprintf("team-%02d", i)], ShouldBeTrue)
				}
			})
		})
	})
}

func TestMemoryStoreClosed(t *testing.T) {
	Convey("Given a closed memory store", t, func() {
		store, err := repository.NewMemoryStore()
		So(err, ShouldBeNil)
		So(store.Close(), ShouldBeNil)

		Convey("Then operations report the closed state", func() {
			ctx := context.Background()
			_, _, err := store.GetProgress(ctx, "alpha")
			So(err, ShouldEqual, repository.ErrClosed)

			err = store.PutProgress(ctx, progressRecord("Alpha", 1, time.Now()))
			So(err, ShouldEqual, repository.ErrClosed)
		})

		Convey("Then closing twice is harmless", func() {
			So(store.Close(), ShouldBeNil)
		})
	})
}
