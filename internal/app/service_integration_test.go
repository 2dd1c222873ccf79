package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/shellhunt/internal/domain/secrets"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConcurrentSubmissionsAcrossTeams(t *testing.T) {
	ctx := context.Background()

	Convey("Given many teams submitting concurrently", t, func() {
		svc := newService(t)

		const teams = 20
		var wg sync.WaitGroup
		for i := 0; i < teams; i++ {
			level := i%secrets.MaxLevel + 1
			name := fmt.Sprintf("team-%02d", i)
			wg.Add(1)
			go func() {
				defer wg.Done()
				pass, _ := secrets.PasswordForLevel(level)
				_, _ = svc.Submit(ctx, name, pass)
			}()
		}
		wg.Wait()

		Convey("Then every team has exactly one record at its level", func() {
			records, err := svc.ListProgress(ctx)
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, teams)

			byName := make(map[string]int, len(records))
			for _, rec := range records {
				byName[rec.TeamName] = rec.Level
			}
			for i := 0; i < teams; i++ {
				name := fmt.Sprintf("team-%02d", i)
				So(byName[name], ShouldEqual, i%secrets.MaxLevel+1)
			}
		})
	})
}

func TestConcurrentSubmissionsSameTeam(t *testing.T) {
	ctx := context.Background()

	Convey("Given one team submitting every password at once", t, func() {
		svc := newService(t)

		var wg sync.WaitGroup
		for level := 1; level <= secrets.MaxLevel; level++ {
			wg.Add(1)
			go func(lvl int) {
				defer wg.Done()
				pass, _ := secrets.PasswordForLevel(lvl)
				_, _ = svc.Submit(ctx, "Alpha", pass)
			}(level)
		}
		wg.Wait()

		Convey("Then the single record settled at the highest level", func() {
			records, err := svc.ListProgress(ctx)
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 1)
			So(records[0].Level, ShouldEqual, secrets.MaxLevel)
		})
	})
}

func TestConcurrentFeedbackSameTeam(t *testing.T) {
	ctx := context.Background()

	Convey("Given one team rating concurrently", t, func() {
		svc := newService(t)
		pass, _ := secrets.PasswordForLevel(3)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			rating := i%5 + 1
			wg.Add(1)
			go func(r int) {
				defer wg.Done()
				_, _ = svc.SubmitFeedback(ctx, "Alpha", pass, r, "concurrent")
			}(rating)
		}
		wg.Wait()

		Convey("Then exactly one feedback record remains", func() {
			records, err := svc.ListFeedback(ctx)
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 1)
			So(records[0].Rating, ShouldBeBetweenOrEqual, 1, 5)
		})
	})
}

func TestSubmissionsInterleavedWithReset(t *testing.T) {
	ctx := context.Background()

	Convey("Given a ledger reset while teams keep submitting", t, func() {
		svc := newService(t)

		for i := 0; i < 5; i++ {
			pass, _ := secrets.PasswordForLevel(i + 1)
			_, err := svc.Submit(ctx, fmt.Sprintf("team-%d", i), pass)
			So(err, ShouldBeNil)
		}

		deleted, _, err := svc.Reset(ctx)
		So(err, ShouldBeNil)
		So(deleted, ShouldEqual, 5)

		pass, _ := secrets.PasswordForLevel(1)
		result, err := svc.Submit(ctx, "team-0", pass)

		Convey("Then a fresh submission after the reset starts clean", func() {
			So(err, ShouldBeNil)
			So(result.Accepted, ShouldBeTrue)

			records, err := svc.ListProgress(ctx)
			So(err, ShouldBeNil)
			So(records, ShouldHaveLength, 1)
			So(records[0].Level, ShouldEqual, 1)
		})
	})
}
