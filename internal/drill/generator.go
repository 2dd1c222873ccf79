package drill

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/okian/shellhunt/internal/domain/secrets"
	"github.com/okian/shellhunt/pkg/logger"
)

// Constants for random number generation.
const (
	targetClassDivisor = 8
	replayChanceOutOf  = 4
)

// Constants for target level classes.
const (
	caseEarlyDropout = 0
	caseMidfield     = 1
	caseMidfieldAlt  = 2
	caseStrong       = 3
	caseStrongAlt    = 4
	caseNearFinish   = 5
	caseFinisher     = 6
	caseWildcard     = 7
)

// randomInt returns a uniform random int in [0, n) using crypto/rand.
func randomInt(n int64) int64 {
	v, _ := rand.Int(rand.Reader, big.NewInt(n))
	return v.Int64()
}

// generatePlans scripts a submission sequence per team. Every team
// submits its passwords in level order with occasional replays mixed
// in, so a correct server must land each team exactly at TargetLevel.
func generatePlans(ctx context.Context, config *Config, stats *Stats) ([]Plan, error) {
	logger.Get().Info(ctx, "generating team plans", logger.Int("teams", config.Teams))

	plans := make([]Plan, config.Teams)
	for i := range plans {
		target := generateTargetLevel()

		passwords := make([]string, 0, target+2)
		for level := 1; level <= target; level++ {
			pass, ok := secrets.PasswordForLevel(level)
			if !ok {
				return nil, fmt.Errorf("no password for level %d", level)
			}
			passwords = append(passwords, pass)

			// Replay an already-proven level now and then. The server
			// must reject it without disturbing the record.
			if level > 1 && randomInt(replayChanceOutOf) == 0 {
				replay, _ := secrets.PasswordForLevel(int(randomInt(int64(level))) + 1)
				passwords = append(passwords, replay)
			}
		}

		plans[i] = Plan{
			TeamName:    fmt.Sprintf("drill-team-%03d", i+1),
			TargetLevel: target,
			Passwords:   passwords,
		}
	}

	stats.TeamsPlanned = len(plans)
	logger.Get().Info(ctx, "generated team plans", logger.Int("count", len(plans)))
	return plans, nil
}

// generateTargetLevel picks a team's final level with a distribution
// shaped like a real event: most teams stall mid-run, finishers are rare.
func generateTargetLevel() int {
	switch randomInt(targetClassDivisor) {
	case caseEarlyDropout:
		// Stuck on the first levels (1 - 2)
		return 1 + int(randomInt(2))
	case caseMidfield, caseMidfieldAlt:
		// Midfield (3 - 5) - most common
		return 3 + int(randomInt(3))
	case caseStrong, caseStrongAlt:
		// Strong run (6 - 8)
		return 6 + int(randomInt(3))
	case caseNearFinish:
		// Almost there (9)
		return secrets.MaxLevel - 1
	case caseFinisher:
		// Full clear - rare
		return secrets.MaxLevel
	case caseWildcard:
		return 1 + int(randomInt(int64(secrets.MaxLevel)))
	default:
		return 1 + int(randomInt(int64(secrets.MaxLevel)))
	}
}
