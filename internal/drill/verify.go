package drill

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// verifyBoard checks the fetched leaderboard against the scripted
// plans: exactly one row per team, every team at its target level, and
// rows ordered level descending with ties broken by earlier timestamp.
func verifyBoard(board *Board, plans []Plan) error {
	if !board.Success {
		return fmt.Errorf("board response not successful")
	}

	want := make(map[string]int, len(plans))
	for _, plan := range plans {
		want[strings.ToLower(strings.TrimSpace(plan.TeamName))] = plan.TargetLevel
	}

	seen := make(map[string]bool, len(board.Teams))
	for _, entry := range board.Teams {
		key := strings.ToLower(strings.TrimSpace(entry.TeamName))
		if seen[key] {
			return fmt.Errorf("duplicate board row for team %q", entry.TeamName)
		}
		seen[key] = true

		target, ok := want[key]
		if !ok {
			return fmt.Errorf("unexpected team %q on board", entry.TeamName)
		}
		if entry.Level != target {
			return fmt.Errorf("team %q at level %d, want %d", entry.TeamName, entry.Level, target)
		}
	}

	if len(board.Teams) != len(plans) {
		return fmt.Errorf("board has %d rows, want %d", len(board.Teams), len(plans))
	}

	if err := verifyOrdering(board.Teams); err != nil {
		return err
	}

	log.Printf("board verified: %d teams, ordering correct", len(board.Teams))
	return nil
}

// verifyOrdering checks level descending, timestamp ascending within
// equal levels.
func verifyOrdering(entries []BoardEntry) error {
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if cur.Level > prev.Level {
			return fmt.Errorf("ordering violation at row %d: level %d after level %d",
				i, cur.Level, prev.Level)
		}
		if cur.Level == prev.Level {
			pt, err := time.Parse(time.RFC3339Nano, prev.Timestamp)
			if err != nil {
				return fmt.Errorf("unparsable timestamp %q: %w", prev.Timestamp, err)
			}
			ct, err := time.Parse(time.RFC3339Nano, cur.Timestamp)
			if err != nil {
				return fmt.Errorf("unparsable timestamp %q: %w", cur.Timestamp, err)
			}
			if ct.Before(pt) {
				return fmt.Errorf("ordering violation at row %d: later row has earlier timestamp", i)
			}
		}
	}
	return nil
}
