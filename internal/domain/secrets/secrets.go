// Package secrets maps level passwords to level numbers.
//
// The mapping is static and compiled in: each password is handed out by
// the terminal challenge when a team completes the matching level, and
// presenting it back here is the only proof of completion the server
// accepts. Lookup is exact and case-sensitive.
package secrets

// MaxLevel is the highest level in the event.
const MaxLevel = 10

// levelByPassword is the fixed password set for the running event.
// Each password maps to exactly one level.
var levelByPassword = map[string]int{
	"ZjLjTmM6FvvyRnrb2rfNWOZOTa6ip5If": 1,
	"263JGJPfgU6LtdEvgfWU1XP5yac29mFx": 2,
	"MNk8KNH3Usiio41PRUEoDFPqfxLPlSmx": 3,
	"2WmrDFRmJIq3IPxneAaMGhap0pFhF3NJ": 4,
	"4oQYVPkxZOOEOO5pTW81FB8j8lxXGUQw": 5,
	"HWasnPhtq9AVKe0dmk45nxy20cvUa6EG": 6,
	"morbNTDkSW6jIlUc0ymOdMaLnOlFVAaj": 7,
	"dfwvzFQi4mU0wfNbFOe9RoWskMLg7eEc": 8,
	"4CKMh1JI91bUIZZPXDqGanal4xvAg0JM": 9,
	"FGUW5ilLVJrxX9kMYMmlN4MgbpfMiqey": 10,
}

// Resolve returns the level proven by password. The second return is
// false when the password is not part of the fixed set; an unknown
// password is a normal negative outcome, never an error.
func Resolve(password string) (int, bool) {
	level, ok := levelByPassword[password]
	return level, ok
}

// PasswordForLevel returns the password that proves completion of level,
// or false when level is out of range. Only test harnesses should need
// this direction of the mapping.
func PasswordForLevel(level int) (string, bool) {
	for pass, lvl := range levelByPassword {
		if lvl == level {
			return pass, true
		}
	}
	return "", false
}

// Count reports the number of known passwords.
func Count() int {
	return len(levelByPassword)
}
