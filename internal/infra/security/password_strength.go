package security

import (
	"fmt"

	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

// ErrWeakPassword wraps a rejected password with the score it achieved.
type ErrWeakPassword struct {
	Score    int
	Required int
}

func (e *ErrWeakPassword) Error() string {
	return fmt.Sprintf("password too weak: score %d, required %d", e.Score, e.Required)
}

// CheckPasswordStrength scores the password with zxcvbn (0-4) and rejects it
// below the minimum. User inputs (name, email) are penalized as guessable.
func CheckPasswordStrength(password string, minScore int, userInputs ...string) error {
	if minScore <= 0 {
		return nil
	}
	if minScore > 4 {
		minScore = 4
	}

	result := zxcvbn.PasswordStrength(password, userInputs)
	if result.Score < minScore {
		return &ErrWeakPassword{Score: result.Score, Required: minScore}
	}

	return nil
}
