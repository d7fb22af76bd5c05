package platformtest

import (
	"crypto/rand"
	"math/big"
	"regexp"
)

var (
	usernamePattern    = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)
	forbiddenChars     = regexp.MustCompile("[<>\"';&|`${}()\\[\\]]")
	specialChars       = regexp.MustCompile(`[!@#$%^&*\-_+=?/\\~]`)
	lowerChars         = regexp.MustCompile(`[a-z]`)
	upperChars         = regexp.MustCompile(`[A-Z]`)
	digitChars         = regexp.MustCompile(`[0-9]`)
)

func validateUsername(username string) string {
	if username == "" {
		return "Username is required"
	}
	if len(username) < 3 || len(username) > 30 {
		return "Username must be between 3 and 30 characters"
	}
	if !usernamePattern.MatchString(username) {
		return "Username may only contain letters, digits, underscores and dots"
	}
	return ""
}

func validatePassword(password string) string {
	if len(password) < 6 {
		return "Password must be at least 6 characters"
	}
	if forbiddenChars.MatchString(password) {
		return "Password contains forbidden special characters"
	}
	return ""
}

func scorePassword(password string) string {
	score := 0
	if len(password) >= 8 {
		score++
	}
	if len(password) >= 12 {
		score++
	}
	if lowerChars.MatchString(password) {
		score++
	}
	if upperChars.MatchString(password) {
		score++
	}
	if digitChars.MatchString(password) {
		score++
	}
	if specialChars.MatchString(password) {
		score++
	}
	switch {
	case score <= 2:
		return "weak"
	case score <= 4:
		return "medium"
	default:
		return "strong"
	}
}

const (
	genLower   = "abcdefghijkmnpqrstuvwxyz"
	genUpper   = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	genDigits  = "23456789"
	genSpecial = "!@#$%^&*-_+=?"
)

// generatePassword builds a password with at least three characters from
// each class, then shuffles.
func generatePassword(length int) string {
	pool := genLower + genUpper + genDigits + genSpecial
	chars := make([]byte, 0, length)
	for _, class := range []string{genLower, genUpper, genDigits, genSpecial} {
		for i := 0; i < 3; i++ {
			chars = append(chars, class[randInt(len(class))])
		}
	}
	for len(chars) < length {
		chars = append(chars, pool[randInt(len(pool))])
	}
	for i := len(chars) - 1; i > 0; i-- {
		j := randInt(i + 1)
		chars[i], chars[j] = chars[j], chars[i]
	}
	return string(chars)
}

func randInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}
	return int(v.Int64())
}
