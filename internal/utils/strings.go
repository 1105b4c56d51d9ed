package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// TrimOrEmpty normalizes user input without turning nil into "nil".
func TrimOrEmpty(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeSpace collapses repeated whitespace into a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizePhone strips spaces and dashes from a mobile-money number.
func NormalizePhone(s string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	return replacer.Replace(strings.TrimSpace(s))
}

// NewReference generates a booking/payment reference like "TNT-1700000000-4821".
func NewReference(prefix string) string {
	if prefix == "" {
		prefix = "TNT"
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, time.Now().Unix(), rand.Intn(10000))
}
