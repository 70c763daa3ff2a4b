package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeAt(t *testing.T) {
	dob := date(2000, time.June, 15)

	// Day before the birthday the age has not incremented yet
	assert.Equal(t, 23, AgeAt(dob, date(2024, time.June, 14)))
	// On the birthday it has
	assert.Equal(t, 24, AgeAt(dob, date(2024, time.June, 15)))
	assert.Equal(t, 24, AgeAt(dob, date(2024, time.December, 31)))

	// Earlier month in the year
	assert.Equal(t, 23, AgeAt(dob, date(2024, time.March, 1)))
}

func TestAgeAtNewborn(t *testing.T) {
	dob := date(2024, time.January, 10)
	assert.Equal(t, 0, AgeAt(dob, date(2024, time.November, 1)))
	assert.Equal(t, 1, AgeAt(dob, date(2025, time.January, 10)))
}
