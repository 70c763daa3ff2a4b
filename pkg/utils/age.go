package utils

import "time"

// AgeAt computes whole years between a birthdate and a reference date.
// The year counter only ticks over on (or after) the birthday anniversary.
func AgeAt(dateOfBirth, now time.Time) int {
	age := now.Year() - dateOfBirth.Year()
	if now.Month() < dateOfBirth.Month() ||
		(now.Month() == dateOfBirth.Month() && now.Day() < dateOfBirth.Day()) {
		age--
	}
	return age
}
