package models

import (
	"time"

	"github.com/mindwell-app/mindwell-backend/pkg/utils"
)

// Profile holds the self-reported attributes collected at signup.
type Profile struct {
	UserID      string    `json:"user_id"`
	FullName    string    `json:"full_name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Gender      string    `json:"gender"`
	CreatedAt   time.Time `json:"created_at"`
}

// Age returns the profile owner's age as of now.
func (p *Profile) Age() int {
	return utils.AgeAt(p.DateOfBirth, time.Now())
}
