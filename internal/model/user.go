package model

import "time"

// UserRecordVersion is bumped when the on-disk user record layout changes.
const UserRecordVersion = 1

// User is the durable per-user record.
type User struct {
	Version   int       `json:"version"`
	Username  string    `json:"username"`
	Verified  bool      `json:"verified"` // KYC flag
	CreatedAt time.Time `json:"createdAt"`
}
