// README: User profile documents synced from Firebase sign-in.
package user

import (
	"errors"
	"time"
)

const (
	StatusUser  = "user"
	StatusAdmin = "admin"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrInvalidProfile = errors.New("invalid user profile")
)

// Profile is the identity data taken from a verified ID token.
type Profile struct {
	AccountID string
	Email     string
	Name      string
	ImageURL  string
}

type User struct {
	AccountID string    `json:"accountId" firestore:"accountId"`
	Email     string    `json:"email" firestore:"email"`
	Name      string    `json:"name" firestore:"name"`
	ImageURL  string    `json:"imageUrl" firestore:"imageUrl"`
	JoinedAt  time.Time `json:"joinedAt" firestore:"joinedAt"`
	Status    string    `json:"status" firestore:"status"`
}
