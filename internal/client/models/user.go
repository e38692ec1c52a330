// Package models defines client-side data models used by the Botfolio CLI.
// Field names follow the JSON shapes returned by the remote API.
package models

import "time"

// Role is the authorization role of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Plan is the subscription record embedded in a user. Optional quota fields
// are pointers so that "absent" can be told apart from zero.
type Plan struct {
	Name         string     `json:"name"`
	PurchasedAt  *time.Time `json:"purchasedAt,omitempty"`
	LinksAllowed *int       `json:"linksAllowed,omitempty"`
	DesignLimit  *int       `json:"designLimit,omitempty"`
}

// User is the identity record held by an authenticated session.
type User struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	ProfileImage string `json:"profileImage,omitempty"`
	Plan         *Plan  `json:"plan,omitempty"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Clone returns a deep copy so callers can't mutate session state through it.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Plan != nil {
		p := *u.Plan
		if u.Plan.PurchasedAt != nil {
			t := *u.Plan.PurchasedAt
			p.PurchasedAt = &t
		}
		if u.Plan.LinksAllowed != nil {
			n := *u.Plan.LinksAllowed
			p.LinksAllowed = &n
		}
		if u.Plan.DesignLimit != nil {
			n := *u.Plan.DesignLimit
			p.DesignLimit = &n
		}
		c.Plan = &p
	}
	return &c
}

// Profile is the portfolio view of a user: identity plus the bounded
// collections whose sizes are governed by the plan.
type Profile struct {
	User
	Bio          string   `json:"bio,omitempty"`
	Tags         []string `json:"tags"`
	ShortLinks   []string `json:"shortVideos"`
	LongLinks    []string `json:"longVideos"`
	DesignImages []string `json:"graphicImages"`
}

// IntPtr is a small helper for building plans with explicit quotas.
func IntPtr(n int) *int { return &n }

// TimePtr is a small helper for building plans with a purchase time.
func TimePtr(t time.Time) *time.Time { return &t }

// Upload is a file picked by the user, sent as a multipart part.
type Upload struct {
	Name string
	Data []byte
}

// ProfileUpdate is the multipart form of PUT /users/profile.
type ProfileUpdate struct {
	Name                 string
	Username             string
	Email                string
	Bio                  string
	Tags                 []string
	ShortLinks           []string
	LongLinks            []string
	ExistingDesignImages []string
	NewDesignImages      []Upload
	ProfileImage         *Upload
	RemoveProfileImage   bool
}
