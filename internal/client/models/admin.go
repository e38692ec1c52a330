package models

import "time"

// LinkType names a portfolio collection in admin link listings.
type LinkType string

const (
	LinkShort  LinkType = "short"
	LinkLong   LinkType = "long"
	LinkDesign LinkType = "design"
)

// PortfolioLink is one item of some user's portfolio, as seen by an admin.
type PortfolioLink struct {
	UserID   string   `json:"userId"`
	Username string   `json:"username"`
	Type     LinkType `json:"type"`
	URL      string   `json:"url"`
}

// UserUpdate is the admin edit form for a user.
type UserUpdate struct {
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role,omitempty"`
}

// AdminUser is a user row in the admin console.
type AdminUser struct {
	User
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// Analytics is the admin overview.
type Analytics struct {
	TotalUsers    int            `json:"totalUsers"`
	ActiveUsers   int            `json:"activeUsers"`
	RoleBreakdown map[Role]int   `json:"roleBreakdown"`
	PlanBreakdown map[string]int `json:"planBreakdown,omitempty"`
}
