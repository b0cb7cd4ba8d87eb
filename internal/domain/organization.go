package domain

import "time"

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

type User struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	Email          string    `json:"email" gorm:"uniqueIndex"`
	Name           string    `json:"name"`
	Password       string    `json:"-"`
	Role           UserRole  `json:"role"`
	Status         string    `json:"status"`
	OrganizationID string    `json:"organization_id" gorm:"index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Organization struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleMember MemberRole = "member"
)

type OrganizationMember struct {
	ID             string     `json:"id" gorm:"primaryKey"`
	OrganizationID string     `json:"organization_id" gorm:"index"`
	UserID         string     `json:"user_id" gorm:"index"`
	Role           MemberRole `json:"role"`
	CreatedAt      time.Time  `json:"created_at"`
}
