package user

import "time"

const (
	RoleUser           = "user"
	RoleAdmin          = "admin"
	RoleTourismManager = "tourism-manager"
)

type User struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	StoreID      *uint     `json:"storeId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type RegisterParams struct {
	Email    string
	Password string
	Name     string
}

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleTourismManager:
		return true
	}
	return false
}
