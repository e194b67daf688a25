package domain

import "time"

type Role string

const (
	RoleUser     Role = "USER"
	RoleOperator Role = "OPERATOR"
)

// User is the slice of the identity record this core needs: enough to
// address notifications and compare ids. Authentication happens upstream.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Roles     []Role    `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}
