package models

import "time"

const (
	RoleUser     = "user"
	RoleProducer = "producer"
	RoleAdmin    = "admin"
)

// Principal — аутентифицированный субъект запроса. Заполняется JWT-middleware,
// неизменен в пределах запроса.
type Principal struct {
	ID   int
	Role string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Role     *string `json:"role,omitempty"`
}

type UserProfileResponse struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	Shops     []*Shop   `json:"shops"`
}
