package model

import "time"

type User struct {
	ID        string // UUID
	Email     string
	Role      string // "user" | "admin"
	CreatedAt time.Time
}
