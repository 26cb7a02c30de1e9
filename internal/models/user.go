package models

type User struct {
	ID        int64  `json:"id" redis:"id"`
	Username  string `json:"username" redis:"username"`
	IsAdmin   bool   `json:"is_admin" redis:"is_admin"`
	CreatedAt int64  `json:"created_at" redis:"created_at"`
}
