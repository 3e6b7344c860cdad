package domain

// User is an authenticated account. The status string is free-form and only
// displayed, never interpreted.
type User struct {
	Username string `json:"username"`
	Status   string `json:"status"`
}
