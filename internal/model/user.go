package model

// User is the account a booking belongs to.  Only the id is guaranteed; the
// backend fills email and name when it has them.
type User struct {
	ID    string  `json:"id"`
	Email *string `json:"email,omitempty"`
	Name  *string `json:"name,omitempty"`
}
