package core

// Identity names the author recorded on snapshot archive commits.
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
