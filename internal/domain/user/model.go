package user

import "fmt"

// User is an account known to the identity subsystem. The service only
// reads identity fields; credentials are owned by the account service.
type User struct {
	ID    string
	Email string
	Name  string
}

// Principal is an authenticated caller resolved from a bearer token.
type Principal struct {
	UserID string
	Email  string
}

func (u User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user id is required")
	}
	if u.Email == "" {
		return fmt.Errorf("user email is required")
	}

	return nil
}
