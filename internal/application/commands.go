package application

type AddAccountCommand struct {
	Name     string
	Email    string
	Password string
	BaseURL  string
	// Inline keeps the password in the account file instead of the secret store.
	Inline bool
}

type SetPasswordCommand struct {
	Name     string
	Password string
}
