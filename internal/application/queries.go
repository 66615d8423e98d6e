package application

type PasswordSource string

const (
	PasswordInline  PasswordSource = "inline"
	PasswordSecret  PasswordSource = "secret"
	PasswordMissing PasswordSource = "missing"
)

type AccountView struct {
	Name           string
	Email          string
	BaseURL        string
	PasswordSource PasswordSource
	PasswordRef    string
}
