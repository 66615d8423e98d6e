package domain

import "errors"

var (
	// ErrNavigation means the page was unreachable or did not settle in time.
	ErrNavigation = errors.New("navigation failed")
	// ErrElementNotFound means a required control was absent after every
	// discovery tier was tried.
	ErrElementNotFound = errors.New("element not found")
	// ErrLoginRejected means every login step ran but no success signal showed up.
	ErrLoginRejected = errors.New("login rejected")
	// ErrCheckinRejected is an explicit, non-idempotent failure from the service.
	ErrCheckinRejected = errors.New("check-in rejected")
	// ErrCheckinTransport means the check-in request produced no usable response.
	ErrCheckinTransport = errors.New("check-in request failed")
	// ErrCheckinAmbiguous means the response had no recognizable success flag.
	ErrCheckinAmbiguous = errors.New("check-in response ambiguous")
	// ErrInfoFetch covers a failed or malformed account status query.
	ErrInfoFetch = errors.New("account status fetch failed")

	ErrNoAccounts     = errors.New("no accounts configured")
	ErrReportNotFound = errors.New("report not found")
	ErrSecretNotFound = errors.New("secret not found")
	ErrAccountExists  = errors.New("account already exists")
	ErrAccountMissing = errors.New("account not found")
)
