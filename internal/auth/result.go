package auth

// LoginResult distinguishes why a login call succeeded or failed.
// Failed logins are an expected, frequent outcome, so they are reported
// as a result value rather than an error.
type LoginResult int

const (
	// LoginNone means no login was evaluated.
	LoginNone LoginResult = iota
	// LoginSuccess means the credentials were accepted.
	LoginSuccess
	// LoginWrongCredentials means the email/password combination did not
	// match. Unknown accounts surface as this result as well, callers can
	// not distinguish a wrong password from a non-existing account.
	LoginWrongCredentials
	// LoginNotActivated means the account has not completed email activation.
	LoginNotActivated
	// LoginLockedOut means too many failed attempts were made within the
	// lockout window.
	LoginLockedOut
)

// Success reports whether the login was accepted.
func (r LoginResult) Success() bool {
	return r == LoginSuccess
}

func (r LoginResult) String() string {
	switch r {
	case LoginNone:
		return "none"
	case LoginSuccess:
		return "success"
	case LoginWrongCredentials:
		return "wrong credentials"
	case LoginNotActivated:
		return "not activated"
	case LoginLockedOut:
		return "locked out"
	default:
		return "unknown"
	}
}
