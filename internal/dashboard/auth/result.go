package auth

// User is the authenticated actor.
type User struct {
	ID    string
	Name  string
	Email string
}

// Result is the outcome of Gate.Authenticate: Granted or Denied.
type Result interface {
	isResult()
}

// Granted carries the signed-in user and the minted session token.
// RedirectTo is set when the verifier asked for a specific destination.
type Granted struct {
	User       User
	Token      string
	RedirectTo string
}

// Denied carries the refusal reason (ReasonInvalidCredentials or ReasonTransient).
type Denied struct {
	Reason string
}

func (Granted) isResult() {}
func (Denied) isResult()  {}

// Err converts the reason into a classified error.
func (d Denied) Err() error {
	if d.Reason == ReasonInvalidCredentials {
		return ErrAuthDenied
	}
	return ErrTransient
}

// Message returns the user-facing message for the refusal.
func (d Denied) Message() string {
	return UserMessage(d.Err())
}
