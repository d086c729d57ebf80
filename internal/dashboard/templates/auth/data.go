package auth

// LoginPageData encapsulates rendering state for the login screen.
type LoginPageData struct {
	Email       string
	CallbackURL string
	LoginPath   string
	CSRFToken   string
	// Status is one of idle, error or success.
	Status      string
	Message     string
	FieldErrors map[string][]string
	// Redirect is set on success; the browser navigates there after RedirectDelayMS.
	Redirect        string
	RedirectDelayMS int64
}

// Form statuses rendered by LoginForm.
const (
	StatusIdle    = "idle"
	StatusError   = "error"
	StatusSuccess = "success"
)

func (d LoginPageData) fieldErrors(field string) []string {
	if d.FieldErrors == nil {
		return nil
	}
	return d.FieldErrors[field]
}

func (d LoginPageData) status() string {
	if d.Status == "" {
		return StatusIdle
	}
	return d.Status
}
