package apperr

type Kind string

type AppError struct {
	Kind      Kind
	PublicMsg string            // message safe to show to the user
	Fields    map[string]string // field-scoped validation messages (optional)
	Status    int               // upstream HTTP status when the error came from the remote API
	Err       error             // internal cause, for logs only
}
