package view

// Base carries what the layout needs on every page.
type Base struct {
	Title     string
	Flash     *Flash
	LoggedIn  bool
	RequestID string
}

// FormErrors maps form field names to messages; the "_" key holds the
// general error of the form.
type FormErrors map[string]string

func (e FormErrors) General() string { return e["_"] }

// ConfirmPage asks before a destructive POST is carried out.
type ConfirmPage struct {
	Base
	Question string
	Action   string
	Cancel   string
	Fields   map[string]string
}

type ErrorPage struct {
	Base
	Status  int
	Message string
}
