package view

type LoginForm struct {
	Email string
}

type LoginPage struct {
	Base
	Form     LoginForm
	Errors   FormErrors
	ReturnTo string
}

type RegisterForm struct {
	FullName string
	Email    string
}

type RegisterPage struct {
	Base
	Form   RegisterForm
	Errors FormErrors
}
