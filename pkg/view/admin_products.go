package view

type ProductForm struct {
	ID          string
	Name        string
	Description string
	Price       string
	Stock       string
	ImageURL    string
}

func (f ProductForm) Editing() bool { return f.ID != "" }

type AdminProductRow struct {
	ID       string
	Name     string
	Price    string
	Stock    int
	ImageURL string
}

type AdminProductsPage struct {
	Base
	Form      ProductForm
	Errors    FormErrors
	Products  []AdminProductRow
	LoadError string
}
