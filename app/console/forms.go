// app/console/forms.go
package console

import "github.com/go-playground/validator/v10"

type AddBookForm struct {
	Title  string `validate:"required"`
	Author string `validate:"required"`
	ISBN   string `validate:"required"`
	Copies int    `validate:"min=1"`
}

type AddCDForm struct {
	Title  string `validate:"required"`
	Artist string `validate:"required"`
	ID     string `validate:"required"`
	Copies int    `validate:"min=1"`
}

type Forms struct {
	v *validator.Validate
}

func NewForms() *Forms {
	return &Forms{v: validator.New()}
}

func (f *Forms) Validate(i interface{}) error {
	return f.v.Struct(i)
}
