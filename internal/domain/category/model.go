package category

import (
	"errors"
	"strings"
)

// Domain errors
var (
	ErrEmptyName     = errors.New("category name cannot be empty")
	ErrInvalidGender = errors.New("category gender must be 'male' or 'female'")
	ErrNoFields      = errors.New("category needs at least one measurement field")
)

// Category is a garment type with the measurement labels taken for it.
type Category struct {
	ID       string
	Name     string
	Gender   string
	IsCustom bool
	Fields   []string
}

// Validate checks if the Category has valid data.
// PRE: Category struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.Gender != "male" && c.Gender != "female" {
		return ErrInvalidGender
	}
	if len(c.Fields) == 0 {
		return ErrNoFields
	}
	return nil
}

// Defaults returns the built-in categories seeded into an empty shop.
func Defaults() []Category {
	return []Category{
		{Name: "Shirt", Gender: "male", Fields: []string{"Length", "Chest", "Waist", "Shoulder", "Sleeve", "Collar"}},
		{Name: "Pant", Gender: "male", Fields: []string{"Length", "Waist", "Seat", "Thigh", "Knee", "Bottom"}},
		{Name: "Kurta", Gender: "male", Fields: []string{"Length", "Chest", "Waist", "Shoulder", "Sleeve"}},
		{Name: "Blazer", Gender: "male", Fields: []string{"Length", "Chest", "Waist", "Shoulder", "Sleeve"}},
		{Name: "Blouse", Gender: "female", Fields: []string{"Length", "Bust", "Waist", "Shoulder", "Sleeve", "Armhole"}},
		{Name: "Salwar Kameez", Gender: "female", Fields: []string{"Length", "Bust", "Waist", "Hip", "Sleeve", "Bottom"}},
		{Name: "Lehenga", Gender: "female", Fields: []string{"Length", "Waist", "Hip"}},
	}
}
