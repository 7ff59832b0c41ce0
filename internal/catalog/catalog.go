package catalog

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tourbooking/internal/validation"
)

// FeaturedLimit is the number of packages shown on the landing page.
const FeaturedLimit = 6

type Package struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Location    string          `json:"location"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Duration    string          `json:"duration"`
	ImageURL    *string         `json:"imageUrl"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Amount accepts a price as either a JSON number or a JSON string.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*a = Amount(str)
		return nil
	}
	if s == "null" {
		*a = ""
		return nil
	}
	*a = Amount(s)
	return nil
}

// Fields is the admin-editable part of a package, as submitted.
type Fields struct {
	Title       string `json:"title" validate:"notblank"`
	Location    string `json:"location" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	Price       Amount `json:"price" validate:"money"`
	Duration    string `json:"duration" validate:"notblank"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
}

// Input is a validated Fields value ready for the store.
type Input struct {
	Title       string
	Location    string
	Description string
	Price       decimal.Decimal
	Duration    string
	ImageURL    *string
}

// Validate trims f and reports every invalid field in one error.
func (f Fields) Validate() (Input, error) {
	f = Fields{
		Title:       strings.TrimSpace(f.Title),
		Location:    strings.TrimSpace(f.Location),
		Description: strings.TrimSpace(f.Description),
		Price:       Amount(strings.TrimSpace(string(f.Price))),
		Duration:    strings.TrimSpace(f.Duration),
		ImageURL:    strings.TrimSpace(f.ImageURL),
	}
	if err := validation.Struct(f); err != nil {
		return Input{}, err
	}
	price, _ := decimal.NewFromString(string(f.Price))
	in := Input{
		Title:       f.Title,
		Location:    f.Location,
		Description: f.Description,
		Price:       price.Round(2),
		Duration:    f.Duration,
	}
	if f.ImageURL != "" {
		u := f.ImageURL
		in.ImageURL = &u
	}
	return in, nil
}

type Query struct {
	Search string
	Limit  int
}

// Dependents counts rows referencing a package.
type Dependents struct {
	Bookings  int `json:"bookings"`
	Favorites int `json:"favorites"`
	Reviews   int `json:"reviews"`
}

func (d Dependents) Total() int {
	return d.Bookings + d.Favorites + d.Reviews
}
