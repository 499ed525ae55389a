package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	Currency string  `validate:"omitempty,currency"`
	Color    *string `validate:"omitempty,hex_color"`
	Period   string  `validate:"omitempty,budget_period"`
	Name     string  `validate:"omitempty,category_name"`
}

func strPtr(s string) *string { return &s }

func TestCustomValidators(t *testing.T) {
	v := validator.New()
	RegisterOn(v)

	tests := []struct {
		name    string
		in      sample
		wantErr bool
	}{
		{"empty", sample{}, false},
		{"all valid", sample{Currency: "JPY", Color: strPtr("#45B7D1"), Period: "MONTHLY", Name: "Food Shopping"}, false},
		{"short color", sample{Color: strPtr("#fff")}, false},
		{"unsupported currency", sample{Currency: "AUD"}, true},
		{"lower case currency", sample{Currency: "usd"}, true},
		{"bad color", sample{Color: strPtr("red")}, true},
		{"lower case period", sample{Period: "monthly"}, true},
		{"unknown period", sample{Period: "HOURLY"}, true},
		{"name with digits", sample{Name: "Cafe 2"}, true},
		{"name with symbols", sample{Name: "Food & Drink"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}
