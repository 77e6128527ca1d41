package core

import (
	"errors"
	"testing"
)

func TestValidateListing(t *testing.T) {
	valid := func() *Listing {
		return &Listing{Title: "2019 Toyota Yaris", Make: "toyota", Model: "yaris", Year: 2019, Price: 9500}
	}

	tests := []struct {
		name    string
		listing *Listing
		wantErr error
	}{
		{
			name:    "valid listing",
			listing: valid(),
			wantErr: nil,
		},
		{
			name: "valid listing with zero mileage",
			listing: func() *Listing {
				l := valid()
				l.Mileage = Ptr(0)
				return l
			}(),
			wantErr: nil,
		},
		{
			name:    "nil listing",
			listing: nil,
			wantErr: ErrInvalidListing,
		},
		{
			name: "empty title",
			listing: func() *Listing {
				l := valid()
				l.Title = ""
				return l
			}(),
			wantErr: ErrEmptyTitle,
		},
		{
			name: "empty make",
			listing: func() *Listing {
				l := valid()
				l.Make = ""
				return l
			}(),
			wantErr: ErrEmptyMake,
		},
		{
			name: "empty model",
			listing: func() *Listing {
				l := valid()
				l.Model = ""
				return l
			}(),
			wantErr: ErrEmptyModel,
		},
		{
			name: "year too old",
			listing: func() *Listing {
				l := valid()
				l.Year = 1800
				return l
			}(),
			wantErr: ErrInvalidYear,
		},
		{
			name: "negative price",
			listing: func() *Listing {
				l := valid()
				l.Price = -1
				return l
			}(),
			wantErr: ErrNegativePrice,
		},
		{
			name: "negative mileage",
			listing: func() *Listing {
				l := valid()
				l.Mileage = Ptr(-5)
				return l
			}(),
			wantErr: ErrNegativeMileage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateListing(tt.listing)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateListing() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateListing() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidListing) {
				t.Errorf("ValidateListing() error should wrap ErrInvalidListing")
			}
		})
	}
}

func TestValidateGarage(t *testing.T) {
	if err := ValidateGarage(&Garage{Name: "City Motors Birmingham"}); err != nil {
		t.Errorf("ValidateGarage() unexpected error = %v", err)
	}
	if err := ValidateGarage(&Garage{}); !errors.Is(err, ErrEmptyGarageName) {
		t.Errorf("ValidateGarage() error = %v, want %v", err, ErrEmptyGarageName)
	}
	if err := ValidateGarage(nil); !errors.Is(err, ErrInvalidGarage) {
		t.Errorf("ValidateGarage() error = %v, want %v", err, ErrInvalidGarage)
	}
}

func TestValidateFilterSet(t *testing.T) {
	tests := []struct {
		name    string
		filters *FilterSet
		wantErr error
	}{
		{"empty", &FilterSet{}, nil},
		{"nil", nil, ErrInvalidFilterSet},
		{"valid ranges", &FilterSet{MinYear: Ptr(2015), MaxYear: Ptr(2020), MinPrice: Ptr(0.0), MaxPrice: Ptr(8000.0)}, nil},
		{"equal bounds", &FilterSet{MinPrice: Ptr(5000.0), MaxPrice: Ptr(5000.0)}, nil},
		{"negative price", &FilterSet{MaxPrice: Ptr(-1.0)}, ErrNegativeBound},
		{"negative mileage", &FilterSet{MaxMileage: Ptr(-10)}, ErrNegativeBound},
		{"inverted years", &FilterSet{MinYear: Ptr(2021), MaxYear: Ptr(2015)}, ErrInvertedRange},
		{"inverted prices", &FilterSet{MinPrice: Ptr(9000.0), MaxPrice: Ptr(1000.0)}, ErrInvertedRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilterSet(tt.filters)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateFilterSet() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateFilterSet() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidFilterSet) {
				t.Errorf("ValidateFilterSet() error = %v, want wrapped ErrInvalidFilterSet", err)
			}
		})
	}
}
