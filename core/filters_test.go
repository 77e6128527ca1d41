package core

import (
	"slices"
	"testing"
)

func TestFilterSet_Normalize(t *testing.T) {
	f := FilterSet{
		Makes:     []string{"Toyota", "toyota", " Honda ", ""},
		FuelTypes: []string{"PETROL"},
		Keywords:  []string{"Reliable", "", "Reliable"},
		SortBy:    "cheapest",
	}
	f.Normalize()

	if !slices.Equal(f.Makes, []string{"toyota", "honda"}) {
		t.Errorf("Makes = %v", f.Makes)
	}
	if !slices.Equal(f.FuelTypes, []string{"petrol"}) {
		t.Errorf("FuelTypes = %v", f.FuelTypes)
	}
	if !slices.Equal(f.Keywords, []string{"Reliable"}) {
		t.Errorf("Keywords = %v", f.Keywords)
	}
	if f.SortBy != SortRelevance {
		t.Errorf("SortBy = %q, want relevance", f.SortBy)
	}
	if f.Models == nil {
		t.Errorf("Models should be an empty slice, not nil")
	}
}

func TestFilterSet_NormalizeKeepsBounds(t *testing.T) {
	f := FilterSet{MaxPrice: Ptr(0.0), SortBy: SortPriceDesc}
	f.Normalize()
	if f.MaxPrice == nil || *f.MaxPrice != 0 {
		t.Errorf("a stated zero bound must survive normalization")
	}
	if f.MinPrice != nil {
		t.Errorf("an unset bound must stay unset")
	}
	if f.SortBy != SortPriceDesc {
		t.Errorf("SortBy = %q", f.SortBy)
	}
}

func TestFilterSet_IsEmpty(t *testing.T) {
	tests := []struct {
		name string
		f    FilterSet
		want bool
	}{
		{"zero value", FilterSet{}, true},
		{"empty constructor", EmptyFilterSet(), true},
		{"sort only", FilterSet{SortBy: SortYearDesc}, true},
		{"make", FilterSet{Makes: []string{"bmw"}}, false},
		{"bound", FilterSet{MinDoors: Ptr(4)}, false},
		{"keyword", FilterSet{Keywords: []string{"fun"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortOrder_Valid(t *testing.T) {
	for _, s := range SortOrders {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if SortOrder("cheapest").Valid() {
		t.Errorf("unknown sort order reported valid")
	}
}

func TestListing_Fields(t *testing.T) {
	l := Listing{Make: "ford", Year: 2018, Price: 11750, Doors: 5}
	if v, ok := l.StringField(FieldMake); !ok || v != "ford" {
		t.Errorf("StringField(make) = %q, %v", v, ok)
	}
	if _, ok := l.StringField(FieldYear); ok {
		t.Errorf("year is not a string field")
	}
	if v, ok := l.NumericField(FieldPrice); !ok || v != 11750 {
		t.Errorf("NumericField(price) = %v, %v", v, ok)
	}
	if _, ok := l.NumericField(FieldMileage); ok {
		t.Errorf("unknown mileage must report !ok")
	}
	l.Mileage = Ptr(45000)
	if v, ok := l.NumericField(FieldMileage); !ok || v != 45000 {
		t.Errorf("NumericField(mileage) = %v, %v", v, ok)
	}
}
