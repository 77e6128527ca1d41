package core

// Field names a listing attribute a predicate can test.
type Field string

const (
	FieldMake         Field = "make"
	FieldModel        Field = "model"
	FieldFuelType     Field = "fuel_type"
	FieldTransmission Field = "transmission"
	FieldBodyType     Field = "body_type"
	FieldYear         Field = "year"
	FieldPrice        Field = "price"
	FieldMileage      Field = "mileage"
	FieldDoors        Field = "doors"
)

// Predicate is a single candidate-selection condition. A slice of predicates
// is conjunctive. Each store converts these to its native filter form.
type Predicate interface {
	// isPredicate is a marker method to ensure type safety
	isPredicate()
}

// MatchAny matches when the field equals one of Values (SQL IN).
// Values are lowercase; stores hold the compared fields lowercase too.
type MatchAny struct {
	Field  Field    `json:"field"`
	Values []string `json:"anyOf"`
}

func (MatchAny) isPredicate() {}

// Range matches when the numeric field lies within the inclusive bounds.
// A nil bound is open.
type Range struct {
	Field Field    `json:"field"`
	Gte   *float64 `json:"greaterThanOrEqualTo,omitempty"`
	Lte   *float64 `json:"lessThanOrEqualTo,omitempty"`
}

func (Range) isPredicate() {}

// StringField returns the value of a string-valued field.
func (l *Listing) StringField(f Field) (string, bool) {
	switch f {
	case FieldMake:
		return l.Make, true
	case FieldModel:
		return l.Model, true
	case FieldFuelType:
		return l.FuelType, true
	case FieldTransmission:
		return l.Transmission, true
	case FieldBodyType:
		return l.BodyType, true
	}
	return "", false
}

// NumericField returns the value of a numeric field. ok is false when the
// field is unknown or the listing has no value for it.
func (l *Listing) NumericField(f Field) (v float64, ok bool) {
	switch f {
	case FieldYear:
		return float64(l.Year), true
	case FieldPrice:
		return l.Price, true
	case FieldMileage:
		if l.Mileage == nil {
			return 0, false
		}
		return float64(*l.Mileage), true
	case FieldDoors:
		return float64(l.Doors), true
	}
	return 0, false
}
