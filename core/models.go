package core

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Listing is a single vehicle for sale. Listings are the candidates the
// ranking engine scores.
type Listing struct {
	Id           ID        `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Variant      string    `json:"variant,omitempty"`
	Year         int       `json:"year"`
	Price        float64   `json:"price"`
	Mileage      *int      `json:"mileage"`                // nil when the seller did not state it
	FuelType     string    `json:"fuel_type,omitempty"`
	Transmission string    `json:"transmission,omitempty"`
	BodyType     string    `json:"body_type,omitempty"`
	Doors        int       `json:"doors,omitempty"`
	Colour       string    `json:"colour,omitempty"`
	EngineSize   *float64  `json:"engine_size,omitempty"` // nil for electric vehicles
	Location     string    `json:"location,omitempty"`
	Postcode     string    `json:"postcode,omitempty"`
	Images       []string  `json:"images"`
	GarageId     ID        `json:"garage_id,omitempty"`
	Vector       []float32 `json:"-"` // Embedding vector (populated by processors)
	InsertedAt   time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Normalize lowercases the fields that structured filters compare against.
func (l *Listing) Normalize() {
	l.Make = strings.ToLower(strings.TrimSpace(l.Make))
	l.Model = strings.ToLower(strings.TrimSpace(l.Model))
	l.FuelType = strings.ToLower(strings.TrimSpace(l.FuelType))
	l.Transmission = strings.ToLower(strings.TrimSpace(l.Transmission))
	l.BodyType = strings.ToLower(strings.TrimSpace(l.BodyType))
}

// Text returns the free text used for keyword matching.
func (l *Listing) Text() string {
	return l.Title + " " + l.Description
}

// EmbeddingText returns the text that is embedded for semantic search.
func (l *Listing) EmbeddingText() string {
	return fmt.Sprintf("%s %s %d %s %s %s", l.Make, l.Model, l.Year, l.Description, l.BodyType, l.FuelType)
}

// ContentKey identifies a listing by what it describes rather than where it
// is stored. Used to derive stable IDs for seeded data.
func (l *Listing) ContentKey() string {
	return strings.Join([]string{l.Title, l.Make, l.Model, fmt.Sprint(l.Year), l.Postcode}, "|")
}

// View projects a listing to the fields returned by search.
func (l *Listing) View() ListingView {
	return ListingView{
		Id:           l.Id,
		Title:        l.Title,
		Make:         l.Make,
		Model:        l.Model,
		Year:         l.Year,
		Price:        l.Price,
		Mileage:      l.Mileage,
		FuelType:     l.FuelType,
		Transmission: l.Transmission,
		BodyType:     l.BodyType,
		Location:     l.Location,
		Images:       l.Images,
	}
}

// Garage is a dealer that owns listings.
type Garage struct {
	Id         ID        `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	Postcode   string    `json:"postcode,omitempty"`
	InsertedAt time.Time `json:"created_at"`
}

// SearchLog records a prompt, what it was parsed into and how many listings
// matched.
type SearchLog struct {
	Id            ID        `json:"id"`
	Prompt        string    `json:"user_prompt"`
	ParsedFilters string    `json:"parsed_filters"` // JSON encoded FilterSet
	ResultsCount  int       `json:"results_count"`
	InsertedAt    time.Time `json:"created_at"`
}
