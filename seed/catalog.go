// Package seed loads the development catalog of garages and listings.
package seed

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/poiesic/carprompt/core"
)

//go:embed catalog.toml
var defaultCatalog []byte

// Catalog is a set of garages and the listings they sell.
type Catalog struct {
	Garages  []GarageEntry  `toml:"garages"`
	Listings []ListingEntry `toml:"listings"`
}

type GarageEntry struct {
	Name     string `toml:"name"`
	Email    string `toml:"email"`
	Phone    string `toml:"phone"`
	Address  string `toml:"address"`
	Postcode string `toml:"postcode"`
}

type ListingEntry struct {
	Title        string   `toml:"title"`
	Description  string   `toml:"description"`
	Make         string   `toml:"make"`
	Model        string   `toml:"model"`
	Variant      string   `toml:"variant"`
	Year         int      `toml:"year"`
	Price        float64  `toml:"price"`
	Mileage      *int     `toml:"mileage"`
	FuelType     string   `toml:"fuel_type"`
	Transmission string   `toml:"transmission"`
	BodyType     string   `toml:"body_type"`
	Doors        int      `toml:"doors"`
	Colour       string   `toml:"colour"`
	EngineSize   *float64 `toml:"engine_size"`
	Location     string   `toml:"location"`
	Postcode     string   `toml:"postcode"`
	Images       []string `toml:"images"`
	// Garage names the owning garage; empty for private sellers.
	Garage string `toml:"garage"`
}

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// ParseCatalog decodes a TOML catalog and checks that every listing's
// garage is defined.
func ParseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := toml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	names := make(map[string]struct{}, len(catalog.Garages))
	for _, g := range catalog.Garages {
		if _, dup := names[g.Name]; dup {
			return nil, fmt.Errorf("%w: garage %q defined twice", ErrInvalidCatalog, g.Name)
		}
		names[g.Name] = struct{}{}
	}
	for i, l := range catalog.Listings {
		if l.Garage == "" {
			continue
		}
		if _, ok := names[l.Garage]; !ok {
			return nil, fmt.Errorf("%w: listing %d (%s) names unknown garage %q", ErrInvalidCatalog, i, l.Title, l.Garage)
		}
	}
	return &catalog, nil
}

// garage converts an entry to a core.Garage with a content-derived ID.
func (e GarageEntry) garage() *core.Garage {
	return &core.Garage{
		Id:       core.IDFromContent(strings.Join([]string{"garage", e.Name, e.Email}, "|")),
		Name:     e.Name,
		Email:    e.Email,
		Phone:    e.Phone,
		Address:  e.Address,
		Postcode: e.Postcode,
	}
}

// listing converts an entry to a normalized core.Listing with a
// content-derived ID.
func (e ListingEntry) listing(garageID core.ID) *core.Listing {
	images := e.Images
	if images == nil {
		images = []string{}
	}
	l := &core.Listing{
		Title:        e.Title,
		Description:  e.Description,
		Make:         e.Make,
		Model:        e.Model,
		Variant:      e.Variant,
		Year:         e.Year,
		Price:        e.Price,
		Mileage:      e.Mileage,
		FuelType:     e.FuelType,
		Transmission: e.Transmission,
		BodyType:     e.BodyType,
		Doors:        e.Doors,
		Colour:       e.Colour,
		EngineSize:   e.EngineSize,
		Location:     e.Location,
		Postcode:     e.Postcode,
		Images:       images,
		GarageId:     garageID,
	}
	l.Normalize()
	l.Id = core.IDFromContent(l.ContentKey())
	return l
}
