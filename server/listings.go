package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/carprompt/core"
	"github.com/poiesic/carprompt/storage"
)

type pageQuery struct {
	Skip  int `form:"skip" binding:"min=0"`
	Limit int `form:"limit,default=20" binding:"min=1,max=100"`
}

type idParam struct {
	ID uint64 `uri:"id" binding:"required"`
}

type listingRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	Make         string   `json:"make" binding:"required"`
	Model        string   `json:"model" binding:"required"`
	Variant      string   `json:"variant"`
	Year         int      `json:"year" binding:"required"`
	Price        *float64 `json:"price" binding:"required"`
	Mileage      *int     `json:"mileage"`
	FuelType     string   `json:"fuel_type"`
	Transmission string   `json:"transmission"`
	BodyType     string   `json:"body_type"`
	Doors        int      `json:"doors"`
	Colour       string   `json:"colour"`
	EngineSize   *float64 `json:"engine_size"`
	Location     string   `json:"location"`
	Postcode     string   `json:"postcode"`
	Images       []string `json:"images"`
	GarageID     uint64   `json:"garage_id"`
}

func (r *listingRequest) listing() *core.Listing {
	images := r.Images
	if images == nil {
		images = []string{}
	}
	l := &core.Listing{
		Title:        r.Title,
		Description:  r.Description,
		Make:         r.Make,
		Model:        r.Model,
		Variant:      r.Variant,
		Year:         r.Year,
		Price:        *r.Price,
		Mileage:      r.Mileage,
		FuelType:     r.FuelType,
		Transmission: r.Transmission,
		BodyType:     r.BodyType,
		Doors:        r.Doors,
		Colour:       r.Colour,
		EngineSize:   r.EngineSize,
		Location:     r.Location,
		Postcode:     r.Postcode,
		Images:       images,
		GarageId:     core.ID(r.GarageID),
	}
	l.Normalize()
	return l
}

func (s *Server) listListings(c *gin.Context) {
	var page pageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		fail(c, http.StatusBadRequest, err, "Invalid pagination")
		return
	}
	listings, err := s.listings.ListListings(c.Request.Context(), page.Skip, page.Limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, err, "Failed to list listings")
		return
	}
	if listings == nil {
		listings = []*core.Listing{}
	}
	c.JSON(http.StatusOK, listings)
}

func (s *Server) getListing(c *gin.Context) {
	var param idParam
	if err := c.ShouldBindUri(&param); err != nil {
		fail(c, http.StatusBadRequest, err, "Invalid listing id")
		return
	}
	listing, err := s.listings.GetListing(c.Request.Context(), core.ID(param.ID))
	if errors.Is(err, storage.ErrNotFound) {
		fail(c, http.StatusNotFound, err, "Listing not found")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, err, "Failed to load listing")
		return
	}
	c.JSON(http.StatusOK, listing)
}

// createListing stores the listing and returns it with its ID. Embedding,
// when an ingester provides it, completes after the response.
func (s *Server) createListing(c *gin.Context) {
	var body listingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, err, "Invalid request")
		return
	}
	listing := body.listing()
	if err := core.ValidateListing(listing); err != nil {
		fail(c, http.StatusBadRequest, err, err.Error())
		return
	}
	stored, err := s.ingester.Ingest(c.Request.Context(), listing)
	if err != nil {
		fail(c, http.StatusInternalServerError, err, "Failed to store listing")
		return
	}
	c.JSON(http.StatusCreated, stored[0])
}
