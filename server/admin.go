package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

var errInvalidSecret = errors.New("invalid seed secret")

type seedQuery struct {
	Secret string `form:"secret" binding:"required"`
}

func (s *Server) seed(c *gin.Context) {
	var query seedQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		fail(c, http.StatusBadRequest, err, "secret is required")
		return
	}
	if subtle.ConstantTimeCompare([]byte(query.Secret), []byte(s.seedSecret)) != 1 {
		fail(c, http.StatusForbidden, errInvalidSecret, "Invalid secret")
		return
	}
	result, err := s.seeder.Seed(c.Request.Context(), s.catalog)
	if err != nil {
		fail(c, http.StatusInternalServerError, err, "Seeding failed: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Database seeded successfully",
		"count":   len(s.catalog.Listings),
		"result":  result,
	})
}

// healthCheck reports store connectivity in the body; it always answers 200.
func (s *Server) healthCheck(c *gin.Context) {
	listings, garages, err := s.counts(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusOK, gin.H{"database": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"database":     "connected",
		"car_listings": listings,
		"garages":      garages,
	})
}

func (s *Server) counts(ctx context.Context) (listings, garages int, err error) {
	listings, err = s.listings.CountListings(ctx)
	if err != nil {
		return 0, 0, err
	}
	all, err := s.garages.ListGarages(ctx)
	if err != nil {
		return 0, 0, err
	}
	return listings, len(all), nil
}
