package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/carprompt/core"
	"github.com/poiesic/carprompt/storage"
)

type garageRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Postcode string `json:"postcode"`
}

func (s *Server) listGarages(c *gin.Context) {
	garages, err := s.garages.ListGarages(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err, "Failed to list garages")
		return
	}
	if garages == nil {
		garages = []*core.Garage{}
	}
	c.JSON(http.StatusOK, garages)
}

func (s *Server) getGarage(c *gin.Context) {
	var param idParam
	if err := c.ShouldBindUri(&param); err != nil {
		fail(c, http.StatusBadRequest, err, "Invalid garage id")
		return
	}
	garage, err := s.garages.GetGarage(c.Request.Context(), core.ID(param.ID))
	if errors.Is(err, storage.ErrNotFound) {
		fail(c, http.StatusNotFound, err, "Garage not found")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, err, "Failed to load garage")
		return
	}
	c.JSON(http.StatusOK, garage)
}

func (s *Server) createGarage(c *gin.Context) {
	var body garageRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, err, "Invalid request")
		return
	}
	stored, err := s.garages.AddGarages(c.Request.Context(), &core.Garage{
		Name:     body.Name,
		Email:    body.Email,
		Phone:    body.Phone,
		Address:  body.Address,
		Postcode: body.Postcode,
	})
	if errors.Is(err, core.ErrInvalidGarage) {
		fail(c, http.StatusBadRequest, err, err.Error())
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, err, "Failed to store garage")
		return
	}
	c.JSON(http.StatusCreated, stored[0])
}
