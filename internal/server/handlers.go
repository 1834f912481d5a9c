package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ngmaloney/coastal-activities/internal/catalog"
	"github.com/ngmaloney/coastal-activities/internal/planner"
	"github.com/ngmaloney/coastal-activities/internal/reference"
)

const defaultBestTimeCount = 3

// handleOutlook returns the ranked activities for a location
// GET /v1/outlook?lat=&lon=&station=&at=
func (s *Server) handleOutlook(c *gin.Context) {
	req := planner.Request{
		Latitude:    s.loc.Latitude,
		Longitude:   s.loc.Longitude,
		TideStation: c.Query("station"),
	}

	latStr, lonStr := c.Query("lat"), c.Query("lon")
	switch {
	case latStr == "" && lonStr == "":
		// configured home location, with its station unless one was given
		if req.TideStation == "" {
			req.TideStation = s.loc.TideStation
		}
	case latStr == "" || lonStr == "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon must be given together"})
		return
	default:
		lat, err1 := strconv.ParseFloat(latStr, 64)
		lon, err2 := strconv.ParseFloat(lonStr, 64)
		if err1 != nil || err2 != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lat or lon"})
			return
		}
		req.Latitude, req.Longitude = lat, lon
	}

	if atStr := c.Query("at"); atStr != "" {
		at, err := time.Parse(time.RFC3339, atStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "at must be RFC 3339"})
			return
		}
		req.At = at
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	out, err := s.planner.Outlook(ctx, req)
	switch {
	case errors.Is(err, planner.ErrInvalidLocation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, planner.ErrWeatherUnavailable):
		s.logger.Warn("outlook failed", "lat", req.Latitude, "lon", req.Longitude, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	case err != nil:
		s.logger.Error("outlook failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": out})
}

// handleBestTime ranks months for a persona
// GET /v1/best-time?persona=&n=
func (s *Server) handleBestTime(c *gin.Context) {
	n := defaultBestTimeCount
	if nStr := c.Query("n"); nStr != "" {
		v, err := strconv.Atoi(nStr)
		if err != nil || v < 1 || v > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "n must be between 1 and 12"})
			return
		}
		n = v
	}

	months, err := s.planner.BestTime(c.Query("persona"), n)
	if errors.Is(err, reference.ErrUnknownPersona) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": months,
		"meta": gin.H{"count": len(months)},
	})
}

// handlePersonas lists the visitor personas
// GET /v1/personas
func (s *Server) handlePersonas(c *gin.Context) {
	personas := s.planner.Personas()
	c.JSON(http.StatusOK, gin.H{
		"data": personas,
		"meta": gin.H{"count": len(personas)},
	})
}

// handleListActivities returns the catalog
// GET /v1/activities
func (s *Server) handleListActivities(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	activities, err := s.catalog.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": activities,
		"meta": gin.H{"count": len(activities)},
	})
}

// handleGetActivity returns one catalog entry
// GET /v1/activities/:id
func (s *Server) handleGetActivity(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	a, err := s.catalog.Get(ctx, c.Param("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "activity not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": a})
}
