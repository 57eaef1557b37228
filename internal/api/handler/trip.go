package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripwise/tripwise/internal/api/models"
	"github.com/tripwise/tripwise/internal/api/response"
	"github.com/tripwise/tripwise/internal/trip"
	"github.com/tripwise/tripwise/pkg/geo"
)

// TripHandler handles trip endpoints.
type TripHandler struct {
	service *trip.Service
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(service *trip.Service) *TripHandler {
	return &TripHandler{service: service}
}

// ListTrips handles GET /v1/trips.
func (h *TripHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	result, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeTripError(w, r, err, "failed to list trips")
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

// CreateTrip handles POST /v1/trips.
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input models.TripRequest
	if err := response.Decode(w, r, &input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.service.Create(r.Context(), userID, &input)
	if err != nil {
		writeTripError(w, r, err, "failed to create trip")
		return
	}
	response.Created(w, r, "/v1/trips/"+result.ID, result)
}

// GetTrip handles GET /v1/trips/{tripId}.
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	result, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "tripId"))
	if err != nil {
		writeTripError(w, r, err, "failed to get trip")
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

// UpdateTrip handles PUT /v1/trips/{tripId}.
func (h *TripHandler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input models.TripRequest
	if err := response.Decode(w, r, &input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "tripId"), &input)
	if err != nil {
		writeTripError(w, r, err, "failed to update trip")
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

// DeleteTrip handles DELETE /v1/trips/{tripId}.
func (h *TripHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "tripId")); err != nil {
		writeTripError(w, r, err, "failed to delete trip")
		return
	}
	response.NoContent(w, r)
}

// UpdateHotel handles PUT /v1/trips/{tripId}/hotel.
func (h *TripHandler) UpdateHotel(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input models.HotelRequest
	if err := response.Decode(w, r, &input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.service.UpdateHotel(r.Context(), userID, chi.URLParam(r, "tripId"), &input)
	if err != nil {
		writeTripError(w, r, err, "failed to update hotel")
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

// Directions handles POST /v1/trips/{tripId}/directions.
func (h *TripHandler) Directions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input models.DirectionsRequest
	if err := response.Decode(w, r, &input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	target := geo.Point{Lat: input.Lat, Lng: input.Lng}
	if !target.Valid() {
		response.BadRequest(w, r, "coordinates out of range", []models.FieldError{
			{Field: "lat", Message: "must be between -90 and 90"},
			{Field: "lng", Message: "must be between -180 and 180"},
		})
		return
	}

	result, err := h.service.Directions(r.Context(), userID, chi.URLParam(r, "tripId"), target)
	if err != nil {
		writeTripError(w, r, err, "failed to compute directions")
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

// SelectActivity handles PUT /v1/trips/{tripId}/days/{dayId}/selection.
func (h *TripHandler) SelectActivity(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var input models.SelectionRequest
	if err := response.Decode(w, r, &input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	result, err := h.service.SelectActivity(r.Context(), userID, chi.URLParam(r, "tripId"), chi.URLParam(r, "dayId"), &input)
	if err != nil {
		writeTripError(w, r, err, "failed to update selection")
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

func writeTripError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var verr *trip.ValidationError
	switch {
	case errors.As(err, &verr):
		response.BadRequest(w, r, "validation failed", verr.Errors)
	case errors.Is(err, trip.ErrTripNotFound):
		response.NotFound(w, r, "trip not found")
	case errors.Is(err, trip.ErrDayNotFound):
		response.NotFound(w, r, "itinerary day not found")
	default:
		response.InternalError(w, r, fallback)
	}
}
