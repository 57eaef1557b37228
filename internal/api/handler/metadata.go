package handler

import (
	"net/http"

	"github.com/tripwise/tripwise/internal/api/models"
	"github.com/tripwise/tripwise/internal/api/response"
	"github.com/tripwise/tripwise/internal/catalog"
	"github.com/tripwise/tripwise/internal/itinerary"
	"github.com/tripwise/tripwise/internal/trip"
	"github.com/tripwise/tripwise/internal/weather"
)

// MetadataHandler handles metadata endpoints.
type MetadataHandler struct {
	catalog *catalog.Static
}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler(c *catalog.Static) *MetadataHandler {
	if c == nil {
		c = catalog.Builtin()
	}
	return &MetadataHandler{catalog: c}
}

// GetEnums handles GET /v1/metadata/enums.
func (h *MetadataHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	enums := models.Enums{
		TravelStyles: stringsOf(catalog.TravelStyles),
		BudgetLevels: stringsOf(catalog.BudgetLevels),
		TripTypes:    stringsOf(itinerary.TripTypes),
		Weather:      stringsOf(weather.Conditions),
		Selections:   []string{string(itinerary.SelectMain), string(itinerary.SelectAlternative)},
		TimesOfDay:   []string{trip.TimeDaytime, trip.TimeNighttime},
	}
	response.JSON(w, r, http.StatusOK, enums)
}

// ListDestinations handles GET /v1/metadata/destinations.
func (h *MetadataHandler) ListDestinations(w http.ResponseWriter, r *http.Request) {
	dests := h.catalog.Destinations()
	out := models.DestinationList{Items: make([]models.CuratedDestination, 0, len(dests))}
	for _, d := range dests {
		out.Items = append(out.Items, models.CuratedDestination{
			Key:      d.Key,
			Country:  d.Country,
			Currency: d.Currency,
			Timezone: d.Timezone,
			Image:    d.Image,
			Center:   models.Point{Lat: d.Center.Lat, Lng: d.Center.Lng},
		})
	}
	response.JSON(w, r, http.StatusOK, out)
}

func stringsOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
