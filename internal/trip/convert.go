package trip

import (
	"github.com/tripwise/tripwise/internal/api/models"
	"github.com/tripwise/tripwise/internal/itinerary"
)

func toAPISummary(t *Trip) models.TripSummary {
	return models.TripSummary{
		ID:                t.ID,
		Destination:       t.Destination,
		Country:           t.Country,
		StartDate:         models.Date(t.StartDate),
		EndDate:           models.Date(t.EndDate()),
		NumberOfDays:      t.NumberOfDays,
		TravelStyle:       string(t.TravelStyle),
		BudgetLevel:       string(t.BudgetLevel),
		TripType:          string(t.TripType),
		NumberOfTravelers: t.NumberOfTravelers,
		CreatedAt:         models.Timestamp(t.CreatedAt),
	}
}

func toAPITrip(t *Trip, days []*Day) models.Trip {
	out := models.Trip{
		TripSummary:  toAPISummary(t),
		BudgetAmount: t.BudgetAmount,
		Hotel: models.Hotel{
			Name:    t.Hotel.Name,
			Address: t.Hotel.Address,
		},
		Itinerary: make([]models.ItineraryDay, 0, len(days)),
		UpdatedAt: models.Timestamp(t.UpdatedAt),
	}
	if !t.Center.IsZero() {
		out.Center = &models.Point{Lat: t.Center.Lat, Lng: t.Center.Lng}
	}
	if !t.Hotel.Location.IsZero() {
		out.Hotel.Location = &models.Point{Lat: t.Hotel.Location.Lat, Lng: t.Hotel.Location.Lng}
	}
	for _, d := range days {
		out.Itinerary = append(out.Itinerary, toAPIDay(d))
	}
	return out
}

func toAPIDay(d *Day) models.ItineraryDay {
	p := d.Plan
	return models.ItineraryDay{
		ID:              d.ID,
		DayNumber:       p.DayNumber,
		Date:            models.Date(p.Date),
		Weather:         string(p.Weather),
		WeatherAdjusted: p.WeatherAdjusted,
		Daytime: models.ActivitySlot{
			Main:        toAPIActivity(p.DaytimeMain),
			Alternative: toAPIActivity(p.DaytimeAlt),
			Selected:    string(p.SelectedDaytime),
		},
		Nighttime: models.ActivitySlot{
			Main:        toAPIActivity(p.NighttimeMain),
			Alternative: toAPIActivity(p.NighttimeAlt),
			Selected:    string(p.SelectedNighttime),
		},
	}
}

func toAPIActivity(a itinerary.Activity) models.Activity {
	return models.Activity{
		Name:           a.Name,
		Kind:           string(a.Kind),
		DurationHours:  a.DurationHours,
		PricePerPerson: a.PricePerPerson,
		Location: models.Location{
			Name:    a.Location.Name,
			Address: a.Location.Address,
			Lat:     a.Location.Lat,
			Lng:     a.Location.Lng,
		},
	}
}
