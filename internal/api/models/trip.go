package models

// TripRequest is the body of trip create and update calls.
type TripRequest struct {
	Destination       string   `json:"destination"`
	StartDate         string   `json:"startDate"`
	NumberOfDays      int      `json:"numberOfDays"`
	TravelStyle       string   `json:"travelStyle"`
	BudgetLevel       string   `json:"budgetLevel"`
	BudgetAmount      *float64 `json:"budgetAmount,omitempty"`
	NumberOfTravelers *int     `json:"numberOfTravelers,omitempty"`
	TripType          string   `json:"tripType,omitempty"`
	HotelName         string   `json:"hotelName,omitempty"`
	HotelAddress      string   `json:"hotelAddress,omitempty"`
}

// TripSummary is a trip as shown in lists.
type TripSummary struct {
	ID                string    `json:"id"`
	Destination       string    `json:"destination"`
	Country           string    `json:"country,omitempty"`
	StartDate         Date      `json:"startDate"`
	EndDate           Date      `json:"endDate"`
	NumberOfDays      int       `json:"numberOfDays"`
	TravelStyle       string    `json:"travelStyle"`
	BudgetLevel       string    `json:"budgetLevel"`
	TripType          string    `json:"tripType"`
	NumberOfTravelers int       `json:"numberOfTravelers"`
	CreatedAt         Timestamp `json:"createdAt"`
}

// TripList is the response of the trip list endpoint.
type TripList struct {
	Items []TripSummary `json:"items"`
}

// Trip is a trip with its itinerary.
type Trip struct {
	TripSummary
	BudgetAmount float64        `json:"budgetAmount"`
	Center       *Point         `json:"center,omitempty"`
	Hotel        Hotel          `json:"hotel"`
	Itinerary    []ItineraryDay `json:"itinerary"`
	UpdatedAt    Timestamp      `json:"updatedAt"`
}

// Hotel is where the travellers stay.
type Hotel struct {
	Name     string `json:"name,omitempty"`
	Address  string `json:"address,omitempty"`
	Location *Point `json:"location,omitempty"`
}

// ItineraryDay is one planned day.
type ItineraryDay struct {
	ID              string       `json:"id"`
	DayNumber       int          `json:"dayNumber"`
	Date            Date         `json:"date"`
	Weather         string       `json:"weather"`
	WeatherAdjusted bool         `json:"weatherAdjusted"`
	Daytime         ActivitySlot `json:"daytime"`
	Nighttime       ActivitySlot `json:"nighttime"`
}

// ActivitySlot holds an activity, its alternative and the user's pick.
type ActivitySlot struct {
	Main        Activity `json:"main"`
	Alternative Activity `json:"alternative"`
	Selected    string   `json:"selected"`
}

// Activity is a planned activity.
type Activity struct {
	Name           string   `json:"name"`
	Kind           string   `json:"kind"`
	DurationHours  int      `json:"durationHours"`
	PricePerPerson int      `json:"pricePerPerson"`
	Location       Location `json:"location"`
}

// Location is where an activity happens. Zero coordinates mean unknown.
type Location struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// HotelRequest is the body of the hotel update call.
type HotelRequest struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// DirectionsRequest asks for travel options from the hotel to a point.
type DirectionsRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Directions is the response of the directions call.
type Directions struct {
	HasDirections   bool              `json:"hasDirections"`
	Message         string            `json:"message,omitempty"`
	Origin          *DirectionsOrigin `json:"origin,omitempty"`
	Walking         *TravelOption     `json:"walking,omitempty"`
	PublicTransport *TravelOption     `json:"publicTransport,omitempty"`
	Taxi            *TravelOption     `json:"taxi,omitempty"`
	Fastest         string            `json:"fastest,omitempty"`
	Geometry        string            `json:"geometry,omitempty"`
}

// DirectionsOrigin is the starting point of a directions estimate.
type DirectionsOrigin struct {
	Name    string  `json:"name"`
	Address string  `json:"address,omitempty"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// TravelOption is the estimate for one mode of transport.
type TravelOption struct {
	DurationMinutes int     `json:"durationMinutes"`
	DistanceKm      float64 `json:"distanceKm"`
	EstimatedCost   *int    `json:"estimatedCost,omitempty"`
}

// SelectionRequest picks the main activity or its alternative.
type SelectionRequest struct {
	TimeOfDay string `json:"timeOfDay"`
	Selection string `json:"selection"`
}
