package models

// Enums lists the accepted values of the enumerated request fields.
type Enums struct {
	TravelStyles []string `json:"travelStyles"`
	BudgetLevels []string `json:"budgetLevels"`
	TripTypes    []string `json:"tripTypes"`
	Weather      []string `json:"weather"`
	Selections   []string `json:"selections"`
	TimesOfDay   []string `json:"timesOfDay"`
}

// CuratedDestination is a destination with hand-picked activities.
type CuratedDestination struct {
	Key      string `json:"key"`
	Country  string `json:"country"`
	Currency string `json:"currency"`
	Timezone string `json:"timezone"`
	Image    string `json:"image"`
	Center   Point  `json:"center"`
}

// DestinationList wraps the curated destinations.
type DestinationList struct {
	Items []CuratedDestination `json:"items"`
}
