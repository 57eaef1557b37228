package trip

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/tripwise/tripwise/internal/api/models"
	"github.com/tripwise/tripwise/internal/catalog"
	"github.com/tripwise/tripwise/internal/directions"
	"github.com/tripwise/tripwise/internal/geocoding"
	"github.com/tripwise/tripwise/internal/itinerary"
	"github.com/tripwise/tripwise/pkg/geo"
)

const meterName = "github.com/tripwise/tripwise/internal/trip"

// Directions messages shown when an estimate cannot be made.
const (
	MsgNoOrigin       = "Please set your hotel location to get directions"
	MsgNoTarget       = "This activity has no known location"
	DefaultOriginName = "Your Hotel"
)

// Locator resolves destination names to coordinates.
type Locator interface {
	Locate(ctx context.Context, name string) (*geocoding.Result, error)
}

// TripCleaner removes data that hangs off a trip, such as notifications.
type TripCleaner interface {
	DeleteByTrip(ctx context.Context, tripID string) error
}

// ServiceConfig holds configuration for the trip service.
type ServiceConfig struct {
	Repository Repository

	// Generator builds itineraries. Defaults to the builtin catalog.
	Generator *itinerary.Generator

	// Locator geocodes destinations. Optional: without it trips carry no
	// coordinates unless the catalog knows the destination.
	Locator Locator

	// Cleaner is called when a trip is deleted. Optional.
	Cleaner TripCleaner

	Logger zerolog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Service provides trip operations.
type Service struct {
	repo      Repository
	generator *itinerary.Generator
	locator   Locator
	cleaner   TripCleaner
	logger    zerolog.Logger
	now       func() time.Time
	generated metric.Int64Counter
}

// NewService creates a new trip service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Generator == nil {
		cfg.Generator = itinerary.NewGenerator(itinerary.GeneratorConfig{})
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	generated, err := otel.Meter(meterName).Int64Counter(
		"tripwise.itinerary.generated",
		metric.WithDescription("Itinerary days generated"),
		metric.WithUnit("{day}"),
	)
	if err != nil {
		cfg.Logger.Warn().Err(err).Msg("failed to create itinerary counter")
	}

	return &Service{
		repo:      cfg.Repository,
		generator: cfg.Generator,
		locator:   cfg.Locator,
		cleaner:   cfg.Cleaner,
		logger:    cfg.Logger,
		now:       cfg.Now,
		generated: generated,
	}
}

// List retrieves the user's trips.
func (s *Service) List(ctx context.Context, userID string) (*models.TripList, error) {
	trips, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]models.TripSummary, 0, len(trips))
	for _, t := range trips {
		items = append(items, toAPISummary(t))
	}
	return &models.TripList{Items: items}, nil
}

// Get retrieves a trip with its itinerary.
func (s *Service) Get(ctx context.Context, userID, tripID string) (*models.Trip, error) {
	t, err := s.repo.GetByUserAndID(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}
	days, err := s.repo.ListDays(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	result := toAPITrip(t, days)
	return &result, nil
}

// Create plans a new trip for the user.
func (s *Service) Create(ctx context.Context, userID string, req *models.TripRequest) (*models.Trip, error) {
	input, fieldErrors := ParseRequest(req)
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := s.now()
	t := &Trip{
		ID:        "trp_" + uuid.New().String()[:22],
		UserID:    userID,
		CreatedAt: now,
	}
	input.apply(t)

	if loc := s.locate(ctx, input.Destination); loc != nil {
		t.Center = loc.Point()
		t.Country = loc.Country
	}
	t.Hotel = Hotel{Name: input.HotelName, Address: input.HotelAddress, Location: t.Center}
	t.UpdatedAt = now

	days := s.plan(ctx, t)
	if err := s.repo.Create(ctx, t, days); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("trip_id", t.ID).
		Str("destination", t.Destination).
		Int("days", len(days)).
		Msg("trip created")

	result := toAPITrip(t, days)
	return &result, nil
}

// Update changes a trip and regenerates its itinerary.
func (s *Service) Update(ctx context.Context, userID, tripID string, req *models.TripRequest) (*models.Trip, error) {
	t, err := s.repo.GetByUserAndID(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	input, fieldErrors := ParseRequest(req)
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	previous := t.Destination
	input.apply(t)

	if input.Destination != previous {
		t.Center, t.Country = geo.Point{}, ""
		if loc := s.locate(ctx, input.Destination); loc != nil {
			t.Center = loc.Point()
			t.Country = loc.Country
		}
	}

	if t.Hotel.Location.IsZero() {
		t.Hotel.Location = t.Center
	}
	if input.HotelName != "" {
		t.Hotel.Name = input.HotelName
	}
	if input.HotelAddress != "" {
		t.Hotel.Address = input.HotelAddress
	}
	t.UpdatedAt = s.now()

	days := s.plan(ctx, t)
	if err := s.repo.UpdateWithDays(ctx, t, days); err != nil {
		return nil, err
	}

	result := toAPITrip(t, days)
	return &result, nil
}

// Delete deletes a trip, its days and its notifications.
func (s *Service) Delete(ctx context.Context, userID, tripID string) error {
	if _, err := s.repo.GetByUserAndID(ctx, userID, tripID); err != nil {
		return err
	}

	if s.cleaner != nil {
		if err := s.cleaner.DeleteByTrip(ctx, tripID); err != nil {
			return err
		}
	}
	return s.repo.Delete(ctx, tripID)
}

// SelectActivity records whether the user goes with the main activity or
// its alternative. The day must belong to tripID.
func (s *Service) SelectActivity(ctx context.Context, userID, tripID, dayID string, req *models.SelectionRequest) (*models.ItineraryDay, error) {
	var errs []models.FieldError
	if req.TimeOfDay != TimeDaytime && req.TimeOfDay != TimeNighttime {
		errs = append(errs, models.FieldError{Field: "timeOfDay", Message: "must be one of daytime, nighttime"})
	}
	selection := itinerary.Selection(req.Selection)
	if !selection.Valid() {
		errs = append(errs, models.FieldError{Field: "selection", Message: "must be one of main, alternative"})
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	day, err := s.repo.GetDay(ctx, dayID)
	if err != nil {
		return nil, err
	}
	if day.TripID != tripID {
		return nil, ErrDayNotFound
	}
	if _, err := s.repo.GetByUserAndID(ctx, userID, day.TripID); err != nil {
		if errors.Is(err, ErrTripNotFound) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}

	if req.TimeOfDay == TimeDaytime {
		day.Plan.SelectedDaytime = selection
	} else {
		day.Plan.SelectedNighttime = selection
	}
	day.UpdatedAt = s.now()

	if err := s.repo.UpdateDay(ctx, day); err != nil {
		return nil, err
	}

	result := toAPIDay(day)
	return &result, nil
}

// UpdateHotel sets the trip's lodging.
func (s *Service) UpdateHotel(ctx context.Context, userID, tripID string, req *models.HotelRequest) (*models.Trip, error) {
	var errs []models.FieldError
	if req.Lat < -90 || req.Lat > 90 {
		errs = append(errs, models.FieldError{Field: "lat", Message: "must be between -90 and 90"})
	}
	if req.Lng < -180 || req.Lng > 180 {
		errs = append(errs, models.FieldError{Field: "lng", Message: "must be between -180 and 180"})
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	t, err := s.repo.GetByUserAndID(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	t.Hotel = Hotel{
		Name:     strings.TrimSpace(req.Name),
		Address:  strings.TrimSpace(req.Address),
		Location: geo.Point{Lat: req.Lat, Lng: req.Lng},
	}
	t.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	days, err := s.repo.ListDays(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	result := toAPITrip(t, days)
	return &result, nil
}

// Directions estimates travel from the trip's hotel to target.
func (s *Service) Directions(ctx context.Context, userID, tripID string, target geo.Point) (*models.Directions, error) {
	t, err := s.repo.GetByUserAndID(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	origin := t.Origin()
	if origin.IsZero() {
		return &models.Directions{Message: MsgNoOrigin}, nil
	}
	if target.IsZero() {
		return &models.Directions{Message: MsgNoTarget}, nil
	}

	est := directions.Calculate(origin, target, t.Country)
	name := t.Hotel.Name
	if name == "" {
		name = DefaultOriginName
	}
	cost := est.Taxi.EstimatedCost

	return &models.Directions{
		HasDirections: true,
		Origin: &models.DirectionsOrigin{
			Name:    name,
			Address: t.Hotel.Address,
			Lat:     origin.Lat,
			Lng:     origin.Lng,
		},
		Walking: &models.TravelOption{
			DurationMinutes: est.Walking.DurationMinutes,
			DistanceKm:      est.Walking.DistanceKm,
		},
		PublicTransport: &models.TravelOption{
			DurationMinutes: est.PublicTransport.DurationMinutes,
			DistanceKm:      est.PublicTransport.DistanceKm,
		},
		Taxi: &models.TravelOption{
			DurationMinutes: est.Taxi.DurationMinutes,
			DistanceKm:      est.Taxi.DistanceKm,
			EstimatedCost:   &cost,
		},
		Fastest:  string(est.Fastest()),
		Geometry: est.Geometry,
	}, nil
}

// locate geocodes a destination. Failures are logged and yield no location.
func (s *Service) locate(ctx context.Context, destination string) *geocoding.Result {
	if s.locator == nil {
		return nil
	}
	loc, err := s.locator.Locate(ctx, destination)
	if err != nil {
		s.logger.Warn().Err(err).Str("destination", destination).Msg("geocoding failed, continuing without coordinates")
		return nil
	}
	if loc == nil || loc.Point().IsZero() {
		return nil
	}
	return loc
}

// plan generates the itinerary days of a trip.
func (s *Service) plan(ctx context.Context, t *Trip) []*Day {
	req := itinerary.Request{
		Destination: t.Destination,
		StartDate:   t.StartDate,
		Days:        t.NumberOfDays,
		Style:       t.TravelStyle,
		Budget:      t.BudgetLevel,
		TripType:    t.TripType,
	}
	if !t.Center.IsZero() {
		center := t.Center
		req.Center = &center
	}

	plans := s.generator.Generate(req)
	days := make([]*Day, 0, len(plans))
	for _, p := range plans {
		days = append(days, &Day{
			ID:        "day_" + uuid.New().String()[:22],
			TripID:    t.ID,
			Plan:      p,
			UpdatedAt: t.UpdatedAt,
		})
	}

	if s.generated != nil {
		s.generated.Add(ctx, int64(len(days)), metric.WithAttributes(
			attribute.String("travel_style", string(t.TravelStyle)),
		))
	}
	return days
}

// Times of day accepted by SelectActivity.
const (
	TimeDaytime   = "daytime"
	TimeNighttime = "nighttime"
)

// Validation limits.
const (
	MaxDestinationLength = 120
	MinDays              = 1
	MaxDays              = 30
	MaxTravelers         = 20
	DefaultBudgetAmount  = 1000
)

// CreateInput is a validated trip request.
type CreateInput struct {
	Destination       string
	StartDate         time.Time
	Days              int
	Style             catalog.TravelStyle
	Budget            catalog.BudgetLevel
	BudgetAmount      float64
	NumberOfTravelers int
	TripType          itinerary.TripType
	HotelName         string
	HotelAddress      string
}

func (in *CreateInput) apply(t *Trip) {
	t.Destination = in.Destination
	t.StartDate = in.StartDate
	t.NumberOfDays = in.Days
	t.TravelStyle = in.Style
	t.BudgetLevel = in.Budget
	t.BudgetAmount = in.BudgetAmount
	t.NumberOfTravelers = in.NumberOfTravelers
	t.TripType = in.TripType
}

// ParseRequest validates a trip request and applies defaults.
func ParseRequest(req *models.TripRequest) (*CreateInput, []models.FieldError) {
	var errs []models.FieldError
	in := &CreateInput{
		Destination:       strings.TrimSpace(req.Destination),
		Days:              req.NumberOfDays,
		Style:             catalog.TravelStyle(req.TravelStyle),
		Budget:            catalog.BudgetLevel(req.BudgetLevel),
		BudgetAmount:      DefaultBudgetAmount,
		NumberOfTravelers: 1,
		TripType:          itinerary.TripSolo,
		HotelName:         strings.TrimSpace(req.HotelName),
		HotelAddress:      strings.TrimSpace(req.HotelAddress),
	}

	if in.Destination == "" {
		errs = append(errs, models.FieldError{Field: "destination", Message: "is required"})
	} else if utf8.RuneCountInString(in.Destination) > MaxDestinationLength {
		errs = append(errs, models.FieldError{Field: "destination", Message: "must be at most 120 characters"})
	}

	if req.StartDate == "" {
		errs = append(errs, models.FieldError{Field: "startDate", Message: "is required"})
	} else if start, err := models.ParseDate(req.StartDate); err != nil {
		errs = append(errs, models.FieldError{Field: "startDate", Message: "must be a date (YYYY-MM-DD)"})
	} else {
		in.StartDate = start
	}

	if in.Days < MinDays || in.Days > MaxDays {
		errs = append(errs, models.FieldError{Field: "numberOfDays", Message: "must be between 1 and 30"})
	}
	if !in.Style.Valid() {
		errs = append(errs, models.FieldError{Field: "travelStyle", Message: "must be one of relax, adventure, cultural, food"})
	}
	if !in.Budget.Valid() {
		errs = append(errs, models.FieldError{Field: "budgetLevel", Message: "must be one of low, medium, high"})
	}

	if req.TripType != "" {
		in.TripType = itinerary.TripType(req.TripType)
		if !in.TripType.Valid() {
			errs = append(errs, models.FieldError{Field: "tripType", Message: "must be one of solo, couple, family, friends"})
		}
	}

	if req.BudgetAmount != nil {
		if *req.BudgetAmount < 0 {
			errs = append(errs, models.FieldError{Field: "budgetAmount", Message: "must not be negative"})
		}
		in.BudgetAmount = *req.BudgetAmount
	}

	if req.NumberOfTravelers != nil {
		if *req.NumberOfTravelers < 1 || *req.NumberOfTravelers > MaxTravelers {
			errs = append(errs, models.FieldError{Field: "numberOfTravelers", Message: "must be between 1 and 20"})
		}
		in.NumberOfTravelers = *req.NumberOfTravelers
	}

	return in, errs
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
