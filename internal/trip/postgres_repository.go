package trip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripwise/tripwise/internal/itinerary"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL trip repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const tripColumns = `
	id, user_id, destination, center_lat, center_lng, country,
	start_date, number_of_days, travel_style, budget_level,
	budget_amount, number_of_travelers, trip_type,
	hotel_name, hotel_address, hotel_lat, hotel_lng,
	created_at, updated_at`

const dayColumns = `
	id, trip_id, day_number, date, weather,
	daytime_main, daytime_alternative, nighttime_main, nighttime_alternative,
	selected_daytime, selected_nighttime, weather_adjusted, updated_at`

// Get retrieves a trip by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Trip, error) {
	query := `SELECT` + tripColumns + ` FROM trips WHERE id = $1`
	return scanTrip(r.pool.QueryRow(ctx, query, id))
}

// GetByUserAndID retrieves a trip owned by the user.
func (r *PostgresRepository) GetByUserAndID(ctx context.Context, userID, tripID string) (*Trip, error) {
	query := `SELECT` + tripColumns + ` FROM trips WHERE id = $1 AND user_id = $2`
	return scanTrip(r.pool.QueryRow(ctx, query, tripID, userID))
}

// List retrieves the user's trips, latest start date first.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*Trip, error) {
	query := `SELECT` + tripColumns + `
		FROM trips
		WHERE user_id = $1
		ORDER BY start_date DESC, created_at DESC
	`
	return r.queryTrips(ctx, query, userID)
}

// ListStartingBetween retrieves trips starting within [from, to].
func (r *PostgresRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]*Trip, error) {
	query := `SELECT` + tripColumns + `
		FROM trips
		WHERE start_date >= $1 AND start_date <= $2
		ORDER BY start_date
	`
	return r.queryTrips(ctx, query, from, to)
}

func (r *PostgresRepository) queryTrips(ctx context.Context, query string, args ...any) ([]*Trip, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func scanTrip(row pgx.Row) (*Trip, error) {
	var t Trip
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Destination,
		&t.Center.Lat,
		&t.Center.Lng,
		&t.Country,
		&t.StartDate,
		&t.NumberOfDays,
		&t.TravelStyle,
		&t.BudgetLevel,
		&t.BudgetAmount,
		&t.NumberOfTravelers,
		&t.TripType,
		&t.Hotel.Name,
		&t.Hotel.Address,
		&t.Hotel.Location.Lat,
		&t.Hotel.Location.Lng,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Create stores a trip with its days in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, t *Trip, days []*Day) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := `INSERT INTO trips (` + tripColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		`
		_, err := tx.Exec(ctx, query,
			t.ID,
			t.UserID,
			t.Destination,
			t.Center.Lat,
			t.Center.Lng,
			t.Country,
			t.StartDate,
			t.NumberOfDays,
			t.TravelStyle,
			t.BudgetLevel,
			t.BudgetAmount,
			t.NumberOfTravelers,
			t.TripType,
			t.Hotel.Name,
			t.Hotel.Address,
			t.Hotel.Location.Lat,
			t.Hotel.Location.Lng,
			t.CreatedAt,
			t.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert trip: %w", err)
		}
		return insertDays(ctx, tx, days)
	})
}

// Update updates the trip fields.
func (r *PostgresRepository) Update(ctx context.Context, t *Trip) error {
	return updateTrip(ctx, r.pool, t)
}

// UpdateWithDays updates the trip fields and swaps its itinerary in one
// transaction.
func (r *PostgresRepository) UpdateWithDays(ctx context.Context, t *Trip, days []*Day) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := updateTrip(ctx, tx, t); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM itinerary_days WHERE trip_id = $1`, t.ID); err != nil {
			return fmt.Errorf("delete days: %w", err)
		}
		return insertDays(ctx, tx, days)
	})
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func updateTrip(ctx context.Context, db execer, t *Trip) error {
	query := `
		UPDATE trips SET
			destination = $2,
			center_lat = $3,
			center_lng = $4,
			country = $5,
			start_date = $6,
			number_of_days = $7,
			travel_style = $8,
			budget_level = $9,
			budget_amount = $10,
			number_of_travelers = $11,
			trip_type = $12,
			hotel_name = $13,
			hotel_address = $14,
			hotel_lat = $15,
			hotel_lng = $16,
			updated_at = $17
		WHERE id = $1
	`

	result, err := db.Exec(ctx, query,
		t.ID,
		t.Destination,
		t.Center.Lat,
		t.Center.Lng,
		t.Country,
		t.StartDate,
		t.NumberOfDays,
		t.TravelStyle,
		t.BudgetLevel,
		t.BudgetAmount,
		t.NumberOfTravelers,
		t.TripType,
		t.Hotel.Name,
		t.Hotel.Address,
		t.Hotel.Location.Lat,
		t.Hotel.Location.Lng,
		t.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTripNotFound
	}
	return nil
}

// Delete deletes a trip. Days and notifications go with it through
// ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	return err
}

func insertDays(ctx context.Context, tx pgx.Tx, days []*Day) error {
	query := `INSERT INTO itinerary_days (` + dayColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	batch := &pgx.Batch{}
	for _, d := range days {
		acts, err := marshalActivities(d.Plan)
		if err != nil {
			return err
		}
		batch.Queue(query,
			d.ID,
			d.TripID,
			d.Plan.DayNumber,
			d.Plan.Date,
			d.Plan.Weather,
			acts[0], acts[1], acts[2], acts[3],
			d.Plan.SelectedDaytime,
			d.Plan.SelectedNighttime,
			d.Plan.WeatherAdjusted,
			d.UpdatedAt,
		)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert days: %w", err)
	}
	return nil
}

// ListDays retrieves the days of a trip ordered by day number.
func (r *PostgresRepository) ListDays(ctx context.Context, tripID string) ([]*Day, error) {
	query := `SELECT` + dayColumns + ` FROM itinerary_days WHERE trip_id = $1 ORDER BY day_number`

	rows, err := r.pool.Query(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []*Day
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// GetDay retrieves a day by ID.
func (r *PostgresRepository) GetDay(ctx context.Context, dayID string) (*Day, error) {
	query := `SELECT` + dayColumns + ` FROM itinerary_days WHERE id = $1`
	return scanDay(r.pool.QueryRow(ctx, query, dayID))
}

// UpdateDay updates the plan of a day.
func (r *PostgresRepository) UpdateDay(ctx context.Context, d *Day) error {
	acts, err := marshalActivities(d.Plan)
	if err != nil {
		return err
	}

	query := `
		UPDATE itinerary_days SET
			weather = $2,
			daytime_main = $3,
			daytime_alternative = $4,
			nighttime_main = $5,
			nighttime_alternative = $6,
			selected_daytime = $7,
			selected_nighttime = $8,
			weather_adjusted = $9,
			updated_at = $10
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		d.ID,
		d.Plan.Weather,
		acts[0], acts[1], acts[2], acts[3],
		d.Plan.SelectedDaytime,
		d.Plan.SelectedNighttime,
		d.Plan.WeatherAdjusted,
		d.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrDayNotFound
	}
	return nil
}

func scanDay(row pgx.Row) (*Day, error) {
	var (
		d    Day
		acts [4][]byte
	)
	err := row.Scan(
		&d.ID,
		&d.TripID,
		&d.Plan.DayNumber,
		&d.Plan.Date,
		&d.Plan.Weather,
		&acts[0], &acts[1], &acts[2], &acts[3],
		&d.Plan.SelectedDaytime,
		&d.Plan.SelectedNighttime,
		&d.Plan.WeatherAdjusted,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}

	targets := [4]*itinerary.Activity{&d.Plan.DaytimeMain, &d.Plan.DaytimeAlt, &d.Plan.NighttimeMain, &d.Plan.NighttimeAlt}
	for i, raw := range acts {
		if err := json.Unmarshal(raw, targets[i]); err != nil {
			return nil, fmt.Errorf("decode activity of day %s: %w", d.ID, err)
		}
	}
	return &d, nil
}

// marshalActivities encodes the four activities for the JSONB columns.
func marshalActivities(p itinerary.DayPlan) ([4][]byte, error) {
	var out [4][]byte
	for i, a := range p.Activities() {
		raw, err := json.Marshal(a)
		if err != nil {
			return out, fmt.Errorf("encode activity: %w", err)
		}
		out[i] = raw
	}
	return out, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
