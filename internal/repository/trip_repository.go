package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/voyager-trip-planner/internal/model"
)

// TripRepo stores trips.  Every read is scoped by owner: a trip id on its
// own never selects a row.
type TripRepo struct{ DB *sql.DB }

func NewTripRepo(db *sql.DB) *TripRepo { return &TripRepo{DB: db} }

var emptyItinerary = json.RawMessage(`{}`)

// Create inserts t and returns the new trip id.  t.ID is ignored; a zero
// CreatedAt is stamped with the current time.
func (r *TripRepo) Create(ctx context.Context, t model.Trip) (uint64, error) {
	itinerary := t.Itinerary
	if len(itinerary) == 0 {
		itinerary = emptyItinerary
	}
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	const q = `INSERT INTO trips (user_id, destination, travel_days, budget, travelers, interests, additional_notes, itinerary_json, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.DB.ExecContext(ctx, q,
		t.UserID, t.Destination, t.TravelDays, t.Budget, t.Travelers, t.Interests,
		t.AdditionalNotes, string(itinerary), createdAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("insert trip: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return uint64(id), nil
}

// ListByUser returns the owner's trips, newest first, without itineraries.
func (r *TripRepo) ListByUser(ctx context.Context, userID uint64) ([]model.TripSummary, error) {
	const q = `SELECT id, destination, travel_days, budget, travelers, interests, additional_notes, created_at
FROM trips WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	trips := make([]model.TripSummary, 0)
	for rows.Next() {
		var (
			s     model.TripSummary
			notes sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Destination, &s.TravelDays, &s.Budget, &s.Travelers,
			&s.Interests, &notes, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		s.AdditionalNotes = notes.String
		trips = append(trips, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	return trips, nil
}

// GetByIDForUser returns the full trip only when it exists and belongs to
// userID; otherwise ErrTripNotFound.
func (r *TripRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (model.Trip, error) {
	const q = `SELECT id, user_id, destination, travel_days, budget, travelers, interests, additional_notes, itinerary_json, created_at
FROM trips WHERE id = ? AND user_id = ? LIMIT 1`
	var (
		t         model.Trip
		notes     sql.NullString
		itinerary sql.NullString
	)
	err := r.DB.QueryRowContext(ctx, q, id, userID).Scan(&t.ID, &t.UserID, &t.Destination,
		&t.TravelDays, &t.Budget, &t.Travelers, &t.Interests, &notes, &itinerary, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Trip{}, ErrTripNotFound
	}
	if err != nil {
		return model.Trip{}, fmt.Errorf("get trip: %w", err)
	}
	t.AdditionalNotes = notes.String
	t.Itinerary = emptyItinerary
	if itinerary.Valid && json.Valid([]byte(itinerary.String)) {
		t.Itinerary = json.RawMessage(itinerary.String)
	}
	return t, nil
}
