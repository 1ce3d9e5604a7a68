package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/iliyamo/voyager-trip-planner/internal/itinerary"
	"github.com/iliyamo/voyager-trip-planner/internal/model"
	"github.com/iliyamo/voyager-trip-planner/internal/queue"
	"github.com/iliyamo/voyager-trip-planner/internal/repository"
)

// Trip field limits.
const (
	MaxTravelDays        = 60
	MaxDestinationLength = 100
	MaxBudgetLength      = 50
)

// PublishTimeout bounds a single trip.saved publish.
const PublishTimeout = 5 * time.Second

// TripStore is the persistence the trip service needs.
type TripStore interface {
	Create(ctx context.Context, t model.Trip) (uint64, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.TripSummary, error)
	GetByIDForUser(ctx context.Context, id, userID uint64) (model.Trip, error)
}

// EventPublisher announces saved trips.  It may be nil.
type EventPublisher interface {
	PublishTripSaved(ctx context.Context, ev queue.TripSavedEvent) error
}

// TripService generates itineraries and stores trips for their owners.
type TripService struct {
	trips     TripStore
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time

	pending sync.WaitGroup
}

func NewTripService(trips TripStore, publisher EventPublisher, logger *slog.Logger) *TripService {
	return &TripService{
		trips:     trips,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock replaces the time source used to stamp trips.
func (s *TripService) WithClock(now func() time.Time) *TripService {
	s.now = now
	return s
}

// Generate builds an itinerary for the caller.  Nothing is persisted.
func (s *TripService) Generate(caller model.Identity, in model.TripInput) (model.Trip, error) {
	in = normalizeTrip(in)
	if err := validateTrip(in); err != nil {
		return model.Trip{}, err
	}
	plan, err := json.Marshal(itinerary.Build(in))
	if err != nil {
		return model.Trip{}, &Error{Kind: ErrStore, Message: "could not build itinerary", Err: err}
	}
	t := tripFromInput(caller.ID, in)
	t.Itinerary = plan
	t.CreatedAt = s.now().UTC()
	return t, nil
}

// Save persists a trip owned by ownerID and returns its id.  The owner is
// always ownerID, whatever the input carries.
func (s *TripService) Save(ctx context.Context, ownerID uint64, in model.TripInput) (uint64, error) {
	in = normalizeTrip(in)
	if err := validateTrip(in); err != nil {
		return 0, err
	}
	plan, err := normalizeItinerary(in.Itinerary)
	if err != nil {
		return 0, err
	}

	t := tripFromInput(ownerID, in)
	t.Itinerary = plan
	t.CreatedAt = s.now().UTC()

	id, err := s.trips.Create(ctx, t)
	if err != nil {
		return 0, storeError(err)
	}
	s.publishSaved(ctx, id, t)
	return id, nil
}

// List returns the owner's trips, newest first, without itineraries.
func (s *TripService) List(ctx context.Context, ownerID uint64) ([]model.TripSummary, error) {
	trips, err := s.trips.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, storeError(err)
	}
	return trips, nil
}

// Get returns one trip with its itinerary.  Missing trips and trips owned
// by someone else are reported the same way.
func (s *TripService) Get(ctx context.Context, ownerID, tripID uint64) (model.Trip, error) {
	if tripID == 0 {
		return model.Trip{}, errTripNotFound
	}
	t, err := s.trips.GetByIDForUser(ctx, tripID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrTripNotFound) {
			return model.Trip{}, errTripNotFound
		}
		return model.Trip{}, storeError(err)
	}
	return t, nil
}

// publishSaved announces the trip off the request goroutine, so a slow or
// unreachable broker never delays the save.
func (s *TripService) publishSaved(ctx context.Context, id uint64, t model.Trip) {
	if s.publisher == nil {
		return
	}
	ev := queue.TripSavedEvent{
		TripID:      id,
		UserID:      t.UserID,
		Destination: t.Destination,
		TravelDays:  t.TravelDays,
		Budget:      t.Budget,
		Travelers:   t.Travelers,
		SavedAt:     t.CreatedAt.Format(time.RFC3339),
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), PublishTimeout)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer cancel()
		if err := s.publisher.PublishTripSaved(ctx, ev); err != nil {
			s.logger.Warn("publish trip.saved failed", "trip_id", id, "user_id", t.UserID, "error", err)
		}
	}()
}

// Wait blocks until every in-flight trip.saved publish has finished.
func (s *TripService) Wait() { s.pending.Wait() }

func normalizeTrip(in model.TripInput) model.TripInput {
	in.Destination = strings.TrimSpace(in.Destination)
	in.Budget = strings.ToLower(strings.TrimSpace(in.Budget))
	in.Interests = model.Interests(strings.TrimSpace(string(in.Interests)))
	in.AdditionalNotes = strings.TrimSpace(in.AdditionalNotes)
	return in
}

func validateTrip(in model.TripInput) error {
	switch {
	case in.Destination == "" || in.Budget == "" || in.Interests == "":
		return validationError("destination, budget and interests are required")
	case utf8.RuneCountInString(in.Destination) > MaxDestinationLength:
		return validationError("destination must be at most 100 characters long")
	case utf8.RuneCountInString(in.Budget) > MaxBudgetLength:
		return validationError("budget must be at most 50 characters long")
	case in.TravelDays < 1 || in.TravelDays > MaxTravelDays:
		return validationError("travel_days must be between 1 and 60")
	case in.Travelers < 1:
		return validationError("travelers must be at least 1")
	}
	return nil
}

// normalizeItinerary accepts an absent or null itinerary as {} and otherwise
// requires a JSON object.
func normalizeItinerary(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage("{}"), nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, validationError("itinerary must be a JSON object")
	}
	return json.RawMessage(trimmed), nil
}

func tripFromInput(ownerID uint64, in model.TripInput) model.Trip {
	return model.Trip{
		UserID:          ownerID,
		Destination:     in.Destination,
		TravelDays:      in.TravelDays,
		Budget:          in.Budget,
		Travelers:       in.Travelers,
		Interests:       string(in.Interests),
		AdditionalNotes: in.AdditionalNotes,
	}
}
