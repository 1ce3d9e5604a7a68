// Package queue defines message payloads exchanged over the message broker
// together with the publisher and the background consumer.
package queue

// TripSavedQueue is the durable queue trip events are published to.
const TripSavedQueue = "trip.saved"

// TripSavedEvent is published when a trip has been persisted.  It carries
// the summary fields only; itineraries never leave the database this way.
type TripSavedEvent struct {
    TripID      uint64 `json:"trip_id"`
    UserID      uint64 `json:"user_id"`
    Destination string `json:"destination"`
    TravelDays  int    `json:"travel_days"`
    Budget      string `json:"budget"`
    Travelers   int    `json:"travelers"`
    SavedAt     string `json:"saved_at"`
}
