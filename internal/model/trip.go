package model

import (
    "encoding/json"
    "strings"
    "time"
)

// Trip is a saved trip as stored in the `trips` table.  Itinerary holds the
// serialized itinerary exactly as it was submitted.
type Trip struct {
    ID              uint64          `json:"id,omitempty"`
    UserID          uint64          `json:"user_id"`
    Destination     string          `json:"destination"`
    TravelDays      int             `json:"travel_days"`
    Budget          string          `json:"budget"`
    Travelers       int             `json:"travelers"`
    Interests       string          `json:"interests"`
    AdditionalNotes string          `json:"additional_notes"`
    Itinerary       json.RawMessage `json:"itinerary"`
    CreatedAt       time.Time       `json:"created_at"`
}

// TripSummary is the list view of a trip.  It never carries the itinerary.
type TripSummary struct {
    ID              uint64    `json:"id"`
    Destination     string    `json:"destination"`
    TravelDays      int       `json:"travel_days"`
    Budget          string    `json:"budget"`
    Travelers       int       `json:"travelers"`
    Interests       string    `json:"interests"`
    AdditionalNotes string    `json:"additional_notes"`
    CreatedAt       time.Time `json:"created_at"`
}

// TripInput carries the client-supplied trip fields for generate and save.
// There is deliberately no owner field: the owner always comes from the
// authenticated caller.
type TripInput struct {
    Destination     string          `json:"destination"`
    TravelDays      int             `json:"travel_days"`
    Budget          string          `json:"budget"`
    Travelers       int             `json:"travelers"`
    Interests       Interests       `json:"interests"`
    AdditionalNotes string          `json:"additional_notes"`
    Itinerary       json.RawMessage `json:"itinerary,omitempty"`
}

// Interests accepts either a free-text string or a list of strings, which
// is joined with ", ".
type Interests string

func (i *Interests) UnmarshalJSON(b []byte) error {
    var s string
    if err := json.Unmarshal(b, &s); err == nil {
        *i = Interests(s)
        return nil
    }
    var list []string
    if err := json.Unmarshal(b, &list); err != nil {
        return err
    }
    parts := make([]string, 0, len(list))
    for _, p := range list {
        if p = strings.TrimSpace(p); p != "" {
            parts = append(parts, p)
        }
    }
    *i = Interests(strings.Join(parts, ", "))
    return nil
}

// Itinerary is the structured plan produced by the itinerary builder.
type Itinerary struct {
    Summary           string         `json:"summary"`
    Days              []ItineraryDay `json:"days"`
    EstimatedCost     int            `json:"estimated_cost"`
    AccommodationType string         `json:"accommodation_type"`
    DiningStyle       string         `json:"dining_style"`
    TravelTips        []string       `json:"travel_tips"`
}

// ItineraryDay is one day of an itinerary.
type ItineraryDay struct {
    Day        int        `json:"day"`
    Title      string     `json:"title"`
    Summary    string     `json:"summary"`
    Activities []Activity `json:"activities"`
}

// Activity is a single slot within a day.
type Activity struct {
    Time        string `json:"time"`
    Type        string `json:"type"`
    Description string `json:"description"`
    Location    string `json:"location"`
}
