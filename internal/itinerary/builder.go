// Package itinerary builds the templated day-by-day plan returned by
// /generate-trip.  The output depends only on the trip fields.
package itinerary

import (
	"fmt"
	"strings"

	"github.com/iliyamo/voyager-trip-planner/internal/model"
)

// Tier describes what a budget level buys per person per day.
type Tier struct {
	PerDay        int
	Accommodation string
	Dining        string
}

// DefaultTier is used for budgets that are not in Tiers.
const DefaultTier = "moderate"

// Tiers maps budget names to their pricing.
var Tiers = map[string]Tier{
	"budget":   {PerDay: 80, Accommodation: "Hostels/Budget Hotels", Dining: "Street food/Local restaurants"},
	"moderate": {PerDay: 150, Accommodation: "3-4 Star Hotels", Dining: "Mix of local and mid-range restaurants"},
	"luxury":   {PerDay: 300, Accommodation: "5 Star Hotels/Luxury Resorts", Dining: "Fine dining and premium experiences"},
}

var travelTips = []string{
	"Book accommodations in advance for better rates",
	"Try local transportation for authentic experience",
	"Carry local currency for small purchases",
	"Respect local customs and traditions",
}

// TierFor returns the tier for budget, falling back to DefaultTier.
func TierFor(budget string) Tier {
	if t, ok := Tiers[strings.ToLower(strings.TrimSpace(budget))]; ok {
		return t
	}
	return Tiers[DefaultTier]
}

// Build returns the itinerary for in.  Day 1 is always the arrival day and
// the last day of a multi-day trip is the departure day.
func Build(in model.TripInput) model.Itinerary {
	interests := string(in.Interests)
	days := make([]model.ItineraryDay, 0, in.TravelDays)
	for day := 1; day <= in.TravelDays; day++ {
		switch {
		case day == 1:
			days = append(days, arrivalDay(in.Destination))
		case day == in.TravelDays:
			days = append(days, departureDay(day, in.Destination))
		default:
			days = append(days, explorationDay(day, in.Destination, interests))
		}
	}

	tier := TierFor(in.Budget)
	return model.Itinerary{
		Summary: fmt.Sprintf("A %d-day %s trip to %s for %d people interested in %s.",
			in.TravelDays, in.Budget, in.Destination, in.Travelers, interests),
		Days:              days,
		EstimatedCost:     tier.PerDay * in.TravelDays * in.Travelers,
		AccommodationType: tier.Accommodation,
		DiningStyle:       tier.Dining,
		TravelTips:        append([]string(nil), travelTips...),
	}
}

func arrivalDay(dest string) model.ItineraryDay {
	return model.ItineraryDay{
		Day:     1,
		Title:   "Arrival in " + dest,
		Summary: fmt.Sprintf("Arrive in %s, check into your accommodation, and start exploring.", dest),
		Activities: []model.Activity{
			{Time: "Afternoon", Type: "arrival", Description: "Arrive at airport and transfer to hotel", Location: "Airport to Hotel"},
			{Time: "Evening", Type: "sightseeing", Description: "Take a walk around the neighborhood to get familiar with the area", Location: "City Center"},
			{Time: "Dinner", Type: "dining", Description: "Enjoy welcome dinner at a local restaurant", Location: "Local Restaurant"},
		},
	}
}

func departureDay(day int, dest string) model.ItineraryDay {
	return model.ItineraryDay{
		Day:     day,
		Title:   "Departure from " + dest,
		Summary: fmt.Sprintf("Last day in %s, some final exploration before departure.", dest),
		Activities: []model.Activity{
			{Time: "Morning", Type: "breakfast", Description: "Final breakfast at hotel", Location: "Hotel"},
			{Time: "Late Morning", Type: "sightseeing", Description: "Visit any last-minute attractions or do some souvenir shopping", Location: "Shopping District"},
			{Time: "Afternoon", Type: "departure", Description: "Transfer to airport for departure", Location: "Hotel to Airport"},
		},
	}
}

func explorationDay(day int, dest, interests string) model.ItineraryDay {
	return model.ItineraryDay{
		Day:     day,
		Title:   "Exploring " + dest,
		Summary: fmt.Sprintf("Full day of exploration based on your interests: %s.", interests),
		Activities: []model.Activity{
			{Time: "Morning", Type: "breakfast", Description: "Breakfast at hotel or local cafe", Location: "Hotel/Cafe"},
			{Time: "Late Morning", Type: "sightseeing", Description: "Visit main attractions and landmarks", Location: "Various Attractions"},
			{Time: "Lunch", Type: "dining", Description: "Lunch at a recommended local restaurant", Location: "Local Restaurant"},
			{Time: "Afternoon", Type: "activity", Description: "Activity based on your interests: " + interests, Location: "Various Locations"},
			{Time: "Evening", Type: "dining", Description: "Dinner experience", Location: "Restaurant"},
		},
	}
}
