// README: Trip request, generated itinerary and persisted record definitions.
package itinerary

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	MinDays = 1
	MaxDays = 10
)

var (
	ErrInvalidRequest    = errors.New("invalid trip request")
	ErrQuotaExceeded     = errors.New("generation quota exceeded")
	ErrGenerationFailed  = errors.New("generation failed")
	ErrExtractionMiss    = errors.New("no itinerary in model output")
	ErrPersistenceFailed = errors.New("trip persistence failed")
	ErrNotFound          = errors.New("trip not found")
)

// TripRequest carries the user's trip parameters for a single generation call.
type TripRequest struct {
	Country      string
	NumberOfDays int
	Budget       string
	Interests    string
	TravelStyle  string
	GroupType    string
	UserID       string
}

// Validate rejects blank fields and durations outside [MinDays, MaxDays].
func (r TripRequest) Validate() error {
	for _, v := range []string{r.Country, r.Budget, r.Interests, r.TravelStyle, r.GroupType, r.UserID} {
		if strings.TrimSpace(v) == "" {
			return ErrInvalidRequest
		}
	}
	if r.NumberOfDays < MinDays || r.NumberOfDays > MaxDays {
		return ErrInvalidRequest
	}
	return nil
}

// GeneratedTrip is the itinerary produced by the model.
type GeneratedTrip struct {
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	EstimatedPrice  Price     `json:"estimatedPrice"`
	Duration        int       `json:"duration"`
	Budget          string    `json:"budget"`
	TravelStyle     string    `json:"travelStyle"`
	Country         string    `json:"country"`
	Interests       Interests `json:"interests"`
	GroupType       string    `json:"groupType"`
	BestTimeToVisit []string  `json:"bestTimeToVisit"`
	WeatherInfo     []string  `json:"weatherInfo"`
	Location        Location  `json:"location"`
	Itinerary       []DayPlan `json:"itinerary"`
}

// Location is the trip's main city and its [lat, lng] pair.
type Location struct {
	City          string    `json:"city"`
	Coordinates   []float64 `json:"coordinates"`
	OpenStreetMap string    `json:"openStreetMap"`
}

// DayPlan lists one day's activities.
type DayPlan struct {
	Day        int        `json:"day"`
	Location   string     `json:"location"`
	Activities []Activity `json:"activities"`
}

// Activity is a single time slot within a day.
type Activity struct {
	Time        string `json:"time"`
	Description string `json:"description"`
}

// Interests decodes from either a JSON string or an array of strings.
// The model is not consistent about which one it emits.
type Interests string

func (i *Interests) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*i = Interests(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*i = Interests(strings.Join(list, ", "))
	return nil
}

// Price decodes from either a JSON string or a number.
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Price(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = Price(n.String())
	return nil
}

// Record is the persisted trip document.
type Record struct {
	ID         string
	TripDetail string
	ImageURLs  []string
	UserID     string
	CreatedAt  time.Time
}

// TripView is a Record with its detail decoded for readers.
type TripView struct {
	ID        string        `json:"id"`
	Trip      GeneratedTrip `json:"trip"`
	ImageURLs []string      `json:"imageUrls"`
	UserID    string        `json:"userId"`
	CreatedAt time.Time     `json:"createdAt"`
}

// View decodes the stored detail. An unreadable detail yields an empty trip.
func (r Record) View() TripView {
	var trip GeneratedTrip
	if err := json.Unmarshal([]byte(r.TripDetail), &trip); err != nil {
		trip = GeneratedTrip{}
	}
	images := r.ImageURLs
	if images == nil {
		images = []string{}
	}
	return TripView{
		ID:        r.ID,
		Trip:      trip,
		ImageURLs: images,
		UserID:    r.UserID,
		CreatedAt: r.CreatedAt,
	}
}
