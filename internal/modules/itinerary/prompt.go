package itinerary

import "fmt"

// BuildPrompt renders the generation request for req. It is a pure function and
// does not validate req; callers run Validate first.
func BuildPrompt(req TripRequest) string {
	return fmt.Sprintf(`Generate a %[1]d-day travel itinerary for %[2]s based on the following user information:
Budget: '%[3]s'
Interests: '%[4]s'
TravelStyle: '%[5]s'
GroupType: '%[6]s'
Return the itinerary and lowest estimated price as JSON inside a single `+"```json"+` fenced code block, with exactly the following structure:
{
  "name": "A descriptive title for the trip",
  "description": "A brief description of the trip and its highlights not exceeding 100 words",
  "estimatedPrice": "Lowest average price for the trip in USD, e.g.$price",
  "duration": %[1]d,
  "budget": "%[3]s",
  "travelStyle": "%[5]s",
  "country": "%[2]s",
  "interests": "%[4]s",
  "groupType": "%[6]s",
  "bestTimeToVisit": [
    "🌸 Season (from month to month): reason to visit",
    "☀️ Season (from month to month): reason to visit",
    "🍁 Season (from month to month): reason to visit",
    "❄️ Season (from month to month): reason to visit"
  ],
  "weatherInfo": [
    "☀️ Season: temperature range in Celsius (temperature range in Fahrenheit)",
    "🌦️ Season: temperature range in Celsius (temperature range in Fahrenheit)",
    "🌧️ Season: temperature range in Celsius (temperature range in Fahrenheit)",
    "❄️ Season: temperature range in Celsius (temperature range in Fahrenheit)"
  ],
  "location": {
    "city": "name of the city or region",
    "coordinates": [latitude, longitude],
    "openStreetMap": "link to open street map"
  },
  "itinerary": [
    {
      "day": 1,
      "location": "City/Region Name",
      "activities": [
        {"time": "Morning", "description": "🏰 Visit the local historic castle and enjoy a scenic walk"},
        {"time": "Afternoon", "description": "🖼️ Explore a famous art museum with a guided tour"},
        {"time": "Evening", "description": "🍷 Dine at a rooftop restaurant with local wine"}
      ]
    }
  ]
}
The "itinerary" array must contain exactly %[1]d entries, one per day, with "day" numbered from 1.`,
		req.NumberOfDays, req.Country, req.Budget, req.Interests, req.TravelStyle, req.GroupType)
}
