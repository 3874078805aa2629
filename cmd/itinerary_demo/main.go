package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"tourvisto/internal/ai"
	"tourvisto/internal/modules/itinerary"
	"tourvisto/internal/photos"
)

// Generates one itinerary without persisting it and prints the parsed result.
func main() {
	_ = godotenv.Load()

	req := itinerary.TripRequest{UserID: "demo"}
	flag.StringVar(&req.Country, "country", "Japan", "destination country")
	flag.IntVar(&req.NumberOfDays, "days", 5, "trip length in days (1-10)")
	flag.StringVar(&req.Budget, "budget", "Luxury", "budget tier")
	flag.StringVar(&req.Interests, "interests", "Food", "interests")
	flag.StringVar(&req.TravelStyle, "style", "Relaxed", "travel style")
	flag.StringVar(&req.GroupType, "group", "Couple", "group type")
	flag.Parse()

	if err := req.Validate(); err != nil {
		log.Fatalf("invalid request: %v", err)
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	provider, err := ai.NewGeminiProvider(ctx, apiKey, os.Getenv("TOURVISTO_GEMINI_MODEL"))
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	defer provider.Close()

	raw, err := provider.Generate(ctx, itinerary.BuildPrompt(req))
	if err != nil {
		log.Fatalf("Error generating itinerary: %v", err)
	}

	detail, ok := itinerary.Extract(raw)
	if !ok {
		fmt.Println(raw)
		log.Fatal("no ```json block in model output")
	}
	out, _ := json.MarshalIndent(detail, "", "  ")
	fmt.Println(string(out))
	if trip, ok := itinerary.ExtractTrip(raw); ok {
		fmt.Printf("%s: %d days in %s, %s\n", trip.Name, trip.Duration, trip.Location.City, trip.EstimatedPrice)
	}

	if key := os.Getenv("UNSPLASH_ACCESS_KEY"); key != "" {
		client := photos.NewUnsplashClient(os.Getenv("TOURVISTO_UNSPLASH_URL"), key, photos.DefaultMaxImages, nil)
		for _, u := range client.Search(ctx, req.Country, req.Interests, req.TravelStyle) {
			fmt.Printf("Image: %s\n", u)
		}
	}
}
