package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"

	"weather-dashboard/dashboard"
	"weather-dashboard/render"
)

// errorBody is the JSON body of a failed intent
type errorBody struct {
	Error     string             `json:"error"`
	Dashboard dashboard.Snapshot `json:"dashboard"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Dashboard API base URL")
	city := flag.String("city", "", "Search this city before printing the dashboard")
	toggle := flag.Bool("toggle", false, "Toggle the temperature unit before printing")
	flag.Parse()

	fmt.Println("Weather Dashboard Client")
	fmt.Println("========================")

	client := resty.New().
		SetBaseURL(*baseURL).
		SetTimeout(30 * time.Second)

	if *city != "" {
		fmt.Printf("Searching for %s...\n", *city)
		post(client, "/api/location/search", map[string]string{"q": *city})
	}
	if *toggle {
		post(client, "/api/unit/toggle", nil)
	}

	var snap dashboard.Snapshot
	resp, err := client.R().SetResult(&snap).Get("/api/dashboard")
	if err != nil {
		fmt.Printf("Error fetching dashboard: %v\n", err)
		os.Exit(1)
	}
	if resp.IsError() {
		fmt.Printf("Error fetching dashboard: %s\n", resp.Status())
		os.Exit(1)
	}

	if snap.Error != "" {
		fmt.Printf("! %s\n", snap.Error)
	}
	if snap.Dashboard == nil {
		fmt.Println("No weather data loaded yet. Try again later.")
		return
	}

	updated := time.Now()
	if snap.LastUpdated != nil {
		updated = *snap.LastUpdated
	}
	fmt.Print(render.Frame(*snap.Dashboard, updated))
}

// post sends one intent and reports its failure without exiting
func post(client *resty.Client, path string, query map[string]string) {
	var failure errorBody
	resp, err := client.R().
		SetQueryParams(query).
		SetError(&failure).
		Post(path)
	if err != nil {
		fmt.Printf("Error calling %s: %v\n", path, err)
		os.Exit(1)
	}
	if resp.IsError() && failure.Error != "" {
		fmt.Printf("! %s\n", failure.Error)
	}
}
