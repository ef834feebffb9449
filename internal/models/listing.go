package models

// Listing is the normalized vehicle rental offer returned by providers.
type Listing struct {
	Provider        string  `json:"provider"`
	URL             string  `json:"url"`
	Make            string  `json:"make,omitempty"`
	Model           string  `json:"model,omitempty"`
	Year            int     `json:"year,omitempty"`
	Trim            string  `json:"trim,omitempty"`
	DailyPrice      float64 `json:"daily_price"`
	Currency        string  `json:"currency,omitempty"`
	Rating          float64 `json:"rating,omitempty"`
	ReviewCount     int     `json:"review_count,omitempty"`
	TripsTaken      int     `json:"trips_taken,omitempty"`
	AllStarHost     bool    `json:"all_star_host,omitempty"`
	InstantBook     bool    `json:"instant_book,omitempty"`
	Latitude        float64 `json:"latitude,omitempty"`
	Longitude       float64 `json:"longitude,omitempty"`
	Description     string  `json:"description,omitempty"`
	DayMiles        string  `json:"day_miles,omitempty"`
	WeekMiles       string  `json:"week_miles,omitempty"`
	MonthMiles      string  `json:"month_miles,omitempty"`
	PerformanceHits int     `json:"performance_hits,omitempty"`
}

// Quote pairs a weekend window with the cheapest listing found for it.
type Quote struct {
	Window     Window  `json:"window"`
	Listing    Listing `json:"listing"`
	DailyPrice float64 `json:"daily_price"`
}
