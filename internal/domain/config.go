package domain

// Profile stores a saved restaurant session.
type Profile struct {
	Name         string `json:"name"`
	IsDefault    bool   `json:"is_default"`
	RestaurantID string `json:"restaurant_id"`
	APIBaseURL   string `json:"api_base_url,omitempty"`
}

// Config stores all local profiles.
type Config struct {
	Profiles []Profile `json:"profiles"`
}
