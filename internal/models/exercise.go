package models

// Exercise is catalog data: seeded by migrations, searched by clients, never
// mutated through the API.
type Exercise struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	MuscleGroups []string `json:"muscle_groups"`
	Equipment    []string `json:"equipment"`
	ImageKeys    []string `json:"image_keys"`
	ImageURLs    []string `json:"image_urls,omitempty"`
}
