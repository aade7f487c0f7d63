package types

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlaceRecord is the normalized shape every provider adapter produces.
// Name is the dedup key for the whole system (case-sensitive exact match).
type PlaceRecord struct {
	Name       string      `json:"name"`
	ExternalID string      `json:"external_id,omitempty"`
	PriceTier  *int        `json:"price_tier,omitempty"` // 0-4; 0 = free, nil = no pricing signal
	Rating     float64     `json:"rating"`               // 0-5
	Location   Coordinates `json:"location"`
}

// Place categories used across pools, rate tables and breakdowns.
const (
	CategoryAttraction = "attraction"
	CategoryRestaurant = "restaurant"
	CategoryHotel      = "hotel"
	CategoryActivity   = "activity"
)

// TransportMode enumerates the supported local transport modes.
type TransportMode string

const (
	ModeDriving   TransportMode = "driving"
	ModeTransit   TransportMode = "transit"
	ModeWalking   TransportMode = "walking"
	ModeBicycling TransportMode = "bicycling"
)

// TransportLeg is an ephemeral leg between two planned stops.
type TransportLeg struct {
	DistanceKm  float64       `json:"distance_km"`
	DurationMin float64       `json:"duration_min"`
	Mode        TransportMode `json:"mode"`
}
