package models

// Product is a catalogue entry priced in its region's currency.
type Product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Region   string  `json:"region"`
}
