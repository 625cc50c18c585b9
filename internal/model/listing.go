package model

// Listing is one tradable instrument from the provider's bulk listing feed.
type Listing struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}
