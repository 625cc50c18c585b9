package cache

import "fmt"

const keyPrefix = "tickerboard"

// Key derives the deterministic storage key for a category/symbol pair.
// Keys are stable across restarts so the persisted store survives them.
func Key(cat Category, symbol string) string {
	if cat == CategoryListings {
		return keyPrefix + "_listings"
	}
	return fmt.Sprintf("%s_%s_%s", keyPrefix, cat, symbol)
}
