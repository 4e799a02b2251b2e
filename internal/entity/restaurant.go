package domain

type MenuItem struct {
	ID          string
	Name        string
	Description string
	PriceCents  int64
	Image       string
	Ingredients string // "veg" | "nonveg"
	Rating      float64
}

type Restaurant struct {
	ID          string
	Name        string
	Description string
	Location    string
	Image       string
	Rating      float64
	Menu        []MenuItem
}

// HasMenuItem reports whether the menu contains an item matching id, name
// and price exactly. Checkout refuses any line that fails this match, so a
// client cannot order at a stale or forged price.
func (r *Restaurant) HasMenuItem(id, name string, priceCents int64) bool {
	for _, m := range r.Menu {
		if m.ID == id && m.Name == name && m.PriceCents == priceCents {
			return true
		}
	}
	return false
}
