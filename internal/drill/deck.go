package drill

import "github.com/example/flashdrill/pkg/models"

// Deck browses the catalog one card at a time. Moving past either end wraps
// around.
type Deck struct {
	items []models.Item
	pos   int
}

// NewDeck starts a deck on the first card
func NewDeck(items []models.Item) *Deck {
	return &Deck{items: items}
}

// Current returns the card under the cursor; false for an empty deck
func (d *Deck) Current() (models.Item, bool) {
	if len(d.items) == 0 {
		return models.Item{}, false
	}
	return d.items[d.pos], true
}

// Next moves to the following card
func (d *Deck) Next() {
	if len(d.items) > 0 {
		d.pos = (d.pos + 1) % len(d.items)
	}
}

// Prev moves to the previous card
func (d *Deck) Prev() {
	if len(d.items) > 0 {
		d.pos = (d.pos - 1 + len(d.items)) % len(d.items)
	}
}

// Position returns the 1-based index of the current card and the deck size
func (d *Deck) Position() (int, int) {
	if len(d.items) == 0 {
		return 0, 0
	}
	return d.pos + 1, len(d.items)
}

// Replace swaps the cards, keeping the cursor when it is still in range
func (d *Deck) Replace(items []models.Item) {
	d.items = items
	if d.pos >= len(items) {
		d.pos = 0
	}
}
