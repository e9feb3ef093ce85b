package models

// Item is a single drill card from the catalog
type Item struct {
	ID      string `json:"id" db:"id"`
	Prompt  string `json:"prompt" db:"prompt"`   // Shown to the learner
	Answer  string `json:"answer" db:"answer"`   // Canonical answer, compared exactly after trimming
	Example string `json:"example" db:"example"` // Optional usage example
	Topic   string `json:"topic" db:"topic"`
}

// ItemIDs returns the IDs of items in catalog order
func ItemIDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}
