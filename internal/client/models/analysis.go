package models

// Analysis is the structured result of an AI "analyze" call:
// the model's guess at language plus suggested title, description and tags.
type Analysis struct {
	Language    string   `json:"language"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}
