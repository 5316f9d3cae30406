package domain

// PageMetadata is the SEO summary of a rendered page
type PageMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	Language    string `json:"language,omitempty"`
}
