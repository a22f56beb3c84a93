package search

// BookDTO is a book with its references resolved, ready for display.
type BookDTO struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	AuthorID    string   `json:"authorId"`
	Author      string   `json:"author"`
	Image       string   `json:"image"`
	Genres      []string `json:"genres"`
	Year        int      `json:"year,omitempty"`
	Subtitle    string   `json:"subtitle"`
	Description string   `json:"description,omitempty"`
}

// SearchResult is one window of a match set.
type SearchResult struct {
	Total    int       `json:"total"`
	From     int       `json:"from"`
	Size     int       `json:"size"`
	NextFrom int       `json:"next_from"`
	HasMore  bool      `json:"has_more"`
	Books    []BookDTO `json:"books"`
}

// Option is one entry of a dropdown.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Options lists the values accepted by the genre and author filters.
type Options struct {
	Genres  []Option `json:"genres"`
	Authors []Option `json:"authors"`
}
