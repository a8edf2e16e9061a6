package domain

// NoCategory is the filter value meaning "show every work". Real categories
// never use id 0.
const NoCategory int64 = 0

type Work struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	ImageURL   string `json:"imageUrl"`
	CategoryID int64  `json:"categoryId"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewWork is the payload for creating a work. Image is the raw file content.
type NewWork struct {
	Title      string
	CategoryID int64
	Filename   string
	MimeType   string
	Image      []byte
}
