// Package movies serves the read-only movie catalog: movies, their genres and their directors.
package movies

// Genre is embedded in every movie.
type Genre struct {
	Name        string `json:"Name" example:"Drama"`
	Description string `json:"Description"`
}

// Director is embedded in every movie. Birth and Death are free-form years and may be absent.
type Director struct {
	Name  string  `json:"Name" example:"Billy Wilder"`
	Bio   string  `json:"Bio"`
	Birth *string `json:"Birth,omitempty" example:"1906"`
	Death *string `json:"Death,omitempty" example:"2002"`
}

// Movie is one catalog entry.
type Movie struct {
	ID          string   `json:"_id"`
	Title       string   `json:"Title" example:"Sunset Boulevard"`
	Description string   `json:"Description"`
	Genre       Genre    `json:"Genre"`
	Director    Director `json:"Director"`
	ImagePath   string   `json:"ImagePath"`
	Featured    bool     `json:"Featured"`
}
