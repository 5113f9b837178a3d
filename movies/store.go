package movies

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/user/movievault-go/db"
)

// ErrNotFound is returned when no movie matches a lookup.
var ErrNotFound = errors.New("movie not found")

const movieColumns = `id::text, title, description, genre_name, genre_description,
	director_name, director_bio, director_birth, director_death, image_path, featured`

// Store reads the catalog.
type Store struct {
	db db.Querier
}

// NewStore creates a Store.
func NewStore(q db.Querier) *Store {
	return &Store{db: q}
}

func scanMovie(row pgx.Row) (*Movie, error) {
	var m Movie
	err := row.Scan(
		&m.ID, &m.Title, &m.Description,
		&m.Genre.Name, &m.Genre.Description,
		&m.Director.Name, &m.Director.Bio, &m.Director.Birth, &m.Director.Death,
		&m.ImagePath, &m.Featured,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// first returns the first movie matched by a `WHERE` clause with one argument.
func (s *Store) first(ctx context.Context, where, arg string) (*Movie, error) {
	m, err := scanMovie(s.db.QueryRow(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE `+where+` ORDER BY title LIMIT 1`, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find movie where %s: %w", where, err)
	}
	return m, nil
}

// List returns the whole catalog ordered by title.
func (s *Store) List(ctx context.Context) ([]*Movie, error) {
	rows, err := s.db.Query(ctx, `SELECT `+movieColumns+` FROM movies ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	movies := []*Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// ByTitle returns the movie with exactly this title.
func (s *Store) ByTitle(ctx context.Context, title string) (*Movie, error) {
	return s.first(ctx, "title = $1", title)
}

// Genre returns the genre named name, taken from any movie that has it.
func (s *Store) Genre(ctx context.Context, name string) (*Genre, error) {
	m, err := s.first(ctx, "genre_name = $1", name)
	if err != nil {
		return nil, err
	}
	return &m.Genre, nil
}

// Director returns the director named name, taken from any movie they directed.
func (s *Store) Director(ctx context.Context, name string) (*Director, error) {
	m, err := s.first(ctx, "director_name = $1", name)
	if err != nil {
		return nil, err
	}
	return &m.Director, nil
}
