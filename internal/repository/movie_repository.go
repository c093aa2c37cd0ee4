// Package repository contains data access logic for the catalog. This file
// defines repository methods for movies, their genre/language joins and
// reviews. Movies are read-mostly reference data: the booking flow only
// ever reads them.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/moviebook/movie-ticket-booking/internal/model"
)

// ErrMovieNotFound indicates that a movie was not located in the DB.
var ErrMovieNotFound = errors.New("movie not found")

// MovieRepo manages persistence for movies, genres, languages and reviews.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// ListActive returns all active movies ordered by release date descending.
// When featuredOnly is true, only featured movies are returned. Genre and
// language name lists are populated with one follow-up query per join
// table covering all returned movies.
func (r *MovieRepo) ListActive(ctx context.Context, featuredOnly bool) ([]model.Movie, error) {
	q := `SELECT id, title, slug, description, duration_min, release_date, director, cast_members,
				 rating, certificate, is_active, is_featured, created_at, updated_at
		  FROM movies
		  WHERE is_active = 1`
	if featuredOnly {
		q += ` AND is_featured = 1`
	}
	q += ` ORDER BY release_date DESC, title ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movies := make([]model.Movie, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(
			&m.ID, &m.Title, &m.Slug, &m.Description, &m.DurationMin, &m.ReleaseDate,
			&m.Director, &m.Cast, &m.Rating, &m.Certificate, &m.IsActive, &m.IsFeatured,
			&m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		m.Genres = []string{}
		m.Languages = []string{}
		index[m.ID] = len(movies)
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return movies, nil
	}
	if err := r.attachNames(ctx, movies, index,
		`SELECT mg.movie_id, g.name FROM movie_genres mg JOIN genres g ON g.id = mg.genre_id WHERE mg.movie_id IN (%s) ORDER BY g.name`,
		func(m *model.Movie, name string) { m.Genres = append(m.Genres, name) },
	); err != nil {
		return nil, err
	}
	if err := r.attachNames(ctx, movies, index,
		`SELECT ml.movie_id, l.name FROM movie_languages ml JOIN languages l ON l.id = ml.language_id WHERE ml.movie_id IN (%s) ORDER BY l.name`,
		func(m *model.Movie, name string) { m.Languages = append(m.Languages, name) },
	); err != nil {
		return nil, err
	}
	return movies, nil
}

// attachNames runs a join-table query for the given movies and appends each
// returned name onto the matching movie via the provided setter. The query
// template must contain a single %s for the IN placeholder list.
func (r *MovieRepo) attachNames(ctx context.Context, movies []model.Movie, index map[uint64]int, tmpl string, set func(*model.Movie, string)) error {
	ids := make([]interface{}, 0, len(movies))
	placeholders := make([]string, 0, len(movies))
	for _, m := range movies {
		ids = append(ids, m.ID)
		placeholders = append(placeholders, "?")
	}
	q := strings.Replace(tmpl, "%s", strings.Join(placeholders, ","), 1)
	rows, err := r.db.QueryContext(ctx, q, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var movieID uint64
		var name string
		if err := rows.Scan(&movieID, &name); err != nil {
			return err
		}
		if idx, ok := index[movieID]; ok {
			set(&movies[idx], name)
		}
	}
	return rows.Err()
}

// GetByID retrieves a single active movie by its ID along with its genre
// and language names. It returns ErrMovieNotFound if no matching row exists.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT id, title, slug, description, duration_min, release_date, director, cast_members,
					  rating, certificate, is_active, is_featured, created_at, updated_at
			   FROM movies WHERE id = ? AND is_active = 1`
	var m model.Movie
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&m.ID, &m.Title, &m.Slug, &m.Description, &m.DurationMin, &m.ReleaseDate,
		&m.Director, &m.Cast, &m.Rating, &m.Certificate, &m.IsActive, &m.IsFeatured,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	m.Genres = []string{}
	m.Languages = []string{}
	movies := []model.Movie{m}
	index := map[uint64]int{m.ID: 0}
	if err := r.attachNames(ctx, movies, index,
		`SELECT mg.movie_id, g.name FROM movie_genres mg JOIN genres g ON g.id = mg.genre_id WHERE mg.movie_id IN (%s) ORDER BY g.name`,
		func(mv *model.Movie, name string) { mv.Genres = append(mv.Genres, name) },
	); err != nil {
		return nil, err
	}
	if err := r.attachNames(ctx, movies, index,
		`SELECT ml.movie_id, l.name FROM movie_languages ml JOIN languages l ON l.id = ml.language_id WHERE ml.movie_id IN (%s) ORDER BY l.name`,
		func(mv *model.Movie, name string) { mv.Languages = append(mv.Languages, name) },
	); err != nil {
		return nil, err
	}
	return &movies[0], nil
}

// ListReviews returns all reviews for a movie ordered newest first. When
// the movie has no reviews an empty slice is returned.
func (r *MovieRepo) ListReviews(ctx context.Context, movieID uint64) ([]model.MovieReview, error) {
	const q = `SELECT id, movie_id, user_id, rating, comment, created_at
			   FROM movie_reviews WHERE movie_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reviews := make([]model.MovieReview, 0)
	for rows.Next() {
		var rv model.MovieReview
		if err := rows.Scan(&rv.ID, &rv.MovieID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}
