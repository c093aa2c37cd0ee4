package model

import "time"

// Genre classifies movies (Action, Drama, ...).  Names are unique.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique genre name.
//  Description – optional free text.
type Genre struct {
	ID          uint64 // genres.id
	Name        string // genres.name
	Description string // genres.description
}

// Language is a spoken language a movie is screened in.  Both the
// display name and the short code (en, hi, ta) are unique.
//
// Fields:
//  ID   – primary key identifier.
//  Name – unique language name.
//  Code – unique short code.
type Language struct {
	ID   uint64 // languages.id
	Name string // languages.name
	Code string // languages.code
}

// Movie is the central catalog entity.  Genres and languages are
// attached through join tables and surfaced as name lists.  Movies
// are read-mostly reference data: bookings never mutate them.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – movie title.
//  Slug        – URL-friendly unique identifier derived from the title.
//  Description – synopsis.
//  DurationMin – running time in minutes.
//  ReleaseDate – first screening date.
//  Director    – director name.
//  Cast        – main cast, comma separated.
//  Rating      – aggregate review rating, 0.0–5.0 scaled by 10 (e.g. 42 = 4.2).
//  Certificate – certification (U, UA, A, S).
//  Genres      – genre names.
//  Languages   – language names.
//  IsActive    – whether the movie is currently listed.
//  IsFeatured  – whether the movie is promoted on landing surfaces.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Movie struct {
	ID          uint64    // movies.id
	Title       string    // movies.title
	Slug        string    // movies.slug
	Description string    // movies.description
	DurationMin uint32    // movies.duration_min
	ReleaseDate time.Time // movies.release_date
	Director    string    // movies.director
	Cast        string    // movies.cast_members
	Rating      uint32    // movies.rating (tenths of a star)
	Certificate string    // movies.certificate
	Genres      []string  // joined from genres via movie_genres
	Languages   []string  // joined from languages via movie_languages
	IsActive    bool      // movies.is_active
	IsFeatured  bool      // movies.is_featured
	CreatedAt   time.Time // movies.created_at
	UpdatedAt   time.Time // movies.updated_at
}

// MovieReview is a star rating with an optional comment left by a
// user.  A user may review a movie at most once.
//
// Fields:
//  ID        – primary key identifier.
//  MovieID   – reviewed movie.
//  UserID    – reviewing user.
//  Rating    – 1 to 5 stars.
//  Comment   – optional review text.
//  CreatedAt – creation timestamp.
type MovieReview struct {
	ID        uint64    // movie_reviews.id
	MovieID   uint64    // movie_reviews.movie_id
	UserID    uint64    // movie_reviews.user_id
	Rating    uint32    // movie_reviews.rating
	Comment   string    // movie_reviews.comment
	CreatedAt time.Time // movie_reviews.created_at
}
