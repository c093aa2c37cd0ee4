package model

import "time"

// Theater is a physical venue hosting one or more screens.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – theater name.
//  Address   – street address.
//  City      – city used for browsing and grouping.
//  State     – state or region.
//  Pincode   – postal code.
//  Phone     – contact phone number.
//  Email     – contact email (optional).
//  IsActive  – whether the theater is operating.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Theater struct {
	ID        uint64    // theaters.id
	Name      string    // theaters.name
	Address   string    // theaters.address
	City      string    // theaters.city
	State     string    // theaters.state
	Pincode   string    // theaters.pincode
	Phone     string    // theaters.phone
	Email     string    // theaters.email
	IsActive  bool      // theaters.is_active
	CreatedAt time.Time // theaters.created_at
	UpdatedAt time.Time // theaters.updated_at
}

// Screen is an auditorium inside a theater.  Screen names are unique
// within their theater.  TotalSeats is the full physical capacity and
// is the basis for a show's available-seat count.
//
// Fields:
//  ID         – primary key identifier.
//  TheaterID  – owning theater.
//  Name       – screen name (e.g. "Audi 1").
//  ScreenType – projection type (2D, 3D, IMAX, 4DX, DOLBY).
//  TotalSeats – physical seat capacity.
//  IsActive   – whether the screen is in service.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Screen struct {
	ID         uint64    // screens.id
	TheaterID  uint64    // screens.theater_id
	Name       string    // screens.name
	ScreenType string    // screens.screen_type
	TotalSeats uint32    // screens.total_seats
	IsActive   bool      // screens.is_active
	CreatedAt  time.Time // screens.created_at
	UpdatedAt  time.Time // screens.updated_at
}
