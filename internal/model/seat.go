package model

// SeatCategory groups seats into pricing tiers (Premium, Gold,
// Silver).  The color code is used by clients when rendering the
// seat map.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – category name.
//  Description – optional free text.
//  ColorCode   – hex color for seat map rendering.
type SeatCategory struct {
	ID          uint64 // seat_categories.id
	Name        string // seat_categories.name
	Description string // seat_categories.description
	ColorCode   string // seat_categories.color_code
}

// Seat is a physical seat on a screen.  Seats are uniquely identified
// by (screen, seat_number).  Row and column describe the seat's
// position in the grid; the category drives per-show pricing.
//
// Fields:
//  ID           – primary key identifier.
//  ScreenID     – screen this seat belongs to.
//  SeatNumber   – label like "A1", "B5"; unique within the screen.
//  Row          – row label ("A", "B", ...).
//  Column       – 1-based position within the row.
//  CategoryID   – pricing category.
//  IsActive     – whether the seat is sellable.
//  IsAccessible – wheelchair accessible seat.
type Seat struct {
	ID           uint64 // seats.id
	ScreenID     uint64 // seats.screen_id
	SeatNumber   string // seats.seat_number
	Row          string // seats.row_label
	Column       uint32 // seats.col_number
	CategoryID   uint64 // seats.category_id
	IsActive     bool   // seats.is_active
	IsAccessible bool   // seats.is_accessible
}
