package config // package config loads application configuration from environment variables

import (
	"log"      // log is used to report configuration errors and halt execution
	"os"       // os provides access to environment variables
	"strconv"  // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations,
// fees and limits.  Monetary values are stored in cents.
type Config struct {
	Env                 string // application environment (e.g. "dev", "prod")
	Port                string // HTTP port to listen on
	DBUser              string // database username
	DBPass              string // database password (optional)
	DBHost              string // database host address
	DBPort              string // database port number
	DBName              string // database name
	JWTSecret           string // secret used to verify JWTs issued by the auth service
	ConvenienceFeeCents uint32 // flat per-ticket surcharge in cents
	BookingTTLMin       int    // minutes an unpaid booking stays reservable
	CancelWindowHours   int    // hours before showtime after which cancellation is refused
	MaxSeatsPerBooking  int    // upper bound on seats in a single booking
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Booking knobs fall
// back to the documented defaults when unset.
func Load() Config {
	return Config{
		Env:                 must("APP_ENV"),      // environment (dev/test/prod)
		Port:                must("APP_PORT"),     // port to bind the HTTP server
		DBUser:              must("DB_USER"),      // database user
		DBPass:              os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:              must("DB_HOST"),      // database host
		DBPort:              must("DB_PORT"),      // database port
		DBName:              must("DB_NAME"),      // database name
		JWTSecret:           must("JWT_SECRET"),   // secret shared with the auth service
		ConvenienceFeeCents: uint32(intOr("CONVENIENCE_FEE_CENTS", 2000)), // 20.00 per ticket
		BookingTTLMin:       intOr("BOOKING_TTL_MIN", 15),                 // 15 minute expiry window
		CancelWindowHours:   intOr("CANCEL_WINDOW_HOURS", 2),              // no cancellation within 2h of show
		MaxSeatsPerBooking:  intOr("MAX_SEATS_PER_BOOKING", 10),           // at most 10 seats per booking
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr returns the integer value of an environment variable, or the
// provided default when the variable is unset.  A set-but-unparseable
// value is treated as a configuration error and exits the program.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
