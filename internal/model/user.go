package model

// User is the identity consumed from the authentication service.  This
// service never creates or mutates users; the JWT middleware supplies
// the acting user's ID and handlers pass it explicitly into every core
// operation.
//
// Fields:
//  ID       – primary key identifier, matches the JWT subject.
//  Email    – account email.
//  FullName – display name.
//  Phone    – contact phone number.
type User struct {
	ID       uint64 // users.id
	Email    string // users.email
	FullName string // users.full_name
	Phone    string // users.phone
}
