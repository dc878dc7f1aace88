package models

import (
	"time"
)

// Action is the disposition of a mail request.
type Action string

const (
	ActionFilled Action = "Filled"
	ActionTossed Action = "Tossed"
)

func (a Action) Valid() bool {
	return a == ActionFilled || a == ActionTossed
}

// Unit is the facility an inmate is held in, with its mailing address
type Unit struct {
	Name    string `json:"name"`
	URL     string `json:"url,omitempty"`
	Street1 string `json:"street1,omitempty"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zipcode string `json:"zipcode,omitempty"`
}

// Inmate is one person's profile. The detail endpoint wraps it in an
// InmateAggregate together with its child records.
type Inmate struct {
	Jurisdiction    string    `db:"jurisdiction" json:"jurisdiction"`
	ID              int64     `db:"id" json:"id"`
	FirstName       string    `db:"first_name" json:"first_name"`
	LastName        string    `db:"last_name" json:"last_name"`
	Sex             string    `db:"sex" json:"sex,omitempty"`
	Race            string    `db:"race" json:"race,omitempty"`
	Release         string    `db:"release_info" json:"release,omitempty"`
	URL             string    `db:"url" json:"url,omitempty"`
	DatetimeFetched time.Time `db:"datetime_fetched" json:"datetime_fetched"`
	Unit            Unit      `db:"-" json:"unit"`
}

// Request is a mail request received from an inmate
type Request struct {
	Index          int    `db:"idx" json:"index"`
	DatePostmarked Date   `db:"date_postmarked" json:"date_postmarked"`
	DateProcessed  Date   `db:"date_processed" json:"date_processed"`
	Action         Action `db:"disposition" json:"action"`
}

// Comment is a free-text note attached to an inmate
type Comment struct {
	Index    int       `db:"idx" json:"index"`
	Body     string    `db:"body" json:"body"`
	Author   string    `db:"author" json:"author"`
	Datetime time.Time `db:"written_at" json:"datetime"`
}

// InmateAggregate is the inmate detail view: profile, child records, the
// postmark policy and any standing warnings.
type InmateAggregate struct {
	Inmate
	Requests             []Request `json:"requests"`
	Comments             []Comment `json:"comments"`
	EntryAgeWarning      string    `json:"entry_age_warning,omitempty"`
	ReleaseWarning       string    `json:"release_warning,omitempty"`
	MinPostmarkTimedelta int       `json:"min_postmark_timedelta"`
}

// User is a staff account
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsAdmin      bool      `db:"is_admin" json:"is_admin"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Key identifies a request within its inmate's list.
func (r Request) Key() int { return r.Index }

// Key identifies a comment within its inmate's list.
func (c Comment) Key() int { return c.Index }
