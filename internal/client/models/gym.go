package models

import "fmt"

// ClassInfo describes one scheduled class.
type ClassInfo struct {
	ClassID    int64  `json:"classId"`
	Name       string `json:"class_name"`
	Date       string `json:"class_date"`
	StartTime  string `json:"start_time,omitempty"`
	EndTime    string `json:"end_time,omitempty"`
	Instructor string `json:"instructor_name"`
}

// ClassOccurrence is an item of GET /user/classes/.
type ClassOccurrence struct {
	ClassInfo
	Description string `json:"class_description,omitempty"`
	Booked      bool   `json:"booked"`
}

func (c ClassOccurrence) String() string {
	mark := " "
	if c.Booked {
		mark = "*"
	}
	return fmt.Sprintf("[%s] #%d %s %s-%s (%s)", mark, c.ClassID, c.Name, c.StartTime, c.EndTime, c.Instructor)
}

// Booking is a class the user has booked.
type Booking struct {
	ID          int64     `json:"id"`
	BookingDate string    `json:"booking_date"`
	Class       ClassInfo `json:"classId"`
}

// Membership is a purchased membership. CreditsRemaining is nil for
// time-based memberships.
type Membership struct {
	ID               int64  `json:"id"`
	Membership       string `json:"membership"`
	PurchaseDate     string `json:"purchase_date"`
	StartDate        string `json:"start_date"`
	ExpirationDate   string `json:"expiration_date"`
	CreditsRemaining *int   `json:"credits_remaining"`
}

func (m Membership) String() string {
	s := fmt.Sprintf("#%d %s (%s → %s)", m.ID, m.Membership, m.StartDate, m.ExpirationDate)
	if m.CreditsRemaining != nil {
		s += fmt.Sprintf(", %d credits left", *m.CreditsRemaining)
	}
	return s
}

// Profile is the reply of POST /user/auth/.
type Profile struct {
	Email             string       `json:"email"`
	FirstName         string       `json:"first_name"`
	LastName          string       `json:"last_name"`
	MembershipName    string       `json:"membership_name"`
	BookedClasses     []Booking    `json:"booked_classes"`
	ActiveMemberships []Membership `json:"active_membership"`
}

// BookingRequest is the body of POST /user/book-class/.
type BookingRequest struct {
	UserID       int64 `json:"userId"`
	ClassID      int64 `json:"classId"`
	MembershipID int64 `json:"membershipId"`
}

// Event is an item of GET /user/events/.
type Event struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
}

func (e Event) String() string {
	return fmt.Sprintf("#%d %s, %s %s: %s", e.ID, e.Title, e.Date, e.Time, e.Description)
}
