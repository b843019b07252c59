package model

import "time"

// Contact is a message left through the contact form.  Contacts are
// append-only and have no relation to spots.
type Contact struct {
    ID        int       `json:"id"`
    Name      string    `json:"name"`
    Email     string    `json:"email"`
    Message   string    `json:"message"`
    Timestamp time.Time `json:"timestamp"`
}

// NewContact carries the validated form fields.
type NewContact struct {
    Name    string
    Email   string
    Message string
}
