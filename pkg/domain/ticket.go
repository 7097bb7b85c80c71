package domain

import (
	"strconv"
	"strings"
	"time"
)

// Status is a ticket's workflow state.
type Status string

const (
	StatusOpen       Status = "abierto"
	StatusInProgress Status = "en_proceso"
	StatusResolved   Status = "resuelto"
)

// Statuses lists ticket states in workflow order.
var Statuses = []Status{StatusOpen, StatusInProgress, StatusResolved}

// Label renders the status for display ("en_proceso" -> "EN PROCESO").
func (s Status) Label() string {
	return strings.ToUpper(strings.ReplaceAll(string(s), "_", " "))
}

// Priority is a ticket's urgency.
type Priority string

const (
	PriorityLow    Priority = "baja"
	PriorityMedium Priority = "media"
	PriorityHigh   Priority = "alta"
)

// Priorities lists priorities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// DefaultStaleAfter is how long an unresolved ticket may sit before the
// admin screen raises a notification.
const DefaultStaleAfter = 7 * 24 * time.Hour

// Reporter is the ticket author summary embedded in ticket responses.
type Reporter struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Ticket is a reported incident.
type Ticket struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	CreatedByID int64     `json:"createdById"`
	User        Reporter  `json:"user"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Staleness classifies unattended tickets.
type Staleness int

const (
	Fresh Staleness = iota
	StaleOpen
	StaleInProgress
)

// Staleness reports whether the ticket has been open or in progress for
// longer than threshold as of now. Resolved tickets are always Fresh.
func (t Ticket) Staleness(now time.Time, threshold time.Duration) Staleness {
	if t.CreatedAt.IsZero() || !t.CreatedAt.Before(now.Add(-threshold)) {
		return Fresh
	}
	switch t.Status {
	case StatusOpen:
		return StaleOpen
	case StatusInProgress:
		return StaleInProgress
	}
	return Fresh
}

// Matches reports whether query (case-insensitive) appears in the title,
// the numeric id, or the reporter's first or last name.
func (t Ticket) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strconv.FormatInt(t.ID, 10), q) ||
		strings.Contains(strings.ToLower(t.User.FirstName), q) ||
		strings.Contains(strings.ToLower(t.User.LastName), q)
}

// TicketFilter narrows a ticket list. Zero values match everything.
type TicketFilter struct {
	Status   Status
	Priority Priority
	Query    string
}

// Apply returns the tickets that pass every set criterion, preserving order.
func (f TicketFilter) Apply(tickets []Ticket) []Ticket {
	out := make([]Ticket, 0, len(tickets))
	for _, t := range tickets {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if !t.Matches(f.Query) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// NewTicket is the payload for POST /tickets.
type NewTicket struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
}

// TicketUpdate is the payload for PUT /tickets/{id}. Empty fields are omitted
// so the backend leaves them unchanged.
type TicketUpdate struct {
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Status      Status   `json:"status,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
}

// Next returns the value after cur in values, wrapping around. An unknown cur
// yields the first value.
func Next[T comparable](values []T, cur T) T {
	for i, v := range values {
		if v == cur {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}
