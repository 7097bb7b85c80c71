package domain

import (
	"testing"
	"time"
)

func TestTicketStaleness(t *testing.T) {
	now := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	old := now.Add(-8 * 24 * time.Hour)
	recent := now.Add(-2 * 24 * time.Hour)

	tests := []struct {
		name   string
		ticket Ticket
		want   Staleness
	}{
		{"old open", Ticket{Status: StatusOpen, CreatedAt: old}, StaleOpen},
		{"recent open", Ticket{Status: StatusOpen, CreatedAt: recent}, Fresh},
		{"old in progress", Ticket{Status: StatusInProgress, CreatedAt: old}, StaleInProgress},
		{"recent in progress", Ticket{Status: StatusInProgress, CreatedAt: recent}, Fresh},
		{"old resolved", Ticket{Status: StatusResolved, CreatedAt: old}, Fresh},
		{"no timestamp", Ticket{Status: StatusOpen}, Fresh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ticket.Staleness(now, DefaultStaleAfter); got != tt.want {
				t.Errorf("Staleness() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTicketMatches(t *testing.T) {
	tk := Ticket{ID: 42, Title: "Impresora atascada", User: Reporter{FirstName: "Ana", LastName: "Pérez"}}
	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"impresora", true},
		{"42", true},
		{"ana", true},
		{"PÉREZ", true},
		{"scanner", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := tk.Matches(tt.query); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestTicketFilterApply(t *testing.T) {
	tickets := []Ticket{
		{ID: 1, Title: "red", Status: StatusOpen, Priority: PriorityHigh},
		{ID: 2, Title: "vpn", Status: StatusInProgress, Priority: PriorityHigh},
		{ID: 3, Title: "correo", Status: StatusOpen, Priority: PriorityLow},
	}

	got := TicketFilter{Status: StatusOpen}.Apply(tickets)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("status filter = %+v, want ids 1,3", got)
	}

	got = TicketFilter{Status: StatusOpen, Priority: PriorityHigh}.Apply(tickets)
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("status+priority filter = %+v, want id 1", got)
	}

	got = TicketFilter{Query: "vpn"}.Apply(tickets)
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("query filter = %+v, want id 2", got)
	}

	if got := (TicketFilter{}).Apply(tickets); len(got) != 3 {
		t.Errorf("empty filter returned %d tickets, want 3", len(got))
	}
}

func TestStatusLabel(t *testing.T) {
	if got := StatusInProgress.Label(); got != "EN PROCESO" {
		t.Errorf("Label() = %q, want %q", got, "EN PROCESO")
	}
}

func TestNextWraps(t *testing.T) {
	if got := Next(Priorities, PriorityHigh); got != PriorityLow {
		t.Errorf("Next(alta) = %q, want baja", got)
	}
	if got := Next(Priorities, Priority("unknown")); got != PriorityLow {
		t.Errorf("Next(unknown) = %q, want baja", got)
	}
}
