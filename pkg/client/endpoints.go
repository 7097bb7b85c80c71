package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/lcconsultores/ticketera/pkg/domain"
)

// --- Auth ---

// Login exchanges credentials for a token and profile. Errors are returned
// unwrapped so the login screen can show them verbatim.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResponse, error) {
	raw, err := c.Post(ctx, "/auth/login", creds)
	if err != nil {
		return nil, err
	}
	var resp domain.AuthResponse
	if err := decode(raw, &resp); err != nil {
		return nil, err
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChangePassword updates the caller's password.
func (c *Client) ChangePassword(ctx context.Context, change domain.PasswordChange) error {
	if _, err := c.Put(ctx, "/auth/password", change); err != nil {
		return fmt.Errorf("client.ChangePassword: %w", err)
	}
	return nil
}

// --- Tickets ---

// MyTickets returns the tickets reported by the caller.
func (c *Client) MyTickets(ctx context.Context) ([]domain.Ticket, error) {
	raw, err := c.Get(ctx, "/tickets/me")
	if err != nil {
		return nil, fmt.Errorf("client.MyTickets: %w", err)
	}
	tickets, err := decodeList[domain.Ticket](raw, "tickets")
	if err != nil {
		return nil, fmt.Errorf("client.MyTickets: %w", err)
	}
	return tickets, nil
}

// ListTickets returns every ticket. Staff only.
func (c *Client) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	raw, err := c.Get(ctx, "/tickets")
	if err != nil {
		return nil, fmt.Errorf("client.ListTickets: %w", err)
	}
	tickets, err := decodeList[domain.Ticket](raw, "tickets")
	if err != nil {
		return nil, fmt.Errorf("client.ListTickets: %w", err)
	}
	return tickets, nil
}

// CreateTicket reports a new incident.
func (c *Client) CreateTicket(ctx context.Context, t domain.NewTicket) error {
	if _, err := c.Post(ctx, "/tickets", t); err != nil {
		return fmt.Errorf("client.CreateTicket: %w", err)
	}
	return nil
}

// UpdateTicket changes the fields set in u.
func (c *Client) UpdateTicket(ctx context.Context, id int64, u domain.TicketUpdate) error {
	if _, err := c.Put(ctx, ticketPath(id), u); err != nil {
		return fmt.Errorf("client.UpdateTicket: %w", err)
	}
	return nil
}

// DeleteTicket removes a ticket.
func (c *Client) DeleteTicket(ctx context.Context, id int64) error {
	if _, err := c.Delete(ctx, ticketPath(id)); err != nil {
		return fmt.Errorf("client.DeleteTicket: %w", err)
	}
	return nil
}

func ticketPath(id int64) string {
	return "/tickets/" + strconv.FormatInt(id, 10)
}

// --- Incidencias ---

// ListIncidencias returns every knowledge-base entry, public or not. Staff only.
func (c *Client) ListIncidencias(ctx context.Context) ([]domain.Incidencia, error) {
	raw, err := c.Get(ctx, "/incidencias")
	if err != nil {
		return nil, fmt.Errorf("client.ListIncidencias: %w", err)
	}
	items, err := decodeList[domain.Incidencia](raw, "incidencias")
	if err != nil {
		return nil, fmt.Errorf("client.ListIncidencias: %w", err)
	}
	return items, nil
}

// PublicIncidencias returns the entries visible in the library.
func (c *Client) PublicIncidencias(ctx context.Context) ([]domain.Incidencia, error) {
	raw, err := c.Get(ctx, "/incidencias/public")
	if err != nil {
		return nil, fmt.Errorf("client.PublicIncidencias: %w", err)
	}
	items, err := decodeList[domain.Incidencia](raw, "incidencias")
	if err != nil {
		return nil, fmt.Errorf("client.PublicIncidencias: %w", err)
	}
	return items, nil
}

// CreateIncidencia adds a knowledge-base entry. The ID field is ignored.
func (c *Client) CreateIncidencia(ctx context.Context, i domain.Incidencia) error {
	if _, err := c.Post(ctx, "/incidencias", i); err != nil {
		return fmt.Errorf("client.CreateIncidencia: %w", err)
	}
	return nil
}

// UpdateIncidencia replaces the entry with i.ID.
func (c *Client) UpdateIncidencia(ctx context.Context, i domain.Incidencia) error {
	if _, err := c.Put(ctx, incidenciaPath(i.ID), i); err != nil {
		return fmt.Errorf("client.UpdateIncidencia: %w", err)
	}
	return nil
}

// DeleteIncidencia removes a knowledge-base entry.
func (c *Client) DeleteIncidencia(ctx context.Context, id int64) error {
	if _, err := c.Delete(ctx, incidenciaPath(id)); err != nil {
		return fmt.Errorf("client.DeleteIncidencia: %w", err)
	}
	return nil
}

func incidenciaPath(id int64) string {
	return "/incidencias/" + strconv.FormatInt(id, 10)
}

// --- Users ---

// ListUsers returns every user. Admin only.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	raw, err := c.Get(ctx, "/users")
	if err != nil {
		return nil, fmt.Errorf("client.ListUsers: %w", err)
	}
	users, err := decodeList[domain.User](raw, "users")
	if err != nil {
		return nil, fmt.Errorf("client.ListUsers: %w", err)
	}
	return users, nil
}

// CreateUser registers a user. The backend generates a temporary password
// and returns it with the simulated welcome email.
func (c *Client) CreateUser(ctx context.Context, u domain.NewUser) (*domain.CreatedUser, error) {
	raw, err := c.Post(ctx, "/users", u)
	if err != nil {
		return nil, fmt.Errorf("client.CreateUser: %w", err)
	}
	var created domain.CreatedUser
	if err := decode(raw, &created); err != nil {
		return nil, fmt.Errorf("client.CreateUser: %w", err)
	}
	return &created, nil
}

// DeleteUser removes a user.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	if _, err := c.Delete(ctx, "/users/"+strconv.FormatInt(id, 10)); err != nil {
		return fmt.Errorf("client.DeleteUser: %w", err)
	}
	return nil
}
