package partner

import (
	"context"

	"github.com/bakery/backend/internal/domain/shared"
)

// ClientType represents the type of client
type ClientType string

const (
	ClientTypeIndividual ClientType = "individual" // Walk-in or personal customer
	ClientTypeBusiness   ClientType = "business"   // Cafe, restaurant or reseller buying wholesale
)

// IsValid checks if the client type is known
func (t ClientType) IsValid() bool {
	return t == ClientTypeIndividual || t == ClientTypeBusiness
}

// Client is a bakery customer
type Client struct {
	ID       string
	BakeryID string
	Name     string
	Type     ClientType
}

// NewClient creates a client with required fields
func NewClient(id, bakeryID, name string, clientType ClientType) (*Client, error) {
	if id == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if bakeryID == "" {
		return nil, shared.ErrInvalidBakery
	}
	if !clientType.IsValid() {
		return nil, shared.NewDomainError("INVALID_CLIENT_TYPE", "Client type must be individual or business")
	}
	return &Client{ID: id, BakeryID: bakeryID, Name: name, Type: clientType}, nil
}

// IsB2B reports whether the client buys as a business
func (c *Client) IsB2B() bool {
	return c.Type == ClientTypeBusiness
}

// ClientRepository defines the interface for client lookups needed by reporting
type ClientRepository interface {
	// FindB2BClientIDs returns the ids of the bakery's business clients
	FindB2BClientIDs(ctx context.Context, bakeryID string) ([]string, error)
}
