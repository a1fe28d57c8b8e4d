package valtown

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/valtown/vt/internal/remote"
)

type wireVal struct {
	ID            string `json:"id"`
	OwnerUsername string `json:"ownerUsername"`
	Name          string `json:"name"`
	Privacy       string `json:"privacy"`
	Description   string `json:"description"`
}

type createValRequest struct {
	Name        string `json:"name"`
	Privacy     string `json:"privacy"`
	Description string `json:"description,omitempty"`
	OrgID       string `json:"orgId,omitempty"`
}

// CreateVal creates a new val owned by the authenticated user (or, when
// OrgID is set, an organization).
func (c *Client) CreateVal(ctx context.Context, p remote.CreateValParams) (remote.Val, error) {
	body, status, err := c.mutate(ctx, http.MethodPost, "/vals", createValRequest{
		Name:        p.Name,
		Privacy:     p.Privacy,
		Description: p.Description,
		OrgID:       p.OrgID,
	})
	if err != nil {
		return remote.Val{}, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return remote.Val{}, apiErr(status, body)
	}

	var wv wireVal
	if err := json.Unmarshal(body, &wv); err != nil {
		return remote.Val{}, fmt.Errorf("decode created val: %w", err)
	}
	return remote.Val{ID: wv.ID, OwnerUsername: wv.OwnerUsername, Name: wv.Name, Privacy: wv.Privacy, Description: wv.Description}, nil
}

// DeleteVal removes a val entirely.
func (c *Client) DeleteVal(ctx context.Context, valID string) error {
	body, status, err := c.mutate(ctx, http.MethodDelete, fmt.Sprintf("/vals/%s", valID), nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return apiErr(status, body)
	}
	return nil
}

// RetrieveVal fetches a val's metadata.
func (c *Client) RetrieveVal(ctx context.Context, valID string) (remote.Val, error) {
	body, status, err := c.idempotentGet(ctx, fmt.Sprintf("/vals/%s", valID), nil)
	if err != nil {
		return remote.Val{}, err
	}
	if status != http.StatusOK {
		return remote.Val{}, apiErr(status, body)
	}

	var wv wireVal
	if err := json.Unmarshal(body, &wv); err != nil {
		return remote.Val{}, fmt.Errorf("decode val: %w", err)
	}
	return remote.Val{ID: wv.ID, OwnerUsername: wv.OwnerUsername, Name: wv.Name, Privacy: wv.Privacy, Description: wv.Description}, nil
}

// ResolveVal looks up a val by its owner/name pair, the form `vt clone`
// accepts on the command line (spec.md §6).
func (c *Client) ResolveVal(ctx context.Context, ownerUsername, valName string) (remote.Val, error) {
	q := url.Values{}
	q.Set("owner", ownerUsername)
	q.Set("name", valName)

	body, status, err := c.idempotentGet(ctx, "/alias/vals", q)
	if err != nil {
		return remote.Val{}, err
	}
	if status != http.StatusOK {
		return remote.Val{}, apiErr(status, body)
	}

	var wv wireVal
	if err := json.Unmarshal(body, &wv); err != nil {
		return remote.Val{}, fmt.Errorf("decode val: %w", err)
	}
	return remote.Val{ID: wv.ID, OwnerUsername: wv.OwnerUsername, Name: wv.Name, Privacy: wv.Privacy, Description: wv.Description}, nil
}
