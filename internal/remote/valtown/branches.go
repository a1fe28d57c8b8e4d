package valtown

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/valtown/vt/internal/remote"
)

type wireBranch struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListBranches returns every branch of a val.
func (c *Client) ListBranches(ctx context.Context, valID string) ([]remote.Branch, error) {
	body, status, err := c.idempotentGet(ctx, fmt.Sprintf("/vals/%s/branches", valID), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apiErr(status, body)
	}

	var wire []wireBranch
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("decode branches: %w", err)
	}

	out := make([]remote.Branch, 0, len(wire))
	for _, wb := range wire {
		out = append(out, remote.Branch{ID: wb.ID, Name: wb.Name, Version: wb.Version, CreatedAt: wb.CreatedAt, UpdatedAt: wb.UpdatedAt})
	}
	return out, nil
}

type createBranchRequest struct {
	FromBranchID string `json:"fromBranchId"`
	Name         string `json:"name"`
}

// CreateBranch forks a new branch from an existing one.
func (c *Client) CreateBranch(ctx context.Context, valID string, p remote.CreateBranchParams) (remote.Branch, error) {
	body, status, err := c.mutate(ctx, http.MethodPost, fmt.Sprintf("/vals/%s/branches", valID), createBranchRequest{
		FromBranchID: p.FromBranchID,
		Name:         p.Name,
	})
	if err != nil {
		return remote.Branch{}, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return remote.Branch{}, apiErr(status, body)
	}

	var wb wireBranch
	if err := json.Unmarshal(body, &wb); err != nil {
		return remote.Branch{}, fmt.Errorf("decode created branch: %w", err)
	}
	return remote.Branch{ID: wb.ID, Name: wb.Name, Version: wb.Version, CreatedAt: wb.CreatedAt, UpdatedAt: wb.UpdatedAt}, nil
}

// GetLatestVersion returns the current version number of a branch.
func (c *Client) GetLatestVersion(ctx context.Context, valID, branchID string) (int, error) {
	q := url.Values{}
	q.Set("branch_id", branchID)

	body, status, err := c.idempotentGet(ctx, fmt.Sprintf("/vals/%s/branches/latest-version", valID), q)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, apiErr(status, body)
	}

	var decoded struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		// Some deployments return a bare integer body.
		v, convErr := strconv.Atoi(string(body))
		if convErr != nil {
			return 0, fmt.Errorf("decode latest version: %w", err)
		}
		return v, nil
	}
	return decoded.Version, nil
}
