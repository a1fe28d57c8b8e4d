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

type wireItem struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type listItemsPage struct {
	Items   []wireItem `json:"items"`
	Cursor  string     `json:"cursor"`
	HasMore bool       `json:"hasMore"`
}

// ListItems returns the full, paginated item listing for (val, branch,
// version). Pagination is internal: callers always get the complete set
// (spec.md §4.2).
func (c *Client) ListItems(ctx context.Context, valID, branchID string, version int, recursive bool) ([]remote.Item, error) {
	var out []remote.Item
	cursor := ""

	for {
		q := url.Values{}
		q.Set("branch_id", branchID)
		q.Set("version", strconv.Itoa(version))
		q.Set("recursive", strconv.FormatBool(recursive))
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		body, status, err := c.idempotentGet(ctx, fmt.Sprintf("/vals/%s/items", valID), q)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, apiErr(status, body)
		}

		var page listItemsPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decode items page: %w", err)
		}

		for _, wi := range page.Items {
			out = append(out, remote.Item{
				ID:        wi.ID,
				Path:      wi.Path,
				Name:      wi.Name,
				Type:      remote.ItemType(wi.Type),
				UpdatedAt: wi.UpdatedAt,
			})
		}

		if !page.HasMore || page.Cursor == "" {
			break
		}
		cursor = page.Cursor
	}

	return out, nil
}

// FetchContent retrieves an item's raw content; callers decode as UTF-8
// when needed (spec.md §4.2).
func (c *Client) FetchContent(ctx context.Context, valID, pathOrID, branchID string, version int) ([]byte, error) {
	q := url.Values{}
	q.Set("branch_id", branchID)
	q.Set("version", strconv.Itoa(version))
	q.Set("path", pathOrID)

	body, status, err := c.idempotentGet(ctx, fmt.Sprintf("/vals/%s/content", valID), q)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apiErr(status, body)
	}
	return body, nil
}

type createItemRequest struct {
	Path     string `json:"path"`
	Type     string `json:"type"`
	Content  string `json:"content,omitempty"`
	BranchID string `json:"branchId"`
}

// CreateItem creates a file, code item, or directory. A 409 ("already
// exists") on a directory create is downgraded to success by the caller
// (internal/ops), per spec.md §7's idempotence policy — this method always
// surfaces the raw result.
func (c *Client) CreateItem(ctx context.Context, valID string, p remote.CreateItemParams) (remote.Item, error) {
	req := createItemRequest{
		Path:     p.Path,
		Type:     string(p.Type),
		BranchID: p.BranchID,
	}
	if p.Content != nil {
		req.Content = string(p.Content)
	}

	body, status, err := c.mutate(ctx, http.MethodPost, fmt.Sprintf("/vals/%s/items", valID), req)
	if err != nil {
		return remote.Item{}, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return remote.Item{}, apiErr(status, body)
	}

	var wi wireItem
	if err := json.Unmarshal(body, &wi); err != nil {
		return remote.Item{}, fmt.Errorf("decode created item: %w", err)
	}
	return remote.Item{ID: wi.ID, Path: wi.Path, Name: wi.Name, Type: remote.ItemType(wi.Type), UpdatedAt: wi.UpdatedAt}, nil
}

// updateItemRequest marshals NewParentID itself so the three ParentMove
// states map onto the wire exactly: field absent (no move), field present
// with null (move to root), field present with a string (move under id).
type updateItemRequest struct {
	Path        string          `json:"path"`
	Content     *string         `json:"content,omitempty"`
	NewName     *string         `json:"newName,omitempty"`
	NewParentID json.RawMessage `json:"newParentId,omitempty"`
	BranchID    string          `json:"branchId"`
}

// UpdateItem updates content and/or moves/renames an item.
func (c *Client) UpdateItem(ctx context.Context, valID string, p remote.UpdateItemParams) (remote.Item, error) {
	req := updateItemRequest{Path: p.Path, NewName: p.NewName, BranchID: p.BranchID}
	if p.Content != nil {
		s := string(p.Content)
		req.Content = &s
	}
	if p.NewParentID.IsSet() {
		if p.NewParentID.IsRoot() {
			req.NewParentID = json.RawMessage("null")
		} else {
			encoded, _ := json.Marshal(p.NewParentID.ID())
			req.NewParentID = encoded
		}
	}

	body, status, err := c.mutate(ctx, http.MethodPatch, fmt.Sprintf("/vals/%s/items", valID), req)
	if err != nil {
		return remote.Item{}, err
	}
	if status != http.StatusOK {
		return remote.Item{}, apiErr(status, body)
	}

	var wi wireItem
	if err := json.Unmarshal(body, &wi); err != nil {
		return remote.Item{}, fmt.Errorf("decode updated item: %w", err)
	}
	return remote.Item{ID: wi.ID, Path: wi.Path, Name: wi.Name, Type: remote.ItemType(wi.Type), UpdatedAt: wi.UpdatedAt}, nil
}

type deleteItemRequest struct {
	Path      string `json:"path"`
	BranchID  string `json:"branchId"`
	Recursive bool   `json:"recursive"`
}

// DeleteItem removes an item. A 404 on a second delete of the same path is
// downgraded to success by the caller (internal/ops), per spec.md §7.
func (c *Client) DeleteItem(ctx context.Context, valID string, p remote.DeleteItemParams) error {
	body, status, err := c.mutate(ctx, http.MethodDelete, fmt.Sprintf("/vals/%s/items", valID), deleteItemRequest{
		Path:      p.Path,
		BranchID:  p.BranchID,
		Recursive: p.Recursive,
	})
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return apiErr(status, body)
	}
	return nil
}
