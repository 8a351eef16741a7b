// Package supabase implements the sales storage contract against a
// hosted Supabase project over its PostgREST API.
package supabase

import (
	"fmt"
	"time"

	"resty.dev/v3"

	"sales_tracker/internal/sales"
)

const (
	salesEndpoint = "/rest/v1/sales"
	dateLayout    = "2006-01-02"
)

// Config holds the project endpoint and API key.
type Config struct {
	URL    string
	APIKey string
}

// saleRecord is the wire shape of a sales row in PostgREST responses.
// install_date is a bare date column, so it travels as a string.
type saleRecord struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Number      string    `json:"number"`
	InstallDate string    `json:"install_date"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	UserID      string    `json:"user_id"`
}

func (r *saleRecord) toDomain() (*sales.Sale, error) {
	installDate, err := time.Parse(dateLayout, r.InstallDate)
	if err != nil {
		return nil, fmt.Errorf("malformed install_date %q: %w", r.InstallDate, err)
	}
	return &sales.Sale{
		ID:          r.ID,
		Name:        r.Name,
		Number:      r.Number,
		InstallDate: installDate,
		Status:      sales.Status(r.Status),
		CreatedAt:   r.CreatedAt,
		UserID:      r.UserID,
	}, nil
}

// Store is a Supabase-backed sales.Storage.
type Store struct {
	client *resty.Client
}

// New builds a client for the given project. The key is sent both as
// the apikey header and as the bearer token, the way the hosted API
// expects service-role access.
func New(cfg Config) *Store {
	client := resty.New().
		SetBaseURL(cfg.URL).
		SetHeader("apikey", cfg.APIKey).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &Store{client: client}
}

// Insert posts a new row and reads back the representation to pick up
// the store-assigned id and created_at.
func (s *Store) Insert(sale *sales.Sale) error {
	body := []saleRecord{{
		Name:        sale.Name,
		Number:      sale.Number,
		InstallDate: sale.InstallDate.Format(dateLayout),
		Status:      string(sale.Status),
		UserID:      sale.UserID,
	}}

	var created []saleRecord
	res, err := s.client.R().
		SetHeader("Prefer", "return=representation").
		SetBody(body).
		SetResult(&created).
		Post(salesEndpoint)
	if err != nil {
		return fmt.Errorf("supabase insert request failed: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("supabase insert failed: %s", res.Status())
	}
	if len(created) != 1 {
		return fmt.Errorf("supabase insert returned %d rows, want 1", len(created))
	}

	sale.ID = created[0].ID
	sale.CreatedAt = created[0].CreatedAt
	return nil
}

// UpdateStatus patches exactly the status column of the matching row.
// An empty representation means the id matched nothing.
func (s *Store) UpdateStatus(id string, status sales.Status) error {
	var updated []saleRecord
	res, err := s.client.R().
		SetHeader("Prefer", "return=representation").
		SetQueryParam("id", "eq."+id).
		SetBody(map[string]string{"status": string(status)}).
		SetResult(&updated).
		Patch(salesEndpoint)
	if err != nil {
		return fmt.Errorf("supabase update request failed: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("supabase update failed: %s", res.Status())
	}
	if len(updated) == 0 {
		return sales.ErrNotFound
	}
	return nil
}

// GetAll selects every sales row, newest first.
func (s *Store) GetAll() ([]*sales.Sale, error) {
	var records []saleRecord
	res, err := s.client.R().
		SetQueryParam("select", "*").
		SetQueryParam("order", "created_at.desc").
		SetResult(&records).
		Get(salesEndpoint)
	if err != nil {
		return nil, fmt.Errorf("supabase select request failed: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("supabase select failed: %s", res.Status())
	}

	out := make([]*sales.Sale, 0, len(records))
	for i := range records {
		sale, err := records[i].toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, sale)
	}
	return out, nil
}

var _ sales.Storage = (*Store)(nil)
