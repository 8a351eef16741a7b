package sales

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a sale with the given ID is not found.
var ErrNotFound = errors.New("sale not found")

// ErrEmptyID is returned when an operation is given an empty sale ID.
var ErrEmptyID = errors.New("empty sale ID")

// Storage is the persistence contract for sales. The store assigns ID
// and CreatedAt on insert; UpdateStatus touches only the status column
// and must report a miss instead of silently ignoring it.
type Storage interface {
	Insert(sale *Sale) error
	UpdateStatus(id string, status Status) error
	GetAll() ([]*Sale, error)
}

// LocalStorage provides an in-memory implementation for storing sales.
type LocalStorage struct {
	mu sync.RWMutex
	m  map[string]*Sale
}

// NewLocalStorage instantiates a new LocalStorage with an empty map.
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{
		m: map[string]*Sale{},
	}
}

// Insert stores the sale, assigning its ID and creation timestamp.
func (l *LocalStorage) Insert(sale *Sale) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	sale.ID = uuid.NewString()
	sale.CreatedAt = time.Now()
	stored := *sale
	l.m[sale.ID] = &stored
	return nil
}

// UpdateStatus sets the status of the sale matching id.
// Returns ErrNotFound if no such sale exists.
func (l *LocalStorage) UpdateStatus(id string, status Status) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.m[id]
	if !ok {
		return ErrNotFound
	}
	s.Status = status
	return nil
}

// GetAll retrieves all sales from the local storage.
func (l *LocalStorage) GetAll() ([]*Sale, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Sale, 0, len(l.m))
	for _, s := range l.m {
		copied := *s
		out = append(out, &copied)
	}
	return out, nil
}

var _ Storage = (*LocalStorage)(nil)
