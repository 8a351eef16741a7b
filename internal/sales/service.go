package sales

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"go.uber.org/zap"
)

// ErrInvalidStatus is returned for a status outside the four pipeline values.
var ErrInvalidStatus = errors.New("invalid status value")

// ErrValidation is returned when sale input fails shape validation.
var ErrValidation = errors.New("invalid sale input")

// ErrUnauthenticated is returned when no authenticated user context exists.
var ErrUnauthenticated = errors.New("no user is logged in")

// ErrDataAccess wraps failures of the remote storage backend.
var ErrDataAccess = errors.New("sales storage unavailable")

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// Service provides high-level sales management operations on a Storage backend.
type Service struct {
	storage Storage
	logger  *zap.Logger
	now     func() time.Time
}

// ListMetadata summarizes a list result by pipeline status.
type ListMetadata struct {
	Quantity  int `json:"quantity"`
	NotCalled int `json:"not_called"`
	Called    int `json:"called"`
	Installed int `json:"installed"`
	Annulled  int `json:"annulled"`
}

// NewService creates a new Service.
func NewService(storage Storage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// CreateSale validates the input and inserts a new sale owned by userID.
// Status is always StatusNotCalled on creation. The install date may be
// equal to the current moment but not strictly before it.
func (s *Service) CreateSale(name, number string, installDate time.Time, userID string) (*Sale, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if name == "" || number == "" || installDate.IsZero() {
		return nil, fmt.Errorf("%w: all fields must be filled out", ErrValidation)
	}
	if !phonePattern.MatchString(number) {
		return nil, fmt.Errorf("%w: phone number must be exactly 10 digits", ErrValidation)
	}
	if installDate.Before(s.now()) {
		return nil, fmt.Errorf("%w: install date cannot be in the past", ErrValidation)
	}

	sale := &Sale{
		Name:        name,
		Number:      number,
		InstallDate: installDate,
		Status:      StatusNotCalled,
		UserID:      userID,
	}

	if err := s.storage.Insert(sale); err != nil {
		s.logger.Error("failed to save sale", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrDataAccess, err)
	}

	s.logger.Info("sale created", zap.String("sale_id", sale.ID), zap.String("user_id", userID))
	return sale, nil
}

// ListSales fetches every sale from storage, newest first. The full list
// is returned regardless of owning user; a storage failure is surfaced,
// never reported as an empty result.
func (s *Service) ListSales() ([]*Sale, error) {
	all, err := s.storage.GetAll()
	if err != nil {
		s.logger.Error("failed to get all sales from storage", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrDataAccess, err)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

// SearchSales lists sales with optional user and status filters, plus
// per-status counts over the filtered result. Empty filters match all.
func (s *Service) SearchSales(userID, status string) ([]*Sale, ListMetadata, error) {
	var parsedStatus Status
	if status != "" {
		var err error
		parsedStatus, err = ParseStatus(status)
		if err != nil {
			s.logger.Warn("invalid status filter provided", zap.String("status_filter", status))
			return nil, ListMetadata{}, err
		}
	}

	all, err := s.ListSales()
	if err != nil {
		return nil, ListMetadata{}, err
	}

	filtered := make([]*Sale, 0, len(all))
	metadata := ListMetadata{}

	for _, sale := range all {
		if userID != "" && sale.UserID != userID {
			continue
		}
		if status != "" && sale.Status != parsedStatus {
			continue
		}

		filtered = append(filtered, sale)

		metadata.Quantity++
		switch sale.Status {
		case StatusNotCalled:
			metadata.NotCalled++
		case StatusCalled:
			metadata.Called++
		case StatusInstalled:
			metadata.Installed++
		case StatusAnnulled:
			metadata.Annulled++
		}
	}

	s.logger.Info("sales search completed",
		zap.String("user_id_filter", userID),
		zap.String("status_filter", status),
		zap.Int("results_count", len(filtered)),
	)

	return filtered, metadata, nil
}

// UpdateSaleStatus sets the status of the sale matching saleID. Every
// status value may move to every other one, including itself; there is
// no workflow ordering beyond the fixed initial state at creation.
func (s *Service) UpdateSaleStatus(saleID, newStatus string) error {
	parsed, err := ParseStatus(newStatus)
	if err != nil {
		return err
	}
	if saleID == "" {
		return ErrEmptyID
	}

	if err := s.storage.UpdateStatus(saleID, parsed); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		s.logger.Error("failed to update sale status", zap.String("sale_id", saleID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrDataAccess, err)
	}

	s.logger.Info("sale status updated", zap.String("sale_id", saleID), zap.String("status", newStatus))
	return nil
}

// ApplyStatusPatch returns a copy of snapshot with the matching sale's
// status replaced. It never touches storage; callers pair it with a
// successful UpdateSaleStatus to echo the change into a locally held
// list without re-fetching.
func ApplyStatusPatch(snapshot []*Sale, saleID string, status Status) []*Sale {
	patched := make([]*Sale, len(snapshot))
	for i, sale := range snapshot {
		if sale.ID == saleID {
			copied := *sale
			copied.Status = status
			patched[i] = &copied
			continue
		}
		patched[i] = sale
	}
	return patched
}
