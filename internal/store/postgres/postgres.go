// Package postgres implements the sales storage contract on a Postgres
// database via GORM.
package postgres

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sales_tracker/internal/sales"
)

// Config defines connection and pool settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN produces the Postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.Host,
		c.User,
		c.Password,
		c.DBName,
		c.Port,
		c.SSLMode,
	)
}

// saleRow maps the sales table.
type saleRow struct {
	ID          string    `gorm:"primaryKey;type:uuid"`
	Name        string    `gorm:"column:name"`
	Number      string    `gorm:"column:number"`
	InstallDate time.Time `gorm:"column:install_date;type:date"`
	Status      string    `gorm:"column:status"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UserID      string    `gorm:"column:user_id"`
}

func (*saleRow) TableName() string {
	return "sales"
}

func (r *saleRow) toDomain() *sales.Sale {
	return &sales.Sale{
		ID:          r.ID,
		Name:        r.Name,
		Number:      r.Number,
		InstallDate: r.InstallDate,
		Status:      sales.Status(r.Status),
		CreatedAt:   r.CreatedAt,
		UserID:      r.UserID,
	}
}

// Store is a Postgres-backed sales.Storage.
type Store struct {
	db *gorm.DB
}

// New opens a connection pool against cfg and pings it.
func New(cfg Config) (*Store, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.db: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Insert stores a new sale row, assigning its ID. CreatedAt is filled
// by GORM on create and echoed back onto the domain value.
func (s *Store) Insert(sale *sales.Sale) error {
	row := saleRow{
		ID:          uuid.NewString(),
		Name:        sale.Name,
		Number:      sale.Number,
		InstallDate: sale.InstallDate,
		Status:      string(sale.Status),
		UserID:      sale.UserID,
	}

	if err := s.db.Create(&row).Error; err != nil {
		return err
	}

	sale.ID = row.ID
	sale.CreatedAt = row.CreatedAt
	return nil
}

// UpdateStatus updates exactly the status column of the matching row.
// A zero-row update is reported as sales.ErrNotFound.
func (s *Store) UpdateStatus(id string, status sales.Status) error {
	res := s.db.Model(&saleRow{}).Where("id = ?", id).Update("status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return sales.ErrNotFound
	}
	return nil
}

// GetAll fetches every sale row, newest first.
func (s *Store) GetAll() ([]*sales.Sale, error) {
	var rows []saleRow
	if err := s.db.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]*sales.Sale, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

var _ sales.Storage = (*Store)(nil)
