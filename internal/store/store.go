package store

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"jobtrack.local/internal/domain"
)

// application is the row model for the applications table.
type application struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	CompanyName   string    `gorm:"size:200;not null"`
	PositionTitle string    `gorm:"size:200;not null"`
	DateApplied   time.Time `gorm:"index"`
	LastUpdated   time.Time
	Status        string `gorm:"size:50;not null;index"`
	NotionPageID  string `gorm:"size:64"`
}

func (application) TableName() string { return "applications" }

func (a application) toDomain() domain.Application {
	updated := a.LastUpdated
	return domain.Application{
		ID:            a.ID,
		CompanyName:   a.CompanyName,
		PositionTitle: a.PositionTitle,
		DateApplied:   a.DateApplied.UTC(),
		Status:        a.Status,
		LastUpdated:   &updated,
		NotionPageID:  a.NotionPageID,
	}
}

type Store struct {
	DB  *gorm.DB
	log *slog.Logger
	now func() time.Time
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option { return func(s *Store) { s.log = l } }

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{DB: db, log: slog.Default(), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) Migrate(ctx context.Context) error {
	if err := s.DB.WithContext(ctx).AutoMigrate(&application{}); err != nil {
		return domain.StorageError("migrate", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

// fail logs a storage failure and returns it classified.
func (s *Store) fail(op string, err error) error {
	s.log.Error("store operation failed", "op", op, "err", err)
	return domain.StorageError(op, err)
}
