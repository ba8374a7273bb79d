package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"jobtrack.local/internal/domain"
)

func (s *Store) Add(ctx context.Context, in domain.NewApplication) (domain.Application, error) {
	now := s.timestamp()
	in, err := in.Normalize(now)
	if err != nil {
		return domain.Application{}, err
	}

	row := application{
		CompanyName:   in.CompanyName,
		PositionTitle: in.PositionTitle,
		DateApplied:   in.DateApplied.UTC().Truncate(time.Second),
		Status:        in.Status,
		LastUpdated:   now,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&row).Error
	})
	if err != nil {
		return domain.Application{}, s.fail("add application", err)
	}
	s.log.Info("application added", "id", row.ID, "company", row.CompanyName)
	return row.toDomain(), nil
}

func (s *Store) List(ctx context.Context) ([]domain.Application, error) {
	var rows []application
	if err := s.DB.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, s.fail("list applications", err)
	}
	return toDomain(rows), nil
}

func (s *Store) Get(ctx context.Context, id int64) (domain.Application, error) {
	var row application
	err := s.DB.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Application{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Application{}, s.fail("get application", err)
	}
	return row.toDomain(), nil
}

func (s *Store) UpdateStatus(ctx context.Context, id int64, status string) error {
	status, err := domain.RequireText("status", status)
	if err != nil {
		return err
	}

	var affected int64
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&application{}).Where("id = ?", id).Updates(map[string]any{
			"status":       status,
			"last_updated": s.timestamp(),
		})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return s.fail("update status", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	s.log.Info("application status updated", "id", id, "status", status)
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	var affected int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&application{}, id)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return s.fail("delete application", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	s.log.Info("application deleted", "id", id)
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchByCompany matches a case-insensitive substring of the company name,
// newest application first.
func (s *Store) SearchByCompany(ctx context.Context, query string) ([]domain.Application, error) {
	query, err := domain.RequireText("company", query)
	if err != nil {
		return nil, err
	}
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"

	var rows []application
	err = s.DB.WithContext(ctx).
		Where(`LOWER(company_name) LIKE ? ESCAPE '\'`, pattern).
		Order("date_applied DESC").
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, s.fail("search applications", err)
	}
	return toDomain(rows), nil
}

type statusCount struct {
	Status string
	Count  int
}

func (s *Store) Stats(ctx context.Context, since time.Time) (domain.Stats, error) {
	db := s.DB.WithContext(ctx)

	var total, recent int64
	if err := db.Model(&application{}).Count(&total).Error; err != nil {
		return domain.Stats{}, s.fail("count applications", err)
	}

	var counts []statusCount
	err := db.Model(&application{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&counts).Error
	if err != nil {
		return domain.Stats{}, s.fail("group by status", err)
	}

	err = db.Model(&application{}).Where("date_applied >= ?", since.UTC()).Count(&recent).Error
	if err != nil {
		return domain.Stats{}, s.fail("count recent applications", err)
	}

	stats := domain.Stats{Total: int(total), ByStatus: make(map[string]int, len(counts)), Recent: int(recent)}
	for _, c := range counts {
		stats.ByStatus[c.Status] = c.Count
	}
	return stats, nil
}

func toDomain(rows []application) []domain.Application {
	out := make([]domain.Application, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}
