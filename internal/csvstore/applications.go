package csvstore

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"jobtrack.local/internal/domain"
)

func (s *Store) Add(ctx context.Context, in domain.NewApplication) (domain.Application, error) {
	if err := ctx.Err(); err != nil {
		return domain.Application{}, err
	}
	in, err := in.Normalize(s.today())
	if err != nil {
		return domain.Application{}, err
	}
	apps, err := s.load()
	if err != nil {
		return domain.Application{}, err
	}

	app := domain.Application{
		ID:            nextID(apps),
		CompanyName:   in.CompanyName,
		PositionTitle: in.PositionTitle,
		DateApplied:   s.dateOnly(in.DateApplied),
		Status:        in.Status,
	}
	if err := s.save(append(apps, app)); err != nil {
		return domain.Application{}, err
	}
	s.log.Info("application added", "id", app.ID, "company", app.CompanyName)
	return app, nil
}

func nextID(apps []domain.Application) int64 {
	var highest int64
	for _, a := range apps {
		highest = max(highest, a.ID)
	}
	return highest + 1
}

// List returns applications ordered by id.
func (s *Store) List(ctx context.Context) ([]domain.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	apps, err := s.load()
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(apps, func(a, b domain.Application) int { return cmp.Compare(a.ID, b.ID) })
	return apps, nil
}

func (s *Store) Get(ctx context.Context, id int64) (domain.Application, error) {
	if err := ctx.Err(); err != nil {
		return domain.Application{}, err
	}
	apps, err := s.load()
	if err != nil {
		return domain.Application{}, err
	}
	i := slices.IndexFunc(apps, func(a domain.Application) bool { return a.ID == id })
	if i < 0 {
		return domain.Application{}, domain.ErrNotFound
	}
	return apps[i], nil
}

func (s *Store) UpdateStatus(ctx context.Context, id int64, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	status, err := domain.RequireText("status", status)
	if err != nil {
		return err
	}
	apps, err := s.load()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(apps, func(a domain.Application) bool { return a.ID == id })
	if i < 0 {
		return domain.ErrNotFound
	}
	apps[i].Status = status
	if err := s.save(apps); err != nil {
		return err
	}
	s.log.Info("application status updated", "id", id, "status", status)
	return nil
}

// Delete removes the record with id and compacts the ids above it according
// to the store's renumber policy. The file is untouched when id is absent.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	apps, err := s.load()
	if err != nil {
		return err
	}
	remaining, ok := deleteAndRenumber(apps, id, s.policy)
	if !ok {
		return domain.ErrNotFound
	}
	if err := s.save(remaining); err != nil {
		return err
	}
	s.log.Info("application deleted", "id", id, "remaining", len(remaining))
	return nil
}

func deleteAndRenumber(apps []domain.Application, id int64, policy RenumberPolicy) ([]domain.Application, bool) {
	before := len(apps)
	remaining := slices.DeleteFunc(slices.Clone(apps), func(a domain.Application) bool { return a.ID == id })
	if len(remaining) == before {
		return apps, false
	}
	if policy == RenumberLegacy && id == int64(before) {
		return remaining, true
	}
	for i := range remaining {
		if remaining[i].ID > id {
			remaining[i].ID--
		}
	}
	return remaining, true
}

// SearchByCompany matches a case-insensitive substring of the company name,
// newest application first.
func (s *Store) SearchByCompany(ctx context.Context, query string) ([]domain.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query, err := domain.RequireText("company", query)
	if err != nil {
		return nil, err
	}
	apps, err := s.load()
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(query)
	matches := slices.DeleteFunc(apps, func(a domain.Application) bool {
		return !strings.Contains(strings.ToLower(a.CompanyName), needle)
	})
	slices.SortStableFunc(matches, func(a, b domain.Application) int {
		if c := b.DateApplied.Compare(a.DateApplied); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return matches, nil
}

func (s *Store) Stats(ctx context.Context, since time.Time) (domain.Stats, error) {
	if err := ctx.Err(); err != nil {
		return domain.Stats{}, err
	}
	apps, err := s.load()
	if err != nil {
		return domain.Stats{}, err
	}
	stats := domain.Stats{Total: len(apps), ByStatus: make(map[string]int)}
	for _, a := range apps {
		stats.ByStatus[a.Status]++
		if !a.DateApplied.Before(since) {
			stats.Recent++
		}
	}
	return stats, nil
}
