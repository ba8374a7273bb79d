package cli

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"
	"time"

	"jobtrack.local/internal/domain"
)

func (m *Menu) handleAdd(ctx context.Context) error {
	fmt.Fprintln(m.out, "\n--- Add New Application ---")

	company, err := m.promptText(ctx, "Company name: ", "company_name")
	if err != nil {
		return err
	}
	position, err := m.promptText(ctx, "Position title: ", "position_title")
	if err != nil {
		return err
	}
	date, err := m.promptDate(ctx, `Date applied (YYYY-MM-DD) or press "Enter" for today: `)
	if err != nil {
		return err
	}

	status := domain.StatusApplied
	if m.variant == Relational {
		m.printStatuses()
		status, err = promptUntil(ctx, m, "Status (press Enter for 'Applied'): ", domain.ParseOptionalStatus)
		if err != nil {
			return err
		}
	}

	app, err := m.repo.Add(ctx, domain.NewApplication{
		CompanyName:   company,
		PositionTitle: position,
		DateApplied:   date,
		Status:        status,
	})
	if err != nil {
		m.reportFailure("add application", 0, err)
		return nil
	}
	fmt.Fprintf(m.out, "Application added successfully with ID: %d\n", app.ID)
	m.mirrorApplication(ctx, app)
	return nil
}

func (m *Menu) mirrorApplication(ctx context.Context, app domain.Application) {
	if m.mirror == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	pageID, err := m.mirror.PushApplication(ctx, app)
	if err != nil {
		m.log.Warn("notion mirror failed", "id", app.ID, "err", err)
		return
	}
	m.log.Info("notion page created", "id", app.ID, "page_id", pageID)

	if l, ok := m.repo.(pageLinker); ok {
		if err := l.SaveNotionPageID(ctx, app.ID, pageID); err != nil {
			m.log.Warn("save notion page id failed", "id", app.ID, "err", err)
		}
	}
}

func (m *Menu) handleView(ctx context.Context) error {
	fmt.Fprintln(m.out, "\n--- All Applications ---")
	_, err := m.showAll(ctx)
	return err
}

// showAll prints every application and reports whether there were any.
func (m *Menu) showAll(ctx context.Context) (bool, error) {
	apps, err := m.repo.List(ctx)
	if err != nil {
		m.reportFailure("read applications", 0, err)
		return false, nil
	}
	m.printApplications(apps)
	return len(apps) > 0, nil
}

func (m *Menu) handleUpdateStatus(ctx context.Context) error {
	fmt.Fprintln(m.out, "\n--- Update Application Status ---")
	if found, err := m.showAll(ctx); err != nil || !found {
		return err
	}

	id, err := m.promptID(ctx, "\nEnter application ID to update: ")
	if err != nil {
		return err
	}
	app, err := m.repo.Get(ctx, id)
	if err != nil {
		m.reportFailure("update status", id, err)
		return nil
	}

	fmt.Fprintf(m.out, "\nCurrent status for %s - %s: %s\n", app.CompanyName, app.PositionTitle, app.Status)
	m.printStatuses()
	fmt.Fprintln(m.out, "  Or type a custom status")
	status, err := promptUntil(ctx, m, "New status: ", domain.ParseStatus)
	if err != nil {
		return err
	}

	if err := m.repo.UpdateStatus(ctx, id, status); err != nil {
		m.reportFailure("update status", id, err)
		return nil
	}
	fmt.Fprintf(m.out, "Application %d status updated to: %s\n", id, status)
	return nil
}

func (m *Menu) handleDelete(ctx context.Context) error {
	fmt.Fprintln(m.out, "\n--- Delete Application ---")
	if found, err := m.showAll(ctx); err != nil || !found {
		return err
	}

	id, err := m.promptID(ctx, "\nEnter application ID to delete: ")
	if err != nil {
		return err
	}
	app, err := m.repo.Get(ctx, id)
	if err != nil {
		m.reportFailure("delete application", id, err)
		return nil
	}

	fmt.Fprintln(m.out, "\nApplication to delete:")
	fmt.Fprintf(m.out, "  Company: %s\n  Position: %s\n  Status: %s\n", app.CompanyName, app.PositionTitle, app.Status)
	ok, err := m.confirm(ctx, "\nAre you sure you want to delete this application? (y/N): ")
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(m.out, "Deletion cancelled.")
		return nil
	}

	if err := m.repo.Delete(ctx, id); err != nil {
		m.reportFailure("delete application", id, err)
		return nil
	}
	fmt.Fprintf(m.out, "Application %d deleted successfully.\n", id)
	return nil
}

func (m *Menu) handleSearch(ctx context.Context) error {
	fmt.Fprintln(m.out, "\n--- Search by Company ---")
	query, err := m.promptText(ctx, "Enter company name to search for: ", "company")
	if err != nil {
		return err
	}

	apps, err := m.repo.SearchByCompany(ctx, query)
	if err != nil {
		m.reportFailure("search applications", 0, err)
		return nil
	}
	if len(apps) == 0 {
		fmt.Fprintf(m.out, "No applications found for companies matching '%s'.\n", query)
		return nil
	}
	fmt.Fprintf(m.out, "\nFound %d applications for companies matching '%s':\n", len(apps), query)
	m.printApplications(apps)
	return nil
}

func (m *Menu) handleStats(ctx context.Context) error {
	fmt.Fprintln(m.out, "\n--- Application Statistics ---")
	stats, err := m.repo.Stats(ctx, recentSince(m.now()))
	if err != nil {
		m.reportFailure("compute statistics", 0, err)
		return nil
	}

	fmt.Fprintf(m.out, "\nTotal Applications: %d\n", stats.Total)
	if len(stats.ByStatus) > 0 {
		fmt.Fprintln(m.out, "\nStatus Breakdown:")
		tw := tabwriter.NewWriter(m.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Status\tCount")
		for _, status := range slices.Sorted(maps.Keys(stats.ByStatus)) {
			fmt.Fprintf(tw, "%s\t%d\n", status, stats.ByStatus[status])
		}
		_ = tw.Flush()
	}
	fmt.Fprintf(m.out, "\nApplications in last %d days: %d\n", RecentDays, stats.Recent)
	return nil
}

// recentSince is the start of the local calendar day RecentDays before now.
func recentSince(now time.Time) time.Time {
	return domain.StartOfDay(now).AddDate(0, 0, -RecentDays)
}

// reportFailure prints a one-line message; storage errors were already
// logged by the store.
func (m *Menu) reportFailure(action string, id int64, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		fmt.Fprintf(m.out, "No application found with ID: %d\n", id)
	case domain.IsValidation(err):
		fmt.Fprintf(m.out, "Cannot %s: %v\n", action, err)
	default:
		m.log.Debug("operation failed", "action", action, "err", err)
		fmt.Fprintf(m.out, "Failed to %s. Please try again.\n", action)
	}
}
