package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack.local/internal/csvstore"
	"jobtrack.local/internal/domain"
	"jobtrack.local/internal/store"
)

var (
	quiet   = slog.New(slog.NewTextHandler(io.Discard, nil))
	fixedAt = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	clock   = func() time.Time { return fixedAt }
)

func newCSV(t *testing.T) *csvstore.Store {
	t.Helper()
	st, err := csvstore.Open(filepath.Join(t.TempDir(), "applications.csv"),
		csvstore.WithLogger(quiet), csvstore.WithClock(clock))
	require.NoError(t, err)
	return st
}

func newDB(t *testing.T, seed ...domain.NewApplication) *store.Store {
	t.Helper()
	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "jobs.db"), quiet)
	require.NoError(t, err)
	st := store.New(db, store.WithLogger(quiet), store.WithClock(clock))
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	for _, in := range seed {
		_, err := st.Add(context.Background(), in)
		require.NoError(t, err)
	}
	return st
}

func run(t *testing.T, repo Repository, variant Variant, input string, opts ...Option) string {
	t.Helper()
	var out strings.Builder
	opts = append([]Option{WithLogger(quiet), WithClock(clock)}, opts...)
	m := New(repo, variant, strings.NewReader(input), &out, opts...)
	require.NoError(t, m.Run(context.Background()))
	return out.String()
}

var seed = []domain.NewApplication{
	{CompanyName: "Acme Corp", PositionTitle: "Engineer", DateApplied: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
	{CompanyName: "Globex", PositionTitle: "Analyst", DateApplied: time.Date(2024, 4, 20, 0, 0, 0, 0, time.UTC), Status: "Offer"},
}

func TestFlatFileMenuAddAndView(t *testing.T) {
	st := newCSV(t)
	out := run(t, st, FlatFile, "1\nAcme\nEngineer\n2024-01-05\n\n2\n\n5\n")

	assert.Contains(t, out, "Select an option (1-5)")
	assert.NotContains(t, out, "Search by company")
	assert.Contains(t, out, "Application added successfully with ID: 1")
	assert.Contains(t, out, "2024-01-05")
	assert.Contains(t, out, "Thank you for using Job Application Tracker!")

	app, err := st.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Acme", app.CompanyName)
	assert.Equal(t, domain.StatusApplied, app.Status)
}

func TestAddRepromptsOnInvalidInput(t *testing.T) {
	st := newCSV(t)
	out := run(t, st, FlatFile, "1\n\nAcme\nEngineer\n05/01/2024\n2024-01-05\n\n5\n")

	assert.Contains(t, out, "Invalid company_name: cannot be empty. Please try again.")
	assert.Contains(t, out, "use YYYY-MM-DD")
	assert.Contains(t, out, "Application added successfully with ID: 1")
}

func TestAddDefaultsDateToToday(t *testing.T) {
	st := newDB(t)
	run(t, st, Relational, "1\nAcme\nEngineer\n\n\n\n7\n")

	app, err := st.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, fixedAt.Equal(app.DateApplied))
	assert.Equal(t, domain.StatusApplied, app.Status)
}

func TestAddWithNumberedStatus(t *testing.T) {
	st := newDB(t)
	run(t, st, Relational, "1\nAcme\nEngineer\n2024-02-01\n3\n\n7\n")

	app, err := st.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Phone Screen", app.Status)
}

func TestAddStatusPrompt(t *testing.T) {
	st := newDB(t)
	run(t, st, Relational, "1\nAcme\nEngineer\n2024-02-01\n   \n\n1\nGlobex\nAnalyst\n2024-02-02\nOn hold\n\n7\n")

	first, err := st.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApplied, first.Status)

	second, err := st.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "On hold", second.Status)
}

func TestAddShowsLocalCalendarDay(t *testing.T) {
	pdt := time.FixedZone("PDT", -7*60*60)
	evening := func() time.Time { return time.Date(2024, 5, 1, 20, 0, 0, 0, pdt) }

	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "jobs.db"), quiet)
	require.NoError(t, err)
	st := store.New(db, store.WithLogger(quiet), store.WithClock(evening))
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	out := run(t, st, Relational, "1\nAcme\nEngineer\n\n\n\n1\nGlobex\nAnalyst\n2024-04-30\n\n\n2\n\n7\n", WithClock(evening))

	assert.Contains(t, out, "2024-05-01")
	assert.NotContains(t, out, "2024-05-02")
	assert.Contains(t, out, "2024-04-30")

	typed, err := st.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 4, 30, 0, 0, 0, 0, pdt).Equal(typed.DateApplied))
}

func TestUpdateStatus(t *testing.T) {
	st := newDB(t, seed...)
	out := run(t, st, Relational, "3\nabc\n1\n2\n\n7\n")

	assert.Contains(t, out, "Invalid id")
	assert.Contains(t, out, "Current status for Acme Corp - Engineer: Applied")
	assert.Contains(t, out, "Application 1 status updated to: Interviewing")

	app, err := st.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Interviewing", app.Status)
}

func TestUpdateStatusUnknownID(t *testing.T) {
	st := newDB(t, seed...)
	out := run(t, st, Relational, "3\n42\n\n7\n")
	assert.Contains(t, out, "No application found with ID: 42")
}

func TestUpdateOnEmptyStoreReturnsToMenu(t *testing.T) {
	out := run(t, newCSV(t), FlatFile, "3\n\n5\n")
	assert.Contains(t, out, "No applications found.")
	assert.NotContains(t, out, "Enter application ID")
}

func TestDeleteConfirmed(t *testing.T) {
	st := newCSV(t)
	for _, in := range seed {
		_, err := st.Add(context.Background(), in)
		require.NoError(t, err)
	}

	out := run(t, st, FlatFile, "4\n1\nyes\n\n5\n")
	assert.Contains(t, out, "Company: Acme Corp")
	assert.Contains(t, out, "Application 1 deleted successfully.")

	apps, err := st.List(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, int64(1), apps[0].ID)
	assert.Equal(t, "Globex", apps[0].CompanyName)
}

func TestDeleteCancelled(t *testing.T) {
	st := newDB(t, seed...)
	out := run(t, st, Relational, "4\n2\nn\n\n7\n")
	assert.Contains(t, out, "Deletion cancelled.")

	apps, err := st.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, apps, 2)
}

func TestSearch(t *testing.T) {
	st := newDB(t, seed...)
	out := run(t, st, Relational, "5\nacme\n\n5\numbrella\n\n7\n")

	assert.Contains(t, out, "Found 1 applications for companies matching 'acme'")
	assert.Contains(t, out, "Acme Corp")
	assert.Contains(t, out, "No applications found for companies matching 'umbrella'.")
}

func TestStats(t *testing.T) {
	st := newDB(t, seed...)
	out := run(t, st, Relational, "6\n\n7\n")

	assert.Contains(t, out, "Total Applications: 2")
	assert.Contains(t, out, "Status Breakdown:")
	assert.Contains(t, out, "Offer")
	assert.Contains(t, out, "Applications in last 30 days: 1")
}

func TestStatsRecentCountsCalendarDays(t *testing.T) {
	st := newDB(t,
		domain.NewApplication{CompanyName: "Acme", PositionTitle: "Engineer", DateApplied: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		domain.NewApplication{CompanyName: "Globex", PositionTitle: "Analyst", DateApplied: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)},
	)
	out := run(t, st, Relational, "6\n\n7\n")
	assert.Contains(t, out, "Applications in last 30 days: 1")
}

func TestRecentSince(t *testing.T) {
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), recentSince(fixedAt))

	pdt := time.FixedZone("PDT", -7*60*60)
	got := recentSince(time.Date(2024, 5, 1, 20, 0, 0, 0, pdt))
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, pdt), got)
}

func TestInvalidOption(t *testing.T) {
	out := run(t, newCSV(t), FlatFile, "9\n\n6\n\n5\n")
	assert.Equal(t, 2, strings.Count(out, "Invalid option! Please choose 1-5."))
}

func TestEOFExitsGracefully(t *testing.T) {
	st := newCSV(t)
	out := run(t, st, FlatFile, "1\nAcme\n")
	assert.Equal(t, 1, strings.Count(out, "Goodbye!"))

	apps, err := st.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestCancelledContextExits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out strings.Builder
	m := New(newCSV(t), FlatFile, strings.NewReader("1\n"), &out, WithLogger(quiet))
	require.NoError(t, m.Run(ctx))
	assert.Equal(t, 1, strings.Count(out.String(), "Goodbye!"))
}

// promptWatcher records output and closes ready once a menu prompt is shown.
type promptWatcher struct {
	strings.Builder
	ready chan struct{}
	seen  bool
}

func (w *promptWatcher) Write(p []byte) (int, error) {
	n, err := w.Builder.Write(p)
	if !w.seen && strings.Contains(w.String(), "Select an option") {
		w.seen = true
		close(w.ready)
	}
	return n, err
}

func TestCancelWhileWaitingForInput(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pr, pw := io.Pipe()
	defer pw.Close()

	out := &promptWatcher{ready: make(chan struct{})}
	m := New(newCSV(t), FlatFile, pr, out, WithLogger(quiet), WithClock(clock))
	errc := make(chan error, 1)
	go func() { errc <- m.Run(ctx) }()

	select {
	case <-out.ready:
	case <-time.After(5 * time.Second):
		t.Fatal("menu never prompted")
	}
	cancel()

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 1, strings.Count(out.String(), "Goodbye!"))
}

type brokenRepo struct{ Repository }

func (brokenRepo) List(context.Context) ([]domain.Application, error) {
	return nil, domain.StorageError("list", errors.New("disk on fire"))
}

func TestStorageFailureIsReported(t *testing.T) {
	out := run(t, brokenRepo{}, FlatFile, "2\n\n5\n")
	assert.Contains(t, out, "Failed to read applications. Please try again.")
	assert.Contains(t, out, "Thank you")
}

type fakeMirror struct {
	pushed []domain.Application
	err    error
}

func (f *fakeMirror) PushApplication(_ context.Context, app domain.Application) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.pushed = append(f.pushed, app)
	return "page-1", nil
}

func TestMirrorReceivesAddedApplication(t *testing.T) {
	st := newDB(t)
	mirror := &fakeMirror{}
	run(t, st, Relational, "1\nAcme\nEngineer\n\n\n\n7\n", WithMirror(mirror))

	require.Len(t, mirror.pushed, 1)
	assert.Equal(t, "Acme", mirror.pushed[0].CompanyName)

	app, err := st.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "page-1", app.NotionPageID)
}

func TestMirrorFailureDoesNotFailAdd(t *testing.T) {
	st := newCSV(t)
	out := run(t, st, FlatFile, "1\nAcme\nEngineer\n\n\n5\n", WithMirror(&fakeMirror{err: errors.New("notion down")}))
	assert.Contains(t, out, "Application added successfully with ID: 1")
}
