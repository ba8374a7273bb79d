// Package cli is the interactive text menu shared by both binaries.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"jobtrack.local/internal/domain"
)

// Repository is the storage contract both backends satisfy.
type Repository interface {
	Add(ctx context.Context, in domain.NewApplication) (domain.Application, error)
	List(ctx context.Context) ([]domain.Application, error)
	Get(ctx context.Context, id int64) (domain.Application, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
	SearchByCompany(ctx context.Context, query string) ([]domain.Application, error)
	Stats(ctx context.Context, since time.Time) (domain.Stats, error)
}

// Mirror receives every newly added application, best effort.
type Mirror interface {
	PushApplication(ctx context.Context, app domain.Application) (string, error)
}

// pageLinker is implemented by backends that can remember mirror page IDs.
type pageLinker interface {
	SaveNotionPageID(ctx context.Context, appID int64, pageID string) error
}

type Variant int

const (
	// Relational is the full 7-item menu.
	Relational Variant = iota
	// FlatFile is the 5-item menu of the CSV program.
	FlatFile
)

// RecentDays is how many calendar days back the statistics screen counts
// recent applications, today included.
const RecentDays = 30

type Menu struct {
	repo    Repository
	variant Variant
	in      io.Reader
	lines   <-chan inputLine
	out     io.Writer
	log     *slog.Logger
	mirror  Mirror
	now     func() time.Time
}

type Option func(*Menu)

func WithLogger(l *slog.Logger) Option { return func(m *Menu) { m.log = l } }

func WithMirror(mr Mirror) Option { return func(m *Menu) { m.mirror = mr } }

func WithClock(now func() time.Time) Option { return func(m *Menu) { m.now = now } }

func New(repo Repository, variant Variant, in io.Reader, out io.Writer, opts ...Option) *Menu {
	m := &Menu{
		repo:    repo,
		variant: variant,
		in:      in,
		out:     out,
		log:     slog.Default(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

type item struct {
	label string
	run   func(context.Context) error
}

func (m *Menu) items() []item {
	items := []item{
		{"Add new application", m.handleAdd},
		{"View all applications", m.handleView},
		{"Update application status", m.handleUpdateStatus},
		{"Delete application", m.handleDelete},
	}
	if m.variant == Relational {
		items = append(items,
			item{"Search by company", m.handleSearch},
			item{"View statistics", m.handleStats},
		)
	}
	return append(items, item{"Exit", nil})
}

func (m *Menu) title() string {
	if m.variant == Relational {
		return "JOB APPLICATION TRACKER - DATABASE VERSION"
	}
	return "JOB APPLICATION TRACKER"
}

// Run loops over the menu until the user exits, input ends or ctx is done.
// Storage failures are reported and the loop continues. Run must not be
// called concurrently.
func (m *Menu) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	m.lines = readLines(m.in, stop)

	fmt.Fprintln(m.out, "Welcome to the Job Application Tracker!")
	items := m.items()

	for {
		if err := ctx.Err(); err != nil {
			return m.finish(err)
		}
		m.printMenu(items)

		choice, err := m.readLine(ctx, fmt.Sprintf("Select an option (1-%d): ", len(items)))
		if err != nil {
			return m.finish(err)
		}

		n, convErr := parseChoice(choice, len(items))
		switch {
		case convErr != nil:
			fmt.Fprintf(m.out, "Invalid option! Please choose 1-%d.\n", len(items))
		case items[n-1].run == nil:
			fmt.Fprintln(m.out, "\nThank you for using Job Application Tracker!")
			fmt.Fprintln(m.out, "Good luck with your job search!")
			return nil
		default:
			if err := items[n-1].run(ctx); err != nil {
				return m.finish(err)
			}
		}

		if _, err := m.readLine(ctx, "\nPress Enter to continue..."); err != nil {
			return m.finish(err)
		}
	}
}

func (m *Menu) printMenu(items []item) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(m.out, "\n%s\n%s\n%s\n", rule, m.title(), rule)
	for i, it := range items {
		fmt.Fprintf(m.out, "%d. %s\n", i+1, it.label)
	}
	fmt.Fprintln(m.out, strings.Repeat("-", 60))
}

func parseChoice(s string, n int) (int, error) {
	choice, err := strconv.Atoi(s)
	if err != nil || choice < 1 || choice > n {
		return 0, errors.New("invalid choice")
	}
	return choice, nil
}

// finish turns closed input or a cancelled ctx into a graceful exit. It is
// the only place the farewell is printed.
func (m *Menu) finish(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		m.goodbye()
		return nil
	}
	return err
}

func (m *Menu) goodbye() {
	fmt.Fprintln(m.out, "\n\nGoodbye!")
}
