// Package csvstore keeps applications in a single CSV file. Every read loads
// the whole file and every write rewrites it through a temp file and rename.
package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"jobtrack.local/internal/domain"
)

var Header = []string{"id", "company_name", "position_title", "date_applied", "status"}

// RenumberPolicy decides how ids are compacted after a delete.
type RenumberPolicy string

const (
	// RenumberGreater decrements every id above the deleted one.
	RenumberGreater RenumberPolicy = "greater"
	// RenumberLegacy skips renumbering when the deleted id equals the record
	// count before deletion. Only gap-free files stay gap-free under it.
	RenumberLegacy RenumberPolicy = "legacy"
)

func ParseRenumberPolicy(s string) (RenumberPolicy, error) {
	switch p := RenumberPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case RenumberGreater, RenumberLegacy:
		return p, nil
	case "":
		return RenumberGreater, nil
	default:
		return "", fmt.Errorf("unknown renumber policy %q", s)
	}
}

type Store struct {
	path   string
	policy RenumberPolicy
	log    *slog.Logger
	now    func() time.Time
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option { return func(s *Store) { s.log = l } }

func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

func WithRenumberPolicy(p RenumberPolicy) Option { return func(s *Store) { s.policy = p } }

// Open returns a store on path, creating the file with its header if it is
// missing or empty. A file with any other header is rejected.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{path: path, policy: RenumberGreater, log: slog.Default(), now: time.Now}
	for _, o := range opts {
		o(s)
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist) || (err == nil && info.Size() == 0):
		if err := s.save(nil); err != nil {
			return nil, err
		}
		s.log.Info("created applications file", "path", path)
		return s, nil
	case err != nil:
		return nil, domain.StorageError("stat csv", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, domain.StorageError("open csv", err)
	}
	defer f.Close()
	header, err := csv.NewReader(f).Read()
	if err != nil {
		return nil, domain.StorageError("read csv header", err)
	}
	if !slices.Equal(header, Header) {
		return nil, domain.StorageError("read csv header",
			fmt.Errorf("%s: unexpected header %q", path, strings.Join(header, ",")))
	}
	return s, nil
}

func (s *Store) Path() string { return s.path }

// Close is a no-op; the file is never held open between operations.
func (s *Store) Close() error { return nil }

func (s *Store) load() ([]domain.Application, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, s.fail("open csv", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Header)
	if _, err := r.Read(); err != nil {
		return nil, s.fail("read csv header", err)
	}

	var apps []domain.Application
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, s.fail("read csv", err)
		}
		line, _ := r.FieldPos(0)
		app, err := decode(rec, s.location())
		if err != nil {
			return nil, s.fail("read csv", fmt.Errorf("line %d: %w", line, err))
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// decode reads the date as a calendar day in loc.
func decode(rec []string, loc *time.Location) (domain.Application, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
	if err != nil {
		return domain.Application{}, fmt.Errorf("bad id %q", rec[0])
	}
	date, err := time.ParseInLocation(domain.DateLayout, strings.TrimSpace(rec[3]), loc)
	if err != nil {
		return domain.Application{}, fmt.Errorf("bad date %q", rec[3])
	}
	return domain.Application{
		ID:            id,
		CompanyName:   rec[1],
		PositionTitle: rec[2],
		DateApplied:   date,
		Status:        rec[4],
	}, nil
}

func encode(a domain.Application, loc *time.Location) []string {
	return []string{
		strconv.FormatInt(a.ID, 10),
		a.CompanyName,
		a.PositionTitle,
		a.DateApplied.In(loc).Format(domain.DateLayout),
		a.Status,
	}
}

// save writes header and apps to a temp file beside the target, syncs it and
// renames it over the target.
// newFileMode is used when the file does not exist yet; a rewrite keeps the
// mode of the file it replaces.
const newFileMode os.FileMode = 0o644

func (s *Store) save(apps []domain.Application) error {
	mode := newFileMode
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return s.fail("create temp csv", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(Header); err != nil {
		_ = tmp.Close()
		return s.fail("write csv", err)
	}
	for _, a := range apps {
		if err := w.Write(encode(a, s.location())); err != nil {
			_ = tmp.Close()
			return s.fail("write csv", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = tmp.Close()
		return s.fail("write csv", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return s.fail("chmod csv", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return s.fail("sync csv", err)
	}
	if err := tmp.Close(); err != nil {
		return s.fail("close csv", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return s.fail("replace csv", err)
	}
	return nil
}

func (s *Store) fail(op string, err error) error {
	s.log.Error("csv operation failed", "op", op, "path", s.path, "err", err)
	return domain.StorageError(op, err)
}

func (s *Store) location() *time.Location { return s.now().Location() }

func (s *Store) today() time.Time { return domain.StartOfDay(s.now()) }

// dateOnly drops the clock part in the clock's location; the file only keeps
// YYYY-MM-DD.
func (s *Store) dateOnly(t time.Time) time.Time {
	return domain.StartOfDay(t.In(s.location()))
}
