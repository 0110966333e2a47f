package directory

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/davidleathers/caller-identity/internal/domain/errors"
	"github.com/davidleathers/caller-identity/internal/domain/identity"
	"github.com/davidleathers/caller-identity/internal/domain/values"
)

// Options controls how the contact source is read. Zero values fall back to
// the conventional "phone"/"name" headers.
type Options struct {
	PhoneColumn   string
	NameColumn    string
	DefaultRegion string
}

func (o Options) withDefaults() Options {
	if o.PhoneColumn == "" {
		o.PhoneColumn = "phone"
	}
	if o.NameColumn == "" {
		o.NameColumn = "name"
	}
	return o
}

// Index maps canonical numbers to display names. It is immutable after Load
// and therefore safe for concurrent readers; there is no write path.
type Index struct {
	entries       map[string]string
	defaultRegion string
}

// Load reads a header CSV contact source and builds the lookup index.
// Per row: both fields are trimmed, rows with an empty phone field are
// skipped, rows whose phone fails normalization are skipped silently, and
// duplicate canonical numbers resolve last-write-wins. A missing file is a
// distinct error from a file that yields zero valid rows.
func Load(path string, opts Options, logger *zap.Logger) (*Index, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewDirectoryMissingError(path)
		}
		return nil, errors.Wrap(err, "opening contacts file")
	}
	defer f.Close()

	idx, err := build(f, opts, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("contact directory loaded",
		zap.String("path", path),
		zap.Int("entries", idx.Len()),
	)
	return idx, nil
}

// LoadEntries builds an index directly from in-memory entries. Used by hosts
// that already hold normalized contacts (tests, fixtures).
func LoadEntries(entries []identity.ContactEntry, defaultRegion string) *Index {
	idx := &Index{
		entries:       make(map[string]string, len(entries)),
		defaultRegion: defaultRegion,
	}
	for _, e := range entries {
		if e.Number.IsZero() {
			continue
		}
		idx.entries[e.Number.E164()] = e.Name
	}
	return idx
}

func build(r io.Reader, opts Options, logger *zap.Logger) (*Index, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return &Index{entries: map[string]string{}, defaultRegion: opts.DefaultRegion}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading contacts header")
	}

	phoneIdx, nameIdx := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case opts.PhoneColumn:
			phoneIdx = i
		case opts.NameColumn:
			nameIdx = i
		}
	}
	if phoneIdx < 0 || nameIdx < 0 {
		return nil, errors.NewValidationError(
			"DIRECTORY_HEADER_INVALID",
			fmt.Sprintf("contacts file must contain %q and %q columns", opts.PhoneColumn, opts.NameColumn),
		)
	}

	idx := &Index{
		entries:       make(map[string]string),
		defaultRegion: opts.DefaultRegion,
	}

	skipped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading contacts row")
		}
		if phoneIdx >= len(row) || nameIdx >= len(row) {
			skipped++
			continue
		}

		rawPhone := strings.TrimSpace(row[phoneIdx])
		name := strings.TrimSpace(row[nameIdx])
		if rawPhone == "" {
			continue
		}

		number, err := values.NewCanonicalNumber(rawPhone, opts.DefaultRegion)
		if err != nil {
			// Unparseable numbers are skipped, not reported.
			skipped++
			continue
		}

		idx.entries[number.E164()] = name
	}

	if skipped > 0 {
		logger.Debug("skipped unparseable contact rows", zap.Int("count", skipped))
	}
	return idx, nil
}

// Lookup normalizes the query number and probes for an exact key match. A
// query that fails normalization yields (zero, false); a local lookup never
// fails a resolution in progress.
func (i *Index) Lookup(raw, defaultRegion string) (identity.ContactEntry, bool) {
	if defaultRegion == "" {
		defaultRegion = i.defaultRegion
	}

	number, err := values.NewCanonicalNumber(raw, defaultRegion)
	if err != nil {
		return identity.ContactEntry{}, false
	}
	return i.LookupCanonical(number)
}

// LookupCanonical probes for an exact match of an already-normalized number.
func (i *Index) LookupCanonical(number values.CanonicalNumber) (identity.ContactEntry, bool) {
	name, ok := i.entries[number.E164()]
	if !ok {
		return identity.ContactEntry{}, false
	}
	return identity.ContactEntry{Number: number, Name: name}, true
}

// Len returns the number of entries in the index.
func (i *Index) Len() int {
	return len(i.entries)
}
