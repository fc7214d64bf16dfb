// Package bronze ingests classified CSV files into the raw tier unmodified.
package bronze

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"

	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/common/types"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/control"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/dataset"
	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/store"
)

// Delimiter separates fields in the published CSV files.
const Delimiter = ';'

// FileResult is the outcome of loading one file.
type FileResult struct {
	Path string
	Rows int64
	Err  error
}

// Result summarises the load of one category.
type Result struct {
	Category dataset.Category
	Table    store.TableRef
	Files    []FileResult
}

// Rows returns the number of rows appended across all files.
func (r *Result) Rows() int64 {
	var n int64
	for _, f := range r.Files {
		n += f.Rows
	}
	return n
}

// Failed returns the number of files that were skipped.
func (r *Result) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// Loader appends every CSV of a category directory to its raw table.
type Loader struct {
	store  store.Store
	root   string
	logger *logrus.Entry

	files, failed int
	rows          int64
	lastUpdated   time.Time
}

// NewLoader returns a loader reading category directories under root.
func NewLoader(st store.Store, root string) *Loader {
	return &Loader{
		store:  st,
		root:   root,
		logger: logrus.WithField("component", "bronze"),
	}
}

// WithLogger replaces the loader's logger.
func (l *Loader) WithLogger(logger *logrus.Entry) *Loader {
	l.logger = logger
	return l
}

// Files returns the CSV files of a category in lexical order.
func (l *Loader) Files(c dataset.Category) ([]string, error) {
	d := dataset.Lookup(c)
	files, err := filepath.Glob(filepath.Join(l.root, d.Suffix, "*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Load appends the category's files to its raw table and returns the
// number of rows appended. A file that cannot be parsed or appended is
// logged and skipped; only a store failure while preparing the table or
// cancellation is returned.
func (l *Loader) Load(ctx context.Context, c dataset.Category) (*Result, error) {
	d := dataset.Lookup(c)
	ref := store.TableRef{Tier: store.TierRaw, Name: d.RawTable}
	result := &Result{Category: c, Table: ref}
	logger := l.logger.WithFields(logrus.Fields{"category": c.String(), "table": ref.String()})

	files, err := l.Files(c)
	if err != nil {
		return result, fmt.Errorf("list %s files: %w", c, err)
	}
	if len(files) == 0 {
		logger.Warn("No files to load")
		return result, nil
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		batch := uuid.New().String()
		flog := logger.WithFields(logrus.Fields{"file": filepath.Base(path), "batch": batch})

		rs, err := ReadFile(path)
		if err != nil {
			flog.WithError(err).Error("Failed to parse file, skipping")
			result.Files = append(result.Files, FileResult{Path: path, Err: err})
			continue
		}

		if err := l.ensureTable(ctx, ref, rs.Columns); err != nil {
			return result, err
		}

		n, err := l.store.Append(ctx, ref, rs)
		if err != nil {
			flog.WithError(err).Error("Failed to append file, skipping")
			result.Files = append(result.Files, FileResult{Path: path, Err: err})
			continue
		}
		flog.WithField("rows", n).Info("File loaded")
		result.Files = append(result.Files, FileResult{Path: path, Rows: n})
	}

	l.record(result)
	logger.WithFields(logrus.Fields{"rows": result.Rows(), "skipped": result.Failed()}).Info("Raw load finished")
	return result, nil
}

// LoadAll loads every category in the fixed dataset order.
func (l *Loader) LoadAll(ctx context.Context) ([]*Result, error) {
	var results []*Result
	for _, d := range dataset.All() {
		r, err := l.Load(ctx, d.Category)
		results = append(results, r)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// ensureTable creates the raw table from the first file's header. Later
// files are appended positionally into the existing columns.
func (l *Loader) ensureTable(ctx context.Context, ref store.TableRef, header []string) error {
	cols, err := l.store.Columns(ctx, ref)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", ref, err)
	}
	if cols != nil {
		return nil
	}
	if err := l.store.EnsureTable(ctx, ref, header); err != nil {
		return fmt.Errorf("create %s: %w", ref, err)
	}
	l.logger.WithField("table", ref.String()).Info("Raw table created")
	return nil
}

func (l *Loader) record(r *Result) {
	l.files += len(r.Files)
	l.failed += r.Failed()
	l.rows += r.Rows()
	l.lastUpdated = time.Now()
}

// GetStats implements control.StatsProvider.
func (l *Loader) GetStats() control.ComponentStats {
	return control.ComponentStats{
		ComponentType: "stage",
		ComponentName: "bronze",
		Stats: map[string]interface{}{
			"files":         l.files,
			"files_skipped": l.failed,
			"rows":          l.rows,
		},
		LastUpdated: l.lastUpdated,
	}
}

// ReadFile parses a Latin-1 encoded, semicolon-delimited CSV file.
func ReadFile(path string) (*types.RecordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// trimHeader drops surrounding blanks and a byte order mark, which shows up
// as "ï»¿" once a UTF-8 file goes through the Latin-1 decoder.
func trimHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.TrimPrefix(h, "\u00ef\u00bb\u00bf")
	return strings.TrimSpace(h)
}

// Read parses a Latin-1 encoded, semicolon-delimited CSV stream. The first
// record is the header and must name every column once; empty cells become
// NULL.
func Read(r io.Reader) (*types.RecordSet, error) {
	cr := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	cr.Comma = Delimiter
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = trimHeader(h)
	}
	if err := store.ValidateColumns(columns); err != nil {
		return nil, fmt.Errorf("invalid header: %w", err)
	}
	rs := types.NewRecordSet(columns)

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		rs.Rows = append(rs.Rows, types.StringsToRow(record))
	}
	return rs, nil
}
