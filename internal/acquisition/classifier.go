package acquisition

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/dataset"
)

// DefaultCutoffYear is the oldest year still acquired.
const DefaultCutoffYear = 2017

const (
	occurrencesMarker = "datatran"
	accidentsMarker   = "acidentes"
	causesMarker      = "_todas_causas_tipos"
)

// Outcome tags a classification result.
type Outcome int

const (
	// Ignored means the name matched no dataset pattern.
	Ignored Outcome = iota
	// Classified means the entry belongs to a dataset at or after the cutoff.
	Classified
	// CutoffReached means the entry is older than the cutoff year and
	// acquisition is complete.
	CutoffReached
)

func (o Outcome) String() string {
	switch o {
	case Classified:
		return "classified"
	case CutoffReached:
		return "cutoff_reached"
	}
	return "ignored"
}

// Classification is the result of classifying one entry name.
type Classification struct {
	Outcome       Outcome
	Category      dataset.Category
	Year          int
	CanonicalName string
	TargetDir     string
}

// Placement says what happened to a classified entry on disk.
type Placement int

const (
	Moved Placement = iota
	DiscardedDuplicate
	AlreadyInPlace
)

// Classifier maps extracted entry names to datasets using file-name
// markers only.
type Classifier struct {
	root       string
	cutoffYear int
	logger     *logrus.Entry
}

// NewClassifier returns a classifier for entries unpacked under root.
func NewClassifier(root string, cutoffYear int) *Classifier {
	if cutoffYear == 0 {
		cutoffYear = DefaultCutoffYear
	}
	return &Classifier{
		root:       root,
		cutoffYear: cutoffYear,
		logger:     logrus.WithField("component", "classifier"),
	}
}

// CategoryDir returns the directory holding a category's canonical files.
func (c *Classifier) CategoryDir(cat dataset.Category) string {
	return filepath.Join(c.root, dataset.Lookup(cat).Suffix)
}

// Classify inspects name. Markers are tried in priority order and the first
// match wins; the year is the four characters right after the primary marker.
func (c *Classifier) Classify(name string) Classification {
	var (
		cat    dataset.Category
		marker string
	)
	switch {
	case strings.Contains(name, occurrencesMarker):
		cat, marker = dataset.Occurrences, occurrencesMarker
	case strings.Contains(name, accidentsMarker) && strings.Contains(name, causesMarker):
		cat, marker = dataset.Causes, accidentsMarker
	case strings.Contains(name, accidentsMarker):
		cat, marker = dataset.People, accidentsMarker
	default:
		return Classification{Outcome: Ignored}
	}

	year, ok := yearAfter(name, marker)
	if !ok {
		return Classification{Outcome: Ignored}
	}
	if year < c.cutoffYear {
		return Classification{Outcome: CutoffReached, Category: cat, Year: year}
	}

	return Classification{
		Outcome:       Classified,
		Category:      cat,
		Year:          year,
		CanonicalName: dataset.Lookup(cat).CanonicalName(year),
		TargetDir:     c.CategoryDir(cat),
	}
}

func yearAfter(name, marker string) (int, bool) {
	rest := name[strings.Index(name, marker)+len(marker):]
	if len(rest) < 4 {
		return 0, false
	}
	digits := rest[:4]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	year, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return year, true
}

// Place moves an extracted entry to its canonical location. When the target
// already exists the fresh entry is deleted instead.
func (c *Classifier) Place(name string, cls Classification) (Placement, error) {
	oldPath := filepath.Join(c.root, filepath.FromSlash(name))
	newPath := filepath.Join(cls.TargetDir, cls.CanonicalName)
	if filepath.Clean(oldPath) == filepath.Clean(newPath) {
		return AlreadyInPlace, nil
	}

	if _, err := os.Stat(newPath); err == nil {
		if err := os.Remove(oldPath); err != nil {
			return 0, errors.Wrapf(err, "remove duplicate %s", oldPath)
		}
		c.logger.WithField("file", newPath).Warn("File already exists and will be ignored")
		return DiscardedDuplicate, nil
	} else if !os.IsNotExist(err) {
		return 0, errors.Wrapf(err, "stat %s", newPath)
	}

	if err := os.MkdirAll(cls.TargetDir, 0o755); err != nil {
		return 0, errors.Wrapf(err, "create directory %s", cls.TargetDir)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return 0, errors.Wrapf(err, "rename %s", oldPath)
	}
	c.logger.WithFields(logrus.Fields{"from": oldPath, "to": newPath}).Info("File renamed")
	return Moved, nil
}

// Discard deletes an extracted entry that must never reach the raw tier.
func (c *Classifier) Discard(name string) error {
	path := filepath.Join(c.root, filepath.FromSlash(name))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove %s", path)
	}
	return nil
}
