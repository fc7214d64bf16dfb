// Package acquisition crawls the PRF open-data listing, downloads and
// unpacks the published archives and files each extracted CSV under its
// dataset directory with a canonical name.
//
// Archives are assumed to be listed newest first: acquisition stops at the
// first file older than the cutoff year and never visits the remaining links.
package acquisition

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/delcor027/Acidentes-ANTT-PIE/pkg/dataset"
)

// DefaultListingURL is the PRF open-data page.
const DefaultListingURL = "https://www.gov.br/prf/pt-br/acesso-a-informacao/dados-abertos/dados-abertos-da-prf"

// ErrListingUnavailable is returned when the listing page cannot be fetched.
var ErrListingUnavailable = errors.New("listing page unavailable")

// State is the controller's state.
type State int

const (
	Running State = iota
	Complete
)

func (s State) String() string {
	if s == Complete {
		return "complete"
	}
	return "running"
}

// Config holds the acquisition settings.
type Config struct {
	ListingURL          string
	LinkLabel           string
	DownloadURLTemplate string
	Root                string
	CutoffYear          int
}

// DescriptorReport records what happened to one archive.
type DescriptorReport struct {
	OpaqueID   string   `json:"opaque_id"`
	Href       string   `json:"href"`
	Entries    []string `json:"entries"`
	Placed     []string `json:"placed,omitempty"`
	Duplicates []string `json:"duplicates,omitempty"`
	Ignored    []string `json:"ignored,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

// Report summarises one acquisition run.
type Report struct {
	State       State              `json:"-"`
	CutoffYear  int                `json:"cutoff_year"`
	CutoffEntry string             `json:"cutoff_entry,omitempty"`
	Links       int                `json:"links"`
	Descriptors []DescriptorReport `json:"descriptors"`
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  time.Time          `json:"finished_at"`
}

// Placed returns the number of files moved into place.
func (r *Report) Placed() int {
	n := 0
	for _, d := range r.Descriptors {
		n += len(d.Placed)
	}
	return n
}

// Controller drives catalog, fetcher and classifier in sequence.
type Controller struct {
	client     HTTPClient
	cfg        Config
	catalog    *Catalog
	fetcher    *Fetcher
	classifier *Classifier
	state      State
	logger     *logrus.Entry
}

// NewController wires the acquisition components for cfg.
func NewController(client HTTPClient, cfg Config) *Controller {
	if cfg.ListingURL == "" {
		cfg.ListingURL = DefaultListingURL
	}
	if cfg.CutoffYear == 0 {
		cfg.CutoffYear = DefaultCutoffYear
	}
	return &Controller{
		client:     client,
		cfg:        cfg,
		catalog:    NewCatalog(cfg.LinkLabel),
		fetcher:    NewFetcher(client, cfg.DownloadURLTemplate, cfg.Root),
		classifier: NewClassifier(cfg.Root, cfg.CutoffYear),
		state:      Running,
		logger:     logrus.WithField("component", "acquisition"),
	}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Classifier returns the classifier, which also owns the directory layout.
func (c *Controller) Classifier() *Classifier {
	return c.classifier
}

// Run acquires archives until the catalog is exhausted or a file older than
// the cutoff year shows up. Only an unreachable listing page, a layout that
// cannot be created or cancellation return an error.
func (c *Controller) Run(ctx context.Context) (*Report, error) {
	report := &Report{CutoffYear: c.cfg.CutoffYear, StartedAt: time.Now()}
	defer func() {
		report.State = c.state
		report.FinishedAt = time.Now()
	}()

	if err := c.createDirectories(); err != nil {
		return report, err
	}

	links, err := c.discover(ctx)
	if err != nil {
		return report, err
	}
	report.Links = len(links)
	c.logger.WithField("links", len(links)).Info("Download links found")

	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		dr, cutoffEntry := c.processLink(ctx, link)
		report.Descriptors = append(report.Descriptors, dr)
		if cutoffEntry != "" {
			report.CutoffEntry = cutoffEntry
			c.state = Complete
			c.logger.Info("All required files downloaded")
			return report, nil
		}
	}

	c.state = Complete
	c.logger.Info("Catalog exhausted, finishing extraction")
	return report, nil
}

func (c *Controller) createDirectories() error {
	dirs := []string{c.cfg.Root}
	for _, d := range dataset.All() {
		dirs = append(dirs, c.classifier.CategoryDir(d.Category))
	}
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err == nil {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create directory %s", dir)
		}
		c.logger.WithField("dir", dir).Info("Directory created")
	}
	return nil
}

func (c *Controller) discover(ctx context.Context) ([]LinkDescriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.ListingURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create listing request")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrListingUnavailable, "%s: %v", c.cfg.ListingURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(ErrListingUnavailable, "%s returned status %d", c.cfg.ListingURL, resp.StatusCode)
	}
	return c.catalog.Discover(resp.Body), nil
}

// processLink fetches one archive and files its entries. It returns the
// name of the entry that reached the cutoff, if any.
func (c *Controller) processLink(ctx context.Context, link LinkDescriptor) (DescriptorReport, string) {
	dr := DescriptorReport{OpaqueID: link.OpaqueID, Href: link.Href}
	entries, err := c.fetcher.Fetch(ctx, link)
	if err != nil {
		dr.Errors = append(dr.Errors, err.Error())
	}
	dr.Entries = entries

	for _, name := range dr.Entries {
		cls := c.classifier.Classify(name)
		logger := c.logger.WithField("entry", name)

		switch cls.Outcome {
		case Ignored:
			logger.Debug("Entry matches no dataset, ignoring")
			dr.Ignored = append(dr.Ignored, name)

		case CutoffReached:
			if err := c.classifier.Discard(name); err != nil {
				logger.WithError(err).Error("Failed to remove entry older than the cutoff")
				dr.Errors = append(dr.Errors, err.Error())
			}
			logger.WithField("year", cls.Year).Info("Entry is older than the cutoff year")
			return dr, name

		case Classified:
			placement, err := c.classifier.Place(name, cls)
			if err != nil {
				logger.WithError(err).Error("Failed to place entry")
				dr.Errors = append(dr.Errors, err.Error())
				continue
			}
			switch placement {
			case DiscardedDuplicate:
				dr.Duplicates = append(dr.Duplicates, cls.CanonicalName)
			default:
				dr.Placed = append(dr.Placed, cls.CanonicalName)
			}
		}
	}
	return dr, ""
}
