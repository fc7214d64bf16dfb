package acquisition

import (
	"io"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// DefaultLinkLabel is the accessible label of the download anchors on the
// PRF open-data page.
const DefaultLinkLabel = "Clique aqui para baixar"

// LinkDescriptor is one download affordance found on the listing page.
type LinkDescriptor struct {
	Label    string
	OpaqueID string
	Href     string
}

// Catalog extracts download descriptors from a listing page.
type Catalog struct {
	label string
}

// NewCatalog returns a catalog matching anchors labelled label.
func NewCatalog(label string) *Catalog {
	if label == "" {
		label = DefaultLinkLabel
	}
	return &Catalog{label: label}
}

// Discover returns the matching anchors in document order. Unparseable or
// empty input yields no descriptors.
func (c *Catalog) Discover(page io.Reader) []LinkDescriptor {
	doc, err := html.Parse(page)
	if err != nil {
		return nil
	}

	var links []LinkDescriptor
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			label := accessibleLabel(n)
			href := getAttr(n, "href")
			if label == c.label && href != "" {
				links = append(links, LinkDescriptor{
					Label:    label,
					OpaqueID: OpaqueID(href),
					Href:     href,
				})
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return links
}

func accessibleLabel(n *html.Node) string {
	if title := strings.TrimSpace(getAttr(n, "title")); title != "" {
		return title
	}
	return strings.TrimSpace(getAttr(n, "aria-label"))
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// OpaqueID derives the file id from a share link: the segment after "/d/",
// else the "id" query parameter, else the third-from-last path segment.
func OpaqueID(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+1 < len(segments); i++ {
		if segments[i] == "d" && segments[i+1] != "" {
			return segments[i+1]
		}
	}
	if id := u.Query().Get("id"); id != "" {
		return id
	}
	if len(segments) >= 3 {
		return segments[len(segments)-3]
	}
	return path.Base(u.Path)
}
