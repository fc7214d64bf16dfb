package acquisition

import (
	"archive/zip"
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func makeZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// fakePortal serves a listing page and zip archives keyed by opaque id.
type fakePortal struct {
	*httptest.Server
	mu       sync.Mutex
	archives map[string][]byte
	order    []string
	requests []string
	status   map[string]int
}

func newFakePortal(t *testing.T) *fakePortal {
	p := &fakePortal{archives: map[string][]byte{}, status: map[string]int{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/listing", func(w http.ResponseWriter, r *http.Request) {
		var sb strings.Builder
		sb.WriteString("<html><body><ul>")
		for _, id := range p.order {
			fmt.Fprintf(&sb, `<li><a title="%s" href="%s/file/d/%s/view?usp=sharing">%s</a></li>`, DefaultLinkLabel, p.URL, id, id)
		}
		sb.WriteString("</ul></body></html>")
		w.Write([]byte(sb.String()))
	})
	mux.HandleFunc("/uc", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		p.mu.Lock()
		p.requests = append(p.requests, id)
		status, hasStatus := p.status[id]
		body, ok := p.archives[id]
		p.mu.Unlock()
		if hasStatus {
			w.WriteHeader(status)
			return
		}
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(body)
	})
	p.Server = httptest.NewServer(mux)
	t.Cleanup(p.Close)
	return p
}

func (p *fakePortal) add(id string, archive []byte) {
	p.order = append(p.order, id)
	p.archives[id] = archive
}

func (p *fakePortal) downloadTemplate() string {
	return p.URL + "/uc?id=%s&export=download"
}

func (p *fakePortal) requested() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.requests...)
}
