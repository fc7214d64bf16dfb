package acquisition

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `<html><body>
<h2>Dados abertos</h2>
<ul>
 <li>2024 <a title="Clique aqui para baixar" href="https://drive.google.com/file/d/AAA2024/view?usp=sharing">csv</a></li>
 <li>2023 <a title="Clique aqui para baixar" href="https://drive.google.com/file/d/BBB2023/view?usp=sharing">csv</a></li>
 <li><a href="https://www.gov.br/prf">home</a></li>
 <li><a title="Outro link" href="https://drive.google.com/file/d/ZZZ/view">other</a></li>
 <li>2022 <a aria-label="Clique aqui para baixar" href="https://drive.google.com/uc?id=CCC2022&amp;export=download">csv</a></li>
</ul>
</body></html>`

func TestDiscoverFiltersByLabel(t *testing.T) {
	links := NewCatalog("").Discover(strings.NewReader(listingPage))
	require.Len(t, links, 3)
	assert.Equal(t, "AAA2024", links[0].OpaqueID)
	assert.Equal(t, "BBB2023", links[1].OpaqueID)
	assert.Equal(t, "CCC2022", links[2].OpaqueID)
	assert.Equal(t, DefaultLinkLabel, links[0].Label)
	assert.Equal(t, "https://drive.google.com/file/d/AAA2024/view?usp=sharing", links[0].Href)
}

func TestDiscoverEmpty(t *testing.T) {
	assert.Empty(t, NewCatalog("").Discover(strings.NewReader("")))
	assert.Empty(t, NewCatalog("").Discover(strings.NewReader("<p>nothing here</p>")))
}

func TestDiscoverCustomLabel(t *testing.T) {
	links := NewCatalog("Outro link").Discover(strings.NewReader(listingPage))
	require.Len(t, links, 1)
	assert.Equal(t, "ZZZ", links[0].OpaqueID)
}

func TestOpaqueID(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"https://drive.google.com/file/d/1a2b3c/view?usp=sharing", "1a2b3c"},
		{"https://drive.google.com/uc?id=xyz&export=download", "xyz"},
		{"https://example.org/files/abc/edit/now", "abc"},
		{"https://example.org/single", "single"},
	}
	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			assert.Equal(t, tt.want, OpaqueID(tt.href))
		})
	}
}
