package service_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portbridge/internal/document"
	"portbridge/internal/domain"
	"portbridge/internal/service"
)

func iconHref(t *testing.T, doc *document.HTMLDocument) string {
	t.Helper()
	link, ok := doc.FindLink(service.IconRel)
	require.True(t, ok, "status indicator link should exist")
	return link.Href()
}

func TestFavicon_CreatesLinkOnFirstUse(t *testing.T) {
	doc := document.New()
	f := service.NewFavicon(doc, &service.MockLogger{})

	f.SetFavicon(domain.FaviconPlay)

	assert.Equal(t, 1, doc.CountLinks(service.IconRel))
	assert.Equal(t, "/play.ico", iconHref(t, doc))
}

func TestFavicon_PlayThenStopKeepsOneLink(t *testing.T) {
	doc := document.New()
	f := service.NewFavicon(doc, &service.MockLogger{})

	f.SetFavicon(domain.FaviconPlay)
	f.SetFavicon(domain.FaviconStop)

	assert.Equal(t, 1, doc.CountLinks(service.IconRel))
	assert.Equal(t, "/stop.ico", iconHref(t, doc))
}

func TestFavicon_Idempotent(t *testing.T) {
	doc := document.New()
	f := service.NewFavicon(doc, &service.MockLogger{})

	f.SetFavicon(domain.FaviconPlay)
	before := doc.Render()
	f.SetFavicon(domain.FaviconPlay)

	assert.Equal(t, before, doc.Render())
	assert.Equal(t, 1, doc.CountLinks(service.IconRel))
}

func TestFavicon_ReusesExistingPageLink(t *testing.T) {
	doc, err := document.Parse(strings.NewReader(
		`<html><head><link rel="icon" href="/favicon.ico"></head><body></body></html>`,
	))
	require.NoError(t, err)
	f := service.NewFavicon(doc, &service.MockLogger{})

	f.SetFavicon(domain.FaviconStop)

	assert.Equal(t, 1, doc.CountLinks(service.IconRel))
	assert.Equal(t, "/stop.ico", iconHref(t, doc))
}

func TestFavicon_UnknownStatusLoggedAndIgnored(t *testing.T) {
	doc := document.New()
	log := &service.MockLogger{}
	f := service.NewFavicon(doc, log)

	f.SetFavicon(domain.FaviconStatus(99))

	assert.Equal(t, 0, doc.CountLinks(service.IconRel))
	assert.Equal(t, 1, log.Count("warning"))
	assert.Equal(t, 0, log.Count("fatal"))
}

func TestFaviconHref_CoversEveryStatus(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range domain.FaviconStatuses() {
		href, ok := service.FaviconHref(s)
		require.True(t, ok, "no icon for %s", s)
		assert.False(t, seen[href], "duplicate icon %s", href)
		seen[href] = true
	}
}
