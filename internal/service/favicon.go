package service

import (
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/logger"

	"portbridge/internal/document"
	"portbridge/internal/domain"
)

// IconRel identifies the status indicator link in the page head.
const IconRel = "icon"

// FaviconHref maps a status to its icon resource.
// ok is false only for values outside the declared enumeration.
func FaviconHref(status domain.FaviconStatus) (href string, ok bool) {
	switch status {
	case domain.FaviconPlay:
		return "/play.ico", true
	case domain.FaviconStop:
		return "/stop.ico", true
	default:
		return "", false
	}
}

// Favicon keeps exactly one status indicator link pointed at the last status.
type Favicon struct {
	doc document.Document
	log logger.Logger
}

// NewFavicon creates a Favicon handler over doc.
func NewFavicon(doc document.Document, log logger.Logger) *Favicon {
	return &Favicon{doc: doc, log: log}
}

// SetFavicon points the indicator at status, creating the link on first use.
func (f *Favicon) SetFavicon(status domain.FaviconStatus) {
	href, ok := FaviconHref(status)
	if !ok {
		f.log.Warning(fmt.Sprintf("[favicon] ignoring unknown status %v", status))
		return
	}

	link, found := f.doc.FindLink(IconRel)
	if !found {
		link = f.doc.AppendLink(IconRel)
	}
	link.SetHref(href)
}
