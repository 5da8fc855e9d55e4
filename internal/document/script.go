package document

import (
	"encoding/json"
	"fmt"
	"sync"
)

// ScriptRunner evaluates JavaScript in the live page.
type ScriptRunner func(js string)

// ScriptDocument keeps an HTMLDocument mirror of the live page and replays
// every mutation into it through a ScriptRunner. Queries are answered from the
// mirror because script evaluation is fire-and-forget.
type ScriptDocument struct {
	run ScriptRunner

	mu     sync.Mutex
	mirror *HTMLDocument
}

// NewScriptDocument wraps mirror, which should start as the page the
// webview loaded.
func NewScriptDocument(mirror *HTMLDocument, run ScriptRunner) *ScriptDocument {
	return &ScriptDocument{run: run, mirror: mirror}
}

// Reset replaces the mirror after the live page reloaded.
func (d *ScriptDocument) Reset(mirror *HTMLDocument) {
	d.mu.Lock()
	d.mirror = mirror
	d.mu.Unlock()
}

// Mirror returns the current mirror.
func (d *ScriptDocument) Mirror() *HTMLDocument {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mirror
}

func (d *ScriptDocument) FindLink(rel string) (Link, bool) {
	l, ok := d.Mirror().FindLink(rel)
	if !ok {
		return nil, false
	}
	return &scriptLink{Link: l, rel: rel, run: d.run}, true
}

func (d *ScriptDocument) AppendLink(rel string) Link {
	l := d.Mirror().AppendLink(rel)
	// The live page may already have one (e.g. after a reload the mirror
	// missed); reuse it rather than adding a second.
	d.run(fmt.Sprintf(
		`(function(){if(!document.querySelector(%s)){var l=document.createElement("link");l.rel=%s;document.head.appendChild(l);}})();`,
		jsString(relSelector(rel)), jsString(rel),
	))
	return &scriptLink{Link: l, rel: rel, run: d.run}
}

type scriptLink struct {
	Link
	rel string // token the link was looked up by
	run ScriptRunner
}

func (l *scriptLink) SetHref(href string) {
	l.Link.SetHref(href)
	l.run(fmt.Sprintf(
		`(function(){var l=document.querySelector(%s);if(l){l.href=%s;}})();`,
		jsString(relSelector(l.rel)), jsString(href),
	))
}

func relSelector(rel string) string {
	return fmt.Sprintf(`head link[rel~=%q]`, rel)
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}
