package uxf

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/msummerfield/uxf/errcode"
)

const defaultHTTPTimeout = 10 * time.Second

// importKind classifies where an import source resolves from, per
// spec.md §4.4's resolution order: (a) system name, (b) URL, (c) path.
type importKind int

const (
	kindSystem importKind = iota
	kindURL
	kindFile
)

// resolver resolves "!source" import directives to ttype definitions,
// maintaining the loading-set that detects circular imports and the
// arena that caches already-resolved documents within one run (spec.md
// §4.4, §9 Design Notes).
//
// The cycle detector is a direct generalisation of the teacher's
// topologicalSort three-color DFS (schema/tsort.go): "loading" plays
// the role of that algorithm's "visiting" set, and re-entering a source
// already in "loading" raises code 580 exactly where the teacher's sort
// would abandon with an empty result.
type resolver struct {
	cache       map[string]*Uxf
	loading     map[string]bool
	loadStack   []string
	httpTimeout time.Duration
	baseDir     string
	onEvent     EventHandler
	log         *slog.Logger
}

func newResolver(opts Options) *resolver {
	timeout := opts.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &resolver{
		cache:       map[string]*Uxf{},
		loading:     map[string]bool{},
		httpTimeout: timeout,
		baseDir:     opts.BaseDir,
		onEvent:     opts.handler(),
		log:         opts.logger(),
	}
}

func classify(source string) (importKind, string) {
	if IsSystemTType(source) {
		return kindSystem, "system:" + source
	}
	if len(source) >= 7 && (source[:7] == "http://" || (len(source) >= 8 && source[:8] == "https://")) {
		return kindURL, source
	}
	return kindFile, source
}

func (r *resolver) normalize(kind importKind, source string) string {
	switch kind {
	case kindSystem:
		return "system:" + source
	case kindURL:
		return source
	default:
		path := source
		if !filepath.IsAbs(path) {
			path = filepath.Join(r.baseDir, path)
		}
		return filepath.Clean(path)
	}
}

// resolve fetches and (recursively) parses source, returning the
// ttypes it registers. selfSource is the normalised identity of the
// document doing the importing, used to detect a file importing
// itself (code 176).
func (r *resolver) resolve(source, selfSource string) (map[string]*TClass, error) {
	kind, _ := classify(source)
	norm := r.normalize(kind, source)

	if norm == selfSource {
		return nil, &Error{Code: errcode.SelfImport, Msg: fmt.Sprintf("cannot import self: %s", source)}
	}
	if r.loading[norm] {
		return nil, &Error{Code: errcode.CircularImport, Msg: fmt.Sprintf("cannot do circular imports: %s", source)}
	}
	if cached, ok := r.cache[norm]; ok {
		r.log.Debug("import cache hit", "source", norm)
		return cached.TClasses, nil
	}

	r.loading[norm] = true
	r.loadStack = append(r.loadStack, norm)
	defer func() {
		delete(r.loading, norm)
		r.loadStack = r.loadStack[:len(r.loadStack)-1]
	}()

	r.log.Debug("resolving import", "source", norm, "kind", kind)
	text, err := r.fetch(kind, norm, source)
	if err != nil {
		return nil, &Error{Code: errcode.UnreachableImport, Msg: fmt.Sprintf("cannot resolve import %s: %v", source, err)}
	}

	p := newParser(text, norm, Options{
		OnEvent:     r.onEvent,
		BaseDir:     filepath.Dir(norm),
		HTTPTimeout: r.httpTimeout,
	})
	p.shared = r // share the loading-set and cache across nested imports
	u, err := p.parseDocument()
	if err != nil {
		if e, ok := err.(*Error); ok && e.Code == errcode.CircularImport {
			return nil, e
		}
		return nil, &Error{Code: errcode.InvalidImport, Msg: fmt.Sprintf("invalid import content %s: %v", source, err)}
	}
	r.cache[norm] = u
	return u.TClasses, nil
}

func (r *resolver) fetch(kind importKind, norm, source string) (string, error) {
	switch kind {
	case kindSystem:
		return systemTTypeSources[source], nil
	case kindURL:
		return r.fetchURL(norm)
	default:
		return readFile(norm)
	}
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *resolver) fetchURL(url string) (string, error) {
	client := &http.Client{Timeout: r.httpTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("http status %d for %s", resp.StatusCode, url)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
