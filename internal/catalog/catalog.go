// Package catalog owns the currently loaded API document and answers read
// queries against it. A Service starts empty; each successful load replaces
// the whole document in one guarded swap, so readers always observe either
// the previous complete document or the new one, never a half-built state.
package catalog

import (
	"strings"
	"sync"

	"github.com/mark3labs/swagger-mcp/internal/spec"
)

// Service holds one Document at a time. The zero value is not ready; use New.
type Service struct {
	mu  sync.RWMutex
	doc *spec.Document
}

// New returns an empty Service with no document loaded.
func New() *Service { return &Service{} }

// Load publishes doc as the current document, replacing any previous one.
// Documents are immutable after normalization, so handing the pointer to
// concurrent readers is safe.
func (s *Service) Load(doc *spec.Document) {
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
}

// Current returns the loaded document and whether one is loaded.
func (s *Service) Current() (*spec.Document, bool) {
	s.mu.RLock()
	doc := s.doc
	s.mu.RUnlock()
	return doc, doc != nil
}

// ByTag returns the endpoints carrying tag, matched exactly and
// case-sensitively, in document order. The result is empty when no document
// is loaded or nothing matches.
func (s *Service) ByTag(tag string) []spec.Endpoint {
	doc, ok := s.Current()
	if !ok {
		return nil
	}
	var out []spec.Endpoint
	for _, ep := range doc.APIs {
		for _, t := range ep.Tags {
			if t == tag {
				out = append(out, ep)
				break
			}
		}
	}
	return out
}

// Search returns the endpoints whose path, method, summary, description, or
// any tag contains query, case-insensitively, in document order. An empty
// query matches every endpoint.
func (s *Service) Search(query string) []spec.Endpoint {
	doc, ok := s.Current()
	if !ok {
		return nil
	}
	q := strings.ToLower(query)
	var out []spec.Endpoint
	for _, ep := range doc.APIs {
		if endpointMatches(ep, q) {
			out = append(out, ep)
		}
	}
	return out
}

func endpointMatches(ep spec.Endpoint, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(ep.Path), q) ||
		strings.Contains(strings.ToLower(ep.Method), q) ||
		strings.Contains(strings.ToLower(ep.Summary), q) ||
		strings.Contains(strings.ToLower(ep.Description), q) {
		return true
	}
	for _, t := range ep.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// Endpoint returns the first endpoint in document order whose path matches
// exactly and whose method matches case-insensitively.
func (s *Service) Endpoint(path, method string) (spec.Endpoint, bool) {
	doc, ok := s.Current()
	if !ok {
		return spec.Endpoint{}, false
	}
	for _, ep := range doc.APIs {
		if ep.Path == path && strings.EqualFold(ep.Method, method) {
			return ep, true
		}
	}
	return spec.Endpoint{}, false
}

// SchemaByName returns the schema named name, matched exactly.
func (s *Service) SchemaByName(name string) (spec.Schema, bool) {
	doc, ok := s.Current()
	if !ok {
		return spec.Schema{}, false
	}
	for _, sc := range doc.Schemas {
		if sc.Name == name {
			return sc, true
		}
	}
	return spec.Schema{}, false
}
