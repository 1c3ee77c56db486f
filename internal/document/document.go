package document

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/dgallion1/kitesidebar/internal/nav"
)

// ErrNoActiveDocument is returned when a position lookup has no editor to read from.
var ErrNoActiveDocument = errors.New("no active document")

// Document is an editor buffer: where it lives and what it contains.
type Document struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// OffsetAt converts a line/character position into a rune offset.
// Positions past the end of a line or of the buffer are clamped.
func (d *Document) OffsetAt(p nav.Position) int {
	offset := 0
	lines := strings.Split(d.Text, "\n")
	for i, line := range lines {
		n := utf8.RuneCountInString(line)
		if i < p.Line {
			if i == len(lines)-1 {
				return offset + n
			}
			offset += n + 1
			continue
		}
		limit := utf8.RuneCountInString(strings.TrimSuffix(line, "\r"))
		return offset + min(max(p.Character, 0), limit)
	}
	return offset
}

// Hash is the hex MD5 of the buffer text, the key the daemon indexes buffers by.
func (d *Document) Hash() string {
	sum := md5.Sum([]byte(d.Text))
	return hex.EncodeToString(sum[:])
}

// Store holds the document currently focused in the editor.
type Store struct {
	mu  sync.RWMutex
	doc *Document
}

func NewStore() *Store {
	return &Store{}
}

// Set replaces the active document. A nil document clears it.
func (s *Store) Set(doc *Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc == nil {
		s.doc = nil
		return
	}
	cp := *doc
	s.doc = &cp
}

// ActiveDocument returns a copy of the active document.
func (s *Store) ActiveDocument(ctx context.Context) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, ErrNoActiveDocument
	}
	cp := *s.doc
	return &cp, nil
}
