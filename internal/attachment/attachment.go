// Package attachment keeps bill images uploaded with an expense. Like the default expense
// store it lives in process memory, so attachments disappear on restart.
package attachment

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// URLPrefix is where the API serves attachments.
const URLPrefix = "/api/v1/attachments/"

var (
	ErrNotFound = errors.New("attachment not found")
	ErrNotImage = errors.New("attachment is not an image")
)

type Attachment struct {
	ID        uuid.UUID
	Data      []byte
	MIMEType  string
	CreatedAt time.Time
}

// URL is the reference stored on the expense.
func (a *Attachment) URL() string {
	return URLPrefix + a.ID.String()
}

// Extension is the file extension matching the sniffed type, including the dot.
func (a *Attachment) Extension() string {
	if m := mimetype.Lookup(a.MIMEType); m != nil {
		return m.Extension()
	}

	return ""
}

type Store struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*Attachment
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{items: make(map[uuid.UUID]*Attachment), now: time.Now}
}

// Put stores data after checking that it really is an image.
func (s *Store) Put(data []byte) (*Attachment, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, mt.String())
	}

	a := &Attachment{
		ID:        uuid.Must(uuid.NewV7()),
		Data:      append([]byte(nil), data...),
		MIMEType:  mt.String(),
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	s.items[a.ID] = a
	s.mu.Unlock()

	return a, nil
}

func (s *Store) Get(id uuid.UUID) (*Attachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}

	return a, nil
}

// Resolve looks up the attachment an expense's ImageURL points at.
func (s *Store) Resolve(url string) (*Attachment, error) {
	raw, ok := strings.CutPrefix(url, URLPrefix)
	if !ok {
		return nil, ErrNotFound
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, ErrNotFound
	}

	return s.Get(id)
}

func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

// Len reports how many attachments are held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}
