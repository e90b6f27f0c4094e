// Package store owns the on-disk JSON document and serializes all mutations
// through a single writer.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/sgubproject/listd/internal/errs"
	"github.com/sgubproject/listd/internal/model"
)

// Transform maps the current document to its next state. It receives a fresh
// copy of the latest committed document and may mutate it freely; returning an
// error aborts the write.
type Transform func(*model.Document) error

type request struct {
	fn    Transform
	reply chan result
}

type result struct {
	doc *model.Document
	err error
}

// Store is the single source of truth for the document. All writes funnel
// through one goroutine, so at most one read-modify-write cycle runs at a
// time and queued callers are served strictly in submission order.
type Store struct {
	path string
	log  *zap.Logger

	reqs chan request
	wg   sync.WaitGroup
	once sync.Once
}

// New opens a store backed by the JSON file at path and starts its writer.
// Call Close to stop it.
func New(path string, log *zap.Logger) *Store {
	s := &Store{path: path, log: log, reqs: make(chan request)}
	s.wg.Add(1)
	go s.run()
	return s
}

// Close stops the writer after draining queued mutations.
func (s *Store) Close() {
	s.once.Do(func() { close(s.reqs) })
	s.wg.Wait()
}

// Initialize ensures the backing directory exists and writes a fresh empty
// document if none is present. Safe to call on every start.
func (s *Store) Initialize(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errs.Wrap(errs.Storage, "create data directory", err)
	}
	_, exists, err := s.load()
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.persist(model.NewDocument())
}

// Snapshot returns a fresh copy of the current persisted document, or the
// empty document if none exists. It does not queue behind writers, so it may
// trail an in-flight mutation.
func (s *Store) Snapshot(ctx context.Context) (*model.Document, error) {
	doc, _, err := s.load()
	return doc, err
}

// Mutate applies fn to a copy of the latest committed document and persists
// the result before returning it. Concurrent calls are served one at a time
// in submission order; a failing transform leaves the persisted state
// untouched and does not block later calls. Once enqueued, a mutation runs to
// completion regardless of ctx.
func (s *Store) Mutate(ctx context.Context, fn Transform) (*model.Document, error) {
	req := request{fn: fn, reply: make(chan result, 1)}
	select {
	case s.reqs <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	res := <-req.reply
	return res.doc, res.err
}

func (s *Store) run() {
	defer s.wg.Done()
	for req := range s.reqs {
		doc, err := s.applyOne(req.fn)
		req.reply <- result{doc: doc, err: err}
	}
}

func (s *Store) applyOne(fn Transform) (*model.Document, error) {
	doc, _, err := s.load()
	if err != nil {
		return nil, err
	}
	if err := runTransform(fn, doc); err != nil {
		return nil, err
	}
	if err := s.persist(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// runTransform recovers a panicking transform into an error so one bad
// mutation cannot take down the writer and hang every queued caller.
func runTransform(fn Transform, doc *model.Document) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.Errorf(errs.Storage, "mutation panicked: %v", r)
		}
	}()
	return fn(doc)
}

// load reads and decodes the document. A missing file is the empty document,
// not an error. Every call unmarshals afresh, so the result never aliases
// storage internals or a previous caller's copy.
func (s *Store) load() (*model.Document, bool, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.NewDocument(), false, nil
	}
	if err != nil {
		return nil, false, errs.Wrap(errs.Storage, "read database", err)
	}
	doc := model.NewDocument()
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, false, errs.Wrap(errs.Storage, "decode database", err)
	}
	if doc.Users == nil {
		doc.Users = []model.User{}
	}
	if doc.ItemsByUserID == nil {
		doc.ItemsByUserID = map[string][]model.Item{}
	}
	return doc, true, nil
}

// persist writes the full document to <path>.tmp, fsyncs it, renames it over
// the canonical path, then best-effort fsyncs the directory. A reader never
// observes a partially written file.
func (s *Store) persist(doc *model.Document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errs.Wrap(errs.Storage, "encode database", err)
	}
	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return errs.Wrap(errs.Storage, "open temp file", err)
	}
	if _, err := f.Write(raw); err != nil {
		f.Close()
		return errs.Wrap(errs.Storage, "write temp file", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return errs.Wrap(errs.Storage, "sync temp file", err)
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(errs.Storage, "close temp file", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errs.Wrap(errs.Storage, "replace database", err)
	}
	s.syncDir()
	return nil
}

func (s *Store) syncDir() {
	dir, err := os.Open(filepath.Dir(s.path))
	if err != nil {
		return
	}
	defer dir.Close()
	if err := dir.Sync(); err != nil && s.log != nil {
		s.log.Debug("dir sync", zap.Error(err))
	}
}
