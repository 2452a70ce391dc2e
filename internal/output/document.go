// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package output

import (
	"encoding/json"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jeranaias/rigrun-bench/internal/table"
)

// Document is the machine-readable form of one run.
type Document struct {
	RunID     string       `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Success   bool         `json:"success" yaml:"success"`
	ErrorKind string       `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Table     *table.Table `json:"table,omitempty" yaml:"table,omitempty"`
	Messages  []Message    `json:"messages" yaml:"messages"`
	Timestamp string       `json:"timestamp" yaml:"timestamp"`
}

// encoder writes a finished Document.
type encoder func(w io.Writer, doc *Document) error

// DocumentSink buffers a run and writes it as one document on Flush.
type DocumentSink struct {
	w      io.Writer
	encode encoder
	doc    Document
	now    func() time.Time
}

// NewJSON creates a sink that emits indented JSON.
func NewJSON(w io.Writer) *DocumentSink {
	return newDocumentSink(w, func(w io.Writer, doc *Document) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	})
}

// NewYAML creates a sink that emits YAML.
func NewYAML(w io.Writer) *DocumentSink {
	return newDocumentSink(w, func(w io.Writer, doc *Document) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	})
}

func newDocumentSink(w io.Writer, enc encoder) *DocumentSink {
	return &DocumentSink{
		w:      w,
		encode: enc,
		doc:    Document{Messages: make([]Message, 0)},
		now:    time.Now,
	}
}

// Table records t; the last table wins.
func (s *DocumentSink) Table(t *table.Table) error {
	s.doc.Table = t
	return nil
}

// Message records m.
func (s *DocumentSink) Message(m Message) error {
	s.doc.Messages = append(s.doc.Messages, m)
	return nil
}

// Flush writes the document.
func (s *DocumentSink) Flush(st Status) error {
	s.doc.RunID = st.RunID
	s.doc.Success = st.Success
	s.doc.ErrorKind = st.Kind
	s.doc.Timestamp = s.now().UTC().Format(time.RFC3339)
	return s.encode(s.w, &s.doc)
}
