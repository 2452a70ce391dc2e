// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/rigrun-bench/internal/table"
)

func sampleTable() *table.Table {
	return &table.Table{
		Header: []string{"Model", "Prompt Eval Speed"},
		Rows: [][]string{
			{"llama2", "42 tok/s"},
			{"mistral", ""},
		},
	}
}

// =============================================================================
// CONSOLE TESTS
// =============================================================================

func TestConsole_Table(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)

	require.NoError(t, c.Table(sampleTable()))

	out := buf.String()
	for _, want := range []string{"Model", "Prompt Eval Speed", "llama2", "42 tok/s", "mistral"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "\x1b[", "no escape sequences without color")
}

func TestConsole_TableWithExtraCells(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)

	tbl := &table.Table{
		Header: []string{"Model", "Prompt Eval Speed"},
		Rows:   [][]string{{"llama2", "42 tok/s", "overflow"}},
	}
	require.NoError(t, c.Table(tbl))

	assert.Contains(t, buf.String(), "overflow")
	assert.Equal(t, []string{"Model", "Prompt Eval Speed"}, tbl.Header, "header must not be modified")
}

func TestConsole_Messages(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, false)

	require.NoError(t, c.Message(Errorf("Error: %s", "Ollama server is not running.")))
	require.NoError(t, c.Message(Hint("Please start the Ollama server to run the benchmark.")))
	require.NoError(t, c.Message(Message{Level: LevelInfo, Text: "see: ", Link: "https://ollama.com/download"}))
	require.NoError(t, c.Flush(Status{}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"Error: Ollama server is not running.",
		"Please start the Ollama server to run the benchmark.",
		"see: https://ollama.com/download",
	}, lines)
}

func TestConsole_RawIsVerbatim(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, true)

	raw := "[bold]not markup[/bold]\n  indented"
	require.NoError(t, c.Message(Raw(raw)))
	assert.Equal(t, raw+"\n", buf.String())
}

func TestConsole_ColorLink(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, true)

	require.NoError(t, c.Message(Message{Level: LevelInfo, Link: "https://ollama.com/download"}))
	assert.Contains(t, buf.String(), "\x1b]8;;https://ollama.com/download")
}

// =============================================================================
// TEXT TESTS
// =============================================================================

func TestText_TableRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewText(&buf).Table(sampleTable()))

	assert.Equal(t,
		"Model    Prompt Eval Speed\n"+
			"-------  -----------------\n"+
			"llama2   42 tok/s\n"+
			"mistral\n",
		buf.String())

	parsed, err := table.Parse(buf.String())
	require.NoError(t, err)
	assert.Equal(t, sampleTable().Rows, parsed.Rows)
}

func TestText_WideRunes(t *testing.T) {
	var buf bytes.Buffer
	tbl := &table.Table{Header: []string{"Model", "Speed"}, Rows: [][]string{{"模型", "1"}}}
	require.NoError(t, NewText(&buf).Table(tbl))

	lines := strings.Split(buf.String(), "\n")
	// "模型" is 4 cells wide, so "Model" (5) sets the width.
	assert.Equal(t, "Model  Speed", lines[0])
	assert.Equal(t, "模型   1", lines[2])
}

// =============================================================================
// DOCUMENT TESTS
// =============================================================================

func TestJSON_Flush(t *testing.T) {
	var buf bytes.Buffer
	s := NewJSON(&buf)
	s.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	require.NoError(t, s.Table(sampleTable()))
	assert.Zero(t, buf.Len(), "nothing is written before Flush")
	require.NoError(t, s.Flush(Status{RunID: "abc", Success: true}))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "abc", doc.RunID)
	assert.True(t, doc.Success)
	assert.Empty(t, doc.ErrorKind)
	assert.Equal(t, "2025-01-02T03:04:05Z", doc.Timestamp)
	require.NotNil(t, doc.Table)
	assert.Equal(t, sampleTable().Header, doc.Table.Header)
}

func TestYAML_FlushFailure(t *testing.T) {
	var buf bytes.Buffer
	s := NewYAML(&buf)

	require.NoError(t, s.Message(Errorf("Benchmark returned no output.")))
	require.NoError(t, s.Flush(Status{Kind: "empty_output"}))

	var doc Document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.False(t, doc.Success)
	assert.Equal(t, "empty_output", doc.ErrorKind)
	assert.Nil(t, doc.Table)
	require.Len(t, doc.Messages, 1)
	assert.Equal(t, LevelError, doc.Messages[0].Level)
}

// =============================================================================
// FORMAT TESTS
// =============================================================================

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"table", "TEXT", " json ", "yaml"} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	s, err := New(FormatJSON, &buf, false)
	require.NoError(t, err)
	assert.IsType(t, &DocumentSink{}, s)

	s, err = New(FormatTable, &buf, false)
	require.NoError(t, err)
	assert.IsType(t, &Console{}, s)

	_, err = New("csv", &buf, false)
	assert.Error(t, err)
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	var _ Sink = r

	r.Message(Errorf("one"))
	r.Message(Message{Level: LevelInfo, Text: "two ", Link: "x"})
	r.Flush(Status{Kind: "k"})

	assert.Equal(t, "one\ntwo x", r.Text())
	assert.Equal(t, []Level{LevelError, LevelInfo}, r.Levels())
	assert.Equal(t, 1, r.Flushes)
	assert.Equal(t, "k", r.Status.Kind)
}
