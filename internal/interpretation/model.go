// Package interpretation resolves dream symbols to their interpretations and keeps their history.
package interpretation

import (
	"errors"
	"time"
)

// ErrNotFound is returned by a Fetcher when the source has no interpretation for a term.
var ErrNotFound = errors.New("interpretation not found")

// Record is one stored interpretation of a term. Records are never updated.
type Record struct {
	ID             int64     `db:"id" yaml:"id"`
	RequesterID    int64     `db:"requester_id" yaml:"requester_id"`
	Term           string    `db:"term" yaml:"term"`
	Interpretation string    `db:"interpretation" yaml:"interpretation"`
	CreatedAt      time.Time `db:"created_at" yaml:"created_at"`
}

type Status int

const (
	StatusFound Status = iota
	StatusNotFound
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Result is the outcome of resolving one term.
type Result struct {
	Status Status
	Text   string
	Err    error
}

func Found(text string) Result {
	return Result{Status: StatusFound, Text: text}
}

func NotFound() Result {
	return Result{Status: StatusNotFound}
}

func Failed(err error) Result {
	return Result{Status: StatusFailed, Err: err}
}

func (r Result) IsFound() bool {
	return r.Status == StatusFound && r.Text != ""
}

// TermCount is how many records a term has.
type TermCount struct {
	Term  string `db:"term"`
	Count int    `db:"count"`
}

type Stats struct {
	Records    int
	Requesters int
	TopTerms   []TermCount
}
