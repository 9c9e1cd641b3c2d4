// Package dummydb provides an in-memory implementation of the storage
// repositories for tests and local hacking.
package dummydb

import "sync"

type DB struct {
	mu sync.RWMutex

	seq int64 // insertion counter shared by all tables

	categories  map[string]categoryRow
	courses     map[string]courseRow
	lessons     map[string]lessonRow
	completions map[string]completionRow

	completionsByPair map[string]string // "userID:courseID" -> record ID
}

func Open() (*DB, error) {
	return &DB{
		categories:        make(map[string]categoryRow),
		courses:           make(map[string]courseRow),
		lessons:           make(map[string]lessonRow),
		completions:       make(map[string]completionRow),
		completionsByPair: make(map[string]string),
	}, nil
}

func (db *DB) nextSeq() int64 {
	db.seq++
	return db.seq
}
