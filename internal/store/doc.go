// Package store defines the presentation repository contract and selects a
// concrete backend at session start.
//
// Two implementations satisfy Repository: SQLiteRepository keeps every
// aggregate inside a single SQLite database with transactional writes, and
// DirRepository lays each presentation out as user-inspectable files under a
// library directory. The backend is a runtime configuration choice; callers
// only see this package's interface and sentinel errors.
package store
