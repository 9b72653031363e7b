// Package sqlite stores stage artifacts in a single SQLite file using the
// pure Go modernc.org/sqlite driver.
//
// Each (document, stage) pair is one row in the artifacts table holding the
// stage's JSON record. Text stages are also mirrored as plain files under
// <data dir>/outputs so they can be read without the CLI.
//
// The schema is versioned by the scripts in the migrations package and
// upgraded when the store opens. The database runs in WAL mode with a busy
// timeout, so a serve process and a one-off CLI command can share it.
package sqlite
