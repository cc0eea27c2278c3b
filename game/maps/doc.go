// Package maps is a catalog over a directory of maze map files.
//
// Maps are plain text files with the .txt extension, one row per line and
// one digit per cell (see engine.ParseMap). The catalog lists them with their
// size and shortest route, and caches each map after the first load.
//
// Usage:
//
//	catalog, err := maps.NewManager("maps")
//	infos, err := catalog.List()
//	m, err := catalog.Load("classic")
//
// Concurrency:
//
// Manager is safe for concurrent use; loads use double-checked locking so a
// map is parsed at most once.
package maps
