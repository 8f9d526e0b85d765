// Package layout persists overlay configuration records.
//
// # Storage
//
// Each Record lives in its own YAML file inside the layouts directory. The
// file name is derived from the record name: lowercased, spaces replaced with
// hyphens, ".yaml" appended. Two names that derive the same file name are
// considered the same overlay, so CheckAvailable rejects them.
//
// Hand-written files may use any name ending in .yaml or .yml. List remembers
// which file each record came from, and Save and Delete act on that file.
//
//	name: DPS Meter
//	url: http://localhost:8080/dps
//	x: 40
//	y: 40
//	width: 420
//	height: 260
//	clickthrough: true
//	decorated: false
//	active: true
//
// # Error Handling
//
//   - List never fails because of a single file: unreadable or malformed
//     files are logged at warn level and skipped.
//   - FindByName returns ErrNotFound on a miss; callers branch on it.
//   - Save and Delete return wrapped I/O errors; Delete of a missing file
//     wraps os.ErrNotExist.
//   - Edits.Apply returns a *ValidationError listing every bad form field.
//
// # Concurrency
//
// Store is owned by the action dispatcher, which serialises every write. Only
// the file index built by List is locked.
package layout
