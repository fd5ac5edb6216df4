// Package sync reconciles the local tock database with a single snapshot
// kept in an S3-compatible bucket.
//
// A sync pass runs in four steps:
//
//  1. If the bucket has no snapshot under the fixed key, the local database
//     file is uploaded as the first snapshot and the pass ends.
//  2. Otherwise the remote snapshot is downloaded to a scoped temp file.
//  3. If the two files have the same digest, nothing else happens.
//  4. If they differ, remote rows are merged into the local database
//     (last writer wins on updated_at) and the local file is uploaded as the
//     new snapshot.
//
// Consistency model: eventual, not linearizable. There is no lock, no
// version check and no conditional write on the bucket. Two devices syncing
// at the same moment can race, and the later upload replaces the earlier
// one; the overwritten device's changes come back on its next pass because
// they are still in its local database.
//
// Rows are matched by their local autoincrement id. Two devices that create
// rows before ever syncing can produce the same id for unrelated entries, and
// the newer one wins.
package sync
