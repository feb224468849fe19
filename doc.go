// Package flame emulates the REST access semantics of a hierarchical JSON
// database in process, for use in tests.
//
// A Store holds one document tree addressed by slash-delimited paths. Reads
// accept the orderBy / startAt / equalTo / limitToFirst / limitToLast /
// shallow query options; writes follow put, patch, post and delete
// semantics, with post minting time-ordered push keys.
//
//	store := flame.New()
//	if err := store.LoadJSON(strings.NewReader(`{"user":{"abcd":{"age":85}}}`)); err != nil {
//		return err
//	}
//	users, err := store.Get("/user", flame.Query{"orderBy": "age", "limitToFirst": 1})
//
// Writes are copy-on-write: every container on the written path is cloned
// and a new root installed, so values returned by earlier reads, and
// snapshots taken with Snapshot, never change.
package flame
