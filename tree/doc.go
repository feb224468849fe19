// Package tree models the values held by a flame store.
//
// A Value is one of Null, Bool, Number, String or Container. Containers keep
// their keys in insertion order; that order drives default iteration and the
// detection of sequence-shaped results. Containers loaded from JSON arrays are
// flagged as sequences and encode back to arrays.
//
// Values are treated as immutable once handed to a store. Stores copy
// containers before changing them, so a Value obtained from a read stays valid
// after later writes.
package tree
