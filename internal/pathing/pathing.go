package pathing

import "strings"

// Segments splits a slash-delimited store path. The empty path and "/" name
// the root and yield no segments. A single leading empty segment is dropped;
// any other empty segment is kept as a literal empty key.
func Segments(path string) []string {
	if path == "" || path == "/" {
		return []string{}
	}
	keys := strings.Split(path, "/")
	if len(keys) > 0 && keys[0] == "" {
		keys = keys[1:]
	}
	return keys
}

// Head returns every segment except the last offset ones. An offset of zero
// keeps all segments; an offset past the start yields no segments.
func Head(path string, offset int) []string {
	keys := Segments(path)
	if offset <= 0 {
		return keys
	}
	if offset >= len(keys) {
		return keys[:0]
	}
	return keys[:len(keys)-offset]
}

// Tail returns the last offset segments. An offset of zero, like offsets
// past the start, yields every segment.
func Tail(path string, offset int) []string {
	keys := Segments(path)
	if offset <= 0 || offset >= len(keys) {
		return keys
	}
	return keys[len(keys)-offset:]
}
