// Package jsonvalue is a small, closed model of JSON values used to parse,
// merge and re-serialize profile configuration files.
//
// Objects keep their keys in insertion order so a merged file reads like the
// files it was merged from: parent keys first, in the parent's order, then any
// keys only the child defines. Numbers keep their textual form and are never
// round-tripped through float64.
package jsonvalue
