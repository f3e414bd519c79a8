// Package textutil holds small string helpers shared by the naming and
// output packages: filesystem-safe file names, whitespace collapsing, and
// trimming of punctuation left dangling after tokens are removed from a
// title.
package textutil
