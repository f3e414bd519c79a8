package identity

import (
	"fmt"
	"strings"
)

// AltSuffix is appended to a colliding name; the second and later retries
// carry a counter ("[alt2]").
const AltSuffix = "[alt]"

// KeyFunc derives the identity key for a candidate name. Playlist platforms
// use the output file path; catalog platforms use a composite of platform,
// title, tags, alt and total.
type KeyFunc func(name string) string

// Claim is the resolver's decision for one set.
type Claim struct {
	Name string
	Key  string
	// Suffixed is true when the requested name was taken.
	Suffixed bool
	// Duplicate is true when the same ordered members were already emitted;
	// DuplicateOf then holds the identity key of the earlier set.
	Duplicate   bool
	DuplicateOf string
}

// Resolver tracks identities, signatures and used files for one run. It is
// meant for sequential use.
type Resolver struct {
	owners     map[string]string // identity key -> signature that owns it
	counters   map[string]int    // requested key -> next alt counter
	signatures map[string]string // signature -> identity key
	used       map[string]struct{}
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{
		owners:     make(map[string]string),
		counters:   make(map[string]int),
		signatures: make(map[string]string),
		used:       make(map[string]struct{}),
	}
}

// Resolve returns the identity for a set named name with the given content
// signature. The signature is checked before any identity is claimed, so a
// duplicate never consumes a name.
func (r *Resolver) Resolve(name, signature string, key KeyFunc) Claim {
	if prior, ok := r.signatures[signature]; ok {
		return Claim{Name: name, Key: prior, Duplicate: true, DuplicateOf: prior}
	}

	requested := key(name)
	if _, taken := r.owners[requested]; !taken {
		r.claim(requested, signature)
		return Claim{Name: name, Key: requested}
	}

	counter := r.counters[requested]
	for {
		candidate := name + altSuffix(counter)
		candidateKey := key(candidate)
		counter++
		if _, taken := r.owners[candidateKey]; taken {
			continue
		}
		r.counters[requested] = counter
		r.claim(candidateKey, signature)
		return Claim{Name: candidate, Key: candidateKey, Suffixed: true}
	}
}

func (r *Resolver) claim(key, signature string) {
	r.owners[key] = signature
	r.signatures[signature] = key
}

// altSuffix renders the n-th retry: 0 -> "[alt]", 1 -> "[alt2]".
func altSuffix(n int) string {
	if n == 0 {
		return AltSuffix
	}
	return fmt.Sprintf("[alt%d]", n+1)
}

// MarkUsed records member paths as consumed by an assembled set, whether or
// not the set was emitted.
func (r *Resolver) MarkUsed(paths ...string) {
	for _, p := range paths {
		r.used[p] = struct{}{}
	}
}

// Used reports whether path was consumed by any set this run.
func (r *Resolver) Used(path string) bool {
	_, ok := r.used[path]
	return ok
}

// CatalogKey builds the composite identity used on catalog platforms.
func CatalogKey(platform, title, tags, alt string, total int) KeyFunc {
	return func(name string) string {
		return strings.Join([]string{platform, title, tags, alt, fmt.Sprint(total), name}, "\x00")
	}
}
