// Package identity assigns each selected set a unique output identity for
// the run and suppresses sets whose ordered members were already emitted.
//
// Identities are claimed first come, first served. A later set that asks for
// an identity already taken gets "[alt]", then "[alt2]", "[alt3]" and so on
// appended to its name until the derived key is free.
package identity
