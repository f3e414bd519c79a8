// Package playlist writes M3U playlists for selected multi-disk sets and
// reads existing list-style playlists.
//
// Written content is the bare member file names, one per line, with no byte
// order mark and no trailing line terminator. An existing file is only
// rewritten when its lines differ after line endings and a leading byte
// order mark are normalized away.
package playlist
