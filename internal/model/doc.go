package model

// Package model defines domain data structures shared by both web UIs: stored
// cookie records, search results, resolved audio streams, downloaded files and
// the per-session download activity. Structures are plain values designed for
// direct use in templates.
