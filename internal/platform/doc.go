package platform

// Package platform contains filesystem glue around the downloads directory
// (listing, sanitising titles into file names, locating produced files) and
// playlist expansion through the ytdlp library.
