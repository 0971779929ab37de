// Package auth signs in to the Apple developer services with credentials
// taken from the environment and exposes the resulting session: the cookie
// header handed to the downloader, and the two authenticated reads the
// catalog needs (the listDownloads JSON and the /download/ page).
//
// The session is an explicit value created once per run by Authenticate and
// passed to whoever needs it.
package auth
