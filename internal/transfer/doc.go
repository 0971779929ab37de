// Package transfer downloads one URL to one destination by driving an
// external downloader (curl, or wget when no session cookie is needed).
//
// A transfer resumes from whatever is already on disk, lets the downloader
// retry ordinary connection loss itself, and restarts the whole attempt when
// curl reports a partial file (exit 18). The session cookie is written to a
// single well-known file just before each invocation and removed right after
// it, whatever the outcome.
package transfer
