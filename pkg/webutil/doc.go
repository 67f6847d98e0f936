// Package webutil holds small helpers used around scraping runs: cookie
// conversion, URL building and matching, JSON files and filename cleanup.
package webutil
