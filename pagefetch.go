// Package pagefetch extracts readable text from arbitrary web pages and
// classifies every failure into a small, closed taxonomy so that callers
// can decide whether to retry, fall back or give up.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, crawl4ai/).
package pagefetch
