// Package pagekeep extracts structured records from the active browser tab
// and keeps them in sync with a remote record service.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/).
package pagekeep
