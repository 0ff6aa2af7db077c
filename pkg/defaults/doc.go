// Package defaults centralizes timeout and rate limiting constants used
// across the toolkit. Keeping them in one place makes operational tuning
// reviewable and keeps magic numbers out of call sites.
package defaults
