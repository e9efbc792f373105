// Package runner builds the configuration record consumed by the external
// browser test runner.
//
// The record is resolved once from static defaults, an optional YAML file and
// two environment variables: CI, which enables forbid-only and CI retries, and
// BASE_URL, which replaces the default http://localhost:3000. Render turns the
// record into the JSON or YAML document the runner reads.
package runner
