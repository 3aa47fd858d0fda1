// Package formats decodes compressed audio containers into buffers and
// routes encoding. Load sniffs the container from its leading bytes and
// dispatches to the matching codec package; inputs are size-gated
// before any decode work happens.
package formats
