// Package dynamics provides the gain-computer processors of the node
// library: a log-domain soft-knee downward compressor and a lookahead peak
// limiter whose ceiling is never exceeded at any sample.
package dynamics
