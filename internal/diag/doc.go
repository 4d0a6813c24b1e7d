// Package diag carries severity-leveled, location-tagged messages from
// the translation and transformation phases. Diagnostics attach at the
// most specific scope (one declaration) and bubble upward by aggregation;
// no diagnostic is ever dropped silently and no expected failure unwinds
// the stack.
package diag
