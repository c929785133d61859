// Package overrides holds the curated split specifications that keep known
// false merges apart in the same-course partition.
//
// A spec lists two or more disjoint groups of markers. A marker names a
// course code, optionally pinned to one term. When a partition contains
// members from every group of exactly one spec, the partition is split
// along the spec's group boundaries.
package overrides
