// Package samecourse partitions course entities across terms into groups
// of repeat offerings of one underlying course, and refines those groups by
// identical instructor set.
//
// Each universe (ordinary terms and summer sessions) is partitioned on its
// own union-find forest. Merges are applied in a fixed sequence: exact
// title with a shared department or previously cross-listed codes, exact
// title with a shared instructor for non-generic titles, then bounded fuzzy
// title and description matching among same-code entities from different
// terms. Curated override specs split known false merges last. Discussion
// sections never join a group.
//
// Every iteration runs over sorted keys so the canonical id of a group, the
// minimum member id, and any reported conflict are reproducible.
package samecourse
