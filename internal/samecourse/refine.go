package samecourse

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Refine splits every same-course group by exact instructor set. Each
// bucket's id is its minimum member id.
func Refine(sameCourse *Result, entities []Entity) *Result {
	profs := make(map[int]string, len(entities))
	for _, e := range entities {
		profs[e.ID] = professorKey(e.Professors)
	}

	var groups [][]int
	for _, gid := range sameCourse.GroupIDs() {
		buckets := make(map[string][]int)
		for _, member := range sameCourse.Groups[gid] {
			k := profs[member]
			buckets[k] = append(buckets[k], member)
		}
		for _, k := range sortedKeys(buckets) {
			groups = append(groups, buckets[k])
		}
	}
	return newResult(groups)
}

func professorKey(ids []int) string {
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// CheckRefinement verifies that every refined group lies inside exactly one
// same-course group.
func CheckRefinement(sameCourse, refined *Result) error {
	for _, rid := range refined.GroupIDs() {
		members := refined.Groups[rid]
		parent, ok := sameCourse.GroupOf[members[0]]
		if !ok {
			return fmt.Errorf("course %d has no same-course group", members[0])
		}
		for _, m := range members[1:] {
			if p := sameCourse.GroupOf[m]; p != parent {
				return fmt.Errorf("refined group %d spans same-course groups %d and %d", rid, parent, p)
			}
		}
	}
	return nil
}
