package overrides

func pair(name, first, second string) Spec {
	return Spec{
		Name:   name,
		Groups: [][]Marker{{{Code: first}}, {{Code: second}}},
	}
}

// Defaults returns the built-in split specs. Elementary language sequences
// share near-identical titles and descriptions across their two halves.
func Defaults() []Spec {
	return []Spec{
		pair("elementary modern chinese", "CHNS 110", "CHNS 120"),
		pair("elementary japanese", "JAPN 110", "JAPN 120"),
		pair("elementary korean", "KREN 110", "KREN 120"),
	}
}
