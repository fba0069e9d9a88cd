package modbuild

import "strings"

// Matches reports whether name is caught by p.
func (p ExcludePair) Matches(name string) bool {
	switch p.Type {
	case ExcludeEnds:
		return strings.HasSuffix(name, p.Value)
	case ExcludeStarts:
		return strings.HasPrefix(name, p.Value)
	case ExcludeContains:
		return strings.Contains(name, p.Value)
	}
	return false
}

// Excluded reports whether any pair catches name.
func Excluded(name string, pairs []ExcludePair) bool {
	for _, p := range pairs {
		if p.Matches(name) {
			return true
		}
	}
	return false
}
