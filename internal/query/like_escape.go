package query

import "strings"

const likeEscapeClause = "ESCAPE '\\'"

// escapeLikePattern escapes LIKE metacharacters so literal '%', '_' and
// '\' in a search value do not act as wildcards.
func escapeLikePattern(value string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		"%", "\\%",
		"_", "\\_",
	)
	return replacer.Replace(value)
}

// likePattern translates the '*' wildcard notation into a LIKE pattern.
// A value containing '*' keeps its anchors:
//
//	x=5  -> x LIKE '%5%' (x contains 5)
//	x=5* -> x LIKE '5%'  (x starts with 5)
//	x=*5 -> x LIKE '%5'  (x ends with 5)
func likePattern(value string) string {
	escaped := escapeLikePattern(value)
	if strings.Contains(value, "*") {
		return strings.ReplaceAll(escaped, "*", "%")
	}
	return "%" + escaped + "%"
}
