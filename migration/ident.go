package migration

import "strings"

// reservedWords are identifiers that must be quoted in rendered DDL.
var reservedWords = map[string]bool{
	"all": true, "and": true, "any": true, "array": true, "as": true,
	"asc": true, "between": true, "by": true, "case": true, "cast": true,
	"create": true, "cross": true, "default": true, "desc": true,
	"distinct": true, "else": true, "end": true, "exists": true,
	"false": true, "from": true, "full": true, "group": true, "having": true,
	"if": true, "in": true, "inner": true, "intersect": true, "interval": true,
	"is": true, "join": true, "left": true, "like": true, "limit": true,
	"not": true, "null": true, "on": true, "or": true, "order": true,
	"outer": true, "right": true, "select": true, "set": true, "table": true,
	"then": true, "true": true, "union": true, "unnest": true, "using": true,
	"when": true, "where": true, "with": true,
}

// needsQuoting reports whether name contains characters invalid in an
// unquoted identifier.
func needsQuoting(name string) bool {
	for i, r := range name {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_' {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return true
	}
	return name == ""
}

// quoteIdent returns a DDL-safe identifier, backtick-quoting reserved words
// and names that are invalid unquoted.
func quoteIdent(name string) string {
	if reservedWords[strings.ToLower(name)] || needsQuoting(name) {
		return "`" + name + "`"
	}
	return name
}
