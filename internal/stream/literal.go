package stream

import "regexp"

// EscapeLiteral escapes every regexp metacharacter (. * + ? ^ $ { } ( ) | [ ] \)
// in s so the result matches only the literal text of s.
func EscapeLiteral(s string) string {
	return regexp.QuoteMeta(s)
}

// ReplaceAllLiteral replaces every non-overlapping occurrence of find in s
// with replace. Both find and replace are taken literally.
func ReplaceAllLiteral(s, find, replace string) string {
	re := regexp.MustCompile(EscapeLiteral(find))
	return re.ReplaceAllLiteralString(s, replace)
}
