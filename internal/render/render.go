// Package render performs the literal placeholder substitution applied to
// template files and to their destination paths.
package render

import "strings"

// Placeholder tokens understood by the templates.
const (
	TokenIdentifier = "WidgetName"
	TokenVersion    = "{{version}}"
	TokenDate       = "{{date}}"
	TokenCopyright  = "{{copyright}}"
	TokenLicense    = "{{license}}"
	TokenAuthor     = "{{author}}"
)

// Rule replaces every occurrence of Token with Value.
type Rule struct {
	Token string
	Value string
}

// Rules is an ordered substitution list. Order matters: a qualified pattern
// that embeds the identifier token must come before the bare identifier,
// or it will no longer match once the bare token is replaced.
type Rules []Rule

// Render applies rules to text in order.
func Render(text string, rules Rules) string {
	for _, r := range rules {
		text = strings.ReplaceAll(text, r.Token, r.Value)
	}
	return text
}

// RenamePath applies rules to a slash-separated destination path.
func RenamePath(path string, rules Rules) string {
	return Render(path, rules)
}

// Values carries what the rule sets are built from.
type Values struct {
	WidgetName  string
	PackageName string
	Version     string
	Date        string
	Copyright   string
	License     string
	Author      string
}

// Identifier replaces only the bare identifier token.
func Identifier(v Values) Rules {
	return Rules{{Token: TokenIdentifier, Value: v.WidgetName}}
}

// Qualified replaces the package-qualified widget names, then the bare
// identifier.
func Qualified(v Values) Rules {
	return Rules{
		{Token: TokenIdentifier + ".widget." + TokenIdentifier, Value: v.PackageName + ".widget." + v.WidgetName},
		{Token: TokenIdentifier + "/widget/" + TokenIdentifier, Value: v.PackageName + "/widget/" + v.WidgetName},
		{Token: TokenIdentifier, Value: v.WidgetName},
	}
}

// Descriptor replaces the identifier and the version, as used by the module
// descriptor.
func Descriptor(v Values) Rules {
	return Rules{
		{Token: TokenIdentifier, Value: v.WidgetName},
		{Token: TokenVersion, Value: v.Version},
	}
}

// Full applies the qualified identifier rules followed by every brace token.
func Full(v Values) Rules {
	return append(Qualified(v),
		Rule{Token: TokenVersion, Value: v.Version},
		Rule{Token: TokenDate, Value: v.Date},
		Rule{Token: TokenCopyright, Value: v.Copyright},
		Rule{Token: TokenLicense, Value: v.License},
		Rule{Token: TokenAuthor, Value: v.Author},
	)
}
