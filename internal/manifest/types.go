package manifest

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
)

// File names of the two descriptors, relative to the project root.
const (
	PackageJSONFile = "package.json"
	PackageXMLFile  = "src/package.xml"
)

// Build tools recognized in devDependencies.
const (
	BuilderGrunt = "grunt"
	BuilderGulp  = "gulp"
)

// PackageJSON is the subset of the root package.json that widgetgen reads back.
type PackageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Description     string            `json:"description"`
	Author          Person            `json:"author"`
	Copyright       string            `json:"copyright"`
	License         string            `json:"license"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Builder infers the build tool from devDependencies. It returns an empty
// string when both or neither of grunt and gulp are present.
func (p *PackageJSON) Builder() string {
	_, grunt := p.DevDependencies[BuilderGrunt]
	_, gulp := p.DevDependencies[BuilderGulp]
	switch {
	case grunt && !gulp:
		return BuilderGrunt
	case gulp && !grunt:
		return BuilderGulp
	default:
		return ""
	}
}

// Person is an npm author field. npm accepts both "Name <email>" strings and
// {"name", "email", "url"} objects; both forms decode to the string form.
type Person string

// UnmarshalJSON implements json.Unmarshaler.
func (p *Person) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Person(s)
		return nil
	}

	var obj struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		URL   string `json:"url"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("author must be a string or an object: %w", err)
	}

	parts := []string{}
	if obj.Name != "" {
		parts = append(parts, obj.Name)
	}
	if obj.Email != "" {
		parts = append(parts, "<"+obj.Email+">")
	}
	if obj.URL != "" {
		parts = append(parts, "("+obj.URL+")")
	}
	*p = Person(strings.Join(parts, " "))
	return nil
}

// PackageXML is the module descriptor at src/package.xml.
type PackageXML struct {
	XMLName       xml.Name       `xml:"package"`
	ClientModules []ClientModule `xml:"clientModule"`
}

// ClientModule is one <clientModule> element of the module descriptor.
type ClientModule struct {
	Name    string `xml:"name,attr"`
	Version string `xml:"version,attr"`
}

// Version returns the version attribute of the first clientModule, or an
// empty string when there is none.
func (p *PackageXML) Version() string {
	if len(p.ClientModules) == 0 {
		return ""
	}
	return p.ClientModules[0].Version
}

// ParseError reports a descriptor that exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
