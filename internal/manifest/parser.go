package manifest

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ReadPackageJSON reads <root>/package.json. A missing or empty file yields
// (nil, nil); a file that cannot be decoded yields a *ParseError.
func ReadPackageJSON(fsys afero.Fs, root string) (*PackageJSON, error) {
	path := filepath.Join(root, PackageJSONFile)
	data, err := readDescriptor(fsys, path)
	if err != nil || data == nil {
		return nil, err
	}

	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &pkg, nil
}

// ReadPackageXML reads <root>/src/package.xml. A missing or empty file yields
// (nil, nil); malformed XML or a root element other than <package> yields a
// *ParseError.
func ReadPackageXML(fsys afero.Fs, root string) (*PackageXML, error) {
	path := filepath.Join(root, filepath.FromSlash(PackageXMLFile))
	data, err := readDescriptor(fsys, path)
	if err != nil || data == nil {
		return nil, err
	}

	var pkg PackageXML
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&pkg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if err := expectEOF(dec); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &pkg, nil
}

// expectEOF consumes the rest of the document. Only whitespace, comments and
// processing instructions may follow the root element.
func expectEOF(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.Comment, xml.ProcInst:
		case xml.CharData:
			if len(bytes.TrimSpace(t)) != 0 {
				return fmt.Errorf("unexpected text %q after root element", bytes.TrimSpace(t))
			}
		default:
			return fmt.Errorf("unexpected %T after root element", tok)
		}
	}
}

// NormalizeVersion pads a two-component version ("X.Y") to three components
// by appending ".0". Every other shape is returned unchanged.
func NormalizeVersion(version string) string {
	if len(strings.Split(version, ".")) == 2 {
		return version + ".0"
	}
	return version
}

// readDescriptor returns the file contents, or nil when the file is absent
// or zero bytes long. Whitespace-only content is returned and fails to parse.
func readDescriptor(fsys afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}
