// File: pkg/extract/format.go
package extract

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// repository is the serialized document root for the XML and JSON formats.
type repository struct {
	XMLName xml.Name     `json:"-" xml:"repository"`
	Files   []FileRecord `json:"files" xml:"file"`
}

var (
	errInvalidUTF8 = errors.New("content is not valid UTF-8")
	errInvalidXML  = errors.New("content contains a character not allowed in XML")
)

const indent = "  "

// Format serializes files in the format selected by cfg. Files are always
// emitted in path order.
func Format(files Files, cfg *Config) (string, error) {
	switch cfg.Format {
	case FormatXML:
		return FormatXMLDocument(files, cfg.PrettyPrint)
	case FormatJSON:
		return FormatJSONDocument(files, cfg.PrettyPrint)
	case FormatText:
		return FormatTextDocument(files)
	default:
		return "", &ConfigurationError{Option: "format", Err: fmt.Errorf("unsupported format %s", cfg.Format)}
	}
}

// FormatXMLDocument renders <repository><file><path/><content/></file>...</repository>.
// When pretty is set the elements are indented two spaces per level.
func FormatXMLDocument(files Files, pretty bool) (string, error) {
	records := files.Sorted()
	for _, r := range records {
		if err := checkXMLText(r.Content); err != nil {
			return "", &SerializationError{Format: FormatXML, Path: r.Path, Err: err}
		}
		if err := checkXMLText(r.Path); err != nil {
			return "", &SerializationError{Format: FormatXML, Path: r.Path, Err: err}
		}
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	if pretty {
		enc.Indent("", indent)
	}
	if err := encodeRepository(enc, records); err != nil {
		return "", &SerializationError{Format: FormatXML, Err: err}
	}
	if err := enc.Close(); err != nil {
		return "", &SerializationError{Format: FormatXML, Err: err}
	}
	if pretty {
		buf.WriteByte('\n')
	}
	return buf.String(), nil
}

// FormatJSONDocument renders {"files":[{"path":...,"content":...}]}. Pretty
// output is indented two spaces; compact output is a single line.
func FormatJSONDocument(files Files, pretty bool) (string, error) {
	records := files.Sorted()
	for _, r := range records {
		if !utf8.ValidString(r.Content) || !utf8.ValidString(r.Path) {
			return "", &SerializationError{Format: FormatJSON, Path: r.Path, Err: errInvalidUTF8}
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(repository{Files: records}); err != nil {
		return "", &SerializationError{Format: FormatJSON, Err: err}
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// FormatTextDocument renders each file as "# path\n", the raw content and a
// blank-line separator.
func FormatTextDocument(files Files) (string, error) {
	var sb strings.Builder
	for _, r := range files.Sorted() {
		if !utf8.ValidString(r.Content) {
			return "", &SerializationError{Format: FormatText, Path: r.Path, Err: errInvalidUTF8}
		}
		sb.WriteString("# ")
		sb.WriteString(r.Path)
		sb.WriteString("\n")
		sb.WriteString(r.Content)
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

// encodeRepository streams the document token by token. Text nodes go
// through EncodeToken(CharData), which leaves line feeds raw where Marshal
// would write them as &#xA;.
func encodeRepository(enc *xml.Encoder, records []FileRecord) error {
	root := xml.StartElement{Name: xml.Name{Local: "repository"}}
	file := xml.StartElement{Name: xml.Name{Local: "file"}}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}
	for _, r := range records {
		if err := enc.EncodeToken(file); err != nil {
			return err
		}
		if err := encodeTextElement(enc, "path", r.Path); err != nil {
			return err
		}
		if err := encodeTextElement(enc, "content", r.Content); err != nil {
			return err
		}
		if err := enc.EncodeToken(file.End()); err != nil {
			return err
		}
	}
	return enc.EncodeToken(root.End())
}

func encodeTextElement(enc *xml.Encoder, name, text string) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := enc.EncodeToken(xml.CharData(text)); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

// checkXMLText rejects text that encoding/xml would silently alter: invalid
// UTF-8 and code points outside the XML 1.0 Char production.
func checkXMLText(s string) error {
	if !utf8.ValidString(s) {
		return errInvalidUTF8
	}
	for _, r := range s {
		if !isXMLChar(r) {
			return fmt.Errorf("%w: %U", errInvalidXML, r)
		}
	}
	return nil
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
