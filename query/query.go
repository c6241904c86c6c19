// Package query parses GCAM query catalogs and builds ModelInterface query invocations.
package query

import (
	"encoding/xml"
	"io"
	"os"
	"strings"

	"hermannm.dev/wrap"
)

// Definition is one named query parsed from a catalog, ready to run against a scenario
// database. Definitions are immutable after parsing.
type Definition struct {
	// Unique identifier within a catalog, taken from the title attribute of the query body
	// element. Also used as the output file name stem for batch runs.
	Title string

	// The query body element serialized back to XML, handed verbatim to the query engine.
	Body string

	// Region names from the query's own region elements, in document order. Nil when the
	// query defines no region filter, which is distinct from an empty list (no regions).
	RegionFilter []string
}

type catalogDocument struct {
	Queries []queryElement `xml:"aQuery"`
}

type queryElement struct {
	Children []queryChild `xml:",any"`
}

type queryChild struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   string     `xml:",innerxml"`
}

// ParseCatalogFile parses a GCAM batch query file into an ordered list of query
// definitions, one per aQuery element at the top level of the document.
func ParseCatalogFile(path string) ([]Definition, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, wrap.Errorf(err, "failed to open query catalog '%s'", path)
	}
	defer file.Close()

	queries, err := ParseCatalog(file)
	if err != nil {
		return nil, wrap.Errorf(err, "failed to parse query catalog '%s'", path)
	}
	return queries, nil
}

// ParseCatalog parses a GCAM batch query document into an ordered list of query
// definitions, preserving document order.
//
// Returns a ParseError if the document is not well-formed XML, and a StructuralError if
// a query element lacks a titled body element.
func ParseCatalog(reader io.Reader) ([]Definition, error) {
	var document catalogDocument
	if err := xml.NewDecoder(reader).Decode(&document); err != nil {
		return nil, ParseError{Err: err}
	}

	queries := make([]Definition, 0, len(document.Queries))
	for i, element := range document.Queries {
		query, err := element.toDefinition()
		if err != nil {
			return nil, StructuralError{QueryIndex: i, Reason: err.Error()}
		}
		queries = append(queries, query)
	}
	return queries, nil
}

func (element queryElement) toDefinition() (Definition, error) {
	var query Definition

	for _, child := range element.Children {
		if child.XMLName.Local == "region" {
			if name, ok := child.attr("name"); ok {
				query.RegionFilter = append(query.RegionFilter, name)
			}
			continue
		}

		if _, hasTitle := child.attr("title"); hasTitle && query.Body == "" {
			query.Title, _ = child.attr("title")
			query.Body = child.serialize()
		}
	}

	if query.Body == "" {
		return Definition{}, errMissingTitledBody
	}
	return query, nil
}

func (child queryChild) attr(name string) (value string, ok bool) {
	for _, attr := range child.Attrs {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}
	return "", false
}

// serialize reconstructs the child element as XML text. Inner content is the verbatim
// document source, so CDATA sections inside query bodies survive round-tripping.
func (child queryChild) serialize() string {
	var builder strings.Builder
	builder.WriteRune('<')
	builder.WriteString(child.XMLName.Local)

	for _, attr := range child.Attrs {
		builder.WriteRune(' ')
		builder.WriteString(attr.Name.Local)
		builder.WriteString(`="`)
		writeEscapedAttr(&builder, attr.Value)
		builder.WriteRune('"')
	}

	builder.WriteRune('>')
	builder.WriteString(child.Inner)
	builder.WriteString("</")
	builder.WriteString(child.XMLName.Local)
	builder.WriteRune('>')
	return builder.String()
}

func writeEscapedAttr(builder *strings.Builder, value string) {
	for _, char := range value {
		switch char {
		case '"':
			builder.WriteString("&quot;")
		case '&':
			builder.WriteString("&amp;")
		case '<':
			builder.WriteString("&lt;")
		case '>':
			builder.WriteString("&gt;")
		default:
			builder.WriteRune(char)
		}
	}
}
