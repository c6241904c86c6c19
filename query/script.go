package query

import (
	"strings"
)

// XQuery module import that brings the ModelInterface query runner into scope for a
// query script.
const miModuleImport = "import module namespace mi = 'ModelInterface.ModelGUI2.xmldb.RunMIQuery';"

// ScenarioListScript is the fixed introspection query listing the name, date and model
// version of every scenario in a database, as a CSV document.
const ScenarioListScript = "let $scns := collection()/scenario return document{ element csv { for $scn in $scns return element record { element name  { text { $scn/@name } }, element date { text { $scn/@date } }, element version { text{ $scn/model-version/text() } } } } }"

// Filters restricts which scenarios and regions a query returns results for.
type Filters struct {
	// Scenario names to include. Nil or empty means the engine default, which is the last
	// scenario in the database.
	Scenarios []string

	// Regions to filter results to. Nil means "use the query's built-in region filter";
	// an explicit empty (non-nil) list removes region filtering entirely, even when the
	// query has a built-in filter. Callers must keep this distinction in mind.
	Regions []string
}

// Invocation is the exact script to hand to the query engine for one query run.
// Building it is deterministic: identical inputs give byte-identical scripts.
type Invocation struct {
	Query  Definition
	Script string

	// The region list the script was built with, after resolving overrides against the
	// query's built-in filter. Nil means all regions.
	Regions []string
}

// BuildInvocation assembles the engine script for running the given query with the given
// filters. Newlines in the query body are stripped, since the engine's transport cannot
// carry them safely.
func BuildInvocation(query Definition, filters Filters) Invocation {
	regions := filters.Regions
	if regions == nil {
		regions = query.RegionFilter
	}

	var script strings.Builder
	script.WriteString(miModuleImport)
	script.WriteString("mi:runMIQuery(")
	script.WriteString(StripNewlines(query.Body))
	script.WriteRune(',')
	script.WriteString(FormatList(filters.Scenarios...))
	script.WriteRune(',')
	script.WriteString(FormatList(regions...))
	script.WriteRune(')')

	return Invocation{Query: query, Script: script.String(), Regions: regions}
}

// FormatList formats scenario/region names as the list literal the query engine expects:
// ('item1','item2',...,'itemN'), or () when empty. Being variadic, a single bare string
// formats as a single-element list.
func FormatList(items ...string) string {
	if len(items) == 0 {
		return "()"
	}
	return "('" + strings.Join(items, "','") + "')"
}

// StripNewlines removes line breaks from a query body.
func StripNewlines(body string) string {
	body = strings.ReplaceAll(body, "\r", "")
	return strings.ReplaceAll(body, "\n", "")
}

// RESTEnvelope wraps an engine script in the XML envelope the BaseX REST API expects,
// selecting CSV output with a header row. The script is carried in a CDATA block; any
// ]]> sequence inside it is split across two CDATA sections so the remote parser does
// not terminate the block early.
//
// xqueryFormat selects the ModelInterface's xquery CSV flavor, used for query results
// but not for scenario listings.
func RESTEnvelope(script string, xqueryFormat bool) string {
	csvParams := "header=yes"
	if xqueryFormat {
		csvParams += ",format=xquery"
	}

	escaped := strings.ReplaceAll(script, "]]>", "]]]]><![CDATA[>")

	return strings.Join([]string{
		`<rest:query xmlns:rest="http://basex.org/rest">`,
		`<rest:text><![CDATA[`,
		escaped,
		`]]></rest:text>`,
		`<rest:parameter name="method" value="csv"/>`,
		`<rest:parameter name="media-type" value="text/csv"/>`,
		`<rest:parameter name="csv" value="` + csvParams + `"/>`,
		`</rest:query>`,
	}, "\n")
}
