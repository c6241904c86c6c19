package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hermannm.dev/gcamquery/query"
)

func TestFormatList(t *testing.T) {
	assert.Equal(t, "()", query.FormatList())
	assert.Equal(t, "()", query.FormatList([]string{}...))
	assert.Equal(t, "('USA')", query.FormatList("USA"))
	assert.Equal(t, "('Reference','Policy')", query.FormatList("Reference", "Policy"))
	assert.Equal(t, "('a','b','c')", query.FormatList([]string{"a", "b", "c"}...))
}

func TestStripNewlines(t *testing.T) {
	assert.Equal(t, "<query><axis/></query>", query.StripNewlines("<query>\n<axis/>\r\n</query>\n"))
}

func TestBuildInvocationScript(t *testing.T) {
	def := query.Definition{
		Title: "Land Allocation",
		Body:  "<supplyDemandQuery title=\"Land Allocation\">\n<axis1>LandLeaf</axis1>\n</supplyDemandQuery>",
	}

	invocation := query.BuildInvocation(def, query.Filters{
		Scenarios: []string{"Reference"},
		Regions:   []string{"USA"},
	})

	expected := "import module namespace mi = 'ModelInterface.ModelGUI2.xmldb.RunMIQuery';" +
		"mi:runMIQuery(" +
		`<supplyDemandQuery title="Land Allocation"><axis1>LandLeaf</axis1></supplyDemandQuery>` +
		",('Reference'),('USA'))"
	assert.Equal(t, expected, invocation.Script)
}

func TestBuildInvocationIsDeterministic(t *testing.T) {
	def := query.Definition{Title: "t", Body: "<q title=\"t\"/>", RegionFilter: []string{"USA"}}
	filters := query.Filters{Scenarios: []string{"a", "b"}}

	first := query.BuildInvocation(def, filters)
	second := query.BuildInvocation(def, filters)
	assert.Equal(t, first.Script, second.Script)
}

func TestBuildInvocationRegionResolution(t *testing.T) {
	withBuiltinFilter := query.Definition{
		Title:        "t",
		Body:         "<q title=\"t\"/>",
		RegionFilter: []string{"USA", "Canada"},
	}

	t.Run("nil regions fall back to the query's built-in filter", func(t *testing.T) {
		invocation := query.BuildInvocation(withBuiltinFilter, query.Filters{Regions: nil})
		assert.Equal(t, []string{"USA", "Canada"}, invocation.Regions)
		assert.Contains(t, invocation.Script, "('USA','Canada')")
	})

	t.Run("explicit regions override the built-in filter", func(t *testing.T) {
		invocation := query.BuildInvocation(
			withBuiltinFilter, query.Filters{Regions: []string{"Brazil"}},
		)
		assert.Equal(t, []string{"Brazil"}, invocation.Regions)
		assert.Contains(t, invocation.Script, "('Brazil')")
	})

	t.Run("explicit empty regions remove filtering entirely", func(t *testing.T) {
		invocation := query.BuildInvocation(withBuiltinFilter, query.Filters{Regions: []string{}})
		assert.Contains(t, invocation.Script, ",())")
		assert.NotContains(t, invocation.Script, "USA")
	})

	t.Run("no filter anywhere means all regions", func(t *testing.T) {
		noFilter := query.Definition{Title: "t", Body: "<q title=\"t\"/>"}
		invocation := query.BuildInvocation(noFilter, query.Filters{})
		assert.Contains(t, invocation.Script, ",(),())")
	})
}

func TestRESTEnvelope(t *testing.T) {
	envelope := query.RESTEnvelope("mi:runMIQuery(<q/>,(),())", true)

	assert.Contains(t, envelope, `<rest:query xmlns:rest="http://basex.org/rest">`)
	assert.Contains(t, envelope, "<rest:text><![CDATA[\nmi:runMIQuery(<q/>,(),())\n]]></rest:text>")
	assert.Contains(t, envelope, `<rest:parameter name="method" value="csv"/>`)
	assert.Contains(t, envelope, `<rest:parameter name="media-type" value="text/csv"/>`)
	assert.Contains(t, envelope, `<rest:parameter name="csv" value="header=yes,format=xquery"/>`)
}

func TestRESTEnvelopeWithoutXQueryFormat(t *testing.T) {
	envelope := query.RESTEnvelope(query.ScenarioListScript, false)
	assert.Contains(t, envelope, `<rest:parameter name="csv" value="header=yes"/>`)
	assert.NotContains(t, envelope, "format=xquery")
}

func TestRESTEnvelopeEscapesCDATATerminator(t *testing.T) {
	script := "mi:runMIQuery(<q><![CDATA[x]]></q>,(),())"
	envelope := query.RESTEnvelope(script, true)

	// The script's own ]]> must be split so it does not terminate the envelope's CDATA
	// block early.
	assert.Contains(t, envelope, "<![CDATA[x]]]]><![CDATA[></q>")
	require.NotContains(t, envelope, "<![CDATA[x]]></q>")
}
