package render

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/kitesidebar/internal/dom"
	"github.com/dgallion1/kitesidebar/internal/report"
)

func parseReport(t *testing.T, js string) *report.Report {
	t.Helper()
	r, err := report.ParseSymbolReport([]byte(js), "python;requested")
	require.NoError(t, err)
	return r
}

func fragment(t *testing.T, out string) *html.Node {
	t.Helper()
	root, err := dom.ParseFragment(out)
	require.NoError(t, err)
	return root
}

func sectionOf(t *testing.T, root *html.Node, class string) *html.Node {
	t.Helper()
	sec := dom.Find(root, dom.ByClass(class))
	require.NotNil(t, sec, "missing section %q", class)
	return sec
}

func items(n *html.Node) []*html.Node {
	return dom.FindAll(n, dom.ByTag(atom.Li))
}

const moduleJSON = `{
	"language": "python",
	"symbol": {"id": "python;os", "name": "os", "value": [{
		"id": "python;os", "kind": "module", "repr": "os",
		"details": {"module": {"total_members": 12, "members": [
			{"id": "python;os.path", "name": "path", "value": [{"kind": "module", "synopsis": "Common pathname manipulations."}]},
			{"id": "python;os.getcwd", "name": "getcwd", "value": [{"kind": "function"}]},
			{"id": "python;os.sep", "name": "sep", "value": [{"kind": "instance"}]}
		]}}
	}]},
	"report": {
		"description_html": "<p>Miscellaneous <b>operating system</b> interfaces.</p><script>alert(1)</script>",
		"examples": [{"id": 11, "title": "List files"}, {"id": 12, "title": "Make a directory"}],
		"total_examples": 7,
		"links": [{"url": "https://docs.python.org/3/library/os.html", "title": "os docs"}, {"url": "javascript:alert(1)", "title": "bad"}],
		"total_links": 2
	}
}`

func TestModule(t *testing.T) {
	out, err := Report(parseReport(t, moduleJSON))
	require.NoError(t, err)
	root := fragment(t, out)

	assert.Equal(t, "os module", dom.Text(sectionOf(t, root, "header")))

	mem := sectionOf(t, root, "members")
	lis := items(mem)
	require.Len(t, lis, 3)
	a := dom.Find(lis[0], dom.ByTag(atom.A))
	assert.Equal(t, `command:kite.navigate?%22member/python;os.path%22`, dom.Attr(a, "href"))
	assert.Equal(t, "path", dom.Text(a))
	assert.Equal(t, "module", dom.Text(dom.Find(lis[0], dom.ByClass("type"))))
	assert.Equal(t, "Common pathname manipulations.", dom.Text(dom.Find(lis[0], dom.ByTag(atom.P))))
	assert.Equal(t, "getcwd()", dom.Text(dom.Find(lis[1], dom.ByTag(atom.A))))
	assert.Nil(t, dom.Find(lis[2], dom.ByTag(atom.P)))

	seeAll := dom.Find(dom.Find(mem, dom.ByClass("more")), dom.ByTag(atom.A))
	assert.Equal(t, `command:kite.navigate?%22members-list/python;os%22`, dom.Attr(seeAll, "href"))
	assert.Equal(t, "See all 12 members", dom.Text(seeAll))

	docs := sectionOf(t, root, "docs")
	assert.Equal(t, "Miscellaneous operating system interfaces.", dom.Text(dom.Find(docs, dom.ByClass("description"))))
	assert.Nil(t, dom.Find(docs, dom.ByTag(atom.Script)))

	ex := sectionOf(t, root, "examples")
	exItems := items(ex)
	require.Len(t, exItems, 2)
	assert.Equal(t, `command:kite.navigate?%22example/12%22`, dom.Attr(dom.Find(exItems[1], dom.ByTag(atom.A)), "href"))
	assert.Equal(t, "Make a directory", dom.Text(exItems[1]))
	assert.Equal(t, `command:kite.navigate?%22examples-list/python;os%22`,
		dom.Attr(dom.Find(dom.Find(ex, dom.ByClass("more")), dom.ByTag(atom.A)), "href"))

	linkItems := items(sectionOf(t, root, "links"))
	require.Len(t, linkItems, 2)
	assert.Equal(t, "https://docs.python.org/3/library/os.html", dom.Attr(dom.Find(linkItems[0], dom.ByTag(atom.A)), "href"))
	assert.Equal(t, "", dom.Attr(dom.Find(linkItems[1], dom.ByTag(atom.A)), "href"))
	assert.Nil(t, dom.Find(sectionOf(t, root, "links"), dom.ByClass("more")))

	assert.Nil(t, dom.Find(root, dom.ByClass("usages")))
	assert.Nil(t, dom.Find(root, dom.ByClass("arguments")))
}

const typeJSON = `{
	"language": "python",
	"symbol": {"id": "python;boto.s3.connection.S3Connection", "name": "S3Connection", "value": [{
		"id": "python;boto.s3.connection.S3Connection", "kind": "type", "repr": "boto.s3.connection.S3Connection",
		"details": {"type": {
			"total_members": 2,
			"members": [
				{"id": "python;boto.s3.connection.S3Connection.get_bucket", "name": "get_bucket", "value": [{"kind": "function"}]},
				{"id": "python;boto.s3.connection.S3Connection.DefaultHost", "name": "DefaultHost", "value": [{"kind": "instance"}]}
			],
			"language_details": {"python": {"constructor": {
				"parameters": [
					{"name": "aws_access_key_id", "default_value": [{"repr": "None"}]},
					{"name": "is_secure", "inferred_value": [{"repr": "True", "type": "bool"}], "default_value": [{"repr": "True", "type": "bool"}]},
					{"name": "port", "default_value": [{"repr": "None"}], "synopsis": "Port to connect to."}
				]
			}}}
		}}
	}]},
	"report": {"description_text": "Connects to **S3**."}
}`

func TestModule_Type(t *testing.T) {
	out, err := Report(parseReport(t, typeJSON))
	require.NoError(t, err)
	root := fragment(t, out)

	assert.Equal(t, "boto.s3.connection.S3Connection(aws_access_key_id=None, is_secure=bool, port=None) type",
		dom.Text(sectionOf(t, root, "header")))

	args := items(sectionOf(t, root, "arguments"))
	require.Len(t, args, 3)
	assert.Equal(t, "is_secure", dom.Text(dom.Find(args[1], dom.ByClass("parameter-name"))))
	assert.Equal(t, "bool", dom.Text(dom.Find(args[1], dom.ByClass("type"))))
	assert.Equal(t, "=True", dom.Text(dom.Find(args[1], dom.ByClass("default"))))
	assert.Equal(t, "Port to connect to.", dom.Text(dom.Find(args[2], dom.ByTag(atom.P))))

	assert.Len(t, items(sectionOf(t, root, "members")), 2)
	assert.Nil(t, dom.Find(sectionOf(t, root, "members"), dom.ByClass("more")))

	desc := dom.Find(sectionOf(t, root, "docs"), dom.ByClass("description"))
	require.NotNil(t, desc)
	strong := dom.Find(desc, dom.ByTag(atom.Strong))
	require.NotNil(t, strong, "markdown fallback should render emphasis")
	assert.Equal(t, "S3", dom.Text(strong))
}

const functionJSON = `{
	"language": "python",
	"symbol": {"id": "", "name": "dumps", "value": [{
		"id": "python;json.dumps", "kind": "function", "repr": "json.dumps",
		"details": {"function": {
			"parameters": [
				{"name": "obj"},
				{"name": "skipkeys", "default_value": [{"repr": "False", "type": "bool"}]},
				{"name": "cls", "default_value": [{"repr": "None"}]}
			],
			"return_value": [{"repr": "str", "type": "str"}],
			"language_details": {"python": {
				"vararg": {"name": "args"},
				"kwarg": {"name": "kw"},
				"kwarg_parameters": [{"name": "sort_keys", "inferred_value": [{"type": "bool"}]}]
			}}
		}}
	}]},
	"report": {
		"description_html": "<p>Serialize obj to a JSON formatted str.</p>",
		"usages": [{"code": "json.dumps(data)", "filename": "app.py", "line": 12}],
		"examples": [{"id": 1, "title": "Pretty print"}, {"id": 2, "title": "Sort keys"}],
		"total_examples": 2,
		"definition": {"filename": "json/__init__.py", "line": 183}
	}
}`

func TestFunction(t *testing.T) {
	r := parseReport(t, functionJSON)
	out, err := Report(r)
	require.NoError(t, err)
	root := fragment(t, out)

	assert.Equal(t, "json.dumps(obj, skipkeys=bool, cls=None, *args, **kw) function", dom.Text(sectionOf(t, root, "header")))

	args := sectionOf(t, root, "arguments")
	argItems := items(args)
	require.Len(t, argItems, 6)
	assert.Equal(t, "*args", dom.Text(dom.Find(argItems[3], dom.ByClass("parameter-name"))))
	assert.Equal(t, "sort_keys", dom.Text(dom.Find(argItems[4], dom.ByClass("parameter-name"))))
	assert.Equal(t, "**kw", dom.Text(dom.Find(argItems[5], dom.ByClass("parameter-name"))))
	assert.Equal(t, "Returns str", dom.Text(dom.Find(args, dom.ByClass("returns"))))

	docs := sectionOf(t, root, "docs")
	assert.Equal(t, "Defined in json/__init__.py:183", dom.Text(dom.Find(docs, dom.ByClass("definition"))))

	us := items(sectionOf(t, root, "usages"))
	require.Len(t, us, 1)
	assert.Equal(t, "json.dumps(data)", dom.Text(dom.Find(us[0], dom.ByTag(atom.Code))))
	assert.Equal(t, "app.py:12", dom.Text(dom.Find(us[0], dom.ByClass("usage-location"))))

	ex := sectionOf(t, root, "examples")
	assert.Len(t, items(ex), 2)
	assert.Nil(t, dom.Find(ex, dom.ByClass("more")))

	assert.Nil(t, dom.Find(root, dom.ByClass("members")))
}

func TestFunction_BackfilledIDDrivesSeeAllLinks(t *testing.T) {
	js := `{"symbol": {"id": "", "value": [{"kind": "function", "repr": "f"}]},
		"report": {"examples": [{"id": 1, "title": "a"}], "total_examples": 3}}`
	out, err := Report(parseReport(t, js))
	require.NoError(t, err)

	more := dom.Find(dom.Find(fragment(t, out), dom.ByClass("more")), dom.ByTag(atom.A))
	assert.Equal(t, `command:kite.navigate?%22examples-list/python;requested%22`, dom.Attr(more, "href"))
}

const instanceJSON = `{
	"language": "python",
	"symbol": {"id": "python;test", "name": "test", "value": [{"kind": "%s", "repr": "B()", "type": "B"}]},
	"report": {"description_html": "<p>An instance of B.</p>", "usages": [{"code": "test.run()"}, {"code": "print(test)"}]}
}`

func TestInstanceAndUnknownRenderIdentically(t *testing.T) {
	inst, err := Report(parseReport(t, fmt.Sprintf(instanceJSON, "instance")))
	require.NoError(t, err)
	unk, err := Report(parseReport(t, fmt.Sprintf(instanceJSON, "unknown")))
	require.NoError(t, err)
	assert.Equal(t, inst, unk)

	root := fragment(t, inst)
	assert.Equal(t, "test B", dom.Text(sectionOf(t, root, "header")))
	assert.Len(t, items(sectionOf(t, root, "usages")), 2)
	assert.Nil(t, dom.Find(sectionOf(t, root, "usages"), dom.ByClass("usage-location")))
	assert.Nil(t, dom.Find(root, dom.ByClass("examples")))
}

func TestInstance_LabelFallbacks(t *testing.T) {
	js := `{"symbol": {"name": "x", "value": [{"kind": "instance", "details": {"instance": {"type": [{"repr": "list", "type": "list"}]}}}]}}`
	out, err := Report(parseReport(t, js))
	require.NoError(t, err)
	assert.Equal(t, "x list", dom.Text(sectionOf(t, fragment(t, out), "header")))

	js = `{"symbol": {"name": "y", "value": [{"kind": "unknown"}]}}`
	out, err = Report(parseReport(t, js))
	require.NoError(t, err)
	assert.Equal(t, "y unknown", dom.Text(sectionOf(t, fragment(t, out), "header")))
}

func TestReport_MissingOptionalSectionsRenderEmpty(t *testing.T) {
	js := `{"symbol": {"id": "python;f", "value": [{"kind": "function", "repr": "f"}]}}`
	out, err := Report(parseReport(t, js))
	require.NoError(t, err)
	root := fragment(t, out)

	assert.Equal(t, "f() function", dom.Text(sectionOf(t, root, "header")))
	for _, class := range []string{"arguments", "docs", "usages", "examples", "links"} {
		sec := sectionOf(t, root, class)
		assert.Nil(t, sec.FirstChild, "section %q should be empty", class)
	}
}

func TestReport_UnknownKindIsEmpty(t *testing.T) {
	out, err := Report(parseReport(t, `{"symbol": {"value": [{"kind": "descriptor"}]}}`))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestReport_MissingValueIsRenderError(t *testing.T) {
	for _, js := range []string{`{}`, `{"symbol": {"id": "x"}}`, `{"symbol": {"value": []}}`} {
		out, err := Report(parseReport(t, js))
		assert.Empty(t, out)

		var renderErr *RenderError
		assert.True(t, errors.As(err, &renderErr), "input %s: expected RenderError, got %v", js, err)
	}
}

func TestRenderers_DirectCallWithoutValue(t *testing.T) {
	r := &report.Report{}
	for _, fn := range []func(*report.Report) (string, error){Module, Function, Instance} {
		_, err := fn(r)
		var renderErr *RenderError
		assert.True(t, errors.As(err, &renderErr))
	}
}
