package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var values = Values{
	WidgetName:  "Foo",
	PackageName: "Foo",
	Version:     "1.2.0",
	Date:        "3/7/2024",
	Copyright:   "2024 Acme",
	License:     "MIT",
	Author:      "Jane Roe",
}

func TestRender_QualifiedBeforeBare(t *testing.T) {
	got := Render("WidgetName.widget.WidgetName and WidgetName", Qualified(values))
	assert.Equal(t, "Foo.widget.Foo and Foo", got)
}

func TestRender_QualifiedUsesPackageName(t *testing.T) {
	v := values
	v.PackageName = "Pkg"
	got := Render(`declare("WidgetName.widget.WidgetName"); require("WidgetName/widget/WidgetName"); WidgetName`, Qualified(v))
	assert.Equal(t, `declare("Pkg.widget.Foo"); require("Pkg/widget/Foo"); Foo`, got)
}

func TestRender_OrderMatters(t *testing.T) {
	v := values
	v.PackageName = "Pkg"
	bareFirst := Rules{
		{Token: TokenIdentifier, Value: v.WidgetName},
		{Token: "WidgetName.widget.WidgetName", Value: "Pkg.widget.Foo"},
	}
	assert.Equal(t, "Foo.widget.Foo", Render("WidgetName.widget.WidgetName", bareFirst))
	assert.Equal(t, "Pkg.widget.Foo", Render("WidgetName.widget.WidgetName", Qualified(v)))
}

func TestRender_Full(t *testing.T) {
	tmpl := `// WidgetName {{version}} ({{date}})
// {{copyright}} {{license}} {{author}}
// again: {{version}}`
	want := `// Foo 1.2.0 (3/7/2024)
// 2024 Acme MIT Jane Roe
// again: 1.2.0`
	assert.Equal(t, want, Render(tmpl, Full(values)))
}

func TestRender_IdentifierLeavesBraceTokens(t *testing.T) {
	got := Render("WidgetName {{version}}", Identifier(values))
	assert.Equal(t, "Foo {{version}}", got)
}

func TestRender_Descriptor(t *testing.T) {
	got := Render(`<clientModule name="WidgetName" version="{{version}}">`, Descriptor(values))
	assert.Equal(t, `<clientModule name="Foo" version="1.2.0">`, got)
}

func TestRenamePath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"src/WidgetName/widget/WidgetName.ts", "src/Foo/widget/Foo.ts"},
		{"src/WidgetName/widget/components/__tests__/WidgetName.spec.ts", "src/Foo/widget/components/__tests__/Foo.spec.ts"},
		{"webpack.config.js", "webpack.config.js"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RenamePath(tt.in, Identifier(values)))
	}
}
