package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cli struct {
	t    *testing.T
	dir  string
	base []string
}

func newCLI(t *testing.T, driver string) *cli {
	dir := t.TempDir()
	return &cli{t: t, dir: dir, base: []string{
		"--config", filepath.Join(dir, "none.toml"),
		"--data-dir", filepath.Join(dir, "data"),
		"--driver", driver,
		"--log-level", "error",
	}}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(append(append([]string{}, args...), c.base...))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("%v: %v", args, err)
	}
	return out
}

func (c *cli) file(name, body string) string {
	c.t.Helper()
	p := filepath.Join(c.dir, name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		c.t.Fatal(err)
	}
	return p
}

const landingYAML = `
sections:
  - id: hero
    name: Hero
    elements:
      - id: title
        column: 1
        columnSpan: 4
        type: primitive
        properties:
          text: Welcome
  - id: pricing
    elements: []
config:
  textSize: md
  margin: {x: auto, y: "0"}
  plr: 0
  ptb: 0
`

func TestImportExportQueryList(t *testing.T) {
	for _, driver := range []string{"diskv", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			c := newCLI(t, driver)
			src := c.file("landing.yaml", landingYAML)

			c.mustRun("import", "landing", src)

			if out := c.mustRun("export", "landing"); !strings.Contains(out, `"id": "hero"`) {
				t.Errorf("json export = %s", out)
			}
			if out := c.mustRun("export", "landing", "--format", "yaml"); !strings.Contains(out, "name: Hero") {
				t.Errorf("yaml export = %s", out)
			}
			if out := c.mustRun("query", "landing", "sections.#.id"); strings.TrimSpace(out) != `["hero","pricing"]` {
				t.Errorf("query = %q", out)
			}
			if _, err := c.run("query", "landing", "footer.image"); err == nil {
				t.Error("query without a match should fail")
			}
			if out := c.mustRun("list"); !strings.Contains(out, "landing") || !strings.HasPrefix(out, "NAME") {
				t.Errorf("list = %q", out)
			}
		})
	}
}

func TestImportRejectsInvalidDocument(t *testing.T) {
	c := newCLI(t, "diskv")
	src := c.file("bad.json", `{"sections":[{"id":"a","elements":[]},{"id":"a","elements":[]}]}`)

	if _, err := c.run("import", "bad", src); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("import error = %v", err)
	}
	if _, err := c.run("export", "bad"); err == nil {
		t.Error("rejected document was stored")
	}
}

func TestRunScript(t *testing.T) {
	c := newCLI(t, "diskv")
	c.mustRun("import", "landing", c.file("landing.yaml", landingYAML))
	script := c.file("tidy.lua", `
		page.reorder("pricing", "hero")
		page.rename("pricing", "Plans")
	`)

	out := c.mustRun("run", "landing", script, "--dry-run")
	if !strings.Contains(out, "2 change(s)") {
		t.Errorf("dry run output = %q", out)
	}
	if got := strings.TrimSpace(c.mustRun("query", "landing", "sections.0.id")); got != "hero" {
		t.Errorf("dry run saved: first section = %q", got)
	}

	c.mustRun("run", "landing", script)
	if got := strings.TrimSpace(c.mustRun("query", "landing", "sections.0.name")); got != "Plans" {
		t.Errorf("first section name = %q, want Plans", got)
	}
}

func TestCSSAndDelete(t *testing.T) {
	c := newCLI(t, "sqlite")
	c.mustRun("import", "landing", c.file("landing.json", `{
		"sections": [{"id": "hero", "elements": [], "config": {"margin": {"x": "8", "y": "0"}, "plr": 4, "ptb": 0}}],
		"config": {"customBackground": true, "backgroundColor": "#fafafa", "margin": {"x": "auto", "y": "0"}, "plr": 0, "ptb": 0}
	}`))

	out := c.mustRun("css", "landing")
	for _, want := range []string{".page {", "--custom-background-color: #fafafa;", "#row-hero {", "--custom-padding-left: 4px;", "margin: 0 8px;"} {
		if !strings.Contains(out, want) {
			t.Errorf("css output missing %q:\n%s", want, out)
		}
	}

	c.mustRun("delete", "landing")
	if _, err := c.run("export", "landing"); err == nil {
		t.Error("export after delete should fail")
	}
}

func TestVersion(t *testing.T) {
	c := newCLI(t, "diskv")
	if out := c.mustRun("version", "--short"); strings.TrimSpace(out) != version {
		t.Errorf("version --short = %q", out)
	}
	if out := c.mustRun("version"); !strings.HasPrefix(out, "pagecraft ") {
		t.Errorf("version = %q", out)
	}
}

func TestUnknownFormat(t *testing.T) {
	c := newCLI(t, "diskv")
	c.mustRun("import", "landing", c.file("landing.yaml", landingYAML))
	if _, err := c.run("export", "landing", "--format", "xml"); err == nil {
		t.Error("export --format xml should fail")
	}
}
