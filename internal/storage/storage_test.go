package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/dshills/pagecraft/internal/config"
	"github.com/dshills/pagecraft/internal/engine/page"
)

func sampleDocument() *page.Document {
	doc := page.NewDocument()
	doc.Config.BackgroundColor = "#fafafa"
	doc.Config.CustomBackground = true
	hero := page.NewSection("hero", page.NewPrimitive("title", 1, 4, page.Properties{"text": "Hello"}))
	hero.Name = "Hero"
	override := page.Config{TextSize: page.TextSizeXL, CustomTextSize: true}
	hero.Config = &override
	doc.Sections = []*page.Section{
		hero,
		page.NewSection("grid", page.NewComposite("g", 1, 4, nil,
			page.NewPrimitive("cell", 1, 2, nil),
		)),
	}
	doc.Footer = page.DefaultFooter("foot")
	return doc
}

func repositories(t *testing.T) map[string]Repository {
	t.Helper()
	dir := t.TempDir()
	out := map[string]Repository{}
	for _, driver := range []string{config.DriverDiskv, config.DriverSQLite} {
		repo, err := Open(config.StorageConfig{Driver: driver, Path: dir})
		if err != nil {
			t.Fatalf("Open(%s) = %v", driver, err)
		}
		t.Cleanup(func() { repo.Close() })
		out[driver] = repo
	}
	return out
}

func TestRepositorySaveLoad(t *testing.T) {
	ctx := context.Background()
	for driver, repo := range repositories(t) {
		t.Run(driver, func(t *testing.T) {
			doc := sampleDocument()
			if err := repo.Save(ctx, "home", doc); err != nil {
				t.Fatalf("Save() = %v", err)
			}
			got, err := repo.Load(ctx, "home")
			if err != nil {
				t.Fatalf("Load() = %v", err)
			}
			if ids := sectionIDs(got); !reflect.DeepEqual(ids, []string{"hero", "grid"}) {
				t.Errorf("sections = %v", ids)
			}
			if got.Sections[0].Config == nil || got.Sections[0].Config.TextSize != page.TextSizeXL {
				t.Errorf("section override lost: %+v", got.Sections[0].Config)
			}
			if got.Config.BackgroundColor != "#fafafa" || got.Footer.IsEmpty() {
				t.Errorf("document = %+v", got)
			}

			doc.Sections = doc.Sections[:1]
			if err := repo.Save(ctx, "home", doc); err != nil {
				t.Fatal(err)
			}
			got, _ = repo.Load(ctx, "home")
			if len(got.Sections) != 1 {
				t.Errorf("overwrite not applied: %d sections", len(got.Sections))
			}
		})
	}
}

func TestRepositoryListDelete(t *testing.T) {
	ctx := context.Background()
	for driver, repo := range repositories(t) {
		t.Run(driver, func(t *testing.T) {
			for _, name := range []string{"zeta", "alpha"} {
				if err := repo.Save(ctx, name, page.NewDocument()); err != nil {
					t.Fatal(err)
				}
			}
			list, err := repo.List(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(list) != 2 || list[0].Name != "alpha" || list[1].Name != "zeta" {
				t.Fatalf("List() = %+v", list)
			}
			if list[0].Size == 0 || list[0].UpdatedAt.IsZero() {
				t.Errorf("info incomplete: %+v", list[0])
			}

			if err := repo.Delete(ctx, "alpha"); err != nil {
				t.Fatal(err)
			}
			if err := repo.Delete(ctx, "alpha"); err != nil {
				t.Errorf("second Delete() = %v", err)
			}
			if _, err := repo.Load(ctx, "alpha"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Load(deleted) = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestRepositoryRejectsBadNames(t *testing.T) {
	ctx := context.Background()
	for driver, repo := range repositories(t) {
		t.Run(driver, func(t *testing.T) {
			for _, name := range []string{"", "../escape", ".hidden", "a/b"} {
				if err := repo.Save(ctx, name, page.NewDocument()); !errors.Is(err, ErrInvalidName) {
					t.Errorf("Save(%q) = %v, want ErrInvalidName", name, err)
				}
			}
		})
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(config.StorageConfig{Driver: "bolt", Path: t.TempDir()}); err == nil {
		t.Error("unknown driver accepted")
	}
}

func TestCodecs(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			c, err := CodecFor(format)
			if err != nil {
				t.Fatal(err)
			}
			data, err := c.Marshal(sampleDocument())
			if err != nil {
				t.Fatal(err)
			}
			doc, err := Decode(c, data)
			if err != nil {
				t.Fatalf("Decode() = %v", err)
			}
			e := page.Find(doc.Sections[0].Elements, "title")
			if e == nil || e.Properties["text"] != "Hello" {
				t.Errorf("element = %+v", e)
			}
			if doc.Sections[1].Elements[0].Kind != page.Composite {
				t.Errorf("kind = %q", doc.Sections[1].Elements[0].Kind)
			}
		})
	}
	if _, err := CodecFor("xml"); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestCodecsKeepEmptyTextSize(t *testing.T) {
	for _, c := range []Codec{JSON, YAML} {
		t.Run(c.Name(), func(t *testing.T) {
			doc := sampleDocument()
			doc.Config.TextSize = ""
			data, err := c.Marshal(doc)
			if err != nil {
				t.Fatal(err)
			}
			got, err := Decode(c, data)
			if err != nil {
				t.Fatal(err)
			}
			if got.Config.TextSize != "" {
				t.Errorf("page textSize = %q, want empty", got.Config.TextSize)
			}
			if got.Sections[0].Config.TextSize != page.TextSizeXL {
				t.Errorf("hero textSize = %q", got.Sections[0].Config.TextSize)
			}
		})
	}
}

func TestDecodeRejectsInvalidDocument(t *testing.T) {
	data := []byte(`{"sections":[{"id":"a","elements":[]},{"id":"a","elements":[]}],"config":{"margin":{"x":"auto","y":"0"}}}`)
	if _, err := Decode(JSON, data); !errors.Is(err, page.ErrDuplicateSection) {
		t.Errorf("Decode() = %v, want ErrDuplicateSection", err)
	}
	if _, err := Decode(JSON, []byte("{")); err == nil {
		t.Error("truncated JSON accepted")
	}
}

func sectionIDs(doc *page.Document) []string {
	ids := make([]string, len(doc.Sections))
	for i, s := range doc.Sections {
		ids[i] = s.ID
	}
	return ids
}
