package style

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dshills/pagecraft/internal/engine/page"
)

func TestApplyBackground(t *testing.T) {
	s := NewSheet()
	cfg := page.Config{CustomBackground: true, BackgroundColor: "#000"}
	Apply(s, cfg, []page.Field{page.FieldBackgroundColor})

	if v, ok := s.Property(VarBackgroundColor); !ok || v != "#000" {
		t.Errorf("background var = %q, %v", v, ok)
	}

	cfg.CustomBackground = false
	Apply(s, cfg, []page.Field{page.FieldCustomBackground})
	if _, ok := s.Property(VarBackgroundColor); ok {
		t.Error("background var should be removed when the toggle is off")
	}
}

func TestApplyTextColorKeptWhenUnchanged(t *testing.T) {
	s := NewSheet()
	cfg := page.Config{CustomTextColor: true, TextColor: "red"}
	Sync(s, cfg)

	cfg.PLR = 8
	Apply(s, cfg, []page.Field{page.FieldPLR})

	if v, _ := s.Property(VarTextColor); v != "red" {
		t.Errorf("text color var = %q, want red", v)
	}
	if v, _ := s.Property(VarPaddingLeft); v != "8px" {
		t.Errorf("padding-left = %q, want 8px", v)
	}
	if v, _ := s.Property(VarPaddingRight); v != "8px" {
		t.Errorf("padding-right = %q, want 8px", v)
	}
}

func TestApplyFontClassReplacesPrevious(t *testing.T) {
	s := NewSheet()
	cfg := page.Config{CustomTextSize: true, TextSize: page.TextSizeSM}
	Apply(s, cfg, []page.Field{page.FieldCustomTextSize})

	cfg.TextSize = page.TextSizeXL
	Apply(s, cfg, []page.Field{page.FieldTextSize})

	if got := s.Classes(); !reflect.DeepEqual(got, []string{"font-xl"}) {
		t.Errorf("classes = %v, want [font-xl]", got)
	}

	cfg.CustomTextSize = false
	Apply(s, cfg, []page.Field{page.FieldCustomTextSize})
	if len(s.Classes()) != 0 {
		t.Errorf("classes = %v, want none", s.Classes())
	}
}

func TestApplyMarginAndImage(t *testing.T) {
	s := NewSheet()
	cfg := page.Config{Margin: page.Margin{X: "auto", Y: "10"}, BackgroundImage: "data:image/png;base64,AA=="}
	Apply(s, cfg, []page.Field{page.FieldMargin, page.FieldBackgroundImage})

	if m, ok := s.Margin(); !ok || m != cfg.Margin {
		t.Errorf("margin = %+v, %v", m, ok)
	}
	if v, _ := s.Property(VarBackgroundImage); !strings.HasPrefix(v, "url(") {
		t.Errorf("image var = %q", v)
	}

	cfg.BackgroundImage = ""
	Apply(s, cfg, []page.Field{page.FieldBackgroundImage})
	if _, ok := s.Property(VarBackgroundImage); ok {
		t.Error("image var should be removed for an empty image")
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		cfg  page.Config
		want Background
	}{
		{
			name: "toggles off",
			cfg:  page.Config{BackgroundColor: "#fff", TextColor: "red", TextSize: page.TextSizeLG},
			want: Background{TextSize: page.DefaultTextSize},
		},
		{
			name: "toggles on",
			cfg: page.Config{
				BackgroundColor: "#fff", CustomBackground: true,
				TextColor: "red", CustomTextColor: true,
				TextSize: page.TextSizeLG, CustomTextSize: true,
				PLR: 4, PTB: 2,
			},
			want: Background{
				BackgroundColor: "#fff", CustomBackground: true,
				TextColor: "red", CustomTextColor: true,
				TextSize: page.TextSizeLG, CustomTextSize: true,
				PLR: 4, PTB: 2,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.cfg); got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRegistryCSS(t *testing.T) {
	r := NewRegistry()
	r.Page().SetProperty(VarTextColor, "blue")
	r.Target("s1").SetMargin(page.Margin{X: "auto", Y: "12"})
	r.Target("s1").AddClass(FontClass(page.TextSizeLG))

	if r.Target("") != Target(r.Page()) {
		t.Error("empty id should select the page sheet")
	}

	css := r.CSS()
	for _, want := range []string{".page {", "--custom-text-color: blue;", "#row-s1 {", "/* classes: font-lg */", "margin: 12px auto;"} {
		if !strings.Contains(css, want) {
			t.Errorf("CSS() missing %q:\n%s", want, css)
		}
	}

	r.Remove("s1")
	if strings.Contains(r.CSS(), "#row-s1") {
		t.Error("removed section still rendered")
	}

	r.Target("s2").AddClass("font-sm")
	r.Reset()
	if css := r.CSS(); strings.Contains(css, "#row-s2") || strings.Contains(css, "blue") {
		t.Errorf("CSS() after Reset = %q", css)
	}
}
