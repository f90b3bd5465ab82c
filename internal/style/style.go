// Package style applies page configuration to rendered targets through named
// style variables, size classes and margins.
package style

import (
	"fmt"

	"github.com/dshills/pagecraft/internal/engine/page"
)

// Style variables written by Apply.
const (
	VarBackgroundColor = "--custom-background-color"
	VarBackgroundImage = "--custom-background-image"
	VarTextColor       = "--custom-text-color"
	VarPaddingLeft     = "--custom-padding-left"
	VarPaddingRight    = "--custom-padding-right"
	VarPaddingTop      = "--custom-padding-top"
	VarPaddingBottom   = "--custom-padding-bottom"
)

// Target is a rendered element whose style can be changed.
type Target interface {
	SetProperty(name, value string)
	RemoveProperty(name string)
	AddClass(name string)
	RemoveClass(names ...string)
	SetMargin(m page.Margin)
}

// FontClass returns the class that selects a text size.
func FontClass(s page.TextSize) string {
	return "font-" + string(s.OrDefault())
}

// FontClasses returns the class of every text size.
func FontClasses() []string {
	out := make([]string, len(page.TextSizes))
	for i, s := range page.TextSizes {
		out[i] = FontClass(s)
	}
	return out
}

// Apply updates t for the fields of cfg listed in changed. Values guarded by
// a custom flag are removed while the flag is off.
func Apply(t Target, cfg page.Config, changed []page.Field) {
	has := make(map[page.Field]bool, len(changed))
	for _, f := range changed {
		has[f] = true
	}

	if cfg.CustomBackground {
		if has[page.FieldBackgroundColor] || has[page.FieldCustomBackground] {
			t.SetProperty(VarBackgroundColor, cfg.BackgroundColor)
		}
	} else {
		t.RemoveProperty(VarBackgroundColor)
	}

	if has[page.FieldBackgroundImage] {
		if cfg.BackgroundImage != "" {
			t.SetProperty(VarBackgroundImage, fmt.Sprintf("url(%q)", cfg.BackgroundImage))
		} else {
			t.RemoveProperty(VarBackgroundImage)
		}
	}

	if cfg.CustomTextColor {
		if has[page.FieldTextColor] || has[page.FieldCustomTextColor] {
			t.SetProperty(VarTextColor, cfg.TextColor)
		}
	} else {
		t.RemoveProperty(VarTextColor)
	}

	if cfg.CustomTextSize {
		if has[page.FieldTextSize] || has[page.FieldCustomTextSize] {
			t.RemoveClass(FontClasses()...)
			t.AddClass(FontClass(cfg.TextSize))
		}
	} else {
		t.RemoveClass(FontClasses()...)
	}

	if has[page.FieldPLR] {
		v := fmt.Sprintf("%dpx", cfg.PLR)
		t.SetProperty(VarPaddingLeft, v)
		t.SetProperty(VarPaddingRight, v)
	}
	if has[page.FieldPTB] {
		v := fmt.Sprintf("%dpx", cfg.PTB)
		t.SetProperty(VarPaddingTop, v)
		t.SetProperty(VarPaddingBottom, v)
	}

	if has[page.FieldMargin] {
		t.SetMargin(cfg.Margin)
	}
}

// Sync brings t fully in line with cfg.
func Sync(t Target, cfg page.Config) {
	Apply(t, cfg, page.Fields)
}

// Background holds the resolved visual values of a configuration, as sent
// with background notifications.
type Background struct {
	BackgroundImage  string        `json:"backgroundImage"`
	BackgroundColor  string        `json:"backgroundColor"`
	CustomBackground bool          `json:"customBackground"`
	TextColor        string        `json:"textColor"`
	CustomTextColor  bool          `json:"customTextColor"`
	TextSize         page.TextSize `json:"textSize"`
	CustomTextSize   bool          `json:"customTextSize"`
	PLR              int           `json:"plr"`
	PTB              int           `json:"ptb"`
}

// Resolve computes the effective values of cfg. A value whose custom flag is
// off resolves to empty, and the text size falls back to the default.
func Resolve(cfg page.Config) Background {
	b := Background{
		BackgroundImage:  cfg.BackgroundImage,
		CustomBackground: cfg.CustomBackground,
		CustomTextColor:  cfg.CustomTextColor,
		CustomTextSize:   cfg.CustomTextSize,
		TextSize:         page.DefaultTextSize,
		PLR:              cfg.PLR,
		PTB:              cfg.PTB,
	}
	if cfg.CustomBackground {
		b.BackgroundColor = cfg.BackgroundColor
	}
	if cfg.CustomTextColor {
		b.TextColor = cfg.TextColor
	}
	if cfg.CustomTextSize {
		b.TextSize = cfg.TextSize.OrDefault()
	}
	return b
}
