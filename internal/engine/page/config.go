package page

// TextSize is the discrete text-size scale applied through font classes.
type TextSize string

// Text sizes, smallest first.
const (
	TextSizeXS TextSize = "xs"
	TextSizeSM TextSize = "sm"
	TextSizeMD TextSize = "md"
	TextSizeLG TextSize = "lg"
	TextSizeXL TextSize = "xl"
)

// DefaultTextSize is used when no size has been chosen.
const DefaultTextSize = TextSizeMD

// TextSizes lists every text size in scale order.
var TextSizes = []TextSize{TextSizeXS, TextSizeSM, TextSizeMD, TextSizeLG, TextSizeXL}

// Valid reports whether s is on the scale.
func (s TextSize) Valid() bool {
	for _, t := range TextSizes {
		if s == t {
			return true
		}
	}
	return false
}

// OrDefault returns s, or DefaultTextSize when s is empty.
func (s TextSize) OrDefault() TextSize {
	if s == "" {
		return DefaultTextSize
	}
	return s
}

// Margin is the horizontal/vertical margin pair of a page or section.
type Margin struct {
	X string `json:"x" yaml:"x"`
	Y string `json:"y" yaml:"y"`
}

// Config holds the visual configuration of the page or of one section.
// Values guarded by a Custom* flag only take effect while the flag is set.
type Config struct {
	BackgroundColor  string   `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
	BackgroundImage  string   `json:"backgroundImage,omitempty" yaml:"backgroundImage,omitempty"`
	CustomBackground bool     `json:"customBackground,omitempty" yaml:"customBackground,omitempty"`
	TextColor        string   `json:"textColor,omitempty" yaml:"textColor,omitempty"`
	CustomTextColor  bool     `json:"customTextColor,omitempty" yaml:"customTextColor,omitempty"`
	TextSize         TextSize `json:"textSize" yaml:"textSize"`
	CustomTextSize   bool     `json:"customTextSize,omitempty" yaml:"customTextSize,omitempty"`
	Margin           Margin   `json:"margin" yaml:"margin"`
	PLR              int      `json:"plr" yaml:"plr"`
	PTB              int      `json:"ptb" yaml:"ptb"`
}

// DefaultConfig returns the page defaults used by a new document.
func DefaultConfig() Config {
	return Config{
		TextSize: DefaultTextSize,
		Margin:   Margin{X: "auto", Y: "0"},
	}
}

// Field names a configuration property.
type Field string

// Configuration fields, named as on the wire.
const (
	FieldBackgroundColor  Field = "backgroundColor"
	FieldBackgroundImage  Field = "backgroundImage"
	FieldCustomBackground Field = "customBackground"
	FieldTextColor        Field = "textColor"
	FieldCustomTextColor  Field = "customTextColor"
	FieldTextSize         Field = "textSize"
	FieldCustomTextSize   Field = "customTextSize"
	FieldMargin           Field = "margin"
	FieldPLR              Field = "plr"
	FieldPTB              Field = "ptb"
)

// Fields lists every configuration field in declaration order.
var Fields = []Field{
	FieldBackgroundColor,
	FieldBackgroundImage,
	FieldCustomBackground,
	FieldTextColor,
	FieldCustomTextColor,
	FieldTextSize,
	FieldCustomTextSize,
	FieldMargin,
	FieldPLR,
	FieldPTB,
}

// ConfigUpdate is a partial configuration. A nil field is absent.
// It is both the shape of a settings request and of an emitted patch.
type ConfigUpdate struct {
	BackgroundColor  *string   `json:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
	BackgroundImage  *string   `json:"backgroundImage,omitempty" yaml:"backgroundImage,omitempty"`
	CustomBackground *bool     `json:"customBackground,omitempty" yaml:"customBackground,omitempty"`
	TextColor        *string   `json:"textColor,omitempty" yaml:"textColor,omitempty"`
	CustomTextColor  *bool     `json:"customTextColor,omitempty" yaml:"customTextColor,omitempty"`
	TextSize         *TextSize `json:"textSize,omitempty" yaml:"textSize,omitempty"`
	CustomTextSize   *bool     `json:"customTextSize,omitempty" yaml:"customTextSize,omitempty"`
	Margin           *Margin   `json:"margin,omitempty" yaml:"margin,omitempty"`
	PLR              *int      `json:"plr,omitempty" yaml:"plr,omitempty"`
	PTB              *int      `json:"ptb,omitempty" yaml:"ptb,omitempty"`
}

// Has reports whether the field is present in the update.
func (u ConfigUpdate) Has(f Field) bool {
	switch f {
	case FieldBackgroundColor:
		return u.BackgroundColor != nil
	case FieldBackgroundImage:
		return u.BackgroundImage != nil
	case FieldCustomBackground:
		return u.CustomBackground != nil
	case FieldTextColor:
		return u.TextColor != nil
	case FieldCustomTextColor:
		return u.CustomTextColor != nil
	case FieldTextSize:
		return u.TextSize != nil
	case FieldCustomTextSize:
		return u.CustomTextSize != nil
	case FieldMargin:
		return u.Margin != nil
	case FieldPLR:
		return u.PLR != nil
	case FieldPTB:
		return u.PTB != nil
	}
	return false
}

// Fields returns the present fields in declaration order.
func (u ConfigUpdate) Fields() []Field {
	var out []Field
	for _, f := range Fields {
		if u.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// IsEmpty reports whether no field is present.
func (u ConfigUpdate) IsEmpty() bool {
	return len(u.Fields()) == 0
}

// Apply shallow-merges u over c and returns the result.
func (c Config) Apply(u ConfigUpdate) Config {
	if u.BackgroundColor != nil {
		c.BackgroundColor = *u.BackgroundColor
	}
	if u.BackgroundImage != nil {
		c.BackgroundImage = *u.BackgroundImage
	}
	if u.CustomBackground != nil {
		c.CustomBackground = *u.CustomBackground
	}
	if u.TextColor != nil {
		c.TextColor = *u.TextColor
	}
	if u.CustomTextColor != nil {
		c.CustomTextColor = *u.CustomTextColor
	}
	if u.TextSize != nil {
		c.TextSize = *u.TextSize
	}
	if u.CustomTextSize != nil {
		c.CustomTextSize = *u.CustomTextSize
	}
	if u.Margin != nil {
		c.Margin = *u.Margin
	}
	if u.PLR != nil {
		c.PLR = *u.PLR
	}
	if u.PTB != nil {
		c.PTB = *u.PTB
	}
	return c
}

// Pick copies the named fields of c into u. Fields already present are
// overwritten.
func (u *ConfigUpdate) Pick(c Config, fields ...Field) {
	for _, f := range fields {
		switch f {
		case FieldBackgroundColor:
			v := c.BackgroundColor
			u.BackgroundColor = &v
		case FieldBackgroundImage:
			v := c.BackgroundImage
			u.BackgroundImage = &v
		case FieldCustomBackground:
			v := c.CustomBackground
			u.CustomBackground = &v
		case FieldTextColor:
			v := c.TextColor
			u.TextColor = &v
		case FieldCustomTextColor:
			v := c.CustomTextColor
			u.CustomTextColor = &v
		case FieldTextSize:
			v := c.TextSize
			u.TextSize = &v
		case FieldCustomTextSize:
			v := c.CustomTextSize
			u.CustomTextSize = &v
		case FieldMargin:
			v := c.Margin
			u.Margin = &v
		case FieldPLR:
			v := c.PLR
			u.PLR = &v
		case FieldPTB:
			v := c.PTB
			u.PTB = &v
		}
	}
}

// Diff returns the fields whose values differ between next and prev, in
// declaration order. The margin pair counts as one field and differs when
// either component does.
func Diff(next, prev Config) []Field {
	var out []Field
	add := func(f Field, changed bool) {
		if changed {
			out = append(out, f)
		}
	}
	add(FieldBackgroundColor, next.BackgroundColor != prev.BackgroundColor)
	add(FieldBackgroundImage, next.BackgroundImage != prev.BackgroundImage)
	add(FieldCustomBackground, next.CustomBackground != prev.CustomBackground)
	add(FieldTextColor, next.TextColor != prev.TextColor)
	add(FieldCustomTextColor, next.CustomTextColor != prev.CustomTextColor)
	add(FieldTextSize, next.TextSize != prev.TextSize)
	add(FieldCustomTextSize, next.CustomTextSize != prev.CustomTextSize)
	add(FieldMargin, next.Margin.X != prev.Margin.X || next.Margin.Y != prev.Margin.Y)
	add(FieldPLR, next.PLR != prev.PLR)
	add(FieldPTB, next.PTB != prev.PTB)
	return out
}

// Clone returns a copy of c, or nil.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}
