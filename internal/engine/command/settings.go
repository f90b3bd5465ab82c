package command

import (
	"fmt"

	"github.com/dshills/pagecraft/internal/engine/page"
	"github.com/dshills/pagecraft/internal/event/events"
	"github.com/dshills/pagecraft/internal/style"
)

// dependents maps each custom toggle to the value it guards.
var dependents = []struct {
	toggle page.Field
	value  page.Field
}{
	{page.FieldCustomBackground, page.FieldBackgroundColor},
	{page.FieldCustomTextColor, page.FieldTextColor},
	{page.FieldCustomTextSize, page.FieldTextSize},
}

// ChangedFields returns the fields that differ between next and prev.
func ChangedFields(next, prev page.Config) []page.Field {
	return page.Diff(next, prev)
}

// BuildPatch returns the minimal update that moves a listener from prev to
// next. It holds the changed fields plus, for each toggle that changed, the
// value the toggle guards: the current value when switched on, cleared when
// switched off.
func BuildPatch(next, prev page.Config, changed []page.Field) page.ConfigUpdate {
	var patch page.ConfigUpdate
	patch.Pick(next, changed...)

	for _, d := range dependents {
		if !patch.Has(d.toggle) {
			continue
		}
		patch.Pick(next, d.value)
		if !toggleOn(next, d.toggle) {
			clearValue(&patch, d.value)
		}
	}
	return patch
}

func toggleOn(c page.Config, f page.Field) bool {
	switch f {
	case page.FieldCustomBackground:
		return c.CustomBackground
	case page.FieldCustomTextColor:
		return c.CustomTextColor
	case page.FieldCustomTextSize:
		return c.CustomTextSize
	}
	return false
}

func clearValue(u *page.ConfigUpdate, f page.Field) {
	empty := ""
	switch f {
	case page.FieldBackgroundColor:
		u.BackgroundColor = &empty
	case page.FieldTextColor:
		u.TextColor = &empty
	case page.FieldTextSize:
		size := page.TextSize("")
		u.TextSize = &size
	}
}

// UpdateSettings applies a partial configuration to the page or to one
// section.
type UpdateSettings struct {
	env       Env
	sectionID string
	old, new  page.Config

	// Section overrides before a page-scope change, nil meaning inherited.
	sections map[string]*page.Config

	// Override of the target section before a section-scope change.
	override *page.Config
}

// NewUpdateSettings captures the current configuration of the scope and
// merges req over it. An empty sectionID selects the page.
func NewUpdateSettings(env Env, sectionID string, req page.ConfigUpdate) (*UpdateSettings, error) {
	c := &UpdateSettings{env: env, sectionID: sectionID}

	if sectionID == "" {
		c.old = env.Store.Config()
		c.sections = make(map[string]*page.Config)
		for _, id := range env.Store.SectionIDs() {
			cfg, _ := env.Store.SectionConfig(id)
			c.sections[id] = cfg
		}
	} else {
		cfg, ok := env.Store.EffectiveConfig(sectionID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", page.ErrSectionNotFound, sectionID)
		}
		c.old = cfg
		c.override, _ = env.Store.SectionConfig(sectionID)
	}
	if req.TextSize != nil && *req.TextSize != "" && !req.TextSize.Valid() {
		return nil, fmt.Errorf("invalid text size %q", *req.TextSize)
	}
	c.new = c.old.Apply(req)
	return c, nil
}

// Patch returns the patch Execute emits.
func (c *UpdateSettings) Patch() page.ConfigUpdate {
	return BuildPatch(c.new, c.old, ChangedFields(c.new, c.old))
}

// Execute applies the new configuration.
func (c *UpdateSettings) Execute() error {
	return c.apply(c.new, c.old, false)
}

// Undo restores the old configuration and, for the page scope, every
// section override captured at construction.
func (c *UpdateSettings) Undo() error {
	return c.apply(c.old, c.new, true)
}

// Redo is identical to Execute.
func (c *UpdateSettings) Redo() error {
	return c.Execute()
}

// Description returns a human-readable description.
func (c *UpdateSettings) Description() string {
	if c.sectionID == "" {
		return "Update page settings"
	}
	return fmt.Sprintf("Update settings of section %s", c.sectionID)
}

func (c *UpdateSettings) apply(next, prev page.Config, restore bool) error {
	store := c.env.Store
	if c.sectionID != "" && !store.HasSection(c.sectionID) {
		return fmt.Errorf("%w: %s", page.ErrSectionNotFound, c.sectionID)
	}

	changed := ChangedFields(next, prev)
	patch := BuildPatch(next, prev, changed)

	if c.env.Styles != nil {
		style.Apply(c.env.Styles.Target(c.sectionID), next, changed)
	}

	payload := events.PageConfigChanged{SectionID: c.sectionID, Patch: patch}

	if c.sectionID != "" {
		cfg := &next
		if restore {
			cfg = c.override
		}
		store.SetSectionConfig(c.sectionID, cfg)
	} else {
		store.SetConfig(next)
		if restore {
			payload.SectionConfigs = c.restoreSections()
		} else {
			c.cascade(patch, changed)
		}
	}

	n := c.env.notifier()
	n.PageBackgroundChanged(events.PageBackgroundChanged{
		SectionID:  c.sectionID,
		Background: style.Resolve(next),
	})
	n.PageConfigChanged(payload)
	return nil
}

// cascade merges a page patch into every section that has its own override
// and restyles the sections that inherit the page config.
func (c *UpdateSettings) cascade(patch page.ConfigUpdate, changed []page.Field) {
	store := c.env.Store
	for _, id := range store.SectionIDs() {
		eff, _ := store.EffectiveConfig(id)
		if cfg, _ := store.SectionConfig(id); cfg != nil {
			eff = cfg.Apply(patch)
			store.SetSectionConfig(id, &eff)
		}
		if c.env.Styles != nil {
			style.Apply(c.env.Styles.Target(id), eff, changed)
		}
	}
}

// restoreSections puts back the captured overrides of the sections that
// still exist and returns them.
func (c *UpdateSettings) restoreSections() map[string]*page.Config {
	store := c.env.Store
	out := make(map[string]*page.Config, len(c.sections))
	for id, cfg := range c.sections {
		if !store.SetSectionConfig(id, cfg) {
			continue
		}
		out[id] = cfg.Clone()
		if c.env.Styles != nil {
			eff, _ := store.EffectiveConfig(id)
			style.Sync(c.env.Styles.Target(id), eff)
		}
	}
	return out
}
