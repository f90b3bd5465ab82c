package events

import (
	"context"

	"github.com/dshills/pagecraft/internal/engine/page"
	"github.com/dshills/pagecraft/internal/event"
	"github.com/dshills/pagecraft/internal/event/topic"
	"github.com/dshills/pagecraft/internal/style"
)

// Page event topics.
const (
	// TopicSectionsChanged is published with the full ordered section list.
	TopicSectionsChanged topic.Topic = "page.sections.changed"

	// TopicSectionSelected is published when a section becomes the focus.
	TopicSectionSelected topic.Topic = "page.section.selected"

	// TopicScrollToSection asks views to bring a section into view.
	TopicScrollToSection topic.Topic = "page.section.scroll"

	// TopicPageConfigChanged is published with a minimal configuration patch.
	TopicPageConfigChanged topic.Topic = "page.config.changed"

	// TopicPageBackgroundChanged is published with resolved style values.
	TopicPageBackgroundChanged topic.Topic = "page.background.changed"

	// TopicFooterChanged is published when the footer is replaced.
	TopicFooterChanged topic.Topic = "page.footer.changed"

	// TopicHeaderChanged is published when the header is replaced.
	TopicHeaderChanged topic.Topic = "page.header.changed"

	// TopicElementChanged is published when an element's properties change.
	TopicElementChanged topic.Topic = "page.element.changed"
)

// SectionsChanged carries the new section list.
type SectionsChanged struct {
	Sections []*page.Section
}

// SectionSelected names the selected section.
type SectionSelected struct {
	SectionID string
}

// ScrollToSection names the section to bring into view.
type ScrollToSection struct {
	SectionID string
}

// PageConfigChanged carries the patch of a settings change.
//
// SectionID is empty for the page scope. SectionConfigs is only set when a
// page-scope change is undone: it holds the section overrides to restore,
// with nil meaning "inherit the page configuration".
type PageConfigChanged struct {
	SectionID      string
	Patch          page.ConfigUpdate
	SectionConfigs map[string]*page.Config
}

// PageBackgroundChanged carries the resolved style of the page or a section.
type PageBackgroundChanged struct {
	SectionID  string
	Background style.Background
}

// FooterChanged is published when the footer is replaced.
type FooterChanged struct{}

// HeaderChanged is published when the header is replaced.
type HeaderChanged struct{}

// ElementChanged names the element whose properties changed.
type ElementChanged struct {
	SectionID string
	ElementID string
}

// Notifier is the typed dispatch interface used by commands and the menu.
type Notifier interface {
	SectionsChanged(SectionsChanged)
	SectionSelected(SectionSelected)
	ScrollToSection(ScrollToSection)
	PageConfigChanged(PageConfigChanged)
	PageBackgroundChanged(PageBackgroundChanged)
	FooterChanged(FooterChanged)
	HeaderChanged(HeaderChanged)
	ElementChanged(ElementChanged)
}

// BusNotifier publishes notifications as typed events on a bus.
type BusNotifier struct {
	pub *event.Publisher
}

// NewBusNotifier creates a notifier publishing on bus with the given source.
func NewBusNotifier(bus event.Bus, source string) *BusNotifier {
	return &BusNotifier{pub: event.NewPublisher(bus, source)}
}

// publish delivers synchronously. Topics are constants, so Publish cannot
// reject the event, and handler failures stay on the bus.
func publish[T any](n *BusNotifier, t topic.Topic, payload T) {
	_ = event.PublishEvent(context.Background(), n.pub, t, payload)
}

func (n *BusNotifier) SectionsChanged(p SectionsChanged) { publish(n, TopicSectionsChanged, p) }
func (n *BusNotifier) SectionSelected(p SectionSelected) { publish(n, TopicSectionSelected, p) }
func (n *BusNotifier) ScrollToSection(p ScrollToSection) { publish(n, TopicScrollToSection, p) }
func (n *BusNotifier) PageConfigChanged(p PageConfigChanged) {
	publish(n, TopicPageConfigChanged, p)
}
func (n *BusNotifier) PageBackgroundChanged(p PageBackgroundChanged) {
	publish(n, TopicPageBackgroundChanged, p)
}
func (n *BusNotifier) FooterChanged(p FooterChanged)   { publish(n, TopicFooterChanged, p) }
func (n *BusNotifier) HeaderChanged(p HeaderChanged)   { publish(n, TopicHeaderChanged, p) }
func (n *BusNotifier) ElementChanged(p ElementChanged) { publish(n, TopicElementChanged, p) }

// Discard is a Notifier that drops every notification.
var Discard Notifier = discard{}

type discard struct{}

func (discard) SectionsChanged(SectionsChanged)             {}
func (discard) SectionSelected(SectionSelected)             {}
func (discard) ScrollToSection(ScrollToSection)             {}
func (discard) PageConfigChanged(PageConfigChanged)         {}
func (discard) PageBackgroundChanged(PageBackgroundChanged) {}
func (discard) FooterChanged(FooterChanged)                 {}
func (discard) HeaderChanged(HeaderChanged)                 {}
func (discard) ElementChanged(ElementChanged)               {}
