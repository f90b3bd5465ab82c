package topic

import "testing"

func TestTopicMatches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		want    bool
	}{
		{"page.sections.changed", "page.sections.changed", true},
		{"page.sections.changed", "page.sections.*", true},
		{"page.sections.changed", "page.*", false},
		{"page.sections.changed", "page.**", true},
		{"page", "page.**", true},
		{"page.section.selected", "*.section.*", true},
		{"config.changed", "**", true},
		{"config.changed", "page.**", false},
		{"page.footer.changed", "page.**.changed", true},
		{"page.footer.changed", "**.footer.**", true},
		{"page.footer", "page.footer.*", false},
		{"page.element.changed", "page.*.*.changed", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.topic)+"~"+string(tt.pattern), func(t *testing.T) {
			if got := tt.topic.Matches(tt.pattern); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTopicIsValid(t *testing.T) {
	tests := []struct {
		topic Topic
		valid bool
	}{
		{"page", true},
		{"page.section.selected", true},
		{"page.**", true},
		{"", false},
		{"page..x", false},
		{".page", false},
		{"page.", false},
	}
	for _, tt := range tests {
		if got := tt.topic.IsValid(); got != tt.valid {
			t.Errorf("%q.IsValid() = %v, want %v", tt.topic, got, tt.valid)
		}
	}
}

func TestTopicIsPattern(t *testing.T) {
	if Topic("page.sections.changed").IsPattern() {
		t.Error("concrete topic reported as pattern")
	}
	for _, p := range []Topic{"page.*", "**", "page.**.changed"} {
		if !p.IsPattern() {
			t.Errorf("%q should be a pattern", p)
		}
	}
	if got := Topic("").Segments(); got != nil {
		t.Errorf("Segments() of empty topic = %v", got)
	}
}
