package factory

import "github.com/smykla-skalski/hookd/pkg/config"

// tagsAllowed applies the enable_tags/disable_tags filters to a handler's
// tag set. enable_tags restricts first; disable_tags removes afterwards, so
// a tag in both sets ends up disabled.
func tagsAllowed(cfg *config.HandlersConfig, tags []string) bool {
	if len(cfg.EnableTags) > 0 && !intersects(cfg.EnableTags, tags) {
		return false
	}

	return !intersects(cfg.DisableTags, tags)
}

func intersects(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, tag := range a {
		set[tag] = true
	}

	for _, tag := range b {
		if set[tag] {
			return true
		}
	}

	return false
}

// prioritySetter is the slice of the handler surface the override step
// needs. Every Base-embedding handler satisfies it.
type prioritySetter interface {
	SetPriority(priority int)
}

// applyPriorityOverride moves a handler to its configured priority, when one
// is set.
func applyPriorityOverride(h any, override *config.HandlerOverride) {
	if override == nil || override.Priority == nil {
		return
	}

	if setter, ok := h.(prioritySetter); ok {
		setter.SetPriority(*override.Priority)
	}
}
