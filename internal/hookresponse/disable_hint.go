package hookresponse

import "fmt"

// FormatDisableHint renders the footer appended to deny/ask reasons,
// naming the configuration key that turns the deciding handler off. This
// is the single point of change for the hint format.
func FormatDisableHint(handlerName string) string {
	return fmt.Sprintf(
		"Wrong for your workflow? hookd disable %s (config key: handlers.overrides.%s.enabled)",
		handlerName, handlerName,
	)
}
