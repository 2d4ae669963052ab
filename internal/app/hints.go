package app

import (
	"fmt"
	"os"
	"strings"

	"municipal-limits/internal/types"
)

// defaultsHint pairs a flag name with a manifest defaults key for hint messages.
type defaultsHint struct {
	FlagName    string
	DefaultsKey string
}

// checkProcessDefaultsHints returns hints for process flags that repeat a
// value the manifest already sets.
func checkProcessDefaultsHints(req ProcessRequest, defaults types.ManifestDefaults) []string {
	checks := []struct {
		hint     defaultsHint
		provided string
		fallback string
	}{
		{hint: defaultsHint{"--base-dir", "defaults.base_dir"}, provided: req.BaseDir, fallback: defaults.BaseDir},
		{hint: defaultsHint{"--output", "defaults.output"}, provided: req.OutputDir, fallback: defaults.Output},
		{hint: defaultsHint{"--driver", "defaults.driver"}, provided: string(req.Driver), fallback: string(defaults.Driver)},
		{hint: defaultsHint{"--output-stem", "defaults.output_stem"}, provided: req.OutputStem, fallback: defaults.OutputStem},
		{hint: defaultsHint{"--canonical-crs", "defaults.canonical_crs"}, provided: req.CanonicalCRS, fallback: defaults.CanonicalCRS},
	}

	var hints []string
	for _, c := range checks {
		provided := strings.TrimSpace(c.provided)
		if provided != "" && provided == strings.TrimSpace(c.fallback) {
			hints = append(hints, fmt.Sprintf(
				"hint: %s is also set in the manifest (%s); you can omit the flag",
				c.hint.FlagName, c.hint.DefaultsKey,
			))
		}
	}
	return hints
}

// emitHints writes hint messages to stderr.
func emitHints(hints []string) {
	for _, h := range hints {
		fmt.Fprintln(os.Stderr, h)
	}
}
