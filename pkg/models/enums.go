package models

import (
	"regexp"
	"sort"
	"strings"
)

// When values accepted by jobs, rules, artifacts and cache blocks.
// Artifacts and cache accept only the first three.
const (
	WhenOnSuccess = "on_success"
	WhenOnFailure = "on_failure"
	WhenAlways    = "always"
	WhenNever     = "never"
	WhenManual    = "manual"
	WhenDelayed   = "delayed"
)

// Cache policies.
const (
	PolicyPull     = "pull"
	PolicyPush     = "push"
	PolicyPullPush = "pull-push"
)

// Image/service pull policies.
const (
	PullAlways       = "always"
	PullNever        = "never"
	PullIfNotPresent = "if-not-present"
)

// Environment actions.
const (
	ActionStart   = "start"
	ActionPrepare = "prepare"
	ActionStop    = "stop"
	ActionVerify  = "verify"
	ActionAccess  = "access"
)

// Workflow auto_cancel.on_new_commit values.
const (
	AutoCancelConservative  = "conservative"
	AutoCancelInterruptible = "interruptible"
	AutoCancelNone          = "none"
)

// Implicit stages that exist in every pipeline.
const (
	StagePre  = ".pre"
	StagePost = ".post"
)

// reservedKeywords are top-level keys that are never job names.
var reservedKeywords = map[string]bool{
	"stages":    true,
	"variables": true,
	"workflow":  true,
	"default":   true,
	"include":   true,
}

// IsReservedKeyword reports whether a top-level key names a global
// configuration block rather than a job.
func IsReservedKeyword(name string) bool {
	return reservedKeywords[name]
}

// reservedJobNames collide with global keywords and are rejected as
// job names even though they match the identifier grammar.
var reservedJobNames = map[string]bool{
	"image":    true,
	"services": true,
}

// blockNamePattern is the identifier grammar shared by job and stage
// names: word characters, "-", ".", with an optional leading dot for
// hidden blocks and the implicit stages.
var blockNamePattern = regexp.MustCompile(`^\.?[\w-][\w.-]*$`)

// KnownReportTypes are the artifact report names this package
// recognizes. The reports mapping is open: unknown names are accepted
// and normalized exactly like known ones.
var KnownReportTypes = []string{
	"annotations",
	"api_fuzzing",
	"browser_performance",
	"cluster_image_scanning",
	"codequality",
	"container_scanning",
	"coverage_fuzzing",
	"coverage_report",
	"cyclonedx",
	"dast",
	"dependency_scanning",
	"dotenv",
	"junit",
	"license_management",
	"license_scanning",
	"load_performance",
	"lsif",
	"metrics",
	"performance",
	"requirements",
	"sast",
	"secret_detection",
	"terraform",
}

// KnownReportType reports whether name is one of the report names in
// KnownReportTypes. Unknown names still parse; callers can use this to
// warn about likely typos.
func KnownReportType(name string) bool {
	i := sort.SearchStrings(KnownReportTypes, name)
	return i < len(KnownReportTypes) && KnownReportTypes[i] == name
}

var durationToken = regexp.MustCompile(`^(\d+)\s*([a-zA-Z]+)$`)
var durationSplit = regexp.MustCompile(`(\d+\s*[a-zA-Z]+)`)

var durationUnits = map[string]bool{
	"s": true, "sec": true, "secs": true, "second": true, "seconds": true,
	"m": true, "min": true, "mins": true, "minute": true, "minutes": true,
	"h": true, "hr": true, "hrs": true, "hour": true, "hours": true,
	"d": true, "day": true, "days": true,
	"w": true, "wk": true, "wks": true, "week": true, "weeks": true,
	"mo": true, "mos": true, "month": true, "months": true,
	"y": true, "yr": true, "yrs": true, "year": true, "years": true,
}

// isDurationPhrase reports whether s is a human duration phrase like
// "30 minutes", "1 hour 30 minutes" or "2h20min". A bare number does
// not qualify.
func isDurationPhrase(s string) bool {
	trimmed := strings.TrimSpace(strings.ToLower(s))
	if trimmed == "" {
		return false
	}
	rest := durationSplit.ReplaceAllString(trimmed, "")
	if strings.Trim(rest, " \tand") != "" {
		return false
	}
	tokens := durationSplit.FindAllString(trimmed, -1)
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		m := durationToken.FindStringSubmatch(strings.TrimSpace(tok))
		if m == nil || !durationUnits[m[2]] {
			return false
		}
	}
	return true
}

// checkDuration validates a duration-phrase field. allowNever permits
// the literal "never" (artifacts expire_in).
func checkDuration(path, field, value string, allowNever bool, errs *SchemaError) {
	if allowNever && strings.TrimSpace(value) == "never" {
		return
	}
	if !isDurationPhrase(value) {
		errs.invariant(joinPath(path, field),
			"%q is not a valid duration phrase (expected something like \"30 minutes\")", value)
	}
}
