package digest

import "github.com/dlclark/regexp2"

// Category is one of the eight canonical extraction categories from
// spec.md §4.3 step 3 / §6.
type Category string

const (
	CategoryIdentifier Category = "identifier"
	CategoryURL        Category = "url"
	CategoryConstraint Category = "constraint"
	CategoryStatus     Category = "status"
	CategoryError      Category = "error"
	CategoryDecision   Category = "decision"
	CategoryTool       Category = "tool"
	CategoryOutcome    Category = "outcome"
)

// pattern describes one compiled rule in the catalogue: which group
// holds the value worth keeping (0 means the whole match), and how many
// matches of that category survive the per-category cap.
type pattern struct {
	category Category
	re       *regexp2.Regexp
	group    int
	cap      int
}

// catalogue is the canonical, case-insensitive regex catalogue,
// reproduced verbatim from spec.md §6. It is compiled once at package
// init and is never mutated, keeping extraction deterministic across
// calls. Per spec.md §9, these patterns must not be broadened or
// otherwise edited without a spec update — do not add alternatives.
var catalogue = []pattern{
	{
		category: CategoryIdentifier,
		re:       regexp2.MustCompile(`\b(id|identifier|uuid|key|ref(erence)?)[:\s=]+([a-zA-Z0-9\-_]+)`, regexp2.IgnoreCase),
		group:    3,
		cap:      3,
	},
	{
		category: CategoryURL,
		re:       regexp2.MustCompile(`(https?://|www\.)[^\s<>"'{|}|\\^`+"`"+`\[\]]+`, regexp2.IgnoreCase),
		group:    0,
		cap:      2,
	},
	{
		category: CategoryConstraint,
		re:       regexp2.MustCompile(`(must|should|cannot|required?|forbidden|allowed)[^.!?]*[.!?]`, regexp2.IgnoreCase),
		group:    0,
		cap:      2,
	},
	{
		category: CategoryStatus,
		re:       regexp2.MustCompile(`(status|code|error)[:\s]+(\d{3,4})`, regexp2.IgnoreCase),
		group:    2,
		cap:      2,
	},
	{
		category: CategoryError,
		re:       regexp2.MustCompile(`(error|exception|failed?|denied)[^.!?]*[.!?]`, regexp2.IgnoreCase),
		group:    0,
		cap:      2,
	},
	{
		category: CategoryDecision,
		re:       regexp2.MustCompile(`(decided|chosen|selected|determined)[^.!?]*[.!?]`, regexp2.IgnoreCase),
		group:    0,
		cap:      2,
	},
	{
		category: CategoryTool,
		re:       regexp2.MustCompile(`(tool|function|api|call)(ed|ing)?[^.!?]*[.!?]`, regexp2.IgnoreCase),
		group:    0,
		cap:      2,
	},
	{
		category: CategoryOutcome,
		re:       regexp2.MustCompile(`(result|outcome|conclusion|success|completed?)[^.!?]*[.!?]`, regexp2.IgnoreCase),
		group:    0,
		cap:      2,
	},
}
