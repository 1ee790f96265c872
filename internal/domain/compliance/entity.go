package compliance

// System is an inventory host as seen by the compliance service.
// Every compliance field below it is evaluated for this system only.
type System struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Profiles []Profile `json:"profiles"`
}

// Profile is a compliance policy (e.g. a benchmark) applied to a system.
type Profile struct {
	Name        string `json:"name"`
	RefID       string `json:"ref_id"`
	Compliant   bool   `json:"compliant"`
	RulesFailed int    `json:"rules_failed"`
	RulesPassed int    `json:"rules_passed"`
	// LastScanned is passed through as the API renders it ("Never" when unscanned).
	LastScanned string `json:"last_scanned"`
	Rules       []Rule `json:"rules"`
}

// Rule is a single check within a profile.
type Rule struct {
	Title       string `json:"title"`
	Severity    string `json:"severity"`
	Rationale   string `json:"rationale"`
	RefID       string `json:"ref_id"`
	Description string `json:"description"`
	Compliant   bool   `json:"compliant"`
}

// ProfileRules is one row group of the rules table.
type ProfileRules struct {
	Profile string `json:"profile"`
	Rules   []Rule `json:"rules"`
}
