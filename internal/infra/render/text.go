package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	domain "github.com/bryanwahyu/compliance-view/internal/domain/compliance"
)

// Text writes the same view for a terminal.
func Text(w io.Writer, st domain.State) error {
	props, ok := domain.BuildProps(st)
	if !ok {
		_, err := fmt.Fprintln(w, domain.ErrorMessage(st.(domain.Failed).Err))
		return err
	}

	if props.PolicyCards.Loading {
		_, err := fmt.Fprintln(w, "Loading...")
		return err
	}

	fmt.Fprintln(w, "POLICIES")
	if len(props.PolicyCards.Policies) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, p := range props.PolicyCards.Policies {
		status := "not compliant"
		if p.Compliant {
			status = "compliant"
		}
		fmt.Fprintf(w, "  %s [%s] %d/%d rules passed, last scanned %s\n",
			p.Name, status, p.RulesPassed, totalRules(p), p.LastScanned)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tPOLICY\tSEVERITY\tPASSED")
	for _, pr := range props.RulesTable.ProfileRules {
		for _, r := range pr.Rules {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Title, pr.Profile, r.Severity, yesNo(r.Compliant))
		}
	}
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
