package compliance

// errorPrefix is the fixed lead of the error panel text.
const errorPrefix = "Oops! Error loading System data: "

// PolicyCardsProps feeds the policy cards widget.
type PolicyCardsProps struct {
	Policies []Profile `json:"policies"`
	Loading  bool      `json:"loading"`
}

// RulesTableProps feeds the rules table widget.
type RulesTableProps struct {
	ProfileRules []ProfileRules `json:"profileRules"`
	Loading      bool           `json:"loading"`
}

// Props is what a loading or loaded view hands to its two widgets.
type Props struct {
	PolicyCards PolicyCardsProps
	RulesTable  RulesTableProps
}

// Policies returns the system's profiles unchanged, or nil without a system.
func Policies(s *System) []Profile {
	if s == nil {
		return nil
	}
	return s.Profiles
}

// MapProfileRules renames each profile to a {profile, rules} pair, keeping order.
func MapProfileRules(s *System) []ProfileRules {
	if s == nil || s.Profiles == nil {
		return nil
	}
	out := make([]ProfileRules, 0, len(s.Profiles))
	for _, p := range s.Profiles {
		out = append(out, ProfileRules{Profile: p.Name, Rules: p.Rules})
	}
	return out
}

// BuildProps maps a non-failed state to widget props. The second return is
// false for Failed, which must be rendered with ErrorMessage instead.
func BuildProps(s State) (Props, bool) {
	switch st := s.(type) {
	case Loaded:
		return Props{
			PolicyCards: PolicyCardsProps{Policies: Policies(st.System)},
			RulesTable:  RulesTableProps{ProfileRules: MapProfileRules(st.System)},
		}, true
	case Failed:
		return Props{}, false
	default:
		return Props{
			PolicyCards: PolicyCardsProps{Loading: true},
			RulesTable:  RulesTableProps{Loading: true},
		}, true
	}
}

// ErrorMessage is the error panel text. No error kind gets special wording.
func ErrorMessage(err error) string {
	if err == nil {
		return errorPrefix + "<nil>"
	}
	return errorPrefix + err.Error()
}
