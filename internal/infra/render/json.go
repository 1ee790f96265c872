package render

import (
	"encoding/json"

	domain "github.com/bryanwahyu/compliance-view/internal/domain/compliance"
)

// Payload is the JSON form of the view: either the widget props or the error
// panel text, never both.
type Payload struct {
	SystemID     string                `json:"systemId,omitempty"`
	Loading      bool                  `json:"loading"`
	Policies     []domain.Profile      `json:"policies"`
	ProfileRules []domain.ProfileRules `json:"profileRules"`
	Error        string                `json:"error,omitempty"`
}

// MarshalJSON keeps the error form down to the panel text. The props form
// always carries policies and profileRules, null until there is data.
func (p Payload) MarshalJSON() ([]byte, error) {
	if p.Error != "" {
		return json.Marshal(struct {
			SystemID string `json:"systemId,omitempty"`
			Error    string `json:"error"`
		}{p.SystemID, p.Error})
	}
	type props Payload
	return json.Marshal(props(p))
}

func JSON(systemID string, st domain.State) Payload {
	props, ok := domain.BuildProps(st)
	if !ok {
		return Payload{SystemID: systemID, Error: domain.ErrorMessage(st.(domain.Failed).Err)}
	}
	return Payload{
		SystemID:     systemID,
		Loading:      props.RulesTable.Loading,
		Policies:     props.PolicyCards.Policies,
		ProfileRules: props.RulesTable.ProfileRules,
	}
}
