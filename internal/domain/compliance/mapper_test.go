package compliance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapProfileRules(t *testing.T) {
	r1 := Rule{Title: "R1", Severity: "high", RefID: "xccdf_rule_r1"}

	t.Run("renames name to profile", func(t *testing.T) {
		sys := &System{Profiles: []Profile{{Name: "PCI-DSS", Rules: []Rule{r1}}}}

		got := MapProfileRules(sys)
		assert.Equal(t, []ProfileRules{{Profile: "PCI-DSS", Rules: []Rule{r1}}}, got)
	})

	t.Run("keeps profile order", func(t *testing.T) {
		sys := &System{Profiles: []Profile{{Name: "b"}, {Name: "a"}, {Name: "c"}}}

		got := MapProfileRules(sys)
		require.Len(t, got, 3)
		assert.Equal(t, "b", got[0].Profile)
		assert.Equal(t, "a", got[1].Profile)
		assert.Equal(t, "c", got[2].Profile)
	})

	t.Run("nil system", func(t *testing.T) {
		assert.NotPanics(t, func() {
			assert.Nil(t, MapProfileRules(nil))
		})
	})

	t.Run("system without profiles", func(t *testing.T) {
		assert.Nil(t, MapProfileRules(&System{ID: "abc"}))
	})
}

func TestPolicies(t *testing.T) {
	profiles := []Profile{{Name: "PCI-DSS", RulesFailed: 2, RulesPassed: 5}}

	assert.Equal(t, profiles, Policies(&System{Profiles: profiles}))
	assert.Nil(t, Policies(nil))
}

func TestBuildProps(t *testing.T) {
	t.Run("loading", func(t *testing.T) {
		props, ok := BuildProps(Loading{})
		require.True(t, ok)
		assert.True(t, props.PolicyCards.Loading)
		assert.True(t, props.RulesTable.Loading)
		assert.Nil(t, props.PolicyCards.Policies)
		assert.Nil(t, props.RulesTable.ProfileRules)
	})

	t.Run("loaded", func(t *testing.T) {
		sys := &System{Profiles: []Profile{{Name: "PCI-DSS", Rules: []Rule{{Title: "R1"}}}}}

		props, ok := BuildProps(Loaded{System: sys})
		require.True(t, ok)
		assert.False(t, props.PolicyCards.Loading)
		assert.False(t, props.RulesTable.Loading)
		assert.Equal(t, sys.Profiles, props.PolicyCards.Policies)
		assert.Equal(t, "PCI-DSS", props.RulesTable.ProfileRules[0].Profile)
	})

	t.Run("loaded without system", func(t *testing.T) {
		props, ok := BuildProps(Loaded{})
		require.True(t, ok)
		assert.False(t, props.RulesTable.Loading)
		assert.Nil(t, props.RulesTable.ProfileRules)
	})

	t.Run("failed", func(t *testing.T) {
		_, ok := BuildProps(Failed{Err: errors.New("boom")})
		assert.False(t, ok)
	})
}

func TestErrorMessage(t *testing.T) {
	err := errors.New("graphql: system not found")

	assert.Equal(t, "Oops! Error loading System data: graphql: system not found", ErrorMessage(err))
}

func TestResolved(t *testing.T) {
	assert.False(t, Resolved(Loading{}))
	assert.True(t, Resolved(Failed{Err: ErrQueryFailed}))
	assert.True(t, Resolved(Loaded{}))
}
