package refgraph

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/openconfigure/dsc-core/core"
	"github.com/openconfigure/dsc-core/expressions"
	"github.com/openconfigure/dsc-core/schema"
)

type SortTestSuite struct {
	suite.Suite
	engine expressions.Engine
}

func TestSortTestSuite(t *testing.T) {
	suite.Run(t, new(SortTestSuite))
}

func (s *SortTestSuite) SetupTest() {
	s.engine = expressions.NewBracketEngine()
}

func resource(name string, dependsOn []string, properties map[string]*core.Value) *schema.Resource {
	return &schema.Resource{Name: name, Type: "Example/Widget", DependsOn: dependsOn, Properties: properties}
}

func names(resources []*schema.Resource) []string {
	out := make([]string, len(resources))
	for i, r := range resources {
		out[i] = r.Name
	}
	return out
}

func (s *SortTestSuite) Test_explicit_depends_on_order() {
	config := &schema.Configuration{Resources: []*schema.Resource{
		resource("A", []string{"B"}, nil),
		resource("B", nil, nil),
		resource("C", []string{"A", "B"}, nil),
	}}

	sorted, err := Sort(config, s.engine)
	s.Require().NoError(err)
	s.Assert().Equal([]string{"B", "A", "C"}, names(sorted))
}

func (s *SortTestSuite) Test_implicit_reference_order() {
	config := &schema.Configuration{Resources: []*schema.Resource{
		resource("X", nil, map[string]*core.Value{"p": core.ScalarAsValue(core.ScalarFromString("[reference('Y')]"))}),
		resource("Y", nil, map[string]*core.Value{"q": core.ScalarAsValue(core.ScalarFromString("literal"))}),
	}}

	sorted, err := Sort(config, s.engine)
	s.Require().NoError(err)
	s.Assert().Equal([]string{"Y", "X"}, names(sorted))
}

func (s *SortTestSuite) Test_order_is_deterministic_across_repeated_calls() {
	config := &schema.Configuration{Resources: []*schema.Resource{
		resource("A", []string{"B"}, nil),
		resource("B", nil, nil),
		resource("C", []string{"A", "B"}, nil),
	}}

	first, err := Sort(config, s.engine)
	s.Require().NoError(err)
	second, err := Sort(config, s.engine)
	s.Require().NoError(err)
	s.Assert().Equal(names(first), names(second))
}

func (s *SortTestSuite) Test_self_dependency_is_cycle_error() {
	config := &schema.Configuration{Resources: []*schema.Resource{
		resource("A", []string{"A"}, nil),
	}}

	_, err := Sort(config, s.engine)
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "cycle")
}

func (s *SortTestSuite) Test_cycle_between_two_resources() {
	config := &schema.Configuration{Resources: []*schema.Resource{
		resource("A", []string{"B"}, nil),
		resource("B", []string{"A"}, nil),
	}}

	_, err := Sort(config, s.engine)
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "cycle")
}

func (s *SortTestSuite) Test_dependency_on_unknown_name_is_validation_error() {
	config := &schema.Configuration{Resources: []*schema.Resource{
		resource("A", []string{"ghost"}, nil),
	}}

	_, err := Sort(config, s.engine)
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "ghost")
}

func (s *SortTestSuite) Test_empty_configuration_returns_empty_order() {
	config := &schema.Configuration{Resources: []*schema.Resource{}}

	sorted, err := Sort(config, s.engine)
	s.Require().NoError(err)
	s.Assert().Empty(sorted)
}
