package evalcontext

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/openconfigure/dsc-core/core"
)

type ContextTestSuite struct {
	suite.Suite
}

func TestContextTestSuite(t *testing.T) {
	suite.Run(t, new(ContextTestSuite))
}

func (s *ContextTestSuite) Test_parameter_round_trips() {
	ctx := New()
	_, ok := ctx.Parameter("port")
	s.Assert().False(ok)

	ctx.SetParameter("port", core.ScalarAsValue(core.ScalarFromInt(8080)))

	value, ok := ctx.Parameter("port")
	s.Require().True(ok)
	s.Assert().Equal(8080, *value.Scalar.IntValue)
}

func (s *ContextTestSuite) Test_resource_result_round_trips() {
	ctx := New()
	_, ok := ctx.Resource("site")
	s.Assert().False(ok)

	payload := core.ScalarAsValue(core.ScalarFromString("ok"))
	ctx.SetResourceResult("site", payload)

	value, ok := ctx.Resource("site")
	s.Require().True(ok)
	s.Assert().Same(payload, value)
}

func (s *ContextTestSuite) Test_parameter_names_lists_resolved_parameters() {
	ctx := New()
	ctx.SetParameter("a", core.ScalarAsValue(core.ScalarFromString("1")))
	ctx.SetParameter("b", core.ScalarAsValue(core.ScalarFromString("2")))

	s.Assert().ElementsMatch([]string{"a", "b"}, ctx.ParameterNames())
}
