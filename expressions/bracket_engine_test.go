package expressions

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/openconfigure/dsc-core/core"
	"github.com/openconfigure/dsc-core/evalcontext"
)

type BracketEngineTestSuite struct {
	suite.Suite
}

func TestBracketEngineTestSuite(t *testing.T) {
	suite.Run(t, new(BracketEngineTestSuite))
}

func (s *BracketEngineTestSuite) Test_evaluate_reference_returns_resource_result() {
	ctx := evalcontext.New()
	ctx.SetResourceResult("Y", core.ScalarAsValue(core.ScalarFromString("ok")))

	engine := NewBracketEngine()
	result, err := engine.Evaluate(context.Background(), "[reference('Y')]", ctx)
	s.Require().NoError(err)
	s.Assert().Equal("ok", result)
}

func (s *BracketEngineTestSuite) Test_evaluate_parameter_returns_parameter_value() {
	ctx := evalcontext.New()
	ctx.SetParameter("mode", core.ScalarAsValue(core.ScalarFromString("fast")))

	engine := NewBracketEngine()
	result, err := engine.Evaluate(context.Background(), "[parameter('mode')]", ctx)
	s.Require().NoError(err)
	s.Assert().Equal("fast", result)
}

func (s *BracketEngineTestSuite) Test_evaluate_unknown_reference_is_expression_error() {
	engine := NewBracketEngine()
	_, err := engine.Evaluate(context.Background(), "[reference('missing')]", evalcontext.New())
	s.Require().Error(err)
}

func (s *BracketEngineTestSuite) Test_evaluate_non_bracketed_string_is_error() {
	engine := NewBracketEngine()
	_, err := engine.Evaluate(context.Background(), "not bracketed", evalcontext.New())
	s.Require().Error(err)
}

func (s *BracketEngineTestSuite) Test_extract_references_finds_reference_calls() {
	engine := NewBracketEngine()
	refs, err := engine.ExtractReferences("[reference('Y')]")
	s.Require().NoError(err)
	s.Assert().Equal([]string{"Y"}, refs)
}

func (s *BracketEngineTestSuite) Test_extract_references_empty_for_parameter_calls() {
	engine := NewBracketEngine()
	refs, err := engine.ExtractReferences("[parameter('mode')]")
	s.Require().NoError(err)
	s.Assert().Empty(refs)
}
