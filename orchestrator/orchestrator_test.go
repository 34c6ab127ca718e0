package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/openconfigure/dsc-core/core"
	"github.com/openconfigure/dsc-core/expressions"
	"github.com/openconfigure/dsc-core/provider"
	"github.com/openconfigure/dsc-core/schema"
)

type fakeProvider struct {
	getResult    *core.Value
	exportResult []*core.Value
}

func (p *fakeProvider) Get(context.Context, *core.Value) (*core.Value, error) {
	return p.getResult, nil
}
func (p *fakeProvider) Set(_ context.Context, desired *core.Value, _ bool) (*core.Value, error) {
	return desired, nil
}
func (p *fakeProvider) Test(_ context.Context, expected *core.Value) (*core.Value, error) {
	return expected, nil
}
func (p *fakeProvider) Export(context.Context, *core.Value) ([]*core.Value, error) {
	return p.exportResult, nil
}

type OrchestratorTestSuite struct {
	suite.Suite
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) Test_empty_configuration_returns_empty_aggregate() {
	registry := provider.NewStaticRegistry(nil)
	orch, err := New([]byte(`{"resources": []}`), schema.FormatJSON, registry, expressions.NewBracketEngine())
	s.Require().NoError(err)

	result, err := orch.InvokeGet(context.Background())
	s.Require().NoError(err)
	s.Assert().Empty(result.Results)
}

func (s *OrchestratorTestSuite) Test_invoke_get_evaluates_reference_after_dependency() {
	doc := []byte(`{
		"resources": [
			{"name": "X", "type": "Example/Widget", "properties": {"p": "[reference('Y')]"}},
			{"name": "Y", "type": "Example/Widget", "properties": {"q": "literal"}}
		]
	}`)

	registry := provider.NewStaticRegistry(map[string]provider.Provider{
		"example/widget": &fakeProvider{getResult: core.ScalarAsValue(core.ScalarFromString("ok"))},
	})

	orch, err := New(doc, schema.FormatJSON, registry, expressions.NewBracketEngine())
	s.Require().NoError(err)

	result, err := orch.InvokeGet(context.Background())
	s.Require().NoError(err)
	s.Require().Len(result.Results, 2)
	s.Assert().Equal("Y", result.Results[0].Name)
	s.Assert().Equal("X", result.Results[1].Name)
}

func (s *OrchestratorTestSuite) Test_invoke_fails_for_duplicate_resource_names() {
	doc := []byte(`{
		"resources": [
			{"name": "dup", "type": "Example/Widget"},
			{"name": "dup", "type": "Example/Widget"}
		]
	}`)
	registry := provider.NewStaticRegistry(map[string]provider.Provider{
		"example/widget": &fakeProvider{},
	})

	orch, err := New(doc, schema.FormatJSON, registry, expressions.NewBracketEngine())
	s.Require().NoError(err)

	_, err = orch.InvokeGet(context.Background())
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "dup")
}

func (s *OrchestratorTestSuite) Test_invoke_fails_when_resource_type_not_discovered() {
	doc := []byte(`{"resources": [{"name": "X", "type": "Example/Missing"}]}`)
	registry := provider.NewStaticRegistry(nil)

	orch, err := New(doc, schema.FormatJSON, registry, expressions.NewBracketEngine())
	s.Require().NoError(err)

	_, err = orch.InvokeGet(context.Background())
	s.Require().Error(err)
}

func (s *OrchestratorTestSuite) Test_set_parameters_applies_defaults_then_overrides() {
	doc := []byte(`{
		"parameters": {"mode": {"type": "string", "defaultValue": "slow"}},
		"resources": []
	}`)
	registry := provider.NewStaticRegistry(nil)
	orch, err := New(doc, schema.FormatJSON, registry, expressions.NewBracketEngine())
	s.Require().NoError(err)

	s.Require().NoError(orch.SetParameters(nil))
	value, ok := orch.context.Parameter("mode")
	s.Require().True(ok)
	mode, _ := core.StringValue(value)
	s.Assert().Equal("slow", mode)

	s.Require().NoError(orch.SetParameters(map[string]*core.Value{
		"mode": core.ScalarAsValue(core.ScalarFromString("fast")),
	}))
	value, ok = orch.context.Parameter("mode")
	s.Require().True(ok)
	mode, _ = core.StringValue(value)
	s.Assert().Equal("fast", mode)
}

func (s *OrchestratorTestSuite) Test_set_parameters_without_declarations_errors_on_input() {
	doc := []byte(`{"resources": []}`)
	registry := provider.NewStaticRegistry(nil)
	orch, err := New(doc, schema.FormatJSON, registry, expressions.NewBracketEngine())
	s.Require().NoError(err)

	err = orch.SetParameters(map[string]*core.Value{"mode": core.ScalarAsValue(core.ScalarFromString("fast"))})
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "No parameters defined")
}

func (s *OrchestratorTestSuite) Test_set_parameters_non_nil_empty_input_still_errors_without_declarations() {
	doc := []byte(`{"resources": []}`)
	registry := provider.NewStaticRegistry(nil)
	orch, err := New(doc, schema.FormatJSON, registry, expressions.NewBracketEngine())
	s.Require().NoError(err)

	// An explicitly-present but empty input map is "present," per
	// spec.md's distinction between absent and present input; only a
	// nil map means absent.
	err = orch.SetParameters(map[string]*core.Value{})
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "No parameters defined")
}

func (s *OrchestratorTestSuite) Test_invoke_export_synthesizes_configuration_with_escaped_properties() {
	doc := []byte(`{"resources": [{"name": "w", "type": "Example/Widget"}]}`)
	registry := provider.NewStaticRegistry(map[string]provider.Provider{
		"example/widget": &fakeProvider{exportResult: []*core.Value{
			{Fields: map[string]*core.Value{"cmd": core.ScalarAsValue(core.ScalarFromString("[echo hello]"))}},
		}},
	})

	orch, err := New(doc, schema.FormatJSON, registry, expressions.NewBracketEngine())
	s.Require().NoError(err)

	result, err := orch.InvokeExport(context.Background())
	s.Require().NoError(err)
	s.Require().Len(result.Configuration.Resources, 1)

	synthesized := result.Configuration.Resources[0]
	s.Assert().Equal("Example/Widget-0", synthesized.Name)
	s.Assert().Equal("Example/Widget", synthesized.Type)
	cmd, _ := core.StringValue(synthesized.Properties["cmd"])
	s.Assert().Equal("[[echo hello]", cmd)
}

func (s *OrchestratorTestSuite) Test_invoke_export_rejects_duplicate_types() {
	doc := []byte(`{
		"resources": [
			{"name": "a", "type": "Example/Widget"},
			{"name": "b", "type": "Example/Widget"}
		]
	}`)
	registry := provider.NewStaticRegistry(map[string]provider.Provider{
		"example/widget": &fakeProvider{},
	})

	orch, err := New(doc, schema.FormatJSON, registry, expressions.NewBracketEngine())
	s.Require().NoError(err)

	_, err = orch.InvokeExport(context.Background())
	s.Require().Error(err)
	s.Assert().Contains(err.Error(), "specified multiple times")
}
