// Package orchestrator implements the top-level driver for the four
// lifecycle operations (get, set, test, export): parameter binding,
// dependency-ordered invocation, and result aggregation.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/openconfigure/dsc-core/constraints"
	"github.com/openconfigure/dsc-core/core"
	"github.com/openconfigure/dsc-core/errors"
	"github.com/openconfigure/dsc-core/evalcontext"
	"github.com/openconfigure/dsc-core/expressions"
	"github.com/openconfigure/dsc-core/provider"
	"github.com/openconfigure/dsc-core/refgraph"
	"github.com/openconfigure/dsc-core/schema"
	"github.com/openconfigure/dsc-core/walker"
)

// Operation identifies which of the four lifecycle operations an invoke
// call performs.
type Operation string

const (
	OperationGet    Operation = "get"
	OperationSet    Operation = "set"
	OperationTest   Operation = "test"
	OperationExport Operation = "export"
)

// ResourceResult is the per-resource entry recorded for every operation.
type ResourceResult struct {
	Name   string
	Type   string
	Result *core.Value
}

// OperationResult is the aggregate returned by InvokeGet/InvokeSet/InvokeTest.
type OperationResult struct {
	Results []ResourceResult
}

// ExportResult is the aggregate returned by InvokeExport: the per-source-
// resource export payloads plus the synthesized configuration built from
// the harvested instance states.
type ExportResult struct {
	Results       []ResourceResult
	Configuration *schema.Configuration
}

// Orchestrator is the top-level driver. It owns the raw configuration
// text (re-parsed on demand, never mutated), the evaluation context, the
// expression engine and a handle to the discovery facility.
type Orchestrator struct {
	rawConfig []byte
	format    schema.Format
	discovery provider.Discovery
	engine    expressions.Engine
	context   *evalcontext.Context

	logger      core.Logger
	clock       core.Clock
	idGenerator core.IDGenerator
}

// Option configures optional Orchestrator collaborators.
type Option func(*Orchestrator)

// WithLogger overrides the default no-op logger.
func WithLogger(logger core.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithClock overrides the default system clock.
func WithClock(clock core.Clock) Option {
	return func(o *Orchestrator) { o.clock = clock }
}

// WithIDGenerator overrides the default UUID run-correlation generator.
func WithIDGenerator(gen core.IDGenerator) Option {
	return func(o *Orchestrator) { o.idGenerator = gen }
}

// New constructs an Orchestrator over raw configuration text. The text is
// parsed once here purely to fail fast on a malformed document; every
// Invoke* call re-parses it independently, so no operation observes
// mutation performed by another.
func New(
	rawConfig []byte,
	format schema.Format,
	discovery provider.Discovery,
	engine expressions.Engine,
	opts ...Option,
) (*Orchestrator, error) {
	if _, err := schema.Parse(rawConfig, format); err != nil {
		return nil, err
	}

	o := &Orchestrator{
		rawConfig:   rawConfig,
		format:      format,
		discovery:   discovery,
		engine:      engine,
		context:     evalcontext.New(),
		logger:      core.NewNopLogger(),
		clock:       core.SystemClock{},
		idGenerator: core.NewUUIDGenerator(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// SetParameters binds parameter input against the configuration's
// declarations, per the ordered policy in this module's design: defaults
// are applied unconditionally first, then input values override them
// after passing the constraint checker and type enforcement.
func (o *Orchestrator) SetParameters(input map[string]*core.Value) error {
	config, err := o.parse()
	if err != nil {
		return err
	}

	for name, decl := range config.Parameters {
		if decl.DefaultValue != nil {
			o.context.SetParameter(name, decl.DefaultValue)
		}
	}

	if input == nil {
		return nil
	}

	if len(config.Parameters) == 0 {
		return errors.Validation("No parameters defined in configuration")
	}

	for name, value := range input {
		decl, ok := config.Parameters[name]
		if !ok {
			return errors.ValidationForParameter(name, "parameter is not declared in configuration")
		}
		if err := constraints.Check(name, decl, value); err != nil {
			return err
		}
		o.context.SetParameter(name, value)
	}

	return nil
}

// InvokeGet runs the get operation over every resource in dependency order.
func (o *Orchestrator) InvokeGet(ctx context.Context) (*OperationResult, error) {
	results, err := o.invoke(ctx, OperationGet, false)
	if err != nil {
		return nil, err
	}
	return &OperationResult{Results: results}, nil
}

// InvokeTest runs the test operation over every resource in dependency order.
func (o *Orchestrator) InvokeTest(ctx context.Context) (*OperationResult, error) {
	results, err := o.invoke(ctx, OperationTest, false)
	if err != nil {
		return nil, err
	}
	return &OperationResult{Results: results}, nil
}

// InvokeSet runs the set operation over every resource in dependency
// order. skipTest is forwarded verbatim to every provider's Set call.
func (o *Orchestrator) InvokeSet(ctx context.Context, skipTest bool) (*OperationResult, error) {
	results, err := o.invoke(ctx, OperationSet, skipTest)
	if err != nil {
		return nil, err
	}
	return &OperationResult{Results: results}, nil
}

// InvokeExport runs the export operation, additionally synthesizing a
// configuration document from the harvested instance states.
func (o *Orchestrator) InvokeExport(ctx context.Context) (*ExportResult, error) {
	config, order, err := o.prepare(ctx)
	if err != nil {
		return nil, err
	}

	if err := rejectDuplicateTypes(config); err != nil {
		return nil, err
	}

	runID, _ := o.idGenerator.GenerateID()
	logger := o.logger.WithFields(core.StringLogField("runId", runID), core.StringLogField("operation", string(OperationExport)))
	logger.Info("starting export")
	start := o.clock.Now()

	results := make([]ResourceResult, 0, len(order))
	synthesized := &schema.Configuration{}

	for _, resource := range order {
		evaluated, err := o.evaluateProperties(ctx, resource)
		if err != nil {
			return nil, err
		}

		p, err := o.lookupProvider(resource)
		if err != nil {
			return nil, err
		}

		instances, err := p.Export(ctx, &core.Value{Fields: evaluated})
		if err != nil {
			return nil, errors.Provider(resource.Name, err)
		}

		for i, instance := range instances {
			escaped, err := walker.Escape(fieldsOf(instance))
			if err != nil {
				return nil, err
			}
			synthesized.Resources = append(synthesized.Resources, &schema.Resource{
				Name:       fmt.Sprintf("%s-%d", resource.Type, i),
				Type:       resource.Type,
				Properties: escaped,
			})
		}

		payload := &core.Value{Items: instances}
		o.context.SetResourceResult(resource.Name, payload)
		results = append(results, ResourceResult{Name: resource.Name, Type: resource.Type, Result: payload})
	}

	logger.Info("finished export", core.IntegerLogField("durationMs", int64(core.FractionalMilliseconds(o.clock.Since(start)))))
	return &ExportResult{Results: results, Configuration: synthesized}, nil
}

func (o *Orchestrator) invoke(ctx context.Context, operation Operation, skipTest bool) ([]ResourceResult, error) {
	_, order, err := o.prepare(ctx)
	if err != nil {
		return nil, err
	}

	runID, _ := o.idGenerator.GenerateID()
	logger := o.logger.WithFields(core.StringLogField("runId", runID), core.StringLogField("operation", string(operation)))
	logger.Info("starting invocation")
	start := o.clock.Now()

	results := make([]ResourceResult, 0, len(order))
	for _, resource := range order {
		evaluated, err := o.evaluateProperties(ctx, resource)
		if err != nil {
			return nil, err
		}

		p, err := o.lookupProvider(resource)
		if err != nil {
			return nil, err
		}

		properties := &core.Value{Fields: evaluated}

		var payload *core.Value
		var callErr error
		switch operation {
		case OperationGet:
			payload, callErr = p.Get(ctx, properties)
		case OperationSet:
			payload, callErr = p.Set(ctx, properties, skipTest)
		case OperationTest:
			payload, callErr = p.Test(ctx, properties)
		}
		if callErr != nil {
			return nil, errors.Provider(resource.Name, callErr)
		}

		o.context.SetResourceResult(resource.Name, payload)
		results = append(results, ResourceResult{Name: resource.Name, Type: resource.Type, Result: payload})
	}

	logger.Info("finished invocation", core.IntegerLogField("durationMs", int64(core.FractionalMilliseconds(o.clock.Since(start)))))
	return results, nil
}

// prepare re-parses the configuration, runs discovery over the union of
// resource types exactly once, and returns the dependency-resolved order.
func (o *Orchestrator) prepare(ctx context.Context) (*schema.Configuration, []*schema.Resource, error) {
	config, err := o.parse()
	if err != nil {
		return nil, nil, err
	}

	if err := rejectDuplicateNames(config); err != nil {
		return nil, nil, err
	}

	types := lowercaseTypeSet(config.Resources)
	if err := o.discovery.Discover(ctx, types); err != nil {
		return nil, nil, err
	}

	order, err := refgraph.Sort(config, o.engine)
	if err != nil {
		return nil, nil, err
	}

	return config, order, nil
}

func (o *Orchestrator) evaluateProperties(ctx context.Context, resource *schema.Resource) (map[string]*core.Value, error) {
	evalString := func(statement string) (string, error) {
		result, err := o.engine.Evaluate(ctx, statement, o.context)
		if err != nil {
			return "", errors.Expression(resource.Name, err)
		}
		return result, nil
	}
	return walker.Evaluate(resource.Properties, evalString)
}

func (o *Orchestrator) lookupProvider(resource *schema.Resource) (provider.Provider, error) {
	p, ok := o.discovery.Find(strings.ToLower(resource.Type))
	if !ok {
		return nil, errors.ResourceNotFound(resource.Type)
	}
	return p, nil
}

func (o *Orchestrator) parse() (*schema.Configuration, error) {
	return schema.Parse(o.rawConfig, o.format)
}

func lowercaseTypeSet(resources []*schema.Resource) []string {
	seen := map[string]bool{}
	var types []string
	for _, resource := range resources {
		lower := strings.ToLower(resource.Type)
		if !seen[lower] {
			seen[lower] = true
			types = append(types, lower)
		}
	}
	return types
}

// rejectDuplicateNames enforces spec.md's "resource name values are
// unique within a configuration" invariant. The dependency resolver's
// name-keyed index silently lets a later duplicate shadow an earlier
// one, so uniqueness must be checked before resources ever reach it.
func rejectDuplicateNames(config *schema.Configuration) error {
	seen := map[string]bool{}
	for _, resource := range config.Resources {
		if seen[resource.Name] {
			return errors.ValidationForResource(resource.Name, "resource name is not unique within the configuration")
		}
		seen[resource.Name] = true
	}
	return nil
}

func rejectDuplicateTypes(config *schema.Configuration) error {
	seen := map[string]bool{}
	var duplicates []string
	duplicateSeen := map[string]bool{}
	for _, resource := range config.Resources {
		if seen[resource.Type] {
			if !duplicateSeen[resource.Type] {
				duplicateSeen[resource.Type] = true
				duplicates = append(duplicates, resource.Type)
			}
			continue
		}
		seen[resource.Type] = true
	}
	if len(duplicates) == 0 {
		return nil
	}
	return errors.Validation(fmt.Sprintf("Resource(s) %s specified multiple times", strings.Join(duplicates, ", ")))
}

func fieldsOf(value *core.Value) map[string]*core.Value {
	if value == nil {
		return nil
	}
	return value.Fields
}
