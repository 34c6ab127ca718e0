// Package refgraph computes a deterministic invocation order for a
// configuration's resources from their explicit dependsOn declarations
// and the implicit reference(...) edges found inside property values.
package refgraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/openconfigure/dsc-core/core"
	"github.com/openconfigure/dsc-core/errors"
	"github.com/openconfigure/dsc-core/expressions"
	"github.com/openconfigure/dsc-core/schema"
)

type visitState int

const (
	white visitState = iota
	gray
	black
)

// Sort returns config.Resources in invocation order: a resource never
// precedes any resource it depends on, either explicitly via dependsOn
// or implicitly via a reference('<name>') expression found anywhere in
// its properties. The order is a depth-first post-order: resources are
// visited in document position order, each one's predecessors are
// visited first (also in document position order), and a resource is
// emitted as soon as all its predecessors have been. The order is
// deterministic and identical across repeated calls. It is not a
// "lowest position among ready resources" order: a predecessor reached
// from an earlier resource is emitted before a later resource that was
// ready from the start.
func Sort(config *schema.Configuration, engine expressions.Engine) ([]*schema.Resource, error) {
	index := make(map[string]int, len(config.Resources))
	for i, resource := range config.Resources {
		index[resource.Name] = i
	}

	predecessors := make([][]int, len(config.Resources))
	for i, resource := range config.Resources {
		preds, err := resourcePredecessors(resource, index, engine)
		if err != nil {
			return nil, err
		}
		predecessors[i] = preds
	}

	states := make([]visitState, len(config.Resources))
	postorder := make([]int, 0, len(config.Resources))
	var path []int

	var visit func(i int) error
	visit = func(i int) error {
		switch states[i] {
		case black:
			return nil
		case gray:
			return cycleError(config.Resources, append(path, i))
		}

		states[i] = gray
		path = append(path, i)
		for _, p := range predecessors[i] {
			if err := visit(p); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		states[i] = black
		postorder = append(postorder, i)
		return nil
	}

	for i := range config.Resources {
		if err := visit(i); err != nil {
			return nil, err
		}
	}

	sorted := make([]*schema.Resource, len(postorder))
	for i, idx := range postorder {
		sorted[i] = config.Resources[idx]
	}
	return sorted, nil
}

func resourcePredecessors(resource *schema.Resource, index map[string]int, engine expressions.Engine) ([]int, error) {
	seen := map[int]bool{}
	var preds []int

	addName := func(name string) error {
		i, ok := index[name]
		if !ok {
			return errors.ValidationForResource(
				resource.Name,
				fmt.Sprintf("depends on unknown resource %q", name),
			)
		}
		if !seen[i] {
			seen[i] = true
			preds = append(preds, i)
		}
		return nil
	}

	for _, name := range resource.DependsOn {
		if err := addName(name); err != nil {
			return nil, err
		}
	}

	names, err := implicitReferences(resource, engine)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if err := addName(name); err != nil {
			return nil, err
		}
	}

	// Predecessor traversal order (and therefore DFS finishing order among
	// otherwise-unconstrained nodes) is tie-broken by document position,
	// not by declaration order within dependsOn or property iteration.
	sort.Ints(preds)
	return preds, nil
}

// implicitReferences scans every string-valued property (recursively
// through mappings and sequences, including nested sequences, which the
// Property Walker itself rejects) for bracketed statements and asks the
// expression engine which resource names they reference.
func implicitReferences(resource *schema.Resource, engine expressions.Engine) ([]string, error) {
	var names []string

	var walkValue func(v *core.Value) error
	walkValue = func(v *core.Value) error {
		if core.IsNil(v) {
			return nil
		}
		if core.IsObject(v) {
			for _, child := range v.Fields {
				if err := walkValue(child); err != nil {
					return err
				}
			}
			return nil
		}
		if core.IsArray(v) {
			for _, child := range v.Items {
				if err := walkValue(child); err != nil {
					return err
				}
			}
			return nil
		}
		if str, ok := core.StringValue(v); ok && strings.HasPrefix(str, "[") && strings.HasSuffix(str, "]") {
			refs, err := engine.ExtractReferences(str)
			if err != nil {
				return errors.Expression(resource.Name, err)
			}
			names = append(names, refs...)
		}
		return nil
	}

	keys := make([]string, 0, len(resource.Properties))
	for k := range resource.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := walkValue(resource.Properties[k]); err != nil {
			return nil, err
		}
	}
	return names, nil
}

func cycleError(resources []*schema.Resource, path []int) error {
	names := make([]string, len(path))
	for i, idx := range path {
		names[i] = resources[idx].Name
	}
	return errors.Validation(fmt.Sprintf("dependency cycle detected: %s", strings.Join(names, " -> ")))
}
