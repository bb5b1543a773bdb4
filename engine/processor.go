package engine

import (
	"regexp"
	"sort"
	"strconv"
	"sync"
	"time"

	sv "github.com/gofhir/schemavalidator"
	"github.com/gofhir/schemavalidator/keyword"
	"github.com/gofhir/schemavalidator/pipeline"
	"github.com/gofhir/schemavalidator/pkg/logger"
)

// Processor validates the current instance against the current schema node.
//
// For every schema node it runs the bound keyword validators in dispatch
// order, then descends into the members or elements of a container instance,
// applying the subschemas that select each child. Descent is skipped when the
// container already failed, unless deep checking is requested.
//
// A Processor is immutable and safe for concurrent use.
type Processor struct {
	draft   sv.Draft
	digests *keyword.DigestCache
	metrics *sv.Metrics
	log     *logger.Logger

	// compiled patternProperties keys, shared by all validations
	patterns sync.Map // map[string]*regexp.Regexp

	chain *pipeline.Chain
}

// NewProcessor creates a processor for draft. metrics may be nil.
func NewProcessor(draft sv.Draft, digests *keyword.DigestCache, metrics *sv.Metrics) *Processor {
	p := &Processor{
		draft:   draft,
		digests: digests,
		metrics: metrics,
		log:     logger.For("engine"),
	}
	p.chain = pipeline.NewChain(
		pipeline.ProcessorFunc(p.validateKeywords),
		pipeline.When(descendable, pipeline.ProcessorFunc(p.descend)),
	)
	return p
}

// Draft returns the draft whose keywords are applied.
func (p *Processor) Draft() sv.Draft {
	return p.draft
}

// Process validates data into report. Messages of the node are gathered in a
// child report first, so the decision to descend depends on this node only.
func (p *Processor) Process(report *sv.Report, data *pipeline.Data) error {
	local := report.Child()
	err := p.chain.Process(local, data)
	if merr := report.MergeWith(local); err == nil {
		err = merr
	}
	return err
}

func descendable(report *sv.Report, data *pipeline.Data) bool {
	switch data.Instance().Current().(type) {
	case map[string]any, []any:
		return report.IsSuccess() || data.DeepCheck()
	default:
		return false
	}
}

func (p *Processor) validateKeywords(report *sv.Report, data *pipeline.Data) error {
	bound, err := p.digests.Validators(p.draft, data.Schema())
	if err != nil {
		return err
	}

	for _, b := range bound {
		if p.metrics == nil {
			if err := b.Validator.Validate(p, report, data); err != nil {
				return err
			}
			continue
		}

		start := time.Now()
		before := report.IsSuccess()
		err := b.Validator.Validate(p, report, data)
		p.metrics.RecordKeyword(b.Keyword, time.Since(start), err != nil || (before && !report.IsSuccess()))
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) descend(report *sv.Report, data *pipeline.Data) error {
	schema, ok := data.Schema().Current().(map[string]any)
	if !ok {
		return nil
	}

	switch instance := data.Instance().Current().(type) {
	case map[string]any:
		return p.descendObject(report, data, schema, instance)
	case []any:
		return p.descendArray(report, data, schema, instance)
	}
	return nil
}

func (p *Processor) descendObject(report *sv.Report, data *pipeline.Data, schema, instance map[string]any) error {
	properties, _ := schema["properties"].(map[string]any)
	patternProps, _ := schema["patternProperties"].(map[string]any)
	_, additional := schema["additionalProperties"].(map[string]any)

	var exprs []string
	if len(patternProps) > 0 {
		exprs = sortedKeys(patternProps)
	}

	for _, name := range sortedKeys(instance) {
		var paths [][]string
		if _, ok := properties[name].(map[string]any); ok {
			paths = append(paths, []string{"properties", name})
		}
		for _, expr := range exprs {
			if _, ok := patternProps[expr].(map[string]any); !ok {
				continue
			}
			re, err := p.pattern(expr)
			if err != nil {
				return err
			}
			if re.MatchString(name) {
				paths = append(paths, []string{"patternProperties", expr})
			}
		}
		if len(paths) == 0 && additional {
			paths = append(paths, []string{"additionalProperties"})
		}
		if len(paths) == 0 {
			continue
		}

		child, err := data.Instance().Append(name)
		if err != nil {
			return err
		}
		if err := p.applyAll(report, data.WithInstance(child), paths); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) descendArray(report *sv.Report, data *pipeline.Data, schema map[string]any, instance []any) error {
	var tuple []any
	var all bool
	switch items := schema["items"].(type) {
	case map[string]any:
		all = true
	case []any:
		tuple = items
	}
	_, additional := schema["additionalItems"].(map[string]any)

	for i := range instance {
		idx := strconv.Itoa(i)
		var path []string
		switch {
		case all:
			path = []string{"items"}
		case i < len(tuple):
			if _, ok := tuple[i].(map[string]any); ok {
				path = []string{"items", idx}
			}
		case tuple != nil && additional:
			path = []string{"additionalItems"}
		}
		if path == nil {
			continue
		}

		child, err := data.Instance().Append(idx)
		if err != nil {
			return err
		}
		if err := p.applyAll(report, data.WithInstance(child), [][]string{path}); err != nil {
			return err
		}
	}
	return nil
}

// applyAll validates the instance of data against each schema path, in order.
func (p *Processor) applyAll(report *sv.Report, data *pipeline.Data, paths [][]string) error {
	for _, path := range paths {
		schema, err := data.Schema().Append(path...)
		if err != nil {
			return err
		}
		if err := p.Process(report, data.WithSchema(schema)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) pattern(expr string) (*regexp.Regexp, error) {
	if re, ok := p.patterns.Load(expr); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, keyword.Invalid("patternProperties", "member %q is not a valid regular expression: %v", expr, err)
	}
	p.log.Debug("compiled patternProperties expression %q", expr)
	actual, _ := p.patterns.LoadOrStore(expr, re)
	return actual.(*regexp.Regexp), nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
