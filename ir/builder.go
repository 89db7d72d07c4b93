package ir

import (
	"github.com/wippyai/ir-core/errors"
)

// OperationBuilder accumulates the parts of an operation and finalizes
// them with Build. The builder is one-shot: Build consumes the
// accumulated state whether it succeeds or fails, and a second call
// panics. Every Add method returns the builder for chaining.
type OperationBuilder struct {
	ctx        *Context
	name       string
	location   Location
	results    []Type
	operands   []Value
	regions    []Region
	successors []Block
	attrs      []NamedAttribute

	segmentSizes []int32
	segmentIdx   int

	inferResults bool
	done         bool
}

// NewOperationBuilder starts building an operation with the given fully
// qualified name. The context is taken from the location.
func NewOperationBuilder(name string, loc Location) *OperationBuilder {
	if loc.ctx == nil {
		panic("ir: NewOperationBuilder with zero Location")
	}
	return &OperationBuilder{ctx: loc.ctx, name: name, location: loc, segmentIdx: -1}
}

// Context returns the context the operation will be created in.
func (b *OperationBuilder) Context() *Context {
	return b.ctx
}

// AddResults appends explicit result types.
func (b *OperationBuilder) AddResults(types ...Type) *OperationBuilder {
	for _, t := range types {
		if t.ctx != b.ctx {
			panic("ir: result type belongs to a different context")
		}
	}
	b.results = append(b.results, types...)
	return b
}

// AddOperands appends operand values.
func (b *OperationBuilder) AddOperands(values ...Value) *OperationBuilder {
	for _, v := range values {
		if v.ctx != b.ctx {
			panic("ir: operand belongs to a different context")
		}
	}
	b.operands = append(b.operands, values...)
	return b
}

// AddOperandsWithSegmentSizes appends one or more named operand groups,
// empty groups included. The groups are flattened into the operand list
// and the group lengths are recorded in the reserved operandSegmentSizes
// attribute, one i32 entry per group in call order; repeated calls
// extend both. The synthesized attribute is not merged with one attached
// through AddAttributes under the same name; mixing the two leaves both
// entries in place, and what that means is up to the consumer.
func (b *OperationBuilder) AddOperandsWithSegmentSizes(segments [][]Value) *OperationBuilder {
	for _, seg := range segments {
		b.segmentSizes = append(b.segmentSizes, int32(len(seg)))
		b.AddOperands(seg...)
	}
	attr := DenseI32ArrayAttr(b.ctx, b.segmentSizes)
	if b.segmentIdx >= 0 {
		b.attrs[b.segmentIdx].Value = attr
	} else {
		b.segmentIdx = len(b.attrs)
		b.attrs = append(b.attrs, Named(b.ctx, OperandSegmentSizesAttrName, attr))
	}
	return b
}

// AddRegions transfers ownership of the regions to the operation being
// built. The transfer is final: the same region cannot be handed to a
// second builder, and the regions stay consumed even if Build fails.
func (b *OperationBuilder) AddRegions(regions ...Region) *OperationBuilder {
	for _, r := range regions {
		if r.ctx != b.ctx {
			panic("ir: region belongs to a different context")
		}
		r.claim()
	}
	b.regions = append(b.regions, regions...)
	return b
}

// AddSuccessors appends successor blocks. Successor edges do not own the
// blocks; the blocks remain owned by their regions.
func (b *OperationBuilder) AddSuccessors(blocks ...Block) *OperationBuilder {
	for _, blk := range blocks {
		if blk.ctx != b.ctx {
			panic("ir: successor belongs to a different context")
		}
		blk.must()
	}
	b.successors = append(b.successors, blocks...)
	return b
}

// AddAttributes attaches attributes, append-only. A name attached twice
// keeps both entries; this layer never merges duplicates, and whether a
// duplicate is legal is decided by whatever verifies the built
// operation.
func (b *OperationBuilder) AddAttributes(attrs ...NamedAttribute) *OperationBuilder {
	for _, na := range attrs {
		if na.Name.ctx != b.ctx || na.Value.ctx != b.ctx {
			panic("ir: attribute belongs to a different context")
		}
	}
	b.attrs = append(b.attrs, attrs...)
	return b
}

// EnableResultTypeInference asks Build to compute result types through
// the inference function registered in the operation's schema instead of
// explicit AddResults calls.
func (b *OperationBuilder) EnableResultTypeInference() *OperationBuilder {
	b.inferResults = true
	return b
}

// Build finalizes the operation. On success the operation is complete
// and detached, ready to be appended to a block. On failure the error
// explains which part of the accumulated state was rejected; either way
// the builder is consumed and must not be reused.
func (b *OperationBuilder) Build() (Operation, error) {
	if b.done {
		panic("ir: operation builder already consumed")
	}
	b.done = true

	if b.name == "" {
		return Operation{}, errors.OperationBuild(b.name, "empty operation name")
	}
	ns, _ := splitOperationName(b.name)
	schema, registered := b.ctx.OperationSchema(b.name)
	if !registered && !b.ctx.allowUnregistered {
		return Operation{}, errors.OperationBuild(b.name,
			"unregistered operation in a context that does not allow unregistered dialects")
	}

	if b.inferResults {
		if len(b.results) > 0 {
			return Operation{}, errors.OperationBuild(b.name,
				"result type inference requested together with explicit result types")
		}
		if !registered || schema.InferResults == nil {
			return Operation{}, errors.OperationBuild(b.name,
				"no result type inference registered for this operation")
		}
		inferred, err := schema.InferResults(b.ctx, b.operands, b.attrs)
		if err != nil {
			return Operation{}, errors.New(errors.PhaseBuild, errors.KindOperationBuild).
				Op(b.name).
				Detail("result type inference failed").
				Cause(err).
				Build()
		}
		b.results = inferred
	}

	if registered {
		if err := schema.check(b.name, len(b.operands), len(b.results), len(b.regions), b.attrs); err != nil {
			return Operation{}, err
		}
	}

	d := opData{
		name:     b.name,
		dialect:  ns,
		location: b.location.id,
		valid:    true,
	}
	d.resultTypes = typeIDs(b.ctx, b.results)
	if len(b.operands) > 0 {
		d.operands = make([]valueRef, len(b.operands))
		for i, v := range b.operands {
			d.operands[i] = v.ref
		}
	}
	if len(b.regions) > 0 {
		d.regions = make([]regionID, len(b.regions))
		for i, r := range b.regions {
			d.regions[i] = r.id
		}
	}
	if len(b.successors) > 0 {
		d.successors = make([]blockID, len(b.successors))
		for i, blk := range b.successors {
			d.successors[i] = blk.id
		}
	}
	if len(b.attrs) > 0 {
		d.attrs = make([]namedAttr, len(b.attrs))
		for i, na := range b.attrs {
			d.attrs[i] = namedAttr{name: na.Name.id, value: na.Value.id}
		}
	}

	id := b.ctx.arena.newOp(d)
	for _, r := range b.regions {
		b.ctx.arena.region(r.id).owner = id
	}
	return Operation{ctx: b.ctx, id: id}, nil
}

