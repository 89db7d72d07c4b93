package translate

import (
	"fmt"

	"github.com/wippyai/ir-core/ir"
)

// loweringsKey is the context extension slot holding the lowering
// table.
const loweringsKey = "translate.lowerings"

// lowerFn lowers one operation into the emitter's instruction stream.
type lowerFn func(e *funcEmitter, op ir.Operation) error

type loweringTable struct {
	ops map[string]lowerFn
}

// RegisterLowerings installs the lowering hooks for the func and arith
// dialects into the context's extension slot. The first call installs
// and returns true; later calls find the slot taken and return false,
// leaving the installed table untouched.
func RegisterLowerings(ctx *ir.Context) bool {
	table := &loweringTable{ops: map[string]lowerFn{
		"func.return":    lowerReturn,
		"arith.constant": lowerConstant,
		"arith.addi":     lowerBinary(opI32Add, opI64Add),
		"arith.subi":     lowerBinary(opI32Sub, opI64Sub),
		"arith.muli":     lowerBinary(opI32Mul, opI64Mul),
	}}
	return ctx.RegisterExtension(loweringsKey, table)
}

func lowerings(ctx *ir.Context) (*loweringTable, bool) {
	ext, ok := ctx.Extension(loweringsKey)
	if !ok {
		return nil, false
	}
	table, ok := ext.(*loweringTable)
	return table, ok
}

// funcEmitter lowers the body of one function. Every IR value lives in
// a local slot: block arguments occupy the parameter slots, operation
// results get fresh locals. Operands are pushed with local.get and
// results parked with local.set, so the operand stack is empty between
// operations no matter in which order values are used.
type funcEmitter struct {
	instrs  buffer
	locals  []byte
	nparams uint32
	slots   map[ir.Value]uint32
}

func newFuncEmitter(params []ir.Value) *funcEmitter {
	e := &funcEmitter{
		nparams: uint32(len(params)),
		slots:   make(map[ir.Value]uint32, len(params)),
	}
	for i, v := range params {
		e.slots[v] = uint32(i)
	}
	return e
}

// push loads the value's local onto the operand stack.
func (e *funcEmitter) push(v ir.Value) error {
	slot, ok := e.slots[v]
	if !ok {
		return fmt.Errorf("operand defined outside the function body")
	}
	e.instrs.AppendByte(opLocalGet)
	e.instrs.WriteU32(slot)
	return nil
}

// park stores the top of the operand stack into a fresh local bound to
// the value.
func (e *funcEmitter) park(v ir.Value, vt byte) {
	slot := e.nparams + uint32(len(e.locals))
	e.locals = append(e.locals, vt)
	e.slots[v] = slot
	e.instrs.AppendByte(opLocalSet)
	e.instrs.WriteU32(slot)
}

// body returns the encoded function body: local declarations followed
// by the instruction stream and the closing end opcode.
func (e *funcEmitter) body() []byte {
	e.instrs.AppendByte(opEnd)
	return encodeBody(e.locals, e.instrs.Bytes)
}

// valType maps an IR type to its target value type: i32 stays 32-bit,
// i64 and index are 64-bit. Everything else has no lowering.
func valType(t ir.Type) (byte, error) {
	if t.IsIndex() {
		return valTypeI64, nil
	}
	if t.IsInteger() {
		width, _ := t.IntegerWidth()
		switch width {
		case 32:
			return valTypeI32, nil
		case 64:
			return valTypeI64, nil
		}
		return 0, fmt.Errorf("%d-bit integers cannot be lowered", width)
	}
	return 0, fmt.Errorf("type %s cannot be lowered", t)
}

// lowerConstant materializes an integer constant into its result slot.
func lowerConstant(e *funcEmitter, op ir.Operation) error {
	attr, ok := op.Attribute("value")
	if !ok {
		return fmt.Errorf("constant without value attribute")
	}
	num, ok := attr.AsInteger()
	if !ok {
		return fmt.Errorf("constant value is not an integer")
	}
	result, err := op.Result(0)
	if err != nil {
		return err
	}
	vt, err := valType(result.Type())
	if err != nil {
		return err
	}
	switch vt {
	case valTypeI32:
		e.instrs.AppendByte(opI32Const)
		e.instrs.WriteI32(int32(num))
	case valTypeI64:
		e.instrs.AppendByte(opI64Const)
		e.instrs.WriteI64(num)
	}
	e.park(result, vt)
	return nil
}

// lowerBinary lowers a two-operand integer operation, picking the
// opcode by result width.
func lowerBinary(op32, op64 byte) lowerFn {
	return func(e *funcEmitter, op ir.Operation) error {
		result, err := op.Result(0)
		if err != nil {
			return err
		}
		vt, err := valType(result.Type())
		if err != nil {
			return err
		}
		for i := 0; i < 2; i++ {
			operand, err := op.Operand(i)
			if err != nil {
				return err
			}
			if err := e.push(operand); err != nil {
				return err
			}
		}
		if vt == valTypeI32 {
			e.instrs.AppendByte(op32)
		} else {
			e.instrs.AppendByte(op64)
		}
		e.park(result, vt)
		return nil
	}
}

// lowerReturn pushes the returned values and leaves the function.
func lowerReturn(e *funcEmitter, op ir.Operation) error {
	for _, v := range op.Operands() {
		if err := e.push(v); err != nil {
			return err
		}
	}
	e.instrs.AppendByte(opReturn)
	return nil
}
