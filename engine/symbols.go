package engine

import (
	"go.uber.org/zap"

	"github.com/wippyai/ir-core/errors"
	"github.com/wippyai/ir-core/ir"
)

// MergeSymbolsFromClone merges the top-level symbol operations of
// source into target without consuming source: the whole source tree is
// cloned and the clone's symbols are moved over. Name collisions are
// resolved by renaming whichever side is private and rewriting its
// references; a name defined publicly on both sides fails the merge
// before target is modified. Merging an empty source is a no-op.
func MergeSymbolsFromClone(target, source ir.Operation) error {
	log := Logger()

	targetBody, ok := bodyBlock(target)
	if !ok {
		log.Debug("merge target has no body block")
		return errors.MergeFailed()
	}
	sourceBody, ok := bodyBlock(source)
	if !ok {
		log.Debug("merge source has no body block")
		return errors.MergeFailed()
	}
	if sourceBody.OperationCount() == 0 {
		return nil
	}

	clone := source.Clone()
	cloneBody, _ := bodyBlock(clone)

	// Renames change names but not operation identity, and detaching
	// invalidates block iteration, so take a snapshot of the incoming
	// symbols first.
	var incoming []ir.Operation
	for _, op := range cloneBody.Operations() {
		if _, ok := ir.SymbolName(op); ok {
			incoming = append(incoming, op)
		}
	}

	// A name public on both sides cannot be resolved. Checking every
	// conflict before renaming anything keeps a failed merge from
	// half-rewriting the target.
	for _, op := range incoming {
		name, _ := ir.SymbolName(op)
		existing, found := ir.LookupSymbol(target, name)
		if found && !ir.IsPrivateSymbol(op) && !ir.IsPrivateSymbol(existing) {
			log.Debug("symbol defined publicly on both sides of a merge",
				zap.String("symbol", name))
			clone.Destroy()
			return errors.MergeFailed()
		}
	}

	for _, op := range incoming {
		name, _ := ir.SymbolName(op)
		if _, found := ir.LookupSymbol(target, name); !found {
			continue
		}

		fresh := ir.UniqueSymbolName(name, clone, target)
		var err error
		if ir.IsPrivateSymbol(op) {
			// Private incoming symbol steps aside.
			err = ir.RenameSymbol(clone, name, fresh)
		} else {
			// Public incoming symbol keeps the name; the existing one
			// survived the conflict scan, so it is private and steps
			// aside.
			err = ir.RenameSymbol(target, name, fresh)
		}
		if err != nil {
			log.Debug("symbol rename failed during merge",
				zap.String("symbol", name), zap.Error(err))
			clone.Destroy()
			return errors.MergeFailed()
		}
		log.Debug("renamed colliding symbol",
			zap.String("from", name), zap.String("to", fresh))
	}

	for _, op := range incoming {
		op.Detach()
		targetBody.AppendOperation(op)
	}
	clone.Destroy()
	return nil
}

// bodyBlock returns the first block of an operation's first region, the
// place symbol tables keep their definitions.
func bodyBlock(op ir.Operation) (ir.Block, bool) {
	if !op.Valid() {
		return ir.Block{}, false
	}
	r, err := op.Region(0)
	if err != nil {
		return ir.Block{}, false
	}
	return r.FirstBlock()
}
