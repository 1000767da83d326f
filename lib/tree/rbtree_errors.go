package tree

import (
	"errors"
	"fmt"
)

var (
	ErrRBTreeDuplicateKey            = errors.New("[rbtree] duplicate key")
	ErrRBTreeKeyNotFound             = errors.New("[rbtree] key not found")
	ErrRBTreeEmpty                   = errors.New("[rbtree] empty element to remove")
	ErrRBTreeInvariantViolation      = errors.New("[rbtree] invariant violation")
	ErrRBTreeStructuralInconsistency = errors.New("[rbtree] structural inconsistency")
	errRBTreeRedViolation            = errors.New("[rbtree] red violation")
	errRBTreeBlackViolation          = errors.New("[rbtree] black violation")
)

const (
	ruleRedViolation   = "red-violation"
	ruleBlackViolation = "black-violation"
	ruleRootColor      = "root-color"
	ruleParentLink     = "parent-link"
	ruleKeyOrder       = "key-order"
	ruleCount          = "count"
)

// RBInvariantViolation is returned by the audit. Key is the offending
// node's key (nil for tree level rules), Want and Got the mismatched
// quantity.
type RBInvariantViolation struct {
	Rule string
	Key  any
	Want int64
	Got  int64
}

func (e *RBInvariantViolation) Error() string {
	if e.Key == nil {
		return fmt.Sprintf("[rbtree] invariant violation (%s): want %d, got %d", e.Rule, e.Want, e.Got)
	}
	return fmt.Sprintf("[rbtree] invariant violation (%s) at key %v: want %d, got %d", e.Rule, e.Key, e.Want, e.Got)
}

func (e *RBInvariantViolation) Unwrap() error {
	return ErrRBTreeInvariantViolation
}
