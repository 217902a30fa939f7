package dataprocessing

import (
	"iter"

	"approvalcli/pkg/contracts/domain"
)

// Table is an immutable set of cleaned deposit attempts.
// Every derived table is a new value; the rows of a Table are never mutated.
type Table struct {
	rows []domain.Transaction
}

// NewTable copies rows into a new table
func NewTable(rows []domain.Transaction) *Table {
	cp := make([]domain.Transaction, len(rows))
	copy(cp, rows)
	return &Table{rows: cp}
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Rows returns a copy of the rows
func (t *Table) Rows() []domain.Transaction {
	if t == nil {
		return nil
	}
	cp := make([]domain.Transaction, len(t.rows))
	copy(cp, t.rows)
	return cp
}

// All iterates over the rows in sheet order
func (t *Table) All() iter.Seq2[int, domain.Transaction] {
	return func(yield func(int, domain.Transaction) bool) {
		if t == nil {
			return
		}
		for i, row := range t.rows {
			if !yield(i, row) {
				return
			}
		}
	}
}

// Filter returns a new table holding the rows for which keep returns true
func (t *Table) Filter(keep func(domain.Transaction) bool) *Table {
	out := &Table{}
	for _, row := range t.All() {
		if keep(row) {
			out.rows = append(out.rows, row)
		}
	}
	return out
}
