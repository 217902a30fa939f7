package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"approvalcli/pkg/contracts/domain"
)

func TestTable_Immutable(t *testing.T) {
	source := []domain.Transaction{
		attempt("c1", "2021-01-02", "10", "A", 1),
		attempt("c2", "2021-02-03", "20", "B", 0),
	}
	table := NewTable(source)

	source[0].IssuingBank = "changed"
	assert.Equal(t, "A", table.Rows()[0].IssuingBank, "constructor copies")

	rows := table.Rows()
	rows[1].IssuingBank = "changed"
	assert.Equal(t, "B", table.Rows()[1].IssuingBank, "Rows returns a copy")

	approved := table.Filter(func(tx domain.Transaction) bool { return tx.IsApproved() })
	assert.Equal(t, 1, approved.Len())
	assert.Equal(t, 2, table.Len(), "Filter leaves the source intact")
}

func TestTable_All(t *testing.T) {
	table := NewTable([]domain.Transaction{
		attempt("c1", "2021-01-02", "10", "A", 1),
		attempt("c2", "2021-02-03", "20", "B", 0),
		attempt("c3", "2021-03-04", "30", "C", 0),
	})

	var banks []string
	for i, tx := range table.All() {
		if i == 2 {
			break
		}
		banks = append(banks, tx.IssuingBank)
	}
	assert.Equal(t, []string{"A", "B"}, banks)

	var empty *Table
	assert.Zero(t, empty.Len())
	assert.Zero(t, empty.Filter(func(domain.Transaction) bool { return true }).Len())
}
