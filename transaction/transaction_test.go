package transaction

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	a := NewTransaction("a", "b", 100)
	require.Equal(t, 0, Compare(a, NewTransaction("a", "b", 100)))
	require.Equal(t, -1, Compare(a, NewTransaction("b", "a", 1)))
	require.Equal(t, 1, Compare(a, NewTransaction("a", "a", 500)))
	require.Equal(t, -1, Compare(a, NewTransaction("a", "b", 101)))
	require.Equal(t, 1, Comparator(NewTransaction("a", "b", 101), a))
}

func TestCompareSlices(t *testing.T) {
	s1 := []*Transaction{NewTransaction("0", "n", 1)}
	s2 := []*Transaction{NewTransaction("0", "n", 1), NewTransaction("a", "b", 2)}
	require.Equal(t, -1, CompareSlices(s1, s2))
	require.Equal(t, 1, CompareSlices(s2, s1))
	require.Equal(t, 0, CompareSlices(s2, s2))
	require.Equal(t, 0, CompareSlices(nil, []*Transaction{}))
}

func TestSortTxns(t *testing.T) {
	txns := SortTxns{
		NewTransaction("c", "a", 1),
		NewTransaction("a", "b", 2),
		NewTransaction("a", "b", 1),
	}
	sort.Sort(txns)
	require.Equal(t, "a", txns[0].Sender)
	require.Equal(t, uint64(1), txns[0].Amount)
	require.Equal(t, "c", txns[2].Sender)
}

func TestVerify(t *testing.T) {
	require.NoError(t, NewTransaction("a", "b", 0).Verify())
	require.Error(t, NewTransaction("", "b", 1).Verify())
	require.Error(t, NewTransaction("a", " ", 1).Verify())
	var nilTxn *Transaction
	require.Error(t, nilTxn.Verify())
}
