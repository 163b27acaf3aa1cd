package transaction

// Compare orders transactions by sender, then recipient, then amount. It
// returns 0 exactly when all fields are equal.
func Compare(txn1, txn2 *Transaction) int {
	if txn1.Sender != txn2.Sender {
		if txn1.Sender < txn2.Sender {
			return -1
		}
		return 1
	}
	if txn1.Recipient != txn2.Recipient {
		if txn1.Recipient < txn2.Recipient {
			return -1
		}
		return 1
	}
	if txn1.Amount < txn2.Amount {
		return -1
	}
	if txn1.Amount > txn2.Amount {
		return 1
	}
	return 0
}

// Comparator adapts Compare to the interface{} comparator used by ordered
// containers.
func Comparator(a, b interface{}) int {
	return Compare(a.(*Transaction), b.(*Transaction))
}

// CompareSlices orders two sorted transaction lists lexicographically.
func CompareSlices(s1, s2 []*Transaction) int {
	for i := 0; i < len(s1) && i < len(s2); i++ {
		if c := Compare(s1[i], s2[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(s1) < len(s2):
		return -1
	case len(s1) > len(s2):
		return 1
	}
	return 0
}

type SortTxns []*Transaction

func (s SortTxns) Len() int           { return len(s) }
func (s SortTxns) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
func (s SortTxns) Less(i, j int) bool { return Compare(s[i], s[j]) < 0 }
