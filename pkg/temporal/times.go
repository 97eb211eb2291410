package temporal

// Versioned is implemented by every temporal element.
type Versioned interface {
	ValidTime() Interval
	TransactionTime() Interval
	SetValidTime(i Interval) error
	SetTransactionTime(i Interval) error
}

// Times holds the two intervals of a temporal element. Embedding it gives a
// record the Versioned methods. The zero value is not meaningful; elements
// are initialized through their factory.
type Times struct {
	valid Interval
	tx    Interval
}

// NewTimes returns valid = Always and tx = [txFrom, MaxTime).
func NewTimes(txFrom int64) Times {
	return Times{valid: Always, tx: Since(txFrom)}
}

func (t *Times) ValidTime() Interval       { return t.valid }
func (t *Times) TransactionTime() Interval { return t.tx }

func (t *Times) ValidFrom() int64 { return t.valid.From }
func (t *Times) ValidTo() int64   { return t.valid.To }
func (t *Times) TxFrom() int64    { return t.tx.From }
func (t *Times) TxTo() int64      { return t.tx.To }

// SetValidTime replaces the valid time. Invalid intervals leave t unchanged.
func (t *Times) SetValidTime(i Interval) error {
	if err := i.Validate(); err != nil {
		return err
	}
	t.valid = i
	return nil
}

// SetTransactionTime replaces the transaction time. Invalid intervals leave t
// unchanged.
func (t *Times) SetTransactionTime(i Interval) error {
	if err := i.Validate(); err != nil {
		return err
	}
	t.tx = i
	return nil
}
