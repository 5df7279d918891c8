package rpcpb

import "google.golang.org/protobuf/encoding/protowire"

// Field numbers below are the wire schema for this package's messages; see
// proto/ledger.proto and proto/notify.proto (kept alongside this package
// purely as documentation — nothing here is generated from them).

func (m *TransferRequest) MarshalVT() []byte {
	var b []byte
	b = appendStringField(b, 1, m.FromAccount)
	b = appendStringField(b, 2, m.ToAccount)
	b = appendInt64Field(b, 3, m.Amount)
	b = appendStringField(b, 4, m.Currency)
	b = appendStringField(b, 5, m.IdempotencyKey)
	return b
}

func (m *TransferRequest) UnmarshalVT(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeString(b)
			m.FromAccount = v
			return n, err
		case 2:
			v, n, err := consumeString(b)
			m.ToAccount = v
			return n, err
		case 3:
			v, n, err := consumeInt64(b)
			m.Amount = v
			return n, err
		case 4:
			v, n, err := consumeString(b)
			m.Currency = v
			return n, err
		case 5:
			v, n, err := consumeString(b)
			m.IdempotencyKey = v
			return n, err
		default:
			return -1, nil
		}
	})
}

func (m *TransferResponse) MarshalVT() []byte {
	var b []byte
	b = appendStringField(b, 1, m.TxID)
	b = appendStringField(b, 2, m.FromAccount)
	b = appendStringField(b, 3, m.ToAccount)
	b = appendInt64Field(b, 4, m.Amount)
	b = appendStringField(b, 5, m.Currency)
	b = appendInt64Field(b, 6, m.FromBalanceAfter)
	b = appendInt64Field(b, 7, m.ToBalanceAfter)
	b = appendStringField(b, 8, m.Status)
	b = appendStringField(b, 9, m.Message)
	return b
}

func (m *TransferResponse) UnmarshalVT(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeString(b)
			m.TxID = v
			return n, err
		case 2:
			v, n, err := consumeString(b)
			m.FromAccount = v
			return n, err
		case 3:
			v, n, err := consumeString(b)
			m.ToAccount = v
			return n, err
		case 4:
			v, n, err := consumeInt64(b)
			m.Amount = v
			return n, err
		case 5:
			v, n, err := consumeString(b)
			m.Currency = v
			return n, err
		case 6:
			v, n, err := consumeInt64(b)
			m.FromBalanceAfter = v
			return n, err
		case 7:
			v, n, err := consumeInt64(b)
			m.ToBalanceAfter = v
			return n, err
		case 8:
			v, n, err := consumeString(b)
			m.Status = v
			return n, err
		case 9:
			v, n, err := consumeString(b)
			m.Message = v
			return n, err
		default:
			return -1, nil
		}
	})
}

func (m *BalanceRequest) MarshalVT() []byte {
	var b []byte
	b = appendStringField(b, 1, m.AccountID)
	return b
}

func (m *BalanceRequest) UnmarshalVT(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			v, n, err := consumeString(b)
			m.AccountID = v
			return n, err
		}
		return -1, nil
	})
}

func (m *BalanceResponse) MarshalVT() []byte {
	var b []byte
	b = appendStringField(b, 1, m.AccountID)
	b = appendInt64Field(b, 2, m.Balance)
	b = appendStringField(b, 3, m.Currency)
	return b
}

func (m *BalanceResponse) UnmarshalVT(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeString(b)
			m.AccountID = v
			return n, err
		case 2:
			v, n, err := consumeInt64(b)
			m.Balance = v
			return n, err
		case 3:
			v, n, err := consumeString(b)
			m.Currency = v
			return n, err
		default:
			return -1, nil
		}
	})
}

func (m *LedgerEntry) MarshalVT() []byte {
	var b []byte
	b = appendStringField(b, 1, m.TxID)
	b = appendStringField(b, 2, m.FromAccount)
	b = appendStringField(b, 3, m.ToAccount)
	b = appendInt64Field(b, 4, m.Amount)
	b = appendStringField(b, 5, m.Currency)
	b = appendStringField(b, 6, m.CreatedAt)
	return b
}

func (m *LedgerEntry) UnmarshalVT(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeString(b)
			m.TxID = v
			return n, err
		case 2:
			v, n, err := consumeString(b)
			m.FromAccount = v
			return n, err
		case 3:
			v, n, err := consumeString(b)
			m.ToAccount = v
			return n, err
		case 4:
			v, n, err := consumeInt64(b)
			m.Amount = v
			return n, err
		case 5:
			v, n, err := consumeString(b)
			m.Currency = v
			return n, err
		case 6:
			v, n, err := consumeString(b)
			m.CreatedAt = v
			return n, err
		default:
			return -1, nil
		}
	})
}

func (m *GetAllEntriesRequest) MarshalVT() []byte { return nil }

func (m *GetAllEntriesRequest) UnmarshalVT(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		return -1, nil
	})
}

func (m *GetAllEntriesResponse) MarshalVT() []byte {
	var b []byte
	for _, e := range m.Entries {
		b = appendMessageField(b, 1, e)
	}
	return b
}

func (m *GetAllEntriesResponse) UnmarshalVT(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != 1 {
			return -1, nil
		}
		raw, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		entry := &LedgerEntry{}
		if err := entry.UnmarshalVT(raw); err != nil {
			return 0, err
		}
		m.Entries = append(m.Entries, entry)
		return n, nil
	})
}

func (m *NotifyRequest) MarshalVT() []byte {
	var b []byte
	b = appendStringField(b, 1, m.AccountID)
	b = appendStringField(b, 2, m.TxID)
	b = appendInt64Field(b, 3, m.Amount)
	b = appendStringField(b, 4, m.Direction)
	b = appendStringField(b, 5, m.Currency)
	b = appendStringField(b, 6, m.Message)
	return b
}

func (m *NotifyRequest) UnmarshalVT(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch num {
		case 1:
			v, n, err := consumeString(b)
			m.AccountID = v
			return n, err
		case 2:
			v, n, err := consumeString(b)
			m.TxID = v
			return n, err
		case 3:
			v, n, err := consumeInt64(b)
			m.Amount = v
			return n, err
		case 4:
			v, n, err := consumeString(b)
			m.Direction = v
			return n, err
		case 5:
			v, n, err := consumeString(b)
			m.Currency = v
			return n, err
		case 6:
			v, n, err := consumeString(b)
			m.Message = v
			return n, err
		default:
			return -1, nil
		}
	})
}

func (m *NotifyResponse) MarshalVT() []byte {
	var b []byte
	b = appendBoolField(b, 1, m.OK)
	return b
}

func (m *NotifyResponse) UnmarshalVT(b []byte) error {
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 {
			v, n, err := consumeBool(b)
			m.OK = v
			return n, err
		}
		return -1, nil
	})
}

func init() {
	registerCodec()
}
