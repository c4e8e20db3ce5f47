package journal

import (
	"github.com/rxtech-lab/argo-moonshot/internal/types"
)

// Journal is a write-only audit log of executed trades and model snapshots.
// It is never read at startup; all trading state lives for the process only.
type Journal interface {
	RecordTrade(trade types.Trade) error
	RecordModelState(state types.ModelState) error
	Close() error
}

// Nop discards everything. It is used when the journal is disabled.
type Nop struct{}

func (Nop) RecordTrade(types.Trade) error {
	return nil
}

func (Nop) RecordModelState(types.ModelState) error {
	return nil
}

func (Nop) Close() error {
	return nil
}
