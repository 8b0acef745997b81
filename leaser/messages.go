package leaser

import "leasevault/lease"

// InstantiateLeaseMsg is the host-chain code-instantiation primitive the
// factory issues to spawn a new lease contract, correlated back to its
// customer by ReplyID (§5).
type InstantiateLeaseMsg struct {
	CodeID  uint64
	ReplyID uint64
	Label   string
	Form    lease.NewLeaseForm
}

func (m *InstantiateLeaseMsg) MessageKind() string { return "leaser.instantiate_lease" }

// MigrateLeaseMsg is one migration instruction issued against an already
// deployed lease during a MigrateLeases sweep.
type MigrateLeaseMsg struct {
	LeaseAddr string
	NewCodeID uint64
}

func (m *MigrateLeaseMsg) MessageKind() string { return "leaser.migrate_lease" }
