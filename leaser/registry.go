package leaser

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"leasevault/coin"
)

// KVStore is the namespaced key/value accessor the registry is built on,
// matching native/pos/registry.go's registryState abstraction so the
// factory's persistence is swappable between the production host store and
// an in-memory fixture for tests.
type KVStore interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVDelete(key []byte) error
	// KVIterate lists keys with the given prefix in lexical order starting
	// strictly after start (empty to begin), up to limit keys (a limit of
	// 0 or less means no limit). It returns
	// the next start cursor, empty once exhausted. This is the one
	// capability native/pos/registry.go did not need but MigrateLeases
	// does, to page through every known lease in bounded batches.
	KVIterate(prefix, start []byte, limit int) (keys [][]byte, next []byte, err error)
}

// ErrCustomerOpenInProgress is returned when OpenLease is called for a
// customer that already has an instantiate in flight.
var ErrCustomerOpenInProgress = errors.New("leaser: an open-lease request is already in progress for this customer")

// ErrUnknownLease is returned by FinalizeLease for an address the registry
// never recorded.
var ErrUnknownLease = errors.New("leaser: unknown lease address")

// ErrUnknownReply is returned when an instantiate-reply id does not
// correlate to any pending OpenLease request.
var ErrUnknownReply = errors.New("leaser: unknown instantiate reply id")

func customerLeaseKey(customer, lease string) []byte {
	return []byte(fmt.Sprintf("leaser/customer/%s/%s", customer, lease))
}

func customerPendingKey(customer string) []byte {
	return []byte(fmt.Sprintf("leaser/pending/%s", customer))
}

func leaseIndexKey(lease string) []byte {
	return []byte(fmt.Sprintf("leaser/lease/%s", lease))
}

const leaseIndexPrefix = "leaser/lease/"

// leaseRecord is the index entry for a single open lease.
type leaseRecord struct {
	Customer string
}

// Registry tracks, per customer, the set of lease addresses currently open
// or being opened, and a flat index of every known lease for migration.
type Registry struct {
	mu    sync.Mutex
	store KVStore
}

// NewRegistry constructs a registry backed by store.
func NewRegistry(store KVStore) *Registry {
	return &Registry{store: store}
}

// ReservePending records that customer has an OpenLease instantiate in
// flight, rejecting a second concurrent request.
func (r *Registry) ReservePending(customer string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var marker struct{ Reserved bool }
	ok, err := r.store.KVGet(customerPendingKey(customer), &marker)
	if err != nil {
		return err
	}
	if ok && marker.Reserved {
		return ErrCustomerOpenInProgress
	}
	return r.store.KVPut(customerPendingKey(customer), struct{ Reserved bool }{Reserved: true})
}

// ClearPending releases customer's open-in-progress reservation when an
// open fails; on success RecordOpened releases it instead.
func (r *Registry) ClearPending(customer string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.KVDelete(customerPendingKey(customer))
}

// RecordOpened adds a newly instantiated lease to customer's open set and
// to the flat migration index, and clears the pending reservation.
func (r *Registry) RecordOpened(customer, lease string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.KVPut(customerLeaseKey(customer, lease), struct{ Open bool }{Open: true}); err != nil {
		return err
	}
	if err := r.store.KVPut(leaseIndexKey(lease), leaseRecord{Customer: customer}); err != nil {
		return err
	}
	return r.store.KVDelete(customerPendingKey(customer))
}

// FinalizeLease removes lease from its customer's open set and the
// migration index, called back by the lease contract itself on reaching a
// terminal state.
func (r *Registry) FinalizeLease(lease string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var rec leaseRecord
	ok, err := r.store.KVGet(leaseIndexKey(lease), &rec)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownLease
	}
	if err := r.store.KVDelete(customerLeaseKey(rec.Customer, lease)); err != nil {
		return err
	}
	return r.store.KVDelete(leaseIndexKey(lease))
}

// OpenLeasesOf lists every open lease address for customer. It assumes no
// single customer has enough open leases to need pagination; unlike the
// flat migration index, this path is always bounded by one customer's
// activity.
func (r *Registry) OpenLeasesOf(customer string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prefix := []byte(fmt.Sprintf("leaser/customer/%s/", customer))
	keys, _, err := r.store.KVIterate(prefix, nil, 0)
	if err != nil {
		return nil, err
	}
	leases := make([]string, 0, len(keys))
	for _, k := range keys {
		leases = append(leases, strings.TrimPrefix(string(k), string(prefix)))
	}
	sort.Strings(leases)
	return leases, nil
}

func replySeqKey() []byte { return []byte("leaser/reply_seq") }

func replyPendingKey(id uint64) []byte {
	return []byte(fmt.Sprintf("leaser/reply/%d", id))
}

// NextReplyID draws the next value from the factory's monotone
// instantiate-reply counter (§5 "Instantiation-reply correlation").
func (r *Registry) NextReplyID() (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var v struct{ Seq uint64 }
	if _, err := r.store.KVGet(replySeqKey(), &v); err != nil {
		return 0, err
	}
	next := v.Seq + 1
	if err := r.store.KVPut(replySeqKey(), struct{ Seq uint64 }{Seq: next}); err != nil {
		return 0, err
	}
	return next, nil
}

// pendingReply is the instantiate-reply correlation record: the customer
// the reply belongs to, plus the borrow the quote approved so it can be
// drawn from the LPP once the lease's address is known.
type pendingReply struct {
	Customer string
	Borrow   coin.DTO
}

// RecordPendingReply remembers which customer and approved borrow amount a
// drawn reply id belongs to, so the later instantiate-reply callback can
// resolve the new lease's address back to its customer and draw its loan.
func (r *Registry) RecordPendingReply(replyID uint64, customer string, borrow coin.Coin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.KVPut(replyPendingKey(replyID), pendingReply{Customer: customer, Borrow: coin.NewDTO(borrow)})
}

// ResolvePendingReply looks up and clears the customer and borrow amount
// associated with replyID.
func (r *Registry) ResolvePendingReply(replyID uint64) (customer string, borrow coin.DTO, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var v pendingReply
	ok, err := r.store.KVGet(replyPendingKey(replyID), &v)
	if err != nil {
		return "", coin.DTO{}, err
	}
	if !ok {
		return "", coin.DTO{}, ErrUnknownReply
	}
	if err := r.store.KVDelete(replyPendingKey(replyID)); err != nil {
		return "", coin.DTO{}, err
	}
	return v.Customer, v.Borrow, nil
}

// MigrationPage is one bounded batch of lease addresses returned by
// ListForMigration, with an opaque continuation token for the next call.
type MigrationPage struct {
	Leases []string
	Next   []byte // empty once exhausted
}

// ListForMigration returns up to batchSize lease addresses starting after
// the continuation token from, implementing §4.6's paginated MigrateLeases
// sweep.
func (r *Registry) ListForMigration(from []byte, batchSize int) (MigrationPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys, next, err := r.store.KVIterate([]byte(leaseIndexPrefix), from, batchSize)
	if err != nil {
		return MigrationPage{}, err
	}
	leases := make([]string, 0, len(keys))
	for _, k := range keys {
		leases = append(leases, strings.TrimPrefix(string(k), leaseIndexPrefix))
	}
	return MigrationPage{Leases: leases, Next: next}, nil
}
