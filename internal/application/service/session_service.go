package service

import (
	"context"
	"sync"

	"github.com/wicara/warungpos-api/internal/domain/entity"
	"github.com/wicara/warungpos-api/internal/domain/enum"
	"github.com/wicara/warungpos-api/internal/domain/extraction"
	"github.com/wicara/warungpos-api/pkg/apperror"
)

// SessionState names the confirmation workflow stage of a session
type SessionState string

const (
	StateIdle             SessionState = "idle"
	StateAwaitingQuantity SessionState = "awaiting_quantity"
	StateAwaitingPrice    SessionState = "awaiting_price"
)

// PriceSuggester looks up a historical price for an item name. Suggestions
// only pre-populate the price confirmation stage; they are never applied
// automatically.
type PriceSuggester interface {
	Suggest(ctx context.Context, name string) (*int64, enum.PriceConfidence)
}

// CartCommitter freezes a cart into an immutable sale
type CartCommitter interface {
	Commit(ctx context.Context, input *CommitInput) (*entity.Transaction, error)
}

// pendingQtyEntry pairs the surfaced pending item with the price the
// extractor already produced for it, if any, so a confirmed quantity can
// skip the price stage when the price is known.
type pendingQtyEntry struct {
	item  entity.PendingQuantityItem
	price *int64
}

// deferredBatch holds the merge-ready remainder of an extraction batch
// while its vague quantities are being confirmed. Nothing from the batch
// touches the cart until the quantity stage resolves.
type deferredBatch struct {
	update       []entity.LineUpdate
	remove       []entity.LineUpdate
	ready        []entity.LineUpdate
	pricePending []entity.PendingPriceItem
}

// orderSession is the per-register order in progress
type orderSession struct {
	mu         sync.Mutex
	cart       entity.Cart
	pendingQty []pendingQtyEntry
	pendingPrc []entity.PendingPriceItem
	deferred   *deferredBatch
}

func (s *orderSession) state() SessionState {
	switch {
	case len(s.pendingQty) > 0:
		return StateAwaitingQuantity
	case len(s.pendingPrc) > 0:
		return StateAwaitingPrice
	default:
		return StateIdle
	}
}

// SessionSnapshot is the externally visible view of a session
type SessionSnapshot struct {
	State           SessionState                 `json:"state"`
	Cart            entity.Cart                  `json:"cart"`
	PendingQuantity []entity.PendingQuantityItem `json:"pending_quantity,omitempty"`
	PendingPrice    []entity.PendingPriceItem    `json:"pending_price,omitempty"`
	AmbiguousQuery  string                       `json:"ambiguous_query,omitempty"`
}

// QuantityConfirmation is one human answer in the quantity stage. A missing
// or non-positive quantity drops that item without failing the batch.
type QuantityConfirmation struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// PriceConfirmation is one human answer in the price stage. Price is decimal
// currency; nil or non-positive drops that item.
type PriceConfirmation struct {
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
}

// SessionService owns the in-progress order sessions and runs the two-stage
// confirmation workflow that gates extraction results before they reach the
// cart merge. Sessions are in-memory and single-writer: one pending batch at
// a time per session.
type SessionService struct {
	mu        sync.Mutex
	sessions  map[string]*orderSession
	prices    PriceSuggester
	committer CartCommitter
}

// NewSessionService creates a new session service
func NewSessionService(prices PriceSuggester, committer CartCommitter) *SessionService {
	return &SessionService{
		sessions:  make(map[string]*orderSession),
		prices:    prices,
		committer: committer,
	}
}

func (s *SessionService) session(id string) *orderSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &orderSession{}
		s.sessions[id] = sess
	}
	return sess
}

// ProcessExtraction feeds one extractor result through the confirmation
// workflow. While a previous batch is awaiting confirmation the call is
// refused with ErrConfirmationPending; the dialogs are modal.
func (s *SessionService) ProcessExtraction(ctx context.Context, sessionID string, raw extraction.RawResult) (*SessionSnapshot, error) {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.state() != StateIdle {
		return nil, apperror.ErrConfirmationPending
	}

	result := extraction.Normalize(raw)

	if amb, ok := result.Payload.(extraction.Ambiguous); ok {
		snap := s.snapshotLocked(sess)
		snap.AmbiguousQuery = amb.Query
		return snap, nil
	}

	batch := s.splitBatch(ctx, sess, result)

	if len(sess.pendingQty) > 0 {
		// Vague quantities block the whole batch: nothing merges until
		// the human answers or skips.
		sess.deferred = batch
		return s.snapshotLocked(sess), nil
	}

	s.applyBatchLocked(sess, batch)
	return s.snapshotLocked(sess), nil
}

// splitBatch sorts a normalized result into merge-ready entries, quantity
// confirmations, and price confirmations. Items flagged vague (or with no
// quantity at all) go to the quantity stage; items with a quantity but no
// price go to the price stage rather than being dropped.
func (s *SessionService) splitBatch(ctx context.Context, sess *orderSession, result extraction.Result) *deferredBatch {
	batch := &deferredBatch{}

	flagged := make(map[string]bool, len(result.NeedsQuantity))
	for _, flag := range result.NeedsQuantity {
		flagged[entity.NameKey(flag.Name)] = true
	}

	var addItems []extraction.Item
	switch p := result.Payload.(type) {
	case extraction.FlatItems:
		addItems = p
	case extraction.ActionSet:
		addItems = p.Add
		for _, item := range p.Update {
			batch.update = append(batch.update, entity.LineUpdate{
				Name: item.Name, Quantity: item.Quantity, Price: item.Price, Source: enum.ItemSourceVoice,
			})
		}
		for _, item := range p.Remove {
			batch.remove = append(batch.remove, entity.LineUpdate{Name: item.Name})
		}
	}

	// Price the extractor already knows for each flagged item, so a
	// confirmed quantity can go straight to the cart.
	knownPrice := make(map[string]*int64, len(addItems))
	for _, item := range addItems {
		knownPrice[entity.NameKey(item.Name)] = item.Price
	}

	for _, flag := range result.NeedsQuantity {
		sess.pendingQty = append(sess.pendingQty, pendingQtyEntry{
			item: entity.PendingQuantityItem{
				Name:              flag.Name,
				SuggestedQuantity: flag.SuggestedQuantity,
				OriginalPhrase:    flag.OriginalPhrase,
				Reason:            flag.Reason,
			},
			price: knownPrice[entity.NameKey(flag.Name)],
		})
	}

	for _, item := range addItems {
		if flagged[entity.NameKey(item.Name)] {
			continue // surfaced in the quantity stage instead
		}
		if item.Quantity < 1 {
			// No quantity spoken and no flag from the extractor: still a
			// human's call, not ours.
			sess.pendingQty = append(sess.pendingQty, pendingQtyEntry{
				item: entity.PendingQuantityItem{
					Name:              item.Name,
					SuggestedQuantity: 1,
					Reason:            "no quantity given",
				},
				price: item.Price,
			})
			continue
		}
		if item.Price == nil {
			batch.pricePending = append(batch.pricePending, s.priceItem(ctx, item.Name, item.Quantity))
			continue
		}
		batch.ready = append(batch.ready, entity.LineUpdate{
			Name: item.Name, Quantity: item.Quantity, Price: item.Price, Source: enum.ItemSourceVoice,
		})
	}

	for _, flag := range result.NeedsPrice {
		if flagged[entity.NameKey(flag.Name)] {
			continue
		}
		if s.hasPricePending(batch, flag.Name) {
			continue
		}
		batch.pricePending = append(batch.pricePending, s.priceItem(ctx, flag.Name, flag.Quantity))
	}

	return batch
}

func (s *SessionService) hasPricePending(batch *deferredBatch, name string) bool {
	for _, p := range batch.pricePending {
		if entity.SameItem(p.Name, name) {
			return true
		}
	}
	return false
}

func (s *SessionService) priceItem(ctx context.Context, name string, qty int) entity.PendingPriceItem {
	item := entity.PendingPriceItem{Name: name, Quantity: qty, Confidence: enum.PriceConfidenceNone}
	if s.prices != nil {
		item.SuggestedPrice, item.Confidence = s.prices.Suggest(ctx, name)
	}
	return item
}

// applyBatchLocked merges the ready portion of a batch into the cart and
// promotes its unpriced items to the price stage.
func (s *SessionService) applyBatchLocked(sess *orderSession, batch *deferredBatch) {
	if batch == nil {
		return
	}
	if len(batch.update) > 0 || len(batch.remove) > 0 {
		sess.cart.ApplyActionSet(batch.ready, batch.update, batch.remove)
	} else {
		sess.cart.AddItems(batch.ready)
	}
	sess.pendingPrc = append(sess.pendingPrc, batch.pricePending...)
}

// ConfirmQuantities resolves the quantity stage. Items answered with a
// positive quantity proceed (to the cart when their price is known, to the
// price stage otherwise); items answered with zero, a negative number, or
// not at all are dropped. The deferred batch then merges.
func (s *SessionService) ConfirmQuantities(ctx context.Context, sessionID string, confirmations []QuantityConfirmation) (*SessionSnapshot, error) {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if len(sess.pendingQty) == 0 {
		return nil, apperror.NewBadRequestError("No quantities awaiting confirmation")
	}

	confirmed := make(map[string]int, len(confirmations))
	for _, c := range confirmations {
		confirmed[entity.NameKey(c.Name)] = c.Quantity
	}

	batch := sess.deferred
	if batch == nil {
		batch = &deferredBatch{}
	}

	for _, entry := range sess.pendingQty {
		qty, ok := confirmed[entity.NameKey(entry.item.Name)]
		if !ok || qty < 1 {
			continue // dropped, not an error
		}
		if entry.price != nil {
			batch.ready = append(batch.ready, entity.LineUpdate{
				Name: entry.item.Name, Quantity: qty, Price: entry.price, Source: enum.ItemSourceVoice,
			})
			continue
		}
		batch.pricePending = append(batch.pricePending, s.priceItem(ctx, entry.item.Name, qty))
	}

	sess.pendingQty = nil
	sess.deferred = nil
	s.applyBatchLocked(sess, batch)

	return s.snapshotLocked(sess), nil
}

// SkipQuantities discards every pending quantity item. The rest of the
// deferred batch still merges; skip is a successful outcome, not an error.
func (s *SessionService) SkipQuantities(sessionID string) (*SessionSnapshot, error) {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if len(sess.pendingQty) == 0 {
		return nil, apperror.NewBadRequestError("No quantities awaiting confirmation")
	}

	batch := sess.deferred
	sess.pendingQty = nil
	sess.deferred = nil
	s.applyBatchLocked(sess, batch)

	return s.snapshotLocked(sess), nil
}

// ConfirmPrices resolves the price stage. Items with a positive price merge
// into the cart as adds; blank or non-positive answers drop the item.
func (s *SessionService) ConfirmPrices(sessionID string, confirmations []PriceConfirmation) (*SessionSnapshot, error) {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if len(sess.pendingPrc) == 0 {
		return nil, apperror.NewBadRequestError("No prices awaiting confirmation")
	}

	confirmed := make(map[string]*float64, len(confirmations))
	for _, c := range confirmations {
		confirmed[entity.NameKey(c.Name)] = c.Price
	}

	var adds []entity.LineUpdate
	for _, item := range sess.pendingPrc {
		price, ok := confirmed[entity.NameKey(item.Name)]
		if !ok || price == nil || *price <= 0 {
			continue
		}
		cents := int64(*price*100 + 0.5)
		adds = append(adds, entity.LineUpdate{
			Name: item.Name, Quantity: item.Quantity, Price: &cents, Source: enum.ItemSourceVoice,
		})
	}

	sess.pendingPrc = nil
	sess.cart.AddItems(adds)

	return s.snapshotLocked(sess), nil
}

// SkipPrices discards every pending price item
func (s *SessionService) SkipPrices(sessionID string) (*SessionSnapshot, error) {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if len(sess.pendingPrc) == 0 {
		return nil, apperror.NewBadRequestError("No prices awaiting confirmation")
	}

	sess.pendingPrc = nil
	return s.snapshotLocked(sess), nil
}

// AddManualItem puts a line into the cart directly, bypassing the workflow.
// Used by the register UI when the cashier types an item in.
func (s *SessionService) AddManualItem(sessionID, name string, quantity int, price float64) (*SessionSnapshot, error) {
	if name == "" || quantity < 1 || price <= 0 {
		return nil, apperror.NewBadRequestError("Manual items need a name, a positive quantity and a positive price")
	}

	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	cents := int64(price*100 + 0.5)
	sess.cart.AddItems([]entity.LineUpdate{{
		Name: name, Quantity: quantity, Price: &cents, Source: enum.ItemSourceManual,
	}})

	return s.snapshotLocked(sess), nil
}

// RemoveItem deletes one line from the cart by name
func (s *SessionService) RemoveItem(sessionID, name string) (*SessionSnapshot, error) {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.cart.ApplyActionSet(nil, nil, []entity.LineUpdate{{Name: name}})
	return s.snapshotLocked(sess), nil
}

// Reset discards the cart and any pending confirmations
func (s *SessionService) Reset(sessionID string) *SessionSnapshot {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.cart.Reset()
	sess.pendingQty = nil
	sess.pendingPrc = nil
	sess.deferred = nil

	return s.snapshotLocked(sess)
}

// Snapshot returns the current view of a session
func (s *SessionService) Snapshot(sessionID string) *SessionSnapshot {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.snapshotLocked(sess)
}

// Checkout commits the session's cart as a sale and, on success, empties the
// cart. Pending confirmations must be resolved first.
func (s *SessionService) Checkout(ctx context.Context, sessionID string, method enum.PaymentMethod, paymentReceived *float64) (*entity.Transaction, error) {
	sess := s.session(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.state() != StateIdle {
		return nil, apperror.ErrConfirmationPending
	}

	var receivedCents *int64
	if paymentReceived != nil {
		cents := int64(*paymentReceived*100 + 0.5)
		receivedCents = &cents
	}

	tx, err := s.committer.Commit(ctx, &CommitInput{
		Lines:           sess.cart.Lines,
		PaymentMethod:   method,
		PaymentReceived: receivedCents,
	})
	if err != nil {
		return nil, err
	}

	sess.cart.Reset()
	return tx, nil
}

func (s *SessionService) snapshotLocked(sess *orderSession) *SessionSnapshot {
	snap := &SessionSnapshot{
		State: sess.state(),
		Cart:  sess.cart,
	}
	for _, entry := range sess.pendingQty {
		snap.PendingQuantity = append(snap.PendingQuantity, entry.item)
	}
	snap.PendingPrice = append(snap.PendingPrice, sess.pendingPrc...)
	return snap
}
