// Package planner keeps a locally mirrored workout-plan aggregate in sync
// with the store during an editing burst. Every mutation applies locally
// first and records a rollback in a reconciliation log, so a failed persist
// unwinds exactly the optimistic change it made.
package planner

import (
	"context"
	"sync"

	"github.com/saeid-a/GymAppBack/internal/models"
)

// Optimistic entries get ids below this bound until the store assigns real
// ones, so they can never collide with persisted rows.
const tempIDBase = -1000

type ReloadFunc func(ctx context.Context) (*models.WorkoutPlanDetail, error)

type pendingOp struct {
	kind     string
	rollback func()
}

type Editor struct {
	mu         sync.Mutex
	detail     *models.WorkoutPlanDetail
	reload     ReloadFunc
	nextTempID int64
	stale      bool
}

func NewEditor(detail *models.WorkoutPlanDetail, reload ReloadFunc) *Editor {
	return &Editor{
		detail:     detail,
		reload:     reload,
		nextTempID: tempIDBase,
	}
}

// Snapshot returns a deep copy of the current local aggregate.
func (e *Editor) Snapshot() *models.WorkoutPlanDetail {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyDetail(e.detail)
}

// Stale reports whether a failed removal left local state untrusted; callers
// should Reload before further edits.
func (e *Editor) Stale() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stale
}

func (e *Editor) Reload(ctx context.Context) error {
	detail, err := e.reload(ctx)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.detail = detail
	e.stale = false
	e.mu.Unlock()
	return nil
}

// AddItem applies the item locally under a temporary id, then persists. A
// persist failure runs the recorded rollback, filtering the optimistic entry
// back out.
func (e *Editor) AddItem(
	ctx context.Context,
	exerciseID int64,
	order int,
	persist func(ctx context.Context) (*models.WorkoutPlanItem, error),
) (*models.WorkoutPlanItem, error) {
	e.mu.Lock()
	tempID := e.allocTempID()
	optimistic := models.WorkoutPlanItemDetail{
		WorkoutPlanItem: models.WorkoutPlanItem{
			ID:         tempID,
			PlanID:     e.detail.ID,
			ExerciseID: exerciseID,
			Order:      order,
		},
		Sets: []models.WorkoutPlanItemSet{},
	}
	e.detail.Items = append(e.detail.Items, optimistic)
	op := pendingOp{kind: "add_item", rollback: func() { e.removeItemLocked(tempID) }}
	e.mu.Unlock()

	persisted, err := persist(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		op.rollback()
		return nil, err
	}

	for i := range e.detail.Items {
		if e.detail.Items[i].ID == tempID {
			sets := e.detail.Items[i].Sets
			e.detail.Items[i] = models.WorkoutPlanItemDetail{WorkoutPlanItem: *persisted, Sets: sets}
			break
		}
	}
	return persisted, nil
}

// AddSet mirrors AddItem for a set under an existing item.
func (e *Editor) AddSet(
	ctx context.Context,
	itemID int64,
	reps, weight, rest string,
	persist func(ctx context.Context) (*models.WorkoutPlanItemSet, error),
) (*models.WorkoutPlanItemSet, error) {
	e.mu.Lock()
	item := e.findItemLocked(itemID)
	if item == nil {
		e.mu.Unlock()
		return nil, ErrUnknownItem
	}
	tempID := e.allocTempID()
	item.Sets = append(item.Sets, models.WorkoutPlanItemSet{
		ID:     tempID,
		ItemID: itemID,
		Reps:   reps,
		Weight: weight,
		Rest:   rest,
	})
	op := pendingOp{kind: "add_set", rollback: func() { e.removeSetLocked(itemID, tempID) }}
	e.mu.Unlock()

	persisted, err := persist(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		op.rollback()
		return nil, err
	}

	if item := e.findItemLocked(itemID); item != nil {
		for i := range item.Sets {
			if item.Sets[i].ID == tempID {
				item.Sets[i] = *persisted
				break
			}
		}
	}
	return persisted, nil
}

// RemoveItem deletes locally then persists. A failed persist does not try to
// resurrect the entry; the editor is marked stale for a full reload.
func (e *Editor) RemoveItem(
	ctx context.Context,
	itemID int64,
	persist func(ctx context.Context) error,
) error {
	e.mu.Lock()
	if e.findItemLocked(itemID) == nil {
		e.mu.Unlock()
		return ErrUnknownItem
	}
	e.removeItemLocked(itemID)
	e.mu.Unlock()

	if err := persist(ctx); err != nil {
		e.mu.Lock()
		e.stale = true
		e.mu.Unlock()
		return err
	}
	return nil
}

// RemoveSet follows the RemoveItem failure policy.
func (e *Editor) RemoveSet(
	ctx context.Context,
	itemID, setID int64,
	persist func(ctx context.Context) error,
) error {
	e.mu.Lock()
	item := e.findItemLocked(itemID)
	if item == nil {
		e.mu.Unlock()
		return ErrUnknownItem
	}
	e.removeSetLocked(itemID, setID)
	e.mu.Unlock()

	if err := persist(ctx); err != nil {
		e.mu.Lock()
		e.stale = true
		e.mu.Unlock()
		return err
	}
	return nil
}

// Reorder recomputes every item's order from the given id sequence and
// persists only the items whose position changed.
func (e *Editor) Reorder(
	ctx context.Context,
	orderedItemIDs []int64,
	persist func(ctx context.Context, itemID int64, order int) error,
) error {
	e.mu.Lock()
	if len(orderedItemIDs) != len(e.detail.Items) {
		e.mu.Unlock()
		return ErrUnknownItem
	}

	byID := make(map[int64]*models.WorkoutPlanItemDetail, len(e.detail.Items))
	for i := range e.detail.Items {
		byID[e.detail.Items[i].ID] = &e.detail.Items[i]
	}

	type delta struct {
		itemID int64
		order  int
	}
	deltas := make([]delta, 0)
	for position, itemID := range orderedItemIDs {
		item, ok := byID[itemID]
		if !ok {
			e.mu.Unlock()
			return ErrUnknownItem
		}
		if item.Order != position {
			item.Order = position
			deltas = append(deltas, delta{itemID: itemID, order: position})
		}
	}
	sortItemsLocked(e.detail)
	e.mu.Unlock()

	for _, d := range deltas {
		if err := persist(ctx, d.itemID, d.order); err != nil {
			e.mu.Lock()
			e.stale = true
			e.mu.Unlock()
			return err
		}
	}
	return nil
}

func (e *Editor) allocTempID() int64 {
	e.nextTempID--
	return e.nextTempID
}

func (e *Editor) findItemLocked(itemID int64) *models.WorkoutPlanItemDetail {
	for i := range e.detail.Items {
		if e.detail.Items[i].ID == itemID {
			return &e.detail.Items[i]
		}
	}
	return nil
}

func (e *Editor) removeItemLocked(itemID int64) {
	items := e.detail.Items[:0]
	for _, item := range e.detail.Items {
		if item.ID != itemID {
			items = append(items, item)
		}
	}
	e.detail.Items = items
}

func (e *Editor) removeSetLocked(itemID, setID int64) {
	item := e.findItemLocked(itemID)
	if item == nil {
		return
	}
	sets := item.Sets[:0]
	for _, set := range item.Sets {
		if set.ID != setID {
			sets = append(sets, set)
		}
	}
	item.Sets = sets
}

func sortItemsLocked(detail *models.WorkoutPlanDetail) {
	items := detail.Items
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && items[j].Order < items[j-1].Order; j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}

func copyDetail(detail *models.WorkoutPlanDetail) *models.WorkoutPlanDetail {
	out := &models.WorkoutPlanDetail{
		WorkoutPlan: detail.WorkoutPlan,
		Items:       make([]models.WorkoutPlanItemDetail, len(detail.Items)),
	}
	for i, item := range detail.Items {
		sets := make([]models.WorkoutPlanItemSet, len(item.Sets))
		copy(sets, item.Sets)
		out.Items[i] = models.WorkoutPlanItemDetail{WorkoutPlanItem: item.WorkoutPlanItem, Sets: sets}
	}
	return out
}
