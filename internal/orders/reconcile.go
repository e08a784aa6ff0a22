package orders

// StockChange is one signed inventory delta derived from an order
// transition. A negative delta is a deduction (clamped at zero by the
// stock primitive); a positive delta is a restoration (never clamped).
type StockChange struct {
	ProductID string
	Delta     int
	Reason    string
}

// CreationChanges returns the inventory effect of placing an order: a
// single deduction unless the order starts out Cancelled.
func CreationChanges(o Order) []StockChange {
	if o.Status.Cancelled() {
		return nil
	}
	return []StockChange{{
		ProductID: o.ProductID,
		Delta:     -o.Quantity,
		Reason:    creationReason(o.Status),
	}}
}

// EditChanges derives the inventory effect of an edit from the
// transition between the persisted order and its updated form. The
// branches are evaluated in priority order and are mutually exclusive:
// cancellation state dominates product and quantity changes (a
// cancelled order holds no reservation whatever its other fields), and
// a product swap carries the full new quantity so a simultaneous
// quantity change never fires a second adjustment.
func EditChanges(old, updated Order) []StockChange {
	wasCancelled := old.Status.Cancelled()
	nowCancelled := updated.Status.Cancelled()

	switch {
	case wasCancelled && !nowCancelled:
		// nothing was deducted while cancelled; deduct now
		return []StockChange{{
			ProductID: updated.ProductID,
			Delta:     -updated.Quantity,
			Reason:    ReasonReactivated,
		}}

	case !wasCancelled && nowCancelled:
		// release the old reservation back to the old product
		return []StockChange{{
			ProductID: old.ProductID,
			Delta:     old.Quantity,
			Reason:    ReasonCancelled,
		}}

	case !nowCancelled && old.ProductID != updated.ProductID:
		return []StockChange{
			{
				ProductID: old.ProductID,
				Delta:     old.Quantity,
				Reason:    ReasonSwapRestore,
			},
			{
				ProductID: updated.ProductID,
				Delta:     -updated.Quantity,
				Reason:    ReasonSwapDeduct,
			},
		}

	case !nowCancelled && old.Quantity != updated.Quantity:
		delta := updated.Quantity - old.Quantity
		return []StockChange{{
			ProductID: updated.ProductID,
			Delta:     -delta, // negative when the order grew
			Reason:    ReasonQuantityChange,
		}}
	}
	return nil
}

// DeletionChanges returns the restoration owed when an order record is
// removed. A cancelled order holds no reservation, so nothing is owed.
func DeletionChanges(o Order) []StockChange {
	if o.Status.Cancelled() {
		return nil
	}
	return []StockChange{{
		ProductID: o.ProductID,
		Delta:     o.Quantity,
		Reason:    ReasonDeleted,
	}}
}
