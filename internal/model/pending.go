package model

// PendingSync batches the intents that the next reconciliation cycle turns
// into native calls.
type PendingSync struct {
	redraw []ContainerID
	queued map[ContainerID]struct{}

	// FocusChange asks the cycle to align native focus and emit a
	// focus_changed event.
	FocusChange bool
	// ResetWindowEffects reapplies borders to every window instead of only
	// the previously focused one.
	ResetWindowEffects bool
}

// QueueRedraw adds a window to the redraw set. It reports false when the
// window was already queued.
func (p *PendingSync) QueueRedraw(id ContainerID) bool {
	if p.queued == nil {
		p.queued = make(map[ContainerID]struct{})
	}
	if _, ok := p.queued[id]; ok {
		return false
	}
	p.queued[id] = struct{}{}
	p.redraw = append(p.redraw, id)
	return true
}

// Redraw returns the queued window IDs in insertion order.
func (p *PendingSync) Redraw() []ContainerID {
	out := make([]ContainerID, len(p.redraw))
	copy(out, p.redraw)
	return out
}

func (p *PendingSync) HasRedraw() bool {
	return len(p.redraw) > 0
}

func (p *PendingSync) ClearRedraw() {
	p.redraw = nil
	p.queued = nil
}

func (p *PendingSync) QueueFocusChange() {
	p.FocusChange = true
}

func (p *PendingSync) QueueResetWindowEffects() {
	p.ResetWindowEffects = true
}

// Empty reports whether a cycle would have nothing queued to do.
func (p *PendingSync) Empty() bool {
	return !p.HasRedraw() && !p.FocusChange && !p.ResetWindowEffects
}
