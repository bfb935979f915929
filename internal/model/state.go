package model

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/1broseidon/tilesync/internal/platform"
)

// EffectClass is the border class last applied to a window.
type EffectClass int

const (
	EffectUnfocused EffectClass = iota + 1
	EffectFocused
)

// State is the process-wide window model. It has a single writer: the
// daemon reconciler goroutine.
type State struct {
	nodes   []*Container
	root    ContainerID
	focused ContainerID

	// RecentFocused is a hint to the container focused at the end of the last
	// focus sync. It is not ownership and may no longer resolve.
	RecentFocused ContainerID

	PendingSync PendingSync

	emitter Emitter
	// applied caches the border class last sent to each window.
	applied map[ContainerID]EffectClass
}

// NewState returns a model holding only the root container, which is also
// the initial focus target.
func NewState(emitter Emitter) *State {
	if emitter == nil {
		emitter = EmitterFunc(func(Event) {})
	}
	s := &State{
		root:          NoContainer,
		focused:       NoContainer,
		RecentFocused: NoContainer,
		emitter:       emitter,
		applied:       make(map[ContainerID]EffectClass),
	}
	s.root = s.add(&Container{Kind: KindRoot, Parent: NoContainer})
	s.focused = s.root
	return s
}

func (s *State) add(c *Container) ContainerID {
	c.ID = ContainerID(len(s.nodes))
	c.UUID = uuid.New()
	s.nodes = append(s.nodes, c)
	return c.ID
}

// Container resolves an ID. Removed and out-of-range IDs report false.
func (s *State) Container(id ContainerID) (*Container, bool) {
	if id < 0 || int(id) >= len(s.nodes) {
		return nil, false
	}
	c := s.nodes[id]
	return c, c != nil
}

// Root returns the root container.
func (s *State) Root() *Container {
	return s.nodes[s.root]
}

// AddWorkspace appends a workspace under the root.
func (s *State) AddWorkspace(name string, bounds platform.Rect) ContainerID {
	id := s.add(&Container{
		Kind:      KindWorkspace,
		Parent:    s.root,
		Workspace: &Workspace{Name: name, Bounds: bounds},
	})
	root := s.Root()
	root.Children = append(root.Children, id)
	root.FocusOrder = append(root.FocusOrder, id)
	return id
}

// AddSplit appends a split container under a workspace or split.
func (s *State) AddSplit(parent ContainerID, direction SplitDirection) (ContainerID, error) {
	p, err := s.attachable(parent)
	if err != nil {
		return NoContainer, err
	}
	id := s.add(&Container{Kind: KindSplit, Parent: parent, Split: &Split{Direction: direction}})
	s.attach(p, id)
	return id, nil
}

// AddWindow appends a window under a workspace or split.
func (s *State) AddWindow(parent ContainerID, w Window) (ContainerID, error) {
	p, err := s.attachable(parent)
	if err != nil {
		return NoContainer, err
	}
	if w.State == "" {
		w.State = platform.WindowTiling
	}
	win := w
	id := s.add(&Container{Kind: KindWindow, Parent: parent, Window: &win})
	s.attach(p, id)
	return id, nil
}

// attach appends a new child. Inside a split the child takes an equal
// share and the existing children shrink proportionally.
func (s *State) attach(p *Container, id ContainerID) {
	c := s.nodes[id]
	c.SizePercent = 1
	if p.Kind == KindSplit && len(p.Children) > 0 {
		n := float64(len(p.Children) + 1)
		for _, sib := range p.Children {
			if sc, ok := s.Container(sib); ok {
				sc.SizePercent *= (n - 1) / n
			}
		}
		c.SizePercent = 1 / n
	}
	p.Children = append(p.Children, id)
	p.FocusOrder = append(p.FocusOrder, id)
}

// WrapInSplit replaces a container with a new split of the given direction
// holding it. The split takes over the container's position, focus rank and
// size.
func (s *State) WrapInSplit(id ContainerID, direction SplitDirection) (ContainerID, error) {
	c, ok := s.Container(id)
	if !ok {
		return NoContainer, fmt.Errorf("%w: %d", ErrContainerNotFound, id)
	}
	p, err := s.attachable(c.Parent)
	if err != nil {
		return NoContainer, err
	}

	splitID := s.add(&Container{
		Kind:        KindSplit,
		Parent:      p.ID,
		Split:       &Split{Direction: direction},
		Children:    []ContainerID{id},
		FocusOrder:  []ContainerID{id},
		SizePercent: c.SizePercent,
	})
	replaceID(p.Children, id, splitID)
	replaceID(p.FocusOrder, id, splitID)
	c.Parent = splitID
	c.SizePercent = 1
	return splitID, nil
}

// Resize grows a split child by delta (negative shrinks it), taking the
// difference evenly from its siblings. A container without siblings is left
// alone. It fails with ErrResizeLimit, changing nothing, when any child
// would drop below MinSizePercent.
func (s *State) Resize(id ContainerID, delta float64) error {
	c, ok := s.Container(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrContainerNotFound, id)
	}
	p, ok := s.Container(c.Parent)
	if !ok || p.Kind != KindSplit {
		return fmt.Errorf("%w: %s is not in a split", ErrInvalidParent, c)
	}

	var siblings []*Container
	for _, sib := range p.Children {
		if sc, ok := s.Container(sib); ok && sib != id {
			siblings = append(siblings, sc)
		}
	}
	if len(siblings) == 0 {
		return nil
	}

	share := delta / float64(len(siblings))
	if c.SizePercent+delta < MinSizePercent {
		return ErrResizeLimit
	}
	for _, sib := range siblings {
		if sib.SizePercent-share < MinSizePercent {
			return ErrResizeLimit
		}
	}

	c.SizePercent += delta
	for _, sib := range siblings {
		sib.SizePercent -= share
	}
	return nil
}

func (s *State) attachable(parent ContainerID) (*Container, error) {
	p, ok := s.Container(parent)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrContainerNotFound, parent)
	}
	if p.Kind != KindWorkspace && p.Kind != KindSplit {
		return nil, fmt.Errorf("%w: %s cannot hold children", ErrInvalidParent, p)
	}
	return p, nil
}

// RemoveContainer detaches a container and its subtree. Splits left empty
// are removed and splits left with one child are replaced by that child.
// When the focused container is inside the subtree, focus falls back to the
// nearest surviving ancestor's last focused descendant (or that ancestor)
// and focusMoved is true.
func (s *State) RemoveContainer(id ContainerID) (focusMoved bool, err error) {
	c, ok := s.Container(id)
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrContainerNotFound, id)
	}
	if id == s.root {
		return false, fmt.Errorf("%w: cannot remove root", ErrInvalidParent)
	}

	focusInside := s.isSelfOrAncestor(id, s.focused)

	s.detach(c)
	anchor := s.collapse(c.Parent)

	if focusInside {
		next := s.LastFocusedDescendant(anchor)
		if next == NoContainer {
			next = anchor
		}
		s.focused = next
		return true, nil
	}
	return false, nil
}

// detach unlinks c from its parent and frees its subtree.
func (s *State) detach(c *Container) {
	if parent, ok := s.Container(c.Parent); ok {
		parent.Children = removeID(parent.Children, c.ID)
		parent.FocusOrder = removeID(parent.FocusOrder, c.ID)
	}
	for _, d := range s.selfAndDescendants(c.ID) {
		s.nodes[d] = nil
		delete(s.applied, d)
	}
}

// collapse tidies the split id after a child left it and returns the
// nearest container that survived.
func (s *State) collapse(id ContainerID) ContainerID {
	c, ok := s.Container(id)
	if !ok || c.Kind != KindSplit {
		return id
	}

	switch len(c.Children) {
	case 0:
		parent := c.Parent
		s.detach(c)
		return s.collapse(parent)
	case 1:
		child := s.nodes[c.Children[0]]
		parent, _ := s.Container(c.Parent)
		child.Parent = parent.ID
		child.SizePercent = c.SizePercent
		replaceID(parent.Children, c.ID, child.ID)
		replaceID(parent.FocusOrder, c.ID, child.ID)
		s.nodes[c.ID] = nil
		return parent.ID
	default:
		var total float64
		for _, child := range c.Children {
			total += s.nodes[child].SizePercent
		}
		if total > 0 {
			for _, child := range c.Children {
				s.nodes[child].SizePercent /= total
			}
		}
		return c.ID
	}
}

// FocusedContainer resolves the current focus target.
func (s *State) FocusedContainer() (*Container, error) {
	c, ok := s.Container(s.focused)
	if !ok {
		return nil, ErrNoFocusedContainer
	}
	return c, nil
}

// SetFocused moves logical focus and records it in each ancestor's focus
// order. It does not queue a focus sync.
func (s *State) SetFocused(id ContainerID) error {
	if _, ok := s.Container(id); !ok {
		return fmt.Errorf("%w: %d", ErrContainerNotFound, id)
	}
	s.focused = id
	child := id
	for {
		c, _ := s.Container(child)
		parent, ok := s.Container(c.Parent)
		if !ok {
			break
		}
		parent.FocusOrder = append([]ContainerID{child}, removeID(parent.FocusOrder, child)...)
		child = parent.ID
	}
	return nil
}

// ClearFocus leaves the model without a focus target. A sync cycle run in
// this state fails with ErrNoFocusedContainer.
func (s *State) ClearFocus() {
	s.focused = NoContainer
}

// WorkspaceOf returns the workspace owning a container.
func (s *State) WorkspaceOf(id ContainerID) (*Container, error) {
	c, ok := s.Container(id)
	for ok {
		if c.Kind == KindWorkspace {
			return c, nil
		}
		c, ok = s.Container(c.Parent)
	}
	return nil, fmt.Errorf("%w: %d", ErrNoWorkspace, id)
}

// Workspaces returns workspaces in tree order.
func (s *State) Workspaces() []*Container {
	var out []*Container
	for _, id := range s.Root().Children {
		if c, ok := s.Container(id); ok && c.Kind == KindWorkspace {
			out = append(out, c)
		}
	}
	return out
}

func (s *State) WorkspaceByName(name string) (*Container, bool) {
	for _, ws := range s.Workspaces() {
		if ws.Workspace.Name == name {
			return ws, true
		}
	}
	return nil, false
}

// DisplayedWorkspace returns the first displayed workspace.
func (s *State) DisplayedWorkspace() (*Container, bool) {
	for _, ws := range s.Workspaces() {
		if ws.Workspace.Displayed {
			return ws, true
		}
	}
	return nil, false
}

// Windows returns every window in depth-first tree order.
func (s *State) Windows() []*Container {
	return s.WindowsIn(s.root)
}

// WindowsIn returns the windows in the subtree rooted at id.
func (s *State) WindowsIn(id ContainerID) []*Container {
	var out []*Container
	for _, d := range s.selfAndDescendants(id) {
		if c := s.nodes[d]; c.Kind == KindWindow {
			out = append(out, c)
		}
	}
	return out
}

// WindowByHandle finds the window bound to a native handle.
func (s *State) WindowByHandle(handle platform.WindowID) (*Container, bool) {
	for _, c := range s.Windows() {
		if c.Window.Handle == handle {
			return c, true
		}
	}
	return nil, false
}

// QueueRedraw queues the windows in each container's subtree.
func (s *State) QueueRedraw(ids ...ContainerID) {
	for _, id := range ids {
		for _, w := range s.WindowsIn(id) {
			s.PendingSync.QueueRedraw(w.ID)
		}
	}
}

// WindowsToRedraw resolves the redraw set, skipping windows removed since
// they were queued.
func (s *State) WindowsToRedraw() []*Container {
	var out []*Container
	for _, id := range s.PendingSync.Redraw() {
		if c, ok := s.Container(id); ok && c.Kind == KindWindow {
			out = append(out, c)
		}
	}
	return out
}

// LastFocusedDescendant walks the focus order down from id to a leaf.
func (s *State) LastFocusedDescendant(id ContainerID) ContainerID {
	c, ok := s.Container(id)
	if !ok || len(c.FocusOrder) == 0 {
		return NoContainer
	}
	current := NoContainer
	for ok && len(c.FocusOrder) > 0 {
		current = c.FocusOrder[0]
		c, ok = s.Container(current)
	}
	return current
}

// AppliedEffect reports the border class last sent for a window.
func (s *State) AppliedEffect(id ContainerID) (EffectClass, bool) {
	class, ok := s.applied[id]
	return class, ok
}

// RecordEffect remembers the border class sent for a window.
func (s *State) RecordEffect(id ContainerID, class EffectClass) {
	s.applied[id] = class
}

// Emit forwards an event to subscribers.
func (s *State) Emit(ev Event) {
	s.emitter.Emit(ev)
}

func (s *State) isSelfOrAncestor(ancestor, id ContainerID) bool {
	c, ok := s.Container(id)
	for ok {
		if c.ID == ancestor {
			return true
		}
		c, ok = s.Container(c.Parent)
	}
	return false
}

func (s *State) selfAndDescendants(id ContainerID) []ContainerID {
	if _, ok := s.Container(id); !ok {
		return nil
	}
	var out []ContainerID
	stack := []ContainerID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		c, ok := s.Container(cur)
		if !ok {
			continue
		}
		out = append(out, cur)
		for i := len(c.Children) - 1; i >= 0; i-- {
			stack = append(stack, c.Children[i])
		}
	}
	return out
}
