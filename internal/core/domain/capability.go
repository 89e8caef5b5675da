package domain

import "time"

type Capability string

const (
	CapCreateTask       Capability = "task:create"
	CapViewAnyTask      Capability = "task:view:any"
	CapUpdateAnyTask    Capability = "task:update:any"
	CapDeleteAnyTask    Capability = "task:delete:any"
	CapAssignAnyTask    Capability = "task:assign:any"
	CapChangeAnyStatus  Capability = "task:status:any"
	CapModerateComments Capability = "comment:moderate"
	CapManageUsers      Capability = "user:manage"
)

type CapabilitySet map[Capability]struct{}

func NewCapabilitySet(caps ...Capability) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

func (s CapabilitySet) with(caps ...Capability) CapabilitySet {
	set := make(CapabilitySet, len(s)+len(caps))
	for c := range s {
		set[c] = struct{}{}
	}
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

var (
	userCapabilities    = NewCapabilitySet(CapCreateTask)
	managerCapabilities = userCapabilities.with(CapViewAnyTask, CapAssignAnyTask, CapChangeAnyStatus)
	adminCapabilities   = managerCapabilities.with(CapUpdateAnyTask, CapDeleteAnyTask, CapModerateComments, CapManageUsers)
)

// RoleCapabilities is the single rule table for role-based permissions.
var RoleCapabilities = map[Role]CapabilitySet{
	RoleUser:    userCapabilities,
	RoleManager: managerCapabilities,
	RoleAdmin:   adminCapabilities,
}

func (u User) Can(c Capability) bool {
	return RoleCapabilities[u.Role].Has(c)
}

// Policy answers per-task permission questions. Ownership (creator or assignee) grants
// every task mutation; capabilities extend that to tasks the caller does not own.
type Policy struct {
	// UsersSeeAllTasks widens USER visibility from owned tasks to the whole collection.
	UsersSeeAllTasks bool
}

func (p Policy) Owns(u User, t Task) bool {
	return t.CreatedBy.ID == u.ID || (t.Assignee != nil && t.Assignee.ID == u.ID)
}

// SeesAllTasks reports whether listing for u skips the ownership restriction.
func (p Policy) SeesAllTasks(u User) bool {
	return p.UsersSeeAllTasks || u.Can(CapViewAnyTask)
}

func (p Policy) CanView(u User, t Task) bool {
	return p.SeesAllTasks(u) || p.Owns(u, t)
}

func (p Policy) CanCreate(u User) bool {
	return u.Can(CapCreateTask)
}

func (p Policy) CanUpdate(u User, t Task) bool {
	return p.Owns(u, t) || u.Can(CapUpdateAnyTask)
}

func (p Policy) CanDelete(u User, t Task) bool {
	return p.Owns(u, t) || u.Can(CapDeleteAnyTask)
}

func (p Policy) CanAssign(u User, t Task) bool {
	return p.Owns(u, t) || u.Can(CapAssignAnyTask)
}

func (p Policy) CanChangeStatus(u User, t Task) bool {
	return p.Owns(u, t) || u.Can(CapChangeAnyStatus)
}

func (p Policy) CanComment(u User, t Task) bool {
	return p.CanView(u, t)
}

func (p Policy) CanEditComment(u User, c Comment, now time.Time) bool {
	return c.Author.ID == u.ID && now.Before(c.CreatedAt.Add(CommentEditWindow))
}

func (p Policy) CanDeleteComment(u User, c Comment) bool {
	return c.Author.ID == u.ID || u.Can(CapModerateComments)
}

// CanViewHistory decides access to an audit trail. When the task still exists the task
// visibility rule applies; for a deleted task the caller must see all tasks or have
// performed one of the recorded actions.
func (p Policy) CanViewHistory(u User, task *Task, entries []HistoryEntry) bool {
	if task != nil {
		return p.CanView(u, *task)
	}
	if p.SeesAllTasks(u) {
		return true
	}
	for _, entry := range entries {
		if entry.PerformedBy.ID == u.ID {
			return true
		}
	}
	return false
}

func (p Policy) CanManageUsers(u User) bool {
	return u.Can(CapManageUsers)
}
