// Package access implements the capability table of the diary backend.
// Every request resolves (identity, entity, action) here before any handler
// logic runs, so ownership and role rules live in one place instead of being
// re-derived per endpoint.
package access

import (
	"github.com/school-diary/diary-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES & ACTIONS
// ══════════════════════════════════════════════════════════════════════════════

// Entity names an entity collection a capability applies to.
type Entity string

const (
	EntityProfile  Entity = "profile"
	EntityLesson   Entity = "lesson"
	EntityPeriod   Entity = "period"
	EntitySchedule Entity = "schedule"
	EntityMark     Entity = "mark"
	EntityHomeTask Entity = "hometask"
	EntityStudent  Entity = "student" // the student roster, as seen by teachers
)

// Action names an operation on an entity collection.
type Action string

const (
	ActionList   Action = "list"
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// capability is one (entity, action) pair.
type capability struct {
	Entity Entity
	Action Action
}

func writes(entity Entity) []capability {
	return []capability{
		{entity, ActionCreate},
		{entity, ActionUpdate},
		{entity, ActionDelete},
	}
}

func reads(entity Entity) []capability {
	return []capability{
		{entity, ActionList},
		{entity, ActionRead},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CAPABILITY TABLE
// ══════════════════════════════════════════════════════════════════════════════

// capabilities maps each role to the set of operations it may perform.
// Row-level restrictions (a teacher only reaches transitively owned rows, a
// student only reaches their own) are applied by the scoped queries and the
// write validator; this table gates the operation itself.
var capabilities = map[shared.Role]map[capability]bool{
	shared.RoleTeacher: buildSet(
		reads(EntityProfile),
		writes(EntityProfile),
		reads(EntityLesson), writes(EntityLesson),
		reads(EntityPeriod), writes(EntityPeriod),
		reads(EntitySchedule), writes(EntitySchedule),
		reads(EntityMark), writes(EntityMark),
		reads(EntityHomeTask), writes(EntityHomeTask),
		reads(EntityStudent),
	),
	shared.RoleStudent: buildSet(
		reads(EntityProfile),
		writes(EntityProfile),
		reads(EntityPeriod),
		reads(EntitySchedule),
		reads(EntityMark),
		reads(EntityHomeTask),
	),
}

func buildSet(groups ...[]capability) map[capability]bool {
	set := make(map[capability]bool)
	for _, group := range groups {
		for _, c := range group {
			set[c] = true
		}
	}
	return set
}

// Check resolves whether the identity may perform the action on the entity.
// Returns shared.ErrUnauthenticated for a missing identity and
// shared.ErrForbidden for a role without the capability. Profile writes are
// limited to the user's own profile by the handlers.
func Check(identity shared.Identity, entity Entity, action Action) error {
	if identity.IsZero() {
		return shared.NewDomainError("access", "Check", shared.ErrUnauthenticated, "no identity")
	}

	set, ok := capabilities[identity.Role]
	if !ok {
		// A user without a profile has a valid token but no diary role.
		return shared.NewDomainError("access", "Check", shared.ErrForbidden, "identity has no diary role")
	}

	if !set[capability{Entity: entity, Action: action}] {
		return shared.NewDomainError("access", "Check", shared.ErrForbidden,
			string(identity.Role)+" may not "+string(action)+" "+string(entity))
	}

	return nil
}
