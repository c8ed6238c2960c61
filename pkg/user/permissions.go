package user

// Permissions is the flat permission gate consumed by the event service.
// The services never compute these flags themselves; they only branch on
// the result.
type Permissions struct{}

// CanModifyEvent reports whether actor may mutate an event created by
// creatorID. Creators and admins may; everyone else may not.
func (Permissions) CanModifyEvent(actor User, creatorID string) bool {
	if actor.IsAdmin {
		return true
	}
	return creatorID != "" && actor.ID == creatorID
}

// CanCreateEvent reports whether actor may create new events.
func (Permissions) CanCreateEvent(actor User) bool {
	return actor.IsAdmin || actor.CanCreateEvents
}
