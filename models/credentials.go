package models

// Credentials identify the actor on whose behalf an operation runs. They are
// resolved by the host application's authentication and injected in the
// request context; an ActorId of 0 means anonymous or system.
type Credentials struct {
	ActorId int64
}
