package middleware

import "context"

// actorIDKey is the key used to store the authenticated staff member's ID.
const actorIDKey = contextKey("actorID")

// GetActorIDFromCtx retrieves the authenticated actor ID from a standard
// context. It returns the ID and a boolean indicating if it was found.
func GetActorIDFromCtx(ctx context.Context) (string, bool) {
	actorID, ok := ctx.Value(actorIDKey).(string)
	if !ok || actorID == "" {
		return "", false
	}
	return actorID, true
}
