package handler

import (
	"strconv"

	"Child_Shield/internal/service"

	"github.com/gin-gonic/gin"
)

// ContextActorKey holds the service.Actor set by the auth middleware.
const ContextActorKey = "actor"

func SetActor(c *gin.Context, a service.Actor) {
	c.Set(ContextActorKey, a)
}

// actor is only called behind the auth middleware; ok is false otherwise.
func actor(c *gin.Context) (service.Actor, bool) {
	v, ok := c.Get(ContextActorKey)
	if !ok {
		return service.Actor{}, false
	}
	a, ok := v.(service.Actor)
	return a, ok
}

func mustActor(c *gin.Context) (service.Actor, bool) {
	a, ok := actor(c)
	if !ok {
		WriteError(c, service.ErrUnauthorized)
	}
	return a, ok
}

func uintParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
