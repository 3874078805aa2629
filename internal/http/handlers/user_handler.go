// README: User handlers for profile sync and admin listing.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourvisto/internal/http/middleware"
	"tourvisto/internal/modules/user"
)

type UserHandler struct {
	users *user.Service
}

func NewUserHandler(svc *user.Service) *UserHandler {
	return &UserHandler{users: svc}
}

// SyncMe stores the caller's profile from their token claims on first sign-in.
func (h *UserHandler) SyncMe(c *gin.Context) {
	u, created, err := h.users.Sync(c.Request.Context(), user.Profile{
		AccountID: middleware.CallerUID(c),
		Email:     middleware.CallerClaim(c, "email"),
		Name:      middleware.CallerClaim(c, "name"),
		ImageURL:  middleware.CallerClaim(c, "picture"),
	})
	if err != nil {
		writeUserError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(c, status, u)
}

func (h *UserHandler) GetMe(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), middleware.CallerUID(c))
	if err != nil {
		writeUserError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, u)
}

func (h *UserHandler) List(c *gin.Context) {
	limit, offset, ok := pageParams(c)
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid paging parameters")
		return
	}
	users, total, err := h.users.List(c.Request.Context(), limit, offset)
	if err != nil {
		writeUserError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"users": users, "total": total})
}
