package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/middleware"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/internal/policy"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/pkg/apperr"
	"github.com/petersonprojetos/plano-aquisicao-tic-sub001/pkg/response"
)

// fail translates a service error into the standard error envelope, carrying
// the machine-readable kind so clients can distinguish guard failures from
// permission or validation errors
func fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	c.JSON(status, response.ErrorWithCode(status, string(apperr.KindOf(err)), err.Error()))
}

// actor resolves the authenticated identity or aborts with 401
func actor(c *gin.Context) (policy.Actor, bool) {
	a, ok := middleware.ActorFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication required"))
		return policy.Actor{}, false
	}
	return a, true
}
