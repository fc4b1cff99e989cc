package action

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Respond writes r to the client. Redirects use 303 so a browser form POST
// turns into a GET of the listing.
func Respond(c *gin.Context, r Result) {
	switch r.Kind {
	case KindRedirect:
		c.Redirect(http.StatusSeeOther, r.Redirect)
	case KindDone:
		c.Status(http.StatusNoContent)
	case KindInvalid:
		c.JSON(http.StatusUnprocessableEntity, r.State)
	case KindNotFound:
		c.JSON(http.StatusNotFound, r.State)
	default:
		c.JSON(http.StatusInternalServerError, r.State)
	}
}
