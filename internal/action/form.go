package action

import (
	"net/url"

	"github.com/gin-gonic/gin"
)

const maxFormMemory = 8 << 20

// ReadForm parses an urlencoded or multipart body and returns its values.
// Repeated keys keep their submission order.
func ReadForm(c *gin.Context) (url.Values, error) {
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, err
		}
		return c.Request.PostForm, nil
	}
	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	return c.Request.PostForm, nil
}
