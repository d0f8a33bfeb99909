package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Success    bool        `json:"success"`
	View       string      `json:"view,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	RedirectTo string      `json:"redirect_to,omitempty"`
	Error      *Error      `json:"error,omitempty"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success responses
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
	})
}

// View renders a named view. Rejected submissions use a 4xx status and carry
// the view to redisplay, so success follows the status code.
func View(c *gin.Context, statusCode int, view string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: statusCode < http.StatusBadRequest,
		View:    view,
		Data:    data,
	})
}

// Redirect answers a committed mutation with 303 See Other.
func Redirect(c *gin.Context, path string) {
	c.Header("Location", path)
	c.JSON(http.StatusSeeOther, Response{
		Success:    true,
		RedirectTo: path,
	})
}

// Error responses
func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}

func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", message)
}

func InternalServerError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message)
}
