package discord

import (
	"errors"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

var (
	ErrCrossGuildLink  = errors.New("message link belongs to another guild")
	ErrInvalidMessage  = errors.New("invalid message reference")
	ErrChannelNotFound = errors.New("channel not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrForbidden       = errors.New("missing permissions")
)

// restCode returns the Discord JSON error code and HTTP status of err.
func restCode(err error) (code int, status int) {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return 0, 0
	}
	if restErr.Message != nil {
		code = restErr.Message.Code
	}
	if restErr.Response != nil {
		status = restErr.Response.StatusCode
	}
	return code, status
}

func isNotFound(err error, code int) bool {
	c, status := restCode(err)
	return c == code || status == http.StatusNotFound
}

// IsForbidden reports whether Discord refused a request for lack of permissions.
func IsForbidden(err error) bool {
	if errors.Is(err, ErrForbidden) {
		return true
	}
	code, status := restCode(err)
	return code == discordgo.ErrCodeMissingPermissions || status == http.StatusForbidden
}
