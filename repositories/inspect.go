package repositories

import (
	"fmt"
	"strings"
	"time"

	"github.com/mama165/sdk-go/database"
)

// InspectRecord renders one Badger entry for the debug inspector.
// Index keys only hold an id, so they are shown as is.
func InspectRecord(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	switch {
	case strings.HasPrefix(key, "user:"):
		user, err := decodeUser(val)
		if err != nil {
			row.Detail = "Error: decode failed"
			return row
		}
		row.Type = "USER"
		row.Detail = fmt.Sprintf("%s <%s> %s", user.Name, user.Email, user.Role)
	case strings.HasPrefix(key, "msg:"):
		message, err := decodeMessage(val)
		if err != nil {
			row.Detail = "Error: decode failed"
			return row
		}
		row.Type = "MESSAGE"
		row.Detail = fmt.Sprintf("%s -> %s [%s] %s %q",
			message.SenderID, message.ReceiverID, message.Status,
			message.SentAt.Format(time.RFC3339), message.Text)
	default:
		row.Type = "INDEX"
		row.Detail = string(val)
	}
	return row
}
