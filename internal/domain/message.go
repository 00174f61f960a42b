package domain

const (
	// MessageID is the id of the only greeting row.
	MessageID int64 = 1
	// DefaultMessage is served when nothing has been stored yet.
	DefaultMessage = "Hello from FastAPI!"
)

type Message struct {
	ID      int64  `json:"-" db:"id"`
	Message string `json:"message" db:"message"`
}
