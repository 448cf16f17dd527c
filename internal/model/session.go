package model

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatMessage is one entry in the conversation log. The log is
// append-only; appending always produces a new slice so consumers can
// treat any snapshot they hold as immutable.
type ChatMessage struct {
	Role   Role          `json:"role"`
	Text   string        `json:"text"`
	Voters []VoterRecord `json:"voters,omitempty"`
}

// ChatAnswer is the QA collaborator's structured reply: a conversational
// summary, plus the specific voters it matched when the question asked
// for records.
type ChatAnswer struct {
	Summary string        `json:"summary"`
	Voters  []VoterRecord `json:"voters,omitempty"`
}

// View names the active tab of the session UI.
type View string

const (
	ViewData View = "data"
	ViewChat View = "chat"
)

// DocumentHandle is an ingested document: a self-describing data-URL
// payload (mime type embedded, storable as text), the sniffed mime
// type, and the original file name. Handles are immutable; re-upload
// replaces the handle wholesale.
type DocumentHandle struct {
	DataURL  string
	MimeType string
	Name     string
}
