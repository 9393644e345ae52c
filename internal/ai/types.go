package ai

// Actions a classification result can carry. Unknown or missing
// actions are coerced to "add" at the resolver boundary.
const (
	ActionAdd    = "add"
	ActionDelete = "delete"
	ActionRemind = "remind"
)

// Result is a single provider judgment about a note or a fragment of
// it. One note submission may yield several results when the provider
// splits the note into distinct ideas.
type Result struct {
	MakesSense bool   `json:"makes_sense"`
	Action     string `json:"action"`
	Group      string `json:"group"`
	Subgroup   string `json:"subgroup"`
	Idea       string `json:"idea"`
	RemindAt   string `json:"remind_at"`
	URL        string `json:"url"`
	Reason     string `json:"reason"`
}

// Subgroup is one node of the taxonomy snapshot sent to the provider.
type Subgroup struct {
	Name  string   `json:"name"`
	Ideas []string `json:"ideas"`
}

// Group is a top-level taxonomy node with its direct ideas and
// subgroups.
type Group struct {
	Name      string     `json:"name"`
	Ideas     []string   `json:"ideas"`
	Subgroups []Subgroup `json:"subgroups"`
}
