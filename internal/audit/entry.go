package audit

// Entry is one authorization decision in the hash-chained JSONL log.
// All fields are scalar (no map[string]any) to guarantee deterministic
// json.Marshal field order for reproducible hashing.
type Entry struct {
	Timestamp  string `json:"ts"`
	Principal  string `json:"principal"`
	Item       string `json:"item"`
	Operation  string `json:"operation"`
	Decision   string `json:"decision"`
	Reason     string `json:"reason,omitempty"`
	ConfigHash string `json:"config_hash,omitempty"`
	PrevHash   string `json:"prev_hash"`
}

// Decision values recorded in entries.
const (
	DecisionAllowed   = "allowed"
	DecisionDenied    = "denied"
	DecisionCancelled = "cancelled"
)
