package entity

const (
	TurnApplied   = "applied"
	TurnRetried   = "invalid_retried"
	TurnExhausted = "invalid_exhausted"
)

// TurnRecord captures one attempted move. Rejected attempts that trigger
// a retry produce their own record, so a transcript replays the whole
// exchange, not just the applied moves.
type TurnRecord struct {
	Index         int    `json:"index"`
	Attempt       int    `json:"attempt"`
	Mover         Color  `json:"mover"`
	BoardBefore   Board  `json:"board_before"`
	Reasoning     string `json:"reasoning"`
	Visualization string `json:"visualization"`
	RawColumn     string `json:"raw_column"`
	Column        int    `json:"column"`
	Outcome       string `json:"outcome"`
	Rejection     string `json:"rejection,omitempty"`
	BoardAfter    *Board `json:"board_after,omitempty"`
}
