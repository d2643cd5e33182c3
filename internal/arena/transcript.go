package arena

import "github.com/rocketscienceinc/connect4-arena/internal/entity"

// Transcript is the append-only ordered log of turn records for one
// match. Append is the only mutation; readers get copies.
type Transcript struct {
	records []entity.TurnRecord
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

func (that *Transcript) Append(record entity.TurnRecord) {
	that.records = append(that.records, record)
}

// Snapshot returns a read-only copy of all records in append order.
func (that *Transcript) Snapshot() []entity.TurnRecord {
	snapshot := make([]entity.TurnRecord, len(that.records))
	copy(snapshot, that.records)
	return snapshot
}

func (that *Transcript) Len() int {
	return len(that.records)
}
