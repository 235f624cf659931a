package csvfile

import (
	"github.com/aarondl/opt/null"
)

// CsvFile is the registration record of a source file. A null LoadedDate
// means the file has not been applied to the ledger.
type CsvFile struct {
	ID         int64            `db:"id"`
	AgentID    null.Val[int64]  `db:"agent_id"`
	Name       string           `db:"name"`
	OrgName    null.Val[string] `db:"org_name"`
	LoadedDate null.Val[string] `db:"loaded_date"`
}

func (c *CsvFile) IsLoaded() bool {
	return c.LoadedDate.IsValue()
}

// Agent is the producer label a csv file was registered under.
type Agent struct {
	ID         int64            `db:"id"`
	Name       string           `db:"name"`
	PromptFile null.Val[string] `db:"prompt_file"`
}

// TimestampLayout is the layout of loaded_date.
const TimestampLayout = "2006-01-02 15:04:05"

const (
	tableName      = "csvfiles"
	agentTableName = "agents"
)

var (
	columns      = []any{"id", "agent_id", "name", "org_name", "loaded_date"}
	agentColumns = []any{"id", "name", "prompt_file"}
)
