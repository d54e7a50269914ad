package sync

import (
	"fmt"
	"time"
)

// Job names as used by the CLI runner, lock keys, and metrics
const (
	JobFull           = "full"
	JobPriceTypes     = "pricetypes"
	JobCategories     = "category"
	JobProductDetails = "productdetails"
	JobStocks         = "stocks"
	JobPrices         = "prices"
)

// RunReport summarizes one reconciliation job run
type RunReport struct {
	Job       string
	Partition string
	Fetched   int
	Created   int
	Updated   int
	Deleted   int
	Duration  time.Duration
}

// IsNoop returns true when the run changed nothing locally
func (r RunReport) IsNoop() bool {
	return r.Created == 0 && r.Updated == 0 && r.Deleted == 0
}

// String returns a compact one-line summary for logs
func (r RunReport) String() string {
	return fmt.Sprintf("%s[%s]: fetched=%d created=%d updated=%d deleted=%d in %s",
		r.Job, r.Partition, r.Fetched, r.Created, r.Updated, r.Deleted, r.Duration)
}
