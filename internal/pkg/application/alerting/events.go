package alerting

import (
	"encoding/json"
	"time"

	"github.com/diwise/traffic-metrics-alerting/pkg/types"
)

type AlertCreated struct {
	Alert     types.Alert `json:"alert"`
	Tenant    string      `json:"tenant"`
	Timestamp time.Time   `json:"timestamp"`
}

func (a *AlertCreated) ContentType() string {
	return "application/json"
}
func (a *AlertCreated) TopicName() string {
	return "alerts.alertCreated"
}
func (a *AlertCreated) Body() []byte {
	b, _ := json.Marshal(a)
	return b
}

type AlertUpgraded struct {
	Alert            types.Alert    `json:"alert"`
	PreviousSeverity types.Severity `json:"previousSeverity"`
	Tenant           string         `json:"tenant"`
	Timestamp        time.Time      `json:"timestamp"`
}

func (a *AlertUpgraded) ContentType() string {
	return "application/json"
}
func (a *AlertUpgraded) TopicName() string {
	return "alerts.alertUpgraded"
}
func (a *AlertUpgraded) Body() []byte {
	b, _ := json.Marshal(a)
	return b
}

// RunCompleted carries the per-run summary for external notifiers. Delivery
// mechanics belong to the consumer.
type RunCompleted struct {
	Report    types.RunReport `json:"report"`
	Timestamp time.Time       `json:"timestamp"`
}

func (r *RunCompleted) ContentType() string {
	return "application/json"
}
func (r *RunCompleted) TopicName() string {
	return "alerts.runCompleted"
}
func (r *RunCompleted) Body() []byte {
	b, _ := json.Marshal(r)
	return b
}
