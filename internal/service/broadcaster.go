package service

// Broadcaster pushes messages to dashboard websockets (avoids import cycle)
type Broadcaster interface {
	BroadcastToDashboards(surveyID string, msgType string, payload interface{})
	DashboardCount(surveyID string) int
}

// Message types pushed to dashboards
const (
	MsgReportUpdate    = "report_update"
	MsgResponseArrived = "response_received"
)
