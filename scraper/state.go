package scraper

// State is a step of the single-page pipeline. A run moves strictly forward:
// AwaitInput, Rendering, WritingMarkdown, CallingSummarizer, then either
// WritingSummary or ReportingFailure, then Done.
type State int

const (
	StateAwaitInput State = iota
	StateRendering
	StateWritingMarkdown
	StateCallingSummarizer
	StateWritingSummary
	StateReportingFailure
	StateDone
)

var stateNames = [...]string{
	StateAwaitInput:        "await_input",
	StateRendering:         "rendering",
	StateWritingMarkdown:   "writing_markdown",
	StateCallingSummarizer: "calling_summarizer",
	StateWritingSummary:    "writing_summary",
	StateReportingFailure:  "reporting_failure",
	StateDone:              "done",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// StateObserver is told about every state a run enters
type StateObserver func(State)
