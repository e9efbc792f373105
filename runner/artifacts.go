package runner

// ShouldRecord reports whether a trace is recorded during the given attempt.
// retry is zero-based: 0 is the first run, 1 the first retry.
func (m TraceMode) ShouldRecord(retry int) bool {
	switch m {
	case TraceOn, TraceRetainOnFailure:
		return true
	case TraceOnFirstRetry:
		return retry == 1
	case TraceOnAllRetries:
		return retry > 0
	case TraceRetainOnFirstFailure:
		return retry == 0
	default:
		return false
	}
}

// ShouldRetain reports whether a recorded trace is kept once the attempt ends.
func (m TraceMode) ShouldRetain(retry int, failed bool) bool {
	if !m.ShouldRecord(retry) {
		return false
	}
	switch m {
	case TraceRetainOnFailure, TraceRetainOnFirstFailure:
		return failed
	default:
		return true
	}
}

// ShouldRetain reports whether a screenshot is taken and kept at the end of
// the given attempt.
func (m ScreenshotMode) ShouldRetain(retry int, failed bool) bool {
	switch m {
	case ScreenshotOn:
		return true
	case ScreenshotOnlyOnFailure:
		return failed
	case ScreenshotOnFirstFailure:
		return failed && retry == 0
	default:
		return false
	}
}

// ShouldRecord reports whether video is recorded during the given attempt.
func (m VideoMode) ShouldRecord(retry int) bool {
	switch m {
	case VideoOn, VideoRetainOnFailure:
		return true
	case VideoOnFirstRetry:
		return retry == 1
	default:
		return false
	}
}

// ShouldRetain reports whether a recorded video is kept once the attempt ends.
func (m VideoMode) ShouldRetain(retry int, failed bool) bool {
	if !m.ShouldRecord(retry) {
		return false
	}
	if m == VideoRetainOnFailure {
		return failed
	}
	return true
}

// ArtifactPlan says which artifacts an attempt records and which survive it.
type ArtifactPlan struct {
	Retry  int
	Failed bool

	RecordTrace bool
	KeepTrace   bool

	KeepScreenshot bool

	RecordVideo bool
	KeepVideo   bool
}

// Plan resolves the capture modes for one attempt with a known outcome.
func (u UseOptions) Plan(retry int, failed bool) ArtifactPlan {
	return ArtifactPlan{
		Retry:          retry,
		Failed:         failed,
		RecordTrace:    u.Trace.ShouldRecord(retry),
		KeepTrace:      u.Trace.ShouldRetain(retry, failed),
		KeepScreenshot: u.Screenshot.ShouldRetain(retry, failed),
		RecordVideo:    u.Video.ShouldRecord(retry),
		KeepVideo:      u.Video.ShouldRetain(retry, failed),
	}
}
