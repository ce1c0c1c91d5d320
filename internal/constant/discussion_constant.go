package constant

import "time"

// PurgeWindow is how long a closed limited discussion is kept before it is
// removed entirely. Measured from the original deadline, not the close
// event, so both transitions derive from limited_time alone.
const PurgeWindow = 7 * 24 * time.Hour

// LimitOptions are the selectable durations offered when creating a
// limited discussion.
var LimitOptions = []string{
	"1 Hour",
	"2 Hours",
	"3 Hours",
	"6 Hours",
	"12 Hours",
	"All Day",
}

// LifecycleTopic is the in-process bus topic carrying lifecycle transitions
// from the evaluators to the room notifier.
const LifecycleTopic = "DISCUSSION_LIFECYCLE"

const (
	TransitionClosed = "closed"
	TransitionPurged = "purged"
)
