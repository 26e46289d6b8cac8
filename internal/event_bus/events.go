package event_bus

const ScheduleChangedEvent EventType = "schedule.changed"

type ScheduleOperation string

const (
	ScheduleAdded   ScheduleOperation = "added"
	ScheduleDeleted ScheduleOperation = "deleted"
	ScheduleCleared ScheduleOperation = "cleared"
)

// ScheduleChanged is published once the schedule sequence has been persisted.
type ScheduleChanged struct {
	Operation ScheduleOperation
	Count     int
}
