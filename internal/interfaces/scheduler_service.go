package interfaces

// SchedulerService registers named daily jobs against cron-style schedules
// and runs them one at a time. The posting pipeline stays scheduler-agnostic:
// tests invoke the cycle function directly.
type SchedulerService interface {
	RegisterDaily(name, schedule string, fn func()) error
	Start() error
	Stop() error
	IsRunning() bool
}
