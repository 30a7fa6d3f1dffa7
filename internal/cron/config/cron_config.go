package cron_config

type Config struct {
	CronScheduleHeartbeat      string `env:"CRON_SCHEDULE_HEARTBEAT" envDefault:"0 * * * * *"`
	CronScheduleUnreadRefresh  string `env:"CRON_SCHEDULE_UNREAD_REFRESH" envDefault:"0 */10 * * * *"`
	CronSchedulePruneScanAudit string `env:"CRON_SCHEDULE_PRUNE_SCAN_AUDIT" envDefault:"0 0 3 * * *"`
}
