// Package jobs runs scheduled background work with github.com/robfig/cron/v3.
//
// # Available Jobs
//
// PendingReviewDigestJob emails all admins a summary of orders that have been
// waiting for shipping charges longer than a minimum age. It runs hourly by
// default ("0 0 * * * *", seconds included).
//
// # Usage
//
//	digest := jobs.NewPendingReviewDigestJob(orders, planner, runner, "", time.Hour, logger)
//	jobManager := jobs.NewJobManager(digest)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal(err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed run is logged and retried on the next tick. Email failures inside a
// digest are reported per recipient and never stop the job.
package jobs
