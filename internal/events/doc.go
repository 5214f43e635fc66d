// Package events defines the messages probing workers send to the progress
// reporter and the result appender, and the unbounded queue that carries them.
//
// Each consumer owns one Queue. Workers call Send and never block on the
// consumer's speed; the consumer ranges over C until it sees a close event
// or decides it is done:
//
//	q := events.NewQueue[events.Progress]()
//	go reporter(q.C())
//	q.Send(events.Increment())
//	q.Send(events.Message("Valid device page on 10.0.5.1"))
//	q.Send(events.CloseProgress())
//	q.Close()
package events
