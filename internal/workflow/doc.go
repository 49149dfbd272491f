// Package workflow runs mkvinfo inspections and mkvextract jobs on a worker
// goroutine and hands their outcome back through event channels.
//
// Inspector walks the requested files strictly in the order given so the
// first file still decides the order of the intersection. Extractor launches
// one mkvextract process per planned job, one after another, and reports
// progress percentages as the tool prints them. Neither runner touches the
// working set; callers fold the results in after Wait returns.
//
// Events are the only handoff between the worker and the caller. Wait drains
// whatever the caller did not read, so a caller that only wants the final
// result may ignore Events entirely.
package workflow
