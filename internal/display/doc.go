// Package display owns everything that touches the screen.
//
// All display work is funnelled through a Thread: a goroutine locked to one
// OS thread that runs submitted functions in order. Callers block in Call
// until the function returns.
//
// Two Display implementations exist. Process spawns a renderer helper per
// window and talks newline-delimited JSON to it:
//
//	-> {"id":1,"op":"create","title":"DPS","width":420,"height":260}
//	<- {"id":1,"ok":true}
//	-> {"id":2,"op":"load","url":"http://localhost:8080/dps"}
//	<- {"id":2,"error":"navigation failed"}
//	<- {"event":"closed"}
//
// The helper exiting counts as the window closing. Headless keeps windows in
// memory and logs every operation.
package display
