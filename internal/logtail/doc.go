// Package logtail reads the tail of the xivoverlay log file for the TUI log
// view.
//
// Read uses a ring buffer of maxLines entries so only the tail is kept in
// memory regardless of file size. FilterLevel narrows lines written by slog's
// text handler to a minimum severity; lines without a level attribute are
// kept.
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//	if err != nil {
//		slog.Warn("read log tail", "error", err)
//	}
//	lines = logtail.FilterLevel(lines, logtail.LevelWarn)
package logtail
