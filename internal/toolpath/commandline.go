package toolpath

// CommandLine renders the display form of an invocation of path with
// the raw argument string args. On POSIX hosts the path is shown as
// is; elsewhere it is double-quoted so paths with embedded spaces read
// as a single token. The result is for logs and diagnostics only, it
// is never handed back to a shell.
func (r *Resolver) CommandLine(path, args string) string {
	quoted := path
	if !r.unix {
		quoted = `"` + path + `"`
	}
	if args == "" {
		return quoted
	}
	return quoted + " " + args
}
